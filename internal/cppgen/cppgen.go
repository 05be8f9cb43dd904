// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cppgen emits the C++ glue: a self-contained header of wrapper
// declarations and an implementation file of wrapper definitions which
// marshal by-value and by-reference conventions across the ABI boundary.
package cppgen

import (
	"embed"
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
)

//go:embed all:templates
var templates embed.FS

// Output is the pair of generated C++ artifacts.
type Output struct {
	// Declarations is the header contents.
	Declarations string
	// Definitions is the implementation file contents.
	Definitions string
	// HeaderName is the file name the definitions include.
	HeaderName string
}

// Options tune emission.
type Options struct {
	// HeaderName overrides the generated header file name.
	HeaderName string
	// SuppressSystemHeaders leaves out <memory> and friends, for build
	// systems which inject them otherwise.
	SuppressSystemHeaders bool
}

type includeEntry struct {
	Spelling string
}

type textEntry struct {
	Text string
}

type functionEntry struct {
	Declaration string
	Definition  string
}

// Generate renders the two artifacts, or an empty Output if no glue is
// needed (every binding was direct).
func Generate(apis *api.ApiVec, cfg *directive.IncludeCppConfig, opts Options) (*Output, error) {
	g := &generator{apis: apis, cfg: cfg}
	headerName := opts.HeaderName
	if headerName == "" {
		headerName = "autocxxgen_" + cfg.ModName + ".h"
	}
	model := map[string]any{
		"Guard":      guardFor(headerName),
		"HeaderName": headerName,
	}

	var includes []includeEntry
	if !opts.SuppressSystemHeaders {
		includes = append(includes,
			includeEntry{"<memory>"},
			includeEntry{"<string>"},
			includeEntry{"<utility>"},
		)
	}
	for _, inc := range cfg.Inclusions {
		includes = append(includes, includeEntry{fmt.Sprintf("%q", inc)})
	}
	includes = append(includes, includeEntry{`"cxx.h"`})
	model["Includes"] = includes

	typeDecls, classDefs := g.typeDeclarations()
	model["TypeDeclarations"] = typeDecls
	model["ClassDefinitions"] = classDefs
	functions := g.functions()
	model["Functions"] = functions

	if len(typeDecls) == 0 && len(classDefs) == 0 && len(functions) == 0 {
		return &Output{HeaderName: headerName}, nil
	}

	header, err := renderTemplate("templates/header.h.mustache", model)
	if err != nil {
		return nil, err
	}
	impl, err := renderTemplate("templates/impl.cc.mustache", model)
	if err != nil {
		return nil, err
	}
	return &Output{
		Declarations: header,
		Definitions:  impl,
		HeaderName:   headerName,
	}, nil
}

func renderTemplate(name string, model map[string]any) (string, error) {
	raw, err := templates.ReadFile(name)
	if err != nil {
		return "", err
	}
	out, err := mustache.Render(string(raw), model)
	if err != nil {
		return "", fmt.Errorf("cannot render %s: %w", name, err)
	}
	return collapseBlankLines(out), nil
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func guardFor(headerName string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(headerName) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String() + "_"
}

type generator struct {
	apis *api.ApiVec
	cfg  *directive.IncludeCppConfig
}

// typeDeclarations emits typedefs for synthesised concrete types, forward
// declarations, and subclass peer classes.
func (g *generator) typeDeclarations() ([]textEntry, []textEntry) {
	var decls []textEntry
	var defs []textEntry
	for _, a := range g.apis.Iter() {
		switch a.Kind {
		case api.ConcreteTypeKind:
			decls = append(decls, textEntry{
				Text: fmt.Sprintf("typedef %s %s;", a.CppDefinition, a.QName().FinalItem()),
			})
		case api.ForwardDeclarationKind:
			decls = append(decls, forwardDeclaration(a))
		case api.SubclassKind:
			decls = append(decls, g.subclassPeerDeclaration(a))
		}
	}
	return decls, defs
}

func forwardDeclaration(a *api.Api) textEntry {
	qn := a.QName()
	var sb strings.Builder
	for _, seg := range qn.Namespace().Segments() {
		fmt.Fprintf(&sb, "namespace %s { ", seg)
	}
	fmt.Fprintf(&sb, "class %s;", qn.FinalItem())
	for range qn.Namespace().Segments() {
		sb.WriteString(" }")
	}
	return textEntry{Text: sb.String()}
}

// functions walks analysed APIs and produces every wrapper, helper and
// forwarder the bridge expects.
func (g *generator) functions() []functionEntry {
	var out []functionEntry
	for _, a := range g.apis.Iter() {
		switch a.Kind {
		case api.StringConstructorKind:
			out = append(out, makeStringFunction())
		case api.FunctionKind:
			if a.FnAnalysis == nil || !a.FnAnalysis.ExternallyCallable || !a.FnAnalysis.CppWrapper {
				continue
			}
			out = append(out, g.wrapperFunction(a))
		}
	}
	return out
}

func makeStringFunction() functionEntry {
	decl := "std::unique_ptr<std::string> make_string(::rust::Str str);"
	def := "std::unique_ptr<std::string> make_string(::rust::Str str) { return std::make_unique<std::string>(std::string(str)); }"
	return functionEntry{Declaration: decl, Definition: def}
}
