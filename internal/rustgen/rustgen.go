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

// Package rustgen walks the analysed API vector and emits the Rust module:
// the flat #[cxx::bridge] declaration, safe wrapper impls, subclass traits,
// namespace re-exports and documented stubs for ignored items.
package rustgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Generate renders the full Rust output module.
func Generate(apis *api.ApiVec, cfg *directive.IncludeCppConfig) (string, error) {
	g := &generator{apis: apis, cfg: cfg}
	return g.generate()
}

type generator struct {
	apis *api.ApiVec
	cfg  *directive.IncludeCppConfig
	sb   strings.Builder
	// indent is the current emission depth.
	indent int
}

func (g *generator) line(format string, args ...any) {
	if format == "" {
		g.sb.WriteByte('\n')
		return
	}
	g.sb.WriteString(strings.Repeat("    ", g.indent))
	fmt.Fprintf(&g.sb, format, args...)
	g.sb.WriteByte('\n')
}

func (g *generator) docLines(doc string) {
	for _, l := range formatDocComments(doc) {
		g.line("%s", l)
	}
}

func (g *generator) generate() (string, error) {
	g.line("#[allow(non_snake_case)]")
	g.line("#[allow(dead_code)]")
	g.line("#[allow(non_upper_case_globals)]")
	g.line("#[allow(non_camel_case_types)]")
	g.line("pub mod %s {", g.cfg.ModName)
	g.indent++

	g.emitBindgenMod()
	g.emitBridgeMod()
	g.emitNamespaceMods()
	g.emitImplBlocks()
	g.emitSubclassSupport()
	g.emitIgnoredStubs()

	g.indent--
	g.line("}")
	return g.sb.String(), nil
}

// emitBindgenMod keeps the bindgen::root namespace alive: generated paths
// such as bindgen::root::A::Foo resolve against the bridge declarations.
func (g *generator) emitBindgenMod() {
	g.line("/// Definitions derived from the C++ headers. Items the bridge can")
	g.line("/// express directly live in [`cxxbridge`]; this module preserves the")
	g.line("/// namespace layout for path references in generated code.")
	g.line("pub mod bindgen {")
	g.indent++
	g.line("pub mod root {")
	g.indent++
	g.line("pub use super::super::cxxbridge::*;")
	g.emitBindgenNamespaceSkeleton()
	g.indent--
	g.line("}")
	g.indent--
	g.line("}")
	g.line("")
}

// namespaceTree collects which namespaces exist.
func (g *generator) namespaceTree() map[string][]string {
	children := make(map[string]map[string]bool)
	note := func(ns names.Namespace) {
		segs := ns.Segments()
		parent := ""
		for _, s := range segs {
			if children[parent] == nil {
				children[parent] = make(map[string]bool)
			}
			children[parent][s] = true
			if parent == "" {
				parent = s
			} else {
				parent = parent + "::" + s
			}
		}
	}
	for _, a := range g.apis.Iter() {
		note(a.QName().Namespace())
	}
	out := make(map[string][]string)
	for parent, kids := range children {
		for k := range kids {
			out[parent] = append(out[parent], k)
		}
		sort.Strings(out[parent])
	}
	return out
}

func (g *generator) emitBindgenNamespaceSkeleton() {
	tree := g.namespaceTree()
	var emit func(prefix string)
	emit = func(prefix string) {
		for _, child := range tree[prefix] {
			full := child
			if prefix != "" {
				full = prefix + "::" + child
			}
			g.line("pub mod %s {", child)
			g.indent++
			g.line("pub use super::*;")
			emit(full)
			g.indent--
			g.line("}")
		}
	}
	emit("")
}

func (g *generator) emitBridgeMod() {
	g.line("#[cxx::bridge]")
	g.line("pub mod cxxbridge {")
	g.indent++

	// Shared structs and enums first: cxx requires them at the top level
	// of the bridge.
	for _, a := range g.apis.Iter() {
		switch a.Kind {
		case api.StructKind:
			if a.PodAnalysis != nil && a.PodAnalysis.Kind == api.Pod {
				g.emitPodStruct(a)
			}
		case api.EnumKind:
			g.emitEnum(a)
		}
	}

	g.line("unsafe extern \"C++\" {")
	g.indent++
	for _, inc := range g.cfg.Inclusions {
		g.line("include!(%q);", inc)
	}
	g.line("include!(\"cxx.h\");")
	g.line("")
	for _, a := range g.apis.Iter() {
		switch a.Kind {
		case api.StructKind:
			if a.PodAnalysis == nil || a.PodAnalysis.Kind == api.Pod {
				continue
			}
			g.emitOpaqueType(a)
		case api.ConcreteTypeKind:
			g.line("type %s;", a.QName().FinalItem())
		case api.ExternCppTypeKind:
			g.line("type %s = %s;", a.QName().FinalItem(), a.ExternCppType.RustPath)
		case api.CTypeKind:
			g.line("type %s = autocxx::%s;", a.QName().FinalItem(), a.QName().FinalItem())
		case api.SubclassKind:
			g.line("type %s;", a.Subclass.CppPeer)
		case api.FunctionKind:
			g.emitBridgeFn(a)
		case api.StringConstructorKind:
			g.line("fn make_string(str_: &str) -> UniquePtr<CxxString>;")
		}
	}
	g.indent--
	g.line("}")

	if g.hasRustItems() {
		g.line("extern \"Rust\" {")
		g.indent++
		for _, a := range g.apis.Iter() {
			switch a.Kind {
			case api.RustTypeKind:
				g.line("type %s;", a.QName().FinalItem())
			case api.RustFnKind:
				g.line("%s;", a.RustFn.Signature)
			case api.SubclassKind:
				g.line("type %s;", a.QName().FinalItem())
				g.line("type %s;", a.Subclass.Holder)
			case api.RustSubclassFnKind:
				g.emitSubclassForwarderDecl(a)
			}
		}
		g.indent--
		g.line("}")
	}

	g.indent--
	g.line("}")
	g.line("")
}

func (g *generator) hasRustItems() bool {
	for _, a := range g.apis.Iter() {
		switch a.Kind {
		case api.RustTypeKind, api.RustFnKind, api.SubclassKind, api.RustSubclassFnKind:
			return true
		}
	}
	return false
}

func (g *generator) emitPodStruct(a *api.Api) {
	g.docLines(a.Doc)
	if !a.QName().Namespace().IsEmpty() {
		g.line("#[namespace = %q]", a.QName().Namespace().String())
	}
	g.line("#[derive(Clone, Copy)]")
	g.line("struct %s {", a.QName().FinalItem())
	g.indent++
	for _, f := range a.Struct.Fields {
		if f.Name == "vtable_" || strings.HasPrefix(f.Name, "_base") {
			continue
		}
		g.line("%s: %s,", escapeRustIdent(f.Name), bridgeTypeSpelling(f.Type))
	}
	g.indent--
	g.line("}")
	g.line("")
}

func (g *generator) emitEnum(a *api.Api) {
	g.docLines(a.Doc)
	if !a.QName().Namespace().IsEmpty() {
		g.line("#[namespace = %q]", a.QName().Namespace().String())
	}
	repr := a.Enum.Repr
	if repr == "" {
		repr = "i32"
	}
	g.line("#[repr(%s)]", repr)
	g.line("enum %s {", a.QName().FinalItem())
	g.indent++
	for _, v := range a.Enum.Values {
		g.line("%s = %d,", escapeRustIdent(v.Name), v.Value)
	}
	g.indent--
	g.line("}")
	g.line("")
}

func (g *generator) emitOpaqueType(a *api.Api) {
	g.docLines(a.Doc)
	if !a.QName().Namespace().IsEmpty() {
		g.line("#[namespace = %q]", a.QName().Namespace().String())
	}
	if a.Name.CppName != "" {
		g.line("#[cxx_name = %q]", a.Name.EffectiveCppName())
	}
	g.line("type %s;", a.QName().FinalItem())
}

func (g *generator) emitBridgeFn(a *api.Api) {
	an := a.FnAnalysis
	if an == nil || !an.ExternallyCallable {
		return
	}
	g.docLines(a.Doc)
	ns := a.QName().Namespace()
	if !ns.IsEmpty() && !an.CppWrapper {
		// Wrappers are emitted at global scope on the C++ side, so the
		// namespace attribute only applies to direct calls.
		g.line("#[namespace = %q]", ns.String())
	}
	bridgeIdent := an.BridgeFnName()
	if !an.CppWrapper && bridgeIdent != an.CppCallName {
		g.line("#[cxx_name = %q]", an.CppCallName)
	}
	if !an.RustWrapper && bridgeIdent != an.RustName {
		g.line("#[rust_name = %q]", an.RustName)
	}
	unsafeKw := ""
	if an.Unsafety != api.UnsafetyNone {
		unsafeKw = "unsafe "
	}
	g.line("%sfn %s(%s)%s;", unsafeKw, bridgeIdent, g.bridgeParams(an), bridgeReturn(an))
}

// bridgeParams renders the parameter list of a bridge declaration.
func (g *generator) bridgeParams(an *api.FnAnalysis) string {
	var parts []string
	for _, p := range an.Params {
		if p.IsSelf {
			selfTy := an.Kind.ImplFor.FinalItem()
			switch {
			case p.Conversion.CppConversion == api.IgnoredPlacementPtrParameter:
				// Placement destination of a constructor.
				parts = append(parts, fmt.Sprintf("autocxx_gen_this: *mut %s", selfTy))
			case an.CppWrapper:
				// Wrappers are free functions; the receiver
				// travels as an explicit first argument.
				if p.SelfMutable {
					parts = append(parts, fmt.Sprintf("autocxx_gen_this: Pin<&mut %s>", selfTy))
				} else {
					parts = append(parts, fmt.Sprintf("autocxx_gen_this: &%s", selfTy))
				}
			default:
				if p.SelfMutable {
					parts = append(parts, fmt.Sprintf("self: Pin<&mut %s>", selfTy))
				} else {
					parts = append(parts, fmt.Sprintf("self: &%s", selfTy))
				}
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", escapeRustIdent(p.Name), bridgeTypeSpelling(p.Conversion.BridgeType())))
	}
	return strings.Join(parts, ", ")
}

func bridgeReturn(an *api.FnAnalysis) string {
	if an.Ret == nil {
		return ""
	}
	return " -> " + bridgeTypeSpelling(an.Ret.BridgeType())
}

func (g *generator) emitSubclassForwarderDecl(a *api.Api) {
	d := a.RustSubclassFn
	var parts []string
	parts = append(parts, fmt.Sprintf("me: &mut %s", d.Subclass.FinalItem()))
	for _, p := range d.Method.Params {
		if p.Name == "this" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", escapeRustIdent(p.Name), bridgeTypeSpelling(p.Type)))
	}
	ret := ""
	if d.Method.Ret != nil {
		ret = " -> " + bridgeTypeSpelling(d.Method.Ret)
	}
	g.line("fn %s(%s)%s;", d.CppForwarderName, strings.Join(parts, ", "), ret)
}

// bridgeTypeSpelling renders a converted type the way the flat bridge mod
// spells it: namespace paths collapse to the final identifier, known types
// keep their cxx spellings.
func bridgeTypeSpelling(t *ty.Type) string {
	if t.IsUnit() {
		return "()"
	}
	switch t.Kind {
	case ty.PathKind:
		base := bridgePathBase(t)
		if len(t.Args) == 0 {
			return base
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = bridgeTypeSpelling(a)
		}
		return fmt.Sprintf("%s<%s>", base, strings.Join(args, ", "))
	case ty.ReferenceKind:
		if t.Mutable {
			return "&mut " + bridgeTypeSpelling(t.Inner)
		}
		return "&" + bridgeTypeSpelling(t.Inner)
	case ty.PointerKind:
		if t.Mutable {
			return "*mut " + bridgeTypeSpelling(t.Inner)
		}
		return "*const " + bridgeTypeSpelling(t.Inner)
	case ty.RValueReferenceKind:
		// Never reaches the bridge; analysis replaced it.
		return bridgeTypeSpelling(t.Inner)
	case ty.ArrayKind:
		return fmt.Sprintf("[%s; %d]", bridgeTypeSpelling(t.Inner), t.Len)
	case ty.FnPointerKind:
		return t.String()
	}
	return t.String()
}

func bridgePathBase(t *ty.Type) string {
	segs := t.Segments
	switch {
	case len(segs) == 1:
		return segs[0]
	case segs[0] == "root":
		return segs[len(segs)-1]
	case segs[0] == "cxx":
		return segs[len(segs)-1]
	case segs[len(segs)-1] == "Pin":
		return "Pin"
	case segs[len(segs)-1] == "Box":
		return "Box"
	default:
		return strings.Join(segs, "::")
	}
}

func escapeRustIdent(id string) string {
	if names.RustKeywords[id] {
		return id + "_"
	}
	return id
}
