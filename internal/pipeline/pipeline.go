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

// Package pipeline drives the staged analysis: directive parsing feeds the
// ingester, analyses run leaves-first over a single owned API vector, and
// the two codegen back-ends consume the final vector. Everything is
// single-threaded; parallelism only ever exists between pipeline runs.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/ghodss/yaml"

	"github.com/google/autocxx-sub001/internal/abstracts"
	"github.com/google/autocxx-sub001/internal/accessors"
	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/clangast"
	"github.com/google/autocxx-sub001/internal/convert"
	"github.com/google/autocxx-sub001/internal/cppgen"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/fun"
	"github.com/google/autocxx-sub001/internal/gc"
	"github.com/google/autocxx-sub001/internal/ingest"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/pod"
	"github.com/google/autocxx-sub001/internal/rustgen"
	"github.com/google/autocxx-sub001/internal/subclass"
)

// Options tune one pipeline run.
type Options struct {
	Cpp cppgen.Options
}

// Result is everything one include_cpp! block generates.
type Result struct {
	// Rust is the generated module source.
	Rust string
	// Cpp is the header/implementation pair.
	Cpp *cppgen.Output
	// Apis is the final vector, retained for reporting.
	Apis *api.ApiVec
	// Config echoes the parsed directive.
	Config *directive.IncludeCppConfig
}

// Run parses a directive body, ingests the parser document, and produces
// both artifacts.
func Run(directiveBody string, parserDoc []byte, opts Options) (*Result, error) {
	cfg, err := directive.Parse(directiveBody)
	if err != nil {
		return nil, fmt.Errorf("cannot parse include_cpp directive: %w", err)
	}
	astFile, err := clangast.Load(parserDoc)
	if err != nil {
		return nil, err
	}
	return Execute(cfg, astFile, opts)
}

// Execute runs the analysis stages over an already-parsed configuration and
// parser document.
func Execute(cfg *directive.IncludeCppConfig, astFile *clangast.File, opts Options) (*Result, error) {
	apis := ingest.Ingest(astFile, cfg)
	slog.Debug("ingested parser output", "apis", apis.Len())
	if apis.Len() == 0 {
		return nil, api.NewConvertError(api.NoContent)
	}

	tc := convert.NewTypeConverter(apis, cfg)
	convert.ResolveTypedefs(apis, tc)
	if err := pod.Analyze(apis, cfg, tc); err != nil {
		return nil, err
	}
	analyzer := fun.Analyze(apis, cfg, tc)
	// Subclass expansion must see the superclass's constructors, which
	// abstract-type marking strips for abstract superclasses.
	subclass.Expand(apis, analyzer)
	abstracts.MarkTypesAbstract(apis, cfg)
	accessors.Synthesize(apis, cfg, analyzer)
	abstracts.DiscardIgnoredFunctions(apis)
	if err := gc.Run(apis, cfg); err != nil {
		return nil, err
	}

	result := &Result{Apis: apis, Config: cfg}
	if cfg.ParseOnly {
		return result, nil
	}
	rust, err := rustgen.Generate(apis, cfg)
	if err != nil {
		return nil, fmt.Errorf("rust codegen: %w", err)
	}
	result.Rust = rust
	cpp, err := cppgen.Generate(apis, cfg, opts.Cpp)
	if err != nil {
		return nil, fmt.Errorf("c++ codegen: %w", err)
	}
	result.Cpp = cpp
	return result, nil
}

// Prelude returns the C++ text handed to the external parser ahead of the
// user's headers, and the names it should be told not to generate.
func Prelude() (string, []string) {
	return knowntypes.DB().Prelude(), knowntypes.DB().InitialBlocklist()
}

// reportEntry is one row of the generation report.
type reportEntry struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Ignored string `json:"ignored,omitempty"`
}

// Report serialises what was generated and what was ignored, with reasons,
// as YAML.
func (r *Result) Report() ([]byte, error) {
	var entries []reportEntry
	for _, a := range r.Apis.Iter() {
		e := reportEntry{
			Name: a.QName().ToCppName(),
			Kind: a.Kind.String(),
		}
		if a.Kind == api.IgnoredItemKind {
			e.Ignored = a.Err.Error()
		}
		entries = append(entries, e)
	}
	return yaml.Marshal(entries)
}
