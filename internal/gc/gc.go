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

// Package gc is the end-of-pipeline cleanup: the transitive-ignore fixed
// point (anything depending on an ignored item becomes ignored itself, so
// codegen never references a type which doesn't exist), the
// did-you-get-what-you-asked-for check, and C-type narrowing.
package gc

import (
	"fmt"
	"log/slog"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Run applies the garbage-collection stage. It returns an error if a
// must-generate item (generate!, generate_pod!) produced nothing.
func Run(apis *api.ApiVec, cfg *directive.IncludeCppConfig) error {
	propagateIgnores(apis)
	NarrowCTypes(apis)
	return checkMustGenerate(apis, cfg)
}

// propagateIgnores is a fixed-point iteration downgrading every API whose
// dependencies are ignored or absent.
func propagateIgnores(apis *api.ApiVec) {
	for {
		ignored := make(map[string]bool)
		present := make(map[string]bool)
		for _, a := range apis.Iter() {
			key := a.QName().ToCppName()
			if a.Kind == api.IgnoredItemKind {
				ignored[key] = true
			} else {
				present[key] = true
			}
			if a.Kind == api.SubclassKind && a.Subclass != nil {
				// The peer class and holder are generated alongside
				// the subclass itself.
				present[a.Subclass.CppPeer] = true
				present[a.Subclass.Holder] = true
			}
		}
		changed := false
		apis.Replace(func(a *api.Api) []*api.Api {
			if a.Kind == api.IgnoredItemKind {
				return []*api.Api{a}
			}
			var culprits []names.QualifiedName
			var missing *names.QualifiedName
			for _, dep := range a.Deps() {
				key := dep.ToCppName()
				if knowntypes.DB().IsKnownType(dep) {
					continue
				}
				if present[key] && !ignored[key] {
					continue
				}
				if ignored[key] {
					culprits = append(culprits, dep)
					continue
				}
				d := dep
				missing = &d
			}
			switch {
			case len(culprits) > 0:
				changed = true
				slog.Warn("dropping item with ignored dependencies", "name", a.QName().ToCppName())
				return []*api.Api{a.Ignored(api.NewIgnoredDependent(culprits), nil)}
			case missing != nil:
				changed = true
				slog.Warn("dropping item with unknown dependency", "name", a.QName().ToCppName(), "dependency", missing.ToCppName())
				return []*api.Api{a.Ignored(api.NewConvertErrorWithName(api.UnknownDependentType, *missing), nil)}
			default:
				return []*api.Api{a}
			}
		})
		if !changed {
			return
		}
	}
}

// NarrowCTypes finds every use of a variable-width C integer type and adds
// the CType APIs the bridge layer needs to resolve them.
func NarrowCTypes(apis *api.ApiVec) {
	found := make(map[string]names.QualifiedName)
	noteType := func(t *ty.Type) {
		for _, dep := range api.TypeDeps(t) {
			if knowntypes.DB().IsCType(dep) {
				found[dep.FinalItem()] = dep
			}
		}
	}
	for _, a := range apis.Iter() {
		switch a.Kind {
		case api.FunctionKind:
			if a.FnAnalysis == nil {
				continue
			}
			for _, p := range a.FnAnalysis.Params {
				noteType(p.Conversion.UnwrappedType)
			}
			if a.FnAnalysis.Ret != nil {
				noteType(a.FnAnalysis.Ret.UnwrappedType)
			}
		case api.StructKind:
			if a.Struct == nil {
				continue
			}
			for _, f := range a.Struct.Fields {
				noteType(f.Type)
			}
		}
	}
	for final, qn := range found {
		a := &api.Api{
			Kind:      api.CTypeKind,
			Name:      names.NewApiName(names.NewQualifiedName(names.RootNamespace(), final)),
			CTypeName: qn,
		}
		apis.Push(a)
	}
}

// checkMustGenerate verifies that every explicitly requested item survived
// to the end of the pipeline.
func checkMustGenerate(apis *api.ApiVec, cfg *directive.IncludeCppConfig) error {
	for _, want := range cfg.MustGenerateList() {
		qn := names.QualifiedNameFromCppName(want)
		a := apis.Lookup(qn)
		if a == nil {
			return fmt.Errorf("the 'generate' or 'generate_pod' directive for '%s' did not result in any code being generated; perhaps this was mis-spelled or you didn't qualify the name with any namespaces", want)
		}
		if a.Kind == api.IgnoredItemKind {
			return fmt.Errorf("the directive for '%s' could not be honoured: %s", want, a.Err.Error())
		}
	}
	return nil
}
