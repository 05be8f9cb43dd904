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

package api

import (
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// TypeDeps collects every named type a type expression mentions.
func TypeDeps(t *ty.Type) []names.QualifiedName {
	var out []names.QualifiedName
	collectTypeDeps(t, &out)
	return out
}

func collectTypeDeps(t *ty.Type, out *[]names.QualifiedName) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ty.PathKind:
		*out = append(*out, t.QualifiedName())
		for _, a := range t.Args {
			collectTypeDeps(a, out)
		}
	case ty.ReferenceKind, ty.PointerKind, ty.RValueReferenceKind, ty.ArrayKind:
		collectTypeDeps(t.Inner, out)
	case ty.FnPointerKind:
		for _, p := range t.Params {
			collectTypeDeps(p, out)
		}
		collectTypeDeps(t.Ret, out)
	}
}

// Deps returns the qualified names this API depends upon. Post-analysis
// records use the analysis results; earlier records fall back to their raw
// payloads.
func (a *Api) Deps() []names.QualifiedName {
	switch a.Kind {
	case StructKind:
		if a.PodAnalysis != nil {
			out := append([]names.QualifiedName{}, a.PodAnalysis.FieldDeps...)
			return append(out, a.PodAnalysis.Bases...)
		}
		var out []names.QualifiedName
		if a.Struct != nil {
			for _, f := range a.Struct.Fields {
				collectTypeDeps(f.Type, &out)
			}
		}
		return out
	case FunctionKind:
		if a.FnAnalysis != nil {
			return a.FnAnalysis.Deps
		}
		var out []names.QualifiedName
		if a.Fun != nil {
			for _, p := range a.Fun.Params {
				collectTypeDeps(p.Type, &out)
			}
			collectTypeDeps(a.Fun.Ret, &out)
		}
		return out
	case TypedefKind:
		if a.TypedefAnalysis != nil {
			return a.TypedefAnalysis.Deps
		}
		if a.Typedef != nil {
			return TypeDeps(a.Typedef.Target)
		}
		return nil
	case ConcreteTypeKind:
		return TypeDeps(a.RsDefinition)
	case ConstKind:
		if a.Const != nil {
			return TypeDeps(a.Const.Type)
		}
		return nil
	case SubclassKind:
		if a.Subclass != nil {
			return []names.QualifiedName{a.Subclass.Superclass}
		}
		return nil
	case SubclassTraitItemKind:
		if a.SubclassTrait != nil {
			return []names.QualifiedName{a.SubclassTrait.Superclass}
		}
		return nil
	case RustSubclassFnKind:
		if a.RustSubclassFn != nil {
			return []names.QualifiedName{a.RustSubclassFn.Subclass}
		}
		return nil
	}
	return nil
}
