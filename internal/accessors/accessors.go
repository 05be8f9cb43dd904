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

// Package accessors synthesises field getters for opaque structs: a non-POD
// type crosses the boundary as an opaque type, so Rust cannot see its
// fields, but public scalar members can still be exposed through generated
// accessor wrappers.
package accessors

import (
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/fun"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Synthesize adds getter functions for every public scalar field of every
// allowlisted non-POD struct.
func Synthesize(apis *api.ApiVec, cfg *directive.IncludeCppConfig, analyzer *fun.Analyzer) {
	var extras []*api.Api
	for _, a := range apis.Iter() {
		if a.Kind != api.StructKind || a.PodAnalysis == nil {
			continue
		}
		if a.PodAnalysis.Kind != api.NonPod {
			continue
		}
		if !cfg.IsAllowlisted(a.QName().ToCppName()) {
			continue
		}
		for _, f := range a.Struct.Fields {
			if !eligibleField(f) {
				continue
			}
			extras = append(extras, accessorFor(a, f, analyzer))
		}
	}
	apis.Append(extras...)
}

// eligibleField keeps accessors to public scalar members; anything else is
// reachable through methods the class already offers.
func eligibleField(f api.Field) bool {
	if f.Visibility != api.Public || f.IsRValueReference {
		return false
	}
	if f.Name == "vtable_" || strings.HasPrefix(f.Name, "_base") {
		return false
	}
	if f.Type.Kind != ty.PathKind || len(f.Type.Args) > 0 {
		return false
	}
	qn := f.Type.QualifiedName()
	db := knowntypes.DB()
	return db.IsKnownType(qn) && !db.LacksCopyConstructor(qn) && !db.IsCType(qn) &&
		!db.ConvertibleFromStr(qn) && qn.FinalItem() != "str" && qn.FinalItem() != "String"
}

func accessorFor(owner *api.Api, f api.Field, analyzer *fun.Analyzer) *api.Api {
	ownerName := owner.QName()
	rustName := "get_" + f.Name
	bridgeName := analyzer.UniqueBridgeName(ownerName.FinalItem(), rustName, ownerName.Namespace())
	analysis := &api.FnAnalysis{
		CxxBridgeName: bridgeName,
		RustName:      rustName,
		CppCallName:   rustName,
		FieldAccess:   f.Name,
		Kind: api.FnKind{
			Kind:    api.Method,
			ImplFor: ownerName,
			Method:  api.NormalMethod,
		},
		Params: []api.AnalysedParam{{
			Name:       "self",
			Conversion: api.UnconvertedPolicy(ty.Pointer(ty.PathFromName(ownerName), false)),
			IsSelf:     true,
		}},
		CppWrapper:         true,
		RustWrapper:        true,
		ExternallyCallable: true,
		Deps:               []names.QualifiedName{ownerName},
	}
	ret := api.UnconvertedPolicy(f.Type)
	analysis.Ret = &ret
	return &api.Api{
		Kind: api.FunctionKind,
		Name: names.NewApiName(names.NewQualifiedName(ownerName.Namespace(), ownerName.FinalItem()+"_"+rustName)),
		Doc:  f.Doc,
		Fun: &api.FuncToConvert{
			Ident:      ownerName.FinalItem() + "_" + rustName,
			Provenance: api.SynthesizedOther,
		},
		FnAnalysis: analysis,
	}
}
