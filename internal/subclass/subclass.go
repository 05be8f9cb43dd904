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

// Package subclass expands each subclass! directive into the pieces which
// let a Rust type inherit from a C++ class: a C++ peer class holding a
// rust::Box of the holder, per-virtual-method forwarding stubs, and the
// Rust-side traits.
package subclass

import (
	"fmt"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/fun"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Expand is the subclass-expansion stage. It runs after function analysis
// so the superclass's virtual methods are already classified.
func Expand(apis *api.ApiVec, analyzer *fun.Analyzer) {
	var extras []*api.Api
	apis.Replace(func(a *api.Api) []*api.Api {
		if a.Kind != api.SubclassKind {
			return []*api.Api{a}
		}
		sup := a.Subclass.Superclass
		if !apis.Contains(sup) {
			return []*api.Api{a.Ignored(api.NewConvertErrorWithName(api.UnknownDependentType, sup), nil)}
		}
		extras = append(extras, expandOne(apis, analyzer, a)...)
		return []*api.Api{a}
	})
	apis.Append(extras...)
}

func expandOne(apis *api.ApiVec, analyzer *fun.Analyzer, sub *api.Api) []*api.Api {
	var out []*api.Api
	subName := sub.QName()
	sup := sub.Subclass.Superclass
	for _, a := range apis.Iter() {
		if a.Kind != api.FunctionKind || a.FnAnalysis == nil {
			continue
		}
		k := a.FnAnalysis.Kind
		if k.Kind != api.Method || !k.ImplFor.Equal(sup) {
			continue
		}
		if k.Method == api.ConstructorMethod && a.FnAnalysis.IgnoreReason == nil {
			out = append(out, synthesizeConstructor(analyzer, sub, a)...)
			continue
		}
		if k.Method != api.VirtualMethod && k.Method != api.PureVirtualMethod {
			continue
		}
		itemName := names.NewQualifiedName(names.RootNamespace(),
			fmt.Sprintf("%s_%s", subName.FinalItem(), a.FnAnalysis.RustName))
		out = append(out, &api.Api{
			Kind: api.SubclassTraitItemKind,
			Name: names.NewApiName(itemName),
			SubclassTrait: &api.SubclassTraitMethod{
				Subclass:   subName,
				Superclass: sup,
				Method:     a.Fun,
				Pure:       k.Method == api.PureVirtualMethod,
			},
		})
		forwarder := analyzer.UniqueBridgeName("",
			fmt.Sprintf("%s_%s", subName.FinalItem(), a.FnAnalysis.RustName),
			names.RootNamespace())
		out = append(out, &api.Api{
			Kind: api.RustSubclassFnKind,
			Name: names.NewApiName(names.NewQualifiedName(names.RootNamespace(), forwarder)),
			RustSubclassFn: &api.RustSubclassFnDetails{
				Subclass:         subName,
				Superclass:       sup,
				CppForwarderName: forwarder,
				Method:           a.Fun,
			},
		})
	}
	return out
}

// synthesizeConstructor builds the peer-class constructor for one
// superclass constructor: it takes a rust::Box of the holder followed by
// the superclass constructor's own arguments, and flows through the normal
// constructor analysis so both wrappers and the UniquePtr factory appear.
func synthesizeConstructor(analyzer *fun.Analyzer, sub *api.Api, supCtor *api.Api) []*api.Api {
	peer := names.QualifiedNameFromCppName(sub.Subclass.CppPeer)
	params := []api.Param{
		{Name: "this", Type: ty.Pointer(ty.PathFromName(peer), true)},
		{Name: "peer", Type: ty.Generic([]string{"rust", "Box"}, ty.Path(sub.Subclass.Holder))},
	}
	srcParams := supCtor.Fun.Params
	if len(srcParams) > 0 && srcParams[0].Name == "this" {
		srcParams = srcParams[1:]
	}
	params = append(params, srcParams...)
	f := &api.FuncToConvert{
		Ident:                 sub.Subclass.CppPeer + "_" + sub.Subclass.CppPeer,
		Params:                params,
		Doc:                   supCtor.Doc,
		ReferenceParams:       supCtor.Fun.ReferenceParams,
		RValueReferenceParams: supCtor.Fun.RValueReferenceParams,
		SelfType:              &peer,
		Provenance:            api.SynthesizedSubclassConstructor,
	}
	rec := &api.Api{
		Kind: api.FunctionKind,
		Name: names.NewApiName(names.NewQualifiedName(names.RootNamespace(), f.Ident)),
		Fun:  f,
	}
	return analyzer.AnalyzeSynthesized(rec)
}
