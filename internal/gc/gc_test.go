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

package gc

import (
	"testing"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

func qn(s string) names.QualifiedName {
	return names.QualifiedNameFromCppName(s)
}

func cfg(t *testing.T, body string) *directive.IncludeCppConfig {
	t.Helper()
	c, err := directive.Parse(body)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func structDependingOn(name string, deps ...names.QualifiedName) *api.Api {
	return &api.Api{
		Kind:   api.StructKind,
		Name:   names.NewApiName(qn(name)),
		Struct: &api.StructDetails{},
		PodAnalysis: &api.PodAnalysis{
			Kind:      api.NonPod,
			FieldDeps: deps,
			Movable:   true,
		},
	}
}

func TestTransitiveIgnorePropagates(t *testing.T) {
	v := api.NewApiVec()
	broken := &api.Api{
		Kind: api.IgnoredItemKind,
		Name: names.NewApiName(qn("Broken")),
		Err:  api.NewConvertError(api.PrivateMethod),
		Ctx:  api.NewItemContext("Broken"),
	}
	v.Push(broken)
	v.Push(structDependingOn("UsesBroken", qn("Broken")))
	v.Push(structDependingOn("UsesUser", qn("UsesBroken")))
	if err := Run(v, cfg(t, `generate_all!()`)); err != nil {
		t.Fatal(err)
	}
	u := v.Lookup(qn("UsesBroken"))
	if u.Kind != api.IgnoredItemKind || u.Err.Kind != api.IgnoredDependent {
		t.Errorf("UsesBroken = %v/%v, want IgnoredDependent stub", u.Kind, u.Err)
	}
	// And the fixed point reaches transitive users.
	uu := v.Lookup(qn("UsesUser"))
	if uu.Kind != api.IgnoredItemKind {
		t.Error("UsesUser should be ignored transitively")
	}
}

func TestUnknownDependency(t *testing.T) {
	v := api.NewApiVec()
	v.Push(structDependingOn("User", qn("NeverHeardOfIt")))
	if err := Run(v, cfg(t, `generate_all!()`)); err != nil {
		t.Fatal(err)
	}
	u := v.Lookup(qn("User"))
	if u.Kind != api.IgnoredItemKind || u.Err.Kind != api.UnknownDependentType {
		t.Errorf("User = %v/%v, want UnknownDependentType stub", u.Kind, u.Err)
	}
}

func TestKnownTypeDepsAreFine(t *testing.T) {
	v := api.NewApiVec()
	v.Push(structDependingOn("Fine", qn("cxx::CxxString")))
	if err := Run(v, cfg(t, `generate_all!()`)); err != nil {
		t.Fatal(err)
	}
	if got := v.Lookup(qn("Fine")).Kind; got != api.StructKind {
		t.Errorf("Fine = %v, want StructKind", got)
	}
}

func TestMustGenerateFailure(t *testing.T) {
	v := api.NewApiVec()
	if err := Run(v, cfg(t, `generate!("Missing")`)); err == nil {
		t.Error("a generate! directive with no output must be an error")
	}
}

func TestNarrowCTypes(t *testing.T) {
	v := api.NewApiVec()
	v.Push(&api.Api{
		Kind: api.FunctionKind,
		Name: names.NewApiName(qn("takes_long")),
		Fun:  &api.FuncToConvert{Ident: "takes_long"},
		FnAnalysis: &api.FnAnalysis{
			RustName: "takes_long",
			Params: []api.AnalysedParam{
				{Name: "l", Conversion: api.UnconvertedPolicy(ty.MustParse("autocxx::c_long"))},
			},
			ExternallyCallable: true,
		},
	})
	NarrowCTypes(v)
	ctype := v.Lookup(qn("c_long"))
	if ctype == nil || ctype.Kind != api.CTypeKind {
		t.Fatal("c_long CType API should be added")
	}
	if ctype.CTypeName.ToCppName() != "autocxx::c_long" {
		t.Errorf("CTypeName = %q", ctype.CTypeName.ToCppName())
	}
}
