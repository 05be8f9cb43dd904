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

package convert

import (
	"testing"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

func newConverter(t *testing.T, directives string, typeNames ...string) (*TypeConverter, *api.ApiVec) {
	t.Helper()
	cfg, err := directive.Parse(directives)
	if err != nil {
		t.Fatal(err)
	}
	v := api.NewApiVec()
	for _, name := range typeNames {
		v.Push(&api.Api{
			Kind:   api.StructKind,
			Name:   names.NewApiName(names.QualifiedNameFromCppName(name)),
			Struct: &api.StructDetails{},
		})
	}
	return NewTypeConverter(v, cfg), v
}

func convertOK(t *testing.T, tc *TypeConverter, input string, ctx Context) Result {
	t.Helper()
	res, err := tc.ConvertType(ty.MustParse(input), names.RootNamespace(), ctx)
	if err != nil {
		t.Fatalf("ConvertType(%q) failed: %v", input, err)
	}
	return res
}

func TestConvertKnownTypeSubstitution(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo")`, "Foo")
	res := convertOK(t, tc, "root::std::string", OuterContext(AsPointer))
	if got := res.Type.String(); got != "cxx::CxxString" {
		t.Errorf("std::string converted to %q, want cxx::CxxString", got)
	}
	if len(res.Deps) != 0 {
		t.Errorf("known types should have no deps, got %v", res.Deps)
	}
}

func TestConvertUniquePtr(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo")`, "Foo")
	res := convertOK(t, tc, "root::std::unique_ptr<root::Foo>", OuterContext(AsPointer))
	if got := res.Type.String(); got != "cxx::UniquePtr<root::Foo>" {
		t.Errorf("converted to %q", got)
	}
	if len(res.Deps) != 1 || res.Deps[0].ToCppName() != "Foo" {
		t.Errorf("deps = %v, want [Foo]", res.Deps)
	}
}

func TestConvertBlocked(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Second") block!("First")`, "First", "Second")
	_, err := tc.ConvertType(ty.MustParse("root::First"), names.RootNamespace(), OuterContext(AsPointer))
	if err == nil || err.Kind != api.Blocked {
		t.Fatalf("want Blocked error, got %v", err)
	}
}

func TestConvertPointerTreatments(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo")`, "Foo")
	for _, test := range []struct {
		treatment PointerTreatment
		want      string
		wantKind  ResultKind
	}{
		{AsPointer, "*mut root::Foo", PointerResult},
		{AsReference, "std::pin::Pin<&mut root::Foo>", MutableReferenceResult},
		{AsRValueReference, "&&root::Foo", RValueReferenceResult},
	} {
		res := convertOK(t, tc, "*mut root::Foo", OuterContext(test.treatment))
		if got := res.Type.String(); got != test.want {
			t.Errorf("treatment %v: got %q, want %q", test.treatment, got, test.want)
		}
		if res.Kind != test.wantKind {
			t.Errorf("treatment %v: kind %v, want %v", test.treatment, res.Kind, test.wantKind)
		}
	}
	res := convertOK(t, tc, "*const root::Foo", OuterContext(AsReference))
	if got := res.Type.String(); got != "&root::Foo" {
		t.Errorf("const pointer as reference: got %q, want &root::Foo", got)
	}
}

func TestConvertInvalidPointee(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo")`, "Foo")
	_, err := tc.ConvertType(ty.MustParse("*mut *mut root::Foo"), names.RootNamespace(), OuterContext(AsPointer))
	if err == nil || err.Kind != api.InvalidPointee {
		t.Fatalf("want InvalidPointee, got %v", err)
	}
}

func TestConvertForwardDeclarationInContainer(t *testing.T) {
	cfg, err := directive.Parse(`generate!("Fwd")`)
	if err != nil {
		t.Fatal(err)
	}
	v := api.NewApiVec()
	v.Push(&api.Api{Kind: api.ForwardDeclarationKind, Name: names.NewApiName(names.QualifiedNameFromCppName("Fwd"))})
	tc := NewTypeConverter(v, cfg)
	// Behind a reference a forward declaration is fine.
	if _, cerr := tc.ConvertType(ty.MustParse("&root::Fwd"), names.RootNamespace(), OuterContext(AsPointer)); cerr != nil {
		t.Errorf("reference to forward declaration should convert: %v", cerr)
	}
	// Inside UniquePtr it is not.
	_, cerr := tc.ConvertType(ty.MustParse("root::std::unique_ptr<root::Fwd>"), names.RootNamespace(), OuterContext(AsPointer))
	if cerr == nil || cerr.Kind != api.TypeContainingForwardDeclaration {
		t.Fatalf("want TypeContainingForwardDeclaration, got %v", cerr)
	}
}

func TestConvertRustStrByValue(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo")`, "Foo")
	res := convertOK(t, tc, "root::rust::Str", OuterContext(AsPointer))
	if got := res.Type.String(); got != "&str" {
		t.Errorf("rust::Str by value became %q, want &str", got)
	}
	if res.Kind != ReferenceResult {
		t.Errorf("rust::Str kind = %v, want ReferenceResult", res.Kind)
	}
}

func TestConcretiseTemplateInstantiation(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo")`)
	res := convertOK(t, tc, "root::MyTemplate<i32>", OuterContext(AsPointer))
	if got := res.Type.String(); got != "root::MyTemplate_int32_t_AutocxxConcrete" {
		t.Errorf("concretised to %q", got)
	}
	if len(res.ExtraApis) != 1 || res.ExtraApis[0].Kind != api.ConcreteTypeKind {
		t.Fatalf("expected one synthesised concrete type, got %v", res.ExtraApis)
	}
	if got := res.ExtraApis[0].CppDefinition; got != "MyTemplate<int32_t>" {
		t.Errorf("cpp definition = %q", got)
	}
	// A second instantiation shares the cached type.
	res2 := convertOK(t, tc, "root::MyTemplate<i32>", OuterContext(AsPointer))
	if len(res2.ExtraApis) != 0 {
		t.Error("repeat instantiation should not synthesise a new type")
	}
	if res2.Type.String() != res.Type.String() {
		t.Error("repeat instantiation should share the synthesised name")
	}
}

func TestConcreteDirectiveNamesInstantiation(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo") concrete!("MyTemplate<int32_t>", MyVec)`)
	res := convertOK(t, tc, "root::MyTemplate<i32>", OuterContext(AsPointer))
	if got := res.Type.String(); got != "root::MyVec" {
		t.Errorf("concrete! name not used: got %q", got)
	}
}

func TestBoxRequiresRustType(t *testing.T) {
	tc, _ := newConverter(t, `generate!("Foo") rust_type!(MyRust)`)
	if _, err := tc.ConvertType(ty.MustParse("root::rust::Box<MyRust>"), names.RootNamespace(), OuterContext(AsPointer)); err != nil {
		t.Errorf("Box of declared rust type should convert: %v", err)
	}
	_, err := tc.ConvertType(ty.MustParse("root::rust::Box<Other>"), names.RootNamespace(), OuterContext(AsPointer))
	if err == nil || err.Kind != api.BoxContainingNonRustType {
		t.Fatalf("want BoxContainingNonRustType, got %v", err)
	}
}

func TestTypedefResolution(t *testing.T) {
	cfg, err := directive.Parse(`generate!("Foo")`)
	if err != nil {
		t.Fatal(err)
	}
	v := api.NewApiVec()
	v.Push(&api.Api{
		Kind:   api.StructKind,
		Name:   names.NewApiName(names.QualifiedNameFromCppName("Foo")),
		Struct: &api.StructDetails{},
	})
	v.Push(&api.Api{
		Kind:    api.TypedefKind,
		Name:    names.NewApiName(names.QualifiedNameFromCppName("FooAlias")),
		Typedef: &api.TypedefDetails{Target: ty.MustParse("root::Foo")},
	})
	v.Push(&api.Api{
		Kind:    api.TypedefKind,
		Name:    names.NewApiName(names.QualifiedNameFromCppName("AliasAlias")),
		Typedef: &api.TypedefDetails{Target: ty.MustParse("root::FooAlias")},
	})
	tc := NewTypeConverter(v, cfg)
	ResolveTypedefs(v, tc)

	res, cerr := tc.ConvertType(ty.MustParse("root::AliasAlias"), names.RootNamespace(), OuterContext(AsPointer))
	if cerr != nil {
		t.Fatal(cerr)
	}
	if got := res.Type.String(); got != "root::Foo" {
		t.Errorf("AliasAlias resolved to %q, want root::Foo", got)
	}
}

func TestInfinitelyRecursiveTypedef(t *testing.T) {
	cfg, err := directive.Parse(`generate!("A")`)
	if err != nil {
		t.Fatal(err)
	}
	v := api.NewApiVec()
	v.Push(&api.Api{
		Kind:    api.TypedefKind,
		Name:    names.NewApiName(names.QualifiedNameFromCppName("A")),
		Typedef: &api.TypedefDetails{Target: ty.MustParse("root::B")},
	})
	v.Push(&api.Api{
		Kind:    api.TypedefKind,
		Name:    names.NewApiName(names.QualifiedNameFromCppName("B")),
		Typedef: &api.TypedefDetails{Target: ty.MustParse("root::A")},
	})
	tc := NewTypeConverter(v, cfg)
	ResolveTypedefs(v, tc)
	for _, a := range v.Iter() {
		if a.Kind != api.IgnoredItemKind {
			t.Errorf("%s should be ignored after recursive typedef detection, got %v", a.QName(), a.Kind)
		}
	}
}

func TestNamespaceShortcut(t *testing.T) {
	tc, _ := newConverter(t, `generate!("A::Foo")`, "A::Foo")
	res, cerr := tc.ConvertType(ty.MustParse("Foo"), names.NamespaceFromUserInput("A"), OuterContext(AsPointer))
	if cerr != nil {
		t.Fatal(cerr)
	}
	if got := res.Type.String(); got != "root::A::Foo" {
		t.Errorf("unqualified Foo in A resolved to %q, want root::A::Foo", got)
	}
}

func TestCppSpelling(t *testing.T) {
	for _, test := range []struct {
		input string
		want  string
	}{
		{"cxx::UniquePtr<root::A::Foo>", "std::unique_ptr<A::Foo>"},
		{"cxx::CxxString", "std::string"},
		{"&root::Foo", "const Foo&"},
		{"&mut root::Foo", "Foo&"},
		{"*mut root::Foo", "Foo*"},
		{"std::pin::Pin<&mut root::Foo>", "Foo&"},
		{"i32", "int32_t"},
		{"()", "void"},
		{"&&root::Foo", "Foo&&"},
	} {
		if got := CppSpelling(ty.MustParse(test.input)); got != test.want {
			t.Errorf("CppSpelling(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
