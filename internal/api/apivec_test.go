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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

func structApi(name string) *Api {
	return &Api{
		Kind:   StructKind,
		Name:   names.NewApiName(names.QualifiedNameFromCppName(name)),
		Struct: &StructDetails{},
	}
}

func TestPushCollapsesDuplicates(t *testing.T) {
	v := NewApiVec()
	v.Push(structApi("Foo"))
	v.Push(structApi("Foo"))
	if v.Len() != 1 {
		t.Fatalf("len = %d, want 1", v.Len())
	}
	got := v.Lookup(names.QualifiedNameFromCppName("Foo"))
	if got.Kind != IgnoredItemKind {
		t.Errorf("duplicate kind = %v, want IgnoredItemKind", got.Kind)
	}
	if got.Err.Kind != DuplicateItemsFoundInParsing {
		t.Errorf("duplicate error = %v, want DuplicateItemsFoundInParsing", got.Err.Kind)
	}
}

func TestPushDefinitionSupersedesForwardDeclaration(t *testing.T) {
	v := NewApiVec()
	v.Push(&Api{Kind: ForwardDeclarationKind, Name: names.NewApiName(names.QualifiedNameFromCppName("Foo"))})
	v.Push(structApi("Foo"))
	got := v.Lookup(names.QualifiedNameFromCppName("Foo"))
	if got.Kind != StructKind {
		t.Errorf("kind = %v, want StructKind", got.Kind)
	}
	// And the other way round: a later forward declaration is dropped.
	v.Push(&Api{Kind: ForwardDeclarationKind, Name: names.NewApiName(names.QualifiedNameFromCppName("Foo"))})
	if v.Len() != 1 || v.Lookup(names.QualifiedNameFromCppName("Foo")).Kind != StructKind {
		t.Error("forward declaration should not displace a definition")
	}
}

func TestFunctionsMayShareNames(t *testing.T) {
	v := NewApiVec()
	fn := func() *Api {
		return &Api{
			Kind: FunctionKind,
			Name: names.NewApiName(names.QualifiedNameFromCppName("get")),
			Fun:  &FuncToConvert{Ident: "get"},
		}
	}
	v.Push(fn())
	v.Push(fn())
	if v.Len() != 2 {
		t.Errorf("len = %d, want 2 (overloads share a name)", v.Len())
	}
}

func TestTypeDeps(t *testing.T) {
	typ := ty.MustParse("UniquePtr<root::A::Foo>")
	deps := TypeDeps(typ)
	var got []string
	for _, d := range deps {
		got = append(got, d.ToCppName())
	}
	want := []string{"UniquePtr", "A::Foo"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TypeDeps mismatch (-want, +got):\n%s", diff)
	}
}

func TestIgnoredPreservesName(t *testing.T) {
	a := structApi("ns::Foo")
	ig := a.Ignored(NewConvertError(PrivateMethod), nil)
	if !ig.QName().Equal(a.QName()) {
		t.Error("ignored item should keep the name")
	}
	if ig.Ctx == nil || ig.Ctx.String() != "Foo" {
		t.Errorf("ignored context = %v", ig.Ctx)
	}
}

func TestConvertErrorMessages(t *testing.T) {
	e := NewConvertErrorWithName(Blocked, names.QualifiedNameFromCppName("First"))
	if got := e.Error(); got != "found an attempt at using a type marked as blocked (First)" {
		t.Errorf("Blocked message = %q", got)
	}
	dep := NewIgnoredDependent([]names.QualifiedName{
		names.QualifiedNameFromCppName("B"),
		names.QualifiedNameFromCppName("A"),
	})
	if got := dep.Error(); got != "this item depends on some other type(s) which could not be generated, some of them are: A, B" {
		t.Errorf("IgnoredDependent message = %q", got)
	}
}
