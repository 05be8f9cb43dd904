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

package names

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQualifiedNameFromCppName(t *testing.T) {
	for _, test := range []struct {
		input     string
		wantNs    string
		wantFinal string
	}{
		{"Foo", "", "Foo"},
		{"A::B::C", "A::B", "C"},
		{"::A::B", "A", "B"},
		{"std::string", "std", "string"},
	} {
		got := QualifiedNameFromCppName(test.input)
		if got.Namespace().String() != test.wantNs {
			t.Errorf("QualifiedNameFromCppName(%q) namespace = %q, want %q", test.input, got.Namespace().String(), test.wantNs)
		}
		if got.FinalItem() != test.wantFinal {
			t.Errorf("QualifiedNameFromCppName(%q) final = %q, want %q", test.input, got.FinalItem(), test.wantFinal)
		}
	}
}

func TestToCppName(t *testing.T) {
	qn := QualifiedNameFromCppName("A::B::C")
	if got := qn.ToCppName(); got != "A::B::C" {
		t.Errorf("ToCppName = %q, want A::B::C", got)
	}
}

func TestBindgenPathSegments(t *testing.T) {
	qn := QualifiedNameFromCppName("A::Foo")
	want := []string{"bindgen", "root", "A", "Foo"}
	if diff := cmp.Diff(want, qn.BindgenPathSegments()); diff != "" {
		t.Errorf("BindgenPathSegments mismatch (-want, +got):\n%s", diff)
	}
}

func TestNamespacePushDoesNotAlias(t *testing.T) {
	root := RootNamespace()
	a := root.Push("A")
	b := a.Push("B")
	c := a.Push("C")
	if got := b.String(); got != "A::B" {
		t.Errorf("b = %q, want A::B", got)
	}
	if got := c.String(); got != "A::C" {
		t.Errorf("c = %q, want A::C", got)
	}
	if got := a.String(); got != "A" {
		t.Errorf("a = %q, want A", got)
	}
}

func TestValidateIdentOkForCxx(t *testing.T) {
	if err := ValidateIdentOkForCxx("perfectly_fine"); err != nil {
		t.Errorf("unexpected error for valid ident: %v", err)
	}
	if err := ValidateIdentOkForCxx("has__double"); err != ErrTooManyUnderscores {
		t.Errorf("want ErrTooManyUnderscores, got %v", err)
	}
	if err := ValidateIdentOkForCxx("self"); err != ErrReservedName {
		t.Errorf("want ErrReservedName, got %v", err)
	}
	if err := ValidateIdentOkForCxx("1starts_with_digit"); err != ErrReservedName {
		t.Errorf("want ErrReservedName, got %v", err)
	}
}

func TestApiNameEffectiveCppName(t *testing.T) {
	plain := NewApiName(QualifiedNameFromCppName("Foo"))
	if got := plain.EffectiveCppName(); got != "Foo" {
		t.Errorf("EffectiveCppName = %q, want Foo", got)
	}
	renamed := NewApiNameWithCppName(QualifiedNameFromCppName("move_"), "move")
	if got := renamed.EffectiveCppName(); got != "move" {
		t.Errorf("EffectiveCppName = %q, want move", got)
	}
}
