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

package fun

import (
	"testing"

	"github.com/google/autocxx-sub001/internal/names"
)

func TestOverloadTrackerByFunction(t *testing.T) {
	ot := NewOverloadTracker()
	for _, test := range []struct {
		input    string
		wantCpp  string
		wantRust string
	}{
		{"job", "job", "job"},
		{"job1", "job", "job1"},
		{"job2", "job", "job2"},
		// Breaks the consecutive-numbering invariant, so it is a
		// function genuinely called job24.
		{"job24", "job24", "job24"},
		{"fish1", "fish1", "fish1"},
		{"fish2", "fish2", "fish2"},
	} {
		got := ot.GetFunctionRealName(test.input)
		if got.CppMethodName != test.wantCpp || got.RustMethodName != test.wantRust {
			t.Errorf("GetFunctionRealName(%q) = %+v, want {%s %s}", test.input, got, test.wantCpp, test.wantRust)
		}
	}
}

func TestOverloadTrackerByMethod(t *testing.T) {
	ot := NewOverloadTracker()
	for _, test := range []struct {
		typeName string
		input    string
		wantCpp  string
		wantRust string
	}{
		{"A", "do", "do", "do"},
		{"A", "do1", "do", "do1"},
		{"A", "dog", "dog", "dog"},
		{"A", "dog1", "dog", "dog1"},
		// The global numbering continues at do2, but B starts a fresh
		// per-type series.
		{"B", "do2", "do", "do"},
		{"B", "do3", "do", "do1"},
		// do2 was already consumed from the expected sequence, so a
		// second do2 is a literal name.
		{"C", "do2", "do2", "do2"},
	} {
		got := ot.GetMethodRealName(test.typeName, test.input)
		if got.CppMethodName != test.wantCpp || got.RustMethodName != test.wantRust {
			t.Errorf("GetMethodRealName(%q, %q) = %+v, want {%s %s}", test.typeName, test.input, got, test.wantCpp, test.wantRust)
		}
	}
}

func TestOverloadTrackerInsertScenario(t *testing.T) {
	ot := NewOverloadTracker()
	first := ot.GetFunctionRealName("insert")
	second := ot.GetFunctionRealName("insert2")
	if first.RustMethodName != "insert" || second.RustMethodName != "insert2" {
		t.Errorf("insert/insert2 = %q/%q, want insert/insert2", first.RustMethodName, second.RustMethodName)
	}
	if second.CppMethodName != "insert2" {
		t.Errorf("insert2 should be treated as literally named, got cpp name %q", second.CppMethodName)
	}
}

func TestBridgeNameTracker(t *testing.T) {
	bnt := NewBridgeNameTracker()
	root := names.RootNamespace()
	nsA := names.NamespaceFromUserInput("A")
	nsB := names.NamespaceFromUserInput("B")
	nsAB := names.NamespaceFromUserInput("A::B")
	for _, test := range []struct {
		typeName string
		name     string
		ns       names.Namespace
		want     string
	}{
		{"", "do", root, "do"},
		{"", "do", root, "do_autocxx1"},
		{"", "did", root, "did"},
		{"ty1", "do", root, "ty1_do"},
		{"ty1", "do", root, "ty1_do_autocxx1"},
		{"ty2", "do", root, "ty2_do"},
		{"ty", "do", nsA, "A_ty_do"},
		{"ty", "do", nsB, "B_ty_do"},
		{"ty", "do", nsAB, "A_B_ty_do"},
	} {
		if got := bnt.GetUniqueCxxBridgeName(test.typeName, test.name, test.ns); got != test.want {
			t.Errorf("GetUniqueCxxBridgeName(%q, %q, %q) = %q, want %q", test.typeName, test.name, test.ns, got, test.want)
		}
	}
}

func TestBridgeNameTrackerRewritesNew(t *testing.T) {
	bnt := NewBridgeNameTracker()
	if got := bnt.GetUniqueCxxBridgeName("Foo", "new", names.RootNamespace()); got != "new_autocxx" {
		t.Errorf("new = %q, want new_autocxx", got)
	}
	if got := bnt.GetUniqueCxxBridgeName("Bar", "new", names.RootNamespace()); got != "Bar_new_autocxx" {
		t.Errorf("second new = %q, want Bar_new_autocxx", got)
	}
}
