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

package knowntypes

import (
	"strings"
	"testing"

	"github.com/google/autocxx-sub001/internal/names"
)

func qn(s string) names.QualifiedName {
	return names.QualifiedNameFromCppName(s)
}

func TestIntegerWidths(t *testing.T) {
	if got := DB().CppNameFor(qn("i8")); got != "int8_t" {
		t.Errorf("CppNameFor(i8) = %q, want int8_t", got)
	}
	if got := DB().CppNameFor(qn("u64")); got != "uint64_t" {
		t.Errorf("CppNameFor(u64) = %q, want uint64_t", got)
	}
}

func TestCanonicalSubstitution(t *testing.T) {
	sub := DB().SubstitutePath(qn("std::unique_ptr"))
	if sub == nil {
		t.Fatal("std::unique_ptr not known")
	}
	if got := sub.String(); got != "cxx::UniquePtr" {
		t.Errorf("SubstitutePath(std::unique_ptr) = %q, want cxx::UniquePtr", got)
	}
	sub = DB().SubstitutePath(qn("std::os::raw::c_schar"))
	if sub == nil || sub.String() != "i8" {
		t.Errorf("SubstitutePath(c_schar) = %v, want i8", sub)
	}
}

func TestPodSafety(t *testing.T) {
	pods := DB().PodSafeTypes()
	for name, want := range map[string]bool{
		"u32":             true,
		"cxx::UniquePtr":  true,
		"cxx::CxxString":  false,
		"std::string":     false,
		"cxx::CxxVector":  false,
		"str":             true,
		"autocxx::c_void": false,
		"autocxx::c_int":  true,
	} {
		if got, ok := pods[name]; !ok || got != want {
			t.Errorf("PodSafeTypes[%q] = %v (present %v), want %v", name, got, ok, want)
		}
	}
}

func TestGenericBehavior(t *testing.T) {
	if got := DB().GenericBehavior(qn("cxx::UniquePtr")); got != CppGeneric {
		t.Errorf("UniquePtr generic behavior = %v, want CppGeneric", got)
	}
	if got := DB().GenericBehavior(qn("std::boxed::Box")); got != RustGeneric {
		t.Errorf("Box generic behavior = %v, want RustGeneric", got)
	}
	if got := DB().GenericBehavior(qn("i32")); got != NotGeneric {
		t.Errorf("i32 generic behavior = %v, want NotGeneric", got)
	}
}

func TestStrIsDereferencedInCpp(t *testing.T) {
	if !DB().ShouldDereferenceInCpp(qn("str")) {
		t.Error("str should be dereferenced in C++")
	}
	if DB().ShouldDereferenceInCpp(qn("cxx::CxxString")) {
		t.Error("CxxString should not be dereferenced in C++")
	}
}

func TestPreludeContainsStubs(t *testing.T) {
	prelude := DB().Prelude()
	for _, want := range []string{
		`replaces="std::unique_ptr"`,
		`replaces="std::string"`,
		"template<typename T> class UniquePtr",
		"class CxxString",
	} {
		if !strings.Contains(prelude, want) {
			t.Errorf("prelude missing %q", want)
		}
	}
}

func TestInitialBlocklist(t *testing.T) {
	blocked := DB().InitialBlocklist()
	found := map[string]bool{}
	for _, b := range blocked {
		found[b] = true
	}
	for _, want := range []string{"std::unique_ptr", "std::string", "std::vector", "rust::Box"} {
		if !found[want] {
			t.Errorf("initial blocklist missing %q", want)
		}
	}
	if found["int32_t"] {
		t.Error("int32_t should not be on the initial blocklist")
	}
}

func TestConstructorDetails(t *testing.T) {
	d := DB().ConstructorDetailsFor(qn("std::unique_ptr"))
	if d == nil || d.HasConstCopyConstructor || !d.HasMoveConstructor {
		t.Errorf("unique_ptr constructor details = %+v", d)
	}
	if DB().ConstructorDetailsFor(qn("SomeUserType")) != nil {
		t.Error("user types should have no known constructor details")
	}
}
