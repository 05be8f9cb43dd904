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

package directive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBasicBlock(t *testing.T) {
	cfg, err := Parse(`
		#include "foo.h"
		#include <vector>
		generate!("DoMath")
		generate_pod!("Point")
		block!("Hidden")
		safety!(unsafe_ffi)
	`)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"foo.h", "vector"}, cfg.Inclusions); diff != "" {
		t.Errorf("inclusions mismatch (-want, +got):\n%s", diff)
	}
	if !cfg.IsAllowlisted("DoMath") || !cfg.IsAllowlisted("Point") {
		t.Error("allowlist should contain DoMath and Point")
	}
	if cfg.IsAllowlisted("Hidden") {
		t.Error("Hidden should not be allowlisted")
	}
	if !cfg.IsOnBlocklist("Hidden") {
		t.Error("Hidden should be blocked")
	}
	if !cfg.IsPodRequested("Point") {
		t.Error("Point should be a POD request")
	}
	if cfg.Safety != SafetyUnsafeFfi {
		t.Errorf("safety = %v, want SafetyUnsafeFfi", cfg.Safety)
	}
	if cfg.ModName != "ffi" {
		t.Errorf("default mod name = %q, want ffi", cfg.ModName)
	}
}

func TestParseGenerateAllConflicts(t *testing.T) {
	if _, err := Parse(`generate!("Foo") generate_all!()`); err == nil {
		t.Error("generate! then generate_all! should fail")
	}
	if _, err := Parse(`generate_all!() generate!("Foo")`); err == nil {
		t.Error("generate_all! then generate! should fail")
	}
}

func TestParseUnspecifiedAllowlistFails(t *testing.T) {
	if _, err := Parse(`#include "foo.h"`); err == nil {
		t.Error("a block with no generate directive should fail validation")
	}
}

func TestParseNamespaceAllowlist(t *testing.T) {
	cfg, err := Parse(`generate_ns!("outer::inner")`)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.IsAllowlisted("outer::inner::Thing") {
		t.Error("Thing inside the namespace should be allowlisted")
	}
	if !cfg.IsAllowlisted("outer::inner::deeper::Thing") {
		t.Error("deeper namespaces should be allowlisted")
	}
	if cfg.IsAllowlisted("outer::Thing") {
		t.Error("siblings of the namespace should not be allowlisted")
	}
	if cfg.IsAllowlisted("outer::innermost::Thing") {
		t.Error("namespaces sharing a prefix should not be allowlisted")
	}
}

func TestParseRicherDirectives(t *testing.T) {
	cfg, err := Parse(`
		generate!("A")
		name!(my_ffi)
		concrete!("std::vector<uint32_t>", VecU32)
		subclass!("Observer", MyObs)
		extern_cpp_type!("Existing", crate::Existing)
		rust_type!(MyRustThing)
		block_constructors!("NoCtors")
		instantiable!("Fwd")
		exclude_utilities!()
	`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModName != "my_ffi" {
		t.Errorf("mod name = %q, want my_ffi", cfg.ModName)
	}
	want := []Concrete{{CppDefinition: "std::vector<uint32_t>", RustID: "VecU32"}}
	if diff := cmp.Diff(want, cfg.Concretes); diff != "" {
		t.Errorf("concretes mismatch (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Subclass{{Superclass: "Observer", Subclass: "MyObs"}}, cfg.Subclasses); diff != "" {
		t.Errorf("subclasses mismatch (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ExternCppType{{CppName: "Existing", RustPath: "crate::Existing"}}, cfg.ExternCppTypes); diff != "" {
		t.Errorf("extern cpp types mismatch (-want, +got):\n%s", diff)
	}
	if !cfg.IsRustType("MyRustThing") {
		t.Error("MyRustThing should be a rust type")
	}
	if !cfg.IsOnConstructorBlocklist("NoCtors") {
		t.Error("NoCtors should be on the constructor blocklist")
	}
	if !cfg.ExcludeUtilities {
		t.Error("exclude_utilities! should set the flag")
	}
}

func TestParseSafetyOnlyOnce(t *testing.T) {
	if _, err := Parse(`generate!("A") safety!(unsafe) safety!(unsafe_ffi)`); err == nil {
		t.Error("two safety! directives should fail")
	}
}

func TestParseUnknownDirective(t *testing.T) {
	if _, err := Parse(`generate!("A") frobnicate!("B")`); err == nil {
		t.Error("unknown directives should fail")
	}
}

func TestMustGenerateList(t *testing.T) {
	cfg, err := Parse(`
		generate!("A")
		generate_ns!("ns")
		generate_pod!("P")
		subclass!("Sup", Sub)
	`)
	if err != nil {
		t.Fatal(err)
	}
	got := cfg.MustGenerateList()
	want := []string{"A", "P", "P", "Sup"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MustGenerateList mismatch (-want, +got):\n%s", diff)
	}
}
