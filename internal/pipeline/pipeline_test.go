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

package pipeline

import (
	"strings"
	"testing"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/names"
)

func run(t *testing.T, directiveBody, parserDoc string) *Result {
	t.Helper()
	res, err := Run(directiveBody, []byte(parserDoc), Options{})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// Scenario (a): one function, no wrappers, everything passes straight
// through.
func TestEndToEndDoMath(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("DoMath")
		safety!(unsafe_ffi)
	`, `
items:
  - kind: fn
    name: DoMath
    params:
      - {name: a, type: i32}
    ret: i32
`)
	if !strings.Contains(res.Rust, "fn DoMath(a: i32) -> i32;") {
		t.Errorf("bridge declaration missing, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, `include!("input.h");`) {
		t.Error("user include missing from bridge")
	}
	if strings.Contains(res.Cpp.Definitions, "DoMath") {
		t.Error("no C++ wrapper should be generated for a passthrough function")
	}
}

// Scenario (c): std::string returned by value.
func TestEndToEndStringReturn(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("Foo")
		safety!(unsafe_ffi)
	`, `
items:
  - kind: fn
    name: Foo
    ret: "root::std::string"
`)
	if !strings.Contains(res.Rust, "-> UniquePtr<CxxString>") {
		t.Errorf("bridge should return UniquePtr<CxxString>, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Cpp.Definitions, "std::unique_ptr<std::string> Foo_autocxx_wrapper()") {
		t.Errorf("wrapper definition missing, got:\n%s", res.Cpp.Definitions)
	}
	if !strings.Contains(res.Cpp.Definitions, "return std::make_unique<std::string>(Foo());") {
		t.Errorf("wrapper body wrong, got:\n%s", res.Cpp.Definitions)
	}
	if !strings.Contains(res.Rust, "Foo_autocxx_wrapper") {
		t.Error("bridge declaration should reference the wrapper symbol")
	}
}

// Scenario (e): conservative abstractness for a derived class whose base we
// can't see.
func TestEndToEndConservativeAbstract(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("Derived")
		safety!(unsafe_ffi)
	`, `
items:
  - kind: struct
    name: AbsBase
    fields:
      - {name: vtable_, type: "*const i32"}
  - kind: struct
    name: Derived
    fields:
      - {name: _base, type: "root::AbsBase"}
  - kind: fn
    name: Derived_f
    params:
      - {name: this, type: "*mut root::Derived"}
    cpp_semantics: {bindgen_virtual: true}
`)
	derived := res.Apis.Lookup(names.QualifiedNameFromCppName("Derived"))
	if derived.PodAnalysis.Kind != api.Abstract {
		t.Errorf("Derived should be conservatively abstract, got %v", derived.PodAnalysis.Kind)
	}
	if strings.Contains(res.Rust, "fn new") && strings.Contains(res.Rust, "impl cxxbridge::Derived {\n        pub fn new") {
		t.Error("abstract types must not expose constructors")
	}
	// The virtual method survives on references.
	if !strings.Contains(res.Rust, "fn f(") {
		t.Errorf("method f should still be callable, got:\n%s", res.Rust)
	}
}

// Scenario (f): subclass support.
func TestEndToEndSubclass(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("Observer")
		subclass!("Observer", MyObs)
		safety!(unsafe_ffi)
	`, `
items:
  - kind: struct
    name: Observer
    fields:
      - {name: vtable_, type: "*const i32"}
  - kind: fn
    name: Observer_onEvent
    params:
      - {name: this, type: "*mut root::Observer"}
      - {name: v, type: i32}
    cpp_semantics: {pure_virtual: true}
`)
	if !strings.Contains(res.Rust, "pub trait Observer_methods {") {
		t.Errorf("methods trait missing, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "fn onEvent(&mut self, v: i32);") {
		t.Errorf("pure virtual trait method missing, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "pub struct MyObsHolder") {
		t.Error("holder type missing")
	}
	if !strings.Contains(res.Cpp.Declarations, "class MyObsCpp : public Observer {") {
		t.Errorf("peer class missing, got:\n%s", res.Cpp.Declarations)
	}
	if !strings.Contains(res.Cpp.Declarations, "rust::Box<MyObsHolder> holder_;") {
		t.Error("peer class should hold a rust::Box of the holder")
	}
	if !strings.Contains(res.Cpp.Declarations, "override") {
		t.Error("peer class should override the virtual method")
	}
}

// A subclass of a superclass with an argument-taking constructor: the peer
// class constructor must forward the base arguments, and Rust must get a
// callable factory.
func TestEndToEndSubclassConstructorForwarding(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("Engine")
		subclass!("Engine", MyEngine)
		safety!(unsafe_ffi)
	`, `
items:
  - kind: struct
    name: Engine
    fields:
      - {name: vtable_, type: "*const i32"}
  - kind: fn
    name: Engine_Engine
    params:
      - {name: this, type: "*mut root::Engine"}
      - {name: power, type: i32}
  - kind: fn
    name: Engine_start
    params:
      - {name: this, type: "*mut root::Engine"}
    cpp_semantics: {pure_virtual: true}
`)
	if !strings.Contains(res.Cpp.Declarations,
		"MyEngineCpp(rust::Box<MyEngineHolder> peer, int32_t power) : Engine(power), holder_(std::move(peer)) {}") {
		t.Errorf("peer constructor should forward base arguments, got:\n%s", res.Cpp.Declarations)
	}
	if !strings.Contains(res.Cpp.Definitions, "new (autocxx_gen_this) MyEngineCpp(std::move(peer), power);") {
		t.Errorf("placement-new wrapper missing, got:\n%s", res.Cpp.Definitions)
	}
	if !strings.Contains(res.Rust, "impl cxxbridge::MyEngineCpp {") {
		t.Errorf("peer impl block missing, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "peer: Box<MyEngineHolder>") {
		t.Errorf("holder parameter missing from Rust factory, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "-> cxx::UniquePtr<Self>") {
		t.Errorf("UniquePtr factory missing, got:\n%s", res.Rust)
	}
}

func TestEndToEndPodStruct(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate_pod!("Point")
		safety!(unsafe_ffi)
	`, `
items:
  - kind: struct
    name: Point
    fields:
      - {name: x, type: i32}
      - {name: y, type: i32}
`)
	if !strings.Contains(res.Rust, "struct Point {") {
		t.Errorf("POD struct should be declared with fields, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "x: i32,") {
		t.Error("POD fields should pass through")
	}
}

func TestEndToEndNamespaces(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("outer::inner::Thing")
		safety!(unsafe_ffi)
	`, `
items:
  - kind: mod
    name: outer
    items:
      - kind: mod
        name: inner
        items:
          - kind: struct
            name: Thing
            fields:
              - {name: s, type: "root::std::string"}
`)
	if !strings.Contains(res.Rust, `#[namespace = "outer::inner"]`) {
		t.Errorf("namespace attribute missing, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "pub mod outer {") || !strings.Contains(res.Rust, "pub mod inner {") {
		t.Error("namespace mods missing")
	}
	if !strings.Contains(res.Rust, "pub use cxxbridge::Thing;") {
		t.Error("namespace re-export missing")
	}
}

func TestEndToEndIgnoredStubDocumentsReason(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate_all!()
		safety!(unsafe_ffi)
	`, `
items:
  - kind: struct
    name: Fine
    fields:
      - {name: a, type: i32}
  - kind: static
    name: counter
    type: i32
`)
	if !strings.Contains(res.Rust, "pub struct counter;") {
		t.Errorf("ignored stub missing, got:\n%s", res.Rust)
	}
	if !strings.Contains(res.Rust, "/// Bindings could not be generated:") {
		t.Error("ignored stub should carry the reason in rustdoc")
	}
}

func TestEndToEndMakeString(t *testing.T) {
	res := run(t, `
		#include "input.h"
		generate!("Fine")
		safety!(unsafe_ffi)
	`, `
items:
  - kind: struct
    name: Fine
    fields:
      - {name: a, type: i32}
`)
	if !strings.Contains(res.Rust, "fn make_string(str_: &str) -> UniquePtr<CxxString>;") {
		t.Error("make_string bridge entry missing")
	}
	if !strings.Contains(res.Cpp.Definitions, "make_string(::rust::Str str)") {
		t.Error("make_string helper missing from C++ output")
	}
}

func TestEndToEndMustGenerateFailure(t *testing.T) {
	_, err := Run(`generate!("Nonexistent")`, []byte(`
items:
  - kind: struct
    name: Other
    fields: []
`), Options{})
	if err == nil {
		t.Fatal("generating a nonexistent item should fail the pipeline")
	}
}

func TestReport(t *testing.T) {
	res := run(t, `
		generate_all!()
		exclude_utilities!()
	`, `
items:
  - kind: struct
    name: Fine
    fields:
      - {name: a, type: i32}
  - kind: static
    name: counter
    type: i32
`)
	report, err := res.Report()
	if err != nil {
		t.Fatal(err)
	}
	text := string(report)
	if !strings.Contains(text, "name: Fine") || !strings.Contains(text, "name: counter") {
		t.Errorf("report should list every item, got:\n%s", text)
	}
	if !strings.Contains(text, "ignored:") {
		t.Errorf("report should carry ignore reasons, got:\n%s", text)
	}
}

func TestPrelude(t *testing.T) {
	prelude, blocklist := Prelude()
	if !strings.Contains(prelude, "class UniquePtr") {
		t.Error("prelude should declare the UniquePtr stub")
	}
	if len(blocklist) == 0 {
		t.Error("initial blocklist should not be empty")
	}
}
