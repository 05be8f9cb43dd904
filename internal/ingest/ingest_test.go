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

package ingest

import (
	"testing"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/clangast"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/names"
)

func load(t *testing.T, doc string) *clangast.File {
	t.Helper()
	f, err := clangast.Load([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func config(t *testing.T, body string) *directive.IncludeCppConfig {
	t.Helper()
	cfg, err := directive.Parse(body)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestIngestNamespaces(t *testing.T) {
	f := load(t, `
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
              - {name: a, type: i32}
`)
	cfg := config(t, `generate!("outer::inner::Thing") exclude_utilities!()`)
	v := Ingest(f, cfg)
	got := v.Lookup(names.QualifiedNameFromCppName("outer::inner::Thing"))
	if got == nil || got.Kind != api.StructKind {
		t.Fatalf("Thing not ingested as a struct: %+v", got)
	}
	if got.QName().Namespace().String() != "outer::inner" {
		t.Errorf("namespace = %q", got.QName().Namespace().String())
	}
}

func TestIngestFunctionAnnotations(t *testing.T) {
	f := load(t, `
items:
  - kind: fn
    name: frob
    params:
      - {name: x, type: "*mut root::Widget"}
    ret: ""
    cpp_semantics:
      arg_type_reference: [x]
      bindgen_virtual: true
`)
	cfg := config(t, `generate!("frob") exclude_utilities!()`)
	v := Ingest(f, cfg)
	got := v.Lookup(names.QualifiedNameFromCppName("frob"))
	if got == nil || got.Kind != api.FunctionKind {
		t.Fatalf("frob not ingested: %+v", got)
	}
	if !got.Fun.HasReferenceParam("x") {
		t.Error("x should be annotated as a reference")
	}
	if got.Fun.Virtualness != api.Virtual {
		t.Errorf("virtualness = %v, want Virtual", got.Fun.Virtualness)
	}
	if got.Fun.Ret != nil {
		t.Error("void return should be nil")
	}
}

func TestIngestRejectsDoubleUnderscore(t *testing.T) {
	f := load(t, `
items:
  - kind: struct
    name: reserved__name
`)
	cfg := config(t, `generate_all!() exclude_utilities!()`)
	v := Ingest(f, cfg)
	got := v.Lookup(names.QualifiedNameFromCppName("reserved__name"))
	if got == nil || got.Kind != api.IgnoredItemKind {
		t.Fatalf("reserved__name should be ignored: %+v", got)
	}
	if got.Err.Kind != api.TooManyUnderscores {
		t.Errorf("error kind = %v, want TooManyUnderscores", got.Err.Kind)
	}
}

func TestIngestStaticDataIgnored(t *testing.T) {
	f := load(t, `
items:
  - kind: static
    name: counter
    type: i32
`)
	cfg := config(t, `generate_all!() exclude_utilities!()`)
	v := Ingest(f, cfg)
	got := v.Lookup(names.QualifiedNameFromCppName("counter"))
	if got == nil || got.Kind != api.IgnoredItemKind || got.Err.Kind != api.StaticData {
		t.Fatalf("static should be an ignored stub: %+v", got)
	}
}

func TestIngestConfigItems(t *testing.T) {
	f := load(t, `items: []`)
	cfg := config(t, `
		generate!("A")
		rust_type!(MyThing)
		subclass!("Observer", MyObs)
		extern_cpp_type!("Existing", crate::Existing)
	`)
	v := Ingest(f, cfg)
	if got := v.Lookup(names.QualifiedNameFromCppName("MyThing")); got == nil || got.Kind != api.RustTypeKind {
		t.Error("rust_type! should produce a RustType API")
	}
	sub := v.Lookup(names.QualifiedNameFromCppName("MyObs"))
	if sub == nil || sub.Kind != api.SubclassKind {
		t.Fatal("subclass! should produce a Subclass API")
	}
	if sub.Subclass.CppPeer != "MyObsCpp" || sub.Subclass.Holder != "MyObsHolder" {
		t.Errorf("subclass names = %+v", sub.Subclass)
	}
	if got := v.Lookup(names.QualifiedNameFromCppName("Existing")); got == nil || got.Kind != api.ExternCppTypeKind {
		t.Error("extern_cpp_type! should produce an ExternCppType API")
	}
	if got := v.Lookup(names.QualifiedNameFromCppName("make_string")); got == nil || got.Kind != api.StringConstructorKind {
		t.Error("make_string should be present unless utilities are excluded")
	}
}

func TestIngestRValueReferenceField(t *testing.T) {
	f := load(t, `
items:
  - kind: struct
    name: Holder
    fields:
      - name: r
        type: "*mut i32"
        cpp_semantics: {rvalue_reference: true}
`)
	cfg := config(t, `generate_all!() exclude_utilities!()`)
	v := Ingest(f, cfg)
	got := v.Lookup(names.QualifiedNameFromCppName("Holder"))
	if got == nil || !got.Struct.HasRValueReferenceFields {
		t.Error("rvalue reference field should be recorded")
	}
}
