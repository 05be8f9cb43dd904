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

// Package clangast models the document produced by the external
// libclang-based parser: a Rust-shaped module tree in which every item
// carries semantic annotations about the underlying C++ entity. The parser
// is an external collaborator; this package only decodes and validates its
// output.
package clangast

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Item kinds as they appear in the parser document.
const (
	KindMod                = "mod"
	KindStruct             = "struct"
	KindEnum               = "enum"
	KindFn                 = "fn"
	KindTypedef            = "typedef"
	KindUse                = "use"
	KindConst              = "const"
	KindStatic             = "static"
	KindForwardDeclaration = "forward_declaration"
)

// Layout mirrors the layout(size, align, packed) annotation.
type Layout struct {
	Size   int  `json:"size"`
	Align  int  `json:"align"`
	Packed bool `json:"packed,omitempty"`
}

// Semantics carries the cpp_semantics(...) annotations of one item or
// field. Absent annotations decode to zero values.
type Semantics struct {
	OriginalName        string  `json:"original_name,omitempty"`
	Layout              *Layout `json:"layout,omitempty"`
	VisibilityPrivate   bool    `json:"visibility_private,omitempty"`
	VisibilityProtected bool    `json:"visibility_protected,omitempty"`
	PureVirtual         bool    `json:"pure_virtual,omitempty"`
	BindgenVirtual      bool    `json:"bindgen_virtual,omitempty"`
	Deleted             bool    `json:"deleted,omitempty"`
	Defaulted           bool    `json:"defaulted,omitempty"`
	// SpecialMember is one of default_ctor, copy_ctor, move_ctor, dtor,
	// assignment_operator.
	SpecialMember string `json:"special_member,omitempty"`
	// ArgTypeReferences names the parameters which are C++ references.
	ArgTypeReferences []string `json:"arg_type_reference,omitempty"`
	RetTypeReference  bool     `json:"ret_type_reference,omitempty"`
	// ArgTypeRValueReferences names parameters which are C++ &&.
	ArgTypeRValueReferences []string `json:"arg_type_rvalue_reference,omitempty"`
	RetTypeRValueReference  bool     `json:"ret_type_rvalue_reference,omitempty"`
	UnusedTemplateParam     bool     `json:"unused_template_param,omitempty"`
	// RValueReference marks a T&& field.
	RValueReference bool `json:"rvalue_reference,omitempty"`
}

// Field is one struct data member. Base classes appear as leading fields
// named _base, _base1... typed as the base class, following the parser's
// layout-preserving convention.
type Field struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Doc       string    `json:"doc,omitempty"`
	Semantics Semantics `json:"cpp_semantics,omitempty"`
}

// Param is one function parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// EnumValue is one enumerator.
type EnumValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Doc   string `json:"doc,omitempty"`
}

// Item is one node of the module tree.
type Item struct {
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Doc       string    `json:"doc,omitempty"`
	Semantics Semantics `json:"cpp_semantics,omitempty"`

	// Items of a mod.
	Items []Item `json:"items,omitempty"`

	// Struct payload.
	Fields    []Field `json:"fields,omitempty"`
	IsGeneric bool    `json:"is_generic,omitempty"`

	// Enum payload.
	Repr   string      `json:"repr,omitempty"`
	Values []EnumValue `json:"values,omitempty"`

	// Fn payload.
	Params []Param `json:"params,omitempty"`
	Ret    string  `json:"ret,omitempty"`

	// Typedef / use payload.
	Target string `json:"target,omitempty"`

	// Const / static payload.
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

// File is the root of a parser document. The parser wraps everything in a
// single `root` mod; Load unwraps it if present.
type File struct {
	Items []Item `json:"items"`
}

// Load decodes a parser document from YAML or JSON bytes.
func Load(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot decode parser output: %w", err)
	}
	if len(f.Items) == 1 && f.Items[0].Kind == KindMod && f.Items[0].Name == "root" {
		f.Items = f.Items[0].Items
	}
	return &f, nil
}
