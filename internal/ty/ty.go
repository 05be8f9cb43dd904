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

// Package ty models the Rust-shaped type expressions which flow out of the
// C++ parser and through the conversion pipeline. The model is deliberately
// small: paths (possibly generic), references, pointers, arrays and function
// pointers are all the parser produces.
package ty

import (
	"fmt"
	"strings"

	"github.com/google/autocxx-sub001/internal/names"
)

// Kind discriminates the type expression variants.
type Kind int

const (
	// PathKind is a (possibly generic) named type, e.g. root::A::Foo or
	// UniquePtr<root::Foo>.
	PathKind Kind = iota
	// ReferenceKind is &T or &mut T.
	ReferenceKind
	// PointerKind is *const T or *mut T.
	PointerKind
	// RValueReferenceKind marks a C++ && parameter. It never survives into
	// the bridge; function analysis replaces it.
	RValueReferenceKind
	// ArrayKind is [T; N].
	ArrayKind
	// FnPointerKind is fn(A, B) -> R.
	FnPointerKind
	// UnitKind is (), used for void returns.
	UnitKind
)

// Type is one node of a type expression tree.
type Type struct {
	Kind Kind

	// Segments of a PathKind type, e.g. ["root", "A", "Foo"].
	Segments []string
	// Args are the generic arguments attached to the final path segment.
	Args []*Type

	// Mutable applies to references and pointers.
	Mutable bool
	// Inner is the referent of a reference, pointer, rvalue reference or
	// array element type.
	Inner *Type

	// Len is the array length for ArrayKind.
	Len int

	// Params and Ret describe a function pointer. A nil Ret means the
	// function returns nothing.
	Params []*Type
	Ret    *Type
}

// Path builds a non-generic path type from `::`-separated segments.
func Path(segments ...string) *Type {
	return &Type{Kind: PathKind, Segments: segments}
}

// PathFromName builds a path type rooted at bindgen's root mod, for
// namespaced and unqualified names alike.
func PathFromName(qn names.QualifiedName) *Type {
	segs := append([]string{"root"}, qn.Segments()...)
	return &Type{Kind: PathKind, Segments: segs}
}

// Generic builds a generic path type.
func Generic(segments []string, args ...*Type) *Type {
	return &Type{Kind: PathKind, Segments: segments, Args: args}
}

// Reference builds &T or &mut T.
func Reference(inner *Type, mutable bool) *Type {
	return &Type{Kind: ReferenceKind, Inner: inner, Mutable: mutable}
}

// Pointer builds *const T or *mut T.
func Pointer(inner *Type, mutable bool) *Type {
	return &Type{Kind: PointerKind, Inner: inner, Mutable: mutable}
}

// RValueReference builds the && marker type.
func RValueReference(inner *Type) *Type {
	return &Type{Kind: RValueReferenceKind, Inner: inner}
}

// Unit returns the () type.
func Unit() *Type {
	return &Type{Kind: UnitKind}
}

// IsUnit reports whether t is nil or the unit type.
func (t *Type) IsUnit() bool {
	return t == nil || t.Kind == UnitKind
}

// QualifiedName interprets a path type as a pipeline name. A leading `root`
// segment marks a C++ type inside the bindgen mod and is stripped; anything
// else (e.g. cxx::UniquePtr, i32) is taken verbatim.
func (t *Type) QualifiedName() names.QualifiedName {
	segs := t.Segments
	if len(segs) > 1 && segs[0] == "root" {
		segs = segs[1:]
	}
	ns := names.RootNamespace()
	for _, s := range segs[:len(segs)-1] {
		ns = ns.Push(s)
	}
	return names.NewQualifiedName(ns, segs[len(segs)-1])
}

// WithoutArgs returns a copy of a path type with generic arguments removed.
func (t *Type) WithoutArgs() *Type {
	c := *t
	c.Args = nil
	return &c
}

// WithSegments returns a copy of a path type with replaced segments, keeping
// the generic arguments.
func (t *Type) WithSegments(segments []string) *Type {
	c := *t
	c.Segments = segments
	return &c
}

// Clone deep-copies the type tree.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	c := *t
	c.Segments = append([]string(nil), t.Segments...)
	c.Args = cloneSlice(t.Args)
	c.Inner = t.Inner.Clone()
	c.Params = cloneSlice(t.Params)
	c.Ret = t.Ret.Clone()
	return &c
}

func cloneSlice(ts []*Type) []*Type {
	if ts == nil {
		return nil
	}
	out := make([]*Type, len(ts))
	for i, t := range ts {
		out[i] = t.Clone()
	}
	return out
}

// Equal reports deep structural equality.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.String() == other.String()
}

// String renders the Rust spelling of the type.
func (t *Type) String() string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case UnitKind:
		return "()"
	case PathKind:
		base := strings.Join(t.Segments, "::")
		if len(t.Args) == 0 {
			return base
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", base, strings.Join(args, ", "))
	case ReferenceKind:
		if t.Mutable {
			return "&mut " + t.Inner.String()
		}
		return "&" + t.Inner.String()
	case PointerKind:
		if t.Mutable {
			return "*mut " + t.Inner.String()
		}
		return "*const " + t.Inner.String()
	case RValueReferenceKind:
		return "&&" + t.Inner.String()
	case ArrayKind:
		return fmt.Sprintf("[%s; %d]", t.Inner.String(), t.Len)
	case FnPointerKind:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		sig := fmt.Sprintf("fn(%s)", strings.Join(params, ", "))
		if !t.Ret.IsUnit() {
			sig += " -> " + t.Ret.String()
		}
		return sig
	}
	return "<invalid>"
}
