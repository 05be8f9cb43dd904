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

// Package api defines the record type every pipeline stage operates on. An
// [Api] is one C/C++ (or synthesised) entity; stages replace records whole
// and attach progressively richer analysis payloads. Records refer to each
// other only by [names.QualifiedName], never by pointer.
package api

import (
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Kind discriminates the Api variants.
type Kind int

const (
	// ForwardDeclarationKind is a class declared but never defined in the
	// headers we saw.
	ForwardDeclarationKind Kind = iota
	// ConcreteTypeKind is a synthesised type standing in for a template
	// instantiation.
	ConcreteTypeKind
	// StringConstructorKind marks that make_string must be synthesised.
	StringConstructorKind
	// FunctionKind covers free functions, methods and special members.
	FunctionKind
	// ConstKind is a constant.
	ConstKind
	// TypedefKind is a C++ typedef or using statement.
	TypedefKind
	// EnumKind is a C++ enum passed through to Rust.
	EnumKind
	// StructKind is a C++ struct or class.
	StructKind
	// CTypeKind is a variable-width C integer type (c_int, c_long...).
	CTypeKind
	// IgnoredItemKind is an entity we couldn't generate, retained so the
	// reason surfaces in rustdoc.
	IgnoredItemKind
	// RustTypeKind is a user-declared Rust type exposed to C++.
	RustTypeKind
	// RustFnKind is a user-declared Rust function exposed to C++.
	RustFnKind
	// SubclassKind is a Rust class deriving from a C++ class.
	SubclassKind
	// SubclassTraitItemKind is one virtual method of a subclassed
	// superclass, exposed as a Rust trait method.
	SubclassTraitItemKind
	// RustSubclassFnKind is the extern "Rust" forwarding function for one
	// subclass virtual method.
	RustSubclassFnKind
	// ExternCppTypeKind is a type the user declared as already bound
	// elsewhere (extern_cpp_type!).
	ExternCppTypeKind
)

func (k Kind) String() string {
	switch k {
	case ForwardDeclarationKind:
		return "forward declaration"
	case ConcreteTypeKind:
		return "concrete type"
	case StringConstructorKind:
		return "string constructor"
	case FunctionKind:
		return "function"
	case ConstKind:
		return "const"
	case TypedefKind:
		return "typedef"
	case EnumKind:
		return "enum"
	case StructKind:
		return "struct"
	case CTypeKind:
		return "c type"
	case IgnoredItemKind:
		return "ignored item"
	case RustTypeKind:
		return "rust type"
	case RustFnKind:
		return "rust function"
	case SubclassKind:
		return "subclass"
	case SubclassTraitItemKind:
		return "subclass trait item"
	case RustSubclassFnKind:
		return "rust subclass function"
	case ExternCppTypeKind:
		return "extern cpp type"
	}
	return "unknown"
}

// TypeKind is the final classification of a struct.
type TypeKind int

const (
	// NonPod types live behind UniquePtr in Rust.
	NonPod TypeKind = iota
	// Pod types are safe to hold by value in Rust.
	Pod
	// Abstract types cannot be constructed at all.
	Abstract
)

func (k TypeKind) String() string {
	switch k {
	case Pod:
		return "POD"
	case NonPod:
		return "non-POD"
	case Abstract:
		return "abstract"
	}
	return "unknown"
}

// CppVisibility mirrors the C++ access specifier of an entity.
type CppVisibility int

const (
	Public CppVisibility = iota
	Protected
	Private
)

// Layout records what the parser knew about a struct's memory layout.
type Layout struct {
	Size   int
	Align  int
	Packed bool
}

// Field is one data member of a struct.
type Field struct {
	Name string
	Type *ty.Type
	// Visibility of the member in C++.
	Visibility CppVisibility
	// IsRValueReference marks T&& fields, which block POD-ness and copying.
	IsRValueReference bool
	// Doc is the C++ doc comment, if any.
	Doc string
}

// StructDetails is the pre-analysis payload of a struct API.
type StructDetails struct {
	Fields []Field
	Layout *Layout
	// Visibility is the nesting visibility: private for structs declared
	// inside a private section of another class.
	Visibility CppVisibility
	// HasRValueReferenceFields caches the field scan.
	HasRValueReferenceFields bool
	// IsGeneric marks templated structs; we only bind their concrete
	// instantiations.
	IsGeneric bool
	Doc       string
}

// EnumValue is one enumerator.
type EnumValue struct {
	Name  string
	Value int64
	Doc   string
}

// EnumDetails is the payload of an enum API; enums pass through unchanged.
type EnumDetails struct {
	Repr   string
	Values []EnumValue
	Doc    string
}

// ConstDetails is the payload of a const API.
type ConstDetails struct {
	Type  *ty.Type
	Value string
	Doc   string
}

// TypedefDetails is the pre-analysis payload of a typedef API.
type TypedefDetails struct {
	// Target is the aliased type as written.
	Target *ty.Type
	// FromUseStatement distinguishes `using A = B` in a class scope.
	FromUseStatement bool
}

// TypedefAnalysis is attached once the typedef-resolution pass has run.
type TypedefAnalysis struct {
	// Target is the converted alias target.
	Target *ty.Type
	// Deps are the names the target depends on.
	Deps []names.QualifiedName
}

// PodAnalysis is attached to structs by the POD analysis stage and later
// refined by abstract-type marking.
type PodAnalysis struct {
	Kind TypeKind
	// Bases are all base classes.
	Bases []names.QualifiedName
	// CastableBases are bases on the allowlist, usable for upcasts.
	CastableBases []names.QualifiedName
	// FieldDeps are the named types of the fields.
	FieldDeps []names.QualifiedName
	// Movable is false when the type has a deleted or inaccessible move
	// constructor.
	Movable bool
	// IsGeneric is carried over from the struct details.
	IsGeneric bool
}

// SubclassDetails is the payload of a subclass API.
type SubclassDetails struct {
	Superclass names.QualifiedName
	// CppPeer is the name of the generated C++ peer class, e.g. MyObsCpp.
	CppPeer string
	// Holder is the name of the Rust holder struct, e.g. MyObsHolder.
	Holder string
}

// SubclassTraitMethod is one virtual method exposed on the methods trait of
// a subclassed superclass.
type SubclassTraitMethod struct {
	Subclass   names.QualifiedName
	Superclass names.QualifiedName
	// Method is the analysed signature of the virtual method.
	Method *FuncToConvert
	// Pure marks methods the Rust subclass must implement.
	Pure bool
}

// RustSubclassFnDetails describes the extern "Rust" forwarder for one
// subclass virtual method.
type RustSubclassFnDetails struct {
	Subclass   names.QualifiedName
	Superclass names.QualifiedName
	// CppForwarderName is the free function the C++ override calls.
	CppForwarderName string
	Method           *FuncToConvert
}

// RustFnDetails is the payload of a user-supplied extern_rust_fun.
type RustFnDetails struct {
	Path      string
	Signature string
}

// ExternCppTypeDetails is the payload of extern_cpp_type!.
type ExternCppTypeDetails struct {
	RustPath string
	Opaque   bool
}

// Api is one entity flowing through the pipeline. Exactly the payloads
// relevant to Kind are set; analysis pointers are nil until the owning stage
// has run.
type Api struct {
	Kind Kind
	Name names.ApiName

	// Doc is the original doc comment, carried into generated rustdoc.
	Doc string

	// ConcreteTypeKind.
	RsDefinition  *ty.Type
	CppDefinition string

	// FunctionKind.
	Fun        *FuncToConvert
	FnAnalysis *FnAnalysis

	// ConstKind.
	Const *ConstDetails

	// TypedefKind.
	Typedef         *TypedefDetails
	TypedefAnalysis *TypedefAnalysis

	// EnumKind.
	Enum *EnumDetails

	// StructKind.
	Struct       *StructDetails
	PodAnalysis  *PodAnalysis
	Constructors *ConstructorAnalysis

	// CTypeKind.
	CTypeName names.QualifiedName

	// IgnoredItemKind.
	Err *ConvertError
	Ctx *ErrorContext

	// RustTypeKind / RustFnKind.
	RustPath string
	RustFn   *RustFnDetails

	// SubclassKind and friends.
	Subclass          *SubclassDetails
	SubclassTrait     *SubclassTraitMethod
	RustSubclassFn    *RustSubclassFnDetails

	// ExternCppTypeKind.
	ExternCppType *ExternCppTypeDetails
}

// QName is shorthand for the record's qualified name.
func (a *Api) QName() names.QualifiedName {
	return a.Name.Name
}

// IsType reports whether this API introduces a type name usable in
// signatures.
func (a *Api) IsType() bool {
	switch a.Kind {
	case StructKind, EnumKind, ConcreteTypeKind, TypedefKind, ForwardDeclarationKind,
		CTypeKind, RustTypeKind, SubclassKind, ExternCppTypeKind:
		return true
	}
	return false
}

// Ignored builds an IgnoredItem replacement for this API, preserving name
// and attaching the reason.
func (a *Api) Ignored(err *ConvertError, ctx *ErrorContext) *Api {
	if ctx == nil {
		ctx = NewItemContext(a.QName().FinalItem())
	}
	return &Api{
		Kind: IgnoredItemKind,
		Name: a.Name,
		Doc:  a.Doc,
		Err:  err,
		Ctx:  ctx,
	}
}
