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
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Virtualness of a C++ method.
type Virtualness int

const (
	NotVirtual Virtualness = iota
	Virtual
	PureVirtual
)

// SpecialMember identifies C++ special member functions.
type SpecialMember int

const (
	NotSpecialMember SpecialMember = iota
	DefaultConstructor
	CopyConstructor
	MoveConstructor
	Destructor
	AssignmentOperatorMember
)

// Provenance records where a FuncToConvert came from.
type Provenance int

const (
	// FromParser means the external parser reported this function.
	FromParser Provenance = iota
	// SynthesizedOther covers implicit special members and make_unique
	// siblings synthesised by the pipeline.
	SynthesizedOther
	// SynthesizedSubclassConstructor is the constructor of a subclass
	// peer.
	SynthesizedSubclassConstructor
)

// Param is one function parameter as reported by the parser.
type Param struct {
	Name string
	Type *ty.Type
}

// FuncToConvert is the pre-analysis payload of a function API: everything
// the parser told us, before any decisions are made.
type FuncToConvert struct {
	// Ident is the identifier as reported, possibly with an overload
	// suffix digit appended by the parser.
	Ident string
	// CppOriginalName is the original_name annotation, set when the parser
	// renamed the entity.
	CppOriginalName string
	Params          []Param
	Ret             *ty.Type
	Doc             string

	CppVisibility CppVisibility
	Virtualness   Virtualness
	SpecialMember SpecialMember
	IsDeleted     bool

	// ReferenceParams names the parameters which are C++ references; the
	// parser reports them as pointers plus this annotation.
	ReferenceParams map[string]bool
	// RValueReferenceParams names parameters which are C++ &&.
	RValueReferenceParams map[string]bool
	// ReferenceReturn marks a return which is a C++ reference.
	ReferenceReturn bool
	// RValueReferenceReturn marks a && return.
	RValueReferenceReturn bool

	// SelfType overrides receiver discovery, used for synthesised
	// subclass constructors where there is no this parameter to inspect.
	SelfType *names.QualifiedName

	Provenance Provenance
}

// HasReferenceParam reports the annotation for one parameter name.
func (f *FuncToConvert) HasReferenceParam(name string) bool {
	return f.ReferenceParams != nil && f.ReferenceParams[name]
}

// HasRValueReferenceParam reports the && annotation for one parameter name.
func (f *FuncToConvert) HasRValueReferenceParam(name string) bool {
	return f.RValueReferenceParams != nil && f.RValueReferenceParams[name]
}

// IsConstructorKind reports whether the special member is any constructor.
func (m SpecialMember) IsConstructorKind() bool {
	return m == DefaultConstructor || m == CopyConstructor || m == MoveConstructor
}

// FnKindKind discriminates how the analysed function is surfaced to Rust.
type FnKindKind int

const (
	// FreeFunction is a plain extern function.
	FreeFunction FnKindKind = iota
	// Method belongs to an impl block of its receiver type.
	Method
	// TraitMethod is surfaced as a trait impl (constructors, destructors,
	// copy/move, subclass methods).
	TraitMethod
)

// MethodKind refines Method classification.
type MethodKind int

const (
	NormalMethod MethodKind = iota
	VirtualMethod
	PureVirtualMethod
	StaticMethod
	// ConstructorMethod is surfaced as fn new(...) -> impl New<Output=Self>.
	ConstructorMethod
	// MakeUniqueMethod is the synthesised sibling returning UniquePtr.
	MakeUniqueMethod
)

// TraitMethodKind refines TraitMethod classification.
type TraitMethodKind int

const (
	TraitCopyConstructor TraitMethodKind = iota
	TraitMoveConstructor
	TraitDestructor
	TraitAlloc
	TraitDealloc
	// TraitSubclassMethod is a virtual method forwarded to a Rust
	// subclass.
	TraitSubclassMethod
)

// FnKind is the full classification of an analysed function.
type FnKind struct {
	Kind FnKindKind
	// ImplFor is the receiver/implementing type for methods and trait
	// methods.
	ImplFor names.QualifiedName
	Method  MethodKind
	Trait   TraitMethodKind
}

// CppConversion enumerates the transformations the C++ wrapper performs on
// one value crossing the boundary.
type CppConversion int

const (
	CppConversionNone CppConversion = iota
	// FromUniquePtrToValue unwraps with std::move(*p).
	FromUniquePtrToValue
	// FromValueToUniquePtr wraps with std::make_unique<T>(x).
	FromValueToUniquePtr
	// FromPtrToMove applies std::move(*p) for rvalue-reference params.
	FromPtrToMove
	// IgnoredPlacementPtrParameter is the destination pointer of a
	// placement-new constructor; the wrapper consumes it.
	IgnoredPlacementPtrParameter
	// DerefFromStr constructs a std::string from a rust::Str.
	DerefFromStr
)

// RustConversion enumerates the transformations the Rust wrapper performs.
type RustConversion int

const (
	RustConversionNone RustConversion = iota
	// FromValueParam accepts impl ValueParam<T> and converts to the raw
	// bridge representation.
	FromValueParam
	// FromRValueParam accepts impl RValueParam<T>.
	FromRValueParam
	// FromPlacementParam turns the out-pointer protocol into an
	// impl New<Output=Self> return.
	FromPlacementParam
	// FromStr passes &str through to the bridge by value.
	FromStr
)

// TypeConversionPolicy is the per-value decision: the unwrapped type plus
// what each side of the boundary must do to it.
type TypeConversionPolicy struct {
	UnwrappedType  *ty.Type
	CppConversion  CppConversion
	RustConversion RustConversion
}

// UnconvertedPolicy passes the type through untouched.
func UnconvertedPolicy(t *ty.Type) TypeConversionPolicy {
	return TypeConversionPolicy{UnwrappedType: t}
}

// CppWorkNeeded reports whether the C++ side must transform this value.
func (p TypeConversionPolicy) CppWorkNeeded() bool {
	return p.CppConversion != CppConversionNone
}

// RustWorkNeeded reports whether the Rust side must transform this value.
func (p TypeConversionPolicy) RustWorkNeeded() bool {
	return p.RustConversion != RustConversionNone
}

// BridgeType is the type as it appears in the bridge declaration.
func (p TypeConversionPolicy) BridgeType() *ty.Type {
	switch p.CppConversion {
	case FromUniquePtrToValue, FromValueToUniquePtr:
		return wrapInUniquePtr(p.UnwrappedType)
	case FromPtrToMove:
		return ty.Pointer(p.UnwrappedType, true)
	default:
		return p.UnwrappedType
	}
}

func wrapInUniquePtr(t *ty.Type) *ty.Type {
	inner := t
	if t.Kind == ty.PathKind && len(t.Segments) > 1 {
		// The bridge mod is flat, so only the final segment matters.
		inner = ty.Path(t.Segments[len(t.Segments)-1])
	}
	return ty.Generic([]string{"UniquePtr"}, inner)
}

// UnsafetyNeeded classifies how much unsafe the caller must write.
type UnsafetyNeeded int

const (
	// UnsafetyNone means the function is safe to call.
	UnsafetyNone UnsafetyNeeded = iota
	// UnsafetyJustBridge means only the bridge declaration is unsafe; the
	// generated Rust wrapper hides it behind a safe API.
	UnsafetyJustBridge
	// UnsafetyAlways means the user-visible function is unsafe.
	UnsafetyAlways
)

// RustRenameStrategy records how the Rust-visible name is put into place.
type RustRenameStrategy int

const (
	// RustRenameNone: bridge name and Rust name coincide.
	RustRenameNone RustRenameStrategy = iota
	// RustRenameAttribute: a #[rust_name] attribute on the bridge entry.
	RustRenameAttribute
	// RustRenameInOutputMod: a `pub use a as b` in the namespace mod,
	// used when identically-named functions exist in several namespaces.
	RustRenameInOutputMod
)

// AnalysedParam is one parameter after conversion decisions.
type AnalysedParam struct {
	Name       string
	Conversion TypeConversionPolicy
	// IsSelf marks the receiver.
	IsSelf bool
	// SelfMutable marks a &mut self / Pin<&mut Self> receiver.
	SelfMutable bool
}

// FnAnalysis is attached to function APIs by the function analysis stage.
type FnAnalysis struct {
	// CxxBridgeName is unique across the flat bridge namespace.
	CxxBridgeName string
	// RustName is the name presented to Rust users, unique per type.
	RustName   string
	RustRename RustRenameStrategy
	Kind       FnKind
	Params     []AnalysedParam
	// Ret is nil for void functions.
	Ret           *TypeConversionPolicy
	CppWrapper    bool
	RustWrapper   bool
	Unsafety      UnsafetyNeeded
	IgnoreReason  *ConvertError
	// ExternallyCallable is false for functions which exist only to feed
	// other analyses (e.g. private special members).
	ExternallyCallable bool
	// CppCallName is the name the C++ wrapper (or bridge) must invoke.
	CppCallName string
	// FieldAccess names a data member instead of a callable: the wrapper
	// body reads the field rather than calling anything.
	FieldAccess string
	// Deps are the type names this function's signature relies upon.
	Deps []names.QualifiedName
}

// CppWrapperName is the symbol of the generated C++ wrapper function, when
// one is needed. Bridge-name uniqueness makes it globally unique.
func (a *FnAnalysis) CppWrapperName() string {
	return a.CxxBridgeName + "_autocxx_wrapper"
}

// BridgeFnName is the identifier declared in the bridge mod: the wrapper
// symbol when a C++ wrapper exists, the bridge name otherwise.
func (a *FnAnalysis) BridgeFnName() string {
	if a.CppWrapper {
		return a.CppWrapperName()
	}
	return a.CxxBridgeName
}

// ConstructorAnalysis summarises which special members a struct ends up
// with, explicit or synthesised.
type ConstructorAnalysis struct {
	DefaultConstructor bool
	CopyConstructor    bool
	MoveConstructor    bool
	Destructor         bool
}
