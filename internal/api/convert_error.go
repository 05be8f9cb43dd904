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
	"fmt"
	"sort"
	"strings"

	"github.com/google/autocxx-sub001/internal/names"
)

// ConvertErrorKind enumerates every way an individual API can fail analysis.
// Most kinds degrade the item to an ignored stub rather than aborting the
// pipeline.
type ConvertErrorKind int

const (
	NoContent ConvertErrorKind = iota
	UnsafePodType
	UnexpectedForeignItem
	UnexpectedOuterItem
	UnexpectedItemInMod
	ComplexTypedefTarget
	UnexpectedThisType
	UnsupportedBuiltInType
	ConflictingTemplatedArgsWithTypedef
	UnacceptableParam
	NotOneInputReference
	UnsupportedType
	UnknownType
	StaticData
	InfinitelyRecursiveTypedef
	UnexpectedUseStatement
	TemplatedTypeContainingNonPathArg
	InvalidPointee
	DidNotGenerateAnything
	TypeContainingForwardDeclaration
	Blocked
	UnusedTemplateParam
	TooManyUnderscores
	UnknownDependentType
	IgnoredDependent
	ReservedName
	DuplicateCxxBridgeName
	UnsupportedReceiver
	BoxContainingNonRustType
	RustTypeWithAPath
	AbstractNestedType
	NonPublicNestedType
	RValueParam
	RValueReturn
	PrivateMethod
	AssignmentOperator
	Deleted
	RValueReferenceField
	MethodOfNonAllowlistedType
	MethodOfGenericType
	DuplicateItemsFoundInParsing
	ConstructorWithOnlyOneParam
)

// ConvertError is a structured per-item failure. It carries enough context
// (names, namespaces, free-form detail) to render an actionable diagnostic,
// both in logs and in the rustdoc of the generated stub.
type ConvertError struct {
	Kind ConvertErrorKind
	// Name is the entity or type the error is about, where applicable.
	Name names.QualifiedName
	// Names carries multiple culprits (IgnoredDependent).
	Names []names.QualifiedName
	// Detail is free-form extra context (function names, reasons).
	Detail string
}

// NewConvertError builds an error with no name context.
func NewConvertError(kind ConvertErrorKind) *ConvertError {
	return &ConvertError{Kind: kind}
}

// NewConvertErrorWithName builds an error about one named entity.
func NewConvertErrorWithName(kind ConvertErrorKind, name names.QualifiedName) *ConvertError {
	return &ConvertError{Kind: kind, Name: name}
}

// NewConvertErrorWithDetail builds an error carrying free-form context.
func NewConvertErrorWithDetail(kind ConvertErrorKind, detail string) *ConvertError {
	return &ConvertError{Kind: kind, Detail: detail}
}

// NewIgnoredDependent builds the transitive-ignore error naming the culprit
// dependencies.
func NewIgnoredDependent(culprits []names.QualifiedName) *ConvertError {
	sorted := append([]names.QualifiedName{}, culprits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ToCppName() < sorted[j].ToCppName() })
	return &ConvertError{Kind: IgnoredDependent, Names: sorted}
}

func (e *ConvertError) Error() string {
	switch e.Kind {
	case NoContent:
		return "the parser did not generate any content; this might be because none of the requested items for generation could be converted"
	case UnsafePodType:
		return fmt.Sprintf("an item was requested using 'generate_pod' which was not safe to hold by value in Rust. %s", e.Detail)
	case UnexpectedForeignItem:
		return "the parser generated some unexpected code in a foreign mod section; you may have specified something in a 'generate' directive which is not currently compatible"
	case UnexpectedOuterItem:
		return "the parser generated some unexpected code in its outermost mod section"
	case UnexpectedItemInMod:
		return "the parser generated some unexpected code in an inner namespace mod"
	case ComplexTypedefTarget:
		return fmt.Sprintf("unable to produce a typedef pointing to the complex type %s", e.Detail)
	case UnexpectedThisType:
		return fmt.Sprintf("unexpected type for 'this' in the function %s", e.Detail)
	case UnsupportedBuiltInType:
		return fmt.Sprintf("the built-in C++ type %s is not yet supported", e.Name.ToCppName())
	case ConflictingTemplatedArgsWithTypedef:
		return fmt.Sprintf("type %s has templated arguments and so does the typedef to which it points", e.Name)
	case UnacceptableParam:
		return fmt.Sprintf("function %s has a parameter or return type which is either on the blocklist or a forward declaration", e.Detail)
	case NotOneInputReference:
		return fmt.Sprintf("function %s has a return reference parameter, but 0 or >1 input reference parameters, so the lifetime of the output reference cannot be deduced", e.Detail)
	case UnsupportedType:
		return fmt.Sprintf("encountered type not yet supported: %s", e.Detail)
	case UnknownType:
		return fmt.Sprintf("encountered type not yet known: %s", e.Detail)
	case StaticData:
		return fmt.Sprintf("encountered mutable static data, not yet supported: %s", e.Detail)
	case InfinitelyRecursiveTypedef:
		return fmt.Sprintf("encountered typedef to itself: %s", e.Name.ToCppName())
	case UnexpectedUseStatement:
		return fmt.Sprintf("unexpected 'use' statement encountered: %s", e.Detail)
	case TemplatedTypeContainingNonPathArg:
		return fmt.Sprintf("type %s was parameterized over something complex which is not supported", e.Name)
	case InvalidPointee:
		return "pointer pointed to something unsupported"
	case DidNotGenerateAnything:
		return fmt.Sprintf("the 'generate' or 'generate_pod' directive for '%s' did not result in any code being generated; perhaps this was mis-spelled or you didn't qualify the name with any namespaces", e.Detail)
	case TypeContainingForwardDeclaration:
		return fmt.Sprintf("found an attempt at using a forward declaration (%s) inside a templated type such as UniquePtr or CxxVector", e.Name.ToCppName())
	case Blocked:
		return fmt.Sprintf("found an attempt at using a type marked as blocked (%s)", e.Name.ToCppName())
	case UnusedTemplateParam:
		return "this function or method uses a type where one of the template parameters was incomprehensible, probably because it uses template specialization"
	case TooManyUnderscores:
		return "names containing __ are reserved by C++ so not acceptable to cxx"
	case UnknownDependentType:
		return fmt.Sprintf("this item relies on a type not known to the generator (%s)", e.Name.ToCppName())
	case IgnoredDependent:
		culprits := make([]string, len(e.Names))
		for i, n := range e.Names {
			culprits[i] = n.ToCppName()
		}
		return fmt.Sprintf("this item depends on some other type(s) which could not be generated, some of them are: %s", strings.Join(culprits, ", "))
	case ReservedName:
		return fmt.Sprintf("the item name '%s' is a reserved word in Rust", e.Detail)
	case DuplicateCxxBridgeName:
		return "this item name is used in multiple namespaces; at present only one type of a given name is supported"
	case UnsupportedReceiver:
		return "this is a method on a type which can't be used as the receiver in Rust (i.e. self/this), probably because some type involves template specialization"
	case BoxContainingNonRustType:
		return fmt.Sprintf("a rust::Box<T> was encountered where T was not known to be a Rust type; use rust_type!(T): %s", e.Name.ToCppName())
	case RustTypeWithAPath:
		return fmt.Sprintf("a qualified Rust type was found (i.e. one containing ::): %s; Rust types must always be a simple identifier", e.Name.ToCppName())
	case AbstractNestedType:
		return "this type is nested within another struct/class, yet is abstract (or is not on the allowlist so we can't be sure); if you don't believe this type is abstract, add it to the allowlist"
	case NonPublicNestedType:
		return "this type is nested within another struct/class with protected or private visibility"
	case RValueParam:
		return "this function takes an rvalue reference parameter (&&) which is not supported in this position"
	case RValueReturn:
		return "this function returns an rvalue reference (&&) which is not yet supported"
	case PrivateMethod:
		return "this method is private"
	case AssignmentOperator:
		return "bindings to operator= are not supported"
	case Deleted:
		return "this function was marked =delete"
	case RValueReferenceField:
		return "this structure has an rvalue reference field (&&) which is not yet supported"
	case MethodOfNonAllowlistedType:
		return "this type was not on the allowlist, so no methods are generated for it"
	case MethodOfGenericType:
		return "this type is templated, so bindings can't be generated; bindings are instead generated for each instantiation"
	case DuplicateItemsFoundInParsing:
		return "the parser generated multiple different APIs (functions/types) with this name and they cannot be disambiguated, so no bindings are generated for any of them"
	case ConstructorWithOnlyOneParam:
		return "the parser generated a move or copy constructor with an unexpected number of parameters"
	}
	return "unknown conversion error"
}

// ErrorContextKind distinguishes which generated stub the error attaches to.
type ErrorContextKind int

const (
	// ItemContext attaches the error to a top-level item stub.
	ItemContext ErrorContextKind = iota
	// SanitizedItemContext is an item whose name had to be cleansed before
	// it was printable.
	SanitizedItemContext
	// MethodContext attaches the error to a method stub of a type.
	MethodContext
)

// ErrorContext is the placement of an error in the generated output, so the
// reason shows up in rustdoc/rust-analyzer next to the thing that failed.
// All identifiers in it have been sanitised and are safe to emit.
type ErrorContext struct {
	Kind   ErrorContextKind
	Item   string
	SelfTy string
	Method string
}

func sanitize(id string) (string, bool) {
	var sb strings.Builder
	changed := false
	for i, r := range id {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if ok {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
			changed = true
		}
	}
	out := sb.String()
	if out == "" {
		return "unknown", true
	}
	return out, changed
}

// NewItemContext sanitises the identifier and records whether it changed.
func NewItemContext(item string) *ErrorContext {
	clean, changed := sanitize(item)
	kind := ItemContext
	if changed {
		kind = SanitizedItemContext
	}
	return &ErrorContext{Kind: kind, Item: clean}
}

// NewMethodContext attaches to self_ty::method.
func NewMethodContext(selfTy, method string) *ErrorContext {
	cleanTy, _ := sanitize(selfTy)
	cleanMethod, _ := sanitize(method)
	return &ErrorContext{Kind: MethodContext, SelfTy: cleanTy, Method: cleanMethod}
}

func (c *ErrorContext) String() string {
	if c.Kind == MethodContext {
		return c.SelfTy + "::" + c.Method
	}
	return c.Item
}
