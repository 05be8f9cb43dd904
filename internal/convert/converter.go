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

// Package convert is the type-conversion engine: a stateful service turning
// C++-shaped type expressions into bridge-shaped ones. It resolves typedefs,
// substitutes known types, concretises template instantiations, polices
// pointer and reference rules, and detects forward-declaration misuse.
package convert

import (
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// PointerTreatment is chosen by function analysis from the parser's
// reference annotations: the parser reports C++ references as pointers, and
// the annotation tells us what the pointer really was.
type PointerTreatment int

const (
	// AsPointer keeps a raw pointer raw.
	AsPointer PointerTreatment = iota
	// AsReference turns the pointer into a Rust reference (or
	// Pin<&mut T> for mutable pointers).
	AsReference
	// AsRValueReference marks the pointer as a C++ &&.
	AsRValueReference
)

type contextKind int

const (
	outerType contextKind = iota
	withinReference
	withinContainer
)

// Context describes where in a type expression the converter currently is.
type Context struct {
	kind             contextKind
	pointerTreatment PointerTreatment
}

// OuterContext is the entry context for a parameter or return type.
func OuterContext(pt PointerTreatment) Context {
	return Context{kind: outerType, pointerTreatment: pt}
}

// ReferenceContext is used inside a reference.
func ReferenceContext() Context {
	return Context{kind: withinReference, pointerTreatment: AsPointer}
}

// ContainerContext is used inside a cxx container generic.
func ContainerContext() Context {
	return Context{kind: withinContainer, pointerTreatment: AsPointer}
}

// allowForwardDeclaration reports whether an incomplete type is usable here.
// Containers such as UniquePtr instantiate their payload, so they need the
// complete type.
func (c Context) allowForwardDeclaration() bool {
	return c.kind != withinContainer
}

// ResultKind summarises the shape of the converted type.
type ResultKind int

const (
	PlainResult ResultKind = iota
	ReferenceResult
	MutableReferenceResult
	PointerResult
	RValueReferenceResult
)

// Result is the outcome of one conversion.
type Result struct {
	Type *ty.Type
	// Deps are the user-type names this type relies on.
	Deps []names.QualifiedName
	// ExtraApis are synthesised concrete types to add to the vector.
	ExtraApis []*api.Api
	Kind      ResultKind
}

// TypeConverter is the stateful conversion service. One instance serves one
// pipeline run and is consulted, in strict sequential order, by every stage
// from typedef resolution to garbage collection.
type TypeConverter struct {
	cfg *directive.IncludeCppConfig
	// typeNames is the set of user types present in the API vector.
	typeNames map[string]bool
	// forwardDeclarations is the subset which are incomplete.
	forwardDeclarations map[string]bool
	// typedefTargets maps a typedef name to its (converted) target.
	typedefTargets map[string]*ty.Type
	// concreteCache maps a C++ template spelling to its synthesised name,
	// so repeat instantiations share a type.
	concreteCache map[string]names.QualifiedName
	// concreteNames records synthesised names to avoid collisions.
	concreteNames map[string]bool
}

// NewTypeConverter scans the API vector for type names and forward
// declarations, and seeds the concrete-instantiation cache from the user's
// concrete! directives.
func NewTypeConverter(apis *api.ApiVec, cfg *directive.IncludeCppConfig) *TypeConverter {
	tc := &TypeConverter{
		cfg:                 cfg,
		typeNames:           make(map[string]bool),
		forwardDeclarations: make(map[string]bool),
		typedefTargets:      make(map[string]*ty.Type),
		concreteCache:       make(map[string]names.QualifiedName),
		concreteNames:       make(map[string]bool),
	}
	for _, a := range apis.Iter() {
		if a.IsType() {
			tc.typeNames[a.QName().ToCppName()] = true
		}
		if a.Kind == api.ForwardDeclarationKind {
			tc.forwardDeclarations[a.QName().ToCppName()] = true
		}
	}
	for _, c := range cfg.Concretes {
		tc.concreteCache[c.CppDefinition] = names.QualifiedNameFromCppName(c.RustID)
		tc.concreteNames[c.RustID] = true
	}
	return tc
}

// RegisterTypedefTarget records the resolved target of a typedef; the
// typedef-resolution pass calls this for every typedef it settles.
func (tc *TypeConverter) RegisterTypedefTarget(name names.QualifiedName, target *ty.Type) {
	tc.typedefTargets[name.ToCppName()] = target
}

// TypedefTarget returns the ultimate target for a typedef name, or nil.
func (tc *TypeConverter) TypedefTarget(name names.QualifiedName) *ty.Type {
	return tc.typedefTargets[name.ToCppName()]
}

// KnownTypeName reports whether this name is a user type in the vector.
func (tc *TypeConverter) KnownTypeName(qn names.QualifiedName) bool {
	return tc.typeNames[qn.ToCppName()]
}

// IsForwardDeclaration reports whether the name is an incomplete type.
func (tc *TypeConverter) IsForwardDeclaration(qn names.QualifiedName) bool {
	return tc.forwardDeclarations[qn.ToCppName()]
}

// ConvertType converts one type expression found in namespace ns.
func (tc *TypeConverter) ConvertType(t *ty.Type, ns names.Namespace, ctx Context) (Result, *api.ConvertError) {
	switch t.Kind {
	case ty.UnitKind:
		return Result{Type: ty.Unit()}, nil
	case ty.PathKind:
		return tc.convertPath(t, ns, ctx)
	case ty.ReferenceKind:
		inner, err := tc.ConvertType(t.Inner, ns, ReferenceContext())
		if err != nil {
			return Result{}, err
		}
		kind := ReferenceResult
		if t.Mutable {
			kind = MutableReferenceResult
		}
		return Result{
			Type:      ty.Reference(inner.Type, t.Mutable),
			Deps:      inner.Deps,
			ExtraApis: inner.ExtraApis,
			Kind:      kind,
		}, nil
	case ty.PointerKind:
		return tc.convertPointer(t, ns, ctx)
	case ty.RValueReferenceKind:
		inner, err := tc.ConvertType(t.Inner, ns, ReferenceContext())
		if err != nil {
			return Result{}, err
		}
		return Result{
			Type:      ty.RValueReference(inner.Type),
			Deps:      inner.Deps,
			ExtraApis: inner.ExtraApis,
			Kind:      RValueReferenceResult,
		}, nil
	case ty.ArrayKind:
		inner, err := tc.ConvertType(t.Inner, ns, ctx)
		if err != nil {
			return Result{}, err
		}
		out := *t
		out.Inner = inner.Type
		return Result{Type: &out, Deps: inner.Deps, ExtraApis: inner.ExtraApis}, nil
	case ty.FnPointerKind:
		return tc.convertFnPointer(t, ns)
	}
	return Result{}, api.NewConvertErrorWithDetail(api.UnsupportedType, t.String())
}

func (tc *TypeConverter) convertFnPointer(t *ty.Type, ns names.Namespace) (Result, *api.ConvertError) {
	out := &ty.Type{Kind: ty.FnPointerKind}
	var deps []names.QualifiedName
	var extras []*api.Api
	for _, p := range t.Params {
		conv, err := tc.ConvertType(p, ns, ReferenceContext())
		if err != nil {
			return Result{}, err
		}
		out.Params = append(out.Params, conv.Type)
		deps = append(deps, conv.Deps...)
		extras = append(extras, conv.ExtraApis...)
	}
	if !t.Ret.IsUnit() {
		conv, err := tc.ConvertType(t.Ret, ns, ReferenceContext())
		if err != nil {
			return Result{}, err
		}
		out.Ret = conv.Type
		deps = append(deps, conv.Deps...)
		extras = append(extras, conv.ExtraApis...)
	}
	return Result{Type: out, Deps: deps, ExtraApis: extras}, nil
}

func (tc *TypeConverter) convertPointer(t *ty.Type, ns names.Namespace, ctx Context) (Result, *api.ConvertError) {
	if t.Inner.Kind != ty.PathKind {
		return Result{}, api.NewConvertError(api.InvalidPointee)
	}
	inner, err := tc.ConvertType(t.Inner, ns, ReferenceContext())
	if err != nil {
		return Result{}, err
	}
	pt := AsPointer
	if ctx.kind == outerType {
		pt = ctx.pointerTreatment
	}
	switch pt {
	case AsPointer:
		return Result{
			Type:      ty.Pointer(inner.Type, t.Mutable),
			Deps:      inner.Deps,
			ExtraApis: inner.ExtraApis,
			Kind:      PointerResult,
		}, nil
	case AsReference:
		if t.Mutable {
			// Lifetime elision fails inside Pin, so this becomes
			// Pin<&mut T>; codegen adds explicit lifetimes where
			// needed.
			return Result{
				Type:      ty.Generic([]string{"std", "pin", "Pin"}, ty.Reference(inner.Type, true)),
				Deps:      inner.Deps,
				ExtraApis: inner.ExtraApis,
				Kind:      MutableReferenceResult,
			}, nil
		}
		return Result{
			Type:      ty.Reference(inner.Type, false),
			Deps:      inner.Deps,
			ExtraApis: inner.ExtraApis,
			Kind:      ReferenceResult,
		}, nil
	case AsRValueReference:
		return Result{
			Type:      ty.RValueReference(inner.Type),
			Deps:      inner.Deps,
			ExtraApis: inner.ExtraApis,
			Kind:      RValueReferenceResult,
		}, nil
	}
	return Result{}, api.NewConvertError(api.InvalidPointee)
}

func (tc *TypeConverter) convertPath(t *ty.Type, ns names.Namespace, ctx Context) (Result, *api.ConvertError) {
	db := knowntypes.DB()
	qn := t.QualifiedName()

	// An unqualified name which isn't built in might be a sibling in the
	// current namespace; this shortcut avoids full multi-namespace
	// resolution and matches what the parser emits in practice.
	if len(t.Segments) == 1 && !db.IsKnownType(qn) && !tc.typeNames[qn.ToCppName()] {
		candidate := names.NewQualifiedName(ns, qn.FinalItem())
		if tc.typeNames[candidate.ToCppName()] {
			qn = candidate
			requalified := ty.PathFromName(candidate)
			requalified.Args = t.Args
			t = requalified
		}
	}

	if tc.cfg.IsOnBlocklist(qn.ToCppName()) {
		return Result{}, api.NewConvertErrorWithName(api.Blocked, qn)
	}

	// Resolve typedefs transitively, with cycle detection.
	seen := map[string]bool{qn.ToCppName(): true}
	for {
		target := tc.typedefTargets[qn.ToCppName()]
		if target == nil {
			break
		}
		if target.Kind != ty.PathKind {
			// The typedef target is itself a reference, pointer or
			// similar; adopt it wholesale.
			if len(t.Args) > 0 {
				return Result{}, api.NewConvertErrorWithName(api.ConflictingTemplatedArgsWithTypedef, qn)
			}
			return tc.ConvertType(target.Clone(), ns, ctx)
		}
		next := target.QualifiedName()
		if seen[next.ToCppName()] {
			return Result{}, api.NewConvertErrorWithName(api.InfinitelyRecursiveTypedef, qn)
		}
		seen[next.ToCppName()] = true
		if len(t.Args) > 0 && len(target.Args) > 0 {
			return Result{}, api.NewConvertErrorWithName(api.ConflictingTemplatedArgsWithTypedef, qn)
		}
		carried := cloneArgs(t.Args)
		t = target.Clone()
		if len(t.Args) == 0 {
			t.Args = carried
		}
		qn = next
		if tc.cfg.IsOnBlocklist(qn.ToCppName()) {
			return Result{}, api.NewConvertErrorWithName(api.Blocked, qn)
		}
	}

	// Substitute known types: std::string becomes CxxString and so on.
	if sub := db.SubstitutePath(qn); sub != nil {
		replaced := sub.Clone()
		replaced.Args = t.Args
		t = replaced
		qn = t.QualifiedName()
	} else if tc.forwardDeclarations[qn.ToCppName()] && !ctx.allowForwardDeclaration() {
		return Result{}, api.NewConvertErrorWithName(api.TypeContainingForwardDeclaration, qn)
	}

	if len(t.Args) > 0 {
		return tc.convertGeneric(t, qn, ns)
	}

	// rust::Str looks like a by-value parameter but Rust models it as a
	// borrow.
	if db.ShouldDereferenceInCpp(qn) && ctx.kind == outerType {
		return Result{
			Type: ty.Reference(ty.Path("str"), false),
			Kind: ReferenceResult,
		}, nil
	}

	result := Result{Type: t}
	if !db.IsKnownType(qn) {
		if len(t.Segments) > 1 && t.Segments[0] != "root" {
			// A qualified path that is neither a user type nor a
			// built-in, e.g. some std:: type we never learned.
			return Result{}, api.NewConvertErrorWithName(api.UnsupportedBuiltInType, qn)
		}
		result.Deps = append(result.Deps, qn)
	}
	return result, nil
}

func cloneArgs(args []*ty.Type) []*ty.Type {
	out := make([]*ty.Type, len(args))
	for i, a := range args {
		out[i] = a.Clone()
	}
	return out
}

func (tc *TypeConverter) convertGeneric(t *ty.Type, qn names.QualifiedName, ns names.Namespace) (Result, *api.ConvertError) {
	db := knowntypes.DB()
	switch db.GenericBehavior(qn) {
	case knowntypes.CppGeneric:
		out := t.WithoutArgs()
		var deps []names.QualifiedName
		var extras []*api.Api
		for _, arg := range t.Args {
			if arg.Kind != ty.PathKind {
				return Result{}, api.NewConvertErrorWithName(api.TemplatedTypeContainingNonPathArg, qn)
			}
			conv, err := tc.ConvertType(arg, ns, ContainerContext())
			if err != nil {
				return Result{}, err
			}
			out.Args = append(out.Args, conv.Type)
			deps = append(deps, conv.Deps...)
			extras = append(extras, conv.ExtraApis...)
		}
		return Result{Type: out, Deps: deps, ExtraApis: extras}, nil
	case knowntypes.RustGeneric:
		if len(t.Args) != 1 || t.Args[0].Kind != ty.PathKind {
			return Result{}, api.NewConvertErrorWithName(api.TemplatedTypeContainingNonPathArg, qn)
		}
		inner := t.Args[0].QualifiedName()
		if !inner.Namespace().IsEmpty() {
			return Result{}, api.NewConvertErrorWithName(api.RustTypeWithAPath, inner)
		}
		if !tc.cfg.IsRustType(inner.FinalItem()) {
			return Result{}, api.NewConvertErrorWithName(api.BoxContainingNonRustType, inner)
		}
		return Result{Type: t, Deps: []names.QualifiedName{inner}}, nil
	default:
		return tc.concretise(t, ns)
	}
}

// concretise synthesises a named concrete type standing in for a template
// instantiation the bridge layer cannot express.
func (tc *TypeConverter) concretise(t *ty.Type, ns names.Namespace) (Result, *api.ConvertError) {
	for _, arg := range t.Args {
		if arg.Kind != ty.PathKind {
			return Result{}, api.NewConvertErrorWithName(api.TemplatedTypeContainingNonPathArg, t.QualifiedName())
		}
		if len(arg.Args) > 0 {
			// Nested generics are the conservative branch: some
			// could be concretised, but templates of templates
			// fail here.
			return Result{}, api.NewConvertErrorWithName(api.TemplatedTypeContainingNonPathArg, t.QualifiedName())
		}
	}
	cppSpelling := CppSpelling(t)
	concreteName, cached := tc.concreteCache[cppSpelling]
	if !cached {
		base := sanitizeCppSpelling(cppSpelling) + "_AutocxxConcrete"
		candidate := base
		for n := 1; tc.concreteNames[candidate]; n++ {
			candidate = base + string(rune('A'+n-1))
		}
		tc.concreteNames[candidate] = true
		concreteName = names.QualifiedNameFromCppName(candidate)
		tc.concreteCache[cppSpelling] = concreteName
	}
	result := Result{
		Type: ty.PathFromName(concreteName),
		Deps: []names.QualifiedName{concreteName},
		Kind: PlainResult,
	}
	if !tc.typeNames[concreteName.ToCppName()] {
		tc.typeNames[concreteName.ToCppName()] = true
		result.ExtraApis = []*api.Api{{
			Kind:          api.ConcreteTypeKind,
			Name:          names.NewApiNameWithCppName(concreteName, cppSpelling),
			RsDefinition:  t.Clone(),
			CppDefinition: cppSpelling,
		}}
	}
	return result, nil
}

// sanitizeCppSpelling turns a C++ template spelling into an identifier:
// alphanumerics survive, everything else becomes a single underscore.
func sanitizeCppSpelling(s string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range s {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if ok {
			sb.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(sb.String(), "_")
}
