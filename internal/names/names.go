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

// Package names holds the identifier model used throughout the conversion
// pipeline. Every C++ entity is addressed by a [QualifiedName]; APIs refer to
// each other by name, never by pointer, which keeps the otherwise-cyclic C++
// class graph acyclic on our side.
package names

import (
	"strings"
)

// Namespace is the sequence of enclosing C++ namespace names, stored without
// any `bindgen::root` prefix. A type in the global namespace has an empty
// segment list. The segment slice is shared, never mutated in place.
type Namespace struct {
	segments []string
}

// RootNamespace returns the empty (global) namespace.
func RootNamespace() Namespace {
	return Namespace{}
}

// NamespaceFromUserInput parses a `::`-separated namespace spelling.
func NamespaceFromUserInput(input string) Namespace {
	if input == "" {
		return Namespace{}
	}
	return Namespace{segments: strings.Split(input, "::")}
}

// Push returns a namespace one level deeper. The receiver is unchanged.
func (n Namespace) Push(segment string) Namespace {
	bigger := make([]string, 0, len(n.segments)+1)
	bigger = append(bigger, n.segments...)
	bigger = append(bigger, segment)
	return Namespace{segments: bigger}
}

// IsEmpty reports whether this is the global namespace.
func (n Namespace) IsEmpty() bool {
	return len(n.segments) == 0
}

// Depth returns the number of namespace segments.
func (n Namespace) Depth() int {
	return len(n.segments)
}

// Segments returns the namespace segments, outermost first. Callers must not
// modify the returned slice.
func (n Namespace) Segments() []string {
	return n.segments
}

func (n Namespace) String() string {
	return strings.Join(n.segments, "::")
}

// DisplaySuffix renders ` in namespace x::y` for diagnostics, or nothing for
// the global namespace.
func (n Namespace) DisplaySuffix() string {
	if n.IsEmpty() {
		return ""
	}
	return " in namespace " + n.String()
}

// Equal reports structural equality.
func (n Namespace) Equal(other Namespace) bool {
	if len(n.segments) != len(other.segments) {
		return false
	}
	for i, s := range n.segments {
		if s != other.segments[i] {
			return false
		}
	}
	return true
}

// QualifiedName stores a type or function name together with its namespace.
// Some entities change name as they flow through the pipeline (std::string
// becomes CxxString); a QualifiedName can store either spelling. It is a
// value type and is used as a map key via its String form.
type QualifiedName struct {
	ns    Namespace
	final string
}

// NewQualifiedName builds a name from a namespace and a final identifier.
func NewQualifiedName(ns Namespace, id string) QualifiedName {
	return QualifiedName{ns: ns, final: id}
}

// QualifiedNameFromCppName parses user input such as `A::B::C`, as found in a
// generate! or pod! directive. Empty leading segments (from a `::A` global
// qualifier) are dropped.
func QualifiedNameFromCppName(id string) QualifiedName {
	segs := strings.Split(id, "::")
	ns := Namespace{}
	for _, seg := range segs[:len(segs)-1] {
		if seg != "" {
			ns = ns.Push(seg)
		}
	}
	return QualifiedName{ns: ns, final: segs[len(segs)-1]}
}

// FinalItem returns the name without namespace qualification. Avoid unless
// you have a good reason.
func (q QualifiedName) FinalItem() string {
	return q.final
}

// Namespace returns the enclosing namespace.
func (q QualifiedName) Namespace() Namespace {
	return q.ns
}

// Segments iterates all segments of the name, namespace first.
func (q QualifiedName) Segments() []string {
	out := make([]string, 0, len(q.ns.segments)+1)
	out = append(out, q.ns.segments...)
	return append(out, q.final)
}

// BindgenPathSegments returns the path of this name inside the generated
// `bindgen` module, rooted at bindgen::root.
func (q QualifiedName) BindgenPathSegments() []string {
	out := []string{"bindgen", "root"}
	out = append(out, q.ns.segments...)
	return append(out, q.final)
}

// ToCppName renders the fully-qualified C++ spelling (`::`-joined).
// Known-type substitutions (CxxString back to std::string) are applied by
// the knowntypes registry, not here.
func (q QualifiedName) ToCppName() string {
	return strings.Join(q.Segments(), "::")
}

func (q QualifiedName) String() string {
	return q.ToCppName()
}

// Equal reports structural equality.
func (q QualifiedName) Equal(other QualifiedName) bool {
	return q.final == other.final && q.ns.Equal(other.ns)
}

// ApiName pairs the name we present to Rust with the original C++ name, when
// the parser had to rename the entity (e.g. to escape a Rust keyword).
type ApiName struct {
	Name QualifiedName
	// CppName is empty unless the C++ spelling differs from Name.
	CppName string
}

// NewApiName wraps a QualifiedName with no C++ rename.
func NewApiName(name QualifiedName) ApiName {
	return ApiName{Name: name}
}

// NewApiNameWithCppName records a differing C++ original name.
func NewApiNameWithCppName(name QualifiedName, cppName string) ApiName {
	return ApiName{Name: name, CppName: cppName}
}

// EffectiveCppName returns the name to emit into C++ code.
func (a ApiName) EffectiveCppName() string {
	if a.CppName != "" {
		return a.CppName
	}
	return a.Name.FinalItem()
}
