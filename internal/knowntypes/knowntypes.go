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

// Package knowntypes is the registry of built-in type mappings between C++
// and the bridge layer: std::string maps to CxxString, std::unique_ptr to
// UniquePtr, fixed-width integers to their Rust spellings, and so on. The
// registry is immutable after initialisation.
package knowntypes

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Behavior describes how a known type may cross the boundary.
type Behavior int

const (
	// CxxContainerByValueSafe is a cxx generic which Rust can hold by value
	// (UniquePtr, SharedPtr, WeakPtr).
	CxxContainerByValueSafe Behavior = iota
	// CxxContainerNotByValueSafe is a cxx generic which must stay behind a
	// pointer (CxxVector).
	CxxContainerNotByValueSafe
	// CxxString is std::string; it contains a self-referential pointer so
	// it is never POD.
	CxxString
	// RustStr is rust::Str, a C++ by-value type modelled as &str in Rust.
	RustStr
	// RustString is rust::String.
	RustString
	// RustByValue is a Rust-native type passed by value (Pin).
	RustByValue
	// CByValue is a fixed-width C type passed by value.
	CByValue
	// CVariableLengthByValue is a C integer type whose width varies by
	// platform (c_int, c_long...).
	CVariableLengthByValue
	// CVoid is void.
	CVoid
	// RustContainerByValueSafe is a Rust-owning generic (rust::Box).
	RustContainerByValueSafe
)

// GenericKind is the payload policy for a generic known type.
type GenericKind int

const (
	// NotGeneric marks a type which takes no type arguments.
	NotGeneric GenericKind = iota
	// CppGeneric marks a cxx generic whose argument must be a complete
	// type (UniquePtr, CxxVector, SharedPtr, WeakPtr).
	CppGeneric
	// RustGeneric marks a Rust-owning generic where forward declarations
	// are fine (rust::Box).
	RustGeneric
)

// ConstructorDetails reports what special members a known type offers.
type ConstructorDetails struct {
	HasMoveConstructor      bool
	HasConstCopyConstructor bool
}

// TypeDetails describes one known special type.
type TypeDetails struct {
	// RsName is the spelling used in Rust code, e.g. cxx::UniquePtr.
	RsName string
	// CppName is the C++ equivalent, e.g. std::unique_ptr.
	CppName string
	// Behavior of the type at the boundary.
	Behavior Behavior
	// ExtraNonCanonicalName is an additional accepted spelling, e.g.
	// std::os::raw::c_schar for i8.
	ExtraNonCanonicalName string
	// HasConstCopyConstructor and HasMoveConstructor feed the implicit
	// special-member analysis.
	HasConstCopyConstructor bool
	HasMoveConstructor      bool
}

func (t *TypeDetails) rsQualifiedName() names.QualifiedName {
	return names.QualifiedNameFromCppName(strings.TrimPrefix(t.RsName, "::"))
}

// TypePath renders the Rust path for this type.
func (t *TypeDetails) TypePath() *ty.Type {
	trimmed := strings.TrimPrefix(t.RsName, "::")
	return ty.Path(strings.Split(trimmed, "::")...)
}

func (t *TypeDetails) genericKind() GenericKind {
	switch t.Behavior {
	case CxxContainerByValueSafe, CxxContainerNotByValueSafe:
		return CppGeneric
	case RustContainerByValueSafe:
		return RustGeneric
	default:
		return NotGeneric
	}
}

// preludeEntry returns the C++ stub class handed to the parser for this type,
// if it needs one.
func (t *TypeDetails) preludeEntry() string {
	switch t.Behavior {
	case RustString, RustStr, CxxString, CxxContainerByValueSafe,
		CxxContainerNotByValueSafe, RustContainerByValueSafe:
	default:
		return ""
	}
	cxxName := t.rsQualifiedName().FinalItem()
	templating, payload := "", "char* ptr"
	switch t.Behavior {
	case CxxContainerByValueSafe, CxxContainerNotByValueSafe, RustContainerByValueSafe:
		templating, payload = "template<typename T> ", "T* ptr"
	}
	return fmt.Sprintf(`/**
* <div rustbindgen="true" replaces=%q>
*/
%sclass %s {
    %s;
};
`, t.CppName, templating, cxxName, payload)
}

// Database is the immutable registry of known types.
type Database struct {
	byRsName       map[string]*TypeDetails
	canonicalNames map[string]string
}

var databaseOnce = sync.OnceValue(newDatabase)

// DB returns the process-wide registry.
func DB() *Database {
	return databaseOnce()
}

func (db *Database) get(qn names.QualifiedName) *TypeDetails {
	// When we encounter something like std::unique_ptr in the parser
	// output we immediately refer to it as UniquePtr henceforth.
	key := qn.ToCppName()
	if canonical, ok := db.canonicalNames[key]; ok {
		key = canonical
	}
	return db.byRsName[key]
}

// IsKnownType reports whether the registry covers this name under any
// accepted spelling.
func (db *Database) IsKnownType(qn names.QualifiedName) bool {
	return db.get(qn) != nil
}

// SubstitutePath returns the canonical Rust path for a known name, without
// generic arguments; callers reattach them. Returns nil for unknown names.
func (db *Database) SubstitutePath(qn names.QualifiedName) *ty.Type {
	if td := db.get(qn); td != nil {
		return td.TypePath()
	}
	return nil
}

// SpecialCppName returns the C++ spelling for a known name ("std::string"
// for CxxString), or "" if unknown.
func (db *Database) SpecialCppName(qn names.QualifiedName) string {
	if td := db.get(qn); td != nil {
		return td.CppName
	}
	return ""
}

// CppNameFor renders the C++ name for any qualified name, applying known
// substitutions first.
func (db *Database) CppNameFor(qn names.QualifiedName) string {
	if special := db.SpecialCppName(qn); special != "" {
		return special
	}
	return qn.ToCppName()
}

// AllNames lists every accepted spelling, sorted, mostly for tests and
// prelude construction.
func (db *Database) AllNames() []names.QualifiedName {
	var out []names.QualifiedName
	for k := range db.canonicalNames {
		out = append(out, names.QualifiedNameFromCppName(k))
	}
	for k := range db.byRsName {
		out = append(out, names.QualifiedNameFromCppName(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ToCppName() < out[j].ToCppName() })
	return out
}

// PodSafeTypes returns, for every known spelling, whether the type is safe
// to hold by value in Rust.
func (db *Database) PodSafeTypes() map[string]bool {
	out := make(map[string]bool)
	for _, qn := range db.AllNames() {
		td := db.get(qn)
		safe := false
		switch td.Behavior {
		case CxxContainerByValueSafe, RustStr, RustString, RustByValue,
			CByValue, CVariableLengthByValue, RustContainerByValueSafe:
			safe = true
		}
		out[qn.ToCppName()] = safe
	}
	return out
}

// ConstructorDetailsFor reports copy/move constructor availability, or nil
// for unknown names.
func (db *Database) ConstructorDetailsFor(qn names.QualifiedName) *ConstructorDetails {
	td := db.get(qn)
	if td == nil {
		return nil
	}
	return &ConstructorDetails{
		HasMoveConstructor:      td.HasMoveConstructor,
		HasConstCopyConstructor: td.HasConstCopyConstructor,
	}
}

// ShouldDereferenceInCpp reports whether this type is passed by value in C++
// but modelled as a reference in Rust. Applies only to rust::Str.
func (db *Database) ShouldDereferenceInCpp(qn names.QualifiedName) bool {
	td := db.get(qn)
	return td != nil && td.Behavior == RustStr
}

// LacksCopyConstructor reports whether the type can only move.
func (db *Database) LacksCopyConstructor(qn names.QualifiedName) bool {
	td := db.get(qn)
	if td == nil {
		return false
	}
	return td.Behavior == CxxContainerByValueSafe || td.Behavior == CxxContainerNotByValueSafe
}

// IsCType reports whether this is one of the variable-width C types which
// need narrowing at the end of the pipeline.
func (db *Database) IsCType(qn names.QualifiedName) bool {
	td := db.get(qn)
	if td == nil {
		return false
	}
	return td.Behavior == CVariableLengthByValue || td.Behavior == CVoid
}

// GenericBehavior reports how a generic with this name may be instantiated.
func (db *Database) GenericBehavior(qn names.QualifiedName) GenericKind {
	td := db.get(qn)
	if td == nil {
		return NotGeneric
	}
	return td.genericKind()
}

// IsAcceptableReceiver reports whether methods may hang off this type. None
// of the built-in types can have methods attached.
func (db *Database) IsAcceptableReceiver(qn names.QualifiedName) bool {
	return db.get(qn) == nil
}

// ConflictsWithBuiltIn reports whether a user type would clash with a
// registry name.
func (db *Database) ConflictsWithBuiltIn(qn names.QualifiedName) bool {
	return db.get(qn) != nil
}

// ConvertibleFromStr reports whether a value of this type can be constructed
// from a rust::Str (i.e. is std::string).
func (db *Database) ConvertibleFromStr(qn names.QualifiedName) bool {
	td := db.get(qn)
	return td != nil && td.Behavior == CxxString
}

// Prelude assembles the C++ handed to the external parser ahead of user
// headers. It declares simplified stand-ins for STL types the parser cannot
// otherwise cope with.
func (db *Database) Prelude() string {
	var keys []string
	for k := range db.byRsName {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("#include <cstdint>\n")
	for _, k := range keys {
		sb.WriteString(db.byRsName[k].preludeEntry())
	}
	return sb.String()
}

// InitialBlocklist lists the C++ names the parser should be told not to
// generate code for, because the prelude replaces them.
func (db *Database) InitialBlocklist() []string {
	var out []string
	for _, td := range db.byRsName {
		if td.preludeEntry() != "" {
			out = append(out, td.CppName)
		}
	}
	sort.Strings(out)
	return out
}

func (db *Database) insert(td *TypeDetails) {
	rs := td.rsQualifiedName().ToCppName()
	if td.ExtraNonCanonicalName != "" {
		db.canonicalNames[td.ExtraNonCanonicalName] = rs
	}
	db.canonicalNames[td.CppName] = rs
	db.byRsName[rs] = td
}

func newDatabase() *Database {
	db := &Database{
		byRsName:       make(map[string]*TypeDetails),
		canonicalNames: make(map[string]string),
	}
	db.insert(&TypeDetails{RsName: "cxx::UniquePtr", CppName: "std::unique_ptr", Behavior: CxxContainerByValueSafe, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "cxx::CxxVector", CppName: "std::vector", Behavior: CxxContainerNotByValueSafe, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "cxx::SharedPtr", CppName: "std::shared_ptr", Behavior: CxxContainerByValueSafe, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "cxx::WeakPtr", CppName: "std::weak_ptr", Behavior: CxxContainerByValueSafe, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "cxx::CxxString", CppName: "std::string", Behavior: CxxString, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "str", CppName: "rust::Str", Behavior: RustStr, HasConstCopyConstructor: true})
	db.insert(&TypeDetails{RsName: "String", CppName: "rust::String", Behavior: RustString, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "std::boxed::Box", CppName: "rust::Box", Behavior: RustContainerByValueSafe, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "i8", CppName: "int8_t", Behavior: CByValue, ExtraNonCanonicalName: "std::os::raw::c_schar", HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "u8", CppName: "uint8_t", Behavior: CByValue, ExtraNonCanonicalName: "std::os::raw::c_uchar", HasConstCopyConstructor: true, HasMoveConstructor: true})
	for _, width := range []int{16, 32, 64} {
		db.insert(&TypeDetails{RsName: fmt.Sprintf("u%d", width), CppName: fmt.Sprintf("uint%d_t", width), Behavior: CByValue, HasConstCopyConstructor: true, HasMoveConstructor: true})
		db.insert(&TypeDetails{RsName: fmt.Sprintf("i%d", width), CppName: fmt.Sprintf("int%d_t", width), Behavior: CByValue, HasConstCopyConstructor: true, HasMoveConstructor: true})
	}
	db.insert(&TypeDetails{RsName: "bool", CppName: "bool", Behavior: CByValue, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "std::pin::Pin", CppName: "Pin", Behavior: RustByValue, HasConstCopyConstructor: true})
	for _, cname := range []string{"long", "int", "short", "long long"} {
		concatenated := strings.ReplaceAll(cname, " ", "")
		db.insert(&TypeDetails{
			RsName:                fmt.Sprintf("autocxx::c_%s", concatenated),
			CppName:               cname,
			Behavior:              CVariableLengthByValue,
			ExtraNonCanonicalName: fmt.Sprintf("std::os::raw::c_%s", concatenated),
			HasConstCopyConstructor: true, HasMoveConstructor: true,
		})
		db.insert(&TypeDetails{
			RsName:                fmt.Sprintf("autocxx::c_u%s", concatenated),
			CppName:               "unsigned " + cname,
			Behavior:              CVariableLengthByValue,
			ExtraNonCanonicalName: fmt.Sprintf("std::os::raw::c_u%s", concatenated),
			HasConstCopyConstructor: true, HasMoveConstructor: true,
		})
	}
	db.insert(&TypeDetails{RsName: "f32", CppName: "float", Behavior: CByValue, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "f64", CppName: "double", Behavior: CByValue, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "::std::os::raw::c_char", CppName: "char", Behavior: CByValue, HasConstCopyConstructor: true, HasMoveConstructor: true})
	db.insert(&TypeDetails{RsName: "autocxx::c_void", CppName: "void", Behavior: CVoid, ExtraNonCanonicalName: "std::os::raw::c_void"})
	return db
}
