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

// Package directive parses the body of an include_cpp! invocation into the
// configuration record driving one pipeline run.
package directive

import (
	"fmt"

	"github.com/google/autocxx-sub001/internal/names"
)

// AllowlistState distinguishes the three allowlist modes.
type AllowlistState int

const (
	// AllowlistUnspecified means no generate directive has been seen yet.
	AllowlistUnspecified AllowlistState = iota
	// AllowlistAll corresponds to generate_all!().
	AllowlistAll
	// AllowlistSpecific holds explicit generate!/generate_pod!/generate_ns!
	// entries.
	AllowlistSpecific
)

// AllowlistEntry is one explicit allowlist member.
type AllowlistEntry struct {
	Name string
	// Namespace is true for generate_ns! entries, which admit everything
	// under the named namespace.
	Namespace bool
}

// Allowlist is the set of C++ entities the user asked for.
type Allowlist struct {
	State   AllowlistState
	Entries []AllowlistEntry
}

// Contains reports whether a fully-qualified C++ name is admitted.
func (a *Allowlist) Contains(cppName string) bool {
	switch a.State {
	case AllowlistAll:
		return true
	case AllowlistSpecific:
		qn := names.QualifiedNameFromCppName(cppName)
		for _, e := range a.Entries {
			if e.Namespace {
				ns := qn.Namespace().String()
				if ns == e.Name || len(ns) > len(e.Name) && ns[:len(e.Name)+2] == e.Name+"::" {
					return true
				}
				continue
			}
			if e.Name == cppName {
				return true
			}
		}
	}
	return false
}

// Safety is the user's safety!() policy.
type Safety int

const (
	// SafetyNone is the default when safety! is absent: every generated
	// function is unsafe.
	SafetyNone Safety = iota
	// SafetyUnsafe (safety!(unsafe)): functions taking raw pointers stay
	// unsafe, everything else is safe.
	SafetyUnsafe
	// SafetyUnsafeFfi (safety!(unsafe_ffi)): all functions are presented
	// as safe; the user vouches for the whole FFI boundary.
	SafetyUnsafeFfi
)

// Concrete is one concrete!() template instantiation request.
type Concrete struct {
	CppDefinition string
	RustID        string
}

// Subclass is one subclass!() request.
type Subclass struct {
	Superclass string
	Subclass   string
}

// CppPeer is the name of the generated C++ peer class.
func (s Subclass) CppPeer() string {
	return s.Subclass + "Cpp"
}

// Holder is the name of the generated Rust holder struct.
func (s Subclass) Holder() string {
	return s.Subclass + "Holder"
}

// ExternCppType is one extern_cpp_type!/extern_cpp_opaque_type! request.
type ExternCppType struct {
	CppName  string
	RustPath string
	Opaque   bool
}

// RustFun is one extern_rust_fun!() request, kept textual; the bridge layer
// re-parses it.
type RustFun struct {
	Path      string
	Signature string
}

// IncludeCppConfig is everything one include_cpp! block configures.
type IncludeCppConfig struct {
	Inclusions []string
	Allowlist  Allowlist
	// Blocklist names types which must never be used.
	Blocklist []string
	// ConstructorBlocklist names types whose constructors are suppressed.
	ConstructorBlocklist []string
	// PodRequests are generate_pod!/pod! types which must be byte-level
	// representable in Rust.
	PodRequests []string
	// Instantiable types may be constructed even if only named indirectly.
	Instantiable   []string
	Safety         Safety
	SafetySpecified bool
	ModName        string
	Concretes      []Concrete
	RustTypes      []string
	ExternRustTypes []string
	ExternRustFuns []RustFun
	ExternCppTypes []ExternCppType
	Subclasses     []Subclass

	ParseOnly        bool
	ExcludeUtilities bool
	ExcludeImpls     bool
}

// NewIncludeCppConfig returns a config with defaults applied.
func NewIncludeCppConfig() *IncludeCppConfig {
	return &IncludeCppConfig{ModName: "ffi"}
}

// IsOnBlocklist reports whether a C++ name was block!()ed.
func (c *IncludeCppConfig) IsOnBlocklist(cppName string) bool {
	for _, b := range c.Blocklist {
		if b == cppName {
			return true
		}
	}
	return false
}

// IsOnConstructorBlocklist reports whether constructors of this type are
// suppressed.
func (c *IncludeCppConfig) IsOnConstructorBlocklist(cppName string) bool {
	for _, b := range c.ConstructorBlocklist {
		if b == cppName {
			return true
		}
	}
	return false
}

// IsPodRequested reports whether the user asked for by-value treatment.
func (c *IncludeCppConfig) IsPodRequested(cppName string) bool {
	for _, p := range c.PodRequests {
		if p == cppName {
			return true
		}
	}
	return false
}

// IsRustType reports whether this identifier names a Rust type: declared
// with rust_type!/extern_rust_type!, or generated for a subclass! (the
// subclass itself and its holder both live on the Rust side).
func (c *IncludeCppConfig) IsRustType(id string) bool {
	for _, r := range c.RustTypes {
		if r == id {
			return true
		}
	}
	for _, r := range c.ExternRustTypes {
		if r == id {
			return true
		}
	}
	for _, s := range c.Subclasses {
		if s.Subclass == id || s.Holder() == id {
			return true
		}
	}
	return false
}

// IsAllowlisted reports whether the user asked for this C++ name.
func (c *IncludeCppConfig) IsAllowlisted(cppName string) bool {
	return c.Allowlist.Contains(cppName)
}

// MustGenerateList is every name the pipeline must produce output for, on
// pain of a hard DidNotGenerateAnything error: explicit allowlist entries
// plus POD requests plus subclass superclasses.
func (c *IncludeCppConfig) MustGenerateList() []string {
	var out []string
	if c.Allowlist.State == AllowlistSpecific {
		for _, e := range c.Allowlist.Entries {
			if !e.Namespace {
				out = append(out, e.Name)
			}
		}
	}
	out = append(out, c.PodRequests...)
	for _, s := range c.Subclasses {
		out = append(out, s.Superclass)
	}
	return out
}

// Validate checks cross-directive consistency at the end of parsing.
func (c *IncludeCppConfig) Validate() error {
	if c.Allowlist.State == AllowlistUnspecified && len(c.Subclasses) == 0 {
		return fmt.Errorf("no generate!, generate_ns!, generate_pod! or generate_all! directive was specified")
	}
	for _, p := range c.PodRequests {
		if c.IsOnBlocklist(p) {
			return fmt.Errorf("type %s is both blocked and requested as POD", p)
		}
	}
	return nil
}
