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

package directive

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse reads the body of an include_cpp! block, e.g.
//
//	#include "foo.h"
//	generate!("Foo")
//	safety!(unsafe_ffi)
//
// Directives may optionally be separated by commas or semicolons.
func Parse(body string) (*IncludeCppConfig, error) {
	cfg := NewIncludeCppConfig()
	s := &scanner{input: body}
	for {
		s.skipTrivia()
		if s.done() {
			break
		}
		if s.peek() == '#' {
			if err := parseHashInclude(s, cfg); err != nil {
				return nil, err
			}
			continue
		}
		name := s.ident()
		if name == "" {
			return nil, fmt.Errorf("expected a directive at offset %d", s.pos)
		}
		if err := s.expect('!'); err != nil {
			return nil, err
		}
		args, err := s.parenBody()
		if err != nil {
			return nil, err
		}
		if err := applyDirective(cfg, name, args); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseHashInclude(s *scanner, cfg *IncludeCppConfig) error {
	s.pos++ // consume '#'
	kw := s.ident()
	if kw != "include" {
		return fmt.Errorf("unknown # directive %q", kw)
	}
	s.skipTrivia()
	switch s.peek() {
	case '"':
		path, err := s.stringLiteral()
		if err != nil {
			return err
		}
		cfg.Inclusions = append(cfg.Inclusions, path)
		return nil
	case '<':
		start := s.pos + 1
		end := strings.IndexByte(s.input[start:], '>')
		if end < 0 {
			return fmt.Errorf("unterminated <> include")
		}
		cfg.Inclusions = append(cfg.Inclusions, s.input[start:start+end])
		s.pos = start + end + 1
		return nil
	}
	return fmt.Errorf("#include must be followed by a path")
}

func applyDirective(cfg *IncludeCppConfig, name string, args []string) error {
	oneString := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%s! expects exactly one argument", name)
		}
		return unquote(args[0])
	}
	oneIdent := func() (string, error) {
		if len(args) != 1 || !isIdent(args[0]) {
			return "", fmt.Errorf("%s! expects exactly one identifier argument", name)
		}
		return args[0], nil
	}
	addAllowlist := func(entry AllowlistEntry) error {
		if cfg.Allowlist.State == AllowlistAll {
			return fmt.Errorf("generate_all! cannot be combined with explicit generate directives")
		}
		cfg.Allowlist.State = AllowlistSpecific
		cfg.Allowlist.Entries = append(cfg.Allowlist.Entries, entry)
		return nil
	}
	switch name {
	case "generate":
		v, err := oneString()
		if err != nil {
			return err
		}
		return addAllowlist(AllowlistEntry{Name: v})
	case "generate_pod":
		v, err := oneString()
		if err != nil {
			return err
		}
		cfg.PodRequests = append(cfg.PodRequests, v)
		return addAllowlist(AllowlistEntry{Name: v})
	case "generate_ns":
		v, err := oneString()
		if err != nil {
			return err
		}
		return addAllowlist(AllowlistEntry{Name: v, Namespace: true})
	case "generate_all":
		if len(args) != 0 {
			return fmt.Errorf("generate_all! takes no arguments")
		}
		if cfg.Allowlist.State == AllowlistSpecific {
			return fmt.Errorf("generate_all! cannot be combined with explicit generate directives")
		}
		cfg.Allowlist.State = AllowlistAll
		return nil
	case "block":
		v, err := oneString()
		if err != nil {
			return err
		}
		cfg.Blocklist = append(cfg.Blocklist, v)
		return nil
	case "block_constructors":
		v, err := oneString()
		if err != nil {
			return err
		}
		cfg.ConstructorBlocklist = append(cfg.ConstructorBlocklist, v)
		return nil
	case "pod":
		v, err := oneString()
		if err != nil {
			return err
		}
		cfg.PodRequests = append(cfg.PodRequests, v)
		return nil
	case "instantiable":
		v, err := oneString()
		if err != nil {
			return err
		}
		cfg.Instantiable = append(cfg.Instantiable, v)
		return nil
	case "safety":
		if cfg.SafetySpecified {
			return fmt.Errorf("safety! may only appear once")
		}
		cfg.SafetySpecified = true
		if len(args) != 1 {
			return fmt.Errorf("safety! expects unsafe or unsafe_ffi")
		}
		switch args[0] {
		case "unsafe":
			cfg.Safety = SafetyUnsafe
		case "unsafe_ffi":
			cfg.Safety = SafetyUnsafeFfi
		default:
			return fmt.Errorf("unknown safety policy %q", args[0])
		}
		return nil
	case "name":
		v, err := oneIdent()
		if err != nil {
			return err
		}
		cfg.ModName = v
		return nil
	case "concrete":
		if len(args) != 2 || !isIdent(args[1]) {
			return fmt.Errorf(`concrete! expects ("cpp type", RustIdent)`)
		}
		cppDef, err := unquote(args[0])
		if err != nil {
			return err
		}
		cfg.Concretes = append(cfg.Concretes, Concrete{CppDefinition: cppDef, RustID: args[1]})
		return nil
	case "rust_type":
		v, err := oneIdent()
		if err != nil {
			return err
		}
		cfg.RustTypes = append(cfg.RustTypes, v)
		return nil
	case "extern_rust_type":
		v, err := oneIdent()
		if err != nil {
			return err
		}
		cfg.ExternRustTypes = append(cfg.ExternRustTypes, v)
		return nil
	case "extern_cpp_type", "extern_cpp_opaque_type":
		if len(args) != 2 {
			return fmt.Errorf(`%s! expects ("cpp name", rust::Path)`, name)
		}
		cppName, err := unquote(args[0])
		if err != nil {
			return err
		}
		cfg.ExternCppTypes = append(cfg.ExternCppTypes, ExternCppType{
			CppName:  cppName,
			RustPath: args[1],
			Opaque:   name == "extern_cpp_opaque_type",
		})
		return nil
	case "subclass":
		if len(args) != 2 || !isIdent(args[1]) {
			return fmt.Errorf(`subclass! expects ("Superclass", SubIdent)`)
		}
		super, err := unquote(args[0])
		if err != nil {
			return err
		}
		cfg.Subclasses = append(cfg.Subclasses, Subclass{Superclass: super, Subclass: args[1]})
		return nil
	case "extern_rust_fun":
		if len(args) != 2 {
			return fmt.Errorf("extern_rust_fun! expects (path, signature)")
		}
		sig, err := unquote(args[1])
		if err != nil {
			// The signature may be given unquoted.
			sig = args[1]
		}
		cfg.ExternRustFuns = append(cfg.ExternRustFuns, RustFun{Path: args[0], Signature: sig})
		return nil
	case "parse_only":
		cfg.ParseOnly = true
		return nil
	case "exclude_utilities":
		cfg.ExcludeUtilities = true
		return nil
	case "exclude_impls":
		cfg.ExcludeImpls = true
		return nil
	}
	return fmt.Errorf("unknown directive %s!", name)
}

func unquote(s string) (string, error) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], nil
	}
	return "", fmt.Errorf("expected a quoted string, got %q", s)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

type scanner struct {
	input string
	pos   int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.input[s.pos]
}

// skipTrivia consumes whitespace, separators and // comments.
func (s *scanner) skipTrivia() {
	for !s.done() {
		c := s.input[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' || c == ';':
			s.pos++
		case c == '/' && s.pos+1 < len(s.input) && s.input[s.pos+1] == '/':
			for !s.done() && s.input[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.done() {
		c := s.input[s.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (s.pos > start && c >= '0' && c <= '9') {
			s.pos++
			continue
		}
		break
	}
	return s.input[start:s.pos]
}

func (s *scanner) expect(c byte) error {
	if s.peek() != c {
		return fmt.Errorf("expected %q at offset %d", string(c), s.pos)
	}
	s.pos++
	return nil
}

func (s *scanner) stringLiteral() (string, error) {
	if s.peek() != '"' {
		return "", fmt.Errorf("expected string literal at offset %d", s.pos)
	}
	s.pos++
	start := s.pos
	for !s.done() && s.input[s.pos] != '"' {
		s.pos++
	}
	if s.done() {
		return "", fmt.Errorf("unterminated string literal")
	}
	out := s.input[start:s.pos]
	s.pos++
	return out, nil
}

// parenBody reads a (...) group and splits its top-level comma-separated
// arguments, respecting nested parens/angle brackets and string literals.
func (s *scanner) parenBody() ([]string, error) {
	s.skipSpaceOnly()
	if err := s.expect('('); err != nil {
		return nil, err
	}
	var args []string
	var current strings.Builder
	depth := 0
	for {
		if s.done() {
			return nil, fmt.Errorf("unterminated directive arguments")
		}
		c := s.input[s.pos]
		switch {
		case c == '"':
			lit, err := s.stringLiteral()
			if err != nil {
				return nil, err
			}
			current.WriteByte('"')
			current.WriteString(lit)
			current.WriteByte('"')
			continue
		case c == '(' || c == '<' || c == '[':
			depth++
		case c == ')' && depth == 0:
			s.pos++
			arg := strings.TrimSpace(current.String())
			if arg != "" {
				args = append(args, arg)
			}
			return args, nil
		case c == ')' || c == '>' || c == ']':
			depth--
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
			s.pos++
			continue
		}
		current.WriteByte(c)
		s.pos++
	}
}

func (s *scanner) skipSpaceOnly() {
	for !s.done() {
		c := s.input[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			s.pos++
			continue
		}
		return
	}
}
