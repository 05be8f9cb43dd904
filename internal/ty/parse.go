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

package ty

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads the Rust spelling of a type as emitted by the parser stage,
// e.g. `*mut root::A::Foo`, `&mut str`, `UniquePtr<root::Foo>`,
// `[i32; 4]` or `fn(i32) -> i32`.
func Parse(input string) (*Type, error) {
	p := &parser{input: input}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input at %d in type %q", p.pos, p.input)
	}
	return t, nil
}

// MustParse is a test and table-construction helper.
func MustParse(input string) *Type {
	t, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) eat(prefix string) bool {
	if strings.HasPrefix(p.input[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *parser) expect(prefix string) error {
	if !p.eat(prefix) {
		return fmt.Errorf("expected %q at %d in type %q", prefix, p.pos, p.input)
	}
	return nil
}

func (p *parser) parseType() (*Type, error) {
	p.skipSpace()
	switch {
	case p.eat("()"):
		return Unit(), nil
	case p.eat("&&"):
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return RValueReference(inner), nil
	case p.eat("&"):
		p.skipSpace()
		mutable := p.eatKeyword("mut")
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return Reference(inner, mutable), nil
	case p.eat("*"):
		p.skipSpace()
		var mutable bool
		switch {
		case p.eatKeyword("mut"):
			mutable = true
		case p.eatKeyword("const"):
			mutable = false
		default:
			return nil, fmt.Errorf("pointer must be *mut or *const in type %q", p.input)
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return Pointer(inner, mutable), nil
	case p.eat("["):
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
			p.pos++
		}
		n, err := strconv.Atoi(p.input[start:p.pos])
		if err != nil {
			return nil, fmt.Errorf("bad array length in type %q", p.input)
		}
		p.skipSpace()
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return &Type{Kind: ArrayKind, Inner: inner, Len: n}, nil
	case strings.HasPrefix(p.input[p.pos:], "fn("):
		return p.parseFnPointer()
	default:
		return p.parsePath()
	}
}

func (p *parser) eatKeyword(kw string) bool {
	rest := p.input[p.pos:]
	if !strings.HasPrefix(rest, kw) {
		return false
	}
	after := rest[len(kw):]
	if after != "" && (isIdentByte(after[0])) {
		return false
	}
	p.pos += len(kw)
	p.skipSpace()
	return true
}

func (p *parser) parseFnPointer() (*Type, error) {
	p.pos += len("fn(")
	var params []*Type
	p.skipSpace()
	if !p.eat(")") {
		for {
			param, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			p.skipSpace()
			if p.eat(",") {
				continue
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	fn := &Type{Kind: FnPointerKind, Params: params}
	p.skipSpace()
	if p.eat("->") {
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.Ret = ret
	}
	return fn, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *parser) parsePath() (*Type, error) {
	var segments []string
	// Leading :: means a crate-absolute Rust path; keep the empty segment
	// out but remember nothing special: the pipeline treats it verbatim.
	p.eat("::")
	for {
		start := p.pos
		for p.pos < len(p.input) && isIdentByte(p.input[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return nil, fmt.Errorf("expected identifier at %d in type %q", p.pos, p.input)
		}
		segments = append(segments, p.input[start:p.pos])
		if !p.eat("::") {
			break
		}
	}
	t := &Type{Kind: PathKind, Segments: segments}
	p.skipSpace()
	if p.eat("<") {
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
			p.skipSpace()
			if p.eat(",") {
				continue
			}
			if err := p.expect(">"); err != nil {
				return nil, err
			}
			break
		}
	}
	return t, nil
}
