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

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindIncludeCppBlocks scans Rust source text for include_cpp! invocations
// and returns each block's body. Discovery is textual: the real macro
// expansion happens on the Rust side, we only need the directives.
func FindIncludeCppBlocks(source string) ([]string, error) {
	var blocks []string
	rest := source
	for {
		idx := strings.Index(rest, "include_cpp!")
		if idx < 0 {
			return blocks, nil
		}
		rest = rest[idx+len("include_cpp!"):]
		body, remaining, err := takeDelimitedBlock(rest)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, body)
		rest = remaining
	}
}

// takeDelimitedBlock consumes a {...} or (...) group, respecting nesting and
// string literals.
func takeDelimitedBlock(s string) (string, string, error) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	if i >= len(s) {
		return "", "", fmt.Errorf("include_cpp! with no body")
	}
	var open, close byte
	switch s[i] {
	case '{':
		open, close = '{', '}'
	case '(':
		open, close = '(', ')'
	default:
		return "", "", fmt.Errorf("include_cpp! body must be delimited by braces or parentheses")
	}
	depth := 0
	start := i + 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '"':
			// Skip the string literal.
			for i++; i < len(s) && s[i] != '"'; i++ {
			}
			if i >= len(s) {
				return "", "", fmt.Errorf("unterminated string literal in include_cpp! body")
			}
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unterminated include_cpp! body")
}

// expandSourceGlobs resolves the command-line file arguments, which may be
// literal paths or doublestar globs such as src/**/*.rs.
func expandSourceGlobs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("cannot read %s: %w", arg, err)
			}
			if !seen[arg] {
				seen[arg] = true
				out = append(out, arg)
			}
			continue
		}
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		matches, err := doublestar.Glob(os.DirFS(base), pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", arg, err)
		}
		for _, m := range matches {
			full := filepath.Join(base, m)
			if !seen[full] {
				seen[full] = true
				out = append(out, full)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
