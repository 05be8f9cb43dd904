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

package rustgen

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// formatDocComments turns a C++ doc comment into rustdoc lines. Rustdoc
// assumes code blocks contain compilable Rust; C++ comments are full of
// blockquotes which are anything but, so fenced and indented code blocks are
// re-annotated as ```text.
func formatDocComments(documentation string) []string {
	if strings.TrimSpace(documentation) == "" {
		return nil
	}
	md := goldmark.New()
	source := []byte(documentation)
	doc := md.Parser().Parse(text.NewReader(source))
	var lines []string
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			lines = append(lines, "```text")
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\n"))
			}
			lines = append(lines, "```", "")
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph:
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\n"))
			}
			lines = append(lines, "")
		case ast.KindHeading:
			heading := node.(*ast.Heading)
			lines = append(lines, fmt.Sprintf("%s %s",
				strings.Repeat("#", heading.Level),
				string(heading.BaseBlock.Lines().Value(source))))
			lines = append(lines, "")
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight("/// "+l, " ")
	}
	return out
}
