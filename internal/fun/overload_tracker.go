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

// Package fun analyses functions: overload naming, bridge naming,
// per-parameter conversion policy, wrapper necessity, receiver discovery and
// implicit special-member synthesis.
package fun

import (
	"fmt"
	"strconv"
	"unicode"
)

// MethodOverload is the resolved pair of names for one overload: the name
// to call in C++ and the name to present in Rust.
type MethodOverload struct {
	CppMethodName  string
	RustMethodName string
}

// OverloadTracker undoes the parser's global overload numbering. The parser
// emits a series of overridden `foo` functions as foo, foo1, foo2; we
// recognise that sequence and call the correct underlying C++ function
// ("foo" in all cases). If multiple types each have `foo` methods the
// numbering is part of the same global series, whereas we want a fresh
// series per type: otherwise two different types with a get() method would
// have get() and get1() in the bindings we generate.
type OverloadTracker struct {
	offsetByTypeAndName map[string]map[string]int
	expectedNextByName  map[string]int
}

// nullType stands in for "free function" in the per-type offset map.
const nullType = "<null>"

// NewOverloadTracker returns an empty tracker; use one per pipeline run.
func NewOverloadTracker() *OverloadTracker {
	return &OverloadTracker{
		offsetByTypeAndName: make(map[string]map[string]int),
		expectedNextByName:  make(map[string]int),
	}
}

// splitName separates trailing digits: insert2 becomes (insert, 2).
func splitName(foundName string) (string, int) {
	runes := []rune(foundName)
	split := len(runes)
	for split > 0 && unicode.IsNumber(runes[split-1]) {
		split--
	}
	if split == 0 {
		panic(fmt.Sprintf("identifier %q was entirely numeric", foundName))
	}
	prefix := string(runes[:split])
	counter := 0
	if split < len(runes) {
		counter, _ = strconv.Atoi(string(runes[split:]))
	}
	return prefix, counter
}

// GetFunctionRealName resolves a free function name.
func (t *OverloadTracker) GetFunctionRealName(foundName string) MethodOverload {
	return t.GetMethodRealName(nullType, foundName)
}

// GetMethodRealName resolves a method name within its receiver type. A
// numeric suffix counts as overload evidence only when it continues the
// consecutive numbering the parser would have produced; a function
// legitimately called insert2 keeps its name.
func (t *OverloadTracker) GetMethodRealName(typeName, foundName string) MethodOverload {
	fnName, counter := splitName(foundName)
	expected := t.expectedNextByName[fnName]
	if counter != expected {
		// Not an overload: probably a function genuinely called
		// 'insert2' or somesuch.
		return MethodOverload{CppMethodName: foundName, RustMethodName: foundName}
	}
	// Possibly part of an overload sequence. We have no way to be sure
	// but let's assume so.
	t.expectedNextByName[fnName] = expected + 1
	typeEntry := t.offsetByTypeAndName[typeName]
	if typeEntry == nil {
		typeEntry = make(map[string]int)
		t.offsetByTypeAndName[typeName] = typeEntry
	}
	offset, seen := typeEntry[fnName]
	if !seen {
		offset = counter
		typeEntry[fnName] = offset
	}
	effectiveCount := counter - offset
	rustName := fnName
	if effectiveCount > 0 {
		rustName = fmt.Sprintf("%s%d", fnName, effectiveCount)
	}
	return MethodOverload{CppMethodName: fnName, RustMethodName: rustName}
}
