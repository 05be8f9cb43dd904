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
	"log/slog"

	"github.com/google/autocxx-sub001/internal/names"
)

// ApiVec is the ordered collection of APIs flowing through the pipeline.
// Insertion order is preserved (codegen groups by namespace later) and each
// qualified name appears at most once: duplicates are collapsed into a
// single ignored stub, because the generator has no way to disambiguate
// them.
//
// Functions are exempt from the one-name rule: overloads share a name and
// are disambiguated later by the overload and bridge-name trackers.
type ApiVec struct {
	apis  []*Api
	index map[string]int
}

// NewApiVec returns an empty collection.
func NewApiVec() *ApiVec {
	return &ApiVec{index: make(map[string]int)}
}

// Push appends an API, collapsing duplicate names.
func (v *ApiVec) Push(a *Api) {
	key := a.QName().ToCppName()
	if a.Kind == FunctionKind || a.Kind == RustSubclassFnKind {
		// Overloads legitimately share the name; keep them all. The
		// index keeps the first, which is only used for type lookups
		// and never matches a function.
		v.apis = append(v.apis, a)
		if _, exists := v.index[key]; !exists {
			v.index[key] = len(v.apis) - 1
		}
		return
	}
	if prev, exists := v.index[key]; exists {
		existing := v.apis[prev]
		if existing.Kind == ForwardDeclarationKind && a.Kind != ForwardDeclarationKind {
			// A definition supersedes a forward declaration.
			v.apis[prev] = a
			return
		}
		if a.Kind == ForwardDeclarationKind {
			return
		}
		slog.Warn("duplicate items found in parsing", "name", key)
		v.apis[prev] = existing.Ignored(NewConvertError(DuplicateItemsFoundInParsing), nil)
		return
	}
	v.apis = append(v.apis, a)
	v.index[key] = len(v.apis) - 1
}

// Append pushes many APIs.
func (v *ApiVec) Append(apis ...*Api) {
	for _, a := range apis {
		v.Push(a)
	}
}

// Iter returns the backing slice; callers must not append to it.
func (v *ApiVec) Iter() []*Api {
	return v.apis
}

// Len returns the number of records.
func (v *ApiVec) Len() int {
	return len(v.apis)
}

// Lookup finds the (first) API with the given name.
func (v *ApiVec) Lookup(qn names.QualifiedName) *Api {
	if i, ok := v.index[qn.ToCppName()]; ok {
		return v.apis[i]
	}
	return nil
}

// Contains reports name presence.
func (v *ApiVec) Contains(qn names.QualifiedName) bool {
	_, ok := v.index[qn.ToCppName()]
	return ok
}

// AllTypeNames returns the set of names which introduce types.
func (v *ApiVec) AllTypeNames() map[string]bool {
	out := make(map[string]bool)
	for _, a := range v.apis {
		if a.IsType() {
			out[a.QName().ToCppName()] = true
		}
	}
	return out
}

// Retain keeps only records for which keep returns true.
func (v *ApiVec) Retain(keep func(*Api) bool) {
	kept := make([]*Api, 0, len(v.apis))
	for _, a := range v.apis {
		if keep(a) {
			kept = append(kept, a)
		}
	}
	v.apis = kept
	v.reindex()
}

// Replace maps every record through fn; returning nil drops the record,
// returning several inserts them all in place.
func (v *ApiVec) Replace(fn func(*Api) []*Api) {
	next := make([]*Api, 0, len(v.apis))
	for _, a := range v.apis {
		next = append(next, fn(a)...)
	}
	v.apis = next
	v.reindex()
}

func (v *ApiVec) reindex() {
	v.index = make(map[string]int, len(v.apis))
	for i, a := range v.apis {
		key := a.QName().ToCppName()
		if _, exists := v.index[key]; !exists {
			v.index[key] = i
		}
	}
}
