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

// Package abstracts spots types with pure virtual functions, propagates
// abstractness through the derivation graph, and strips the constructors of
// everything abstract.
package abstracts

import (
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
)

// MarkTypesAbstract is the abstract-type propagation stage.
func MarkTypesAbstract(apis *api.ApiVec, cfg *directive.IncludeCppConfig) {
	abstractTypes := make(map[string]bool)
	structs := make(map[string]bool)
	for _, a := range apis.Iter() {
		if a.Kind == api.StructKind {
			structs[a.QName().ToCppName()] = true
		}
	}
	for _, a := range apis.Iter() {
		if a.Kind != api.FunctionKind || a.FnAnalysis == nil {
			continue
		}
		k := a.FnAnalysis.Kind
		if k.Kind == api.Method && k.Method == api.PureVirtualMethod {
			abstractTypes[k.ImplFor.ToCppName()] = true
		}
	}
	// A base we cannot see is presumed abstract: if it isn't on the
	// allowlist there are no methods associated with it, so we could
	// never have spotted its pure virtuals.
	baseVisible := func(base string) bool {
		if !structs[base] {
			return false
		}
		if cfg.Allowlist.State == directive.AllowlistSpecific && !cfg.IsAllowlisted(base) {
			return false
		}
		return true
	}
	for _, a := range apis.Iter() {
		if a.Kind != api.StructKind || a.PodAnalysis == nil {
			continue
		}
		for _, base := range a.PodAnalysis.Bases {
			if !baseVisible(base.ToCppName()) {
				abstractTypes[a.QName().ToCppName()] = true
			}
		}
	}

	// Propagate through derivation, recursing until settled.
	for changed := true; changed; {
		changed = false
		for _, a := range apis.Iter() {
			if a.Kind != api.StructKind || a.PodAnalysis == nil {
				continue
			}
			key := a.QName().ToCppName()
			if a.PodAnalysis.Kind == api.Abstract {
				continue
			}
			mark := abstractTypes[key]
			for _, base := range a.PodAnalysis.Bases {
				if abstractTypes[base.ToCppName()] {
					mark = true
				}
			}
			if mark {
				abstractTypes[key] = true
				a.PodAnalysis.Kind = api.Abstract
				changed = true
			}
		}
	}

	// Abstract types cannot be constructed: remove their constructors,
	// including copy and move.
	apis.Retain(func(a *api.Api) bool {
		if a.Kind != api.FunctionKind || a.FnAnalysis == nil {
			return true
		}
		k := a.FnAnalysis.Kind
		switch {
		case k.Kind == api.Method && (k.Method == api.ConstructorMethod || k.Method == api.MakeUniqueMethod):
			return !abstractTypes[k.ImplFor.ToCppName()]
		case k.Kind == api.TraitMethod && (k.Trait == api.TraitCopyConstructor || k.Trait == api.TraitMoveConstructor):
			return !abstractTypes[k.ImplFor.ToCppName()]
		}
		return true
	})

	// Nested abstract types can't be expressed by the bridge layer at
	// all.
	apis.Replace(func(a *api.Api) []*api.Api {
		if a.Kind == api.StructKind && a.PodAnalysis != nil && a.PodAnalysis.Kind == api.Abstract &&
			strings.Contains(a.Name.EffectiveCppName(), "::") {
			return []*api.Api{a.Ignored(api.NewConvertError(api.AbstractNestedType), nil)}
		}
		return []*api.Api{a}
	})
}

// DiscardIgnoredFunctions converts functions which analysis could not
// surface (e.g. private methods) into documented stubs, now that abstract
// and constructor analyses have finished consuming them.
func DiscardIgnoredFunctions(apis *api.ApiVec) {
	apis.Replace(func(a *api.Api) []*api.Api {
		if a.Kind == api.FunctionKind && a.FnAnalysis != nil && a.FnAnalysis.IgnoreReason != nil {
			return []*api.Api{a.Ignored(a.FnAnalysis.IgnoreReason, nil)}
		}
		return []*api.Api{a}
	})
}
