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

// Package pod decides which structs are safe to hold by value in Rust. A
// struct containing a std::string, for instance, is not: the string holds a
// self-referential pointer.
package pod

import (
	"fmt"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

type podState int

const (
	unsafeToBePod podState = iota
	safeToBePod
	isPod
	isAlias
)

type structDetails struct {
	state  podState
	reason string
	alias  names.QualifiedName
	// dependentStructs are the field types, chased when a POD request
	// arrives.
	dependentStructs []names.QualifiedName
}

// ByValueChecker answers whether a type may be fully represented by value.
type ByValueChecker struct {
	results map[string]*structDetails
}

// NewByValueChecker seeds the checker with the known-types registry.
func NewByValueChecker() *ByValueChecker {
	results := make(map[string]*structDetails)
	for name, safe := range knowntypes.DB().PodSafeTypes() {
		if safe {
			results[name] = &structDetails{state: isPod}
		} else {
			results[name] = &structDetails{
				state:  unsafeToBePod,
				reason: fmt.Sprintf("type %s is not safe for POD", name),
			}
		}
	}
	return &ByValueChecker{results: results}
}

// FromApis scans the API vector and satisfies the user's POD requests.
// Returns an error naming the chain of reasons if any request cannot be
// honoured.
func FromApis(apis *api.ApiVec, cfg *directive.IncludeCppConfig) (*ByValueChecker, error) {
	bvc := NewByValueChecker()
	for _, blocked := range cfg.Blocklist {
		bvc.results[blocked] = &structDetails{
			state:  unsafeToBePod,
			reason: fmt.Sprintf("type %s is on the blocklist", blocked),
		}
	}
	for _, a := range apis.Iter() {
		if cfg.IsOnBlocklist(a.QName().ToCppName()) {
			// The blocklist verdict stands even if the parser saw a
			// definition.
			continue
		}
		switch a.Kind {
		case api.TypedefKind:
			bvc.ingestTypedef(a)
		case api.StructKind:
			bvc.IngestStruct(a.QName(), a.Struct)
		case api.EnumKind:
			bvc.results[a.QName().ToCppName()] = &structDetails{state: isPod}
		case api.ExternCppTypeKind:
			if a.ExternCppType != nil && !a.ExternCppType.Opaque {
				bvc.results[a.QName().ToCppName()] = &structDetails{state: isPod}
			}
		}
	}
	var requests []names.QualifiedName
	for _, r := range cfg.PodRequests {
		requests = append(requests, names.QualifiedNameFromCppName(r))
	}
	if err := bvc.satisfyRequests(requests); err != nil {
		return nil, err
	}
	return bvc, nil
}

func (b *ByValueChecker) ingestTypedef(a *api.Api) {
	name := a.QName()
	target := a.Typedef.Target
	if a.TypedefAnalysis != nil {
		target = a.TypedefAnalysis.Target
	}
	if target.Kind == ty.PathKind && len(target.Args) == 0 {
		b.results[name.ToCppName()] = &structDetails{
			state: isAlias,
			alias: target.QualifiedName(),
		}
		return
	}
	b.results[name.ToCppName()] = &structDetails{
		state:  unsafeToBePod,
		reason: fmt.Sprintf("type %s is a typedef to a complex type", name),
	}
}

// IngestStruct works out whether one struct could be safe as POD and records
// its field dependencies for the transitive check.
func (b *ByValueChecker) IngestStruct(name names.QualifiedName, details *api.StructDetails) {
	state := safeToBePod
	reason := ""
	var fieldTypes []names.QualifiedName
	for _, f := range details.Fields {
		if f.Type.Kind != ty.PathKind {
			continue
		}
		fieldTypes = append(fieldTypes, f.Type.QualifiedName())
	}
	for _, ftn := range fieldTypes {
		deets, known := b.results[ftn.ToCppName()]
		if !known {
			state = unsafeToBePod
			reason = fmt.Sprintf("Type %s could not be POD because its dependent type %s isn't known", name, ftn)
			break
		}
		if deets.state == unsafeToBePod {
			state = unsafeToBePod
			reason = fmt.Sprintf("Type %s could not be POD because its dependent type %s isn't safe to be POD. Because: %s", name, ftn, deets.reason)
			break
		}
	}
	if hasVtable(details) {
		state = unsafeToBePod
		reason = fmt.Sprintf("Type %s could not be POD because it has virtual functions.", name)
	}
	if details.HasRValueReferenceFields {
		state = unsafeToBePod
		reason = fmt.Sprintf("Type %s could not be POD because it has rvalue reference fields.", name)
	}
	b.results[name.ToCppName()] = &structDetails{
		state:            state,
		reason:           reason,
		dependentStructs: fieldTypes,
	}
}

func hasVtable(details *api.StructDetails) bool {
	for _, f := range details.Fields {
		if f.Name == "vtable_" {
			return true
		}
	}
	return false
}

// satisfyRequests chases each generate_pod! request depth-first: a struct
// becomes POD iff all its dependent types are POD.
func (b *ByValueChecker) satisfyRequests(requests []names.QualifiedName) error {
	for len(requests) > 0 {
		tyID := requests[len(requests)-1]
		requests = requests[:len(requests)-1]
		deets, known := b.results[tyID.ToCppName()]
		if !known {
			return fmt.Errorf("unable to make %s POD because we never saw a struct definition", tyID)
		}
		switch deets.state {
		case unsafeToBePod:
			return fmt.Errorf("%s", deets.reason)
		case isPod:
			// Already settled.
		case safeToBePod:
			deets.state = isPod
			requests = append(requests, deets.dependentStructs...)
		case isAlias:
			target, ok := b.results[deets.alias.ToCppName()]
			if !ok {
				// Try again after resolving the alias target.
				requests = append(requests, deets.alias, tyID)
				continue
			}
			deets.state = target.state
			deets.reason = target.reason
		}
	}
	return nil
}

// IsPod reports whether a type can be represented by value in Rust. Types
// absent from the results (synthesised concretes, ignorable parse failures)
// are assumed non-POD.
func (b *ByValueChecker) IsPod(tyID names.QualifiedName) bool {
	deets, ok := b.results[tyID.ToCppName()]
	return ok && deets.state == isPod
}
