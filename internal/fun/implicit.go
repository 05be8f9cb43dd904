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

package fun

import (
	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// memberAvailability is what dependent types need to know about a type's
// special members.
type memberAvailability struct {
	defaultCtor bool
	copyCtor    bool
	moveCtor    bool
	destructor  bool
}

// SynthesizeImplicitMembers applies the C++ rule of five: for each struct
// lacking explicit special members, synthesise the default/copy/move
// constructors and destructor it would implicitly have, and run them through
// the same function analysis as parser-discovered members. Structs are
// visited in dependency-first order so a member's availability is settled
// before its dependents ask.
func SynthesizeImplicitMembers(apis *api.ApiVec, a *Analyzer) {
	structs := make(map[string]*api.Api)
	var order []names.QualifiedName
	for _, rec := range apis.Iter() {
		if rec.Kind == api.StructKind && rec.PodAnalysis != nil {
			structs[rec.QName().ToCppName()] = rec
		}
	}
	visited := make(map[string]bool)
	var visit func(qn names.QualifiedName)
	visit = func(qn names.QualifiedName) {
		key := qn.ToCppName()
		if visited[key] {
			return
		}
		visited[key] = true
		rec, ok := structs[key]
		if !ok {
			return
		}
		for _, dep := range rec.PodAnalysis.Bases {
			visit(dep)
		}
		for _, dep := range rec.PodAnalysis.FieldDeps {
			visit(dep)
		}
		order = append(order, qn)
	}
	for _, rec := range apis.Iter() {
		if rec.Kind == api.StructKind && rec.PodAnalysis != nil {
			visit(rec.QName())
		}
	}

	availability := make(map[string]memberAvailability)
	var synthesized []*api.Api
	for _, qn := range order {
		rec := structs[qn.ToCppName()]
		synthesized = append(synthesized, a.synthesizeForStruct(rec, availability)...)
	}
	apis.Append(synthesized...)
}

// availabilityOf reports the special members of any type a struct may
// depend on. Unknown types conservatively offer nothing.
func availabilityOf(qn names.QualifiedName, availability map[string]memberAvailability) memberAvailability {
	if av, ok := availability[qn.ToCppName()]; ok {
		return av
	}
	if details := knowntypes.DB().ConstructorDetailsFor(qn); details != nil {
		return memberAvailability{
			defaultCtor: true,
			copyCtor:    details.HasConstCopyConstructor,
			moveCtor:    details.HasMoveConstructor,
			destructor:  true,
		}
	}
	return memberAvailability{}
}

func (a *Analyzer) synthesizeForStruct(rec *api.Api, availability map[string]memberAvailability) []*api.Api {
	qn := rec.QName()
	m := a.members(qn.ToCppName())
	pod := rec.PodAnalysis

	depsAvailable := memberAvailability{defaultCtor: true, copyCtor: true, moveCtor: true, destructor: true}
	considerDep := func(dep names.QualifiedName) {
		av := availabilityOf(dep, availability)
		depsAvailable.defaultCtor = depsAvailable.defaultCtor && av.defaultCtor
		depsAvailable.copyCtor = depsAvailable.copyCtor && av.copyCtor
		depsAvailable.moveCtor = depsAvailable.moveCtor && av.moveCtor
		depsAvailable.destructor = depsAvailable.destructor && av.destructor
	}
	for _, dep := range pod.Bases {
		considerDep(dep)
	}
	for _, dep := range pod.FieldDeps {
		considerDep(dep)
	}
	if pod.Kind == api.Pod {
		// Trivially copyable by construction; the POD analysis already
		// proved every field safe.
		depsAvailable = memberAvailability{defaultCtor: true, copyCtor: true, moveCtor: true, destructor: true}
	}

	rvalueFields := rec.Struct != nil && rec.Struct.HasRValueReferenceFields

	wantDefault := m.defaultCtor == notSeen && !m.anyExplicitCtor && depsAvailable.defaultCtor
	wantCopy := m.copyCtor == notSeen && !m.anyDeletedCopy && depsAvailable.copyCtor && !rvalueFields
	wantMove := m.moveCtor == notSeen && !m.anyDeletedMove && depsAvailable.moveCtor && pod.Movable
	wantDtor := m.destructor == notSeen && depsAvailable.destructor

	result := memberAvailability{
		defaultCtor: wantDefault || m.defaultCtor == seenUsable,
		copyCtor:    wantCopy || m.copyCtor == seenUsable,
		moveCtor:    wantMove || m.moveCtor == seenUsable,
		destructor:  wantDtor || m.destructor == seenUsable,
	}
	availability[qn.ToCppName()] = result
	rec.Constructors = &api.ConstructorAnalysis{
		DefaultConstructor: result.defaultCtor,
		CopyConstructor:    result.copyCtor,
		MoveConstructor:    result.moveCtor,
		Destructor:         result.destructor,
	}

	var out []*api.Api
	synth := func(member api.SpecialMember) {
		f := synthesizedMember(qn, member)
		synthRec := &api.Api{
			Kind: api.FunctionKind,
			Name: names.NewApiName(names.NewQualifiedName(qn.Namespace(), f.Ident)),
			Fun:  f,
		}
		analysed, extras := a.analyzeFn(synthRec)
		// A synthesised member which fails analysis is simply absent;
		// it never existed as far as the user is concerned.
		if analysed != nil && analysed.Kind != api.IgnoredItemKind {
			out = append(out, analysed)
			out = append(out, extras...)
		}
	}
	if wantDefault {
		synth(api.DefaultConstructor)
	}
	if wantCopy {
		synth(api.CopyConstructor)
	}
	if wantMove {
		synth(api.MoveConstructor)
	}
	if wantDtor {
		synth(api.Destructor)
	}
	return out
}

// synthesizedMember builds the FuncToConvert for one implicit special
// member, shaped exactly as the parser would have reported an explicit one.
func synthesizedMember(qn names.QualifiedName, member api.SpecialMember) *api.FuncToConvert {
	selfPtr := ty.Pointer(ty.PathFromName(qn), true)
	f := &api.FuncToConvert{
		Ident:         qn.FinalItem(),
		SpecialMember: member,
		Params:        []api.Param{{Name: "this", Type: selfPtr}},
		Provenance:    api.SynthesizedOther,
	}
	switch member {
	case api.CopyConstructor:
		f.Params = append(f.Params, api.Param{Name: "other", Type: ty.Pointer(ty.PathFromName(qn), false)})
		f.ReferenceParams = map[string]bool{"other": true}
	case api.MoveConstructor:
		f.Params = append(f.Params, api.Param{Name: "other", Type: ty.Pointer(ty.PathFromName(qn), true)})
		f.RValueReferenceParams = map[string]bool{"other": true}
	case api.Destructor:
		f.Ident = qn.FinalItem() + "_synthetic_destructor"
	}
	return f
}
