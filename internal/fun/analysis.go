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
	"fmt"
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/convert"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Analyzer is the function analysis stage. One instance serves one pipeline
// run; the overload and bridge-name trackers inside it are the only mutable
// singletons shared across all functions.
type Analyzer struct {
	cfg         *directive.IncludeCppConfig
	tc          *convert.TypeConverter
	overloads   *OverloadTracker
	bridgeNames *BridgeNameTracker
	// structKinds maps struct names to their POD classification.
	structKinds map[string]api.TypeKind
	// genericStructs marks templated receiver types.
	genericStructs map[string]bool
	// specialMembers records, per type, which special members were seen
	// explicitly (including private and deleted ones); implicit-member
	// synthesis consumes this.
	specialMembers map[string]*memberRecord
	// constructorCount numbers constructor overloads per type, so a second
	// constructor becomes new1 rather than clashing with new.
	constructorCount map[string]int
}

type memberRecord struct {
	defaultCtor        seenState
	copyCtor           seenState
	moveCtor           seenState
	destructor         seenState
	anyExplicitCtor    bool
	anyDeletedCopy     bool
	anyDeletedMove     bool
	destructorDeleted  bool
	destructorPrivate  bool
}

type seenState int

const (
	notSeen seenState = iota
	seenUsable
	seenUnusable
)

// NewAnalyzer builds the stage over an API vector which has already been
// through POD analysis.
func NewAnalyzer(apis *api.ApiVec, cfg *directive.IncludeCppConfig, tc *convert.TypeConverter) *Analyzer {
	a := &Analyzer{
		cfg:            cfg,
		tc:             tc,
		overloads:      NewOverloadTracker(),
		bridgeNames:    NewBridgeNameTracker(),
		structKinds:      make(map[string]api.TypeKind),
		genericStructs:   make(map[string]bool),
		specialMembers:   make(map[string]*memberRecord),
		constructorCount: make(map[string]int),
	}
	for _, rec := range apis.Iter() {
		if rec.Kind == api.StructKind && rec.PodAnalysis != nil {
			key := rec.QName().ToCppName()
			a.structKinds[key] = rec.PodAnalysis.Kind
			if rec.PodAnalysis.IsGeneric {
				a.genericStructs[key] = true
			}
		}
		if rec.Kind == api.ConcreteTypeKind {
			a.structKinds[rec.QName().ToCppName()] = api.NonPod
		}
	}
	return a
}

// UniqueBridgeName exposes the bridge-name tracker to later stages which
// synthesise their own bridge entries (subclass forwarders).
func (a *Analyzer) UniqueBridgeName(typeName, foundName string, ns names.Namespace) string {
	return a.bridgeNames.GetUniqueCxxBridgeName(typeName, foundName, ns)
}

// IsPod reports the analysed POD-ness of a user type.
func (a *Analyzer) IsPod(qn names.QualifiedName) bool {
	return a.structKinds[qn.ToCppName()] == api.Pod
}

// constructorName hands out the user-visible name for the next ordinary
// constructor of a type: new, then new1, new2...
func (a *Analyzer) constructorName(tyName string) string {
	n := a.constructorCount[tyName]
	a.constructorCount[tyName] = n + 1
	if n == 0 {
		return "new"
	}
	return fmt.Sprintf("new%d", n)
}

func (a *Analyzer) members(tyName string) *memberRecord {
	m := a.specialMembers[tyName]
	if m == nil {
		m = &memberRecord{}
		a.specialMembers[tyName] = m
	}
	return m
}

// Analyze runs function analysis over the vector, replacing each function
// record with its analysed form and synthesising make_unique siblings for
// constructors.
func Analyze(apis *api.ApiVec, cfg *directive.IncludeCppConfig, tc *convert.TypeConverter) *Analyzer {
	a := NewAnalyzer(apis, cfg, tc)
	apis.Replace(func(rec *api.Api) []*api.Api {
		if rec.Kind != api.FunctionKind {
			return []*api.Api{rec}
		}
		return a.analyzeFunctionApi(rec)
	})
	SynthesizeImplicitMembers(apis, a)
	return a
}

// AnalyzeSynthesized runs a pipeline-synthesised function through the same
// decision procedure as parser-discovered ones; later stages (subclass
// expansion) use it to mint their own constructors.
func (a *Analyzer) AnalyzeSynthesized(rec *api.Api) []*api.Api {
	out, extras := a.analyzeFn(rec)
	if out == nil {
		return extras
	}
	if out.Kind == api.IgnoredItemKind {
		// Synthesised functions that fail analysis never existed.
		return nil
	}
	return append([]*api.Api{out}, extras...)
}

func (a *Analyzer) analyzeFunctionApi(rec *api.Api) []*api.Api {
	fun := rec.Fun
	// The parser emits destructor thunks of its own; we synthesise
	// destructors through trait impls instead, so these just disappear.
	if strings.HasSuffix(fun.Ident, "_destructor") {
		return nil
	}
	out, extras := a.analyzeFn(rec)
	if out == nil {
		return extras
	}
	return append([]*api.Api{out}, extras...)
}

// analyzeFn performs the whole per-function decision procedure. It returns
// the analysed record (possibly an ignored stub) plus any synthesised
// siblings and concrete types.
func (a *Analyzer) analyzeFn(rec *api.Api) (*api.Api, []*api.Api) {
	fun := rec.Fun
	ns := rec.QName().Namespace()

	if fun.IsDeleted {
		a.recordSpecialMember(fun, true)
		return rec.Ignored(api.NewConvertError(api.Deleted), nil), nil
	}
	if fun.SpecialMember == api.AssignmentOperatorMember {
		return rec.Ignored(api.NewConvertError(api.AssignmentOperator), nil), nil
	}

	analysis := &api.FnAnalysis{ExternallyCallable: true}
	var extras []*api.Api

	// Receiver discovery: the this parameter marks a method.
	receiver, recvErr := a.discoverReceiver(fun, ns)
	if recvErr != nil {
		return rec.Ignored(recvErr, nil), nil
	}

	// Name resolution level one: the C++ call name.
	cppCallName := fun.Ident
	if fun.CppOriginalName != "" {
		cppCallName = fun.CppOriginalName
	}
	if idx := strings.LastIndex(cppCallName, "::"); idx >= 0 {
		cppCallName = cppCallName[idx+2:]
	}

	selfTyName := ""
	if receiver != nil {
		selfTyName = receiver.FinalItem()
		// The parser prefixes method idents with the class name.
		cppCallName = strings.TrimPrefix(cppCallName, selfTyName+"_")
	}

	// Level two: the Rust name, with per-type overload renumbering.
	var overload MethodOverload
	if receiver != nil {
		overload = a.overloads.GetMethodRealName(selfTyName, cppCallName)
	} else {
		overload = a.overloads.GetFunctionRealName(cppCallName)
	}
	cppCallName = overload.CppMethodName
	rustName := overload.RustMethodName

	isConstructor := fun.SpecialMember.IsConstructorKind() ||
		fun.Provenance == api.SynthesizedSubclassConstructor ||
		(receiver != nil && rustName == selfTyName)
	isDestructor := fun.SpecialMember == api.Destructor

	switch {
	case isConstructor:
		cppCallName = selfTyName
		if fun.SpecialMember == api.CopyConstructor || fun.SpecialMember == api.MoveConstructor {
			// Trait-surfaced constructors never show up as new().
			rustName = "new"
		} else {
			rustName = a.constructorName(selfTyName)
		}
	case isDestructor:
		rustName = "drop"
		cppCallName = "~" + selfTyName
	}

	if fun.CppVisibility == api.Private {
		// Private special members still inform implicit-member
		// synthesis, so they are analysed but never surfaced.
		analysis.IgnoreReason = api.NewConvertError(api.PrivateMethod)
		analysis.ExternallyCallable = false
	}
	if isConstructor && receiver != nil && fun.Provenance == api.FromParser &&
		!fun.SpecialMember.IsConstructorKind() {
		// An argument-taking constructor carries no special-member
		// annotation but still suppresses the implicit default.
		a.members(receiver.ToCppName()).anyExplicitCtor = true
	}
	a.recordSpecialMember(fun, false)

	if receiver != nil && isConstructor {
		if fun.SpecialMember == api.CopyConstructor || fun.SpecialMember == api.MoveConstructor {
			if len(fun.Params) != 2 {
				return rec.Ignored(api.NewConvertError(api.ConstructorWithOnlyOneParam), nil), nil
			}
		}
		if a.cfg.IsOnConstructorBlocklist(receiver.ToCppName()) {
			return rec.Ignored(api.NewConvertErrorWithName(api.Blocked, *receiver), nil), nil
		}
	}

	// Parameter conversion.
	refCount := 0
	rawPointerSeen := false
	for i, p := range fun.Params {
		if i == 0 && receiver != nil && p.Name == "this" {
			selfParam, err := a.convertReceiverParam(fun, p, isConstructor)
			if err != nil {
				return rec.Ignored(err, errCtx(selfTyName, rustName)), nil
			}
			if !isConstructor {
				// The receiver is a reference for lifetime
				// purposes.
				refCount++
			}
			analysis.Params = append(analysis.Params, selfParam)
			continue
		}
		converted, err := a.convertParam(fun, p, ns)
		if err != nil {
			if err.Kind == api.Blocked || err.Kind == api.TypeContainingForwardDeclaration {
				err = api.NewConvertErrorWithDetail(api.UnacceptableParam, rustName)
			}
			return rec.Ignored(err, errCtx(selfTyName, rustName)), nil
		}
		extras = append(extras, converted.extras...)
		analysis.Deps = append(analysis.Deps, converted.deps...)
		if converted.kind == convert.ReferenceResult || converted.kind == convert.MutableReferenceResult {
			refCount++
		}
		if converted.kind == convert.PointerResult {
			rawPointerSeen = true
		}
		analysis.Params = append(analysis.Params, converted.param)
	}

	// Return conversion.
	if fun.RValueReferenceReturn {
		return rec.Ignored(api.NewConvertError(api.RValueReturn), errCtx(selfTyName, rustName)), nil
	}
	if fun.Ret != nil {
		retPolicy, retKind, retDeps, retExtras, err := a.convertReturn(fun, ns)
		if err != nil {
			return rec.Ignored(err, errCtx(selfTyName, rustName)), nil
		}
		extras = append(extras, retExtras...)
		analysis.Deps = append(analysis.Deps, retDeps...)
		analysis.Ret = retPolicy
		if retKind == convert.ReferenceResult || retKind == convert.MutableReferenceResult {
			// The bridge layer can only deduce the output lifetime
			// from exactly one input reference.
			if refCount != 1 {
				return rec.Ignored(api.NewConvertErrorWithDetail(api.NotOneInputReference, rustName), errCtx(selfTyName, rustName)), nil
			}
		}
		if retKind == convert.PointerResult {
			rawPointerSeen = true
		}
	}

	// Level three: the flat bridge name.
	bridgeTypeName := selfTyName
	analysis.CxxBridgeName = a.bridgeNames.GetUniqueCxxBridgeName(bridgeTypeName, rustName, ns)
	analysis.RustName = rustName
	analysis.CppCallName = cppCallName

	// Classification.
	analysis.Kind = a.classify(fun, receiver, isConstructor, isDestructor)
	if receiver != nil {
		analysis.Deps = append(analysis.Deps, *receiver)
	}

	// Wrapper necessity.
	a.decideWrappers(fun, analysis, receiver, isConstructor)

	// Unsafety.
	analysis.Unsafety = a.classifyUnsafety(rawPointerSeen, analysis)

	// Rename plumbing: how the Rust-visible name gets into place.
	switch {
	case analysis.RustWrapper:
		analysis.RustRename = api.RustRenameNone
	case analysis.RustName != analysis.CxxBridgeName:
		analysis.RustRename = api.RustRenameAttribute
	default:
		analysis.RustRename = api.RustRenameNone
	}

	rec.FnAnalysis = analysis
	if analysis.Kind.Kind == api.Method && analysis.Kind.Method == api.ConstructorMethod &&
		analysis.IgnoreReason == nil {
		extras = append(extras, a.synthesizeMakeUnique(rec, receiver))
	}
	return rec, extras
}

func errCtx(selfTy, method string) *api.ErrorContext {
	if selfTy == "" {
		return api.NewItemContext(method)
	}
	return api.NewMethodContext(selfTy, method)
}

// discoverReceiver inspects the first parameter for a this pointer and
// validates the receiver type.
func (a *Analyzer) discoverReceiver(fun *api.FuncToConvert, ns names.Namespace) (*names.QualifiedName, *api.ConvertError) {
	if fun.SelfType != nil {
		st := *fun.SelfType
		return &st, nil
	}
	if len(fun.Params) == 0 || fun.Params[0].Name != "this" {
		return nil, nil
	}
	this := fun.Params[0].Type
	if this.Kind != ty.PointerKind || this.Inner.Kind != ty.PathKind {
		return nil, api.NewConvertErrorWithDetail(api.UnexpectedThisType, fun.Ident+ns.DisplaySuffix())
	}
	recv := this.Inner.QualifiedName()
	if !knowntypes.DB().IsAcceptableReceiver(recv) {
		return nil, api.NewConvertError(api.UnsupportedReceiver)
	}
	if a.genericStructs[recv.ToCppName()] {
		return nil, api.NewConvertError(api.MethodOfGenericType)
	}
	if !a.cfg.IsAllowlisted(recv.ToCppName()) && a.cfg.Allowlist.State == directive.AllowlistSpecific {
		return nil, api.NewConvertError(api.MethodOfNonAllowlistedType)
	}
	return &recv, nil
}

func (a *Analyzer) convertReceiverParam(fun *api.FuncToConvert, p api.Param, isConstructor bool) (api.AnalysedParam, *api.ConvertError) {
	mutable := p.Type.Kind == ty.PointerKind && p.Type.Mutable
	if isConstructor {
		// The this pointer of a constructor is the placement-new
		// destination; Rust models the whole thing as an
		// impl New<Output=Self> return.
		return api.AnalysedParam{
			Name: "this",
			Conversion: api.TypeConversionPolicy{
				UnwrappedType:  p.Type,
				CppConversion:  api.IgnoredPlacementPtrParameter,
				RustConversion: api.FromPlacementParam,
			},
			IsSelf:      true,
			SelfMutable: true,
		}, nil
	}
	return api.AnalysedParam{
		Name:        "self",
		Conversion:  api.UnconvertedPolicy(p.Type),
		IsSelf:      true,
		SelfMutable: mutable,
	}, nil
}

type convertedParam struct {
	param  api.AnalysedParam
	deps   []names.QualifiedName
	extras []*api.Api
	kind   convert.ResultKind
}

func (a *Analyzer) convertParam(fun *api.FuncToConvert, p api.Param, ns names.Namespace) (convertedParam, *api.ConvertError) {
	treatment := convert.AsPointer
	if fun.HasReferenceParam(p.Name) {
		treatment = convert.AsReference
	}
	if fun.HasRValueReferenceParam(p.Name) {
		treatment = convert.AsRValueReference
	}
	res, err := a.tc.ConvertType(p.Type, ns, convert.OuterContext(treatment))
	if err != nil {
		return convertedParam{}, err
	}
	policy := api.UnconvertedPolicy(res.Type)
	switch res.Kind {
	case convert.RValueReferenceResult:
		policy = api.TypeConversionPolicy{
			UnwrappedType:  res.Type.Inner,
			CppConversion:  api.FromPtrToMove,
			RustConversion: api.FromRValueParam,
		}
	case convert.PlainResult:
		if res.Type.Kind == ty.PathKind {
			qn := res.Type.QualifiedName()
			if a.isNonPodByValue(qn) {
				// Non-POD by value: Rust passes impl
				// ValueParam<T>, C++ receives a unique_ptr and
				// moves out of it.
				policy = api.TypeConversionPolicy{
					UnwrappedType:  res.Type,
					CppConversion:  api.FromUniquePtrToValue,
					RustConversion: api.FromValueParam,
				}
			}
		}
	}
	return convertedParam{
		param:  api.AnalysedParam{Name: p.Name, Conversion: policy},
		deps:   res.Deps,
		extras: res.ExtraApis,
		kind:   res.Kind,
	}, nil
}

// isNonPodByValue reports whether passing this type by value requires the
// unique_ptr dance.
func (a *Analyzer) isNonPodByValue(qn names.QualifiedName) bool {
	if kind, ok := a.structKinds[qn.ToCppName()]; ok {
		return kind != api.Pod
	}
	// CxxString is the one known type which is passed by value via
	// conversion.
	return knowntypes.DB().ConvertibleFromStr(qn)
}

func (a *Analyzer) convertReturn(fun *api.FuncToConvert, ns names.Namespace) (*api.TypeConversionPolicy, convert.ResultKind, []names.QualifiedName, []*api.Api, *api.ConvertError) {
	treatment := convert.AsPointer
	if fun.ReferenceReturn {
		treatment = convert.AsReference
	}
	res, err := a.tc.ConvertType(fun.Ret, ns, convert.OuterContext(treatment))
	if err != nil {
		if err.Kind == api.Blocked || err.Kind == api.TypeContainingForwardDeclaration {
			err = api.NewConvertErrorWithDetail(api.UnacceptableParam, fun.Ident)
		}
		return nil, convert.PlainResult, nil, nil, err
	}
	policy := api.UnconvertedPolicy(res.Type)
	if res.Kind == convert.PlainResult && res.Type.Kind == ty.PathKind && a.isNonPodByValue(res.Type.QualifiedName()) {
		// Non-POD by value return: C++ wraps into a make_unique, Rust
		// receives UniquePtr<T>.
		policy = api.TypeConversionPolicy{
			UnwrappedType: res.Type,
			CppConversion: api.FromValueToUniquePtr,
		}
	}
	return &policy, res.Kind, res.Deps, res.ExtraApis, nil
}

func (a *Analyzer) classify(fun *api.FuncToConvert, receiver *names.QualifiedName, isConstructor, isDestructor bool) api.FnKind {
	if receiver == nil {
		// A static method carries its class in the original name but
		// has no this parameter.
		if orig := fun.CppOriginalName; strings.Contains(orig, "::") {
			implFor := names.QualifiedNameFromCppName(orig[:strings.LastIndex(orig, "::")])
			return api.FnKind{Kind: api.Method, ImplFor: implFor, Method: api.StaticMethod}
		}
		return api.FnKind{Kind: api.FreeFunction}
	}
	switch {
	case fun.SpecialMember == api.CopyConstructor:
		return api.FnKind{Kind: api.TraitMethod, ImplFor: *receiver, Trait: api.TraitCopyConstructor}
	case fun.SpecialMember == api.MoveConstructor:
		return api.FnKind{Kind: api.TraitMethod, ImplFor: *receiver, Trait: api.TraitMoveConstructor}
	case isDestructor:
		return api.FnKind{Kind: api.TraitMethod, ImplFor: *receiver, Trait: api.TraitDestructor}
	case isConstructor:
		return api.FnKind{Kind: api.Method, ImplFor: *receiver, Method: api.ConstructorMethod}
	case fun.Virtualness == api.PureVirtual:
		return api.FnKind{Kind: api.Method, ImplFor: *receiver, Method: api.PureVirtualMethod}
	case fun.Virtualness == api.Virtual:
		return api.FnKind{Kind: api.Method, ImplFor: *receiver, Method: api.VirtualMethod}
	default:
		return api.FnKind{Kind: api.Method, ImplFor: *receiver, Method: api.NormalMethod}
	}
}

// decideWrappers applies the wrapper-necessity rules.
func (a *Analyzer) decideWrappers(fun *api.FuncToConvert, analysis *api.FnAnalysis, receiver *names.QualifiedName, isConstructor bool) {
	isMethod := receiver != nil
	isStatic := analysis.Kind.Kind == api.Method && analysis.Kind.Method == api.StaticMethod

	cppNeeded := false
	for _, p := range analysis.Params {
		if p.Conversion.CppWorkNeeded() {
			cppNeeded = true
		}
	}
	if analysis.Ret != nil && analysis.Ret.CppWorkNeeded() {
		cppNeeded = true
	}
	if isStatic {
		// The bridge layer cannot express namespace-qualified static
		// calls.
		cppNeeded = true
	}
	if analysis.CxxBridgeName != analysis.CppCallName && isMethod {
		// #[cxx_name] can't rename methods on the C++ side.
		cppNeeded = true
	}
	analysis.CppWrapper = cppNeeded

	rustNeeded := false
	for _, p := range analysis.Params {
		if p.Conversion.RustWorkNeeded() {
			rustNeeded = true
		}
	}
	if analysis.Ret != nil && analysis.Ret.RustWorkNeeded() {
		rustNeeded = true
	}
	if isMethod || isConstructor || analysis.Kind.Kind == api.TraitMethod {
		rustNeeded = true
	}
	if analysis.RustName != analysis.CxxBridgeName {
		rustNeeded = rustNeeded || isMethod
	}
	analysis.RustWrapper = rustNeeded
}

func (a *Analyzer) classifyUnsafety(rawPointerSeen bool, analysis *api.FnAnalysis) api.UnsafetyNeeded {
	switch a.cfg.Safety {
	case directive.SafetyNone:
		return api.UnsafetyAlways
	case directive.SafetyUnsafe:
		if rawPointerSeen {
			return api.UnsafetyAlways
		}
	}
	// Value-param conversions hide raw-pointer manipulation behind a safe
	// wrapper; only the bridge declaration needs unsafe.
	for _, p := range analysis.Params {
		switch p.Conversion.RustConversion {
		case api.FromValueParam, api.FromRValueParam, api.FromPlacementParam:
			return api.UnsafetyJustBridge
		}
	}
	return api.UnsafetyNone
}

// recordSpecialMember feeds the implicit-member bookkeeping.
func (a *Analyzer) recordSpecialMember(fun *api.FuncToConvert, deleted bool) {
	if fun.SpecialMember == api.NotSpecialMember || len(fun.Params) == 0 {
		return
	}
	this := fun.Params[0].Type
	if this.Kind != ty.PointerKind || this.Inner.Kind != ty.PathKind {
		return
	}
	tyName := this.Inner.QualifiedName().ToCppName()
	m := a.members(tyName)
	state := seenUsable
	if deleted || fun.CppVisibility != api.Public {
		state = seenUnusable
	}
	switch fun.SpecialMember {
	case api.DefaultConstructor:
		m.defaultCtor = state
		m.anyExplicitCtor = true
	case api.CopyConstructor:
		m.copyCtor = state
		m.anyExplicitCtor = true
		if deleted {
			m.anyDeletedCopy = true
		}
	case api.MoveConstructor:
		m.moveCtor = state
		m.anyExplicitCtor = true
		if deleted {
			m.anyDeletedMove = true
		}
	case api.Destructor:
		m.destructor = state
		if deleted {
			m.destructorDeleted = true
		}
		if fun.CppVisibility != api.Public {
			m.destructorPrivate = true
		}
	}
}

// synthesizeMakeUnique builds the UniquePtr-returning sibling of a
// constructor.
func (a *Analyzer) synthesizeMakeUnique(ctor *api.Api, receiver *names.QualifiedName) *api.Api {
	analysis := ctor.FnAnalysis
	// new becomes new_unique, new1 becomes new_unique1, and so on.
	rustName := "new_unique" + strings.TrimPrefix(analysis.RustName, "new")
	sibling := &api.FnAnalysis{
		RustName:           rustName,
		CxxBridgeName:      a.bridgeNames.GetUniqueCxxBridgeName(receiver.FinalItem(), receiver.FinalItem()+"_make_unique", ctor.QName().Namespace()),
		CppCallName:        receiver.FinalItem() + "_make_unique",
		Kind:               api.FnKind{Kind: api.Method, ImplFor: *receiver, Method: api.MakeUniqueMethod},
		CppWrapper:         true,
		RustWrapper:        true,
		Unsafety:           analysis.Unsafety,
		ExternallyCallable: true,
		Deps:               analysis.Deps,
	}
	for _, p := range analysis.Params {
		if p.IsSelf {
			continue
		}
		sibling.Params = append(sibling.Params, p)
	}
	ret := api.TypeConversionPolicy{
		UnwrappedType: ty.PathFromName(*receiver),
		CppConversion: api.FromValueToUniquePtr,
	}
	sibling.Ret = &ret
	fun := *ctor.Fun
	return &api.Api{
		Kind:       api.FunctionKind,
		Name:       ctor.Name,
		Doc:        ctor.Doc,
		Fun:        &fun,
		FnAnalysis: sibling,
	}
}
