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

// Package ingest walks the external parser's output tree and records every
// item as an unanalyzed API, tagged with its namespace and semantic
// attributes. Nothing is decided here; later stages do the thinking.
package ingest

import (
	"log/slog"
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/clangast"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

// Ingest builds the initial API vector from a parser document plus the
// user's configuration.
func Ingest(f *clangast.File, cfg *directive.IncludeCppConfig) *api.ApiVec {
	v := api.NewApiVec()
	ingestItems(v, f.Items, names.RootNamespace())
	ingestConfigItems(v, cfg)
	return v
}

func ingestItems(v *api.ApiVec, items []clangast.Item, ns names.Namespace) {
	for i := range items {
		ingestItem(v, &items[i], ns)
	}
}

func ingestItem(v *api.ApiVec, item *clangast.Item, ns names.Namespace) {
	if item.Kind == clangast.KindMod {
		ingestItems(v, item.Items, ns.Push(item.Name))
		return
	}
	name := apiNameFor(item, ns)
	if err := names.ValidateIdentOkForCxx(name.Name.FinalItem()); err != nil {
		// Entities with reserved names are retained as documented stubs.
		kind := api.TooManyUnderscores
		if err == names.ErrReservedName {
			kind = api.ReservedName
		}
		v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(kind, name.Name.FinalItem())))
		return
	}
	switch item.Kind {
	case clangast.KindStruct:
		ingestStruct(v, item, name)
	case clangast.KindEnum:
		ingestEnum(v, item, name)
	case clangast.KindFn:
		ingestFn(v, item, name)
	case clangast.KindTypedef, clangast.KindUse:
		ingestTypedef(v, item, name)
	case clangast.KindConst:
		ingestConst(v, item, name)
	case clangast.KindStatic:
		v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(api.StaticData, name.Name.ToCppName())))
	case clangast.KindForwardDeclaration:
		v.Push(&api.Api{Kind: api.ForwardDeclarationKind, Name: name, Doc: item.Doc})
	default:
		slog.Warn("unexpected item in parser output", "kind", item.Kind, "name", item.Name)
		v.Push(ignored(name, item.Doc, api.NewConvertError(api.UnexpectedItemInMod)))
	}
}

func apiNameFor(item *clangast.Item, ns names.Namespace) names.ApiName {
	qn := names.NewQualifiedName(ns, item.Name)
	if item.Semantics.OriginalName != "" && item.Semantics.OriginalName != item.Name {
		return names.NewApiNameWithCppName(qn, item.Semantics.OriginalName)
	}
	return names.NewApiName(qn)
}

func ignored(name names.ApiName, doc string, err *api.ConvertError) *api.Api {
	return &api.Api{
		Kind: api.IgnoredItemKind,
		Name: name,
		Doc:  doc,
		Err:  err,
		Ctx:  api.NewItemContext(name.Name.FinalItem()),
	}
}

func cppVisibility(s clangast.Semantics) api.CppVisibility {
	switch {
	case s.VisibilityPrivate:
		return api.Private
	case s.VisibilityProtected:
		return api.Protected
	default:
		return api.Public
	}
}

func ingestStruct(v *api.ApiVec, item *clangast.Item, name names.ApiName) {
	// Nested types appear with a :: in their original name; anything
	// nested inside a non-public section cannot be bound.
	vis := cppVisibility(item.Semantics)
	if vis != api.Public && strings.Contains(name.EffectiveCppName(), "::") {
		v.Push(ignored(name, item.Doc, api.NewConvertError(api.NonPublicNestedType)))
		return
	}
	details := &api.StructDetails{
		Visibility: vis,
		IsGeneric:  item.IsGeneric,
		Doc:        item.Doc,
	}
	if l := item.Semantics.Layout; l != nil {
		details.Layout = &api.Layout{Size: l.Size, Align: l.Align, Packed: l.Packed}
	}
	for _, f := range item.Fields {
		parsedType, err := ty.Parse(f.Type)
		if err != nil {
			v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(api.UnsupportedType, f.Type)))
			return
		}
		field := api.Field{
			Name:              f.Name,
			Type:              parsedType,
			Visibility:        cppVisibility(f.Semantics),
			IsRValueReference: f.Semantics.RValueReference,
			Doc:               f.Doc,
		}
		if field.IsRValueReference {
			details.HasRValueReferenceFields = true
		}
		details.Fields = append(details.Fields, field)
	}
	v.Push(&api.Api{Kind: api.StructKind, Name: name, Doc: item.Doc, Struct: details})
}

func ingestEnum(v *api.ApiVec, item *clangast.Item, name names.ApiName) {
	details := &api.EnumDetails{Repr: item.Repr, Doc: item.Doc}
	for _, val := range item.Values {
		details.Values = append(details.Values, api.EnumValue{Name: val.Name, Value: val.Value, Doc: val.Doc})
	}
	v.Push(&api.Api{Kind: api.EnumKind, Name: name, Doc: item.Doc, Enum: details})
}

func specialMember(s string) api.SpecialMember {
	switch s {
	case "default_ctor":
		return api.DefaultConstructor
	case "copy_ctor":
		return api.CopyConstructor
	case "move_ctor":
		return api.MoveConstructor
	case "dtor":
		return api.Destructor
	case "assignment_operator":
		return api.AssignmentOperatorMember
	}
	return api.NotSpecialMember
}

func ingestFn(v *api.ApiVec, item *clangast.Item, name names.ApiName) {
	fun := &api.FuncToConvert{
		Ident:                 item.Name,
		CppOriginalName:       item.Semantics.OriginalName,
		Doc:                   item.Doc,
		CppVisibility:         cppVisibility(item.Semantics),
		SpecialMember:         specialMember(item.Semantics.SpecialMember),
		IsDeleted:             item.Semantics.Deleted,
		ReferenceReturn:       item.Semantics.RetTypeReference,
		RValueReferenceReturn: item.Semantics.RetTypeRValueReference,
		Provenance:            api.FromParser,
	}
	switch {
	case item.Semantics.PureVirtual:
		fun.Virtualness = api.PureVirtual
	case item.Semantics.BindgenVirtual:
		fun.Virtualness = api.Virtual
	}
	if len(item.Semantics.ArgTypeReferences) > 0 {
		fun.ReferenceParams = make(map[string]bool)
		for _, p := range item.Semantics.ArgTypeReferences {
			fun.ReferenceParams[p] = true
		}
	}
	if len(item.Semantics.ArgTypeRValueReferences) > 0 {
		fun.RValueReferenceParams = make(map[string]bool)
		for _, p := range item.Semantics.ArgTypeRValueReferences {
			fun.RValueReferenceParams[p] = true
		}
	}
	for _, p := range item.Params {
		parsedType, err := ty.Parse(p.Type)
		if err != nil {
			v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(api.UnsupportedType, p.Type)))
			return
		}
		fun.Params = append(fun.Params, api.Param{Name: p.Name, Type: parsedType})
	}
	if item.Ret != "" {
		ret, err := ty.Parse(item.Ret)
		if err != nil {
			v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(api.UnsupportedType, item.Ret)))
			return
		}
		if !ret.IsUnit() {
			fun.Ret = ret
		}
	}
	v.Push(&api.Api{Kind: api.FunctionKind, Name: name, Doc: item.Doc, Fun: fun})
}

func ingestTypedef(v *api.ApiVec, item *clangast.Item, name names.ApiName) {
	target, err := ty.Parse(item.Target)
	if err != nil {
		v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(api.ComplexTypedefTarget, item.Target)))
		return
	}
	v.Push(&api.Api{
		Kind:    api.TypedefKind,
		Name:    name,
		Doc:     item.Doc,
		Typedef: &api.TypedefDetails{Target: target, FromUseStatement: item.Kind == clangast.KindUse},
	})
}

func ingestConst(v *api.ApiVec, item *clangast.Item, name names.ApiName) {
	parsedType, err := ty.Parse(item.Type)
	if err != nil {
		v.Push(ignored(name, item.Doc, api.NewConvertErrorWithDetail(api.UnsupportedType, item.Type)))
		return
	}
	v.Push(&api.Api{
		Kind:  api.ConstKind,
		Name:  name,
		Doc:   item.Doc,
		Const: &api.ConstDetails{Type: parsedType, Value: item.Value, Doc: item.Doc},
	})
}

// ingestConfigItems records the APIs which exist purely because the user's
// directives say so: Rust types, extern C++ types, extern Rust functions,
// subclasses, and the make_string utility.
func ingestConfigItems(v *api.ApiVec, cfg *directive.IncludeCppConfig) {
	for _, rt := range cfg.RustTypes {
		v.Push(&api.Api{
			Kind:     api.RustTypeKind,
			Name:     names.NewApiName(names.QualifiedNameFromCppName(rt)),
			RustPath: rt,
		})
	}
	for _, rt := range cfg.ExternRustTypes {
		v.Push(&api.Api{
			Kind:     api.RustTypeKind,
			Name:     names.NewApiName(names.QualifiedNameFromCppName(rt)),
			RustPath: rt,
		})
	}
	for _, ect := range cfg.ExternCppTypes {
		v.Push(&api.Api{
			Kind: api.ExternCppTypeKind,
			Name: names.NewApiName(names.QualifiedNameFromCppName(ect.CppName)),
			ExternCppType: &api.ExternCppTypeDetails{
				RustPath: ect.RustPath,
				Opaque:   ect.Opaque,
			},
		})
	}
	for _, rf := range cfg.ExternRustFuns {
		segs := strings.Split(rf.Path, "::")
		v.Push(&api.Api{
			Kind:   api.RustFnKind,
			Name:   names.NewApiName(names.QualifiedNameFromCppName(segs[len(segs)-1])),
			RustFn: &api.RustFnDetails{Path: rf.Path, Signature: rf.Signature},
		})
	}
	for _, sc := range cfg.Subclasses {
		v.Push(&api.Api{
			Kind: api.SubclassKind,
			Name: names.NewApiName(names.QualifiedNameFromCppName(sc.Subclass)),
			Subclass: &api.SubclassDetails{
				Superclass: names.QualifiedNameFromCppName(sc.Superclass),
				CppPeer:    sc.CppPeer(),
				Holder:     sc.Holder(),
			},
		})
	}
	if !cfg.ExcludeUtilities {
		v.Push(&api.Api{
			Kind: api.StringConstructorKind,
			Name: names.NewApiName(names.QualifiedNameFromCppName("make_string")),
		})
	}
}
