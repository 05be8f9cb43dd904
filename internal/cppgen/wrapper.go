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

package cppgen

import (
	"fmt"
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/convert"
	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/ty"
)

// wrapperFunction builds one C++ wrapper: a free function which adapts the
// bridge calling convention to the original C++ entity.
func (g *generator) wrapperFunction(a *api.Api) functionEntry {
	an := a.FnAnalysis
	name := an.CppWrapperName()

	var params []string
	var args []string
	receiverExpr := ""
	for _, p := range an.Params {
		if p.IsSelf {
			selfCpp := knowntypes.DB().CppNameFor(an.Kind.ImplFor)
			switch {
			case p.Conversion.CppConversion == api.IgnoredPlacementPtrParameter:
				params = append(params, fmt.Sprintf("%s* autocxx_gen_this", selfCpp))
			case p.SelfMutable:
				params = append(params, fmt.Sprintf("%s& autocxx_gen_this", selfCpp))
				receiverExpr = "autocxx_gen_this"
			default:
				params = append(params, fmt.Sprintf("const %s& autocxx_gen_this", selfCpp))
				receiverExpr = "autocxx_gen_this"
			}
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", paramCppType(p.Conversion), p.Name))
		args = append(args, argExpression(p))
	}

	retType := "void"
	wrapReturn := false
	if an.Ret != nil {
		switch an.Ret.CppConversion {
		case api.FromValueToUniquePtr:
			retType = fmt.Sprintf("std::unique_ptr<%s>", convert.CppSpelling(an.Ret.UnwrappedType))
			wrapReturn = true
		default:
			retType = convert.CppSpelling(an.Ret.UnwrappedType)
		}
	}

	body := g.callExpression(a, receiverExpr, args)
	if an.FieldAccess != "" {
		body = fmt.Sprintf("%s.%s", receiverExpr, an.FieldAccess)
	}
	switch {
	case an.Kind.Kind == api.Method && an.Kind.Method == api.ConstructorMethod:
		body = fmt.Sprintf("new (autocxx_gen_this) %s(%s);",
			knowntypes.DB().CppNameFor(an.Kind.ImplFor), strings.Join(args, ", "))
	case an.Kind.Kind == api.Method && an.Kind.Method == api.MakeUniqueMethod:
		retType = fmt.Sprintf("std::unique_ptr<%s>", knowntypes.DB().CppNameFor(an.Kind.ImplFor))
		body = fmt.Sprintf("return std::make_unique<%s>(%s);",
			knowntypes.DB().CppNameFor(an.Kind.ImplFor), strings.Join(args, ", "))
	case an.Kind.Kind == api.TraitMethod && an.Kind.Trait == api.TraitCopyConstructor:
		body = fmt.Sprintf("new (autocxx_gen_this) %s(%s);",
			knowntypes.DB().CppNameFor(an.Kind.ImplFor), strings.Join(args, ", "))
	case an.Kind.Kind == api.TraitMethod && an.Kind.Trait == api.TraitMoveConstructor:
		body = fmt.Sprintf("new (autocxx_gen_this) %s(%s);",
			knowntypes.DB().CppNameFor(an.Kind.ImplFor), strings.Join(args, ", "))
	case an.Kind.Kind == api.TraitMethod && an.Kind.Trait == api.TraitDestructor:
		body = fmt.Sprintf("autocxx_gen_this.~%s();", an.Kind.ImplFor.FinalItem())
	case wrapReturn:
		body = fmt.Sprintf("return std::make_unique<%s>(%s);",
			convert.CppSpelling(an.Ret.UnwrappedType), body)
	case an.Ret != nil:
		body = "return " + body + ";"
	default:
		body = body + ";"
	}

	signature := fmt.Sprintf("%s %s(%s)", retType, name, strings.Join(params, ", "))
	return functionEntry{
		Declaration: signature + ";",
		Definition:  fmt.Sprintf("%s {\n    %s\n}", signature, body),
	}
}

// paramCppType renders the C++ type the wrapper receives for one parameter.
func paramCppType(policy api.TypeConversionPolicy) string {
	switch policy.CppConversion {
	case api.FromUniquePtrToValue:
		return fmt.Sprintf("std::unique_ptr<%s>", convert.CppSpelling(policy.UnwrappedType))
	case api.FromPtrToMove:
		return convert.CppSpelling(policy.UnwrappedType) + "*"
	case api.DerefFromStr:
		return "::rust::Str"
	default:
		return convert.CppSpelling(policy.UnwrappedType)
	}
}

// argExpression renders the conversion applied before forwarding one
// argument to the original function.
func argExpression(p api.AnalysedParam) string {
	switch p.Conversion.CppConversion {
	case api.FromUniquePtrToValue, api.FromPtrToMove:
		return fmt.Sprintf("std::move(*%s)", p.Name)
	case api.DerefFromStr:
		return fmt.Sprintf("std::string(%s)", p.Name)
	default:
		// rust::Box has no copy constructor, so forwarding it by value
		// requires a move.
		if t := p.Conversion.UnwrappedType; t != nil && t.Kind == ty.PathKind &&
			knowntypes.DB().GenericBehavior(t.QualifiedName()) == knowntypes.RustGeneric {
			return fmt.Sprintf("std::move(%s)", p.Name)
		}
		return p.Name
	}
}

// callExpression renders the invocation of the original C++ entity.
func (g *generator) callExpression(a *api.Api, receiverExpr string, args []string) string {
	an := a.FnAnalysis
	joined := strings.Join(args, ", ")
	switch an.Kind.Kind {
	case api.Method:
		if an.Kind.Method == api.StaticMethod {
			return fmt.Sprintf("%s::%s(%s)", an.Kind.ImplFor.ToCppName(), an.CppCallName, joined)
		}
		if receiverExpr != "" {
			return fmt.Sprintf("%s.%s(%s)", receiverExpr, an.CppCallName, joined)
		}
		return fmt.Sprintf("%s(%s)", an.CppCallName, joined)
	default:
		target := an.CppCallName
		if ns := a.QName().Namespace(); !ns.IsEmpty() {
			target = ns.String() + "::" + target
		}
		return fmt.Sprintf("%s(%s)", target, joined)
	}
}

// subclassPeerDeclaration emits the C++ class which inherits from the
// subclassed superclass and forwards every virtual into Rust. Constructors
// mirror the superclass's own: each takes the rust::Box of the holder plus
// the superclass constructor's arguments, forwarded through the initializer
// list.
func (g *generator) subclassPeerDeclaration(a *api.Api) textEntry {
	d := a.Subclass
	super := knowntypes.DB().CppNameFor(d.Superclass)
	var sb strings.Builder
	fmt.Fprintf(&sb, "class %s : public %s {\n", d.CppPeer, super)
	sb.WriteString("public:\n")
	ctors := g.peerConstructorLines(a, super)
	if len(ctors) == 0 {
		// No usable superclass constructor was found; fall back to
		// default base construction.
		ctors = []string{fmt.Sprintf("%s(rust::Box<%s> peer) : holder_(std::move(peer)) {}", d.CppPeer, d.Holder)}
	}
	for _, ctor := range ctors {
		sb.WriteString("    " + ctor + "\n")
	}
	for _, item := range g.apis.Iter() {
		if item.Kind != api.RustSubclassFnKind {
			continue
		}
		fwd := item.RustSubclassFn
		if !fwd.Subclass.Equal(a.QName()) {
			continue
		}
		sb.WriteString("    " + g.subclassOverride(fwd) + "\n")
	}
	sb.WriteString("private:\n")
	fmt.Fprintf(&sb, "    rust::Box<%s> holder_;\n", d.Holder)
	sb.WriteString("};")
	return textEntry{Text: sb.String()}
}

// peerConstructorLines renders one C++ constructor per synthesised peer
// constructor of this subclass.
func (g *generator) peerConstructorLines(sub *api.Api, super string) []string {
	var out []string
	peer := sub.Subclass.CppPeer
	for _, item := range g.apis.Iter() {
		if item.Kind != api.FunctionKind || item.FnAnalysis == nil || item.Fun == nil {
			continue
		}
		if item.Fun.Provenance != api.SynthesizedSubclassConstructor {
			continue
		}
		an := item.FnAnalysis
		if an.Kind.Kind != api.Method || an.Kind.Method != api.ConstructorMethod {
			continue
		}
		if an.Kind.ImplFor.FinalItem() != peer {
			continue
		}
		var params []string
		var baseArgs []string
		for _, p := range an.Params {
			if p.IsSelf {
				continue
			}
			params = append(params, fmt.Sprintf("%s %s", paramCppType(p.Conversion), p.Name))
			if p.Name != "peer" {
				baseArgs = append(baseArgs, argExpression(p))
			}
		}
		baseInit := ""
		if len(baseArgs) > 0 {
			baseInit = fmt.Sprintf("%s(%s), ", super, strings.Join(baseArgs, ", "))
		}
		out = append(out, fmt.Sprintf("%s(%s) : %sholder_(std::move(peer)) {}",
			peer, strings.Join(params, ", "), baseInit))
	}
	return out
}

func (g *generator) subclassOverride(fwd *api.RustSubclassFnDetails) string {
	m := fwd.Method
	var params []string
	var args []string
	for _, p := range m.Params {
		if p.Name == "this" {
			continue
		}
		spelling := convert.CppSpelling(p.Type)
		if m.HasReferenceParam(p.Name) {
			spelling = "const " + convert.CppSpelling(p.Type.Inner) + "&"
		}
		params = append(params, fmt.Sprintf("%s %s", spelling, p.Name))
		args = append(args, p.Name)
	}
	ret := "void"
	if m.Ret != nil {
		ret = convert.CppSpelling(m.Ret)
	}
	methodName := m.Ident
	if idx := strings.LastIndex(methodName, "_"); idx >= 0 {
		methodName = methodName[idx+1:]
	}
	callArgs := append([]string{"*holder_"}, args...)
	body := fmt.Sprintf("%s(%s);", fwd.CppForwarderName, strings.Join(callArgs, ", "))
	if m.Ret != nil {
		body = "return " + body
	}
	return fmt.Sprintf("%s %s(%s) override { %s }", ret, methodName, strings.Join(params, ", "), body)
}
