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
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/google/autocxx-sub001/internal/api"
)

// emitNamespaceMods mirrors the C++ namespace hierarchy as nested pub mods,
// each re-exporting its items from the flat bridge.
func (g *generator) emitNamespaceMods() {
	perNs := make(map[string][]*api.Api)
	for _, a := range g.apis.Iter() {
		ns := a.QName().Namespace().String()
		perNs[ns] = append(perNs[ns], a)
	}

	// Root-level re-exports sit directly in the output mod.
	for _, a := range perNs[""] {
		g.emitReexport(a)
	}

	// Merge the namespaces into a trie so shared prefixes emit one mod.
	children := make(map[string][]string)
	seen := map[string]bool{"": true}
	var nsNames []string
	for ns := range perNs {
		if ns != "" {
			nsNames = append(nsNames, ns)
		}
	}
	sort.Strings(nsNames)
	for _, ns := range nsNames {
		segs := strings.Split(ns, "::")
		parent := ""
		for _, s := range segs {
			full := s
			if parent != "" {
				full = parent + "::" + s
			}
			if !seen[full] {
				seen[full] = true
				children[parent] = append(children[parent], s)
			}
			parent = full
		}
	}
	var emit func(prefix string)
	emit = func(prefix string) {
		for _, child := range children[prefix] {
			full := child
			if prefix != "" {
				full = prefix + "::" + child
			}
			g.line("pub mod %s {", child)
			g.indent++
			g.line("#[allow(unused_imports)]")
			g.line("pub use super::cxxbridge;")
			for _, a := range perNs[full] {
				g.emitReexport(a)
			}
			emit(full)
			g.indent--
			g.line("}")
		}
	}
	emit("")
	g.line("")
}

func (g *generator) emitReexport(a *api.Api) {
	switch a.Kind {
	case api.StructKind, api.EnumKind, api.ConcreteTypeKind, api.CTypeKind, api.ExternCppTypeKind:
		g.line("pub use cxxbridge::%s;", a.QName().FinalItem())
	case api.FunctionKind:
		an := a.FnAnalysis
		if an == nil || !an.ExternallyCallable || an.RustWrapper {
			return
		}
		if an.Kind.Kind != api.FreeFunction {
			return
		}
		if an.BridgeFnName() != an.RustName && an.RustRename != api.RustRenameAttribute {
			g.line("pub use cxxbridge::%s as %s;", an.BridgeFnName(), an.RustName)
		} else if an.RustRename != api.RustRenameAttribute {
			g.line("pub use cxxbridge::%s;", an.RustName)
		}
	case api.StringConstructorKind:
		g.line("pub use cxxbridge::make_string;")
	}
}

// emitImplBlocks renders the Rust-facing wrappers: impl blocks for methods
// and constructors, moveit trait impls for copy/move construction, and
// top-level wrapper functions for free functions needing conversion.
func (g *generator) emitImplBlocks() {
	byType := make(map[string][]*api.Api)
	var typeOrder []string
	var freeFns []*api.Api
	for _, a := range g.apis.Iter() {
		if a.Kind != api.FunctionKind || a.FnAnalysis == nil || !a.FnAnalysis.ExternallyCallable {
			continue
		}
		an := a.FnAnalysis
		if !an.RustWrapper {
			continue
		}
		switch an.Kind.Kind {
		case api.Method:
			key := an.Kind.ImplFor.FinalItem()
			if _, seen := byType[key]; !seen {
				typeOrder = append(typeOrder, key)
			}
			byType[key] = append(byType[key], a)
		case api.TraitMethod:
			g.emitTraitImpl(a)
		case api.FreeFunction:
			freeFns = append(freeFns, a)
		}
	}
	for _, tyName := range typeOrder {
		g.line("impl cxxbridge::%s {", tyName)
		g.indent++
		for _, a := range byType[tyName] {
			g.emitMethodWrapper(a)
		}
		g.indent--
		g.line("}")
		g.line("")
	}
	for _, a := range freeFns {
		g.emitFreeFnWrapper(a)
	}
}

// wrapperSignature assembles the user-facing parameter list, argument
// expressions and any setup statements for a wrapper function.
type wrapperSignature struct {
	generics string
	params   []string
	setup    []string
	args     []string
	ret      string
}

func (g *generator) buildWrapperSignature(an *api.FnAnalysis, includeSelf bool) wrapperSignature {
	var w wrapperSignature
	needsLifetime := wrapperNeedsLifetime(an)
	if needsLifetime {
		w.generics = "<'a>"
	}
	lt := func(spelling string) string {
		if !needsLifetime {
			return spelling
		}
		return addLifetime(spelling)
	}
	for _, p := range an.Params {
		if p.IsSelf {
			if !includeSelf {
				continue
			}
			if p.Conversion.CppConversion == api.IgnoredPlacementPtrParameter {
				continue
			}
			if p.SelfMutable {
				w.params = append(w.params, lt("self: core::pin::Pin<&mut Self>"))
			} else {
				w.params = append(w.params, lt("&self"))
			}
			w.args = append(w.args, "self")
			continue
		}
		name := escapeRustIdent(p.Name)
		unwrapped := bridgeTypeSpelling(p.Conversion.UnwrappedType)
		switch p.Conversion.RustConversion {
		case api.FromValueParam:
			w.params = append(w.params, fmt.Sprintf("%s: impl autocxx::ValueParam<cxxbridge::%s>", name, unwrapped))
			w.setup = append(w.setup, fmt.Sprintf("let mut %s = autocxx::ValueParamHandler::new(%s);", name, name))
			w.args = append(w.args, fmt.Sprintf("%s.as_unique_ptr()", name))
		case api.FromRValueParam:
			w.params = append(w.params, fmt.Sprintf("%s: impl autocxx::RValueParam<cxxbridge::%s>", name, unwrapped))
			w.setup = append(w.setup, fmt.Sprintf("let mut %s = autocxx::RValueParamHandler::new(%s);", name, name))
			w.args = append(w.args, fmt.Sprintf("%s.as_mut_ptr()", name))
		default:
			w.params = append(w.params, fmt.Sprintf("%s: %s", name, lt(bridgeTypeSpelling(p.Conversion.BridgeType()))))
			w.args = append(w.args, name)
		}
	}
	if an.Ret != nil {
		w.ret = " -> " + lt(bridgeTypeSpelling(an.Ret.BridgeType()))
	}
	return w
}

// wrapperNeedsLifetime detects the cases where Rust lifetime elision fails:
// a Pin<&mut T> parameter combined with a reference return.
func wrapperNeedsLifetime(an *api.FnAnalysis) bool {
	if an.Ret == nil || an.Ret.UnwrappedType == nil {
		return false
	}
	if !strings.HasPrefix(bridgeTypeSpelling(an.Ret.BridgeType()), "&") {
		return false
	}
	for _, p := range an.Params {
		if p.IsSelf && p.SelfMutable {
			return true
		}
		if strings.Contains(bridgeTypeSpelling(p.Conversion.BridgeType()), "Pin<") {
			return true
		}
	}
	return false
}

// addLifetime threads 'a through the top-level references of a spelling.
func addLifetime(spelling string) string {
	spelling = strings.ReplaceAll(spelling, "&mut ", "&'a mut ")
	if strings.HasPrefix(spelling, "&") && !strings.HasPrefix(spelling, "&'a") {
		spelling = "&'a " + strings.TrimPrefix(spelling, "&")
	}
	return spelling
}

func (g *generator) emitMethodWrapper(a *api.Api) {
	an := a.FnAnalysis
	g.docLines(a.Doc)
	switch an.Kind.Method {
	case api.ConstructorMethod:
		g.emitConstructorWrapper(a)
		return
	case api.MakeUniqueMethod:
		g.emitMakeUniqueWrapper(a)
		return
	}
	w := g.buildWrapperSignature(an, true)
	unsafeKw := ""
	if an.Unsafety == api.UnsafetyAlways {
		unsafeKw = "unsafe "
	}
	g.line("pub %sfn %s%s(%s)%s {", unsafeKw, an.RustName, w.generics, strings.Join(w.params, ", "), w.ret)
	g.indent++
	for _, s := range w.setup {
		g.line("%s", s)
	}
	call := fmt.Sprintf("cxxbridge::%s(%s)", an.BridgeFnName(), strings.Join(w.args, ", "))
	if an.Unsafety == api.UnsafetyAlways {
		g.line("%s", call)
	} else {
		g.line("unsafe { %s }", call)
	}
	g.indent--
	g.line("}")
}

func (g *generator) emitConstructorWrapper(a *api.Api) {
	an := a.FnAnalysis
	w := g.buildWrapperSignature(an, false)
	g.line("pub fn %s%s(%s) -> impl autocxx::moveit::new::New<Output = Self> {", an.RustName, w.generics, strings.Join(w.params, ", "))
	g.indent++
	for _, s := range w.setup {
		g.line("%s", s)
	}
	args := append([]string{"this_ptr"}, w.args...)
	g.line("unsafe {")
	g.indent++
	g.line("autocxx::moveit::new::by_raw(move |this| {")
	g.indent++
	g.line("let this_ptr = this.get_unchecked_mut().as_mut_ptr();")
	g.line("cxxbridge::%s(%s)", an.BridgeFnName(), strings.Join(args, ", "))
	g.indent--
	g.line("})")
	g.indent--
	g.line("}")
	g.indent--
	g.line("}")
}

func (g *generator) emitMakeUniqueWrapper(a *api.Api) {
	an := a.FnAnalysis
	w := g.buildWrapperSignature(an, false)
	g.line("pub fn %s%s(%s) -> cxx::UniquePtr<Self> {", an.RustName, w.generics, strings.Join(w.params, ", "))
	g.indent++
	for _, s := range w.setup {
		g.line("%s", s)
	}
	call := fmt.Sprintf("cxxbridge::%s(%s)", an.BridgeFnName(), strings.Join(w.args, ", "))
	if an.Unsafety == api.UnsafetyNone {
		g.line("%s", call)
	} else {
		g.line("unsafe { %s }", call)
	}
	g.indent--
	g.line("}")
}

func (g *generator) emitFreeFnWrapper(a *api.Api) {
	an := a.FnAnalysis
	g.docLines(a.Doc)
	w := g.buildWrapperSignature(an, false)
	unsafeKw := ""
	if an.Unsafety == api.UnsafetyAlways {
		unsafeKw = "unsafe "
	}
	g.line("pub %sfn %s%s(%s)%s {", unsafeKw, an.RustName, w.generics, strings.Join(w.params, ", "), w.ret)
	g.indent++
	for _, s := range w.setup {
		g.line("%s", s)
	}
	call := fmt.Sprintf("cxxbridge::%s(%s)", an.BridgeFnName(), strings.Join(w.args, ", "))
	if an.Unsafety == api.UnsafetyAlways {
		g.line("%s", call)
	} else {
		g.line("unsafe { %s }", call)
	}
	g.indent--
	g.line("}")
	g.line("")
}

// emitTraitImpl renders moveit integration for copy and move construction.
// Destructors need no Rust-side code: deletion happens through UniquePtr and
// the C++ wrapper.
func (g *generator) emitTraitImpl(a *api.Api) {
	an := a.FnAnalysis
	selfTy := an.Kind.ImplFor.FinalItem()
	switch an.Kind.Trait {
	case api.TraitCopyConstructor:
		g.line("unsafe impl autocxx::moveit::new::CopyNew for cxxbridge::%s {", selfTy)
		g.indent++
		g.line("unsafe fn copy_new(other: &Self, this: core::pin::Pin<&mut core::mem::MaybeUninit<Self>>) {")
		g.indent++
		g.line("cxxbridge::%s(this.get_unchecked_mut().as_mut_ptr(), other)", an.BridgeFnName())
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
		g.line("")
	case api.TraitMoveConstructor:
		g.line("unsafe impl autocxx::moveit::new::MoveNew for cxxbridge::%s {", selfTy)
		g.indent++
		g.line("unsafe fn move_new(other: core::pin::Pin<autocxx::moveit::MoveRef<'_, Self>>, this: core::pin::Pin<&mut core::mem::MaybeUninit<Self>>) {")
		g.indent++
		g.line("cxxbridge::%s(this.get_unchecked_mut().as_mut_ptr(), other.get_unchecked_mut().as_mut_ptr())", an.BridgeFnName())
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
		g.line("")
	}
}

// emitSubclassSupport renders, per subclass! directive, the methods trait,
// the upcast trait, the holder type, and the forwarder functions C++ calls.
func (g *generator) emitSubclassSupport() {
	type traitEntry struct {
		sub    *api.Api
		items  []*api.Api
		fwds   []*api.Api
	}
	entries := make(map[string]*traitEntry)
	var order []string
	for _, a := range g.apis.Iter() {
		if a.Kind == api.SubclassKind {
			key := a.QName().FinalItem()
			entries[key] = &traitEntry{sub: a}
			order = append(order, key)
		}
	}
	for _, a := range g.apis.Iter() {
		switch a.Kind {
		case api.SubclassTraitItemKind:
			if e := entries[a.SubclassTrait.Subclass.FinalItem()]; e != nil {
				e.items = append(e.items, a)
			}
		case api.RustSubclassFnKind:
			if e := entries[a.RustSubclassFn.Subclass.FinalItem()]; e != nil {
				e.fwds = append(e.fwds, a)
			}
		}
	}
	for _, key := range order {
		e := entries[key]
		sup := e.sub.Subclass.Superclass.FinalItem()
		subName := e.sub.QName().FinalItem()

		g.line("/// Implement this trait on `%s` to override the virtual methods of", subName)
		g.line("/// `%s`. A non-pure method not overridden panics when called; it does not call the C++ base implementation.", sup)
		g.line("pub trait %s_methods {", sup)
		g.indent++
		for _, item := range e.items {
			m := item.SubclassTrait
			sig := subclassMethodSignature(m)
			if m.Pure {
				g.line("%s;", sig)
			} else {
				g.line("%s {", sig)
				g.indent++
				g.line("unimplemented!(\"override of %s not provided\")", m.Method.Ident)
				g.indent--
				g.line("}")
			}
		}
		g.indent--
		g.line("}")
		g.line("")

		superSnake := strcase.ToSnake(sup)
		g.line("/// Upcast access to the C++ superclass of `%s`.", subName)
		g.line("pub trait %s_supers {", sup)
		g.indent++
		g.line("fn as_%s(&self) -> &cxxbridge::%s;", superSnake, e.sub.Subclass.CppPeer)
		g.line("fn as_%s_mut(&mut self) -> core::pin::Pin<&mut cxxbridge::%s>;", superSnake, e.sub.Subclass.CppPeer)
		g.indent--
		g.line("}")
		g.line("")

		g.line("/// Rust half of the C++ peer pair for `%s`.", subName)
		g.line("pub struct %s(pub std::cell::RefCell<std::boxed::Box<%s>>);", e.sub.Subclass.Holder, subName)
		g.line("")

		for _, fwd := range e.fwds {
			d := fwd.RustSubclassFn
			var params []string
			var args []string
			params = append(params, fmt.Sprintf("me: &mut %s", subName))
			for _, p := range d.Method.Params {
				if p.Name == "this" {
					continue
				}
				params = append(params, fmt.Sprintf("%s: %s", escapeRustIdent(p.Name), bridgeTypeSpelling(p.Type)))
				args = append(args, escapeRustIdent(p.Name))
			}
			ret := ""
			if d.Method.Ret != nil {
				ret = " -> " + bridgeTypeSpelling(d.Method.Ret)
			}
			methodName := strings.TrimPrefix(d.CppForwarderName, subName+"_")
			g.line("#[allow(non_snake_case)]")
			g.line("pub fn %s(%s)%s {", d.CppForwarderName, strings.Join(params, ", "), ret)
			g.indent++
			g.line("%s_methods::%s(me%s)", sup, methodName, argsSuffix(args))
			g.indent--
			g.line("}")
			g.line("")
		}
	}
}

func argsSuffix(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

func subclassMethodSignature(m *api.SubclassTraitMethod) string {
	var params []string
	params = append(params, "&mut self")
	for _, p := range m.Method.Params {
		if p.Name == "this" {
			continue
		}
		params = append(params, fmt.Sprintf("%s: %s", escapeRustIdent(p.Name), bridgeTypeSpelling(p.Type)))
	}
	ret := ""
	if m.Method.Ret != nil {
		ret = " -> " + bridgeTypeSpelling(m.Method.Ret)
	}
	name := m.Method.Ident
	if idx := strings.LastIndex(name, "_"); idx >= 0 && strings.HasPrefix(name, m.Superclass.FinalItem()+"_") {
		name = name[len(m.Superclass.FinalItem())+1:]
	}
	return fmt.Sprintf("fn %s(%s)%s", name, strings.Join(params, ", "), ret)
}

// emitIgnoredStubs generates a documented placeholder for every item which
// couldn't be bound, so the reason appears in rustdoc and rust-analyzer.
func (g *generator) emitIgnoredStubs() {
	for _, a := range g.apis.Iter() {
		if a.Kind != api.IgnoredItemKind {
			continue
		}
		stubName := strings.ReplaceAll(a.Ctx.String(), "::", "_")
		g.line("/// Bindings could not be generated: %s", a.Err.Error())
		g.line("pub struct %s;", stubName)
		g.line("")
	}
}
