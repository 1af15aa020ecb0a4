// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// key models a gettext entry identified by context, singular msgid,
// and optional plural msgid_plural. For non-plural entries, plural is empty.
type key struct {
	ctx    string
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

// trArgs gives the argument positions of the translation functions.
// -1 means the function has no such argument.
type trArgs struct {
	ctx, id, plural int
}

var trFuncs = map[string]trArgs{
	"Tr":   {ctx: -1, id: 1, plural: -1}, // Tr(ctx, "msg", ...)
	"TrC":  {ctx: 1, id: 2, plural: -1},  // TrC(ctx, "context", "msg", ...)
	"TrN":  {ctx: -1, id: 1, plural: 2},  // TrN(ctx, "one", "many", n, ...)
	"TrNC": {ctx: 1, id: 2, plural: 3},   // TrNC(ctx, "context", "one", "many", n, ...)
}

// catalog collects msgid references across packages.
type catalog struct {
	refs        map[key][]ref
	projectRoot string
	i18nPkgs    map[string]struct{}
}

// visitor is the per-package view of a catalog.
type visitor struct {
	*catalog

	fset *token.FileSet
	info *types.Info
}

// extract walks every file of pkgs and returns the referenced msgids.
func extract(pkgs []*packages.Package, projectRoot string) map[key][]ref {
	c := &catalog{
		refs:        make(map[key][]ref),
		projectRoot: projectRoot,
		i18nPkgs:    i18nPackages(pkgs),
	}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		v := visitor{catalog: c, fset: p.Fset, info: p.TypesInfo}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					v.call(x)
				case *ast.CompositeLit:
					v.literal(x)
				}

				return true
			})
		}
	}

	return c.refs
}

// i18nPackages returns the paths of packages named i18n that define a
// string-based MsgKey, however they are imported or aliased.
func i18nPackages(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

// constString evaluates expr to a constant string, covering literals,
// named constants and constant expressions such as "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isMsgKey reports whether t is i18n.MsgKey, directly or through an alias.
func (c *catalog) isMsgKey(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil || named.Obj().Name() != "MsgKey" {
		return false
	}

	_, ok = c.i18nPkgs[named.Obj().Pkg().Path()]

	return ok
}

// keyIfMsgKey records expr when it is a constant headed for a MsgKey slot.
func (v visitor) keyIfMsgKey(slot types.Type, expr ast.Expr) {
	if !v.isMsgKey(slot) {
		return
	}

	if msg, ok := constString(v.info, expr); ok {
		v.add(expr.Pos(), key{id: msg})
	}
}

// literal finds implicit MsgKey conversions in map, slice, array and
// struct literals.
func (v visitor) literal(x *ast.CompositeLit) {
	tv, ok := v.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		for _, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				v.keyIfMsgKey(u.Key(), kv.Key)
				v.keyIfMsgKey(u.Elem(), kv.Value)
			}
		}

	case *types.Slice:
		for _, elt := range x.Elts {
			v.keyIfMsgKey(u.Elem(), elementValue(elt))
		}

	case *types.Array:
		for _, elt := range x.Elts {
			v.keyIfMsgKey(u.Elem(), elementValue(elt))
		}

	case *types.Struct:
		for i, elt := range x.Elts {
			kv, keyed := elt.(*ast.KeyValueExpr)
			if !keyed {
				if i < u.NumFields() {
					v.keyIfMsgKey(u.Field(i).Type(), elt)
				}

				continue
			}

			name, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}

			for f := range u.Fields() {
				if f.Name() == name.Name {
					v.keyIfMsgKey(f.Type(), kv.Value)
				}
			}
		}
	}
}

// elementValue strips the index of an indexed slice or array element.
func elementValue(elt ast.Expr) ast.Expr {
	if kv, ok := elt.(*ast.KeyValueExpr); ok {
		return kv.Value
	}

	return elt
}

// call handles MsgKey conversions, the Tr family, and any other call
// passing constants to MsgKey parameters.
func (v visitor) call(x *ast.CallExpr) {
	if tv, ok := v.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 {
			v.keyIfMsgKey(tv.Type, x.Args[0])
		}

		return
	}

	if v.trCall(x) {
		return
	}

	sig, ok := v.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		switch {
		case sig.Variadic() && i >= last:
			// f(xs...) passes a slice, which literal() already covers.
			if x.Ellipsis != token.NoPos {
				continue
			}

			slice, ok := params.At(last).Type().(*types.Slice)
			if ok {
				v.keyIfMsgKey(slice.Elem(), arg)
			}
		case i < params.Len():
			v.keyIfMsgKey(params.At(i).Type(), arg)
		}
	}
}

// trCall records a call to one of trFuncs and reports whether x was one.
func (v visitor) trCall(x *ast.CallExpr) bool {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	fn, ok := v.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}

	if _, ok := v.i18nPkgs[fn.Pkg().Path()]; !ok {
		return false
	}

	args, ok := trFuncs[fn.Name()]
	if !ok {
		return false
	}

	str := func(i int) (string, bool) {
		if i < 0 {
			return "", true
		}

		if i >= len(x.Args) {
			return "", false
		}

		return constString(v.info, x.Args[i])
	}

	ctx, okCtx := str(args.ctx)
	id, okID := str(args.id)
	plural, okPlural := str(args.plural)

	if okCtx && okID && okPlural {
		v.add(x.Args[args.id].Pos(), key{ctx: ctx, id: id, plural: plural})
	}

	return true
}

// add records a reference with a file path relative to the project root.
func (v visitor) add(pos token.Pos, k key) {
	p := v.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(v.projectRoot, file); err == nil {
		file = rel
	}

	v.refs[k] = append(v.refs[k], ref{file: filepath.ToSlash(file), line: p.Line})
}
