// Package builtins is the fixed table of names bound before any module.
package builtins

import (
	"sort"

	"github.com/funvibe/func/internal/bytecode"
	"github.com/funvibe/func/internal/config"
	"github.com/funvibe/func/internal/ir"
	"github.com/funvibe/func/internal/typesystem"
)

var table = map[string]*ir.Raw{
	config.PrintFuncName: {
		Name: config.PrintFuncName,
		Type: typesystem.Func(typesystem.String, typesystem.Unit),
		Code: bytecode.Ops(bytecode.OP_PRINT),
	},
	config.AddFuncName: {
		Name: config.AddFuncName,
		Type: typesystem.Func(typesystem.Integer, typesystem.Integer, typesystem.Integer),
		Code: bytecode.Ops(bytecode.OP_ADD),
	},
	config.IntegerToStringFuncName: {
		Name: config.IntegerToStringFuncName,
		Type: typesystem.Func(typesystem.Integer, typesystem.String),
		Code: bytecode.Ops(bytecode.OP_INTEGER_TO_STRING),
	},
}

// Lookup returns the builtin bound to name.
func Lookup(name string) (*ir.Raw, bool) {
	raw, ok := table[name]
	return raw, ok
}

// Names returns every builtin name in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings returns a fresh binding table holding only the builtins.
func Bindings() map[string]ir.Expression {
	bindings := make(map[string]ir.Expression, len(table))
	for name, raw := range table {
		bindings[name] = raw
	}
	return bindings
}
