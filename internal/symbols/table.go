package symbols

import (
	"slices"

	"exprua/internal/diag"
	"exprua/internal/units"
)

// Kind classifies a table entry.
type Kind uint8

const (
	KindVariable Kind = iota + 1
	// KindConstant marks the pre-populated pi and e. They may be reassigned,
	// after which the entry becomes a variable.
	KindConstant
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Symbol is one table entry: a value or a built-in function.
type Symbol struct {
	Name  string
	Kind  Kind
	Value units.Value
	Fn    *Builtin
}

// Table maps names to symbols. Names are case-sensitive and unique; entries
// keep their first insertion position so listings are stable.
//
// A Table is not safe for concurrent use.
type Table struct {
	entries map[string]*Symbol
	order   []string
}

// NewTable returns a table pre-populated with the built-in constants and
// functions.
func NewTable() *Table {
	t := &Table{entries: make(map[string]*Symbol, len(builtins)+8)}
	for _, c := range constants {
		t.insert(&Symbol{Name: c.name, Kind: KindConstant, Value: units.Scalar(c.value)})
	}
	for _, fn := range builtins {
		t.insert(&Symbol{Name: fn.Name, Kind: KindFunction, Fn: fn})
	}
	return t
}

func (t *Table) insert(sym *Symbol) {
	if _, ok := t.entries[sym.Name]; !ok {
		t.order = append(t.order, sym.Name)
	}
	t.entries[sym.Name] = sym
}

// Define binds name to v, overwriting a previous value of any unit. Built-in
// function names are reserved.
func (t *Table) Define(name string, v units.Value) error {
	if sym, ok := t.entries[name]; ok && sym.Kind == KindFunction {
		return &diag.ReservedNameError{Name: name}
	}
	t.insert(&Symbol{Name: name, Kind: KindVariable, Value: v})
	return nil
}

// Lookup returns the symbol bound to name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.entries[name]
	if !ok {
		return Symbol{}, false
	}
	return *sym, true
}

// IsFunction reports whether name is a built-in function.
func (t *Table) IsFunction(name string) bool {
	sym, ok := t.entries[name]
	return ok && sym.Kind == KindFunction
}

// IsValue reports whether name is bound to a variable or constant.
func (t *Table) IsValue(name string) bool {
	sym, ok := t.entries[name]
	return ok && sym.Kind != KindFunction
}

// Function returns the built-in bound to name.
func (t *Table) Function(name string) (*Builtin, bool) {
	sym, ok := t.entries[name]
	if !ok || sym.Kind != KindFunction {
		return nil, false
	}
	return sym.Fn, true
}

// Len returns the number of entries, built-ins included.
func (t *Table) Len() int {
	return len(t.order)
}

// Symbols returns a snapshot of all entries in insertion order.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.entries[name])
	}
	return out
}

// Names returns all bound names, sorted; used for completion.
func (t *Table) Names() []string {
	out := slices.Clone(t.order)
	slices.Sort(out)
	return out
}
