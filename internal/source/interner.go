package source

import "strings"

// StringID identifies an interned identifier. NoStringID is "".
type StringID uint32

const NoStringID StringID = 0

// Interner maps identifier names to small IDs so AST nodes stay fixed-size.
// Names are few per expression, so the table never shrinks.
type Interner struct {
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{names: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

// Intern returns the ID of name, adding it on first sight.
func (in *Interner) Intern(name string) StringID {
	id, ok := in.ids[name]
	if !ok {
		// токен ссылается на буфер исходника, храним копию
		name = strings.Clone(name)
		id = StringID(len(in.names))
		in.names = append(in.names, name)
		in.ids[name] = id
	}
	return id
}

// Lookup returns the name for id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.names) {
		return "", false
	}
	return in.names[id], true
}

// MustLookup is Lookup for IDs produced by this interner.
func (in *Interner) MustLookup(id StringID) string {
	name, ok := in.Lookup(id)
	if !ok {
		panic("source: unknown string ID")
	}
	return name
}

// Len includes the reserved empty name.
func (in *Interner) Len() int { return len(in.names) }
