package transform

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Value is a node parameter value. It is one of String, Int, Bool, List,
// *Table or *Node.
type Value interface {
	isValue()
}

// String is a literal string parameter.
type String string

// Int is a literal integer parameter.
type Int int

// Bool is a literal boolean parameter.
type Bool bool

// List is an ordered sequence of values.
type List []Value

func (String) isValue() {}
func (Int) isValue()    {}
func (Bool) isValue()   {}
func (List) isValue()   {}
func (*Table) isValue() {}
func (*Node) isValue()  {}

// Strings converts plain strings into a List of String values.
func Strings(values ...string) List {
	out := make(List, len(values))
	for i, v := range values {
		out[i] = String(v)
	}
	return out
}

// Entry is one key/value pair of a Table.
type Entry struct {
	Key   string
	Value Value
}

// Table is an insertion-ordered mapping from string keys to values. It is
// immutable once built.
type Table struct {
	entries *orderedmap.OrderedMap[string, Value]
}

// NewTable builds a table from entries, keeping their order. A repeated key
// replaces the earlier value in its original position.
func NewTable(entries ...Entry) *Table {
	m := orderedmap.New[string, Value](len(entries))
	for _, e := range entries {
		m.Set(e.Key, cloneValue(e.Value))
	}
	return &Table{entries: m}
}

// StringTable builds a table from alternating key and value strings. A
// trailing key without a value is dropped.
func StringTable(pairs ...string) *Table {
	entries := make([]Entry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, Entry{Key: pairs[i], Value: String(pairs[i+1])})
	}
	return NewTable(entries...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.entries.Len()
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.entries.Get(key)
	return cloneValue(v), ok
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries.Get(key)
	return ok
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Entry{Key: pair.Key, Value: cloneValue(pair.Value)})
	}
	return out
}

// cloneValue copies the mutable parts of v. Lists are the only values a
// caller can change in place; tables and nodes are immutable.
func cloneValue(v Value) Value {
	l, ok := v.(List)
	if !ok || l == nil {
		return v
	}
	out := make(List, len(l))
	for i, item := range l {
		out[i] = cloneValue(item)
	}
	return out
}

// Var is a named sub-expression attached to a node next to its fixed
// parameters, e.g. the variables a conditional expression or a velocity
// template refers to.
type Var struct {
	Name  string
	Value Value
}

// isAbsent reports whether v carries nothing, including typed nil pointers.
func isAbsent(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *Node:
		return x == nil
	case *Table:
		return x == nil
	}
	return false
}
