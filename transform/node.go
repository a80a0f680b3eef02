package transform

import "slices"

// Shape tags the two forms a Buildable can take.
type Shape int

const (
	// ShapeNode is a plain transform node.
	ShapeNode Shape = iota
	// ShapeEnvelope is the username generator envelope.
	ShapeEnvelope
)

func (s Shape) String() string {
	switch s {
	case ShapeNode:
		return "node"
	case ShapeEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// Buildable is anything that can be assembled into a document: a *Node or a
// *UsernameGenerator.
type Buildable interface {
	Shape() Shape
	buildable()
}

// Param is one named parameter of a node.
type Param struct {
	Name  string
	Value Value
}

// Node is one operation of a transform expression tree. Its parameters keep
// the order in which the constructor set them.
type Node struct {
	kind   Kind
	params []Param
	// refresh is the node-level requiresPeriodicRefresh flag, written next
	// to the node's type rather than inside its attributes.
	refresh bool
}

// Kind returns the node's type tag.
func (n *Node) Kind() Kind { return n.kind }

// RequiresPeriodicRefresh reports whether the node itself carries the
// requiresPeriodicRefresh flag.
func (n *Node) RequiresPeriodicRefresh() bool { return n.refresh }

// Params returns a copy of the node's parameters in order. List values are
// copied too.
func (n *Node) Params() []Param {
	out := make([]Param, len(n.params))
	for i, p := range n.params {
		out[i] = Param{Name: p.Name, Value: cloneValue(p.Value)}
	}
	return out
}

// Param returns the value of the named parameter.
func (n *Node) Param(name string) (Value, bool) {
	for _, p := range n.params {
		if p.Name == name {
			return cloneValue(p.Value), true
		}
	}
	return nil, false
}

// With returns a copy of the node with the named parameter set. An existing
// parameter keeps its position; a new one is appended. n is left untouched.
func (n *Node) With(name string, v Value) *Node {
	params := n.Params()
	for i := range params {
		if params[i].Name == name {
			params[i].Value = cloneValue(v)
			return &Node{kind: n.kind, params: params, refresh: n.refresh}
		}
	}
	return &Node{kind: n.kind, params: append(params, Param{Name: name, Value: cloneValue(v)}), refresh: n.refresh}
}

// Shape implements Buildable.
func (n *Node) Shape() Shape { return ShapeNode }

func (*Node) buildable() {}

// builder accumulates parameters for one constructor call.
type builder struct {
	kind    Kind
	params  []Param
	refresh bool
}

func newBuilder(kind Kind) *builder { return &builder{kind: kind} }

// set stores a copy of v so the caller's slices never alias the node.
func (b *builder) set(name string, v Value) *builder {
	b.params = append(b.params, Param{Name: name, Value: cloneValue(v)})
	return b
}

// setOptional sets the parameter only when v is present.
func (b *builder) setOptional(name string, v Value) *builder {
	if isAbsent(v) {
		return b
	}
	return b.set(name, v)
}

func (b *builder) has(name string) bool {
	for _, p := range b.params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// vars appends named sub-expressions. Names must be non-empty, unique and
// must not shadow a parameter already set or listed in reserved.
func (b *builder) vars(param string, vars []Var, reserved ...string) error {
	for _, v := range vars {
		if v.Name == "" {
			return invalid(b.kind, param, "variable name must not be empty")
		}
		if b.has(v.Name) || slices.Contains(reserved, v.Name) {
			return invalid(b.kind, param, "variable %q collides with a parameter of the same name", v.Name)
		}
		if isAbsent(v.Value) {
			return missing(b.kind, v.Name)
		}
		b.set(v.Name, v.Value)
	}
	return nil
}

func (b *builder) node() *Node {
	return &Node{kind: b.kind, params: b.params, refresh: b.refresh}
}

func optionalBool(p *bool) Value {
	if p == nil {
		return nil
	}
	return Bool(*p)
}

func optionalInt(p *int) Value {
	if p == nil {
		return nil
	}
	return Int(*p)
}

func optionalString(s string) Value {
	if s == "" {
		return nil
	}
	return String(s)
}
