package document

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/specialistvlad/isctransform/transform"
)

// Object is an ordered mapping. Values are string, int, bool, []any or
// *Object.
type Object struct {
	members *orderedmap.OrderedMap[string, any]
}

func newObject(capacity int) *Object {
	return &Object{members: orderedmap.New[string, any](capacity)}
}

// set adds key at the end, or replaces its value in place.
func (o *Object) set(key string, v any) *Object {
	o.members.Set(key, v)
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	return o.members.Get(key)
}

// Keys returns the member names in order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.members.Len())
	for pair := o.members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of members.
func (o *Object) Len() int { return o.members.Len() }

// MarshalYAML implements yaml.Marshaler.
func (o *Object) MarshalYAML() (any, error) {
	return o.members.MarshalYAML()
}

// renderNode lays a node out as {"attributes", "type"} or {"type",
// "attributes"} depending on its kind, followed by the node-level refresh
// flag when set. Every call produces a fresh tree, so a node reused in
// several places is written out in full each time.
func renderNode(n *transform.Node) *Object {
	out := layoutNode(n)
	if n.RequiresPeriodicRefresh() {
		out.set(RefreshAttribute, true)
	}
	return out
}

func layoutNode(n *transform.Node) *Object {
	attrs := renderParams(n.Params())
	kind := n.Kind()
	if attrs.Len() == 0 && kind.OmitsEmptyAttributes() {
		return newObject(2).set("type", kind.String())
	}
	if kind.TypeFirst() {
		return newObject(3).set("type", kind.String()).set("attributes", attrs)
	}
	return newObject(3).set("attributes", attrs).set("type", kind.String())
}

func renderParams(params []transform.Param) *Object {
	out := newObject(len(params))
	for _, p := range params {
		out.set(p.Name, renderValue(p.Value))
	}
	return out
}

func renderValue(v transform.Value) any {
	switch x := v.(type) {
	case transform.String:
		return string(x)
	case transform.Int:
		return int(x)
	case transform.Bool:
		return bool(x)
	case transform.List:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = renderValue(item)
		}
		return out
	case *transform.Table:
		entries := x.Entries()
		out := newObject(len(entries))
		for _, e := range entries {
			out.set(e.Key, renderValue(e.Value))
		}
		return out
	case *transform.Node:
		return renderNode(x)
	default:
		return nil
	}
}
