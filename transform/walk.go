package transform

// Walk calls fn for every node reachable from b, parents before children and
// parameters in order. Nodes nested in lists and tables are visited too. A
// node that appears at several positions is visited once per position.
// Returning false from fn skips the node's children.
func Walk(b Buildable, fn func(*Node) bool) {
	switch x := b.(type) {
	case *Node:
		walkValue(x, fn)
	case *UsernameGenerator:
		walkValue(x.Transform(), fn)
	}
}

func walkValue(v Value, fn func(*Node) bool) {
	switch x := v.(type) {
	case *Node:
		if x == nil || !fn(x) {
			return
		}
		for _, p := range x.params {
			walkValue(p.Value, fn)
		}
	case List:
		for _, item := range x {
			walkValue(item, fn)
		}
	case *Table:
		for _, e := range x.Entries() {
			walkValue(e.Value, fn)
		}
	}
}

// CountKinds returns how many nodes of each kind b contains.
func CountKinds(b Buildable) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(b, func(n *Node) bool {
		counts[n.kind]++
		return true
	})
	return counts
}
