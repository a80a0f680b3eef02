package dag

import "sync"

// Graph holds locals as nodes and their references as edges. It is safe for
// concurrent use.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

type node struct {
	id string
	// deps are the locals this one refers to.
	deps map[string]*node
	// dependents are the locals that refer to this one.
	dependents map[string]*node
}
