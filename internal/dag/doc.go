// Package dag orders the locals of a transform configuration. Each local is
// a node; an edge from a to b means b refers to a. The graph rejects cycles
// and yields a deterministic evaluation order.
package dag
