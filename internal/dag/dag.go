// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph operations for topological sorting and
// cycle detection. The install planner uses it to explain why no install
// order exists: it rebuilds the prerequisite graph of the packages that could
// not be placed and reports the cycle among them.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle is a closed path through the graph: the first node is repeated
		// at the end (e.g. [a b a]).
		Cycle []string
		// Blocked lists every node that could not be ordered, in insertion
		// order. It includes the cycle members and anything downstream of them.
		Blocked []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. Edges represent "must be installed before"
	// relationships: an edge from A to B means A must be in place before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors (nodes that depend on it).
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// HasNode reports whether name was added to the graph.
func (g *Graph) HasNode(name string) bool {
	return g.nodeSet[name]
}

// AddEdge adds a directed edge from -> to, meaning "from" must be installed before "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns a valid order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var blocked []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				blocked = append(blocked, node)
			}
		}
		return nil, &CycleError{Cycle: g.FindCycle(), Blocked: blocked}
	}

	return result, nil
}

// FindCycle returns one closed path through the graph, or nil if the graph
// is acyclic. The search starts from nodes in insertion order, so the result
// is deterministic.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		state[node] = onStack
		stack = append(stack, node)
		for _, next := range g.adjacency[node] {
			switch state[next] {
			case onStack:
				start := 0
				for i, n := range stack {
					if n == next {
						start = i
						break
					}
				}
				cycle := append([]string{}, stack[start:]...)
				return append(cycle, next)
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	for _, node := range g.nodes {
		if state[node] == unvisited {
			if cycle := visit(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
