// Package revdeps inverts a source's forward-dependency set into a
// reverse-dependency map: for every source, which other sources depend on
// it. The scheduler uses this to find who needs recompiling when a
// source's API changes.
//
// Grounded on the teacher pack's edge-set graph builder
// (edward-ap-class-collector/internal/graph.BuildFrom's addNode/addEdge
// pattern), narrowed from a multi-language import graph to a single
// forward-to-reverse inversion. Not persisted: it is cheap to rebuild from
// the state store's per-source artifact DepsOut lists every run.
package revdeps

import "sort"

// Map is source -> set of sources that depend on it, each value sorted.
type Map map[string][]string

// Build inverts forward, a map from source -> the sources it depends on.
func Build(forward map[string][]string) Map {
	edges := make(map[string]map[string]struct{})
	nodes := make(map[string]struct{})

	for from, deps := range forward {
		addNode(nodes, from)
		for _, to := range deps {
			addNode(nodes, to)
			addEdge(edges, to, from) // invert: "to" is depended on by "from"
		}
	}

	out := make(Map, len(nodes))
	for n := range nodes {
		out[n] = nil
	}
	for to, froms := range edges {
		list := make([]string, 0, len(froms))
		for f := range froms {
			list = append(list, f)
		}
		sort.Strings(list)
		out[to] = list
	}
	return out
}

func addNode(set map[string]struct{}, n string) {
	if n == "" {
		return
	}
	set[n] = struct{}{}
}

func addEdge(edges map[string]map[string]struct{}, from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	if edges[from] == nil {
		edges[from] = make(map[string]struct{})
	}
	edges[from][to] = struct{}{}
}
