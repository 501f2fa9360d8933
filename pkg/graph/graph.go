// Package graph projects the entity collection into a renderable
// relationship graph. The projection is pure: it reads a slice of
// entities and returns nodes and edges, never touching the repository.
package graph

import (
	"sort"

	"github.com/kittclouds/atelier/pkg/catalog"
)

// Group buckets nodes for display. Projects and characters get their own
// groups; every other entity type shares one.
type Group string

const (
	GroupProjects   Group = "projects"
	GroupCharacters Group = "characters"
	GroupAssets     Group = "assets"
)

// Node is one graph vertex, one per entity.
type Node struct {
	ID    string             `json:"id"`
	Label string             `json:"label"`
	Type  catalog.EntityType `json:"type"`
	Group Group              `json:"group"`
}

// Edge is an undirected relation between two entities. Weight is constant;
// the projection carries no relation strength.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Graph is the full projection of a collection.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

const edgeWeight = 1.0

// Project builds the graph for the given entities. Each relation appears as
// exactly one edge regardless of which side recorded it: (A,B) and (B,A)
// are the same edge. References to ids outside the input, and self
// references, are skipped rather than rendered as dangling edges.
func Project(entities []catalog.Entity) Graph {
	g := Graph{
		Nodes: make([]Node, 0, len(entities)),
		Edges: []Edge{},
	}

	present := make(map[string]bool, len(entities))
	for _, e := range entities {
		present[e.ID] = true
		g.Nodes = append(g.Nodes, Node{
			ID:    e.ID,
			Label: e.Title,
			Type:  e.Type,
			Group: groupFor(e.Type),
		})
	}

	seen := make(map[[2]string]bool)
	for _, e := range entities {
		for _, rel := range e.RelatedIDs {
			if rel == e.ID || !present[rel] {
				continue
			}
			key := edgeKey(e.ID, rel)
			if seen[key] {
				continue
			}
			seen[key] = true
			g.Edges = append(g.Edges, Edge{
				Source: key[0],
				Target: key[1],
				Weight: edgeWeight,
			})
		}
	}

	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].Target < g.Edges[j].Target
	})

	return g
}

// groupFor maps an entity type to its display group.
func groupFor(t catalog.EntityType) Group {
	switch t {
	case catalog.TypeProject:
		return GroupProjects
	case catalog.TypeCharacter:
		return GroupCharacters
	default:
		return GroupAssets
	}
}

// edgeKey normalizes an undirected pair to a canonical order.
func edgeKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Neighbors returns the ids adjacent to id in the graph.
func (g Graph) Neighbors(id string) []string {
	var out []string
	for _, e := range g.Edges {
		switch id {
		case e.Source:
			out = append(out, e.Target)
		case e.Target:
			out = append(out, e.Source)
		}
	}
	return out
}
