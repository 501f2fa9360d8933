package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/atelier/pkg/catalog"
)

func TestProjectNodesAndGroups(t *testing.T) {
	entities := []catalog.Entity{
		{ID: "p", Type: catalog.TypeProject, Title: "Project"},
		{ID: "c", Type: catalog.TypeCharacter, Title: "Character"},
		{ID: "i", Type: catalog.TypeImage, Title: "Image"},
		{ID: "t", Type: catalog.TypeTool, Title: "Tool"},
	}

	g := Project(entities)
	require.Len(t, g.Nodes, 4)

	groups := map[string]Group{}
	for _, n := range g.Nodes {
		groups[n.ID] = n.Group
	}
	assert.Equal(t, GroupProjects, groups["p"])
	assert.Equal(t, GroupCharacters, groups["c"])
	assert.Equal(t, GroupAssets, groups["i"])
	assert.Equal(t, GroupAssets, groups["t"])

	assert.Equal(t, "Project", g.Nodes[0].Label)
}

func TestProjectDeduplicatesEdges(t *testing.T) {
	// Relation recorded on both sides, as the repository keeps it.
	entities := []catalog.Entity{
		{ID: "a", Type: catalog.TypeProject, Title: "A", RelatedIDs: []string{"b"}},
		{ID: "b", Type: catalog.TypePrompt, Title: "B", RelatedIDs: []string{"a"}},
	}

	g := Project(entities)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a", g.Edges[0].Source)
	assert.Equal(t, "b", g.Edges[0].Target)
	assert.Equal(t, 1.0, g.Edges[0].Weight)
}

func TestProjectSkipsDanglingAndSelfReferences(t *testing.T) {
	entities := []catalog.Entity{
		{ID: "a", Type: catalog.TypeImage, Title: "A", RelatedIDs: []string{"gone", "a", "b"}},
		{ID: "b", Type: catalog.TypeImage, Title: "B"},
	}

	g := Project(entities)
	assert.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, Edge{Source: "a", Target: "b", Weight: 1.0}, g.Edges[0])
}

func TestProjectEmptyCollection(t *testing.T) {
	g := Project(nil)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	// Slices are non-nil so the projection serializes as [] not null.
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
}

func TestProjectHalfRecordedRelation(t *testing.T) {
	// A relation recorded on one side only still yields one edge.
	entities := []catalog.Entity{
		{ID: "x", Type: catalog.TypeVideo, Title: "X", RelatedIDs: []string{"y"}},
		{ID: "y", Type: catalog.TypeVideo, Title: "Y"},
	}

	g := Project(entities)
	require.Len(t, g.Edges, 1)
}

func TestProjectSeedAfterProjectDeleted(t *testing.T) {
	// Remove the seed project but leave the (now stale) references on the
	// survivors, as an external snapshot edit could. The projection must not
	// render edges into the gap.
	var entities []catalog.Entity
	for _, e := range catalog.SeedEntities() {
		if e.ID == "seed-proj-neon" {
			continue
		}
		entities = append(entities, *e)
	}

	g := Project(entities)
	assert.Len(t, g.Nodes, 3)
	assert.Empty(t, g.Edges)
}

func TestNeighbors(t *testing.T) {
	entities := []catalog.Entity{
		{ID: "hub", Type: catalog.TypeProject, Title: "Hub", RelatedIDs: []string{"s1", "s2"}},
		{ID: "s1", Type: catalog.TypePrompt, Title: "S1", RelatedIDs: []string{"hub"}},
		{ID: "s2", Type: catalog.TypePrompt, Title: "S2", RelatedIDs: []string{"hub"}},
	}

	g := Project(entities)
	assert.ElementsMatch(t, []string{"s1", "s2"}, g.Neighbors("hub"))
	assert.Equal(t, []string{"hub"}, g.Neighbors("s1"))
	assert.Empty(t, g.Neighbors("nope"))
}
