package routing

import (
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/geo"
)

// diamondGraph two ways from node 0 to node 2: a short congested corridor
// through node 1 and a longer free-flowing detour through node 3. All points
// sit on the equator so haversine distances are easy to reason about.
//
//	0 --(cong 3.0)--> 1 --(cong 3.0)--> 2
//	0 --(cong 1.0)--> 3 --(cong 1.0)--> 2
func diamondGraph() *da.Graph {
	coords := []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.01),
		geo.NewCoordinate(0, 0.02),
		geo.NewCoordinate(0.01, 0.01),
	}
	nodes := make([]da.Node, 0, len(coords))
	for i, c := range coords {
		nodes = append(nodes, da.NewNode(da.Index(i), c))
	}

	dist := func(a, b int) float64 {
		return geo.HaversineDistance(coords[a], coords[b])
	}

	outEdges := [][]da.Edge{
		{
			da.NewEdge(0, 1, dist(0, 1), 3.0, false),
			da.NewEdge(0, 3, dist(0, 3), 1.0, false),
		},
		{da.NewEdge(1, 2, dist(1, 2), 3.0, false)},
		nil,
		{da.NewEdge(3, 2, dist(3, 2), 1.0, false)},
	}
	return da.NewGraph(nodes, outEdges, 0, 2)
}

// chainGraph a single path 0 -> 1 -> 2.
func chainGraph() *da.Graph {
	coords := []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.01),
		geo.NewCoordinate(0, 0.02),
	}
	nodes := make([]da.Node, 0, len(coords))
	for i, c := range coords {
		nodes = append(nodes, da.NewNode(da.Index(i), c))
	}
	outEdges := [][]da.Edge{
		{da.NewEdge(0, 1, geo.HaversineDistance(coords[0], coords[1]), 1.0, false)},
		{da.NewEdge(1, 2, geo.HaversineDistance(coords[1], coords[2]), 1.0, false)},
		nil,
	}
	return da.NewGraph(nodes, outEdges, 0, 2)
}

// splitGraph the destination has no incoming edges.
func splitGraph() *da.Graph {
	coords := []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.01),
		geo.NewCoordinate(0, 0.02),
	}
	nodes := make([]da.Node, 0, len(coords))
	for i, c := range coords {
		nodes = append(nodes, da.NewNode(da.Index(i), c))
	}
	outEdges := [][]da.Edge{
		{da.NewEdge(0, 1, geo.HaversineDistance(coords[0], coords[1]), 1.0, false)},
		nil,
		nil,
	}
	return da.NewGraph(nodes, outEdges, 0, 2)
}
