package datastructure

import (
	"github.com/lukman-h/routewise/pkg/geo"
)

type Index int32

const INVALID_NODE_ID Index = -1

type Node struct {
	id    Index
	coord geo.Coordinate
}

func NewNode(id Index, coord geo.Coordinate) Node {
	return Node{id: id, coord: coord}
}

func (n Node) GetId() Index {
	return n.id
}

func (n Node) GetCoordinate() geo.Coordinate {
	return n.coord
}

// Edge directed weighted arc between two merged nodes. Congestion factor 1.0
// means free flow; construction marks an active roadwork segment.
type Edge struct {
	from         Index
	to           Index
	distance     float64 // km
	congestion   float64
	construction bool
}

func NewEdge(from, to Index, distance, congestion float64, construction bool) Edge {
	return Edge{
		from:         from,
		to:           to,
		distance:     distance,
		congestion:   congestion,
		construction: construction,
	}
}

func (e Edge) GetFrom() Index {
	return e.from
}

func (e Edge) GetTo() Index {
	return e.to
}

func (e Edge) GetDistance() float64 {
	return e.distance
}

func (e Edge) GetCongestion() float64 {
	return e.congestion
}

func (e Edge) HasConstruction() bool {
	return e.construction
}

// Graph request-scoped merged route graph. Immutable once built: every search
// engine in a comparison reads the same snapshot concurrently.
type Graph struct {
	nodes    []Node
	outEdges [][]Edge
	numEdges int
	start    Index
	end      Index
}

func NewGraph(nodes []Node, outEdges [][]Edge, start, end Index) *Graph {
	numEdges := 0
	for _, es := range outEdges {
		numEdges += len(es)
	}
	return &Graph{
		nodes:    nodes,
		outEdges: outEdges,
		numEdges: numEdges,
		start:    start,
		end:      end,
	}
}

func (g *Graph) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumberOfEdges() int {
	return g.numEdges
}

func (g *Graph) GetNode(id Index) Node {
	return g.nodes[id]
}

func (g *Graph) GetNodes() []Node {
	return g.nodes
}

func (g *Graph) Start() Index {
	return g.start
}

func (g *Graph) End() Index {
	return g.end
}

func (g *Graph) OutDegree(u Index) int {
	return len(g.outEdges[u])
}

// GetOutEdges out-edges of u in insertion order. Callers must not mutate the
// returned slice.
func (g *Graph) GetOutEdges(u Index) []Edge {
	return g.outEdges[u]
}

func (g *Graph) ForOutEdgesOf(u Index, fn func(e *Edge)) {
	for i := range g.outEdges[u] {
		fn(&g.outEdges[u][i])
	}
}

// GetEdge looks up the directed edge u -> v.
func (g *Graph) GetEdge(u, v Index) (Edge, bool) {
	for _, e := range g.outEdges[u] {
		if e.to == v {
			return e, true
		}
	}
	return Edge{}, false
}

// PathDistance total raw distance of a node path, in km. The path must only
// use edges present in the graph.
func (g *Graph) PathDistance(path []Index) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		if e, ok := g.GetEdge(path[i], path[i+1]); ok {
			total += e.GetDistance()
		}
	}
	return total
}

// PathCoordinates resolves a node path into coordinates.
func (g *Graph) PathCoordinates(path []Index) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(path))
	for _, id := range path {
		coords = append(coords, g.nodes[id].GetCoordinate())
	}
	return coords
}
