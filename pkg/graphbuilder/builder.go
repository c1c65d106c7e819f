package graphbuilder

import (
	"github.com/lukman-h/routewise/pkg"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// CandidateRoute one polyline fetched from the upstream route source for an
// origin-destination pair, plus whatever segment metadata the provider
// supplied. Congestion <= 0 means unknown.
type CandidateRoute struct {
	Coords       []geo.Coordinate
	Congestion   float64
	Construction bool
	Detour       bool
	Name         string
	DistanceM    float64
	DurationS    float64
}

// Builder merges independently fetched candidate polylines into one weighted
// graph. Raw points within epsilonKM of each other collapse into a single
// node, which is what creates real branch points between candidates.
type Builder struct {
	epsilonKM float64
	log       *zap.Logger
}

func NewBuilder(epsilonKM float64, log *zap.Logger) *Builder {
	if epsilonKM <= 0 {
		epsilonKM = pkg.DEFAULT_MERGE_EPSILON_KM
	}
	return &Builder{epsilonKM: epsilonKM, log: log}
}

// Build is deterministic: node ids follow polyline/point encounter order, so
// the same candidates and epsilon always produce the identical graph.
func (b *Builder) Build(routes []CandidateRoute) (*da.Graph, error) {
	usable := make([]CandidateRoute, 0, len(routes))
	for _, r := range routes {
		if len(r.Coords) >= 2 {
			usable = append(usable, r)
		}
	}
	if len(usable) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrGraphBuild, "no usable candidate polyline supplied")
	}

	var (
		tr        rtree.RTreeG[da.Index]
		nodes     []da.Node
		outEdges  [][]da.Edge
		edgeIndex = make(map[[2]da.Index]int)
	)

	nodeFor := func(c geo.Coordinate) da.Index {
		nearest := da.INVALID_NODE_ID
		nearestDist := b.epsilonKM
		min, max := geo.BoundingBox(c, b.epsilonKM)
		tr.Search(min, max, func(_, _ [2]float64, id da.Index) bool {
			d := geo.HaversineDistance(nodes[id].GetCoordinate(), c)
			if d < nearestDist || (d == nearestDist && nearest != da.INVALID_NODE_ID && id < nearest) {
				nearest = id
				nearestDist = d
			}
			return true
		})
		if nearest != da.INVALID_NODE_ID {
			return nearest
		}
		id := da.Index(len(nodes))
		nodes = append(nodes, da.NewNode(id, c))
		outEdges = append(outEdges, nil)
		tr.Insert([2]float64{c.Lon, c.Lat}, [2]float64{c.Lon, c.Lat}, id)
		return id
	}

	addEdge := func(from, to da.Index, congestion float64, construction bool) {
		dist := geo.HaversineDistance(nodes[from].GetCoordinate(), nodes[to].GetCoordinate())
		key := [2]da.Index{from, to}
		if i, ok := edgeIndex[key]; ok {
			// duplicate logical edge from another candidate: keep the
			// shortest-distance instance
			if dist < outEdges[from][i].GetDistance() {
				outEdges[from][i] = da.NewEdge(from, to, dist, congestion, construction)
			}
			return
		}
		edgeIndex[key] = len(outEdges[from])
		outEdges[from] = append(outEdges[from], da.NewEdge(from, to, dist, congestion, construction))
	}

	var start, end da.Index
	for ri, route := range usable {
		congestion := route.Congestion
		if congestion <= 0 {
			if route.Detour {
				congestion = pkg.DEFAULT_CONGESTION_DETOUR
			} else {
				congestion = pkg.DEFAULT_CONGESTION_DIRECT
			}
		}

		prev := da.INVALID_NODE_ID
		var first, last da.Index
		for pi, c := range route.Coords {
			cur := nodeFor(c)
			if pi == 0 {
				first = cur
			}
			last = cur
			if prev != da.INVALID_NODE_ID && prev != cur {
				addEdge(prev, cur, congestion, route.Construction)
			}
			prev = cur
		}
		if ri == 0 {
			start, end = first, last
		}
	}

	if start == end {
		return nil, util.WrapErrorf(nil, util.ErrGraphBuild, "origin and destination collapse to one node")
	}
	if !reachable(outEdges, start, end) {
		return nil, util.WrapErrorf(nil, util.ErrGraphBuild,
			"destination node %d not reachable from origin node %d", end, start)
	}

	g := da.NewGraph(nodes, outEdges, start, end)
	if b.log != nil {
		b.log.Debug("merged candidate polylines",
			zap.Int("candidates", len(usable)),
			zap.Int("nodes", g.NumberOfNodes()),
			zap.Int("edges", g.NumberOfEdges()))
	}
	return g, nil
}

// reachable iterative DFS over the directed adjacency.
func reachable(outEdges [][]da.Edge, start, end da.Index) bool {
	visited := make([]bool, len(outEdges))
	stack := []da.Index{start}
	visited[start] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if u == end {
			return true
		}
		for _, e := range outEdges[u] {
			if !visited[e.GetTo()] {
				visited[e.GetTo()] = true
				stack = append(stack, e.GetTo())
			}
		}
	}
	return false
}
