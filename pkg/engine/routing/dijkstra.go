package routing

import (
	"context"
	"time"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/costfunction"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/util"
)

const cancellationCheckInterval = 256

// Dijkstra single-source shortest path under a distance-only objective.
// Optimal for non-negative edge weights. Equal-cost queue entries are popped
// lowest node id first, so repeated runs settle nodes in the same order.
type Dijkstra struct {
	costFn costfunction.CostFunction

	pq        *da.MinHeap[da.Index]
	heapNodes []*da.PriorityQueueNode[da.Index]
	dist      []float64
	parent    []da.Index
	settled   []bool

	numSettledNodes int
}

func NewDijkstra() *Dijkstra {
	return &Dijkstra{
		costFn: costfunction.NewDistanceOnlyCostFunction(),
		pq:     da.NewFourAryHeap[da.Index](),
	}
}

func (us *Dijkstra) Name() pkg.Algorithm {
	return pkg.DIJKSTRA
}

func (us *Dijkstra) Search(ctx context.Context, g *da.Graph) (da.RouteResult, error) {
	started := time.Now()
	us.preallocate(g)

	s := g.Start()
	t := g.End()

	us.dist[s] = 0
	sNode := da.NewPriorityQueueNode(0, int32(s), s)
	us.heapNodes[s] = sNode
	us.pq.Insert(sNode)

	for !us.pq.IsEmpty() {
		if us.numSettledNodes%cancellationCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return da.NewFailedRouteResult(us.Name(), time.Since(started), us.numSettledNodes, err), err
			}
		}

		uNode, _ := us.pq.ExtractMin()
		u := uNode.GetItem()
		if us.settled[u] {
			continue
		}
		us.settled[u] = true
		us.numSettledNodes++

		if u == t {
			path := unpackPath(us.parent, s, t)
			res := da.NewRouteResult(us.Name(), path, us.dist[t], g.PathDistance(path),
				time.Since(started), us.numSettledNodes)
			res.Coordinates = g.PathCoordinates(path)
			return res, nil
		}

		us.relaxOutEdges(g, u)
	}

	err := util.WrapErrorf(nil, util.ErrPathNotFound,
		"dijkstra: no path from node %d to node %d", s, t)
	return da.NewFailedRouteResult(us.Name(), time.Since(started), us.numSettledNodes, err), err
}

func (us *Dijkstra) relaxOutEdges(g *da.Graph, u da.Index) {
	g.ForOutEdgesOf(u, func(e *da.Edge) {
		v := e.GetTo()
		if us.settled[v] {
			return
		}

		newDist := us.dist[u] + us.costFn.GetWeight(e)
		if newDist >= us.dist[v] {
			return
		}

		us.dist[v] = newDist
		us.parent[v] = u
		if us.heapNodes[v] != nil {
			us.pq.DecreaseKey(us.heapNodes[v], newDist)
		} else {
			vNode := da.NewPriorityQueueNode(newDist, int32(v), v)
			us.heapNodes[v] = vNode
			us.pq.Insert(vNode)
		}
	})
}

func (us *Dijkstra) preallocate(g *da.Graph) {
	n := g.NumberOfNodes()
	us.dist = make([]float64, n)
	us.parent = make([]da.Index, n)
	us.settled = make([]bool, n)
	us.heapNodes = make([]*da.PriorityQueueNode[da.Index], n)
	for i := range us.dist {
		us.dist[i] = pkg.INF_WEIGHT
		us.parent[i] = da.INVALID_NODE_ID
	}
	us.pq.Preallocate(n)
	us.numSettledNodes = 0
}

// unpackPath walks parent pointers from t back to s.
func unpackPath(parent []da.Index, s, t da.Index) []da.Index {
	path := []da.Index{t}
	for cur := t; cur != s; {
		cur = parent[cur]
		path = append(path, cur)
	}
	return util.ReverseG(path)
}
