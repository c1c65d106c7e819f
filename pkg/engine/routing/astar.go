package routing

import (
	"context"
	"time"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/costfunction"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/geo"
	"github.com/lukman-h/routewise/pkg/util"
)

// Astar best-first search under the full weighted objective. The heuristic is
// the great-circle distance to the destination scaled by the distance weight,
// a lower bound on the remaining cost as long as congestion factors stay >= 1
// (the congestion term then only adds cost). With arbitrary configured
// weights the heuristic is best-effort rather than formally admissible.
type Astar struct {
	costFn  *costfunction.WeightedCostFunction
	weights costfunction.Weights

	pq        *da.MinHeap[da.Index]
	heapNodes []*da.PriorityQueueNode[da.Index]
	gScore    []float64
	parent    []da.Index
	settled   []bool

	numSettledNodes int
}

func NewAstar(weights costfunction.Weights) *Astar {
	return &Astar{
		costFn:  costfunction.NewWeightedCostFunction(weights),
		weights: weights,
		pq:      da.NewFourAryHeap[da.Index](),
	}
}

func (us *Astar) Name() pkg.Algorithm {
	return pkg.ASTAR
}

func (us *Astar) Search(ctx context.Context, g *da.Graph) (da.RouteResult, error) {
	started := time.Now()
	us.preallocate(g)

	s := g.Start()
	t := g.End()
	target := g.GetNode(t).GetCoordinate()

	us.gScore[s] = 0
	sNode := da.NewPriorityQueueNode(us.heuristic(g, s, target), int32(s), s)
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
			res := da.NewRouteResult(us.Name(), path, us.gScore[t], g.PathDistance(path),
				time.Since(started), us.numSettledNodes)
			res.Coordinates = g.PathCoordinates(path)
			return res, nil
		}

		g.ForOutEdgesOf(u, func(e *da.Edge) {
			v := e.GetTo()
			if us.settled[v] {
				return
			}

			newG := us.gScore[u] + us.costFn.GetWeight(e)
			if newG >= us.gScore[v] {
				return
			}

			us.gScore[v] = newG
			us.parent[v] = u
			rank := newG + us.heuristic(g, v, target)
			if us.heapNodes[v] != nil {
				us.pq.DecreaseKey(us.heapNodes[v], rank)
			} else {
				vNode := da.NewPriorityQueueNode(rank, int32(v), v)
				us.heapNodes[v] = vNode
				us.pq.Insert(vNode)
			}
		})
	}

	err := util.WrapErrorf(nil, util.ErrPathNotFound,
		"astar: no path from node %d to node %d", s, t)
	return da.NewFailedRouteResult(us.Name(), time.Since(started), us.numSettledNodes, err), err
}

// heuristic lower bound on remaining weighted cost: haversine distance to the
// target in the same units as the distance term of the objective.
func (us *Astar) heuristic(g *da.Graph, v da.Index, target geo.Coordinate) float64 {
	return us.weights.Distance * geo.HaversineDistance(g.GetNode(v).GetCoordinate(), target)
}

func (us *Astar) preallocate(g *da.Graph) {
	n := g.NumberOfNodes()
	us.gScore = make([]float64, n)
	us.parent = make([]da.Index, n)
	us.settled = make([]bool, n)
	us.heapNodes = make([]*da.PriorityQueueNode[da.Index], n)
	for i := range us.gScore {
		us.gScore[i] = pkg.INF_WEIGHT
		us.parent[i] = da.INVALID_NODE_ID
	}
	us.pq.Preallocate(n)
	us.numSettledNodes = 0
}
