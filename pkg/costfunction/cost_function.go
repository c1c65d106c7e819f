package costfunction

import (
	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/datastructure"
)

// EdgeAttributes physical attributes a cost function may consult.
type EdgeAttributes interface {
	GetDistance() float64
	GetCongestion() float64
	HasConstruction() bool
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
}

// Weights objective mix for scoring an edge. All weights must be >= 0.
// A distance-only mix (Congestion == Construction == 0) reproduces a pure
// shortest-path objective.
type Weights struct {
	Distance     float64 `json:"distance"`
	Congestion   float64 `json:"congestion"`
	Construction float64 `json:"construction"`
}

func DefaultWeights() Weights {
	return Weights{
		Distance:     pkg.DEFAULT_DISTANCE_WEIGHT,
		Congestion:   pkg.DEFAULT_CONGESTION_WEIGHT,
		Construction: pkg.DEFAULT_CONSTRUCTION_WEIGHT,
	}
}

func DistanceOnlyWeights() Weights {
	return Weights{Distance: 1.0}
}

// WeightedCostFunction scores an edge as
//
//	wd*distance + wc*(congestion-1.0)*distance + wk*penalty
//
// where penalty applies only to construction segments. The result is clamped
// at zero: search engines require non-negative edge weights.
type WeightedCostFunction struct {
	weights Weights
	penalty float64
}

func NewWeightedCostFunction(weights Weights) *WeightedCostFunction {
	return &WeightedCostFunction{
		weights: weights,
		penalty: pkg.CONSTRUCTION_PENALTY,
	}
}

func NewDistanceOnlyCostFunction() *WeightedCostFunction {
	return NewWeightedCostFunction(DistanceOnlyWeights())
}

func (cf *WeightedCostFunction) GetWeights() Weights {
	return cf.weights
}

func (cf *WeightedCostFunction) GetWeight(e EdgeAttributes) float64 {
	d := e.GetDistance()
	w := cf.weights.Distance*d + cf.weights.Congestion*(e.GetCongestion()-1.0)*d
	if e.HasConstruction() {
		w += cf.weights.Construction * cf.penalty
	}
	if w < 0 {
		return 0
	}
	return w
}

// PathCost total weighted cost of a node path over g. The second return is
// false when the path uses an edge not present in the graph.
func PathCost(cf CostFunction, g *datastructure.Graph, path []datastructure.Index) (float64, bool) {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		e, ok := g.GetEdge(path[i], path[i+1])
		if !ok {
			return 0, false
		}
		total += cf.GetWeight(e)
	}
	return total, true
}
