package routing

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/costfunction"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/util"
)

const (
	biasClamp     = 10.0
	velocityClamp = 4.0
)

type PSOConfig struct {
	Particles    int
	Iterations   int
	Inertia      float64
	Cognitive    float64
	Social       float64
	Patience     int
	PathAttempts int
	MaxHops      int           // 0: defaults to 2 * number of nodes
	MaxDuration  time.Duration // 0: bounded by iterations only
	GreedyShare  float64
	Seed         int64
}

func DefaultPSOConfig(seed int64) PSOConfig {
	return PSOConfig{
		Particles:    pkg.DEFAULT_PSO_PARTICLES,
		Iterations:   pkg.DEFAULT_PSO_ITERATIONS,
		Inertia:      pkg.DEFAULT_PSO_INERTIA,
		Cognitive:    pkg.DEFAULT_PSO_COGNITIVE,
		Social:       pkg.DEFAULT_PSO_SOCIAL,
		Patience:     pkg.DEFAULT_PSO_PATIENCE,
		PathAttempts: pkg.DEFAULT_PSO_PATH_ATTEMPTS,
		GreedyShare:  0.3,
		Seed:         seed,
	}
}

// particle encodes a bias scalar per out-edge at every node. Biases are
// turned into edge selection probabilities during path construction, so a
// particle's position describes a whole family of start-to-end walks.
type particle struct {
	position [][]float64
	velocity [][]float64

	bestPosition [][]float64
	bestFitness  float64
	bestPath     []da.Index

	path    []da.Index
	fitness float64
}

// PSO particle swarm optimizer over the merged route graph. The merged graph
// offers recombined sub-paths that single-objective shortest path search
// never scores; the swarm explores those combinations under the full
// three-factor objective. Results are a pure function of (graph, weights,
// config, seed): all randomness comes from the seeded source.
type PSO struct {
	costFn *costfunction.WeightedCostFunction
	cfg    PSOConfig
	rng    *rand.Rand

	convergence []float64
}

func NewPSO(weights costfunction.Weights, cfg PSOConfig) *PSO {
	return &PSO{
		costFn: costfunction.NewWeightedCostFunction(weights),
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (us *PSO) Name() pkg.Algorithm {
	return pkg.PSO
}

// ConvergenceHistory global best fitness after each executed iteration.
// Non-increasing by construction.
func (us *PSO) ConvergenceHistory() []float64 {
	return us.convergence
}

func (us *PSO) Search(ctx context.Context, g *da.Graph) (da.RouteResult, error) {
	started := time.Now()
	us.convergence = us.convergence[:0]

	maxHops := us.cfg.MaxHops
	if maxHops <= 0 {
		maxHops = 2 * g.NumberOfNodes()
	}

	swarm := us.initializeSwarm(g)

	var (
		globalBestPath     []da.Index
		globalBestPosition [][]float64
		globalBestFitness  = math.Inf(1)
		sinceImprovement   = 0
		nodesVisited       = 0
		iterationsRun      = 0
	)

	for iter := 0; iter < us.cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return da.NewFailedRouteResult(us.Name(), time.Since(started), nodesVisited, err), err
		}
		if us.cfg.MaxDuration > 0 && time.Since(started) > us.cfg.MaxDuration {
			break
		}
		iterationsRun++

		improved := false
		for i := range swarm {
			p := &swarm[i]
			p.path = us.constructPath(g, p.position, maxHops)
			nodesVisited += len(p.path)

			p.fitness = math.Inf(1)
			if p.path != nil {
				if cost, ok := costfunction.PathCost(us.costFn, g, p.path); ok {
					p.fitness = cost
				}
			}

			if p.fitness < p.bestFitness {
				p.bestFitness = p.fitness
				p.bestPath = append(p.bestPath[:0], p.path...)
				copyPosition(p.bestPosition, p.position)
			}
			if p.fitness < globalBestFitness {
				globalBestFitness = p.fitness
				globalBestPath = append(globalBestPath[:0], p.path...)
				if globalBestPosition == nil {
					globalBestPosition = newPosition(g)
				}
				copyPosition(globalBestPosition, p.position)
				improved = true
			}
		}

		us.convergence = append(us.convergence, globalBestFitness)

		if improved {
			sinceImprovement = 0
		} else {
			sinceImprovement++
			if sinceImprovement >= us.cfg.Patience {
				break
			}
		}

		us.updateSwarm(swarm, globalBestPosition)
	}

	if globalBestPath == nil {
		err := util.WrapErrorf(nil, util.ErrPathNotFound,
			"pso: no particle produced a feasible path after %d iterations", iterationsRun)
		return da.NewFailedRouteResult(us.Name(), time.Since(started), nodesVisited, err), err
	}

	res := da.NewRouteResult(us.Name(), globalBestPath, globalBestFitness,
		g.PathDistance(globalBestPath), time.Since(started), nodesVisited)
	res.Iterations = iterationsRun
	res.Coordinates = g.PathCoordinates(globalBestPath)
	return res, nil
}

func newPosition(g *da.Graph) [][]float64 {
	pos := make([][]float64, g.NumberOfNodes())
	for u := range pos {
		pos[u] = make([]float64, g.OutDegree(da.Index(u)))
	}
	return pos
}

func copyPosition(dst, src [][]float64) {
	for u := range src {
		copy(dst[u], src[u])
	}
}

// initializeSwarm seeds a share of particles toward locally cheapest edges
// and the rest uniformly, for population diversity.
func (us *PSO) initializeSwarm(g *da.Graph) []particle {
	greedyCount := int(float64(us.cfg.Particles) * us.cfg.GreedyShare)
	swarm := make([]particle, us.cfg.Particles)
	for i := range swarm {
		p := &swarm[i]
		p.position = newPosition(g)
		p.velocity = newPosition(g)
		p.bestPosition = newPosition(g)
		p.bestFitness = math.Inf(1)

		greedy := i < greedyCount
		for u := range p.position {
			edges := g.GetOutEdges(da.Index(u))
			if len(edges) == 0 {
				continue
			}
			cheapest := 0
			for j := 1; j < len(edges); j++ {
				if us.costFn.GetWeight(edges[j]) < us.costFn.GetWeight(edges[cheapest]) {
					cheapest = j
				}
			}
			for j := range p.position[u] {
				p.position[u][j] = us.rng.Float64()
				if greedy && j == cheapest {
					p.position[u][j] += 2.0
				}
			}
		}
	}
	return swarm
}

// constructPath samples a start-to-end walk from the particle's biases.
// Revisits are forbidden, which rejects cycles; a failed walk is retried up
// to PathAttempts times before the particle is scored infeasible.
func (us *PSO) constructPath(g *da.Graph, position [][]float64, maxHops int) []da.Index {
	for attempt := 0; attempt < us.cfg.PathAttempts; attempt++ {
		path := us.walk(g, position, maxHops)
		if path != nil {
			return path
		}
	}
	return nil
}

func (us *PSO) walk(g *da.Graph, position [][]float64, maxHops int) []da.Index {
	visited := make([]bool, g.NumberOfNodes())
	path := []da.Index{g.Start()}
	visited[g.Start()] = true
	u := g.Start()

	for hop := 0; hop < maxHops; hop++ {
		if u == g.End() {
			return path
		}

		edges := g.GetOutEdges(u)
		next := us.sampleEdge(position[u], edges, visited)
		if next == da.INVALID_NODE_ID {
			return nil
		}
		visited[next] = true
		path = append(path, next)
		u = next
	}
	if u == g.End() {
		return path
	}
	return nil
}

// sampleEdge softmax selection over the biases of unvisited out-edges.
func (us *PSO) sampleEdge(biases []float64, edges []da.Edge, visited []bool) da.Index {
	maxBias := math.Inf(-1)
	for j, e := range edges {
		if !visited[e.GetTo()] && biases[j] > maxBias {
			maxBias = biases[j]
		}
	}
	if math.IsInf(maxBias, -1) {
		return da.INVALID_NODE_ID
	}

	total := 0.0
	for j, e := range edges {
		if !visited[e.GetTo()] {
			total += math.Exp(biases[j] - maxBias)
		}
	}

	r := us.rng.Float64() * total
	acc := 0.0
	last := da.INVALID_NODE_ID
	for j, e := range edges {
		if visited[e.GetTo()] {
			continue
		}
		last = e.GetTo()
		acc += math.Exp(biases[j] - maxBias)
		if r < acc {
			return e.GetTo()
		}
	}
	return last
}

// updateSwarm standard velocity/position update, then re-normalization of the
// biases so selection probabilities stay well conditioned.
func (us *PSO) updateSwarm(swarm []particle, globalBestPosition [][]float64) {
	for i := range swarm {
		p := &swarm[i]
		for u := range p.position {
			for j := range p.position[u] {
				cognitive := us.cfg.Cognitive * us.rng.Float64() * (p.bestPosition[u][j] - p.position[u][j])
				social := 0.0
				if globalBestPosition != nil {
					social = us.cfg.Social * us.rng.Float64() * (globalBestPosition[u][j] - p.position[u][j])
				}
				v := us.cfg.Inertia*p.velocity[u][j] + cognitive + social
				p.velocity[u][j] = clamp(v, -velocityClamp, velocityClamp)
				p.position[u][j] += p.velocity[u][j]
			}
			normalizeBiases(p.position[u])
		}
	}
}

// normalizeBiases recenters a bias vector on its maximum and clamps it.
// Softmax selection is shift invariant, so recentering changes nothing about
// the encoded probabilities while keeping the exponentials bounded.
func normalizeBiases(biases []float64) {
	if len(biases) == 0 {
		return
	}
	max := biases[0]
	for _, b := range biases[1:] {
		if b > max {
			max = b
		}
	}
	for j := range biases {
		biases[j] = clamp(biases[j]-max, -biasClamp, biasClamp)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
