package pkg

// Algorithm identifies one of the supported path search strategies.
type Algorithm string

const (
	DIJKSTRA Algorithm = "dijkstra"
	ASTAR    Algorithm = "astar"
	PSO      Algorithm = "pso"
)

func (a Algorithm) Valid() bool {
	switch a {
	case DIJKSTRA, ASTAR, PSO:
		return true
	}
	return false
}

// DisplayName human readable algorithm name for the algorithms listing endpoint.
func (a Algorithm) DisplayName() string {
	switch a {
	case DIJKSTRA:
		return "Dijkstra"
	case ASTAR:
		return "A* Search"
	case PSO:
		return "Particle Swarm Optimization"
	}
	return string(a)
}

func Algorithms() []Algorithm {
	return []Algorithm{DIJKSTRA, ASTAR, PSO}
}

const (
	INF_WEIGHT float64 = 1e15

	// merge radius for collapsing raw polyline points into one graph node
	DEFAULT_MERGE_EPSILON_KM = 0.005

	CONSTRUCTION_PENALTY = 5.0

	DEFAULT_DISTANCE_WEIGHT     = 0.5
	DEFAULT_CONGESTION_WEIGHT   = 0.3
	DEFAULT_CONSTRUCTION_WEIGHT = 0.2

	// congestion factor 1.0 = free flow. detour candidates are fetched
	// through quieter streets, hence the lower default.
	DEFAULT_CONGESTION_DIRECT = 1.30
	DEFAULT_CONGESTION_DETOUR = 1.15

	DEFAULT_WAYPOINT_COUNT = 3
)

const (
	DEFAULT_PSO_PARTICLES     = 50
	DEFAULT_PSO_ITERATIONS    = 100
	DEFAULT_PSO_INERTIA       = 0.7
	DEFAULT_PSO_COGNITIVE     = 1.5
	DEFAULT_PSO_SOCIAL        = 1.5
	DEFAULT_PSO_PATIENCE      = 10
	DEFAULT_PSO_PATH_ATTEMPTS = 5
)

const (
	DEBUG = false
)
