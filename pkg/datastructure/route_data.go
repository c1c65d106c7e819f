package datastructure

import (
	"time"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/geo"
)

// RouteResult outcome of one engine run against one graph snapshot.
type RouteResult struct {
	Algorithm    pkg.Algorithm    `json:"algorithm"`
	Path         []Index          `json:"path"`
	Coordinates  []geo.Coordinate `json:"coordinates,omitempty"`
	TotalCost    float64          `json:"total_cost"`
	Distance     float64          `json:"distance"` // km
	Elapsed      time.Duration    `json:"elapsed"`
	NodesVisited int              `json:"nodes_visited"`
	Iterations   int              `json:"iterations,omitempty"`
	Found        bool             `json:"found"`
	ErrorMessage string           `json:"error,omitempty"`
}

func NewRouteResult(algorithm pkg.Algorithm, path []Index, totalCost, distance float64,
	elapsed time.Duration, nodesVisited int) RouteResult {
	return RouteResult{
		Algorithm:    algorithm,
		Path:         path,
		TotalCost:    totalCost,
		Distance:     distance,
		Elapsed:      elapsed,
		NodesVisited: nodesVisited,
		Found:        true,
	}
}

func NewFailedRouteResult(algorithm pkg.Algorithm, elapsed time.Duration, nodesVisited int, err error) RouteResult {
	res := RouteResult{
		Algorithm:    algorithm,
		Elapsed:      elapsed,
		NodesVisited: nodesVisited,
		Found:        false,
	}
	if err != nil {
		res.ErrorMessage = err.Error()
	}
	return res
}

// ComparisonReport per-algorithm results for one graph snapshot plus the
// chosen best. Best is empty when no engine succeeded.
type ComparisonReport struct {
	Results []RouteResult `json:"results"`
	Best    pkg.Algorithm `json:"best,omitempty"`
}

// NewComparisonReport ranks results by total cost among successful runs,
// breaking ties on lower execution time.
func NewComparisonReport(results []RouteResult) ComparisonReport {
	report := ComparisonReport{Results: results}
	bestIdx := -1
	for i, r := range results {
		if !r.Found {
			continue
		}
		if bestIdx == -1 {
			bestIdx = i
			continue
		}
		best := results[bestIdx]
		if r.TotalCost < best.TotalCost ||
			(r.TotalCost == best.TotalCost && r.Elapsed < best.Elapsed) {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		report.Best = results[bestIdx].Algorithm
	}
	return report
}

// BestResult returns the winning result, if any engine succeeded.
func (cr ComparisonReport) BestResult() (RouteResult, bool) {
	for _, r := range cr.Results {
		if r.Found && r.Algorithm == cr.Best {
			return r, true
		}
	}
	return RouteResult{}, false
}
