package routing

import (
	"context"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/concurrent"
	da "github.com/lukman-h/routewise/pkg/datastructure"
	"go.uber.org/zap"
)

// Comparator runs a set of engines against the same graph snapshot and ranks
// the outcomes. Engine failures are reported inside the result table, they
// never fail the comparison itself.
type Comparator struct {
	log *zap.Logger
}

func NewComparator(log *zap.Logger) *Comparator {
	return &Comparator{log: log}
}

// Compare runs every engine concurrently with a worker pool bounded to the
// engine count. The graph is read-only for the duration of the comparison.
func (c *Comparator) Compare(ctx context.Context, g *da.Graph, engines []SearchEngine) da.ComparisonReport {
	pool := concurrent.NewWorkerPool[SearchEngine, da.RouteResult](len(engines), len(engines))

	pool.Start(func(engine SearchEngine) da.RouteResult {
		res, err := engine.Search(ctx, g)
		if err != nil && c.log != nil {
			c.log.Debug("engine failed during comparison",
				zap.String("algorithm", string(engine.Name())), zap.Error(err))
		}
		return res
	})

	for _, engine := range engines {
		pool.Submit(engine)
	}
	pool.Close()
	pool.Wait()

	order := make(map[pkg.Algorithm]int, len(engines))
	for i, engine := range engines {
		order[engine.Name()] = i
	}

	// restore submission order: workers finish in arbitrary order
	results := make([]da.RouteResult, len(engines))
	for res := range pool.CollectResults() {
		results[order[res.Algorithm]] = res
	}

	return da.NewComparisonReport(results)
}
