package routing

import (
	"context"

	"github.com/lukman-h/routewise/pkg"
	da "github.com/lukman-h/routewise/pkg/datastructure"
)

// SearchEngine one path search strategy over an immutable graph snapshot.
// Engines are cheap request-scoped objects: construct one per search, do not
// share across goroutines. The graph itself is never mutated.
type SearchEngine interface {
	Name() pkg.Algorithm
	Search(ctx context.Context, g *da.Graph) (da.RouteResult, error)
}
