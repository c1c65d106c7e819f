package controllers

import (
	"context"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/planner"
)

type PlannerService interface {
	PlanRoute(ctx context.Context, startAddr, endAddr string, algorithm pkg.Algorithm) (datastructure.RouteResult, error)
	CompareRoutes(ctx context.Context, startAddr, endAddr string) (datastructure.ComparisonReport, error)
	ListAlgorithms() []planner.AlgorithmInfo
}
