package controllers

import (
	"time"

	"github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/geo"
)

type planRouteRequest struct {
	Start     string `json:"start" validate:"required"`
	End       string `json:"end" validate:"required"`
	Algorithm string `json:"algorithm" validate:"required,oneof=dijkstra astar pso"`
}

type compareRoutesRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type coordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type routeResultResponse struct {
	Algorithm    string               `json:"algorithm"`
	Found        bool                 `json:"found"`
	Path         []int32              `json:"path,omitempty"`
	Coordinates  []coordinateResponse `json:"coordinates,omitempty"`
	TotalCost    float64              `json:"total_cost"`
	Distance     float64              `json:"distance_km"`
	ElapsedMs    float64              `json:"elapsed_ms"`
	NodesVisited int                  `json:"nodes_visited"`
	Iterations   int                  `json:"iterations,omitempty"`
	Error        string               `json:"error,omitempty"`
}

func NewRouteResultResponse(res datastructure.RouteResult) routeResultResponse {
	path := make([]int32, 0, len(res.Path))
	for _, id := range res.Path {
		path = append(path, int32(id))
	}
	coords := make([]coordinateResponse, 0, len(res.Coordinates))
	for _, c := range res.Coordinates {
		coords = append(coords, newCoordinateResponse(c))
	}
	return routeResultResponse{
		Algorithm:    string(res.Algorithm),
		Found:        res.Found,
		Path:         path,
		Coordinates:  coords,
		TotalCost:    res.TotalCost,
		Distance:     res.Distance,
		ElapsedMs:    float64(res.Elapsed) / float64(time.Millisecond),
		NodesVisited: res.NodesVisited,
		Iterations:   res.Iterations,
		Error:        res.ErrorMessage,
	}
}

type comparisonResponse struct {
	Results []routeResultResponse `json:"results"`
	Best    string                `json:"best,omitempty"`
}

func NewComparisonResponse(report datastructure.ComparisonReport) comparisonResponse {
	results := make([]routeResultResponse, 0, len(report.Results))
	for _, res := range report.Results {
		results = append(results, NewRouteResultResponse(res))
	}
	resp := comparisonResponse{Results: results}
	if best, ok := report.BestResult(); ok {
		resp.Best = string(best.Algorithm)
	}
	return resp
}

func newCoordinateResponse(c geo.Coordinate) coordinateResponse {
	return coordinateResponse{Lat: c.GetLat(), Lon: c.GetLon()}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
