package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lukman-h/routewise/pkg"
	"github.com/lukman-h/routewise/pkg/datastructure"
	"github.com/lukman-h/routewise/pkg/planner"
	"github.com/lukman-h/routewise/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePlannerService struct {
	planErr error
}

func (f *fakePlannerService) PlanRoute(ctx context.Context, startAddr, endAddr string,
	algorithm pkg.Algorithm) (datastructure.RouteResult, error) {
	if f.planErr != nil {
		return datastructure.RouteResult{}, f.planErr
	}
	return datastructure.NewRouteResult(algorithm, []datastructure.Index{0, 1}, 1.5, 2.2,
		12*time.Millisecond, 2), nil
}

func (f *fakePlannerService) CompareRoutes(ctx context.Context, startAddr, endAddr string) (datastructure.ComparisonReport, error) {
	results := []datastructure.RouteResult{
		datastructure.NewRouteResult(pkg.DIJKSTRA, []datastructure.Index{0, 1}, 2.0, 2.0, time.Millisecond, 2),
		datastructure.NewRouteResult(pkg.ASTAR, []datastructure.Index{0, 2, 1}, 1.5, 3.0, time.Millisecond, 3),
		datastructure.NewFailedRouteResult(pkg.PSO, time.Millisecond, 10, util.WrapErrorf(nil, util.ErrPathNotFound, "no path")),
	}
	return datastructure.NewComparisonReport(results), nil
}

func (f *fakePlannerService) ListAlgorithms() []planner.AlgorithmInfo {
	return []planner.AlgorithmInfo{{Id: "dijkstra", Name: "Dijkstra"}}
}

func TestPlanRouteHandler(t *testing.T) {
	api := New(&fakePlannerService{}, zap.NewNop())

	body := `{"start":"origin st","end":"dest ave","algorithm":"dijkstra"}`
	r := httptest.NewRequest(http.MethodPost, "/api/planRoute", strings.NewReader(body))
	w := httptest.NewRecorder()

	api.planRoute(w, r, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data routeResultResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "dijkstra", resp.Data.Algorithm)
	require.True(t, resp.Data.Found)
	require.InDelta(t, 1.5, resp.Data.TotalCost, 1e-12)
}

func TestPlanRouteHandlerValidation(t *testing.T) {
	api := New(&fakePlannerService{}, zap.NewNop())

	testCases := []struct {
		name string
		body string
	}{
		{"missing start", `{"end":"dest ave","algorithm":"dijkstra"}`},
		{"unknown algorithm", `{"start":"a","end":"b","algorithm":"bfs"}`},
		{"malformed json", `{`},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/planRoute", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			api.planRoute(w, r, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPlanRouteHandlerErrorMapping(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"address resolution", util.WrapErrorf(nil, util.ErrAddressResolution, "nope"), http.StatusUnprocessableEntity},
		{"route source", util.WrapErrorf(nil, util.ErrRouteSource, "down"), http.StatusBadGateway},
		{"no path", util.WrapErrorf(nil, util.ErrPathNotFound, "no path"), http.StatusNotFound},
		{"internal", util.WrapErrorf(nil, util.ErrInternalServerError, "boom"), http.StatusInternalServerError},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			api := New(&fakePlannerService{planErr: tt.err}, zap.NewNop())
			body := `{"start":"a","end":"b","algorithm":"dijkstra"}`
			r := httptest.NewRequest(http.MethodPost, "/api/planRoute", strings.NewReader(body))
			w := httptest.NewRecorder()
			api.planRoute(w, r, nil)
			require.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCompareRoutesHandler(t *testing.T) {
	api := New(&fakePlannerService{}, zap.NewNop())

	body := `{"start":"origin st","end":"dest ave"}`
	r := httptest.NewRequest(http.MethodPost, "/api/compareRoutes", strings.NewReader(body))
	w := httptest.NewRecorder()

	api.compareRoutes(w, r, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data comparisonResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Results, 3)
	require.Equal(t, "astar", resp.Data.Best)

	// failed engines show up with their message instead of a path
	psoResult := resp.Data.Results[2]
	require.False(t, psoResult.Found)
	require.NotEmpty(t, psoResult.Error)
	require.Empty(t, psoResult.Path)
}

func TestAlgorithmsHandler(t *testing.T) {
	api := New(&fakePlannerService{}, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/algorithms", nil)
	w := httptest.NewRecorder()

	api.algorithms(w, r, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []planner.AlgorithmInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "dijkstra", resp.Data[0].Id)
}
