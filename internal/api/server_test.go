package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendfit/app"
	"trendfit/internal/config"
	"trendfit/internal/insight"
	"trendfit/internal/metrics"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	m := metrics.New()
	svc, err := app.NewTrendServiceFromConfig(config.Default(), m, nil)
	require.NoError(t, err)
	cat := insight.NewCatalogue(svc, insight.DefaultOptions(), nil)
	return NewServer(svc, cat, m, nil, gin.TestMode)
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func line() map[string][]float64 {
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}
	return map[string][]float64{"x": x, "y": y}
}

func TestFit_ReturnsSampledCurve(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/utils/fit?min=0&max=9&polyparams=0,0,1,1,1", line())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"x":0,`, "integral x stays integral")

	var points []map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 10)
	for _, p := range points {
		assert.InDelta(t, 2*p["x"]+1, p["y"], 1e-6)
		assert.LessOrEqual(t, p["errorLower"], p["y"])
		assert.LessOrEqual(t, p["y"], p["errorUpper"])
	}
}

func TestFit_BadRequests(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]struct {
		target string
		body   any
	}{
		"bad mask":             {"/utils/fit?polyparams=0,0,2,1,1", line()},
		"short mask":           {"/utils/fit?mask=0,0,1", line()},
		"bad bound":            {"/utils/fit?min=low", line()},
		"missing y":            {"/utils/fit", map[string][]float64{"x": {1, 2}}},
		"bad degree":           {"/utils/bestfit?maxDegree=9", line()},
		"no candidate degrees": {"/utils/bestfit?maxDegree=1", line()},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFit_CoreFailureIsOpaque(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/utils/fit", map[string][]float64{"x": {1, 2, 3}, "y": {1, 2}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Could not compute fit curve"}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/utils/fit?min=100", line())
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "empty domain")

	overflow := map[string][]float64{"x": {0, 1, 2, 3}, "y": {1e300, -1e300, 1e300, -1e300}}
	for _, target := range []string{"/utils/fit", "/utils/bestfit"} {
		rec = do(t, s, http.MethodPost, target, overflow)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.JSONEq(t, `{"error":"Could not compute fit curve"}`, rec.Body.String(), target)
	}
}

func TestBestFit(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/utils/bestfit?min=0&max=9&maxDegree=3", line())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var points []map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 10)
	assert.NotEmpty(t, rec.Header().Get("X-Selected-Degree"))
}

func TestInsights(t *testing.T) {
	s := newTestServer(t)
	coll := map[string]any{
		"totalItems": 3,
		"items": []map[string]any{
			{"id": 1, "name": "A", "userRating": 7.0, "numPlays": 2},
			{"id": 2, "name": "B", "userRating": 8.0, "numPlays": 0},
			{"id": 3, "name": "C", "userRating": 9.0, "numPlays": 1},
		},
	}

	rec := do(t, s, http.MethodPost, "/insights/avgRating", coll)
	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, 8.0, data["avgUserRating"])

	rec = do(t, s, http.MethodPost, "/insights/all", coll)
	require.Equal(t, http.StatusOK, rec.Code)
	var all map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Contains(t, all, "avgRating")
	assert.Contains(t, all, "avgPlays")
	assert.NotContains(t, all, "ratingWeightCorr")

	rec = do(t, s, http.MethodPost, "/insights/unknownInsight", coll)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/insights/all", bytes.NewBufferString("{not json"))
	bad := httptest.NewRecorder()
	s.Handler().ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHealthMetricsAndRequestID(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/utils/fit", line())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `trendfit_fits_total{operation="fit",outcome="ok"} 1`)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader), "generated when absent")
}
