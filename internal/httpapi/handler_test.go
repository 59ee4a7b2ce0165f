package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/memory"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

type apiFixture struct {
	t       *testing.T
	store   *memory.Store
	handler http.Handler
}

func newFixture(t *testing.T, opts Options) *apiFixture {
	t.Helper()
	store := memory.New()
	svc, err := matrix.New(store)
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &apiFixture{t: t, store: store, handler: NewHandler(svc, opts)}
}

func (f *apiFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(f.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorBody](t, rec).Detail
}

func TestLocationLifecycle(t *testing.T) {
	f := newFixture(t, Options{})

	rec := f.do(http.MethodPost, "/locations", map[string]any{
		"name": "Kemang", "address": "Jl. Kemang Raya", "latitude": -6.26, "longitude": 106.81,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody[types.LocationView](t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.NotNil(t, created.Criteria)
	assert.JSONEq(t, `{}`, mustMarshal(t, created.Criteria))

	rec = f.do(http.MethodPut, "/locations/1", map[string]any{"address": "Jl. Baru"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[types.LocationView](t, rec)
	assert.Equal(t, "Kemang", updated.Name)
	assert.Equal(t, "Jl. Baru", updated.Address)

	rec = f.do(http.MethodGet, "/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.LocationView](t, rec), 1)

	rec = f.do(http.MethodDelete, "/locations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Location deleted successfully", decodeBody[messageBody](t, rec).Message)

	rec = f.do(http.MethodGet, "/locations/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyListsAreArrays(t *testing.T) {
	f := newFixture(t, Options{})
	for _, path := range []string{"/locations", "/criteria", "/evaluations"} {
		rec := f.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}
}

func TestEvaluationsWireShape(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/criteria", map[string]any{
		"id": "C1", "name": "Akses", "weight": 0.4, "type": "benefit",
	}).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/locations", map[string]any{
		"name": "A", "address": "", "latitude": 0, "longitude": 0,
	}).Code)

	rec := f.do(http.MethodPut, "/evaluations", map[string]any{"location_id": 1, "criteria_id": "C1", "value": 85})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"location_id":1,"criteria_id":"C1","value":85,"message":"Evaluation updated successfully"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/evaluations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"location_id":1,"criteria_id":"C1","value":85,"location_name":"A","criteria_name":"Akses","criteria_type":"benefit"}]`, rec.Body.String())

	rec = f.do(http.MethodGet, "/locations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"C1": 85}, decodeBody[types.LocationView](t, rec).Criteria)

	rec = f.do(http.MethodGet, "/locations/1/evaluations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"C1":85}`, rec.Body.String())

	rec = f.do(http.MethodDelete, "/evaluations/1/C1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodDelete, "/evaluations/1/C1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCriterionLifecycle(t *testing.T) {
	f := newFixture(t, Options{})
	body := map[string]any{"id": "C1", "name": "Akses", "weight": 0.4, "type": "benefit"}

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/criteria", body).Code)
	rec := f.do(http.MethodPost, "/criteria", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPut, "/criteria/C1", map[string]any{"type": "cost"})
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeBody[types.Criterion](t, rec)
	assert.Equal(t, types.CriterionCost, c.Type)
	assert.Equal(t, 0.4, c.Weight)

	rec = f.do(http.MethodGet, "/criteria/C1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodDelete, "/criteria/C1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Criteria deleted successfully", decodeBody[messageBody](t, rec).Message)
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t, Options{})
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/locations", map[string]any{
		"name": "A", "address": "", "latitude": 0, "longitude": 0,
	}).Code)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantDetail string
	}{
		{
			name: "value out of range", method: http.MethodPut, path: "/evaluations",
			body:       map[string]any{"location_id": 1, "criteria_id": "C1", "value": 101},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing criterion", method: http.MethodPut, path: "/evaluations",
			body:       map[string]any{"location_id": 1, "criteria_id": "C9", "value": 10},
			wantStatus: http.StatusNotFound, wantDetail: "criterion C9 not found",
		},
		{
			name: "missing field", method: http.MethodPut, path: "/evaluations",
			body:       map[string]any{"location_id": 1, "value": 10},
			wantStatus: http.StatusBadRequest, wantDetail: "invalid criteria_id: is required",
		},
		{
			name: "empty update", method: http.MethodPut, path: "/locations/1",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest, wantDetail: "no fields to update",
		},
		{
			name: "malformed body", method: http.MethodPost, path: "/criteria",
			body:       "{not json",
			wantStatus: http.StatusBadRequest, wantDetail: "invalid body: must be a JSON object",
		},
		{
			name: "wrong type", method: http.MethodPost, path: "/criteria",
			body:       map[string]any{"id": "C1", "name": "x", "weight": "heavy", "type": "cost"},
			wantStatus: http.StatusBadRequest, wantDetail: "invalid weight: must be a float64",
		},
		{
			name: "non-numeric id", method: http.MethodGet, path: "/locations/abc",
			wantStatus: http.StatusBadRequest, wantDetail: "invalid id: must be an integer",
		},
		{
			name: "unknown location", method: http.MethodDelete, path: "/locations/99",
			wantStatus: http.StatusNotFound, wantDetail: "location 99 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, detail(t, rec))
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&types.ValidationError{Field: "x", Reason: "y"}, http.StatusBadRequest},
		{types.ErrNoOp, http.StatusBadRequest},
		{&types.NotFoundError{Entity: "location", ID: "1"}, http.StatusNotFound},
		{&types.DuplicateError{Entity: "criterion", ID: "C1"}, http.StatusConflict},
		{&types.StoreError{Op: "ping", Unavailable: true}, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{&types.StoreError{Op: "location.create", Err: errors.New("disk")}, http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), fmt.Sprint(tt.err))
	}
}

func TestHealthAlwaysOK(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected"}`, rec.Body.String())

	require.NoError(t, f.store.Close())
	rec = f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	h := decodeBody[matrix.HealthStatus](t, rec)
	assert.Equal(t, matrix.StatusUnhealthy, h.Status)
	assert.Equal(t, matrix.DatabaseDisconnected, h.Database)
	assert.NotEmpty(t, h.Error)

	rec = f.do(http.MethodGet, "/locations", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRootAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "tofico_operations_total 0\n")
	})
	f := newFixture(t, Options{Version: "1.2.3", Metrics: metrics})

	rec := f.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	root := decodeBody[rootBody](t, rec)
	assert.Equal(t, "running", root.Status)
	assert.Equal(t, "1.2.3", root.Version)

	rec = f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tofico_operations_total")

	rec = f.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	f := newFixture(t, Options{CORSOrigin: "https://app.example"})

	req := httptest.NewRequest(http.MethodOptions, "/locations", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = f.do(http.MethodGet, "/criteria", nil)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), Recover(logger))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal error"}`, rec.Body.String())
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
