// Package httpapi serves the evaluation matrix over JSON/HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Options configures the handler. Zero values are usable.
type Options struct {
	Logger     *slog.Logger
	CORSOrigin string
	Version    string
	// Metrics, when set, is mounted at GET /metrics.
	Metrics http.Handler
}

type handler struct {
	svc     *matrix.Service
	logger  *slog.Logger
	version string
}

// NewHandler returns the routed, middleware-wrapped API handler.
func NewHandler(svc *matrix.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	h := &handler{svc: svc, logger: logger, version: opts.Version}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /health", h.health)

	mux.HandleFunc("GET /locations", h.listLocations)
	mux.HandleFunc("POST /locations", h.createLocation)
	mux.HandleFunc("GET /locations/{id}", h.getLocation)
	mux.HandleFunc("PUT /locations/{id}", h.updateLocation)
	mux.HandleFunc("DELETE /locations/{id}", h.deleteLocation)
	mux.HandleFunc("GET /locations/{id}/evaluations", h.locationEvaluations)

	mux.HandleFunc("GET /criteria", h.listCriteria)
	mux.HandleFunc("POST /criteria", h.createCriterion)
	mux.HandleFunc("GET /criteria/{id}", h.getCriterion)
	mux.HandleFunc("PUT /criteria/{id}", h.updateCriterion)
	mux.HandleFunc("DELETE /criteria/{id}", h.deleteCriterion)

	mux.HandleFunc("GET /evaluations", h.listEvaluations)
	mux.HandleFunc("PUT /evaluations", h.putEvaluation)
	mux.HandleFunc("DELETE /evaluations/{location_id}/{criteria_id}", h.deleteEvaluation)

	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	return Chain(mux, Recover(logger), LogRequests(logger), CORS(origin))
}

// NewServer returns an http.Server for handler with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type rootBody struct {
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootBody{
		Message:   "Tofico Analyzer API",
		Status:    "running",
		Version:   h.version,
		Endpoints: []string{"/locations", "/criteria", "/evaluations", "/health"},
	})
}

// health always answers 200; the body carries the store state.
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Health(r.Context()))
}

// Locations.

// createLocationRequest optionally carries initial scores under "criteria".
// Fractional scores are rounded to the integer scale.
type createLocationRequest struct {
	Name      *string            `json:"name"`
	Address   *string            `json:"address"`
	Latitude  *float64           `json:"latitude"`
	Longitude *float64           `json:"longitude"`
	Criteria  map[string]float64 `json:"criteria"`
}

// updateLocationRequest upserts the scores under "criteria"; scores it does
// not name are kept.
type updateLocationRequest struct {
	types.LocationChanges
	Criteria map[string]float64 `json:"criteria"`
}

func (h *handler) listLocations(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Views.Locations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(views))
}

func (h *handler) getLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.svc.Views.Location(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) createLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required(
		field("name", req.Name != nil),
		field("address", req.Address != nil),
		field("latitude", req.Latitude != nil),
		field("longitude", req.Longitude != nil),
	); err != nil {
		h.writeError(w, r, err)
		return
	}
	scores, err := matrix.RoundScores(req.Criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.svc.Locations.CreateWithScores(r.Context(), types.NewLocation{
		Name:      *req.Name,
		Address:   *req.Address,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}, scores)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) updateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r, "id")
	if !ok {
		return
	}
	var req updateLocationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	scores, err := matrix.RoundScores(req.Criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.svc.Locations.UpdateWithScores(r.Context(), id, req.LocationChanges, scores)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Locations.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Location deleted successfully"})
}

func (h *handler) locationEvaluations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r, "id")
	if !ok {
		return
	}
	cells, err := h.svc.Evaluations.ForLocation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cells)
}

// Criteria.

type createCriterionRequest struct {
	ID     *string              `json:"id"`
	Name   *string              `json:"name"`
	Weight *float64             `json:"weight"`
	Type   *types.CriterionType `json:"type"`
}

func (h *handler) listCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.svc.Criteria.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(criteria))
}

func (h *handler) getCriterion(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Criteria.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) createCriterion(w http.ResponseWriter, r *http.Request) {
	var req createCriterionRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required(
		field("id", req.ID != nil),
		field("name", req.Name != nil),
		field("weight", req.Weight != nil),
		field("type", req.Type != nil),
	); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Criteria.Create(r.Context(), types.Criterion{
		ID:     *req.ID,
		Name:   *req.Name,
		Weight: *req.Weight,
		Type:   *req.Type,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) updateCriterion(w http.ResponseWriter, r *http.Request) {
	var changes types.CriterionChanges
	if err := decode(r, &changes); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Criteria.Update(r.Context(), r.PathValue("id"), changes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) deleteCriterion(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Criteria.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Criteria deleted successfully"})
}

// Evaluations.

type putEvaluationRequest struct {
	LocationID  *int64  `json:"location_id"`
	CriterionID *string `json:"criteria_id"`
	Value       *int    `json:"value"`
}

type putEvaluationResponse struct {
	types.Evaluation
	Message string `json:"message"`
}

func (h *handler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Views.Evaluations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

func (h *handler) putEvaluation(w http.ResponseWriter, r *http.Request) {
	var req putEvaluationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required(
		field("location_id", req.LocationID != nil),
		field("criteria_id", req.CriterionID != nil),
		field("value", req.Value != nil),
	); err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.svc.Evaluations.Upsert(r.Context(), *req.LocationID, *req.CriterionID, *req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, putEvaluationResponse{Evaluation: e, Message: "Evaluation updated successfully"})
}

func (h *handler) deleteEvaluation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.locationID(w, r, "location_id")
	if !ok {
		return
	}
	if err := h.svc.Evaluations.Remove(r.Context(), id, r.PathValue("criteria_id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Evaluation deleted successfully"})
}

// locationID parses a location id path segment, writing a 400 on failure.
func (h *handler) locationID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		h.writeError(w, r, &types.ValidationError{Field: name, Reason: "must be an integer"})
		return 0, false
	}
	return id, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
