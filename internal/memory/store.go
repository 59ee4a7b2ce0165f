// Package memory provides an in-memory implementation of types.Store used for
// tests and ephemeral environments. Writes run against a clone of the state
// which replaces the live state only when the transaction function succeeds.
package memory

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Compile-time contract assertion.
var _ types.Store = (*Store)(nil)

var errClosed = errors.New("memory store closed")

type cellKey struct {
	locationID  int64
	criterionID string
}

type memoryState struct {
	lastLocationID int64
	locations      map[int64]types.Location
	criteria       map[string]types.Criterion
	cells          map[cellKey]int
}

func newState() memoryState {
	return memoryState{
		locations: make(map[int64]types.Location),
		criteria:  make(map[string]types.Criterion),
		cells:     make(map[cellKey]int),
	}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		lastLocationID: s.lastLocationID,
		locations:      make(map[int64]types.Location, len(s.locations)),
		criteria:       make(map[string]types.Criterion, len(s.criteria)),
		cells:          make(map[cellKey]int, len(s.cells)),
	}
	for k, v := range s.locations {
		out.locations[k] = v
	}
	for k, v := range s.criteria {
		out.criteria[k] = v
	}
	for k, v := range s.cells {
		out.cells[k] = v
	}
	return out
}

// Store is an in-memory types.Store. The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{state: newState()}
}

// Update runs fn against a private copy of the state and publishes the copy
// when fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(types.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &types.StoreError{Op: "begin transaction", Unavailable: true, Err: errClosed}
	}

	work := s.state.clone()
	if err := fn(&writeTx{readTx{state: &work}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// View runs fn against the live state under a read lock.
func (s *Store) View(ctx context.Context, fn func(types.ReadTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return &types.StoreError{Op: "begin transaction", Unavailable: true, Err: errClosed}
	}
	return fn(&readTx{state: &s.state})
}

// Ping reports ErrStoreUnavailable once the store is closed.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &types.StoreError{Op: "ping", Unavailable: true, Err: errClosed}
	}
	return nil
}

// Close marks the store unavailable. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type readTx struct {
	state *memoryState
}

func (tx *readTx) GetLocation(_ context.Context, id int64) (types.Location, error) {
	loc, ok := tx.state.locations[id]
	if !ok {
		return types.Location{}, &types.NotFoundError{Entity: "location", ID: strconv.FormatInt(id, 10)}
	}
	return loc, nil
}

func (tx *readTx) ListLocations(_ context.Context) ([]types.Location, error) {
	out := make([]types.Location, 0, len(tx.state.locations))
	for _, loc := range tx.state.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *readTx) GetCriterion(_ context.Context, id string) (types.Criterion, error) {
	c, ok := tx.state.criteria[id]
	if !ok {
		return types.Criterion{}, &types.NotFoundError{Entity: "criterion", ID: id}
	}
	return c, nil
}

func (tx *readTx) ListCriteria(_ context.Context) ([]types.Criterion, error) {
	out := make([]types.Criterion, 0, len(tx.state.criteria))
	for _, c := range tx.state.criteria {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (tx *readTx) GetEvaluation(_ context.Context, locationID int64, criterionID string) (types.Evaluation, error) {
	v, ok := tx.state.cells[cellKey{locationID, criterionID}]
	if !ok {
		return types.Evaluation{}, &types.NotFoundError{
			Entity: "evaluation",
			ID:     strconv.FormatInt(locationID, 10) + "/" + criterionID,
		}
	}
	return types.Evaluation{LocationID: locationID, CriterionID: criterionID, Value: v}, nil
}

func (tx *readTx) EvaluationsForLocation(_ context.Context, locationID int64) ([]types.Evaluation, error) {
	var out []types.Evaluation
	for k, v := range tx.state.cells {
		if k.locationID == locationID {
			out = append(out, types.Evaluation{LocationID: k.locationID, CriterionID: k.criterionID, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CriterionID < out[j].CriterionID })
	return out, nil
}

func (tx *readTx) ListEvaluations(_ context.Context) ([]types.EvaluationRecord, error) {
	out := make([]types.EvaluationRecord, 0, len(tx.state.cells))
	for k, v := range tx.state.cells {
		loc, ok := tx.state.locations[k.locationID]
		if !ok {
			continue
		}
		c, ok := tx.state.criteria[k.criterionID]
		if !ok {
			continue
		}
		out = append(out, types.EvaluationRecord{
			LocationID:    k.locationID,
			CriterionID:   k.criterionID,
			Value:         v,
			LocationName:  loc.Name,
			CriterionName: c.Name,
			CriterionType: c.Type,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		if a.CriterionName != b.CriterionName {
			return a.CriterionName < b.CriterionName
		}
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		return a.CriterionID < b.CriterionID
	})
	return out, nil
}

type writeTx struct {
	readTx
}

func (tx *writeTx) InsertLocation(_ context.Context, loc types.NewLocation) (int64, error) {
	tx.state.lastLocationID++
	id := tx.state.lastLocationID
	tx.state.locations[id] = types.Location{
		ID:        id,
		Name:      loc.Name,
		Address:   loc.Address,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	return id, nil
}

func (tx *writeTx) UpdateLocation(ctx context.Context, id int64, changes types.LocationChanges) error {
	loc, err := tx.GetLocation(ctx, id)
	if err != nil {
		return err
	}
	if changes.Name != nil {
		loc.Name = *changes.Name
	}
	if changes.Address != nil {
		loc.Address = *changes.Address
	}
	if changes.Latitude != nil {
		loc.Latitude = *changes.Latitude
	}
	if changes.Longitude != nil {
		loc.Longitude = *changes.Longitude
	}
	tx.state.locations[id] = loc
	return nil
}

func (tx *writeTx) DeleteLocation(ctx context.Context, id int64) error {
	if _, err := tx.GetLocation(ctx, id); err != nil {
		return err
	}
	delete(tx.state.locations, id)
	return nil
}

func (tx *writeTx) InsertCriterion(_ context.Context, c types.Criterion) error {
	if _, ok := tx.state.criteria[c.ID]; ok {
		return &types.DuplicateError{Entity: "criterion", ID: c.ID}
	}
	tx.state.criteria[c.ID] = c
	return nil
}

func (tx *writeTx) UpdateCriterion(ctx context.Context, id string, changes types.CriterionChanges) error {
	c, err := tx.GetCriterion(ctx, id)
	if err != nil {
		return err
	}
	if changes.Name != nil {
		c.Name = *changes.Name
	}
	if changes.Weight != nil {
		c.Weight = *changes.Weight
	}
	if changes.Type != nil {
		c.Type = *changes.Type
	}
	tx.state.criteria[id] = c
	return nil
}

func (tx *writeTx) DeleteCriterion(ctx context.Context, id string) error {
	if _, err := tx.GetCriterion(ctx, id); err != nil {
		return err
	}
	delete(tx.state.criteria, id)
	return nil
}

func (tx *writeTx) UpsertEvaluation(_ context.Context, e types.Evaluation) error {
	tx.state.cells[cellKey{e.LocationID, e.CriterionID}] = e.Value
	return nil
}

func (tx *writeTx) DeleteEvaluation(ctx context.Context, locationID int64, criterionID string) error {
	if _, err := tx.GetEvaluation(ctx, locationID, criterionID); err != nil {
		return err
	}
	delete(tx.state.cells, cellKey{locationID, criterionID})
	return nil
}

func (tx *writeTx) DeleteEvaluationsForLocation(_ context.Context, locationID int64) (int64, error) {
	var n int64
	for k := range tx.state.cells {
		if k.locationID == locationID {
			delete(tx.state.cells, k)
			n++
		}
	}
	return n, nil
}

func (tx *writeTx) DeleteEvaluationsForCriterion(_ context.Context, criterionID string) (int64, error) {
	var n int64
	for k := range tx.state.cells {
		if k.criterionID == criterionID {
			delete(tx.state.cells, k)
			n++
		}
	}
	return n, nil
}
