package types

import "context"

// Store is the storage collaborator behind the matrix. Every operation runs
// inside exactly one transaction: Update for writes, View for reads. The
// transaction is committed when fn returns nil and rolled back otherwise,
// including on panic.
//
// Backends translate engine errors: missing rows become ErrNotFound, unique
// key conflicts become ErrDuplicateIdentity, and everything else becomes a
// *StoreError.
type Store interface {
	Update(ctx context.Context, fn func(Tx) error) error
	View(ctx context.Context, fn func(ReadTx) error) error

	// Ping performs a cheap round-trip to the engine.
	Ping(ctx context.Context) error
	Close() error
}

// ReadTx is the read half of a transaction.
type ReadTx interface {
	GetLocation(ctx context.Context, id int64) (Location, error)
	// ListLocations returns every location ordered by ID.
	ListLocations(ctx context.Context) ([]Location, error)

	GetCriterion(ctx context.Context, id string) (Criterion, error)
	// ListCriteria returns every criterion ordered by name, then ID.
	ListCriteria(ctx context.Context) ([]Criterion, error)

	GetEvaluation(ctx context.Context, locationID int64, criterionID string) (Evaluation, error)
	// EvaluationsForLocation returns the cells of one location ordered by
	// criterion ID. It does not check that the location exists.
	EvaluationsForLocation(ctx context.Context, locationID int64) ([]Evaluation, error)
	// ListEvaluations returns every cell joined with both parents, ordered by
	// location name then criterion name. Cells whose parents are missing are
	// not returned.
	ListEvaluations(ctx context.Context) ([]EvaluationRecord, error)
}

// Tx is a read-write transaction.
type Tx interface {
	ReadTx

	// InsertLocation stores loc and returns the assigned ID.
	InsertLocation(ctx context.Context, loc NewLocation) (int64, error)
	UpdateLocation(ctx context.Context, id int64, changes LocationChanges) error
	DeleteLocation(ctx context.Context, id int64) error

	InsertCriterion(ctx context.Context, c Criterion) error
	UpdateCriterion(ctx context.Context, id string, changes CriterionChanges) error
	DeleteCriterion(ctx context.Context, id string) error

	// UpsertEvaluation inserts the cell or replaces its value.
	UpsertEvaluation(ctx context.Context, e Evaluation) error
	DeleteEvaluation(ctx context.Context, locationID int64, criterionID string) error
	DeleteEvaluationsForLocation(ctx context.Context, locationID int64) (int64, error)
	DeleteEvaluationsForCriterion(ctx context.Context, criterionID string) (int64, error)
}
