package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

const (
	selectLocation = `SELECT id, name, address, latitude, longitude FROM locations WHERE id = ?`
	listLocations  = `SELECT id, name, address, latitude, longitude FROM locations ORDER BY id`
	insertLocation = `INSERT INTO locations (name, address, latitude, longitude) VALUES (?, ?, ?, ?) RETURNING id`
	updateLocation = `UPDATE locations SET
		name = COALESCE(?, name),
		address = COALESCE(?, address),
		latitude = COALESCE(?, latitude),
		longitude = COALESCE(?, longitude)
	WHERE id = ?`
	deleteLocation = `DELETE FROM locations WHERE id = ?`

	selectCriterion = `SELECT id, name, weight, type FROM criteria WHERE id = ?`
	listCriteria    = `SELECT id, name, weight, type FROM criteria ORDER BY name, id`
	insertCriterion = `INSERT INTO criteria (id, name, weight, type) VALUES (?, ?, ?, ?)`
	updateCriterion = `UPDATE criteria SET
		name = COALESCE(?, name),
		weight = COALESCE(?, weight),
		type = COALESCE(?, type)
	WHERE id = ?`
	deleteCriterion = `DELETE FROM criteria WHERE id = ?`

	selectEvaluation       = `SELECT value FROM evaluations WHERE location_id = ? AND criterion_id = ?`
	listLocationEvaluation = `SELECT criterion_id, value FROM evaluations WHERE location_id = ? ORDER BY criterion_id`
	listEvaluations        = `SELECT e.location_id, e.criterion_id, e.value, l.name, c.name, c.type
	FROM evaluations e
	JOIN locations l ON l.id = e.location_id
	JOIN criteria c ON c.id = e.criterion_id
	ORDER BY l.name, c.name, e.location_id, e.criterion_id`
	upsertEvaluation = `INSERT INTO evaluations (location_id, criterion_id, value) VALUES (?, ?, ?)
	ON CONFLICT (location_id, criterion_id) DO UPDATE SET value = excluded.value`
	deleteEvaluation           = `DELETE FROM evaluations WHERE location_id = ? AND criterion_id = ?`
	deleteLocationEvaluations  = `DELETE FROM evaluations WHERE location_id = ?`
	deleteCriterionEvaluations = `DELETE FROM evaluations WHERE criterion_id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

type readTx struct {
	s  *Store
	tx *sql.Tx
}

func (r *readTx) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.tx.QueryRowContext(ctx, r.s.rebind(query), args...)
}

func (r *readTx) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.tx.QueryContext(ctx, r.s.rebind(query), args...)
}

func (r *readTx) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.tx.ExecContext(ctx, r.s.rebind(query), args...)
}

// hydrateLocation converts a locations row. Coordinates go through
// types.Numeric so decimal columns and NULLs read as float64.
func hydrateLocation(row rowScanner) (types.Location, error) {
	var (
		loc      types.Location
		lat, lon types.Numeric
	)
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &lat, &lon); err != nil {
		return types.Location{}, err
	}
	loc.Latitude = lat.Float64()
	loc.Longitude = lon.Float64()
	return loc, nil
}

func hydrateCriterion(row rowScanner) (types.Criterion, error) {
	var (
		c      types.Criterion
		weight types.Numeric
		typ    string
	)
	if err := row.Scan(&c.ID, &c.Name, &weight, &typ); err != nil {
		return types.Criterion{}, err
	}
	c.Weight = weight.Float64()
	c.Type = types.CriterionType(typ)
	return c, nil
}

func (r *readTx) GetLocation(ctx context.Context, id int64) (types.Location, error) {
	loc, err := hydrateLocation(r.queryRow(ctx, selectLocation, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Location{}, &types.NotFoundError{Entity: "location", ID: locationKey(id)}
		}
		return types.Location{}, r.s.classify("get location", err)
	}
	return loc, nil
}

func (r *readTx) ListLocations(ctx context.Context) ([]types.Location, error) {
	rows, err := r.query(ctx, listLocations)
	if err != nil {
		return nil, r.s.classify("list locations", err)
	}
	defer rows.Close()

	out := []types.Location{}
	for rows.Next() {
		loc, err := hydrateLocation(rows)
		if err != nil {
			return nil, r.s.classify("scan location", err)
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.s.classify("list locations", err)
	}
	return out, nil
}

func (r *readTx) GetCriterion(ctx context.Context, id string) (types.Criterion, error) {
	c, err := hydrateCriterion(r.queryRow(ctx, selectCriterion, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Criterion{}, &types.NotFoundError{Entity: "criterion", ID: id}
		}
		return types.Criterion{}, r.s.classify("get criterion", err)
	}
	return c, nil
}

func (r *readTx) ListCriteria(ctx context.Context) ([]types.Criterion, error) {
	rows, err := r.query(ctx, listCriteria)
	if err != nil {
		return nil, r.s.classify("list criteria", err)
	}
	defer rows.Close()

	out := []types.Criterion{}
	for rows.Next() {
		c, err := hydrateCriterion(rows)
		if err != nil {
			return nil, r.s.classify("scan criterion", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.s.classify("list criteria", err)
	}
	return out, nil
}

func (r *readTx) GetEvaluation(ctx context.Context, locationID int64, criterionID string) (types.Evaluation, error) {
	e := types.Evaluation{LocationID: locationID, CriterionID: criterionID}
	if err := r.queryRow(ctx, selectEvaluation, locationID, criterionID).Scan(&e.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Evaluation{}, &types.NotFoundError{Entity: "evaluation", ID: cellKey(locationID, criterionID)}
		}
		return types.Evaluation{}, r.s.classify("get evaluation", err)
	}
	return e, nil
}

func (r *readTx) EvaluationsForLocation(ctx context.Context, locationID int64) ([]types.Evaluation, error) {
	rows, err := r.query(ctx, listLocationEvaluation, locationID)
	if err != nil {
		return nil, r.s.classify("list location evaluations", err)
	}
	defer rows.Close()

	var out []types.Evaluation
	for rows.Next() {
		e := types.Evaluation{LocationID: locationID}
		if err := rows.Scan(&e.CriterionID, &e.Value); err != nil {
			return nil, r.s.classify("scan evaluation", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, r.s.classify("list location evaluations", err)
	}
	return out, nil
}

func (r *readTx) ListEvaluations(ctx context.Context) ([]types.EvaluationRecord, error) {
	rows, err := r.query(ctx, listEvaluations)
	if err != nil {
		return nil, r.s.classify("list evaluations", err)
	}
	defer rows.Close()

	out := []types.EvaluationRecord{}
	for rows.Next() {
		var (
			rec types.EvaluationRecord
			typ string
		)
		if err := rows.Scan(&rec.LocationID, &rec.CriterionID, &rec.Value,
			&rec.LocationName, &rec.CriterionName, &typ); err != nil {
			return nil, r.s.classify("scan evaluation", err)
		}
		rec.CriterionType = types.CriterionType(typ)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.s.classify("list evaluations", err)
	}
	return out, nil
}

type writeTx struct {
	readTx
}

func (w *writeTx) InsertLocation(ctx context.Context, loc types.NewLocation) (int64, error) {
	var id int64
	err := w.queryRow(ctx, insertLocation, loc.Name, loc.Address, loc.Latitude, loc.Longitude).Scan(&id)
	if err != nil {
		return 0, w.s.classify("insert location", err)
	}
	return id, nil
}

func (w *writeTx) UpdateLocation(ctx context.Context, id int64, changes types.LocationChanges) error {
	res, err := w.exec(ctx, updateLocation,
		nullString(changes.Name),
		nullString(changes.Address),
		nullFloat(changes.Latitude),
		nullFloat(changes.Longitude),
		id,
	)
	if err != nil {
		return w.s.classify("update location", err)
	}
	return w.expectOne(res, "update location", &types.NotFoundError{Entity: "location", ID: locationKey(id)})
}

func (w *writeTx) DeleteLocation(ctx context.Context, id int64) error {
	res, err := w.exec(ctx, deleteLocation, id)
	if err != nil {
		return w.s.classify("delete location", err)
	}
	return w.expectOne(res, "delete location", &types.NotFoundError{Entity: "location", ID: locationKey(id)})
}

func (w *writeTx) InsertCriterion(ctx context.Context, c types.Criterion) error {
	if _, err := w.exec(ctx, insertCriterion, c.ID, c.Name, c.Weight, string(c.Type)); err != nil {
		if w.s.isUnique(err) {
			return &types.DuplicateError{Entity: "criterion", ID: c.ID}
		}
		return w.s.classify("insert criterion", err)
	}
	return nil
}

func (w *writeTx) UpdateCriterion(ctx context.Context, id string, changes types.CriterionChanges) error {
	var typ sql.NullString
	if changes.Type != nil {
		typ = sql.NullString{String: string(*changes.Type), Valid: true}
	}
	res, err := w.exec(ctx, updateCriterion,
		nullString(changes.Name),
		nullFloat(changes.Weight),
		typ,
		id,
	)
	if err != nil {
		return w.s.classify("update criterion", err)
	}
	return w.expectOne(res, "update criterion", &types.NotFoundError{Entity: "criterion", ID: id})
}

func (w *writeTx) DeleteCriterion(ctx context.Context, id string) error {
	res, err := w.exec(ctx, deleteCriterion, id)
	if err != nil {
		return w.s.classify("delete criterion", err)
	}
	return w.expectOne(res, "delete criterion", &types.NotFoundError{Entity: "criterion", ID: id})
}

func (w *writeTx) UpsertEvaluation(ctx context.Context, e types.Evaluation) error {
	if _, err := w.exec(ctx, upsertEvaluation, e.LocationID, e.CriterionID, e.Value); err != nil {
		return w.s.classify("upsert evaluation", err)
	}
	return nil
}

func (w *writeTx) DeleteEvaluation(ctx context.Context, locationID int64, criterionID string) error {
	res, err := w.exec(ctx, deleteEvaluation, locationID, criterionID)
	if err != nil {
		return w.s.classify("delete evaluation", err)
	}
	return w.expectOne(res, "delete evaluation",
		&types.NotFoundError{Entity: "evaluation", ID: cellKey(locationID, criterionID)})
}

func (w *writeTx) DeleteEvaluationsForLocation(ctx context.Context, locationID int64) (int64, error) {
	return w.deleteMany(ctx, "delete location evaluations", deleteLocationEvaluations, locationID)
}

func (w *writeTx) DeleteEvaluationsForCriterion(ctx context.Context, criterionID string) (int64, error) {
	return w.deleteMany(ctx, "delete criterion evaluations", deleteCriterionEvaluations, criterionID)
}

func (w *writeTx) deleteMany(ctx context.Context, op, query string, arg any) (int64, error) {
	res, err := w.exec(ctx, query, arg)
	if err != nil {
		return 0, w.s.classify(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, w.s.classify(op, err)
	}
	return n, nil
}

// expectOne returns notFound when the statement touched no row.
func (w *writeTx) expectOne(res sql.Result, op string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return w.s.classify(op, err)
	}
	if n == 0 {
		return notFound
	}
	if n > 1 {
		return w.s.classify(op, fmt.Errorf("%d rows affected", n))
	}
	return nil
}
