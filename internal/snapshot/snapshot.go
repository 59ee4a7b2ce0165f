// Package snapshot moves the evaluation matrix in and out of a directory of
// JSONL files.
//
// The layout is the flat one: criteria.jsonl holds one criterion per line and
// locations.jsonl holds one location per line with its scores embedded under
// "criteria". Files written by older deployments may carry fractional
// scores; Import rounds them to the nearest integer before validation.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// File names inside a snapshot directory.
const (
	CriteriaFile  = "criteria.jsonl"
	LocationsFile = "locations.jsonl"
)

// locationRecord is one line of locations.jsonl.
type locationRecord struct {
	ID        int64              `json:"id,omitempty"`
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Criteria  map[string]float64 `json:"criteria"`
}

// ExportReport counts what Export wrote.
type ExportReport struct {
	Criteria  int `json:"criteria"`
	Locations int `json:"locations"`
}

// ImportReport counts what Import did. Rejected holds one message per record
// or score the core refused.
type ImportReport struct {
	CriteriaCreated  int      `json:"criteria_created"`
	CriteriaSkipped  int      `json:"criteria_skipped"`
	LocationsCreated int      `json:"locations_created"`
	ValuesImported   int      `json:"values_imported"`
	MalformedLines   int      `json:"malformed_lines"`
	Rejected         []string `json:"rejected,omitempty"`
}

// Export writes the current matrix to dir, creating it if needed. Criteria
// and locations come from one read transaction, and each file is replaced
// atomically.
func Export(ctx context.Context, svc *matrix.Service, dir string) (ExportReport, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportReport{}, fmt.Errorf("creating %s: %w", dir, err)
	}

	contents, err := svc.Views.Contents(ctx)
	if err != nil {
		return ExportReport{}, fmt.Errorf("reading matrix: %w", err)
	}
	criteria, views := contents.Criteria, contents.Locations

	records := make([]locationRecord, 0, len(views))
	for _, v := range views {
		scores := make(map[string]float64, len(v.Criteria))
		for id, value := range v.Criteria {
			scores[id] = float64(value)
		}
		records = append(records, locationRecord{
			ID:        v.ID,
			Name:      v.Name,
			Address:   v.Address,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
			Criteria:  scores,
		})
	}

	if err := writeJSONL(filepath.Join(dir, CriteriaFile), criteria); err != nil {
		return ExportReport{}, fmt.Errorf("writing %s: %w", CriteriaFile, err)
	}
	if err := writeJSONL(filepath.Join(dir, LocationsFile), records); err != nil {
		return ExportReport{}, fmt.Errorf("writing %s: %w", LocationsFile, err)
	}
	return ExportReport{Criteria: len(criteria), Locations: len(records)}, nil
}

// Import loads dir into the matrix. Criteria are created first so the
// embedded scores can reference them; an existing criterion id is skipped,
// not overwritten. Every location is created with a fresh id. Rejected
// records are reported and do not stop the import; a store error does.
func Import(ctx context.Context, svc *matrix.Service, dir string) (ImportReport, error) {
	var report ImportReport

	criteria, malformed, err := readJSONL(filepath.Join(dir, CriteriaFile))
	if err != nil {
		return report, err
	}
	report.MalformedLines += malformed

	for i, raw := range criteria {
		var c types.Criterion
		if err := json.Unmarshal(raw, &c); err != nil {
			report.MalformedLines++
			continue
		}
		_, err := svc.Criteria.Create(ctx, c)
		switch {
		case err == nil:
			report.CriteriaCreated++
		case errors.Is(err, types.ErrDuplicateIdentity):
			report.CriteriaSkipped++
		case types.IsCallerError(err):
			report.reject(CriteriaFile, i, err)
		default:
			return report, fmt.Errorf("importing criterion %q: %w", c.ID, err)
		}
	}

	locations, malformed, err := readJSONL(filepath.Join(dir, LocationsFile))
	if err != nil {
		return report, err
	}
	report.MalformedLines += malformed

	for i, raw := range locations {
		var rec locationRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			report.MalformedLines++
			continue
		}
		loc, err := svc.Locations.Create(ctx, types.NewLocation{
			Name:      rec.Name,
			Address:   rec.Address,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		})
		if err != nil {
			if types.IsCallerError(err) {
				report.reject(LocationsFile, i, err)
				continue
			}
			return report, fmt.Errorf("importing location %q: %w", rec.Name, err)
		}
		report.LocationsCreated++

		ids := make([]string, 0, len(rec.Criteria))
		for id := range rec.Criteria {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			value, err := matrix.RoundScore(rec.Criteria[id])
			if err == nil {
				_, err = svc.Evaluations.Upsert(ctx, loc.ID, id, value)
			}
			switch {
			case err == nil:
				report.ValuesImported++
			case types.IsCallerError(err):
				report.reject(LocationsFile, i, fmt.Errorf("criterion %s: %w", id, err))
			default:
				return report, fmt.Errorf("importing score %s for location %d: %w", id, loc.ID, err)
			}
		}
	}
	return report, nil
}

func (r *ImportReport) reject(file string, index int, err error) {
	r.Rejected = append(r.Rejected, fmt.Sprintf("%s record %d: %v", file, index+1, err))
}
