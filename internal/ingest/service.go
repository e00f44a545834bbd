package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Store is the persistence surface the ingest pipeline needs.
type Store interface {
	// ExistingReferences returns the set of transaction references already
	// persisted, fetched once per import batch.
	ExistingReferences(ctx context.Context) (map[string]struct{}, error)
	// InsertBatch inserts records atomically and returns how many rows the
	// database actually kept. Rows dropped by the unique reference index
	// (another import won the race) are not counted.
	InsertBatch(ctx context.Context, records []Record) (int64, error)
}

// Result is the outcome of one statement import.
type Result struct {
	RowsImported        int
	DuplicatesSkipped   int
	DuplicateReferences []string
	Warnings            []string
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Import runs the full pipeline for one uploaded statement: normalize,
// partition against the stored reference set, batch insert. A storage error
// fails the whole upload with zero rows imported.
func (s *Service) Import(ctx context.Context, r io.Reader) (Result, error) {
	records, warnings, err := Normalize(r)
	if err != nil {
		return Result{}, err
	}

	existing, err := s.store.ExistingReferences(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading stored references: %w", err)
	}

	toInsert, duplicates := Partition(records, existing)

	var inserted int64
	if len(toInsert) > 0 {
		inserted, err = s.store.InsertBatch(ctx, toInsert)
		if err != nil {
			return Result{}, fmt.Errorf("storing transactions: %w", err)
		}
	}

	res := Result{
		RowsImported: int(inserted),
		// Conflicts the unique index swallowed are duplicates from a
		// concurrent or in-file repeat.
		DuplicatesSkipped: len(duplicates) + (len(toInsert) - int(inserted)),
		Warnings:          warnings,
	}
	for _, d := range duplicates {
		res.DuplicateReferences = append(res.DuplicateReferences, d.TransactionReference)
	}

	s.log.Info().
		Int("rows", len(records)).
		Int("imported", res.RowsImported).
		Int("duplicates", res.DuplicatesSkipped).
		Int("warnings", len(warnings)).
		Msg("statement imported")
	return res, nil
}
