package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mimics the bank_transactions table including its unique
// reference index: a record whose non-empty reference is already stored is
// silently dropped, as INSERT IGNORE does.
type fakeStore struct {
	refs      map[string]struct{}
	inserted  []Record
	insertErr error
}

func newFakeStore(refs ...string) *fakeStore {
	return &fakeStore{refs: refSet(refs...)}
}

func (f *fakeStore) ExistingReferences(ctx context.Context) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(f.refs))
	for r := range f.refs {
		out[r] = struct{}{}
	}
	delete(out, "")
	return out, nil
}

func (f *fakeStore) InsertBatch(ctx context.Context, records []Record) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	var kept int64
	for _, rec := range records {
		if rec.TransactionReference != "" {
			if _, ok := f.refs[rec.TransactionReference]; ok {
				continue
			}
			f.refs[rec.TransactionReference] = struct{}{}
		}
		f.inserted = append(f.inserted, rec)
		kept++
	}
	return kept, nil
}

const sampleCSV = "Value Date,Reference,Debit,Credit,Balance\n" +
	"01/01/2024,FT001,,1000.00,1000.00\n" +
	"02/01/2024,FT002,,2000.00,3000.00\n" +
	"03/01/2024,FT003,500.00,,2500.00\n"

func TestImport_NewStatement(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	res, err := svc.Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, res.RowsImported)
	assert.Equal(t, 0, res.DuplicatesSkipped)
	assert.Empty(t, res.DuplicateReferences)
	require.Len(t, store.inserted, 3)
}

func TestImport_RerunIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	_, err := svc.Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowsImported)
	assert.Equal(t, 3, res.DuplicatesSkipped)
	assert.ElementsMatch(t, []string{"FT001", "FT002", "FT003"}, res.DuplicateReferences)
	assert.Len(t, store.inserted, 3)
}

func TestImport_EmptyReferenceAlwaysInserts(t *testing.T) {
	csv := "Value Date,Reference,Credit\n01/01/2024,,100.00\n01/01/2024,,100.00\n"
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	res, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsImported)
	assert.Equal(t, 0, res.DuplicatesSkipped)

	res, err = svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowsImported)
	assert.Equal(t, 0, res.DuplicatesSkipped)
	assert.Len(t, store.inserted, 4)
}

func TestImport_InFileRepeatCountsAsDuplicate(t *testing.T) {
	// The pre-check only covers stored references; a repeat inside one
	// file is dropped by the unique index and must still be reported.
	csv := "Reference,Credit\nFT009,100.00\nFT009,100.00\n"
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	res, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsImported)
	assert.Equal(t, 1, res.DuplicatesSkipped)
}

func TestImport_StorageFailureImportsNothing(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("deadlock found when trying to get lock")
	svc := NewService(store, zerolog.Nop())

	res, err := svc.Import(context.Background(), strings.NewReader(sampleCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")
	assert.Equal(t, 0, res.RowsImported)
	assert.Empty(t, store.inserted)
}

func TestImport_MalformedCSV(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	_, err := svc.Import(context.Background(), strings.NewReader("Reference,Credit\nFT001\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Empty(t, store.inserted)
}

func TestImport_SurfacesCoercionWarnings(t *testing.T) {
	csv := "Value Date,Reference,Credit\nbogus,FT010,xyz\n"
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	res, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsImported)
	assert.Len(t, res.Warnings, 2)
}
