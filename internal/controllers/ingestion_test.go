package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pledge-backend/internal/ingest"
)

// memStore is an in-memory ingest.Store with the same drop-on-conflict
// behavior as the unique reference index.
type memStore struct {
	refs     map[string]struct{}
	inserted []ingest.Record
}

func newMemStore(refs ...string) *memStore {
	set := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		set[r] = struct{}{}
	}
	return &memStore{refs: set}
}

func (m *memStore) ExistingReferences(ctx context.Context) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(m.refs))
	for r := range m.refs {
		out[r] = struct{}{}
	}
	return out, nil
}

func (m *memStore) InsertBatch(ctx context.Context, records []ingest.Record) (int64, error) {
	var kept int64
	for _, rec := range records {
		if rec.TransactionReference != "" {
			if _, ok := m.refs[rec.TransactionReference]; ok {
				continue
			}
			m.refs[rec.TransactionReference] = struct{}{}
		}
		m.inserted = append(m.inserted, rec)
		kept++
	}
	return kept, nil
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bank-transactions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newIngestionController(store ingest.Store) IngestionController {
	return IngestionController{
		Service: ingest.NewService(store, zerolog.Nop()),
		Log:     zerolog.Nop(),
	}
}

func TestUpload_ImportsAndReportsDuplicates(t *testing.T) {
	store := newMemStore("FT002")
	ctrl := newIngestionController(store)

	csv := "Value Date,Reference,Debit,Credit,Balance\n" +
		"01/01/2024,FT001,,1000.00,1000.00\n" +
		"02/01/2024,FT002,,2000.00,3000.00\n" +
		"03/01/2024,FT003,500.00,,2500.00\n"
	rec := httptest.NewRecorder()
	ctrl.Upload(rec, uploadRequest(t, "statement.csv", csv))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success             bool     `json:"success"`
		RowsImported        int      `json:"rowsImported"`
		DuplicatesSkipped   int      `json:"duplicatesSkipped"`
		Message             string   `json:"message"`
		DuplicateReferences []string `json:"duplicateReferences"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.RowsImported)
	assert.Equal(t, 1, resp.DuplicatesSkipped)
	assert.Equal(t, []string{"FT002"}, resp.DuplicateReferences)
	assert.Len(t, store.inserted, 2)
}

func TestUpload_RejectsExcel(t *testing.T) {
	store := newMemStore()
	ctrl := newIngestionController(store)

	rec := httptest.NewRecorder()
	ctrl.Upload(rec, uploadRequest(t, "statement.xlsx", "not really excel"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "not implemented yet")
	assert.Empty(t, store.inserted)
}

func TestUpload_RejectsUnknownExtension(t *testing.T) {
	ctrl := newIngestionController(newMemStore())

	rec := httptest.NewRecorder()
	ctrl.Upload(rec, uploadRequest(t, "statement.pdf", "%PDF-1.4"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_MalformedCSVStoresNothing(t *testing.T) {
	store := newMemStore()
	ctrl := newIngestionController(store)

	rec := httptest.NewRecorder()
	ctrl.Upload(rec, uploadRequest(t, "statement.csv", "Reference,Credit\nFT001\n"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "malformed")
	assert.Empty(t, store.inserted)
}

func TestUpload_MissingFileField(t *testing.T) {
	ctrl := newIngestionController(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bank-transactions/import", nil)
	rec := httptest.NewRecorder()
	ctrl.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_SurfacesWarnings(t *testing.T) {
	ctrl := newIngestionController(newMemStore())

	csv := "Value Date,Reference,Credit\nbogus-date,FT001,100.00\n"
	rec := httptest.NewRecorder()
	ctrl.Upload(rec, uploadRequest(t, "statement.csv", csv))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		RowsImported int      `json:"rowsImported"`
		Warnings     []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.RowsImported)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "valueDate")
}
