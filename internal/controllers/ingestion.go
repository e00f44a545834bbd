package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"pledge-backend/internal/ingest"
)

type IngestionController struct {
	Service *ingest.Service
	Log     zerolog.Logger
}

type uploadResponse struct {
	Success             bool     `json:"success"`
	RowsImported        int      `json:"rowsImported"`
	DuplicatesSkipped   int      `json:"duplicatesSkipped"`
	Message             string   `json:"message"`
	DuplicateReferences []string `json:"duplicateReferences"`
	Warnings            []string `json:"warnings"`
}

func isExcel(filename, contentType string) bool {
	if strings.HasSuffix(filename, ".xlsx") || strings.HasSuffix(filename, ".xls") {
		return true
	}
	return strings.Contains(contentType, "spreadsheet") || strings.Contains(contentType, "ms-excel")
}

// Upload ingests one bank statement CSV posted as multipart form data.
func (c IngestionController) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	name := strings.ToLower(strings.TrimSpace(header.Filename))
	if isExcel(name, header.Header.Get("Content-Type")) {
		jsonError(w, http.StatusBadRequest, "excel statements are not implemented yet")
		return
	}
	if !strings.HasSuffix(name, ".csv") {
		jsonError(w, http.StatusBadRequest, "only .csv statements are accepted")
		return
	}

	res, err := c.Service.Import(r.Context(), file)
	if err != nil {
		if errors.Is(err, ingest.ErrMalformed) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Log.Error().Err(err).Str("file", header.Filename).Msg("statement import failed")
		writeJSON(w, http.StatusInternalServerError, uploadResponse{
			Success:             false,
			Message:             err.Error(),
			DuplicateReferences: []string{},
			Warnings:            []string{},
		})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:             true,
		RowsImported:        res.RowsImported,
		DuplicatesSkipped:   res.DuplicatesSkipped,
		Message:             fmt.Sprintf("imported %d transactions, skipped %d duplicates", res.RowsImported, res.DuplicatesSkipped),
		DuplicateReferences: capStrings(res.DuplicateReferences, 10),
		Warnings:            capStrings(res.Warnings, 10),
	})
}
