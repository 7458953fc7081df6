package web

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/consiliorum/budgetPlanner/internal/importer"
	"github.com/consiliorum/budgetPlanner/internal/logging"
)

// handleImportPreview tokenizes an uploaded CSV and returns its header,
// the first rows, and the total row count. Nothing is persisted.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, _, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	preview, err := s.engine.Preview(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// handleImportCommit normalizes and persists every row of an uploaded
// CSV using the column mapping from the form fields.
func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	mapping := importer.Mapping{
		AmountCol:      r.FormValue("amountCol"),
		DateCol:        r.FormValue("dateCol"),
		DescriptionCol: r.FormValue("descriptionCol"),
		CategoryCol:    r.FormValue("categoryCol"),
	}

	importID := uuid.New().String()
	logger := logging.WithFields(r.Context(),
		"import_id", importID,
		"filename", filename,
	)
	logger.Info("import started")

	result, err := s.engine.Commit(r.Context(), data, mapping)
	if err != nil {
		var parseErr *csv.ParseError
		switch {
		case errors.Is(err, importer.ErrMissingMapping),
			errors.Is(err, importer.ErrEmptyFile),
			errors.As(err, &parseErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Error("import failed", "error", err)
			writeError(w, http.StatusInternalServerError, "import failed")
		}
		return
	}

	logger.Info("import completed",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	writeJSON(w, http.StatusOK, result)
}

// readUpload enforces the size cap and extracts the uploaded file bytes.
// On failure it writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return nil, "", false
	}

	return data, header.Filename, true
}
