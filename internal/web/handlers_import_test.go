package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consiliorum/budgetPlanner/internal/config"
	"github.com/consiliorum/budgetPlanner/internal/store"
)

// okDB is a DBTX stub whose Exec always succeeds. Only routes that
// never run queries are exercised against it.
type okDB struct{}

func (okDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (okDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	panic("unexpected query")
}

func (okDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	panic("unexpected query")
}

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Server.RequestTimeout = 60 * time.Second
	return NewServer(cfg, store.New(okDB{}))
}

// multipartBody builds a multipart form with an optional file part and
// extra form fields.
func multipartBody(t *testing.T, fileContents string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileContents != "" {
		fw, err := w.CreateFormFile("file", "export.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(fileContents))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleImportPreview_NoFile(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartBody(t, "", map[string]string{"unused": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/import/csv/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no file provided")
}

func TestHandleImportPreview_ReturnsColumnsAndRows(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartBody(t,
		"Date;Amount;Description\n2026-01-05;12,00;Coffee\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/csv/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Columns   []string            `json:"columns"`
		Preview   []map[string]string `json:"preview"`
		TotalRows int                 `json:"totalRows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Date", "Amount", "Description"}, resp.Columns)
	assert.Equal(t, 1, resp.TotalRows)
	require.Len(t, resp.Preview, 1)
	assert.Equal(t, "Coffee", resp.Preview[0]["Description"])
}

func TestHandleImportCommit_MissingMapping(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartBody(t,
		"Date,Amount\n2026-01-05,10.00\n",
		map[string]string{"dateCol": "Date"}) // amountCol omitted
	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "mappings are required")
}

func TestHandleImportCommit_EmptyFile(t *testing.T) {
	s := testServer(t)

	// File part present but with empty contents
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_, err := w.CreateFormFile("file", "empty.csv")
	require.NoError(t, err)
	require.NoError(t, w.WriteField("amountCol", "Amount"))
	require.NoError(t, w.WriteField("dateCol", "Date"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no header row")
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestInvalidTransactionID(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/abc", nil)
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid id")
}
