package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvdberg/pricelist-import/internal/config"
	"github.com/hvdberg/pricelist-import/internal/importer"
	"github.com/hvdberg/pricelist-import/internal/store/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Import: config.ImportConfig{
			MaxFileSize:     1 << 20,
			DefaultCodepage: "windows-1252",
			Timeout:         time.Minute,
		},
	}
}

func testServer(store *memory.Store) *Server {
	return NewServer(importer.New(store, store), testConfig())
}

// multipartBody builds a multipart form with a CSV file plus extra fields.
func multipartBody(t *testing.T, csvData string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if csvData != "" {
		fw, err := w.CreateFormFile("file", "prijslijst.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csvData))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleImport(t *testing.T) {
	store := memory.New()
	store.AddProduct(importer.Product{DefaultCode: "A1"})
	srv := testServer(store)

	body, contentType := multipartBody(t, "productcode;stuks;prijs\nA1;10;19,99\n", map[string]string{
		"pricelist_id":         "1",
		"pricelist_version_id": "3",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/imports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res importer.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Created)

	rules := store.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, int64(3), rules[0].VersionID)
}

func TestHandleImportFormErrors(t *testing.T) {
	srv := testServer(memory.New())

	tests := []struct {
		name    string
		csvData string
		fields  map[string]string
	}{
		{
			name:   "missing file",
			fields: map[string]string{"pricelist_id": "1", "pricelist_version_id": "3"},
		},
		{
			name:    "missing version",
			csvData: "productcode;stuks;prijs\n",
			fields:  map[string]string{"pricelist_id": "1"},
		},
		{
			name:    "non-integer pricelist",
			csvData: "productcode;stuks;prijs\n",
			fields:  map[string]string{"pricelist_id": "abc", "pricelist_version_id": "3"},
		},
		{
			name:    "invalid mode",
			csvData: "productcode;stuks;prijs\n",
			fields: map[string]string{
				"pricelist_id": "1", "pricelist_version_id": "3", "operating_mode": "rebuild",
			},
		},
		{
			name:    "multi-character separator",
			csvData: "productcode;stuks;prijs\n",
			fields: map[string]string{
				"pricelist_id": "1", "pricelist_version_id": "3", "csv_separator": ";;",
			},
		},
		{
			name:    "supplier lookup without supplier",
			csvData: "productcode;stuks;prijs\n",
			fields: map[string]string{
				"pricelist_id": "1", "pricelist_version_id": "3", "productcode_option": "supplier",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.csvData, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/imports", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleImportNoHeaderIsBadRequest(t *testing.T) {
	srv := testServer(memory.New())

	body, contentType := multipartBody(t, "# alleen commentaar\n", map[string]string{
		"pricelist_id":         "1",
		"pricelist_version_id": "3",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/imports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no header")
}

func TestHandleImportCodePageErrorIsBadRequest(t *testing.T) {
	store := memory.New()
	store.AddProduct(importer.Product{DefaultCode: "A1"})
	srv := testServer(store)

	body, contentType := multipartBody(t, "productcode;stuks;prijs\nA\xa51;1;2,00\n", map[string]string{
		"pricelist_id":         "1",
		"pricelist_version_id": "3",
		"codepage":             "ISO-8859-3",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/imports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "code page")
}

func TestHealthz(t *testing.T) {
	srv := testServer(memory.New())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	srv := testServer(memory.New())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
