package web

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hvdberg/pricelist-import/internal/importer"
	"github.com/hvdberg/pricelist-import/internal/logging"
)

// handleImport runs a pricelist import from an uploaded CSV file.
//
// The multipart form carries the file plus the import parameters:
//
//	file                  the CSV file (required)
//	pricelist_id          target pricelist (required)
//	pricelist_version_id  target pricelist version (required)
//	operating_mode        normal, empty or remove (default: normal)
//	base                  price base for created rules (default: 0)
//	productcode_option    product, supplier or supplier_product (default: product)
//	supplier_id           supplier for cross-reference lookups
//	csv_separator         "," or ";" (default: detected from the file)
//	decimal_separator     "." or "," (default: derived from the field separator)
//	codepage              IANA code page name (default: from config)
//
// The import runs synchronously and the response carries the run counters.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read file")
		return
	}

	req, err := s.buildRequest(r, data)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	logging.FromContext(r.Context()).Info("import requested",
		"filename", header.Filename,
		"size", header.Size,
		"pricelist_version", req.VersionID,
		"mode", req.Mode,
	)

	result, err := s.importer.Run(ctx, req)
	if err != nil {
		writeImportError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// buildRequest assembles an ImportRequest from the multipart form fields.
func (s *Server) buildRequest(r *http.Request, data []byte) (importer.ImportRequest, error) {
	req := importer.ImportRequest{
		Mode:     importer.ModeNormal,
		Lookup:   importer.LookupProduct,
		Codepage: s.cfg.Import.DefaultCodepage,
		Data:     data,
	}

	var err error
	if req.PricelistID, err = formInt64(r, "pricelist_id", true); err != nil {
		return req, err
	}
	if req.VersionID, err = formInt64(r, "pricelist_version_id", true); err != nil {
		return req, err
	}
	if req.Base, err = formInt64(r, "base", false); err != nil {
		return req, err
	}
	if req.SupplierID, err = formInt64(r, "supplier_id", false); err != nil {
		return req, err
	}

	if v := r.FormValue("operating_mode"); v != "" {
		req.Mode = importer.OperatingMode(v)
	}
	if v := r.FormValue("productcode_option"); v != "" {
		req.Lookup = importer.LookupPolicy(v)
	}
	if v := r.FormValue("codepage"); v != "" {
		req.Codepage = v
	}

	if req.Separator, err = formRune(r, "csv_separator"); err != nil {
		return req, err
	}
	if req.DecimalSep, err = formRune(r, "decimal_separator"); err != nil {
		return req, err
	}

	return req, req.Validate()
}

// formInt64 parses an int64 form value. Missing optional fields return 0.
func formInt64(r *http.Request, name string, required bool) (int64, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		if required {
			return 0, &formError{name, "is required"}
		}
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &formError{name, "must be an integer"}
	}
	return n, nil
}

// formRune parses a single-character form value. Missing fields return 0,
// which tells the importer to auto-detect.
func formRune(r *http.Request, name string) (rune, error) {
	v := r.FormValue(name)
	if v == "" {
		return 0, nil
	}
	runes := []rune(v)
	if len(runes) != 1 {
		return 0, &formError{name, "must be a single character"}
	}
	return runes[0], nil
}

// formError reports an invalid form field by name.
type formError struct {
	field string
	msg   string
}

func (e *formError) Error() string {
	return "field " + e.field + " " + e.msg
}
