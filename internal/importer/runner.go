package importer

// runner.go drives one import run end to end:
//
//	raw bytes -> newline normalization -> dialect detection -> leading-line
//	strip -> header normalization -> per-row decode -> identity resolution
//	-> reconciliation
//
// Rows are processed strictly in file order, one at a time. Later rows may
// depend on mutations made by earlier ones (duplicate collapsing), so there
// is no parallelism and no mid-run cancellation: a run either completes or
// aborts on a fatal error. Callers must serialize runs against the same
// pricelist version.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Importer runs pricelist imports against the catalog and price-rule stores.
type Importer struct {
	catalog CatalogStore
	rules   PriceRuleStore
}

// New creates an Importer over the given collaborators.
func New(catalog CatalogStore, rules PriceRuleStore) *Importer {
	return &Importer{catalog: catalog, rules: rules}
}

// Run executes one import. The returned result carries the counters
// accumulated so far even when err is non-nil.
func (imp *Importer) Run(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()

	res := &ImportResult{
		RunID: uuid.New().String(),
		Mode:  req.Mode,
	}

	if err := req.Validate(); err != nil {
		return res, err
	}

	log := slog.Default().With(
		"run_id", res.RunID,
		"pricelist_version", req.VersionID,
		"mode", req.Mode,
	)

	text := NormalizeNewlines(req.Data)

	delim := req.Separator
	if delim == 0 {
		delim = DetectDelimiter(text)
	}
	decSep := req.DecimalSep
	if decSep == 0 {
		decSep = DefaultDecimalSep(delim)
	}

	body, headerLine, err := StripLeading(text, delim)
	if err != nil {
		return res, err
	}

	headerFields, err := parseHeader(headerLine, delim)
	if err != nil {
		return res, err
	}

	decoder, err := NewRowDecoder(headerFields, req.Codepage)
	if err != nil {
		return res, err
	}

	resolver := NewIdentityResolver(imp.catalog, log)
	reconciler := NewReconciler(imp.rules, log)

	if req.Mode == ModeEmpty {
		n, err := imp.rules.DeleteByVersion(ctx, req.VersionID)
		if err != nil {
			return res, fmt.Errorf("empty pricelist version: %w", err)
		}
		res.Deleted += int(n)
		log.Info("emptied pricelist version", "rules_deleted", n)
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read csv: %w", err)
		}
		res.Rows++

		row, err := decoder.Decode(record)
		if err != nil {
			return res, err
		}
		if row.Skip {
			res.Skipped++
			continue
		}

		switch req.Mode {
		case ModeRemove:
			if err := imp.removeRow(ctx, req, row, decSep, resolver, reconciler, res); err != nil {
				return res, err
			}
		default:
			if err := imp.importRow(ctx, req, row, decSep, resolver, reconciler, res); err != nil {
				return res, err
			}
		}
	}

	res.Duration = time.Since(start)
	log.Info("import finished",
		"rows", res.Rows,
		"created", res.Created,
		"updated", res.Updated,
		"deleted", res.Deleted,
		"skipped", res.Skipped,
		"duration", res.Duration,
	)
	return res, nil
}

// importRow handles one row in normal (and empty) mode: create or update.
func (imp *Importer) importRow(ctx context.Context, req ImportRequest, row ParsedRow, decSep rune, resolver *IdentityResolver, reconciler *Reconciler, res *ImportResult) error {
	code := row.Get(FieldProductCode)
	qtyStr := row.Get(FieldQuantity)
	priceStr := row.Get(FieldPrice)
	if code == "" || qtyStr == "" || priceStr == "" {
		res.Skipped++
		return nil
	}

	// Unparseable quantities or prices disqualify the row; substituting
	// zero would create wrong price rules.
	qty, ok := ParseNumber(qtyStr, decSep)
	price, priceOK := ParseNumber(priceStr, decSep)
	if !ok || !priceOK {
		res.Skipped++
		return nil
	}

	ident, err := resolver.Resolve(ctx, code, req.Lookup, req.SupplierID)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", code, err)
	}
	if ident.Empty() {
		res.Skipped++
		return nil
	}

	created, updated, deleted, err := reconciler.Apply(ctx, req.VersionID, ident, qty, price, req.Base)
	if err != nil {
		return fmt.Errorf("reconcile %q: %w", code, err)
	}
	res.Created += created
	res.Updated += updated
	res.Deleted += deleted
	return nil
}

// removeRow handles one row in remove mode: delete matches, create nothing.
// Only the product code is required; the quantity narrows the match when set.
func (imp *Importer) removeRow(ctx context.Context, req ImportRequest, row ParsedRow, decSep rune, resolver *IdentityResolver, reconciler *Reconciler, res *ImportResult) error {
	code := row.Get(FieldProductCode)
	if code == "" {
		res.Skipped++
		return nil
	}

	var minQty *decimal.Decimal
	if qtyStr := row.Get(FieldQuantity); qtyStr != "" {
		qty, ok := ParseNumber(qtyStr, decSep)
		if !ok {
			res.Skipped++
			return nil
		}
		minQty = &qty
	}

	ident, err := resolver.Resolve(ctx, code, req.Lookup, req.SupplierID)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", code, err)
	}
	if ident.Empty() {
		res.Skipped++
		return nil
	}

	n, err := reconciler.Remove(ctx, req.VersionID, ident, minQty)
	if err != nil {
		return fmt.Errorf("remove %q: %w", code, err)
	}
	res.Deleted += n
	return nil
}

// parseHeader splits the located header line into normalized fields.
func parseHeader(headerLine string, delim rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(headerLine))
	r.Comma = delim
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	fields = NormalizeHeader(fields)
	if len(fields) == 0 {
		return nil, ErrNoHeader
	}
	return fields, nil
}
