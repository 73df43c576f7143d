// Package importer provides the business logic for pricelist CSV imports.
// This package has no HTTP dependencies and can be driven by any frontend.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OperatingMode selects what an import run does with matched price rules.
type OperatingMode string

const (
	// ModeNormal creates or updates a price rule for each usable row.
	ModeNormal OperatingMode = "normal"
	// ModeEmpty deletes every rule of the target version first, then imports.
	ModeEmpty OperatingMode = "empty"
	// ModeRemove deletes the rules matched by each row; never creates.
	ModeRemove OperatingMode = "remove"
)

// LookupPolicy selects how a row's product code is resolved to the catalog.
type LookupPolicy string

const (
	// LookupProduct resolves by the product's own default code only.
	LookupProduct LookupPolicy = "product"
	// LookupSupplier resolves by (supplier, supplier product code) only.
	LookupSupplier LookupPolicy = "supplier"
	// LookupSupplierProduct tries the supplier cross-reference first and
	// falls back to the default code when the supplier lookup finds nothing.
	LookupSupplierProduct LookupPolicy = "supplier_product"
)

// Header field names the import requires on a usable data row.
const (
	FieldProductCode = "productcode"
	FieldQuantity    = "stuks"
	FieldPrice       = "prijs"
)

// Fixed values stamped on every created or updated price rule.
// A discount of -1 marks the price as absolute rather than a percentage.
const (
	RuleSequence = 4
	RuleDiscount = -1
)

// DefaultCodepage is assumed when a request does not name a code page.
const DefaultCodepage = "windows-1252"

// ImportRequest is the caller-supplied configuration for one import run.
// It is immutable for the duration of the run.
type ImportRequest struct {
	PricelistID int64         // target pricelist
	VersionID   int64         // target pricelist version (required)
	Mode        OperatingMode // normal, empty or remove
	Base        int64         // price-basis selector, stored on each rule
	Lookup      LookupPolicy  // product-code lookup policy
	SupplierID  int64         // required for supplier lookups
	Separator   rune          // CSV delimiter; 0 means auto-detect
	DecimalSep  rune          // decimal separator; 0 means derive from delimiter
	Codepage    string        // source code page; empty means DefaultCodepage
	Data        []byte        // raw file bytes
}

// Validate checks the request before any row processing starts.
func (r ImportRequest) Validate() error {
	switch r.Mode {
	case ModeNormal, ModeEmpty, ModeRemove:
	default:
		return fmt.Errorf("invalid operating mode %q", r.Mode)
	}
	switch r.Lookup {
	case LookupProduct:
	case LookupSupplier, LookupSupplierProduct:
		if r.SupplierID == 0 {
			return fmt.Errorf("lookup policy %q requires a supplier", r.Lookup)
		}
	default:
		return fmt.Errorf("invalid lookup policy %q", r.Lookup)
	}
	if r.VersionID == 0 {
		return fmt.Errorf("pricelist version is required")
	}
	if r.Separator != 0 && r.Separator != ',' && r.Separator != ';' {
		return fmt.Errorf("unsupported CSV separator %q", r.Separator)
	}
	if r.DecimalSep != 0 && r.DecimalSep != '.' && r.DecimalSep != ',' {
		return fmt.Errorf("unsupported decimal separator %q", r.DecimalSep)
	}
	if len(r.Data) == 0 {
		return fmt.Errorf("no file provided")
	}
	return nil
}

// ImportResult is the outcome of one import run.
type ImportResult struct {
	RunID    string        `json:"runId"`
	Mode     OperatingMode `json:"mode"`
	Rows     int           `json:"rows"` // data rows seen, including skipped ones
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Deleted  int           `json:"deleted"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// ParsedRow is one decoded data row: normalized header field -> trimmed value.
// Rows are produced and consumed one at a time; nothing is buffered.
type ParsedRow struct {
	Fields map[string]string
	Skip   bool // comment row, to be ignored
	Line   int  // 1-based data row number, for diagnostics
}

// Get returns the trimmed value for a header field, or "" if absent.
func (p ParsedRow) Get(field string) string {
	return p.Fields[field]
}

// ProductIdentity is a resolved reference to either a product template (via
// the supplier cross-reference) or a concrete product (via default code).
// At most one of the two is set.
type ProductIdentity struct {
	TemplateID int64
	ProductID  int64
}

// Empty reports whether no catalog record was resolved.
func (id ProductIdentity) Empty() bool {
	return id.TemplateID == 0 && id.ProductID == 0
}

// Product is a catalog product record.
type Product struct {
	ID          int64
	DefaultCode string
	Name        string
}

// SupplierRef maps a supplier-specific product code to a product template.
type SupplierRef struct {
	ID          int64
	SupplierID  int64
	ProductCode string
	TemplateID  int64
}

// PriceRule is a price rule belonging to one pricelist version.
// Exactly one of ProductID / TemplateID is non-zero.
type PriceRule struct {
	ID          int64
	VersionID   int64
	ProductID   int64
	TemplateID  int64
	MinQuantity decimal.Decimal
	Price       decimal.Decimal
	Base        int64
	Sequence    int
	Discount    decimal.Decimal
}

// RuleValues carries the updatable fields of a price rule.
type RuleValues struct {
	MinQuantity decimal.Decimal
	Price       decimal.Decimal
	Base        int64
	Sequence    int
	Discount    decimal.Decimal
}

// CatalogStore is the read-only catalog collaborator.
// Result order follows the store's own iteration order; the first match wins.
type CatalogStore interface {
	// ProductsByDefaultCode returns products whose default code equals code.
	ProductsByDefaultCode(ctx context.Context, code string) ([]Product, error)
	// SupplierRefs returns cross-references for (supplier, supplier code).
	SupplierRefs(ctx context.Context, supplierID int64, code string) ([]SupplierRef, error)
}

// PriceRuleStore is the price-rule collaborator owning physical persistence.
type PriceRuleStore interface {
	// Search returns rules of the version matching the identity, filtered on
	// exact minimum-quantity equality when minQty is non-nil.
	Search(ctx context.Context, versionID int64, ident ProductIdentity, minQty *decimal.Decimal) ([]PriceRule, error)
	// Create persists a new rule and returns its ID.
	Create(ctx context.Context, rule PriceRule) (int64, error)
	// Update overwrites the updatable fields of an existing rule.
	Update(ctx context.Context, id int64, values RuleValues) error
	// Delete removes the given rules.
	Delete(ctx context.Context, ids []int64) error
	// DeleteByVersion removes every rule of a version, returning the count.
	DeleteByVersion(ctx context.Context, versionID int64) (int64, error)
}
