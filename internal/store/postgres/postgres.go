// Package postgres provides pgx-backed store implementations.
//
// Numeric columns round-trip through text: decimal.Decimal formats without
// float conversion on the way in, and min_quantity/price/discount are cast
// to text on the way out so no precision is lost to float64.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/hvdberg/pricelist-import/internal/importer"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements importer.CatalogStore and importer.PriceRuleStore.
type Store struct {
	db DBTX
}

// New creates a Store over the given connection or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// ProductsByDefaultCode implements importer.CatalogStore.
func (s *Store) ProductsByDefaultCode(ctx context.Context, code string) ([]importer.Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, default_code, COALESCE(name, '')
		 FROM products
		 WHERE default_code = $1
		 ORDER BY id`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []importer.Product
	for rows.Next() {
		var p importer.Product
		if err := rows.Scan(&p.ID, &p.DefaultCode, &p.Name); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SupplierRefs implements importer.CatalogStore.
func (s *Store) SupplierRefs(ctx context.Context, supplierID int64, code string) ([]importer.SupplierRef, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, supplier_id, product_code, product_tmpl_id
		 FROM supplier_refs
		 WHERE supplier_id = $1 AND product_code = $2
		 ORDER BY id`,
		supplierID, code,
	)
	if err != nil {
		return nil, fmt.Errorf("query supplier refs: %w", err)
	}
	defer rows.Close()

	var out []importer.SupplierRef
	for rows.Next() {
		var r importer.SupplierRef
		if err := rows.Scan(&r.ID, &r.SupplierID, &r.ProductCode, &r.TemplateID); err != nil {
			return nil, fmt.Errorf("scan supplier ref: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Search implements importer.PriceRuleStore.
func (s *Store) Search(ctx context.Context, versionID int64, ident importer.ProductIdentity, minQty *decimal.Decimal) ([]importer.PriceRule, error) {
	query := `SELECT id, version_id, COALESCE(product_id, 0), COALESCE(product_tmpl_id, 0),
	                 min_quantity::text, price::text, base, sequence, discount::text
	          FROM price_rules
	          WHERE version_id = $1`
	args := []interface{}{versionID}

	switch {
	case ident.TemplateID != 0:
		query += " AND product_tmpl_id = $2"
		args = append(args, ident.TemplateID)
	case ident.ProductID != 0:
		query += " AND product_id = $2"
		args = append(args, ident.ProductID)
	default:
		return nil, nil
	}

	if minQty != nil {
		query += fmt.Sprintf(" AND min_quantity = $%d::numeric", len(args)+1)
		args = append(args, minQty.String())
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price rules: %w", err)
	}
	defer rows.Close()

	var out []importer.PriceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// Create implements importer.PriceRuleStore.
func (s *Store) Create(ctx context.Context, rule importer.PriceRule) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO price_rules
		   (version_id, product_id, product_tmpl_id, min_quantity, price, base, sequence, discount)
		 VALUES ($1, NULLIF($2, 0), NULLIF($3, 0), $4::numeric, $5::numeric, $6, $7, $8::numeric)
		 RETURNING id`,
		rule.VersionID, rule.ProductID, rule.TemplateID,
		rule.MinQuantity.String(), rule.Price.String(),
		rule.Base, rule.Sequence, rule.Discount.String(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert price rule: %w", err)
	}
	return id, nil
}

// Update implements importer.PriceRuleStore.
func (s *Store) Update(ctx context.Context, id int64, values importer.RuleValues) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE price_rules
		 SET min_quantity = $2::numeric, price = $3::numeric, base = $4, sequence = $5, discount = $6::numeric
		 WHERE id = $1`,
		id,
		values.MinQuantity.String(), values.Price.String(),
		values.Base, values.Sequence, values.Discount.String(),
	)
	if err != nil {
		return fmt.Errorf("update price rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return importer.ErrRuleNotFound
	}
	return nil
}

// Delete implements importer.PriceRuleStore.
func (s *Store) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx,
		`DELETE FROM price_rules WHERE id = ANY($1)`, ids,
	); err != nil {
		return fmt.Errorf("delete price rules: %w", err)
	}
	return nil
}

// DeleteByVersion implements importer.PriceRuleStore.
func (s *Store) DeleteByVersion(ctx context.Context, versionID int64) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM price_rules WHERE version_id = $1`, versionID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete version rules: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanRule reads one price_rules row including its text-cast numerics.
func scanRule(rows pgx.Rows) (importer.PriceRule, error) {
	var (
		rule                    importer.PriceRule
		minQty, price, discount string
	)
	if err := rows.Scan(
		&rule.ID, &rule.VersionID, &rule.ProductID, &rule.TemplateID,
		&minQty, &price, &rule.Base, &rule.Sequence, &discount,
	); err != nil {
		return importer.PriceRule{}, fmt.Errorf("scan price rule: %w", err)
	}

	var err error
	if rule.MinQuantity, err = decimal.NewFromString(minQty); err != nil {
		return importer.PriceRule{}, fmt.Errorf("parse min_quantity: %w", err)
	}
	if rule.Price, err = decimal.NewFromString(price); err != nil {
		return importer.PriceRule{}, fmt.Errorf("parse price: %w", err)
	}
	if rule.Discount, err = decimal.NewFromString(discount); err != nil {
		return importer.PriceRule{}, fmt.Errorf("parse discount: %w", err)
	}
	return rule, nil
}
