// Package memory provides in-memory store implementations (for testing/dev).
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hvdberg/pricelist-import/internal/importer"
)

// Store implements importer.CatalogStore and importer.PriceRuleStore backed
// by slices. Iteration order equals insertion order, which makes the
// "first match wins" behavior of the importer deterministic in tests.
type Store struct {
	mu       sync.RWMutex
	products []importer.Product
	refs     []importer.SupplierRef
	rules    []importer.PriceRule
	nextID   int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{nextID: 1}
}

// AddProduct seeds a catalog product and returns its assigned ID.
func (s *Store) AddProduct(p importer.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.products = append(s.products, p)
	return p.ID
}

// AddSupplierRef seeds a supplier cross-reference and returns its ID.
func (s *Store) AddSupplierRef(r importer.SupplierRef) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	s.refs = append(s.refs, r)
	return r.ID
}

// AddRule seeds an existing price rule and returns its assigned ID.
func (s *Store) AddRule(r importer.PriceRule) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	s.rules = append(s.rules, r)
	return r.ID
}

// Rules returns a copy of all price rules, in insertion order.
func (s *Store) Rules() []importer.PriceRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]importer.PriceRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// ProductsByDefaultCode implements importer.CatalogStore.
func (s *Store) ProductsByDefaultCode(_ context.Context, code string) ([]importer.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []importer.Product
	for _, p := range s.products {
		if p.DefaultCode == code {
			out = append(out, p)
		}
	}
	return out, nil
}

// SupplierRefs implements importer.CatalogStore.
func (s *Store) SupplierRefs(_ context.Context, supplierID int64, code string) ([]importer.SupplierRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []importer.SupplierRef
	for _, r := range s.refs {
		if r.SupplierID == supplierID && r.ProductCode == code {
			out = append(out, r)
		}
	}
	return out, nil
}

// Search implements importer.PriceRuleStore.
func (s *Store) Search(_ context.Context, versionID int64, ident importer.ProductIdentity, minQty *decimal.Decimal) ([]importer.PriceRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []importer.PriceRule
	for _, r := range s.rules {
		if r.VersionID != versionID {
			continue
		}
		if !matchesIdentity(r, ident) {
			continue
		}
		if minQty != nil && !r.MinQuantity.Equal(*minQty) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Create implements importer.PriceRuleStore.
func (s *Store) Create(_ context.Context, rule importer.PriceRule) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule.ID = s.nextID
	s.nextID++
	s.rules = append(s.rules, rule)
	return rule.ID, nil
}

// Update implements importer.PriceRuleStore.
func (s *Store) Update(_ context.Context, id int64, values importer.RuleValues) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules[i].MinQuantity = values.MinQuantity
			s.rules[i].Price = values.Price
			s.rules[i].Base = values.Base
			s.rules[i].Sequence = values.Sequence
			s.rules[i].Discount = values.Discount
			return nil
		}
	}
	return importer.ErrRuleNotFound
}

// Delete implements importer.PriceRuleStore.
func (s *Store) Delete(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.rules[:0]
	for _, r := range s.rules {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	s.rules = kept
	return nil
}

// DeleteByVersion implements importer.PriceRuleStore.
func (s *Store) DeleteByVersion(_ context.Context, versionID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	kept := s.rules[:0]
	for _, r := range s.rules {
		if r.VersionID == versionID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.rules = kept
	return n, nil
}

func matchesIdentity(r importer.PriceRule, ident importer.ProductIdentity) bool {
	if ident.TemplateID != 0 {
		return r.TemplateID == ident.TemplateID
	}
	if ident.ProductID != 0 {
		return r.ProductID == ident.ProductID
	}
	return false
}
