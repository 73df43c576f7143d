package importer

// reconcile.go decides create vs. update vs. delete for each resolved row.
//
// The invariant enforced here: after reconciliation, a given (version,
// product identity, minimum quantity) has at most one price rule. When the
// store already holds duplicates for that key, the first match (in store
// iteration order - best effort, not a guaranteed ordering) is updated and
// the remainder deleted.

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Reconciler applies row outcomes against the price-rule store.
type Reconciler struct {
	rules PriceRuleStore
	log   *slog.Logger
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(rules PriceRuleStore, log *slog.Logger) *Reconciler {
	return &Reconciler{rules: rules, log: log}
}

// Apply performs the normal-mode action for one row: update the first
// existing rule with an equal minimum quantity, delete any further
// duplicates, or create a new rule when nothing matched.
// Returns the created/updated/deleted counts for the row.
func (rc *Reconciler) Apply(ctx context.Context, versionID int64, ident ProductIdentity, qty, price decimal.Decimal, base int64) (created, updated, deleted int, err error) {
	matches, err := rc.rules.Search(ctx, versionID, ident, &qty)
	if err != nil {
		return 0, 0, 0, err
	}

	values := RuleValues{
		MinQuantity: qty,
		Price:       price,
		Base:        base,
		Sequence:    RuleSequence,
		Discount:    decimal.NewFromInt(RuleDiscount),
	}

	var extra []int64
	for _, m := range matches {
		if !m.MinQuantity.Equal(qty) {
			continue
		}
		if updated == 0 {
			if err := rc.rules.Update(ctx, m.ID, values); err != nil {
				return 0, 0, 0, err
			}
			rc.log.Debug("updated price rule", "rule_id", m.ID, "min_quantity", qty)
			updated = 1
			continue
		}
		extra = append(extra, m.ID)
	}

	if len(extra) > 0 {
		if err := rc.rules.Delete(ctx, extra); err != nil {
			return 0, updated, 0, err
		}
		rc.log.Debug("removed duplicate price rules", "rule_ids", extra)
		deleted = len(extra)
	}

	if updated == 0 {
		rule := PriceRule{
			VersionID:   versionID,
			ProductID:   ident.ProductID,
			TemplateID:  ident.TemplateID,
			MinQuantity: qty,
			Price:       price,
			Base:        base,
			Sequence:    RuleSequence,
			Discount:    decimal.NewFromInt(RuleDiscount),
		}
		id, err := rc.rules.Create(ctx, rule)
		if err != nil {
			return 0, 0, deleted, err
		}
		rc.log.Debug("created price rule", "rule_id", id, "min_quantity", qty)
		created = 1
	}

	return created, updated, deleted, nil
}

// Remove performs the remove-mode action: delete every rule matched by the
// search, filtered on quantity only when the row carries one. Never creates.
func (rc *Reconciler) Remove(ctx context.Context, versionID int64, ident ProductIdentity, minQty *decimal.Decimal) (int, error) {
	matches, err := rc.rules.Search(ctx, versionID, ident, minQty)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	if err := rc.rules.Delete(ctx, ids); err != nil {
		return 0, err
	}
	rc.log.Debug("removed matched price rules", "rule_ids", ids)
	return len(ids), nil
}
