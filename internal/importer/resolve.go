package importer

import (
	"context"
	"log/slog"
)

// IdentityResolver maps a row's product code to a catalog record.
type IdentityResolver struct {
	catalog CatalogStore
	log     *slog.Logger
}

// NewIdentityResolver creates a resolver over the given catalog.
func NewIdentityResolver(catalog CatalogStore, log *slog.Logger) *IdentityResolver {
	return &IdentityResolver{catalog: catalog, log: log}
}

// Resolve looks up code according to the lookup policy. The supplier
// cross-reference takes priority when both lookup types are enabled and both
// resolve. Multiple matches are not tie-broken beyond "first result wins".
// An empty identity means the row should be skipped; it is not an error.
func (r *IdentityResolver) Resolve(ctx context.Context, code string, policy LookupPolicy, supplierID int64) (ProductIdentity, error) {
	var ident ProductIdentity

	if policy == LookupSupplier || policy == LookupSupplierProduct {
		refs, err := r.catalog.SupplierRefs(ctx, supplierID, code)
		if err != nil {
			return ProductIdentity{}, err
		}
		if len(refs) > 0 {
			ident.TemplateID = refs[0].TemplateID
			r.log.Debug("resolved supplier cross-reference",
				"code", code, "template_id", ident.TemplateID, "matches", len(refs))
		}
	}

	if (policy == LookupProduct || policy == LookupSupplierProduct) && ident.TemplateID == 0 {
		products, err := r.catalog.ProductsByDefaultCode(ctx, code)
		if err != nil {
			return ProductIdentity{}, err
		}
		if len(products) > 0 {
			ident.ProductID = products[0].ID
			r.log.Debug("resolved product default code",
				"code", code, "product_id", ident.ProductID, "matches", len(products))
		}
	}

	return ident, nil
}
