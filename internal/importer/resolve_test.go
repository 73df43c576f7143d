package importer_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvdberg/pricelist-import/internal/importer"
	"github.com/hvdberg/pricelist-import/internal/store/memory"
)

func TestResolveProductPolicy(t *testing.T) {
	store := memory.New()
	pID := store.AddProduct(importer.Product{DefaultCode: "A1", Name: "Widget"})
	store.AddProduct(importer.Product{DefaultCode: "A1", Name: "Widget clone"})

	r := importer.NewIdentityResolver(store, slog.Default())

	ident, err := r.Resolve(context.Background(), "A1", importer.LookupProduct, 0)
	require.NoError(t, err)
	assert.Equal(t, pID, ident.ProductID, "first matching product wins")
	assert.Zero(t, ident.TemplateID)
}

func TestResolveSupplierPolicy(t *testing.T) {
	store := memory.New()
	store.AddProduct(importer.Product{DefaultCode: "SUP-1", Name: "Same code in catalog"})
	store.AddSupplierRef(importer.SupplierRef{SupplierID: 7, ProductCode: "SUP-1", TemplateID: 31})

	r := importer.NewIdentityResolver(store, slog.Default())

	ident, err := r.Resolve(context.Background(), "SUP-1", importer.LookupSupplier, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(31), ident.TemplateID)
	assert.Zero(t, ident.ProductID, "supplier-only policy must not consult the catalog")
}

func TestResolveSupplierProductFallback(t *testing.T) {
	store := memory.New()
	pID := store.AddProduct(importer.Product{DefaultCode: "B2"})
	store.AddSupplierRef(importer.SupplierRef{SupplierID: 7, ProductCode: "C3", TemplateID: 42})

	r := importer.NewIdentityResolver(store, slog.Default())

	// Cross-reference hit: no catalog fallback.
	ident, err := r.Resolve(context.Background(), "C3", importer.LookupSupplierProduct, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.TemplateID)
	assert.Zero(t, ident.ProductID)

	// Cross-reference miss: fall back to the default code.
	ident, err = r.Resolve(context.Background(), "B2", importer.LookupSupplierProduct, 7)
	require.NoError(t, err)
	assert.Zero(t, ident.TemplateID)
	assert.Equal(t, pID, ident.ProductID)
}

func TestResolveWrongSupplier(t *testing.T) {
	store := memory.New()
	store.AddSupplierRef(importer.SupplierRef{SupplierID: 7, ProductCode: "C3", TemplateID: 42})

	r := importer.NewIdentityResolver(store, slog.Default())

	ident, err := r.Resolve(context.Background(), "C3", importer.LookupSupplier, 8)
	require.NoError(t, err)
	assert.True(t, ident.Empty(), "another supplier's cross-reference must not match")
}

func TestResolveNoMatchIsNotAnError(t *testing.T) {
	r := importer.NewIdentityResolver(memory.New(), slog.Default())

	ident, err := r.Resolve(context.Background(), "MISSING", importer.LookupProduct, 0)
	require.NoError(t, err)
	assert.True(t, ident.Empty())
}
