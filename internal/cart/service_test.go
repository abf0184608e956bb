package cart

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/catalog"
	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.UnitVariant{}, &models.CartItem{}))

	svc := &Service{
		Repo:    &GormRepo{DB: db},
		Catalog: &catalog.Service{Repo: &catalog.GormRepo{DB: db}},
		Policy: pricing.Policy{
			SGSTBps:         500,
			CGSTBps:         500,
			FreeShippingMin: 50000,
			ShippingFlatFee: 10000,
		},
	}
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, p *models.Product) {
	t.Helper()
	require.NoError(t, db.Create(p).Error)
}

func TestAdd_CreatesLineWithDefaultUnit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{
		Name: "rice", Seller: "agro", Price: 9000, CuttedPrice: 11000, Stock: 40,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 9000, CuttedPrice: 11000, MinQty: 1, MaxQty: 25, Increment: 1},
			{Name: "bag", Price: 200000, CuttedPrice: 240000, MinQty: 1, MaxQty: 5, Increment: 1, IsDefault: true},
		},
	})

	item, err := svc.Add(ctx, 1, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, "bag", item.UnitName)
	assert.Equal(t, int64(2), item.Quantity)
	assert.Equal(t, int64(200000), item.Price)
	assert.Equal(t, int64(240000), item.CuttedPrice)
	assert.Equal(t, "rice", item.Name)
}

func TestAdd_UnitlessProductGetsSynthesizedUnit(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{Name: "soap", Price: 4500, CuttedPrice: 5000})

	item, err := svc.Add(ctx, 1, 1, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "unit", item.UnitName)
	assert.Equal(t, int64(1), item.UnitMinQty)
	assert.Equal(t, int64(1), item.UnitIncrement)
	assert.Equal(t, int64(1), item.Quantity)
}

func TestAdd_ReaddUpdatesLineInPlace(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{
		Name: "rice", Price: 9000, CuttedPrice: 11000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 9000, CuttedPrice: 11000, MinQty: 1, MaxQty: 25, Increment: 1, IsDefault: true},
		},
	})

	first, err := svc.Add(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	second, err := svc.Add(ctx, 1, 1, 5, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(5), second.Quantity)

	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
}

func TestAdd_KeepsPreviouslyChosenUnitOnReadd(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{
		Name: "rice", Price: 9000, CuttedPrice: 11000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 9000, CuttedPrice: 11000, MinQty: 1, MaxQty: 25, Increment: 1},
			{Name: "bag", Price: 200000, CuttedPrice: 240000, MinQty: 1, MaxQty: 5, Increment: 1, IsDefault: true},
		},
	})

	_, err := svc.Add(ctx, 1, 1, 3, "kg")
	require.NoError(t, err)

	// no explicit unit this time; the chosen "kg" must stick, not the default
	item, err := svc.Add(ctx, 1, 1, 4, "")
	require.NoError(t, err)
	assert.Equal(t, "kg", item.UnitName)
	assert.Equal(t, int64(4), item.Quantity)
}

func TestAdd_UnknownUnitRejected(t *testing.T) {
	svc, db := newTestService(t)

	seedProduct(t, db, &models.Product{
		Name: "rice", Price: 9000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 9000, MinQty: 1, Increment: 1},
		},
	})

	_, err := svc.Add(context.Background(), 1, 1, 1, "tonne")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAdd_ClampsQuantityIntoUnitBounds(t *testing.T) {
	svc, db := newTestService(t)

	seedProduct(t, db, &models.Product{
		Name: "rice", Price: 9000,
		Units: []models.UnitVariant{
			{Name: "bag", Price: 200000, MinQty: 2, MaxQty: 5, Increment: 1, IsDefault: true},
		},
	})

	item, err := svc.Add(context.Background(), 1, 1, 99, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)

	item, err = svc.Add(context.Background(), 1, 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Quantity)
}

func TestAdd_MissingProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), 1, 99, 1, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQuantity_SnapsToIncrement(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{
		Name: "rice", Price: 9000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 9000, MinQty: 5, MaxQty: 50, Increment: 5, IsDefault: true},
		},
	})

	_, err := svc.Add(ctx, 1, 1, 5, "")
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, 1, 1, 18)
	require.NoError(t, err)
	assert.Equal(t, int64(20), item.Quantity)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	svc, db := newTestService(t)

	seedProduct(t, db, &models.Product{Name: "rice", Price: 9000})

	_, err := svc.UpdateQuantity(context.Background(), 1, 1, 3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveAndEmpty(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{Name: "rice", Price: 9000, CuttedPrice: 9000})
	seedProduct(t, db, &models.Product{Name: "soap", Price: 4500, CuttedPrice: 4500})

	_, err := svc.Add(ctx, 1, 1, 1, "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, 2, 1, "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, 1))
	require.ErrorIs(t, svc.Remove(ctx, 1, 1), ErrNotFound)

	require.NoError(t, svc.Empty(ctx, 1))
	items, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	totals, err := svc.Totals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.Total)
}

func TestTotals_MatchesPricingIdentity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedProduct(t, db, &models.Product{Name: "rice", Price: 10000, CuttedPrice: 12000})

	_, err := svc.Add(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	totals, err := svc.Totals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(24000), totals.Subtotal)
	assert.Equal(t, int64(4000), totals.Discount)
	assert.Equal(t, totals.Total, totals.Subtotal-totals.Discount+totals.Tax+totals.Shipping)
}
