package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.UnitVariant{}))
	return &Service{Repo: &GormRepo{DB: db}}
}

func TestCreateProduct_PersistsUnits(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := models.Product{
		Name:        "green tea",
		Description: "loose leaf",
		Price:       30000,
		CuttedPrice: 35000,
		Units: []models.UnitVariant{
			{Name: "100g", Price: 30000, CuttedPrice: 35000, MinQty: 1, Increment: 1, IsDefault: true},
			{Name: "500g", Price: 130000, CuttedPrice: 150000, MinQty: 1, Increment: 1},
		},
	}
	require.NoError(t, svc.CreateProduct(ctx, &p))
	require.NotZero(t, p.ID)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Units, 2)
	require.Equal(t, "100g", got.Units[0].Name)
	require.True(t, got.Units[0].IsDefault)
}

func TestCreateProduct_RejectsInvertedUnitBounds(t *testing.T) {
	svc := newTestService(t)

	p := models.Product{
		Name:  "flour",
		Price: 5000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 5000, MinQty: 10, MaxQty: 5, Increment: 1},
		},
	}
	err := svc.CreateProduct(context.Background(), &p)
	require.ErrorIs(t, err, pricing.ErrValidation)
}

func TestCreateProduct_RejectsTwoDefaultUnits(t *testing.T) {
	svc := newTestService(t)

	p := models.Product{
		Name:  "flour",
		Price: 5000,
		Units: []models.UnitVariant{
			{Name: "kg", Price: 5000, IsDefault: true},
			{Name: "bag", Price: 25000, IsDefault: true},
		},
	}
	err := svc.CreateProduct(context.Background(), &p)
	require.ErrorIs(t, err, pricing.ErrValidation)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, pricing.ErrNotFound)
}

func TestUpdateProduct_ReplacesUnitList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := models.Product{
		Name:  "coffee",
		Price: 40000,
		Units: []models.UnitVariant{
			{Name: "250g", Price: 40000, MinQty: 1, Increment: 1},
		},
	}
	require.NoError(t, svc.CreateProduct(ctx, &p))

	p.Units = []models.UnitVariant{
		{ProductID: p.ID, Name: "250g", Price: 42000, MinQty: 1, Increment: 1},
		{ProductID: p.ID, Name: "1kg", Price: 150000, MinQty: 1, Increment: 1, IsDefault: true},
	}
	require.NoError(t, svc.UpdateProduct(ctx, &p))

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Units, 2)
}
