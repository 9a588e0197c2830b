package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	"github.com/roomledger/roomledger/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.ServiceDefinition{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &Service{
		db:    db,
		log:   zap.NewNop(),
		repo:  repository.New(),
		genID: node,
	}
}

func methodPtr(m catalogdomain.Method) *catalogdomain.Method { return &m }

func TestCreate_SlugifiesName(t *testing.T) {
	svc := newTestService(t)

	def, err := svc.Create(context.Background(), catalogdomain.CreateRequest{
		Name:      "Giữ xe tháng",
		UnitPrice: 150000,
		Method:    methodPtr(catalogdomain.MethodPerRoom),
	})
	require.NoError(t, err)
	assert.Equal(t, "giu-xe-thang", def.ID)
	assert.False(t, def.Locked)
}

func TestCreate_SuffixesDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, catalogdomain.CreateRequest{Name: "Giữ xe", UnitPrice: 100000})
	require.NoError(t, err)

	second, err := svc.Create(ctx, catalogdomain.CreateRequest{Name: "Giữ xe", UnitPrice: 120000})
	require.NoError(t, err)

	assert.Equal(t, "giu-xe", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, second.ID, "giu-xe-")
}

func TestCreate_DefaultsToPerRoom(t *testing.T) {
	svc := newTestService(t)

	def, err := svc.Create(context.Background(), catalogdomain.CreateRequest{Name: "Vệ sinh", UnitPrice: 50000})
	require.NoError(t, err)
	assert.Equal(t, catalogdomain.MethodPerRoom, def.Method)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalogdomain.CreateRequest{Name: "  "})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidName)

	_, err = svc.Create(ctx, catalogdomain.CreateRequest{Name: "Điện", UnitPrice: -1})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidPrice)

	bad := catalogdomain.Method("per-building")
	_, err = svc.Create(ctx, catalogdomain.CreateRequest{Name: "Điện", Method: &bad})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidMethod)
}

func TestDelete_RefusesLockedService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	locked := catalogdomain.ServiceDefinition{
		ID:        catalogdomain.ServiceElectricity,
		Name:      "Điện",
		UnitPrice: 3500,
		Method:    catalogdomain.MethodMeter,
		Locked:    true,
	}
	require.NoError(t, svc.db.Create(&locked).Error)

	err := svc.Delete(ctx, catalogdomain.ServiceElectricity)
	assert.ErrorIs(t, err, catalogdomain.ErrLocked)

	still, err := svc.GetByID(ctx, catalogdomain.ServiceElectricity)
	require.NoError(t, err)
	assert.Equal(t, "Điện", still.Name)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	def, err := svc.Create(ctx, catalogdomain.CreateRequest{Name: "Wifi", UnitPrice: 65000})
	require.NoError(t, err)

	price := int64(70000)
	updated, err := svc.Update(ctx, catalogdomain.UpdateRequest{ID: def.ID, UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(70000), updated.UnitPrice)
	assert.Equal(t, "Wifi", updated.Name)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(t)
	err := svc.Delete(context.Background(), "no-such-service")
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}
