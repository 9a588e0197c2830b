package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"github.com/roomledger/roomledger/internal/usage/repository"
	"github.com/roomledger/roomledger/pkg/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&usagedomain.Record{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		repo:  repository.New(),
		genID: node,
	}
	return svc, node
}

func fptr(v float64) *float64 { return &v }

func managedContract(id snowflake.ID) contractdomain.Contract {
	return contractdomain.Contract{
		ID:                  id,
		Code:                "HD-TEST-01",
		Status:              contractdomain.StatusActive,
		StartDate:           "2025-07-01",
		ElectricityBaseline: fptr(100),
		WaterBaseline:       fptr(40),
		ServiceFees: []contractdomain.ServiceFee{
			{Label: "Wifi", Amount: 120000},
			{Label: "Phí rác", Amount: 50000},
		},
	}
}

func TestUpsert_CreatesThenMerges(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	contractID := node.Generate()

	created, err := svc.Upsert(ctx, contractID, "2025-09", usagedomain.Patch{
		ElectricityCurrent: opt.Of(150.0),
	})
	require.NoError(t, err)
	require.NotNil(t, created.ElectricityCurrent)
	assert.Equal(t, 150.0, *created.ElectricityCurrent)
	assert.Nil(t, created.WaterCurrent)

	// A second patch touching different fields must not clobber the first.
	merged, err := svc.Upsert(ctx, contractID, "2025-09", usagedomain.Patch{
		WaterCurrent: opt.Of(52.0),
		WifiDevices:  opt.Of(3),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, merged.ID)
	require.NotNil(t, merged.ElectricityCurrent)
	assert.Equal(t, 150.0, *merged.ElectricityCurrent)
	require.NotNil(t, merged.WaterCurrent)
	assert.Equal(t, 52.0, *merged.WaterCurrent)
	assert.Equal(t, 3, merged.WifiDevices)
}

func TestUpsert_NullClearsReading(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	contractID := node.Generate()

	_, err := svc.Upsert(ctx, contractID, "2025-09", usagedomain.Patch{
		ElectricityCurrent: opt.Of(150.0),
	})
	require.NoError(t, err)

	cleared, err := svc.Upsert(ctx, contractID, "2025-09", usagedomain.Patch{
		ElectricityCurrent: opt.Clear[float64](),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.ElectricityCurrent)
}

func TestUpsert_ClampsNegativeWifiDevices(t *testing.T) {
	svc, node := newTestService(t)

	record, err := svc.Upsert(context.Background(), node.Generate(), "2025-09", usagedomain.Patch{
		WifiDevices: opt.Of(-2),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, record.WifiDevices)
}

func TestUpsert_Validation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, 0, "2025-09", usagedomain.Patch{})
	assert.ErrorIs(t, err, usagedomain.ErrInvalidContract)

	_, err = svc.Upsert(ctx, node.Generate(), "2025-9", usagedomain.Patch{})
	assert.ErrorIs(t, err, usagedomain.ErrInvalidMonth)
}

func TestEnsureMonthRecords_BaselineDefaults(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	contract := managedContract(node.Generate())

	created, err := svc.EnsureMonthRecords(ctx, "2025-09", []contractdomain.Contract{contract})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	records, err := svc.ListByMonth(ctx, "2025-09")
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	require.NotNil(t, record.ElectricityCurrent)
	assert.Equal(t, 100.0, *record.ElectricityCurrent)
	require.NotNil(t, record.WaterCurrent)
	assert.Equal(t, 40.0, *record.WaterCurrent)
	assert.Equal(t, 1, record.WifiDevices)
	assert.True(t, record.TrashIncluded)
}

func TestEnsureMonthRecords_CarriesForwardLatest(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	contract := managedContract(node.Generate())

	_, err := svc.Upsert(ctx, contract.ID, "2025-08", usagedomain.Patch{
		ElectricityCurrent: opt.Of(180.0),
		WaterCurrent:       opt.Of(55.0),
		WifiDevices:        opt.Of(2),
	})
	require.NoError(t, err)

	created, err := svc.EnsureMonthRecords(ctx, "2025-09", []contractdomain.Contract{contract})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	records, err := svc.ListByMonth(ctx, "2025-09")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ElectricityCurrent)
	assert.Equal(t, 180.0, *records[0].ElectricityCurrent)
	assert.Equal(t, 2, records[0].WifiDevices)
}

func TestEnsureMonthRecords_Idempotent(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	contract := managedContract(node.Generate())

	first, err := svc.EnsureMonthRecords(ctx, "2025-09", []contractdomain.Contract{contract})
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	// Any existing record for the month makes the whole call a no-op,
	// including for contracts added afterwards.
	other := managedContract(node.Generate())
	second, err := svc.EnsureMonthRecords(ctx, "2025-09", []contractdomain.Contract{contract, other})
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	records, err := svc.ListByMonth(ctx, "2025-09")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEnsureMonthRecords_TerminatedContractGetsNoWifi(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	contract := managedContract(node.Generate())
	contract.Status = contractdomain.StatusTerminated

	created, err := svc.EnsureMonthRecords(ctx, "2025-09", []contractdomain.Contract{contract})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	records, err := svc.ListByMonth(ctx, "2025-09")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].WifiDevices)
}

func TestMonths_DistinctSorted(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	first := node.Generate()
	second := node.Generate()

	for _, seed := range []struct {
		contractID snowflake.ID
		month      string
	}{
		{first, "2025-09"},
		{first, "2025-08"},
		{second, "2025-09"},
	} {
		_, err := svc.Upsert(ctx, seed.contractID, seed.month, usagedomain.Patch{
			ElectricityCurrent: opt.Of(1.0),
		})
		require.NoError(t, err)
	}

	months, err := svc.Months(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08", "2025-09"}, months)
}
