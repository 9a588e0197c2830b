package engine

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"github.com/roomledger/roomledger/pkg/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func testCatalog() []catalogdomain.ServiceDefinition {
	return []catalogdomain.ServiceDefinition{
		{ID: catalogdomain.ServiceElectricity, Name: "Điện", UnitPrice: 3500, Method: catalogdomain.MethodMeter, Unit: "kWh", Locked: true},
		{ID: catalogdomain.ServiceWater, Name: "Nước", UnitPrice: 18000, Method: catalogdomain.MethodMeter, Unit: "m³", Locked: true},
		{ID: catalogdomain.ServiceWifi, Name: "Wifi", UnitPrice: 65000, Method: catalogdomain.MethodPerRoom},
		{ID: catalogdomain.ServiceTrash, Name: "Rác sinh hoạt", UnitPrice: 30000, Method: catalogdomain.MethodPerRoom},
		{ID: catalogdomain.ServiceSecurity, Name: "An ninh", UnitPrice: 50000, Method: catalogdomain.MethodPerPerson},
	}
}

func testContract(id int64) contractdomain.Contract {
	return contractdomain.Contract{
		ID:                  snowflake.ID(id),
		Code:                "HD-TEST",
		Status:              contractdomain.StatusActive,
		StartDate:           "2025-07-01",
		ElectricityRate:     3500,
		WaterRate:           18000,
		ElectricityBaseline: fptr(100),
		WaterBaseline:       fptr(40),
	}
}

func TestMonthArithmetic(t *testing.T) {
	assert.Equal(t, "2025-08", PreviousMonth("2025-09"))
	assert.Equal(t, "2024-12", PreviousMonth("2025-01"))
	assert.Equal(t, "2025-10", NextMonth("2025-09"))
	assert.Equal(t, "2026-01", NextMonth("2025-12"))
	assert.Equal(t, "", PreviousMonth("not-a-month"))
	assert.Equal(t, "", NextMonth(""))
}

func TestResolvePriorReading_BaselineFallback(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger(nil)

	prior := ResolvePriorReading(contract, ledger, "2025-08", usagedomain.MeterElectricity)
	require.NotNil(t, prior)
	assert.Equal(t, float64(100), *prior)
}

func TestResolvePriorReading_SkipsGaps(t *testing.T) {
	contract := testContract(1)
	// Reading exists in 2025-08; 2025-09 and 2025-10 have no records.
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150)},
	})

	prior := ResolvePriorReading(contract, ledger, "2025-11", usagedomain.MeterElectricity)
	require.NotNil(t, prior)
	assert.Equal(t, float64(150), *prior)
}

func TestResolvePriorReading_StopsAtContractStart(t *testing.T) {
	contract := testContract(1)
	// A record exists before the contract started; it must be ignored.
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-05", ElectricityCurrent: fptr(999)},
	})

	prior := ResolvePriorReading(contract, ledger, "2025-09", usagedomain.MeterElectricity)
	require.NotNil(t, prior)
	assert.Equal(t, float64(100), *prior)
}

func TestSummarize_FirstMonthAgainstBaseline(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46)},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-08", nil)
	require.NotNil(t, summary)

	require.NotNil(t, summary.Electricity.Consumption)
	assert.Equal(t, float64(50), *summary.Electricity.Consumption)
	assert.Equal(t, int64(175000), summary.Electricity.Amount)
	assert.Empty(t, summary.Alerts)
	assert.False(t, summary.HasHardError())
}

func TestSummarize_SpikeAlert(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46)},
		{ContractID: contract.ID, Month: "2025-09", ElectricityCurrent: fptr(240), WaterCurrent: fptr(50)},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-09", nil)
	require.NotNil(t, summary)

	// previous consumption 50, current 90, 90 >= 75
	require.NotNil(t, summary.Electricity.Consumption)
	assert.Equal(t, float64(90), *summary.Electricity.Consumption)
	assert.Contains(t, summary.Alerts, AlertElectricitySpike)
	assert.NotContains(t, summary.Alerts, AlertWaterSpike)
}

func TestSummarize_NoSpikeOnFirstReading(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(400), WaterCurrent: fptr(46)},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-08", nil)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Alerts)
}

func TestSummarize_NegativeConsumption(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46)},
		{ContractID: contract.ID, Month: "2025-09", ElectricityCurrent: fptr(130), WaterCurrent: fptr(48)},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-09", nil)
	require.NotNil(t, summary)

	require.NotNil(t, summary.Electricity.Consumption)
	assert.Equal(t, float64(-20), *summary.Electricity.Consumption)
	assert.Equal(t, int64(0), summary.Electricity.Amount)
	assert.Contains(t, summary.Alerts, AlertNegativeElectricity)
	assert.True(t, summary.HasHardError())
}

func TestSummarize_OverrideMatchesCommittedCurrent(t *testing.T) {
	contract := testContract(1)
	committed := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(180), WaterCurrent: fptr(46)},
	})
	pending := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", WaterCurrent: fptr(46)},
	})

	overridden := Summarize(contract, pending, testCatalog(), "2025-08", Overrides{
		contract.ID: {Month: "2025-08", ElectricityCurrent: opt.Of(float64(180))},
	})
	direct := Summarize(contract, committed, testCatalog(), "2025-08", nil)

	require.NotNil(t, overridden)
	require.NotNil(t, direct)
	require.NotNil(t, overridden.Electricity.Current)
	require.NotNil(t, direct.Electricity.Current)
	assert.Equal(t, *direct.Electricity.Current, *overridden.Electricity.Current)
}

func TestSummarize_OverrideIgnoredForOtherMonth(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46), WifiDevices: 2},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-08", Overrides{
		contract.ID: {Month: "2025-09", WifiDevices: opt.Of(5)},
	})
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Wifi.Devices)
}

func TestSummarize_TerminatedContract(t *testing.T) {
	contract := testContract(1)
	contract.Status = contractdomain.StatusTerminated
	contract.Dependents = []contractdomain.Dependent{{Name: "A"}}
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46), WifiDevices: 3, TrashIncluded: true},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-08", nil)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Wifi.Devices)
	assert.Equal(t, int64(0), summary.Wifi.Amount)
	assert.Equal(t, 0, summary.Security.Occupants)
	assert.Equal(t, int64(0), summary.Security.Amount)
	// trash still charged when included
	assert.Equal(t, int64(30000), summary.Trash.Amount)
}

func TestSummarize_SecurityCountsDependents(t *testing.T) {
	contract := testContract(1)
	contract.Dependents = []contractdomain.Dependent{{Name: "A"}, {Name: "B"}}
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46)},
	})

	summary := Summarize(contract, ledger, testCatalog(), "2025-08", nil)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.Security.Occupants)
	assert.Equal(t, int64(150000), summary.Security.Amount)
}

func TestSummarize_MissingCatalogEntriesContributeZero(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46), WifiDevices: 2, TrashIncluded: true},
	})

	summary := Summarize(contract, ledger, nil, "2025-08", nil)
	require.NotNil(t, summary)
	assert.Equal(t, int64(0), summary.Wifi.Amount)
	assert.Equal(t, int64(0), summary.Trash.Amount)
	assert.Equal(t, int64(0), summary.Security.Amount)
	// contract rates still apply to meters
	assert.Equal(t, int64(175000), summary.Electricity.Amount)
}

func TestAggregate_Additive(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-08", ElectricityCurrent: fptr(150), WaterCurrent: fptr(46), WifiDevices: 2, TrashIncluded: true},
	})

	s1 := Summarize(contract, ledger, testCatalog(), "2025-08", nil)
	require.NotNil(t, s1)
	s2 := *s1

	totals := Aggregate([]Summary{*s1, s2})
	assert.Equal(t, 2, totals.Contracts)
	assert.Equal(t, s1.Total+s2.Total, totals.TotalAmount)
	assert.Equal(t, s1.Electricity.Amount*2, totals.ElectricityAmount)
	assert.Equal(t, 4, totals.WifiDevices)
	assert.Equal(t, 2, totals.TrashContracts)
}

func TestAggregate_SkipsNegativeConsumption(t *testing.T) {
	neg := Summary{Electricity: MeterLine{Consumption: fptr(-20)}, Water: MeterLine{Consumption: fptr(5)}}
	totals := Aggregate([]Summary{neg})
	assert.Equal(t, float64(0), totals.ElectricityConsumption)
	assert.Equal(t, float64(5), totals.WaterConsumption)
}

func TestHistory_KeepsGapsAsNil(t *testing.T) {
	contract := testContract(1)
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: contract.ID, Month: "2025-07", ElectricityCurrent: fptr(120)},
		{ContractID: contract.ID, Month: "2025-09", ElectricityCurrent: fptr(170)},
	})

	points := History(contract, ledger, "2025-09", 3)
	require.Len(t, points, 3)
	assert.Equal(t, "2025-07", points[0].Month)
	assert.Equal(t, "2025-08", points[1].Month)
	assert.Equal(t, "2025-09", points[2].Month)
	require.NotNil(t, points[0].Value)
	assert.Equal(t, float64(20), *points[0].Value)
	assert.Nil(t, points[1].Value)
	require.NotNil(t, points[2].Value)
	// prior resolves through the gap to 2025-07's reading
	assert.Equal(t, float64(50), *points[2].Value)
}

func TestLedgerMonths(t *testing.T) {
	ledger := NewLedger([]usagedomain.Record{
		{ContractID: 1, Month: "2025-09"},
		{ContractID: 2, Month: "2025-08"},
		{ContractID: 1, Month: "2025-08"},
	})
	assert.Equal(t, []string{"2025-08", "2025-09"}, ledger.Months())
}
