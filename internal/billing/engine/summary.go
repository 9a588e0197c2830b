package engine

import (
	"math"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"github.com/roomledger/roomledger/pkg/opt"
)

// spikeFactor flags a consumption at or above 150% of the previous
// period's.
const spikeFactor = 1.5

// Alert strings surfaced on a summary.
const (
	AlertNegativeElectricity = "negative electricity reading, check the meter"
	AlertNegativeWater       = "negative water reading, check the meter"
	AlertElectricitySpike    = "electricity consumption up more than 50% vs previous period"
	AlertWaterSpike          = "water consumption up more than 50% vs previous period"
)

// Override carries unsaved edits for one contract. It only applies when
// its Month matches the summarized month. Field semantics follow the
// patch tri-state: absent keeps the committed value, null clears it.
type Override struct {
	Month              string             `json:"month"`
	ElectricityCurrent opt.Value[float64] `json:"electricity_current"`
	WaterCurrent       opt.Value[float64] `json:"water_current"`
	WifiDevices        opt.Value[int]     `json:"wifi_devices"`
	TrashIncluded      opt.Value[bool]    `json:"trash_included"`
	OtherAmount        opt.Value[int64]   `json:"other_amount"`
	OtherNote          opt.Value[string]  `json:"other_note"`
}

// Overrides maps contract id to its in-flight edit.
type Overrides map[snowflake.ID]Override

type MeterLine struct {
	Prev                *float64 `json:"prev"`
	Current             *float64 `json:"current"`
	Consumption         *float64 `json:"consumption"`
	PreviousConsumption *float64 `json:"previous_consumption"`
	Delta               *float64 `json:"delta"`
	Rate                int64    `json:"rate"`
	Amount              int64    `json:"amount"`
}

type WifiLine struct {
	Devices int   `json:"devices"`
	Amount  int64 `json:"amount"`
}

type TrashLine struct {
	Included bool  `json:"included"`
	Amount   int64 `json:"amount"`
}

type SecurityLine struct {
	Occupants int   `json:"occupants"`
	Amount    int64 `json:"amount"`
}

type OtherLine struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// Summary is the derived bill for one (contract, month). It is never
// persisted; it is recomputed from the ledger and catalog on each read.
type Summary struct {
	ContractID        snowflake.ID `json:"contract_id"`
	Month             string       `json:"month"`
	FirstBillingMonth bool         `json:"first_billing_month"`
	Electricity       MeterLine    `json:"electricity"`
	Water             MeterLine    `json:"water"`
	Wifi              WifiLine     `json:"wifi"`
	Trash             TrashLine    `json:"trash"`
	Security          SecurityLine `json:"security"`
	Other             OtherLine    `json:"other"`
	Total             int64        `json:"total"`
	Alerts            []string     `json:"alerts"`
}

// HasHardError reports whether the summary blocks invoice issuing:
// negative consumption or no resolvable prior reading on either meter.
func (s Summary) HasHardError() bool {
	return negative(s.Electricity.Consumption) ||
		negative(s.Water.Consumption) ||
		s.Electricity.Prev == nil ||
		s.Water.Prev == nil
}

func negative(v *float64) bool {
	return v != nil && *v < 0
}

// Summarize derives the bill for one contract and month. An applicable
// override is merged over the stored record before the non-metered
// lines are priced; meter consumption always follows the committed
// ledger, so an in-flight reading edit shows up as Current but only
// reprices once committed.
func Summarize(
	contract contractdomain.Contract,
	ledger *Ledger,
	catalog []catalogdomain.ServiceDefinition,
	month string,
	overrides Overrides,
) *Summary {
	if month == "" {
		return nil
	}

	record := usagedomain.Record{ContractID: contract.ID, Month: month}
	if stored := ledger.Find(contract.ID, month); stored != nil {
		record = *stored
	}

	if override, ok := overrides[contract.ID]; ok && override.Month == month {
		override.ElectricityCurrent.Apply(&record.ElectricityCurrent)
		override.WaterCurrent.Apply(&record.WaterCurrent)
		override.WifiDevices.ApplyValue(&record.WifiDevices, 0)
		override.TrashIncluded.ApplyValue(&record.TrashIncluded, false)
		override.OtherAmount.ApplyValue(&record.OtherAmount, 0)
		override.OtherNote.ApplyValue(&record.OtherNote, "")
	}

	electricityPrev := ResolvePriorReading(contract, ledger, month, usagedomain.MeterElectricity)
	waterPrev := ResolvePriorReading(contract, ledger, month, usagedomain.MeterWater)
	electricityConsumption := MeterConsumption(contract, ledger, month, usagedomain.MeterElectricity)
	waterConsumption := MeterConsumption(contract, ledger, month, usagedomain.MeterWater)

	prevMonth := PreviousMonth(month)
	prevElectricityConsumption := MeterConsumption(contract, ledger, prevMonth, usagedomain.MeterElectricity)
	prevWaterConsumption := MeterConsumption(contract, ledger, prevMonth, usagedomain.MeterWater)

	electricityRate := rateFor(contract.ElectricityRate, findService(catalog, catalogdomain.ServiceElectricity))
	waterRate := rateFor(contract.WaterRate, findService(catalog, catalogdomain.ServiceWater))

	wifiDevices := record.WifiDevices
	if contract.Status == contractdomain.StatusTerminated {
		wifiDevices = 0
	}
	wifiAmount := int64(wifiDevices) * unitPrice(findService(catalog, catalogdomain.ServiceWifi))

	trashAmount := int64(0)
	if record.TrashIncluded {
		trashAmount = unitPrice(findService(catalog, catalogdomain.ServiceTrash))
	}

	occupants := 0
	if contract.Status.Managed() {
		occupants = 1 + len(contract.Dependents)
	}
	securityAmount := int64(occupants) * unitPrice(findService(catalog, catalogdomain.ServiceSecurity))

	summary := &Summary{
		ContractID:        contract.ID,
		Month:             month,
		FirstBillingMonth: contract.StartMonth() != "" && month == contract.StartMonth(),
		Electricity: MeterLine{
			Prev:                electricityPrev,
			Current:             copyFloat(record.ElectricityCurrent),
			Consumption:         electricityConsumption,
			PreviousConsumption: prevElectricityConsumption,
			Delta:               delta(electricityConsumption, prevElectricityConsumption),
			Rate:                electricityRate,
			Amount:              meterAmount(electricityConsumption, electricityRate),
		},
		Water: MeterLine{
			Prev:                waterPrev,
			Current:             copyFloat(record.WaterCurrent),
			Consumption:         waterConsumption,
			PreviousConsumption: prevWaterConsumption,
			Delta:               delta(waterConsumption, prevWaterConsumption),
			Rate:                waterRate,
			Amount:              meterAmount(waterConsumption, waterRate),
		},
		Wifi:     WifiLine{Devices: wifiDevices, Amount: wifiAmount},
		Trash:    TrashLine{Included: record.TrashIncluded, Amount: trashAmount},
		Security: SecurityLine{Occupants: occupants, Amount: securityAmount},
		Other:    OtherLine{Amount: record.OtherAmount, Note: record.OtherNote},
	}

	summary.Total = summary.Electricity.Amount +
		summary.Water.Amount +
		summary.Wifi.Amount +
		summary.Trash.Amount +
		summary.Security.Amount +
		summary.Other.Amount

	summary.Alerts = buildAlerts(summary)
	return summary
}

func buildAlerts(s *Summary) []string {
	alerts := []string{}
	if negative(s.Electricity.Consumption) {
		alerts = append(alerts, AlertNegativeElectricity)
	}
	if negative(s.Water.Consumption) {
		alerts = append(alerts, AlertNegativeWater)
	}
	if spiked(s.Electricity.Consumption, s.Electricity.PreviousConsumption) {
		alerts = append(alerts, AlertElectricitySpike)
	}
	if spiked(s.Water.Consumption, s.Water.PreviousConsumption) {
		alerts = append(alerts, AlertWaterSpike)
	}
	return alerts
}

// spiked requires a positive previous consumption: the first period a
// contract has a reading never spikes.
func spiked(current, previous *float64) bool {
	return current != nil && previous != nil && *previous > 0 && *current >= *previous*spikeFactor
}

func delta(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	d := *current - *previous
	return &d
}

// meterAmount charges only positive consumption. Negative or unknown
// consumption contributes zero and is surfaced through alerts instead.
func meterAmount(consumption *float64, rate int64) int64 {
	if consumption == nil || *consumption <= 0 {
		return 0
	}
	return roundMoney(*consumption * float64(rate))
}

// rateFor prefers the contract's negotiated rate, falling back to the
// catalog unit price when the contract has none.
func rateFor(contractRate int64, def *catalogdomain.ServiceDefinition) int64 {
	if contractRate > 0 {
		return contractRate
	}
	return unitPrice(def)
}

func findService(catalog []catalogdomain.ServiceDefinition, id string) *catalogdomain.ServiceDefinition {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}

func unitPrice(def *catalogdomain.ServiceDefinition) int64 {
	if def == nil {
		return 0
	}
	return def.UnitPrice
}

func roundMoney(raw float64) int64 {
	return int64(math.Floor(raw + 0.5))
}
