package engine

import (
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
)

// Totals is the roll-up of a set of contract summaries. Consumption is
// only accumulated when positive; amounts are summed as-is.
type Totals struct {
	Contracts              int     `json:"contracts"`
	ElectricityConsumption float64 `json:"electricity_consumption"`
	ElectricityAmount      int64   `json:"electricity_amount"`
	WaterConsumption       float64 `json:"water_consumption"`
	WaterAmount            int64   `json:"water_amount"`
	WifiDevices            int     `json:"wifi_devices"`
	WifiAmount             int64   `json:"wifi_amount"`
	TrashContracts         int     `json:"trash_contracts"`
	TrashAmount            int64   `json:"trash_amount"`
	SecurityOccupants      int     `json:"security_occupants"`
	SecurityAmount         int64   `json:"security_amount"`
	OtherAmount            int64   `json:"other_amount"`
	TotalAmount            int64   `json:"total_amount"`
}

// Aggregate folds summaries into Totals. It is a plain fold: no
// cross-contract logic, so totals are additive over any partition.
func Aggregate(summaries []Summary) Totals {
	var totals Totals
	for i := range summaries {
		s := summaries[i]
		totals.Contracts++
		if s.Electricity.Consumption != nil && *s.Electricity.Consumption > 0 {
			totals.ElectricityConsumption += *s.Electricity.Consumption
		}
		totals.ElectricityAmount += s.Electricity.Amount
		if s.Water.Consumption != nil && *s.Water.Consumption > 0 {
			totals.WaterConsumption += *s.Water.Consumption
		}
		totals.WaterAmount += s.Water.Amount
		totals.WifiDevices += s.Wifi.Devices
		totals.WifiAmount += s.Wifi.Amount
		if s.Trash.Included {
			totals.TrashContracts++
		}
		totals.TrashAmount += s.Trash.Amount
		totals.SecurityOccupants += s.Security.Occupants
		totals.SecurityAmount += s.Security.Amount
		totals.OtherAmount += s.Other.Amount
		totals.TotalAmount += s.Total
	}
	return totals
}

// HistoryPoint is one month of electricity consumption for trend
// rendering. Value is nil for months without a computable consumption.
type HistoryPoint struct {
	Month string   `json:"month"`
	Value *float64 `json:"value"`
}

// History returns the trailing count months of electricity consumption
// ending at month, oldest first. Gaps are kept as nil values rather
// than omitted so sparklines stay aligned.
func History(contract contractdomain.Contract, ledger *Ledger, month string, count int) []HistoryPoint {
	points := make([]HistoryPoint, 0, count)
	cursor := month
	for steps := 0; cursor != "" && steps < count; steps++ {
		value := MeterConsumption(contract, ledger, cursor, usagedomain.MeterElectricity)
		points = append([]HistoryPoint{{Month: cursor, Value: value}}, points...)
		cursor = PreviousMonth(cursor)
	}
	return points
}
