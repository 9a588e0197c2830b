package engine

import (
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
)

// maxLookback bounds the backward walk when resolving a prior reading.
const maxLookback = 60

func baseline(contract contractdomain.Contract, key usagedomain.MeterKey) *float64 {
	switch key {
	case usagedomain.MeterElectricity:
		return copyFloat(contract.ElectricityBaseline)
	case usagedomain.MeterWater:
		return copyFloat(contract.WaterBaseline)
	default:
		return nil
	}
}

// ResolvePriorReading finds the reading the current month's meter value
// should be compared against: the nearest earlier month with a known
// reading, never crossing before the contract's start month, falling
// back to the contract's meter baseline. Gaps in the ledger are skipped
// so a new reading always compares against the last known one.
func ResolvePriorReading(contract contractdomain.Contract, ledger *Ledger, month string, key usagedomain.MeterKey) *float64 {
	if month == "" {
		return baseline(contract, key)
	}

	cursor := PreviousMonth(month)
	startMonth := contract.StartMonth()
	for steps := 0; cursor != "" && steps < maxLookback; steps++ {
		if startMonth != "" && cursor < startMonth {
			break
		}
		if record := ledger.Find(contract.ID, cursor); record != nil {
			if value := record.Current(key); value != nil {
				return copyFloat(value)
			}
		}
		cursor = PreviousMonth(cursor)
	}

	return baseline(contract, key)
}

// MeterConsumption returns current reading minus the resolved prior
// reading, or nil when either side is unknown. Negative values are
// returned as-is; they are a reportable condition, not an error.
func MeterConsumption(contract contractdomain.Contract, ledger *Ledger, month string, key usagedomain.MeterKey) *float64 {
	if month == "" {
		return nil
	}

	record := ledger.Find(contract.ID, month)
	if record == nil {
		return nil
	}
	current := record.Current(key)
	if current == nil {
		return nil
	}

	prior := ResolvePriorReading(contract, ledger, month, key)
	if prior == nil {
		return nil
	}

	consumption := *current - *prior
	return &consumption
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
