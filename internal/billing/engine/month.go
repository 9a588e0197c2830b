// Package engine computes per-contract service bills from the usage
// ledger and the service catalog. Everything in this package is pure:
// state comes in as arguments and nothing is persisted.
package engine

import "time"

const monthLayout = "2006-01"

// PreviousMonth returns the YYYY-MM key one calendar month before
// month, or "" when month is malformed.
func PreviousMonth(month string) string {
	return shiftMonth(month, -1)
}

// NextMonth returns the YYYY-MM key one calendar month after month, or
// "" when month is malformed.
func NextMonth(month string) string {
	return shiftMonth(month, 1)
}

func shiftMonth(month string, offset int) string {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, offset, 0).Format(monthLayout)
}
