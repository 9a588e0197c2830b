package engine

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
)

type ledgerKey struct {
	contractID snowflake.ID
	month      string
}

// Ledger is an indexed, read-only view over usage records.
type Ledger struct {
	records map[ledgerKey]*usagedomain.Record
	months  []string
}

// NewLedger indexes records by (contract, month). Later duplicates win,
// though the store's unique index should make duplicates impossible.
func NewLedger(records []usagedomain.Record) *Ledger {
	indexed := make(map[ledgerKey]*usagedomain.Record, len(records))
	seen := make(map[string]struct{})
	for i := range records {
		record := records[i]
		indexed[ledgerKey{contractID: record.ContractID, month: record.Month}] = &record
		seen[record.Month] = struct{}{}
	}

	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)

	return &Ledger{records: indexed, months: months}
}

// Find returns the record for (contractID, month), or nil.
func (l *Ledger) Find(contractID snowflake.ID, month string) *usagedomain.Record {
	if l == nil || month == "" {
		return nil
	}
	return l.records[ledgerKey{contractID: contractID, month: month}]
}

// Months returns the distinct months present, ascending.
func (l *Ledger) Months() []string {
	if l == nil {
		return nil
	}
	return l.months
}
