package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	"github.com/roomledger/roomledger/pkg/opt"
)

// Patch is a sparse update for a usage record. Each field is tri-state:
// absent (keep), null (clear), or a value (set).
type Patch struct {
	ElectricityCurrent opt.Value[float64] `json:"electricity_current"`
	WaterCurrent       opt.Value[float64] `json:"water_current"`
	WifiDevices        opt.Value[int]     `json:"wifi_devices"`
	TrashIncluded      opt.Value[bool]    `json:"trash_included"`
	OtherAmount        opt.Value[int64]   `json:"other_amount"`
	OtherNote          opt.Value[string]  `json:"other_note"`
}

// Empty reports whether the patch carries no fields at all.
func (p Patch) Empty() bool {
	return !p.ElectricityCurrent.Present() &&
		!p.WaterCurrent.Present() &&
		!p.WifiDevices.Present() &&
		!p.TrashIncluded.Present() &&
		!p.OtherAmount.Present() &&
		!p.OtherNote.Present()
}

type Service interface {
	Upsert(ctx context.Context, contractID snowflake.ID, month string, patch Patch) (*Record, error)
	EnsureMonthRecords(ctx context.Context, month string, contracts []contractdomain.Contract) (int, error)
	ListByMonth(ctx context.Context, month string) ([]Record, error)
	ListByContract(ctx context.Context, contractID snowflake.ID) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	Months(ctx context.Context) ([]string, error)
}

var (
	ErrInvalidContract = errors.New("invalid_contract")
	ErrInvalidMonth    = errors.New("invalid_month")
)

// ValidMonth reports whether value is a well-formed YYYY-MM key.
func ValidMonth(value string) bool {
	if len(value) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", value)
	return err == nil
}
