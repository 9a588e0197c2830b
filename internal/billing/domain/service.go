// Package domain defines the billing view API: override-aware bill
// summaries, roll-ups, trend history, staged grid edits, and the
// issue gate.
package domain

import (
	"context"
	"errors"

	"github.com/roomledger/roomledger/internal/billing/engine"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
)

// Row alerts added on top of the engine's summary alerts.
const (
	AlertNoPreviousElectricity = "no previous electricity reading"
	AlertNoPreviousWater       = "no previous water reading"
)

type Row struct {
	ContractID   string                `json:"contract_id"`
	ContractCode string                `json:"contract_code"`
	RoomID       string                `json:"room_id"`
	RoomName     string                `json:"room_name"`
	PropertyID   string                `json:"property_id"`
	PropertyName string                `json:"property_name"`
	Status       contractdomain.Status `json:"status"`
	Summary      engine.Summary        `json:"summary"`
	Alerts       []string              `json:"alerts"`
	HardError    bool                  `json:"hard_error"`
	Warning      bool                  `json:"warning"`
}

type SummaryRequest struct {
	Month      string
	PropertyID string
	Status     *contractdomain.Status
}

type SummaryResponse struct {
	Month    string        `json:"month"`
	Rows     []Row         `json:"rows"`
	Totals   engine.Totals `json:"totals"`
	CanIssue bool          `json:"can_issue"`
}

type HistoryRequest struct {
	ContractID string
	Month      string
	Count      int
}

type EditRequest struct {
	ContractID string
	Edit       engine.Override
}

type IssueResult struct {
	Month     string `json:"month"`
	Contracts int    `json:"contracts"`
}

type Service interface {
	Summarize(ctx context.Context, req SummaryRequest) (*SummaryResponse, error)
	History(ctx context.Context, req HistoryRequest) ([]engine.HistoryPoint, error)
	Months(ctx context.Context) ([]string, error)
	OpenMonth(ctx context.Context, month string) (int, error)
	StageEdit(ctx context.Context, req EditRequest) error
	FlushEdits(ctx context.Context) (int, error)
	DiscardEdits(ctx context.Context)
	IssueInvoices(ctx context.Context, req SummaryRequest) (*IssueResult, error)
}

var (
	ErrInvalidMonth    = errors.New("invalid_month")
	ErrInvalidContract = errors.New("invalid_contract")
	ErrInvalidCount    = errors.New("invalid_count")
	ErrIssueBlocked    = errors.New("issue_blocked_by_hard_errors")
)
