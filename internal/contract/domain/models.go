// Package domain contains rental contract models and the contract
// status machine.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusActive     Status = "ACTIVE"
	StatusEnding     Status = "ENDING"
	StatusTerminated Status = "TERMINATED"
)

var transitions = map[Status][]Status{
	StatusDraft:  {StatusActive, StatusTerminated},
	StatusActive: {StatusEnding, StatusTerminated},
	StatusEnding: {StatusTerminated},
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusEnding, StatusTerminated:
		return true
	default:
		return false
	}
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Managed reports whether the contract participates in month coverage
// and occupant-based billing.
func (s Status) Managed() bool {
	return s == StatusActive || s == StatusEnding
}

type Dependent struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	IDCard   string `json:"id_card"`
}

// ServiceFee is a legacy flat fee kept for display; the billing engine
// charges services through the catalog instead.
type ServiceFee struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type CheckinChecklist struct {
	Deposit   bool `json:"deposit"`
	Meter     bool `json:"meter"`
	Documents bool `json:"documents"`
}

// Contract is a rental agreement binding a tenant to a room.
type Contract struct {
	ID                  snowflake.ID     `json:"id" gorm:"primaryKey"`
	Code                string           `json:"code" gorm:"type:text;not null;uniqueIndex"`
	RoomID              snowflake.ID     `json:"room_id" gorm:"not null;index"`
	TenantID            snowflake.ID     `json:"tenant_id" gorm:"not null;index"`
	Status              Status           `json:"status" gorm:"type:text;not null"`
	StartDate           string           `json:"start_date" gorm:"type:text;not null"`
	EndDate             string           `json:"end_date" gorm:"type:text"`
	BillingCycle        string           `json:"billing_cycle" gorm:"type:text"`
	Rent                int64            `json:"rent" gorm:"not null"`
	Deposit             int64            `json:"deposit" gorm:"not null"`
	ElectricityRate     int64            `json:"electricity_rate" gorm:"not null"`
	WaterRate           int64            `json:"water_rate" gorm:"not null"`
	ElectricityBaseline *float64         `json:"electricity_baseline"`
	WaterBaseline       *float64         `json:"water_baseline"`
	ServiceFees         []ServiceFee     `json:"service_fees" gorm:"serializer:json"`
	Dependents          []Dependent      `json:"dependents" gorm:"serializer:json"`
	CheckinChecklist    CheckinChecklist `json:"checkin_checklist" gorm:"serializer:json"`
	Notes               string           `json:"notes" gorm:"type:text"`
	ResidenceStatus     string           `json:"residence_status" gorm:"type:text"`
	CreatedAt           time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "contracts" }

// StartMonth returns the YYYY-MM month the contract started in, or ""
// when no start date is set.
func (c Contract) StartMonth() string {
	if len(c.StartDate) < 7 {
		return ""
	}
	return c.StartDate[:7]
}

// HasFeeLabel reports whether any legacy service fee label contains the
// given fragment, case-insensitively. Used to derive default wifi/trash
// coverage for months opened without history.
func (c Contract) HasFeeLabel(fragment string) bool {
	for _, fee := range c.ServiceFees {
		if strings.Contains(strings.ToLower(fee.Label), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
