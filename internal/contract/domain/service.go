package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contract, error)
	List(ctx context.Context, req ListRequest) ([]Contract, error)
	GetByID(ctx context.Context, id string) (*Contract, error)
	Update(ctx context.Context, req UpdateRequest) (*Contract, error)
	ChangeStatus(ctx context.Context, id string, to Status) (*Contract, error)
}

type CreateRequest struct {
	Code                string           `json:"code"`
	RoomID              string           `json:"room_id"`
	TenantID            string           `json:"tenant_id"`
	Status              *Status          `json:"status"`
	StartDate           string           `json:"start_date"`
	EndDate             string           `json:"end_date"`
	BillingCycle        string           `json:"billing_cycle"`
	Rent                int64            `json:"rent"`
	Deposit             int64            `json:"deposit"`
	ElectricityRate     int64            `json:"electricity_rate"`
	WaterRate           int64            `json:"water_rate"`
	ElectricityBaseline *float64         `json:"electricity_baseline"`
	WaterBaseline       *float64         `json:"water_baseline"`
	ServiceFees         []ServiceFee     `json:"service_fees"`
	Dependents          []Dependent      `json:"dependents"`
	CheckinChecklist    CheckinChecklist `json:"checkin_checklist"`
	Notes               string           `json:"notes"`
	ResidenceStatus     string           `json:"residence_status"`
}

type UpdateRequest struct {
	ID                  string            `json:"id"`
	EndDate             *string           `json:"end_date,omitempty"`
	BillingCycle        *string           `json:"billing_cycle,omitempty"`
	Rent                *int64            `json:"rent,omitempty"`
	Deposit             *int64            `json:"deposit,omitempty"`
	ElectricityRate     *int64            `json:"electricity_rate,omitempty"`
	WaterRate           *int64            `json:"water_rate,omitempty"`
	ElectricityBaseline *float64          `json:"electricity_baseline,omitempty"`
	WaterBaseline       *float64          `json:"water_baseline,omitempty"`
	ServiceFees         []ServiceFee      `json:"service_fees,omitempty"`
	Dependents          []Dependent       `json:"dependents,omitempty"`
	CheckinChecklist    *CheckinChecklist `json:"checkin_checklist,omitempty"`
	Notes               *string           `json:"notes,omitempty"`
	ResidenceStatus     *string           `json:"residence_status,omitempty"`
}

type ListRequest struct {
	Status  *Status
	RoomID  *snowflake.ID
	Managed bool
}

var (
	ErrInvalidCode       = errors.New("invalid_code")
	ErrInvalidRoom       = errors.New("invalid_room")
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidDate       = errors.New("invalid_date")
	ErrInvalidRate       = errors.New("invalid_rate")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrCodeExists        = errors.New("contract_code_exists")
	ErrNotFound          = errors.New("contract_not_found")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
