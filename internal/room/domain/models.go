// Package domain contains room models for the rental admin console.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status tracks whether a room is rented out.
type Status string

const (
	StatusVacant   Status = "VACANT"
	StatusOccupied Status = "OCCUPIED"
	StatusRepair   Status = "REPAIR"
)

func (s Status) Valid() bool {
	switch s {
	case StatusVacant, StatusOccupied, StatusRepair:
		return true
	}
	return false
}

// Room is a rentable unit inside a property.
type Room struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	PropertyID snowflake.ID  `json:"property_id" gorm:"index;not null"`
	Name       string        `json:"name" gorm:"type:text;not null"`
	Status     Status        `json:"status" gorm:"type:text;not null;default:'VACANT'"`
	TenantID   *snowflake.ID `json:"tenant_id,omitempty" gorm:"index"`
	// Price is the monthly rent in the minor currency unit.
	Price     int64     `json:"price" gorm:"not null;default:0"`
	AreaM2    int       `json:"area_m2" gorm:"not null;default:0"`
	Deposit   int64     `json:"deposit" gorm:"not null;default:0"`
	Equipment []string  `json:"equipment" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Room) TableName() string { return "rooms" }

type CreateRequest struct {
	PropertyID string   `json:"property_id"`
	Name       string   `json:"name"`
	Status     Status   `json:"status,omitempty"`
	TenantID   *string  `json:"tenant_id,omitempty"`
	Price      int64    `json:"price"`
	AreaM2     int      `json:"area_m2"`
	Deposit    int64    `json:"deposit"`
	Equipment  []string `json:"equipment,omitempty"`
}

type UpdateRequest struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Status    *Status   `json:"status,omitempty"`
	TenantID  *string   `json:"tenant_id,omitempty"`
	Price     *int64    `json:"price,omitempty"`
	AreaM2    *int      `json:"area_m2,omitempty"`
	Deposit   *int64    `json:"deposit,omitempty"`
	Equipment *[]string `json:"equipment,omitempty"`
}

type ListFilter struct {
	PropertyID string
	Status     *Status
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	List(ctx context.Context, filter ListFilter) ([]Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	Update(ctx context.Context, req UpdateRequest) (*Room, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidProperty = errors.New("invalid_property")
	ErrNotFound        = errors.New("room_not_found")
)
