// Package domain contains tenant models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is a person renting (or applying to rent) a room.
type Tenant struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	Name     string       `json:"name" gorm:"type:text;not null"`
	Phone    string       `json:"phone" gorm:"type:text"`
	// BirthDate is stored as YYYY-MM-DD.
	BirthDate string    `json:"birth_date" gorm:"type:text"`
	IDCard    string    `json:"id_card" gorm:"type:text"`
	Hometown  string    `json:"hometown" gorm:"type:text"`
	Documents []string  `json:"documents" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

type CreateRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	BirthDate string   `json:"birth_date"`
	IDCard    string   `json:"id_card"`
	Hometown  string   `json:"hometown"`
	Documents []string `json:"documents,omitempty"`
}

type UpdateRequest struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"`
	IDCard    *string   `json:"id_card,omitempty"`
	Hometown  *string   `json:"hometown,omitempty"`
	Documents *[]string `json:"documents,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, req UpdateRequest) (*Tenant, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvalidDate = errors.New("invalid_date")
	ErrNotFound    = errors.New("tenant_not_found")
)
