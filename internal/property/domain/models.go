// Package domain contains boarding-house property models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Property is one boarding house / rental site.
type Property struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Address   string       `json:"address" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Property) TableName() string { return "properties" }

type CreateRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type UpdateRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Property, error)
	List(ctx context.Context) ([]Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
	Update(ctx context.Context, req UpdateRequest) (*Property, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("property_not_found")
)
