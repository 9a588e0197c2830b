package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ServiceDefinition, error)
	List(ctx context.Context) ([]ServiceDefinition, error)
	GetByID(ctx context.Context, id string) (*ServiceDefinition, error)
	Update(ctx context.Context, req UpdateRequest) (*ServiceDefinition, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name      string  `json:"name"`
	UnitPrice int64   `json:"unit_price"`
	Method    *Method `json:"method"`
	Unit      string  `json:"unit"`
}

type UpdateRequest struct {
	ID        string  `json:"id"`
	Name      *string `json:"name,omitempty"`
	UnitPrice *int64  `json:"unit_price,omitempty"`
	Method    *Method `json:"method,omitempty"`
	Unit      *string `json:"unit,omitempty"`
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPrice  = errors.New("invalid_unit_price")
	ErrInvalidMethod = errors.New("invalid_method")
	ErrNotFound      = errors.New("not_found")
	ErrLocked        = errors.New("service_locked")
)
