// Package domain contains maintenance ticket models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the ticket lifecycle state.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority orders the work queue.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityUrgent:
		return true
	}
	return false
}

// Ticket is a repair or upkeep request tied to a room.
type Ticket struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	RoomID     snowflake.ID `json:"room_id" gorm:"index;not null"`
	Request    string       `json:"request" gorm:"type:text;not null"`
	Status     Status       `json:"status" gorm:"type:text;not null;default:'NEW'"`
	Priority   Priority     `json:"priority" gorm:"type:text;not null;default:'MEDIUM'"`
	// Cost is nil until the work is quoted or done.
	Cost     *int64            `json:"cost,omitempty"`
	Metadata datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
}

// TableName sets the database table name.
func (Ticket) TableName() string { return "maintenance_tickets" }

type CreateRequest struct {
	RoomID   string            `json:"room_id"`
	Request  string            `json:"request"`
	Priority Priority          `json:"priority,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

type UpdateRequest struct {
	ID       string          `json:"id"`
	Request  *string         `json:"request,omitempty"`
	Status   *Status         `json:"status,omitempty"`
	Priority *Priority       `json:"priority,omitempty"`
	Cost     *int64          `json:"cost,omitempty"`
	Metadata *map[string]any `json:"metadata,omitempty"`
}

type ListFilter struct {
	RoomID   string
	Status   *Status
	Priority *Priority
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Ticket, error)
	List(ctx context.Context, filter ListFilter) ([]Ticket, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	Update(ctx context.Context, req UpdateRequest) (*Ticket, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidRoom     = errors.New("invalid_room")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrNotFound        = errors.New("ticket_not_found")
)
