package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, def *ServiceDefinition) error
	Update(ctx context.Context, db *gorm.DB, def *ServiceDefinition) error
	Delete(ctx context.Context, db *gorm.DB, id string) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*ServiceDefinition, error)
	List(ctx context.Context, db *gorm.DB) ([]ServiceDefinition, error)
}
