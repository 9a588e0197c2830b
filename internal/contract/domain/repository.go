package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contract *Contract) error
	Update(ctx context.Context, db *gorm.DB, contract *Contract) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Contract, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Contract, error)
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]Contract, error)
}
