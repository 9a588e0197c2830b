package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	InsertBatch(ctx context.Context, db *gorm.DB, records []*Record) error
	Update(ctx context.Context, db *gorm.DB, record *Record) error
	Find(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) (*Record, error)
	ListByMonth(ctx context.Context, db *gorm.DB, month string) ([]Record, error)
	ListByContract(ctx context.Context, db *gorm.DB, contractID snowflake.ID) ([]Record, error)
	List(ctx context.Context, db *gorm.DB) ([]Record, error)
	AnyInMonth(ctx context.Context, db *gorm.DB, month string) (bool, error)
	LatestForContract(ctx context.Context, db *gorm.DB, contractID snowflake.ID) (*Record, error)
	Months(ctx context.Context, db *gorm.DB) ([]string, error)
}
