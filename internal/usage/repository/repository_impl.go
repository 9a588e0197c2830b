package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"gorm.io/gorm"
)

type repository struct{}

func New() usagedomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, record *usagedomain.Record) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repository) InsertBatch(ctx context.Context, db *gorm.DB, records []*usagedomain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(records).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, record *usagedomain.Record) error {
	return db.WithContext(ctx).Save(record).Error
}

func (r *repository) Find(ctx context.Context, db *gorm.DB, contractID snowflake.ID, month string) (*usagedomain.Record, error) {
	var record usagedomain.Record
	err := db.WithContext(ctx).
		Where("contract_id = ? AND month = ?", contractID, month).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByMonth(ctx context.Context, db *gorm.DB, month string) ([]usagedomain.Record, error) {
	var records []usagedomain.Record
	err := db.WithContext(ctx).
		Where("month = ?", month).
		Order("contract_id asc").
		Find(&records).Error
	return records, err
}

func (r *repository) ListByContract(ctx context.Context, db *gorm.DB, contractID snowflake.ID) ([]usagedomain.Record, error) {
	var records []usagedomain.Record
	err := db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("month asc").
		Find(&records).Error
	return records, err
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]usagedomain.Record, error) {
	var records []usagedomain.Record
	err := db.WithContext(ctx).Order("month asc, contract_id asc").Find(&records).Error
	return records, err
}

func (r *repository) AnyInMonth(ctx context.Context, db *gorm.DB, month string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&usagedomain.Record{}).
		Where("month = ?", month).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LatestForContract(ctx context.Context, db *gorm.DB, contractID snowflake.ID) (*usagedomain.Record, error) {
	var record usagedomain.Record
	err := db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("month desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) Months(ctx context.Context, db *gorm.DB) ([]string, error) {
	var months []string
	err := db.WithContext(ctx).
		Model(&usagedomain.Record{}).
		Distinct("month").
		Order("month asc").
		Pluck("month", &months).Error
	return months, err
}
