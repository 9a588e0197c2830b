package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	"gorm.io/gorm"
)

type repository struct{}

func New() contractdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, contract *contractdomain.Contract) error {
	return db.WithContext(ctx).Create(contract).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, contract *contractdomain.Contract) error {
	return db.WithContext(ctx).Save(contract).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*contractdomain.Contract, error) {
	var contract contractdomain.Contract
	err := db.WithContext(ctx).Where("id = ?", id).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

func (r *repository) FindByCode(ctx context.Context, db *gorm.DB, code string) (*contractdomain.Contract, error) {
	var contract contractdomain.Contract
	err := db.WithContext(ctx).Where("code = ?", code).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB, req contractdomain.ListRequest) ([]contractdomain.Contract, error) {
	stmt := db.WithContext(ctx).Model(&contractdomain.Contract{})
	if req.Status != nil {
		stmt = stmt.Where("status = ?", *req.Status)
	}
	if req.RoomID != nil {
		stmt = stmt.Where("room_id = ?", *req.RoomID)
	}
	if req.Managed {
		stmt = stmt.Where("status IN ?", []contractdomain.Status{contractdomain.StatusActive, contractdomain.StatusEnding})
	}

	var contracts []contractdomain.Contract
	err := stmt.Order("start_date asc, id asc").Find(&contracts).Error
	return contracts, err
}
