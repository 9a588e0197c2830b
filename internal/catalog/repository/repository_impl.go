package repository

import (
	"context"
	"errors"

	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	"gorm.io/gorm"
)

type repository struct{}

func New() catalogdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, def *catalogdomain.ServiceDefinition) error {
	return db.WithContext(ctx).Create(def).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, def *catalogdomain.ServiceDefinition) error {
	return db.WithContext(ctx).Save(def).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&catalogdomain.ServiceDefinition{}).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id string) (*catalogdomain.ServiceDefinition, error) {
	var def catalogdomain.ServiceDefinition
	err := db.WithContext(ctx).Where("id = ?", id).First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]catalogdomain.ServiceDefinition, error) {
	var defs []catalogdomain.ServiceDefinition
	err := db.WithContext(ctx).Order("created_at asc, id asc").Find(&defs).Error
	return defs, err
}
