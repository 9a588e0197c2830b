package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) propertydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("property.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req propertydomain.CreateRequest) (*propertydomain.Property, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, propertydomain.ErrInvalidName
	}

	now := time.Now().UTC()
	property := &propertydomain.Property{
		ID:        s.genID.Generate(),
		Name:      name,
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func (s *Service) List(ctx context.Context) ([]propertydomain.Property, error) {
	var properties []propertydomain.Property
	err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&properties).Error
	return properties, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*propertydomain.Property, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, propertydomain.ErrInvalidID
	}

	var property propertydomain.Property
	err = s.db.WithContext(ctx).Where("id = ?", propertyID).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertydomain.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (s *Service) Update(ctx context.Context, req propertydomain.UpdateRequest) (*propertydomain.Property, error) {
	property, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, propertydomain.ErrInvalidName
		}
		property.Name = name
	}
	if req.Address != nil {
		property.Address = strings.TrimSpace(*req.Address)
	}

	property.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	property, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(property).Error
}
