package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/roomledger/roomledger/internal/tenant/domain"
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

func New(p Params) tenantdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateRequest) (*tenantdomain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tenantdomain.ErrInvalidName
	}
	if err := validBirthDate(req.BirthDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := &tenantdomain.Tenant{
		ID:        s.genID.Generate(),
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		BirthDate: strings.TrimSpace(req.BirthDate),
		IDCard:    strings.TrimSpace(req.IDCard),
		Hometown:  strings.TrimSpace(req.Hometown),
		Documents: req.Documents,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *Service) List(ctx context.Context) ([]tenantdomain.Tenant, error) {
	var tenants []tenantdomain.Tenant
	err := s.db.WithContext(ctx).Order("name asc, id asc").Find(&tenants).Error
	return tenants, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*tenantdomain.Tenant, error) {
	tenantID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, tenantdomain.ErrInvalidID
	}

	var tenant tenantdomain.Tenant
	err = s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantdomain.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (s *Service) Update(ctx context.Context, req tenantdomain.UpdateRequest) (*tenantdomain.Tenant, error) {
	tenant, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, tenantdomain.ErrInvalidName
		}
		tenant.Name = name
	}
	if req.Phone != nil {
		tenant.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.BirthDate != nil {
		if err := validBirthDate(*req.BirthDate); err != nil {
			return nil, err
		}
		tenant.BirthDate = strings.TrimSpace(*req.BirthDate)
	}
	if req.IDCard != nil {
		tenant.IDCard = strings.TrimSpace(*req.IDCard)
	}
	if req.Hometown != nil {
		tenant.Hometown = strings.TrimSpace(*req.Hometown)
	}
	if req.Documents != nil {
		tenant.Documents = *req.Documents
	}

	tenant.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(tenant).Error
}

func validBirthDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return tenantdomain.ErrInvalidDate
	}
	return nil
}
