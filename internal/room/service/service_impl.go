package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	PropertySvc propertydomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	propertySvc propertydomain.Service
}

func New(p Params) roomdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("room.service"),
		genID:       p.GenID,
		propertySvc: p.PropertySvc,
	}
}

func (s *Service) Create(ctx context.Context, req roomdomain.CreateRequest) (*roomdomain.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, roomdomain.ErrInvalidName
	}

	property, err := s.propertySvc.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, roomdomain.ErrInvalidProperty
	}

	status := req.Status
	if status == "" {
		status = roomdomain.StatusVacant
	}
	if !status.Valid() {
		return nil, roomdomain.ErrInvalidStatus
	}

	tenantID, err := parseOptionalID(req.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	room := &roomdomain.Room{
		ID:         s.genID.Generate(),
		PropertyID: property.ID,
		Name:       name,
		Status:     status,
		TenantID:   tenantID,
		Price:      req.Price,
		AreaM2:     req.AreaM2,
		Deposit:    req.Deposit,
		Equipment:  req.Equipment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) List(ctx context.Context, filter roomdomain.ListFilter) ([]roomdomain.Room, error) {
	query := s.db.WithContext(ctx).Model(&roomdomain.Room{})

	if filter.PropertyID != "" {
		propertyID, err := snowflake.ParseString(filter.PropertyID)
		if err != nil {
			return nil, roomdomain.ErrInvalidProperty
		}
		query = query.Where("property_id = ?", propertyID)
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, roomdomain.ErrInvalidStatus
		}
		query = query.Where("status = ?", *filter.Status)
	}

	var rooms []roomdomain.Room
	err := query.Order("name asc, id asc").Find(&rooms).Error
	return rooms, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*roomdomain.Room, error) {
	roomID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, roomdomain.ErrInvalidID
	}

	var room roomdomain.Room
	err = s.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roomdomain.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *Service) Update(ctx context.Context, req roomdomain.UpdateRequest) (*roomdomain.Room, error) {
	room, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, roomdomain.ErrInvalidName
		}
		room.Name = name
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, roomdomain.ErrInvalidStatus
		}
		room.Status = *req.Status
	}
	if req.TenantID != nil {
		tenantID, err := parseOptionalID(req.TenantID)
		if err != nil {
			return nil, err
		}
		room.TenantID = tenantID
	}
	if req.Price != nil {
		room.Price = *req.Price
	}
	if req.AreaM2 != nil {
		room.AreaM2 = *req.AreaM2
	}
	if req.Deposit != nil {
		room.Deposit = *req.Deposit
	}
	if req.Equipment != nil {
		room.Equipment = *req.Equipment
	}

	room.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(room).Error
}

// parseOptionalID treats an empty string as "unassigned".
func parseOptionalID(raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, roomdomain.ErrInvalidID
	}
	return &id, nil
}
