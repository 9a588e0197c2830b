package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	maintenancedomain "github.com/roomledger/roomledger/internal/maintenance/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	RoomSvc roomdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	roomSvc roomdomain.Service
}

func New(p Params) maintenancedomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("maintenance.service"),
		genID:   p.GenID,
		roomSvc: p.RoomSvc,
	}
}

func (s *Service) Create(ctx context.Context, req maintenancedomain.CreateRequest) (*maintenancedomain.Ticket, error) {
	request := strings.TrimSpace(req.Request)
	if request == "" {
		return nil, maintenancedomain.ErrInvalidRequest
	}

	room, err := s.roomSvc.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, maintenancedomain.ErrInvalidRoom
	}

	priority := req.Priority
	if priority == "" {
		priority = maintenancedomain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, maintenancedomain.ErrInvalidPriority
	}

	now := time.Now().UTC()
	ticket := &maintenancedomain.Ticket{
		ID:        s.genID.Generate(),
		RoomID:    room.ID,
		Request:   request,
		Status:    maintenancedomain.StatusNew,
		Priority:  priority,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *Service) List(ctx context.Context, filter maintenancedomain.ListFilter) ([]maintenancedomain.Ticket, error) {
	query := s.db.WithContext(ctx).Model(&maintenancedomain.Ticket{})

	if filter.RoomID != "" {
		roomID, err := snowflake.ParseString(filter.RoomID)
		if err != nil {
			return nil, maintenancedomain.ErrInvalidRoom
		}
		query = query.Where("room_id = ?", roomID)
	}
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, maintenancedomain.ErrInvalidStatus
		}
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		if !filter.Priority.Valid() {
			return nil, maintenancedomain.ErrInvalidPriority
		}
		query = query.Where("priority = ?", *filter.Priority)
	}

	var tickets []maintenancedomain.Ticket
	err := query.Order("created_at desc, id desc").Find(&tickets).Error
	return tickets, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*maintenancedomain.Ticket, error) {
	ticketID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, maintenancedomain.ErrInvalidID
	}

	var ticket maintenancedomain.Ticket
	err = s.db.WithContext(ctx).Where("id = ?", ticketID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, maintenancedomain.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *Service) Update(ctx context.Context, req maintenancedomain.UpdateRequest) (*maintenancedomain.Ticket, error) {
	ticket, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Request != nil {
		request := strings.TrimSpace(*req.Request)
		if request == "" {
			return nil, maintenancedomain.ErrInvalidRequest
		}
		ticket.Request = request
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, maintenancedomain.ErrInvalidStatus
		}
		if *req.Status == maintenancedomain.StatusDone && ticket.Status != maintenancedomain.StatusDone {
			now := time.Now().UTC()
			ticket.ResolvedAt = &now
		}
		ticket.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, maintenancedomain.ErrInvalidPriority
		}
		ticket.Priority = *req.Priority
	}
	if req.Cost != nil {
		ticket.Cost = req.Cost
	}
	if req.Metadata != nil {
		ticket.Metadata = datatypes.JSONMap(*req.Metadata)
	}

	ticket.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(ticket).Error
}
