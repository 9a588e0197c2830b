package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	"github.com/roomledger/roomledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  contractdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  contractdomain.Repository
	genID *snowflake.Node
}

func New(p Params) contractdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("contract.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req contractdomain.CreateRequest) (*contractdomain.Contract, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, contractdomain.ErrInvalidCode
	}

	roomID, err := contractdomain.ParseID(strings.TrimSpace(req.RoomID))
	if err != nil || roomID == 0 {
		return nil, contractdomain.ErrInvalidRoom
	}

	tenantID, err := contractdomain.ParseID(strings.TrimSpace(req.TenantID))
	if err != nil || tenantID == 0 {
		return nil, contractdomain.ErrInvalidTenant
	}

	status := contractdomain.StatusDraft
	if req.Status != nil {
		status = *req.Status
	}
	if !status.Valid() {
		return nil, contractdomain.ErrInvalidStatus
	}

	if !validDate(req.StartDate) {
		return nil, contractdomain.ErrInvalidDate
	}
	if req.EndDate != "" && !validDate(req.EndDate) {
		return nil, contractdomain.ErrInvalidDate
	}

	if req.ElectricityRate < 0 || req.WaterRate < 0 {
		return nil, contractdomain.ErrInvalidRate
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, contractdomain.ErrCodeExists
	}

	now := time.Now().UTC()
	contract := &contractdomain.Contract{
		ID:                  s.genID.Generate(),
		Code:                code,
		RoomID:              roomID,
		TenantID:            tenantID,
		Status:              status,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		BillingCycle:        strings.TrimSpace(req.BillingCycle),
		Rent:                req.Rent,
		Deposit:             req.Deposit,
		ElectricityRate:     req.ElectricityRate,
		WaterRate:           req.WaterRate,
		ElectricityBaseline: req.ElectricityBaseline,
		WaterBaseline:       req.WaterBaseline,
		ServiceFees:         req.ServiceFees,
		Dependents:          req.Dependents,
		CheckinChecklist:    req.CheckinChecklist,
		Notes:               req.Notes,
		ResidenceStatus:     req.ResidenceStatus,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, contract); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, contractdomain.ErrCodeExists
		}
		return nil, err
	}

	s.log.Info("contract created", zap.String("code", contract.Code), zap.String("status", string(contract.Status)))
	return contract, nil
}

func (s *Service) List(ctx context.Context, req contractdomain.ListRequest) ([]contractdomain.Contract, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*contractdomain.Contract, error) {
	contractID, err := contractdomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, contractdomain.ErrInvalidID
	}

	contract, err := s.repo.FindByID(ctx, s.db, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, contractdomain.ErrNotFound
	}
	return contract, nil
}

func (s *Service) Update(ctx context.Context, req contractdomain.UpdateRequest) (*contractdomain.Contract, error) {
	contract, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.EndDate != nil {
		if *req.EndDate != "" && !validDate(*req.EndDate) {
			return nil, contractdomain.ErrInvalidDate
		}
		contract.EndDate = *req.EndDate
	}
	if req.BillingCycle != nil {
		contract.BillingCycle = strings.TrimSpace(*req.BillingCycle)
	}
	if req.Rent != nil {
		contract.Rent = *req.Rent
	}
	if req.Deposit != nil {
		contract.Deposit = *req.Deposit
	}
	if req.ElectricityRate != nil {
		if *req.ElectricityRate < 0 {
			return nil, contractdomain.ErrInvalidRate
		}
		contract.ElectricityRate = *req.ElectricityRate
	}
	if req.WaterRate != nil {
		if *req.WaterRate < 0 {
			return nil, contractdomain.ErrInvalidRate
		}
		contract.WaterRate = *req.WaterRate
	}
	if req.ElectricityBaseline != nil {
		contract.ElectricityBaseline = req.ElectricityBaseline
	}
	if req.WaterBaseline != nil {
		contract.WaterBaseline = req.WaterBaseline
	}
	if req.ServiceFees != nil {
		contract.ServiceFees = req.ServiceFees
	}
	if req.Dependents != nil {
		contract.Dependents = req.Dependents
	}
	if req.CheckinChecklist != nil {
		contract.CheckinChecklist = *req.CheckinChecklist
	}
	if req.Notes != nil {
		contract.Notes = *req.Notes
	}
	if req.ResidenceStatus != nil {
		contract.ResidenceStatus = *req.ResidenceStatus
	}

	contract.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, contract); err != nil {
		return nil, err
	}

	return contract, nil
}

func (s *Service) ChangeStatus(ctx context.Context, id string, to contractdomain.Status) (*contractdomain.Contract, error) {
	if !to.Valid() {
		return nil, contractdomain.ErrInvalidStatus
	}

	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !contract.Status.CanTransition(to) {
		return nil, contractdomain.ErrInvalidTransition
	}

	contract.Status = to
	contract.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, contract); err != nil {
		return nil, err
	}

	s.log.Info("contract status changed", zap.String("code", contract.Code), zap.String("status", string(to)))
	return contract, nil
}

func validDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
