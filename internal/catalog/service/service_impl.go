package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  catalogdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  catalogdomain.Repository
	genID *snowflake.Node
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.ServiceDefinition, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}

	if req.UnitPrice < 0 {
		return nil, catalogdomain.ErrInvalidPrice
	}

	method := catalogdomain.MethodPerRoom
	if req.Method != nil {
		method = *req.Method
	}
	if !method.Valid() {
		return nil, catalogdomain.ErrInvalidMethod
	}

	id, err := s.uniqueID(ctx, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	def := &catalogdomain.ServiceDefinition{
		ID:        id,
		Name:      name,
		UnitPrice: req.UnitPrice,
		Method:    method,
		Unit:      strings.TrimSpace(req.Unit),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, def); err != nil {
		return nil, err
	}

	s.log.Info("service created", zap.String("id", def.ID), zap.String("method", string(def.Method)))
	return def, nil
}

func (s *Service) List(ctx context.Context) ([]catalogdomain.ServiceDefinition, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (*catalogdomain.ServiceDefinition, error) {
	def, err := s.repo.FindByID(ctx, s.db, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return def, nil
}

func (s *Service) Update(ctx context.Context, req catalogdomain.UpdateRequest) (*catalogdomain.ServiceDefinition, error) {
	def, err := s.repo.FindByID(ctx, s.db, strings.TrimSpace(req.ID))
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, catalogdomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		def.Name = name
	}

	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return nil, catalogdomain.ErrInvalidPrice
		}
		def.UnitPrice = *req.UnitPrice
	}

	if req.Method != nil {
		if !req.Method.Valid() {
			return nil, catalogdomain.ErrInvalidMethod
		}
		def.Method = *req.Method
	}

	if req.Unit != nil {
		def.Unit = strings.TrimSpace(*req.Unit)
	}

	def.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, def); err != nil {
		return nil, err
	}

	return def, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	def, err := s.repo.FindByID(ctx, s.db, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if def == nil {
		return catalogdomain.ErrNotFound
	}
	if def.Locked {
		return catalogdomain.ErrLocked
	}

	return s.repo.Delete(ctx, s.db, def.ID)
}

// uniqueID slugifies the service name and suffixes a short token when
// the slug is already taken.
func (s *Service) uniqueID(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "service"
	}

	existing, err := s.repo.FindByID(ctx, s.db, base)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return base, nil
	}

	token := strconv.FormatInt(int64(s.genID.Generate()), 36)
	return base + "-" + token, nil
}
