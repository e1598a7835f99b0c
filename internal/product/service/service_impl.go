package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
	"github.com/smallbiznis/policyhub/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	InsurerRepo insurerdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	insurerRepo insurerdomain.Repository
	genID       *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("product.service"),
		repo:        p.Repo,
		insurerRepo: p.InsurerRepo,
		genID:       p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	insurerID, err := parseID(req.InsurerID, domain.ErrInvalidInsurer)
	if err != nil {
		return nil, err
	}

	insurer, err := s.insurerRepo.FindByID(ctx, s.db, insurerID)
	if err != nil {
		return nil, err
	}
	if insurer == nil {
		return nil, domain.ErrInsurerNotFound
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p := &domain.Product{
		ID:         s.genID.Generate().Int64(),
		Name:       name,
		InsurerID:  insurer.ID,
		SPSolution: req.SPSolution,
		Active:     active,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) ListByInsurer(ctx context.Context, insurerID string) ([]domain.Response, error) {
	id, err := parseID(insurerID, domain.ErrInvalidInsurer)
	if err != nil {
		return nil, err
	}

	insurer, err := s.insurerRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if insurer == nil {
		return nil, domain.ErrInsurerNotFound
	}

	items, err := s.repo.ListByInsurer(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func parseID(value string, invalid error) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id.Int64(), nil
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:         snowflake.ID(p.ID).String(),
		Name:       p.Name,
		InsurerID:  snowflake.ID(p.InsurerID).String(),
		SPSolution: p.SPSolution,
		Active:     p.Active,
	}
}
