package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/resolution/engine"
	"github.com/smallbiznis/policyhub/internal/spec/domain"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	GroupRepo specgroupdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	groupRepo specgroupdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("spec.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		groupRepo: p.GroupRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	shortname := strings.TrimSpace(req.Shortname)
	if shortname == "" {
		return nil, domain.ErrInvalidShortname
	}

	valueType, ok := domain.ParseValueType(req.ValueType)
	if !ok {
		return nil, domain.ErrInvalidValueType
	}

	if (req.MinValue != nil || req.MaxValue != nil) && !valueType.Numeric() {
		return nil, domain.ErrBoundsNotNumeric
	}
	if req.MinValue != nil && req.MaxValue != nil && *req.MinValue > *req.MaxValue {
		return nil, domain.ErrInvalidBounds
	}

	spec := &domain.Spec{
		ID:           s.genID.Generate().Int64(),
		Shortname:    shortname,
		Description:  strings.TrimSpace(req.Description),
		DefaultValue: req.DefaultValue,
		ValueType:    valueType,
		MinValue:     req.MinValue,
		MaxValue:     req.MaxValue,
		Editable:     req.Editable,
	}

	if req.GroupID != nil && strings.TrimSpace(*req.GroupID) != "" {
		groupID, err := snowflake.ParseString(strings.TrimSpace(*req.GroupID))
		if err != nil || groupID <= 0 {
			return nil, domain.ErrInvalidGroup
		}
		group, err := s.groupRepo.FindByID(ctx, s.db, groupID.Int64())
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, domain.ErrGroupNotFound
		}
		spec.GroupID = &group.ID
	}

	// Grouped specs take their values from choices, so only an ungrouped
	// default is ever displayed and needs to satisfy the declared type.
	if !spec.Grouped() && spec.DefaultValue != "" {
		if err := engine.Validate(*spec, spec.DefaultValue); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, s.db, spec); err != nil {
		return nil, err
	}

	s.log.Debug("spec created",
		zap.Int64("spec_id", spec.ID),
		zap.String("value_type", string(spec.ValueType)),
		zap.Bool("grouped", spec.Grouped()),
	)
	resp := domain.NewResponse(spec)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return domain.NewResponses(items), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	specID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || specID <= 0 {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, specID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := domain.NewResponse(item)
	return &resp, nil
}
