package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	"github.com/smallbiznis/policyhub/internal/resolution/engine"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"github.com/smallbiznis/policyhub/pkg/db"
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
	SpecRepo  specdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	groupRepo specgroupdomain.Repository
	specRepo  specdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("groupchoice.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		groupRepo: p.GroupRepo,
		specRepo:  p.SpecRepo,
	}
}

func (s *Service) CreateChoice(ctx context.Context, req domain.CreateChoiceRequest) (*domain.ChoiceResponse, error) {
	groupID, err := parseID(req.SpecGroupID, domain.ErrInvalidGroup)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.ChoiceName)
	if name == "" {
		return nil, domain.ErrInvalidChoiceName
	}

	group, err := s.groupRepo.FindByID(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrGroupNotFound
	}

	choice := &domain.GroupChoice{
		ID:          s.genID.Generate().Int64(),
		SpecGroupID: group.ID,
		ChoiceName:  name,
	}
	if err := s.repo.CreateChoice(ctx, s.db, choice); err != nil {
		return nil, err
	}

	resp := toChoiceResponse(choice)
	return &resp, nil
}

func (s *Service) GetChoice(ctx context.Context, id string) (*domain.ChoiceResponse, error) {
	choiceID, err := parseID(id, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	choice, err := s.repo.FindChoiceByID(ctx, s.db, choiceID)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, domain.ErrChoiceNotFound
	}

	resp := toChoiceResponse(choice)
	return &resp, nil
}

func (s *Service) ListChoices(ctx context.Context, groupID string) ([]domain.ChoiceResponse, error) {
	id, err := parseID(groupID, domain.ErrInvalidGroup)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrGroupNotFound
	}

	items, err := s.repo.ListChoicesByGroup(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ChoiceResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toChoiceResponse(&items[i]))
	}
	return resp, nil
}

// CreateValue stores the value a choice supplies for one spec of its group.
func (s *Service) CreateValue(ctx context.Context, req domain.CreateValueRequest) (*domain.ValueResponse, error) {
	choiceID, err := parseID(req.ChoiceID, domain.ErrInvalidChoice)
	if err != nil {
		return nil, err
	}
	specID, err := parseID(req.SpecID, domain.ErrInvalidSpec)
	if err != nil {
		return nil, err
	}

	choice, err := s.repo.FindChoiceByID(ctx, s.db, choiceID)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, domain.ErrChoiceNotFound
	}

	spec, err := s.specRepo.FindByID(ctx, s.db, specID)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, domain.ErrSpecNotFound
	}
	if spec.GroupID == nil || *spec.GroupID != choice.SpecGroupID {
		return nil, domain.ErrSpecNotInGroup
	}

	if err := engine.Validate(*spec, req.Value); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindValue(ctx, s.db, choiceID, specID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateValue
	}

	value := &domain.GroupChoiceValue{
		ChoiceID: choiceID,
		SpecID:   specID,
		Value:    req.Value,
	}
	if err := s.repo.CreateValue(ctx, s.db, value); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateValue
		}
		return nil, err
	}

	resp := toValueResponse(value)
	return &resp, nil
}

func (s *Service) ListValues(ctx context.Context, choiceID string) ([]domain.ValueResponse, error) {
	id, err := parseID(choiceID, domain.ErrInvalidChoice)
	if err != nil {
		return nil, err
	}

	choice, err := s.repo.FindChoiceByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, domain.ErrChoiceNotFound
	}

	items, err := s.repo.ListValuesByChoice(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ValueResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toValueResponse(&items[i]))
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

func toChoiceResponse(c *domain.GroupChoice) domain.ChoiceResponse {
	return domain.ChoiceResponse{
		ID:          snowflake.ID(c.ID).String(),
		SpecGroupID: snowflake.ID(c.SpecGroupID).String(),
		ChoiceName:  c.ChoiceName,
	}
}

func toValueResponse(v *domain.GroupChoiceValue) domain.ValueResponse {
	return domain.ValueResponse{
		ChoiceID: snowflake.ID(v.ChoiceID).String(),
		SpecID:   snowflake.ID(v.SpecID).String(),
		Value:    v.Value,
	}
}
