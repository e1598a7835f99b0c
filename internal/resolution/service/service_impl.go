package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	obsmetrics "github.com/smallbiznis/policyhub/internal/observability/metrics"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	"github.com/smallbiznis/policyhub/internal/resolution/domain"
	"github.com/smallbiznis/policyhub/internal/resolution/engine"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	SpecRepo    specdomain.Repository
	GroupRepo   specgroupdomain.Repository
	ChoiceRepo  groupchoicedomain.Repository
	ProductRepo productdomain.Repository
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	specRepo    specdomain.Repository
	groupRepo   specgroupdomain.Repository
	choiceRepo  groupchoicedomain.Repository
	productRepo productdomain.Repository
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("resolution.service"),
		specRepo:    p.SpecRepo,
		groupRepo:   p.GroupRepo,
		choiceRepo:  p.ChoiceRepo,
		productRepo: p.ProductRepo,
		metrics:     p.Metrics,
	}
}

// ResolveValue resolves one spec under an optional choice. A grouped spec
// whose choice has no value fails with domain.ErrResolutionInconsistency.
func (s *Service) ResolveValue(ctx context.Context, req domain.ResolveRequest) (*domain.ResolveResponse, error) {
	specID, err := parseID(req.SpecID, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var selected *int64
	if strings.TrimSpace(req.ChoiceID) != "" {
		choiceID, err := parseID(req.ChoiceID, domain.ErrInvalidSelection)
		if err != nil {
			return nil, err
		}
		selected = &choiceID
	}

	spec, err := s.specRepo.FindByID(ctx, s.db, specID)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, domain.ErrSpecNotFound
	}

	var lookup domain.Lookup
	if spec.Grouped() && selected != nil {
		choice, err := s.choiceRepo.FindChoiceByID(ctx, s.db, *selected)
		if err != nil {
			return nil, err
		}
		if choice == nil {
			return nil, domain.ErrChoiceNotFound
		}
		if choice.SpecGroupID != *spec.GroupID {
			return nil, domain.ErrChoiceGroupMismatch
		}

		value, err := s.choiceRepo.FindValue(ctx, s.db, choice.ID, spec.ID)
		if err != nil {
			return nil, err
		}
		if value != nil {
			lookup = domain.NewValueIndex([]groupchoicedomain.GroupChoiceValue{*value})
		}
	}

	res, err := engine.Resolve(*spec, selected, lookup)
	if err != nil {
		s.recordOutcome(ctx, domain.Resolution{}, err)
		s.log.Warn("spec resolution inconsistent",
			zap.Int64("spec_id", spec.ID),
			zap.Int64p("choice_id", selected),
		)
		return nil, err
	}
	s.recordOutcome(ctx, res, nil)

	resp := &domain.ResolveResponse{
		SpecID:          snowflake.ID(spec.ID).String(),
		Status:          domain.StatusNeedsChoice,
		Resolved:        res.Resolved,
		GroupControlled: res.GroupControlled,
	}
	if res.ChoiceID != nil {
		choiceID := snowflake.ID(*res.ChoiceID).String()
		resp.ChoiceID = &choiceID
	}
	if res.Resolved {
		value := res.Value
		resp.Status = domain.StatusResolved
		resp.Value = &value
		if typed, err := engine.Typed(*spec, value); err == nil {
			resp.Typed = &typed
		}
	}
	return resp, nil
}

// ProductView resolves every spec applicable to a product under the
// caller's selections and overrides, grouped for display. Inconsistent
// grouped specs are reported per spec rather than failing the view.
func (s *Service) ProductView(ctx context.Context, req domain.ProductViewRequest) (*domain.ProductViewResponse, error) {
	productID, err := parseID(req.ProductID, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}
	selections, err := parseIDMap(req.Selections)
	if err != nil {
		return nil, err
	}
	overrides, err := parseOverrides(req.Overrides)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	specs, err := s.specRepo.ListForProduct(ctx, s.db, product.ID)
	if err != nil {
		return nil, err
	}
	grouping := engine.GroupSpecs(specs)

	groupIDs := make([]int64, 0, len(grouping.GroupOrder)+len(selections))
	groupIDs = append(groupIDs, grouping.GroupOrder...)
	for groupID := range selections {
		if _, ok := grouping.ByGroup[groupID]; !ok {
			groupIDs = append(groupIDs, groupID)
		}
	}

	choices, err := s.choiceRepo.ListChoicesByGroups(ctx, s.db, groupIDs)
	if err != nil {
		return nil, err
	}
	choicesByID := make(map[int64]groupchoicedomain.GroupChoice, len(choices))
	choicesByGroup := make(map[int64][]groupchoicedomain.GroupChoice)
	for _, choice := range choices {
		choicesByID[choice.ID] = choice
		choicesByGroup[choice.SpecGroupID] = append(choicesByGroup[choice.SpecGroupID], choice)
	}

	selectedChoiceIDs := make([]int64, 0, len(selections))
	for groupID, choiceID := range selections {
		choice, ok := choicesByID[choiceID]
		if !ok {
			return nil, domain.ErrChoiceNotFound
		}
		if choice.SpecGroupID != groupID {
			return nil, domain.ErrChoiceGroupMismatch
		}
		selectedChoiceIDs = append(selectedChoiceIDs, choiceID)
	}
	sort.Slice(selectedChoiceIDs, func(i, j int) bool { return selectedChoiceIDs[i] < selectedChoiceIDs[j] })

	specsByID := make(map[int64]specdomain.Spec, len(specs))
	for _, spec := range specs {
		specsByID[spec.ID] = spec
	}
	for specID, value := range overrides {
		spec, ok := specsByID[specID]
		if !ok {
			return nil, domain.ErrSpecNotFound
		}
		if !spec.Editable || spec.Grouped() {
			return nil, domain.ErrSpecNotEditable
		}
		if err := engine.Validate(spec, value); err != nil {
			return nil, err
		}
	}

	values, err := s.choiceRepo.ListValuesByChoices(ctx, s.db, selectedChoiceIDs)
	if err != nil {
		return nil, err
	}
	index := domain.NewValueIndex(values)

	groups, err := s.groupRepo.FindByIDs(ctx, s.db, grouping.GroupOrder)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[int64]string, len(groups))
	for _, group := range groups {
		groupNames[group.ID] = group.Name
	}

	resp := &domain.ProductViewResponse{
		ProductID:   snowflake.ID(product.ID).String(),
		ProductName: product.Name,
		Ungrouped:   make([]domain.SpecView, 0, len(grouping.Ungrouped)),
		Groups:      make([]domain.GroupSection, 0, len(grouping.GroupOrder)),
	}

	for _, spec := range grouping.Ungrouped {
		view := s.resolveView(ctx, spec, nil, index)
		if value, ok := overrides[spec.ID]; ok {
			view.Value = &value
			view.Overridden = true
			view.InvalidReason = ""
		}
		resp.Ungrouped = append(resp.Ungrouped, view)
	}

	for _, groupID := range grouping.GroupOrder {
		section := domain.GroupSection{
			GroupID:   snowflake.ID(groupID).String(),
			GroupName: groupNames[groupID],
			Choices:   make([]domain.ChoiceItem, 0, len(choicesByGroup[groupID])),
			Specs:     make([]domain.SpecView, 0, len(grouping.ByGroup[groupID])),
		}
		for _, choice := range choicesByGroup[groupID] {
			section.Choices = append(section.Choices, domain.ChoiceItem{
				ID:   snowflake.ID(choice.ID).String(),
				Name: choice.ChoiceName,
			})
		}

		var selected *int64
		if choiceID, ok := selections[groupID]; ok {
			selected = &choiceID
			selectedID := snowflake.ID(choiceID).String()
			section.SelectedChoiceID = &selectedID
		}
		for _, spec := range grouping.ByGroup[groupID] {
			section.Specs = append(section.Specs, s.resolveView(ctx, spec, selected, index))
		}
		resp.Groups = append(resp.Groups, section)
	}

	return resp, nil
}

func (s *Service) resolveView(ctx context.Context, spec specdomain.Spec, selected *int64, index domain.Lookup) domain.SpecView {
	view := domain.SpecView{Response: specdomain.NewResponse(&spec)}

	res, err := engine.Resolve(spec, selected, index)
	if err != nil {
		s.recordOutcome(ctx, domain.Resolution{}, err)
		s.log.Warn("spec resolution inconsistent",
			zap.Int64("spec_id", spec.ID),
			zap.Int64p("choice_id", selected),
		)
		view.Status = domain.StatusInconsistent
		return view
	}
	s.recordOutcome(ctx, res, nil)

	if !res.Resolved {
		view.Status = domain.StatusNeedsChoice
		return view
	}

	value := res.Value
	view.Status = domain.StatusResolved
	view.Value = &value
	if err := engine.Validate(spec, value); err != nil {
		var valueErr *domain.ValueError
		if errors.As(err, &valueErr) {
			view.InvalidReason = valueErr.Reason
		}
	}
	return view
}

func (s *Service) recordOutcome(ctx context.Context, res domain.Resolution, err error) {
	switch {
	case errors.Is(err, domain.ErrResolutionInconsistency):
		s.metrics.RecordResolution(ctx, obsmetrics.OutcomeInconsistent)
	case err != nil:
		s.metrics.RecordResolution(ctx, obsmetrics.OutcomeInvalid)
	case !res.Resolved:
		s.metrics.RecordResolution(ctx, obsmetrics.OutcomeNeedsChoice)
	default:
		s.metrics.RecordResolution(ctx, obsmetrics.OutcomeResolved)
	}
}

func parseID(value string, invalid error) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id.Int64(), nil
}

func parseIDMap(raw map[string]string) (map[int64]int64, error) {
	out := make(map[int64]int64, len(raw))
	for key, value := range raw {
		groupID, err := parseID(key, domain.ErrInvalidSelection)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		choiceID, err := parseID(value, domain.ErrInvalidSelection)
		if err != nil {
			return nil, err
		}
		out[groupID] = choiceID
	}
	return out, nil
}

func parseOverrides(raw map[string]string) (map[int64]string, error) {
	out := make(map[int64]string, len(raw))
	for key, value := range raw {
		specID, err := parseID(key, domain.ErrInvalidSelection)
		if err != nil {
			return nil, err
		}
		out[specID] = value
	}
	return out, nil
}
