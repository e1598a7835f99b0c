package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/clock"
	"github.com/smallbiznis/policyhub/internal/comparison/domain"
	"github.com/smallbiznis/policyhub/internal/config"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
	obsmetrics "github.com/smallbiznis/policyhub/internal/observability/metrics"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	"github.com/smallbiznis/policyhub/internal/providers/pdf"
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
	ProductRepo productdomain.Repository
	SpecRepo    specdomain.Repository
	InsurerRepo insurerdomain.Repository
	GroupRepo   specgroupdomain.Repository
	ChoiceRepo  groupchoicedomain.Repository
	PDF         pdf.Provider
	Clock       clock.Clock                 `optional:"true"`
	Catalog     *config.CatalogConfigHolder `optional:"true"`
	Metrics     *obsmetrics.Metrics         `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	productRepo productdomain.Repository
	specRepo    specdomain.Repository
	insurerRepo insurerdomain.Repository
	groupRepo   specgroupdomain.Repository
	choiceRepo  groupchoicedomain.Repository
	pdf         pdf.Provider
	clock       clock.Clock
	catalog     *config.CatalogConfigHolder
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("comparison.service"),
		productRepo: p.ProductRepo,
		specRepo:    p.SpecRepo,
		insurerRepo: p.InsurerRepo,
		groupRepo:   p.GroupRepo,
		choiceRepo:  p.ChoiceRepo,
		pdf:         p.PDF,
		clock:       c,
		catalog:     p.Catalog,
		metrics:     p.Metrics,
	}
}

// assembly is the store snapshot behind one comparison.
type assembly struct {
	products []productdomain.Product
	specs    []specdomain.Spec
}

// Compare returns one record per distinct existing product, in request
// order. Unknown ids are dropped; an empty result is not an error.
func (s *Service) Compare(ctx context.Context, req domain.CompareRequest) ([]domain.Record, error) {
	snapshot, err := s.assemble(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	specs := specdomain.NewResponses(snapshot.specs)
	records := make([]domain.Record, 0, len(snapshot.products))
	for _, product := range snapshot.products {
		records = append(records, domain.Record{
			ProductID:   snowflake.ID(product.ID).String(),
			ProductName: product.Name,
			InsurerID:   snowflake.ID(product.InsurerID).String(),
			SPSolution:  product.SPSolution,
			Active:      product.Active,
			Specs:       specs,
		})
	}
	return records, nil
}

func (s *Service) assemble(ctx context.Context, rawIDs []string) (*assembly, error) {
	ids, err := s.parseProductIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordComparison(ctx, len(rawIDs))

	found, err := s.productRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]productdomain.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}

	ordered := make([]productdomain.Product, 0, len(found))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			ordered = append(ordered, product)
		}
	}

	if len(ordered) < len(ids) {
		s.log.Debug("comparison dropped unknown products",
			zap.Int("requested", len(ids)),
			zap.Int("found", len(ordered)),
		)
	}
	if len(ordered) == 0 {
		return &assembly{}, nil
	}

	specs, err := s.specRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return &assembly{products: ordered, specs: specs}, nil
}

// parseProductIDs validates the request and returns distinct ids in first
// seen order.
func (s *Service) parseProductIDs(rawIDs []string) ([]int64, error) {
	if len(rawIDs) == 0 {
		return nil, domain.ErrInvalidProductIDs
	}
	if len(rawIDs) > s.maxProducts() {
		return nil, domain.ErrTooManyProducts
	}

	ids := make([]int64, 0, len(rawIDs))
	seen := make(map[int64]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id <= 0 {
			return nil, domain.ErrInvalidProductIDs
		}
		if _, ok := seen[id.Int64()]; ok {
			continue
		}
		seen[id.Int64()] = struct{}{}
		ids = append(ids, id.Int64())
	}
	return ids, nil
}

func (s *Service) maxProducts() int {
	if s.catalog == nil {
		return config.MaxCompareProducts
	}
	return s.catalog.MaxCompareProducts()
}
