package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/catalogtest"
	"github.com/smallbiznis/policyhub/internal/clock"
	"github.com/smallbiznis/policyhub/internal/comparison/domain"
	"github.com/smallbiznis/policyhub/internal/config"
	groupchoicerepository "github.com/smallbiznis/policyhub/internal/groupchoice/repository"
	insurerrepository "github.com/smallbiznis/policyhub/internal/insurer/repository"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	productrepository "github.com/smallbiznis/policyhub/internal/product/repository"
	"github.com/smallbiznis/policyhub/internal/providers/pdf"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specrepository "github.com/smallbiznis/policyhub/internal/spec/repository"
	specgrouprepository "github.com/smallbiznis/policyhub/internal/specgroup/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func idString(id int64) string { return snowflake.ID(id).String() }

// countingSpecRepo counts full spec fetches.
type countingSpecRepo struct {
	specdomain.Repository
	findAll int
}

func (r *countingSpecRepo) FindAll(ctx context.Context, db *gorm.DB) ([]specdomain.Spec, error) {
	r.findAll++
	return r.Repository.FindAll(ctx, db)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, db *gorm.DB, product *productdomain.Product) error {
	return m.Called(ctx, db, product).Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*productdomain.Product, error) {
	args := m.Called(ctx, db, id)
	product, _ := args.Get(0).(*productdomain.Product)
	return product, args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]productdomain.Product, error) {
	args := m.Called(ctx, db, ids)
	products, _ := args.Get(0).([]productdomain.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) FindByName(ctx context.Context, db *gorm.DB, insurerID int64, name string) (*productdomain.Product, error) {
	args := m.Called(ctx, db, insurerID, name)
	product, _ := args.Get(0).(*productdomain.Product)
	return product, args.Error(1)
}

func (m *mockProductRepo) ListByInsurer(ctx context.Context, db *gorm.DB, insurerID int64) ([]productdomain.Product, error) {
	args := m.Called(ctx, db, insurerID)
	products, _ := args.Get(0).([]productdomain.Product)
	return products, args.Error(1)
}

type catalog struct {
	fixture *catalogtest.Fixture
	specs   *countingSpecRepo
	a, b, c productdomain.Product
	tierID  int64
	goldID  int64
}

func setupComparison(t *testing.T, productRepo productdomain.Repository) (domain.Service, catalog) {
	t.Helper()
	fixture := catalogtest.NewFixture(t)
	specs := &countingSpecRepo{Repository: specrepository.Provide()}
	if productRepo == nil {
		productRepo = productrepository.Provide()
	}

	svc := New(Params{
		DB:          fixture.DB,
		Log:         zap.NewNop(),
		ProductRepo: productRepo,
		SpecRepo:    specs,
		InsurerRepo: insurerrepository.Provide(),
		GroupRepo:   specgrouprepository.Provide(),
		ChoiceRepo:  groupchoicerepository.Provide(),
		PDF:         pdf.New(),
		Clock:       clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		Catalog:     config.NewStaticCatalogConfigHolder(config.DefaultCatalogConfig()),
	})

	insurer := fixture.Insurer("Acme")
	a := fixture.Product(insurer.ID, "Alpha")
	b := fixture.Product(insurer.ID, "Beta")
	c := fixture.Product(insurer.ID, "Gamma")

	tier := fixture.Group("Tier")
	gold := fixture.Choice(tier.ID, "Gold")
	fixture.Spec(specdomain.Spec{Shortname: "plan_name", DefaultValue: "Basic"})
	deduct := fixture.Spec(specdomain.Spec{Shortname: "deductible", ValueType: specdomain.ValueTypeNumber, GroupID: &tier.ID})
	fixture.ChoiceValue(gold.ID, deduct.ID, "85")

	return svc, catalog{fixture: fixture, specs: specs, a: a, b: b, c: c, tierID: tier.ID, goldID: gold.ID}
}

func recordIDs(records []domain.Record) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ProductID)
	}
	return ids
}

func TestComparePreservesRequestOrder(t *testing.T) {
	svc, c := setupComparison(t, nil)

	req := domain.CompareRequest{ProductIDs: []string{idString(c.c.ID), idString(c.a.ID), idString(c.b.ID)}}
	records, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.ProductIDs, recordIDs(records))
	assert.Equal(t, "Gamma", records[0].ProductName)
	assert.Equal(t, idString(c.a.InsurerID), records[0].InsurerID)
	assert.True(t, records[0].Active)
}

func TestCompareCollapsesDuplicates(t *testing.T) {
	svc, c := setupComparison(t, nil)

	records, err := svc.Compare(context.Background(), domain.CompareRequest{
		ProductIDs: []string{idString(c.a.ID), idString(c.a.ID), idString(c.b.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{idString(c.a.ID), idString(c.b.ID)}, recordIDs(records))
}

func TestCompareDropsUnknownIDs(t *testing.T) {
	svc, c := setupComparison(t, nil)

	records, err := svc.Compare(context.Background(), domain.CompareRequest{
		ProductIDs: []string{idString(c.a.ID), "424242", idString(c.b.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{idString(c.a.ID), idString(c.b.ID)}, recordIDs(records))
}

func TestCompareUnknownOnlyIsEmpty(t *testing.T) {
	svc, c := setupComparison(t, nil)

	records, err := svc.Compare(context.Background(), domain.CompareRequest{ProductIDs: []string{"111", "222"}})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Zero(t, c.specs.findAll)
}

func TestCompareSharesOneSpecSet(t *testing.T) {
	svc, c := setupComparison(t, nil)

	records, err := svc.Compare(context.Background(), domain.CompareRequest{
		ProductIDs: []string{idString(c.a.ID), idString(c.b.ID)},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, c.specs.findAll)
	require.Len(t, records[0].Specs, 2)
	assert.Equal(t, records[0].Specs, records[1].Specs)
	assert.Equal(t, "plan_name", records[0].Specs[0].Shortname)
	assert.Nil(t, records[0].Specs[0].GroupID)
	require.NotNil(t, records[0].Specs[1].GroupID)
	assert.Equal(t, idString(c.tierID), *records[0].Specs[1].GroupID)
}

func TestCompareValidation(t *testing.T) {
	svc, c := setupComparison(t, nil)
	id := idString(c.a.ID)

	tests := []struct {
		name string
		ids  []string
		want error
	}{
		{name: "empty", ids: nil, want: domain.ErrInvalidProductIDs},
		{name: "not_numeric", ids: []string{id, "abc"}, want: domain.ErrInvalidProductIDs},
		{name: "negative", ids: []string{"-1"}, want: domain.ErrInvalidProductIDs},
		{name: "too_many", ids: []string{id, id, id, id, id, id}, want: domain.ErrTooManyProducts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compare(context.Background(), domain.CompareRequest{ProductIDs: tt.ids})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, c.specs.findAll)
}

func TestCompareHonoursConfiguredLimit(t *testing.T) {
	fixture := catalogtest.NewFixture(t)
	svc := New(Params{
		DB:          fixture.DB,
		Log:         zap.NewNop(),
		ProductRepo: productrepository.Provide(),
		SpecRepo:    specrepository.Provide(),
		PDF:         pdf.New(),
		Catalog: config.NewStaticCatalogConfigHolder(config.CatalogConfig{
			Comparison: config.ComparisonConfig{MaxProducts: 2},
		}),
	})

	_, err := svc.Compare(context.Background(), domain.CompareRequest{ProductIDs: []string{"1", "2", "3"}})
	assert.ErrorIs(t, err, domain.ErrTooManyProducts)
}

func TestCompareStoreFailurePropagates(t *testing.T) {
	products := &mockProductRepo{}
	storeErr := errors.New("connection refused")
	products.On("FindByIDs", mock.Anything, mock.Anything, []int64{7, 9}).Return(nil, storeErr)

	svc, c := setupComparison(t, products)

	records, err := svc.Compare(context.Background(), domain.CompareRequest{ProductIDs: []string{"7", "9", "7"}})
	assert.Nil(t, records)
	assert.Same(t, storeErr, err)
	assert.Zero(t, c.specs.findAll)
	products.AssertExpectations(t)
}

func TestExportRendersPDF(t *testing.T) {
	svc, c := setupComparison(t, nil)

	resp, err := svc.Export(context.Background(), domain.ExportRequest{
		ProductIDs: []string{idString(c.a.ID), idString(c.b.ID)},
		Selections: map[string]string{idString(c.tierID): idString(c.goldID)},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", resp.ContentType)
	assert.Equal(t, "product-comparison-alpha-beta.pdf", resp.Filename)
	require.NotEmpty(t, resp.Body)
	assert.Equal(t, "%PDF", string(resp.Body[:4]))
}

func TestExportErrors(t *testing.T) {
	svc, c := setupComparison(t, nil)
	region := c.fixture.Group("Region")
	eu := c.fixture.Choice(region.ID, "EU")
	ctx := context.Background()

	_, err := svc.Export(ctx, domain.ExportRequest{ProductIDs: []string{"999"}})
	assert.ErrorIs(t, err, domain.ErrNothingToExport)

	_, err = svc.Export(ctx, domain.ExportRequest{
		ProductIDs: []string{idString(c.a.ID)},
		Selections: map[string]string{"tier": idString(c.goldID)},
	})
	assert.ErrorIs(t, err, resolutiondomain.ErrInvalidSelection)

	_, err = svc.Export(ctx, domain.ExportRequest{
		ProductIDs: []string{idString(c.a.ID)},
		Selections: map[string]string{idString(c.tierID): idString(eu.ID)},
	})
	assert.ErrorIs(t, err, resolutiondomain.ErrChoiceGroupMismatch)

	_, err = svc.Export(ctx, domain.ExportRequest{
		ProductIDs: []string{idString(c.a.ID)},
		Selections: map[string]string{idString(c.tierID): "31337"},
	})
	assert.ErrorIs(t, err, resolutiondomain.ErrChoiceNotFound)
}
