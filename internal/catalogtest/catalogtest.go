// Package catalogtest opens throwaway sqlite catalogs for tests.
package catalogtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
	"github.com/smallbiznis/policyhub/internal/migration"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// OpenDB returns a migrated in-memory catalog private to the calling test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.AutoMigrate(conn))
	return conn
}

func Node(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// Fixture inserts catalog rows directly, bypassing service validation.
type Fixture struct {
	t    testing.TB
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	return &Fixture{t: t, DB: OpenDB(t), Node: Node(t)}
}

func (f *Fixture) Insurer(name string) insurerdomain.Insurer {
	f.t.Helper()
	item := insurerdomain.Insurer{ID: f.Node.Generate().Int64(), Name: name}
	require.NoError(f.t, f.DB.Create(&item).Error)
	return item
}

func (f *Fixture) Product(insurerID int64, name string) productdomain.Product {
	f.t.Helper()
	item := productdomain.Product{
		ID:        f.Node.Generate().Int64(),
		Name:      name,
		InsurerID: insurerID,
		Active:    true,
	}
	require.NoError(f.t, f.DB.Create(&item).Error)
	return item
}

func (f *Fixture) Group(name string) specgroupdomain.SpecGroup {
	f.t.Helper()
	item := specgroupdomain.SpecGroup{ID: f.Node.Generate().Int64(), Name: name}
	require.NoError(f.t, f.DB.Create(&item).Error)
	return item
}

// Spec inserts spec with a fresh id. A zero ValueType becomes text.
func (f *Fixture) Spec(spec specdomain.Spec) specdomain.Spec {
	f.t.Helper()
	spec.ID = f.Node.Generate().Int64()
	if spec.ValueType == "" {
		spec.ValueType = specdomain.ValueTypeText
	}
	require.NoError(f.t, f.DB.Create(&spec).Error)
	return spec
}

func (f *Fixture) Choice(groupID int64, name string) groupchoicedomain.GroupChoice {
	f.t.Helper()
	item := groupchoicedomain.GroupChoice{
		ID:          f.Node.Generate().Int64(),
		SpecGroupID: groupID,
		ChoiceName:  name,
	}
	require.NoError(f.t, f.DB.Create(&item).Error)
	return item
}

func (f *Fixture) ChoiceValue(choiceID, specID int64, value string) groupchoicedomain.GroupChoiceValue {
	f.t.Helper()
	item := groupchoicedomain.GroupChoiceValue{ChoiceID: choiceID, SpecID: specID, Value: value}
	require.NoError(f.t, f.DB.Create(&item).Error)
	return item
}
