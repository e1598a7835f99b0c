package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCatalogFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCatalogConfigHolderReadsFile(t *testing.T) {
	path := writeCatalogFile(t, `
catalog:
  comparison:
    maxProducts: 3
  rateLimit:
    enabled: true
    ratePerSecond: 2
    burst: 4
  export:
    title: "Coverage table"
`)

	holder, err := NewCatalogConfigHolder(Config{CatalogConfigPath: path}, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, 3, cfg.Comparison.MaxProducts)
	assert.Equal(t, 2.0, cfg.RateLimit.RatePerSecond)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
	assert.Equal(t, "Coverage table", cfg.Export.Title)
}

func TestCatalogConfigHolderClampsMaxProducts(t *testing.T) {
	path := writeCatalogFile(t, `
catalog:
  comparison:
    maxProducts: 12
`)

	holder, err := NewCatalogConfigHolder(Config{CatalogConfigPath: path}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, MaxCompareProducts, holder.MaxCompareProducts())
	assert.Equal(t, "Product comparison", holder.Get().Export.Title)
}

func TestCatalogConfigHolderRejectsInvalidFile(t *testing.T) {
	path := writeCatalogFile(t, `
catalog:
  comparison:
    maxProducts: 0
`)

	_, err := NewCatalogConfigHolder(Config{CatalogConfigPath: path}, zap.NewNop())
	assert.Error(t, err)
}

func TestNilCatalogConfigHolderFallsBackToDefaults(t *testing.T) {
	var holder *CatalogConfigHolder
	assert.Equal(t, MaxCompareProducts, holder.MaxCompareProducts())
	assert.True(t, holder.Get().RateLimit.Enabled)
}

func TestStaticCatalogConfigHolder(t *testing.T) {
	holder := NewStaticCatalogConfigHolder(CatalogConfig{Comparison: ComparisonConfig{MaxProducts: 2}})
	assert.Equal(t, 2, holder.MaxCompareProducts())
}
