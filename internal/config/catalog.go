package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// MaxCompareProducts is the hard upper bound for a single comparison.
const MaxCompareProducts = 5

type CatalogConfig struct {
	Comparison ComparisonConfig
	RateLimit  RateLimitConfig
	Export     ExportConfig
}

type ComparisonConfig struct {
	MaxProducts int
}

type RateLimitConfig struct {
	Enabled       bool
	RatePerSecond float64
	Burst         int
}

type ExportConfig struct {
	Title string
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Comparison: ComparisonConfig{MaxProducts: MaxCompareProducts},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			RatePerSecond: 5,
			Burst:         20,
		},
		Export: ExportConfig{Title: "Product comparison"},
	}
}

// CatalogConfigHolder keeps the latest valid catalog.yml contents.
type CatalogConfigHolder struct {
	current atomic.Value // holds CatalogConfig
}

// NewStaticCatalogConfigHolder returns a holder that never reloads.
func NewStaticCatalogConfigHolder(cfg CatalogConfig) *CatalogConfigHolder {
	holder := &CatalogConfigHolder{}
	holder.current.Store(normalizeCatalogConfig(cfg))
	return holder
}

func NewCatalogConfigHolder(appCfg Config, log *zap.Logger) (*CatalogConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("catalog.config")

	v := viper.New()
	if path := strings.TrimSpace(appCfg.CatalogConfigPath); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/policyhub")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("POLICYHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogConfig()
	v.SetDefault("catalog.comparison.maxProducts", defaults.Comparison.MaxProducts)
	v.SetDefault("catalog.rateLimit.enabled", defaults.RateLimit.Enabled)
	v.SetDefault("catalog.rateLimit.ratePerSecond", defaults.RateLimit.RatePerSecond)
	v.SetDefault("catalog.rateLimit.burst", defaults.RateLimit.Burst)
	v.SetDefault("catalog.export.title", defaults.Export.Title)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodeCatalogConfig(v)
	if err != nil {
		return nil, err
	}
	if err := validateCatalogConfig(cfg); err != nil {
		return nil, err
	}

	holder := &CatalogConfigHolder{}
	holder.current.Store(normalizeCatalogConfig(cfg))

	if !fileLoaded {
		log.Info("catalog config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeCatalogConfig(v)
		if err != nil {
			log.Warn("catalog config reload failed", zap.Error(err))
			return
		}
		if err := validateCatalogConfig(updated); err != nil {
			log.Warn("invalid catalog config ignored", zap.Error(err))
			return
		}
		holder.current.Store(normalizeCatalogConfig(updated))
		log.Info("catalog config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *CatalogConfigHolder) Get() CatalogConfig {
	if h == nil {
		return DefaultCatalogConfig()
	}
	cfg, ok := h.current.Load().(CatalogConfig)
	if !ok {
		return DefaultCatalogConfig()
	}
	return cfg
}

// MaxCompareProducts returns the configured comparison bound, never above the hard limit.
func (h *CatalogConfigHolder) MaxCompareProducts() int {
	return h.Get().Comparison.MaxProducts
}

// decodeCatalogConfig goes through AllSettings so defaults fill keys a partial file omits.
func decodeCatalogConfig(v *viper.Viper) (CatalogConfig, error) {
	var wrapper struct {
		Catalog CatalogConfig
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return CatalogConfig{}, err
	}
	return wrapper.Catalog, nil
}

func validateCatalogConfig(cfg CatalogConfig) error {
	if cfg.Comparison.MaxProducts < 1 {
		return errors.New("catalog.comparison.maxProducts must be at least 1")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RatePerSecond <= 0 {
			return errors.New("catalog.rateLimit.ratePerSecond must be positive")
		}
		if cfg.RateLimit.Burst < 1 {
			return errors.New("catalog.rateLimit.burst must be at least 1")
		}
	}
	return nil
}

func normalizeCatalogConfig(cfg CatalogConfig) CatalogConfig {
	if cfg.Comparison.MaxProducts < 1 || cfg.Comparison.MaxProducts > MaxCompareProducts {
		cfg.Comparison.MaxProducts = MaxCompareProducts
	}
	cfg.Export.Title = strings.TrimSpace(cfg.Export.Title)
	if cfg.Export.Title == "" {
		cfg.Export.Title = DefaultCatalogConfig().Export.Title
	}
	return cfg
}
