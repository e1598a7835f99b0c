package migration

import (
	"github.com/smallbiznis/policyhub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.MigrateOnStart {
			log.Info("schema migration skipped")
			return nil
		}
		if err := Migrate(conn, cfg.DBType); err != nil {
			return err
		}
		log.Info("schema migrated", zap.String("type", cfg.DBType))
		return nil
	}),
)
