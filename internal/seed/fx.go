package seed

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, cfg config.Config, conn *gorm.DB, node *snowflake.Node, log *zap.Logger) {
	path := strings.TrimSpace(cfg.SeedFile)
	if path == "" {
		return
	}
	log = log.Named("seed")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			file, err := Load(path)
			if err != nil {
				return err
			}
			stats, err := Apply(ctx, conn, node, file)
			if err != nil {
				return err
			}
			log.Info("catalog seeded",
				zap.String("file", path),
				zap.Int("insurers", stats.Insurers),
				zap.Int("products", stats.Products),
				zap.Int("groups", stats.Groups),
				zap.Int("choices", stats.Choices),
				zap.Int("specs", stats.Specs),
				zap.Int("values", stats.Values),
			)
			return nil
		},
	})
}
