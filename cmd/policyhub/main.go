package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/clock"
	"github.com/smallbiznis/policyhub/internal/config"
	"github.com/smallbiznis/policyhub/internal/migration"
	"github.com/smallbiznis/policyhub/internal/observability"
	"github.com/smallbiznis/policyhub/internal/seed"
	"github.com/smallbiznis/policyhub/internal/server"
	"github.com/smallbiznis/policyhub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		// migrations run before seeding on start
		migration.Module,
		seed.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
