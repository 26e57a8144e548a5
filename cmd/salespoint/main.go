package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/clock"
	"github.com/teleretail/salespoint/internal/config"
	"github.com/teleretail/salespoint/internal/migration"
	"github.com/teleretail/salespoint/internal/observability"
	"github.com/teleretail/salespoint/internal/server"
	"github.com/teleretail/salespoint/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
