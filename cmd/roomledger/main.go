package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/roomledger/roomledger/internal/audit"
	"github.com/roomledger/roomledger/internal/billing"
	"github.com/roomledger/roomledger/internal/catalog"
	"github.com/roomledger/roomledger/internal/clock"
	"github.com/roomledger/roomledger/internal/config"
	"github.com/roomledger/roomledger/internal/contract"
	"github.com/roomledger/roomledger/internal/logger"
	"github.com/roomledger/roomledger/internal/maintenance"
	"github.com/roomledger/roomledger/internal/migration"
	"github.com/roomledger/roomledger/internal/property"
	"github.com/roomledger/roomledger/internal/room"
	"github.com/roomledger/roomledger/internal/scheduler"
	"github.com/roomledger/roomledger/internal/seed"
	"github.com/roomledger/roomledger/internal/server"
	"github.com/roomledger/roomledger/internal/tenant"
	"github.com/roomledger/roomledger/internal/usage"
	"github.com/roomledger/roomledger/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains
		property.Module,
		room.Module,
		tenant.Module,
		contract.Module,
		catalog.Module,
		usage.Module,
		billing.Module,
		maintenance.Module,
		audit.Module,

		// Startup tasks and background jobs
		migration.Module,
		seed.Module,
		scheduler.Module,

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
