// Package migration creates the schema on startup so the console is
// usable out of the box on both sqlite and postgres.
package migration

import (
	auditdomain "github.com/roomledger/roomledger/internal/audit/domain"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	maintenancedomain "github.com/roomledger/roomledger/internal/maintenance/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	tenantdomain "github.com/roomledger/roomledger/internal/tenant/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&propertydomain.Property{},
		&roomdomain.Room{},
		&tenantdomain.Tenant{},
		&contractdomain.Contract{},
		&catalogdomain.ServiceDefinition{},
		&usagedomain.Record{},
		&maintenancedomain.Ticket{},
		&auditdomain.Entry{},
	)
}
