package tenant

import (
	"github.com/roomledger/roomledger/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant",
	fx.Provide(service.New),
)
