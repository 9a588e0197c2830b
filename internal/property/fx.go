package property

import (
	"github.com/roomledger/roomledger/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property",
	fx.Provide(service.New),
)
