package maintenance

import (
	"github.com/roomledger/roomledger/internal/maintenance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("maintenance",
	fx.Provide(service.New),
)
