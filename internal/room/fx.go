package room

import (
	"github.com/roomledger/roomledger/internal/room/service"
	"go.uber.org/fx"
)

var Module = fx.Module("room",
	fx.Provide(service.New),
)
