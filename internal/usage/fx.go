package usage

import (
	"github.com/roomledger/roomledger/internal/usage/repository"
	"github.com/roomledger/roomledger/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage",
	fx.Provide(
		repository.New,
		service.New,
	),
)
