package contract

import (
	"github.com/roomledger/roomledger/internal/contract/repository"
	"github.com/roomledger/roomledger/internal/contract/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contract",
	fx.Provide(
		repository.New,
		service.New,
	),
)
