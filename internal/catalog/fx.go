package catalog

import (
	"github.com/roomledger/roomledger/internal/catalog/repository"
	"github.com/roomledger/roomledger/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(
		repository.New,
		service.New,
	),
)
