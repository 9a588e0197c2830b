package billing

import (
	"context"

	"github.com/roomledger/roomledger/internal/billing/editbuffer"
	"github.com/roomledger/roomledger/internal/billing/service"
	"github.com/roomledger/roomledger/internal/config"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("billing",
	fx.Provide(newEditBuffer),
	fx.Provide(service.New),
	fx.Invoke(flushOnShutdown),
)

func newEditBuffer(cfg config.Config, log *zap.Logger, usageSvc usagedomain.Service) *editbuffer.Buffer {
	return editbuffer.New(log, usageSvc, cfg.BillingDebounce)
}

// flushOnShutdown commits staged edits before the process exits so a
// debounce window in flight is never lost.
func flushOnShutdown(lc fx.Lifecycle, buffer *editbuffer.Buffer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_, err := buffer.Flush(ctx)
			return err
		},
	})
}
