package scheduler

import (
	"context"

	"github.com/roomledger/roomledger/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return sched.Start(cfg.OpenMonthCron)
		},
		OnStop: func(context.Context) error {
			sched.Stop()
			return nil
		},
	})
}
