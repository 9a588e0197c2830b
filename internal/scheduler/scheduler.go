// Package scheduler opens usage months on a cron schedule so the
// billing grid never starts a month from blank records.
package scheduler

import (
	"context"
	"time"

	billingdomain "github.com/roomledger/roomledger/internal/billing/domain"
	"github.com/roomledger/roomledger/internal/clock"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	BillingSvc billingdomain.Service
}

type Scheduler struct {
	log        *zap.Logger
	clock      clock.Clock
	billingSvc billingdomain.Service
	cron       *cron.Cron
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:        p.Log.Named("scheduler"),
		clock:      p.Clock,
		billingSvc: p.BillingSvc,
		cron:       cron.New(),
	}
}

// Start registers the open-month job and runs it once immediately so a
// freshly started process catches up before the next tick.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.openCurrentMonth); err != nil {
		return err
	}
	s.cron.Start()
	go s.openCurrentMonth()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) openCurrentMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	month := s.clock.Now().Format("2006-01")
	created, err := s.billingSvc.OpenMonth(ctx, month)
	if err != nil {
		s.log.Warn("open month failed", zap.String("month", month), zap.Error(err))
		return
	}
	if created > 0 {
		s.log.Info("month opened by scheduler", zap.String("month", month), zap.Int("records", created))
	}
}
