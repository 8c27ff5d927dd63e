package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mmtools/internal/metrics"
	"mmtools/mmconfig"
	"mmtools/types"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Toggler interface {
	SetTrading(ctx context.Context, symbol string, enable bool) (*mmconfig.Transition, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler flips enable_trading on cron schedules, one pair of jobs per
// trading window. Schedules are evaluated in UTC.
type Scheduler struct {
	cron     *cron.Cron
	store    Toggler
	notifier Notifier
	log      *zap.Logger
}

func New(store Toggler, notifier Notifier, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Add registers the jobs of w. Jobs run with ctx.
func (s *Scheduler) Add(ctx context.Context, w types.TradingWindow) error {
	if w.EnableAt != "" {
		if _, err := s.cron.AddFunc(w.EnableAt, func() { s.Apply(ctx, w.Symbol, true) }); err != nil {
			return fmt.Errorf("window %s enable_at %q: %w", w.Symbol, w.EnableAt, err)
		}
	}
	if w.DisableAt != "" {
		if _, err := s.cron.AddFunc(w.DisableAt, func() { s.Apply(ctx, w.Symbol, false) }); err != nil {
			return fmt.Errorf("window %s disable_at %q: %w", w.Symbol, w.DisableAt, err)
		}
	}
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Apply performs one scheduled toggle. Failures are logged; the schedule
// keeps running.
func (s *Scheduler) Apply(ctx context.Context, symbol string, enable bool) {
	t, err := s.store.SetTrading(ctx, symbol, enable)
	if errors.Is(err, mmconfig.ErrNotFound) {
		s.log.Warn("no configuration stored, skipping", zap.String("symbol", symbol), zap.Bool("enable", enable))
		return
	}
	if err != nil {
		s.log.Error("toggle trading failed", zap.String("symbol", symbol), zap.Bool("enable", enable), zap.Error(err))
		return
	}

	metrics.TradingTogglesTotal.WithLabelValues(symbol, strconv.FormatBool(enable)).Inc()
	s.log.Info("enable_trading updated",
		zap.String("symbol", symbol),
		zap.Bool("old", t.Old),
		zap.Bool("new", t.New))

	if s.notifier == nil {
		return
	}
	text := fmt.Sprintf("<b>%s</b> enable_trading %t -&gt; %t", symbol, t.Old, t.New)
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Warn("telegram notify failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

// Run starts the cron loop and blocks until ctx is done. Running jobs are
// allowed to finish before it returns.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}
