package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"StockDashboard/internal/collector"
	"StockDashboard/internal/model"
	"StockDashboard/internal/notifier"
	"StockDashboard/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Alerter delivers operator alerts.
type Alerter interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks: the provider health probe and journal pruning.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Notifier    Alerter // nil disables alerts
	Recorder    recorder.Recorder
	Ctx         context.Context
	ProbeSymbol model.Symbol
	Retention   time.Duration

	healthy   atomic.Bool
	mu        sync.Mutex
	downSince time.Time
	now       func() time.Time
}

// NewScheduler creates a new Scheduler. The provider is assumed healthy until
// the first probe says otherwise.
func NewScheduler(ctx context.Context, col *collector.Collector, alerter Alerter, rec recorder.Recorder, probeSymbol model.Symbol, retention time.Duration) *Scheduler {
	s := &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Notifier:    alerter,
		Recorder:    rec,
		Ctx:         ctx,
		ProbeSymbol: probeSymbol,
		Retention:   retention,
		now:         time.Now,
	}
	s.healthy.Store(true)
	return s
}

// RegisterAll registers the probe and prune tasks.
func (s *Scheduler) RegisterAll(probeCron, pruneCron string) error {
	if _, err := s.Cron.AddFunc(probeCron, s.probeTask); err != nil {
		return fmt.Errorf("register probe task: %w", err)
	}
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Healthy reports the outcome of the most recent provider probe.
func (s *Scheduler) Healthy() bool { return s.healthy.Load() }

// RunProbeNow executes the probe task immediately.
func (s *Scheduler) RunProbeNow() {
	s.probeTask()
}

func (s *Scheduler) probeTask() {
	provider := s.Collector.Name()
	started := s.now()
	err := s.Collector.Probe(s.Ctx, s.ProbeSymbol)
	elapsed := s.now().Sub(started)

	evt := &recorder.ProbeEvent{
		Provider: provider,
		Symbol:   string(s.ProbeSymbol),
		OK:       err == nil,
		Duration: elapsed,
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if recErr := s.Recorder.RecordProbe(evt); recErr != nil {
		log.Error().Err(recErr).Msg("record probe")
	}

	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Dur("elapsed", elapsed).Msg("provider probe failed")
		if s.healthy.CompareAndSwap(true, false) {
			s.mu.Lock()
			s.downSince = started
			s.mu.Unlock()
			s.trySend(notifier.FormatProviderDown(provider, string(s.ProbeSymbol), err, started))
		}
		return
	}

	log.Debug().Str("provider", provider).Dur("elapsed", elapsed).Msg("provider probe ok")
	if s.healthy.CompareAndSwap(false, true) {
		s.mu.Lock()
		downtime := started.Sub(s.downSince)
		s.mu.Unlock()
		log.Info().Str("provider", provider).Dur("downtime", downtime).Msg("provider recovered")
		s.trySend(notifier.FormatProviderRecovered(provider, downtime, started))
	}
}

func (s *Scheduler) pruneTask() {
	if s.Retention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.Retention)
	n, err := s.Recorder.Prune(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("prune journal")
		return
	}
	log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("journal pruned")
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
