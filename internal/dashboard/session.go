package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"forexradar/internal/calculator"
	"forexradar/internal/config"
	"forexradar/internal/database"
	"forexradar/internal/logger"
	"forexradar/internal/metrics"
	"forexradar/internal/models"
	"forexradar/internal/records"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrAlreadyStarted = errors.New("session already started")

// Session owns the dashboard state, the poll schedule and the settings
// persistence. It is created by the composition root and shared by reference.
type Session struct {
	logger   *zap.Logger
	fetcher  records.ClientInterface
	store    database.SettingsStore
	pageSize int
	interval time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	state State
	// runCtx bounds shared fetches. It is cancelled only by Stop.
	runCtx context.Context

	inflight singleflight.Group

	lifecycle sync.Mutex
	cron      *cron.Cron
	cancel    context.CancelFunc
	running   sync.WaitGroup
}

// NewSession creates a session with default settings. Call Start to load the
// saved settings and begin polling.
func NewSession(log *zap.Logger, cfg *config.Dashboard, fetcher records.ClientInterface, store database.SettingsStore) *Session {
	log = log.Named("dashboard")
	return &Session{
		logger:   log,
		fetcher:  fetcher,
		store:    store,
		pageSize: cfg.HistoryPerPage,
		interval: cfg.RefreshInterval,
		now:      time.Now,
		runCtx:   context.Background(),
		state: NewState(models.Settings{
			Balance:     cfg.DefaultBalance,
			RiskPercent: cfg.DefaultRiskPercent,
		}),
	}
}

// Start loads the saved settings, launches the first refresh and schedules
// the recurring one. It does not wait for the first refresh; its outcome,
// including a failure, shows up in the state.
func (s *Session) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.cron != nil {
		return ErrAlreadyStarted
	}

	settings, err := s.store.Load()
	if err != nil {
		s.logger.Warn("Could not load settings, using defaults", zap.Error(err))
	} else {
		s.dispatch(SetBalance{Balance: settings.Balance}, SetRiskPercent{RiskPercent: settings.RiskPercent}, CalculateTotalProfit{})
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		<-s.startRefresh()
	}()

	cl := logger.NewCronLogger(s.logger)
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		<-s.startRefresh()
	}))
	s.cron.Start()

	s.logger.Info("Polling started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the schedule and waits for a running refresh to return.
// It is safe to call Stop more than once, or without Start.
func (s *Session) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.cron == nil {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.running.Wait()
	s.cron = nil

	s.mu.Lock()
	s.runCtx = context.Background()
	s.mu.Unlock()
	s.logger.Info("Polling stopped")
}

// Refresh fetches the running trade and history once. Concurrent callers share
// a single in-flight fetch. On failure the previous trades stay in place.
//
// ctx only bounds the caller's wait. The fetch itself runs under the session
// lifetime, so an abandoned caller neither cancels it nor fails the callers
// sharing it.
func (s *Session) Refresh(ctx context.Context) error {
	select {
	case res := <-s.startRefresh():
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startRefresh joins the in-flight fetch or starts one.
func (s *Session) startRefresh() <-chan singleflight.Result {
	return s.inflight.DoChan("refresh", func() (interface{}, error) {
		return nil, s.refresh(s.fetchContext())
	})
}

func (s *Session) fetchContext() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runCtx
}

func (s *Session) refresh(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.RefreshDuration.Observe(time.Since(start).Seconds()) }()

	s.dispatch(SetError{}, SetLoading{Loading: true})

	running, history, err := s.fetcher.FetchAll(ctx, s.pageSize)
	if err != nil {
		s.logger.Error("Failed to fetch trades", zap.Error(err))
		s.dispatch(SetError{Message: err.Error()})
		return err
	}

	at := s.now()
	s.dispatch(SetTrades{Running: running, History: history, At: at}, CalculateTotalProfit{})
	metrics.LastRefresh.Set(float64(at.Unix()))

	fields := []zap.Field{zap.Int("history", len(history))}
	if running != nil {
		fields = append(fields, zap.String("running_ticket", running.Ticket))
	}
	s.logger.Info("Trades refreshed", fields...)
	return nil
}

// SetBalance updates the balance, recomputes total profit and persists the
// value. The in-memory value is kept even if saving fails.
func (s *Session) SetBalance(balance float64) error {
	s.dispatch(SetBalance{Balance: balance}, CalculateTotalProfit{})
	if err := s.store.SaveBalance(balance); err != nil {
		s.logger.Error("Failed to save balance", zap.Float64("balance", balance), zap.Error(err))
		return err
	}
	return nil
}

// SetRiskPercent takes a fraction (0.01 = 1%) and behaves like SetBalance.
func (s *Session) SetRiskPercent(fraction float64) error {
	s.dispatch(SetRiskPercent{RiskPercent: fraction}, CalculateTotalProfit{})
	if err := s.store.SaveRiskPercent(fraction); err != nil {
		s.logger.Error("Failed to save risk percent", zap.Float64("risk_percent", fraction), zap.Error(err))
		return err
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LotForTrade returns the recommended lot for a trade at the current settings.
func (s *Session) LotForTrade(t models.Trade) float64 {
	return calculator.LotForTrade(t, s.Snapshot().Settings)
}

// View renders the current state for display.
func (s *Session) View() View {
	return NewView(s.Snapshot())
}

// dispatch applies actions atomically and reports profit recalculations.
func (s *Session) dispatch(actions ...Action) {
	s.mu.Lock()
	recalculated := false
	for _, a := range actions {
		s.state = Reduce(s.state, a)
		if _, ok := a.(CalculateTotalProfit); ok {
			recalculated = true
		}
	}
	st := s.state
	s.mu.Unlock()

	if !recalculated {
		return
	}
	for _, skipped := range st.Skipped {
		s.logger.Warn("Excluded trade from total profit",
			zap.String("ticket", skipped.Ticket),
			zap.Error(skipped.Err),
		)
	}
	metrics.TotalProfit.Set(st.TotalProfit)
	metrics.SkippedTrades.Set(float64(len(st.Skipped)))
}
