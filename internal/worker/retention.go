package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MaintenanceFacade exposes the subset of application functionality required by the sweeper.
type MaintenanceFacade interface {
	PurgeOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionSweeper periodically removes orders that fell out of the retention horizon.
type RetentionSweeper struct {
	facade   MaintenanceFacade
	interval time.Duration
	horizon  time.Duration
	logger   *slog.Logger

	now    func() time.Time
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewRetentionSweeper constructs the retention sweeper.
func NewRetentionSweeper(facade MaintenanceFacade, interval, horizon time.Duration, logger *slog.Logger) *RetentionSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}
	return &RetentionSweeper{
		facade:   facade,
		interval: interval,
		horizon:  horizon,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches background sweeping. The loop's lifetime is owned by Stop,
// never by a caller's context: start hooks hand out contexts that expire as
// soon as startup completes.
func (s *RetentionSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop waits for the sweep loop to finish.
func (s *RetentionSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *RetentionSweeper) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.horizon)
	removed, err := s.facade.PurgeOrdersBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		s.logger.Info("retention sweep removed orders",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff),
		)
	}
}
