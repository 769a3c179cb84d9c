package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"agrohub-ai/cache"
	"agrohub-ai/forecast"
)

const refreshTimeout = 2 * time.Minute

// Scheduler periodically recomputes the nationwide monthly forecast, warms
// the Redis snapshot and stores a row for the admin override workflow. The
// forecasting core stays cache-free; all warm state lives out here.
type Scheduler struct {
	cron   *cron.Cron
	svc    *forecast.Service
	db     *pgxpool.Pool
	logger *zap.Logger
}

func New(svc *forecast.Service, db *pgxpool.Pool, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// Start registers the refresh job with the given cron spec and starts the
// scheduler. An immediate warmup run happens in the background.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("forecast refresh scheduler started", zap.String("spec", spec))

	go s.refresh()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("forecast refresh scheduler stopped")
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	forecasts, err := s.svc.GenerateDemandForecast(ctx, "monthly", nil)
	if err != nil {
		s.logger.Error("scheduled forecast refresh failed", zap.Error(err))
		return
	}

	payload, err := json.Marshal(forecasts)
	if err != nil {
		s.logger.Error("marshalling forecast snapshot failed", zap.Error(err))
		return
	}

	if cache.Client != nil {
		if err := cache.Client.Set(ctx, cache.NationwideKey("monthly"), payload, cache.ForecastTTL).Err(); err != nil {
			s.logger.Warn("warming forecast snapshot in redis failed", zap.Error(err))
		}
	}

	if s.db != nil {
		_, err = s.db.Exec(ctx, `
			INSERT INTO ai_forecasts (id, forecast_type, scope, forecast_date, forecasts, is_overridden)
			VALUES ($1, 'monthly', 'nationwide', $2, $3, false)
		`, uuid.NewString(), time.Now(), payload)
		if err != nil {
			s.logger.Warn("storing forecast snapshot row failed", zap.Error(err))
		}
	}

	s.logger.Info("scheduled forecast refresh completed",
		zap.Int("forecasts", len(forecasts)),
		zap.Duration("duration", time.Since(start)))
}
