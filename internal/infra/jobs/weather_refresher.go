package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

// SlotRefresher refetches the weather for the position already cached.
type SlotRefresher interface {
	Refresh(ctx context.Context) (weather.Snapshot, bool, error)
}

// WeatherRefresher periodically refreshes the shared weather slot at the
// position of its last fetch.
type WeatherRefresher struct {
	cron     *cron.Cron
	schedule string
	source   SlotRefresher
	timeout  time.Duration
	logger   *slog.Logger
}

// NewWeatherRefresher builds a refresher. An empty schedule disables it.
func NewWeatherRefresher(schedule string, source SlotRefresher, logger *slog.Logger) *WeatherRefresher {
	return &WeatherRefresher{
		cron:     cron.New(),
		schedule: schedule,
		source:   source,
		timeout:  15 * time.Second,
		logger:   logger.With("component", "jobs.weather_refresher"),
	}
}

// Start registers the job and starts the scheduler.
func (r *WeatherRefresher) Start() error {
	if r.schedule == "" {
		r.logger.Info("weather refresh disabled")
		return nil
	}
	if _, err := r.cron.AddFunc(r.schedule, r.RunOnce); err != nil {
		return fmt.Errorf("schedule weather refresh: %w", err)
	}
	r.cron.Start()
	r.logger.Info("weather refresh scheduled", "schedule", r.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *WeatherRefresher) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce refreshes the slot. It does nothing until a request has filled it.
func (r *WeatherRefresher) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	snap, ok, err := r.source.Refresh(ctx)
	if err != nil {
		r.logger.Warn("weather refresh failed", "error", err)
		return
	}
	if !ok {
		r.logger.Debug("weather refresh skipped, nothing cached")
		return
	}
	r.logger.Info("weather refreshed", "city", snap.City, "temperature_c", snap.TemperatureC)
}
