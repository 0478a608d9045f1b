package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/infra/config"
)

type recordingScheduler struct {
	startErr error
	started  bool
	stopped  bool
}

func (s *recordingScheduler) Start() error {
	s.started = true
	return s.startErr
}

func (s *recordingScheduler) Stop() { s.stopped = true }

func newTestApp(scheduler Scheduler) *App {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}
	return NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, scheduler)
}

func TestRunStopsSchedulerOnShutdown(t *testing.T) {
	scheduler := &recordingScheduler{}
	app := newTestApp(scheduler)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx))
	require.True(t, scheduler.started)
	require.True(t, scheduler.stopped)
}

func TestRunFailsWhenSchedulerFails(t *testing.T) {
	scheduler := &recordingScheduler{startErr: errors.New("bad schedule")}
	err := newTestApp(scheduler).Run(context.Background())
	require.ErrorContains(t, err, "bad schedule")
	require.False(t, scheduler.stopped)
}
