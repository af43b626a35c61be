package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	EverySecond       = "* * * * * *"
	defaultRunTimeout = 30 * time.Second
)

type RelayOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob publishes committed domain events to the broker.
// A run is skipped while the previous one is still going.
type OutboxRelayJob struct {
	handler  RelayOutboxHandler
	cmd      commands.RelayOutboxCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOutboxRelayJob(
	handler RelayOutboxHandler,
	cmd commands.RelayOutboxCommand,
	schedule string,
	logger *slog.Logger,
) *OutboxRelayJob {
	if schedule == "" {
		schedule = EverySecond
	}
	return &OutboxRelayJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "outbox_relay_job"),
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Run relays one batch.
func (j *OutboxRelayJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	published, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay failed", "published", published, "error", err)
		return
	}
	if published > 0 {
		j.logger.DebugContext(ctx, "Outbox relayed", "published", published)
	}
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
