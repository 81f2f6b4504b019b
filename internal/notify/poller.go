package notify

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"task-manager/internal/models"
)

const scanTimeout = 30 * time.Second

// TaskSource is the slice of the task store the poller reads from.
// The store stays the single source of truth: the poller keeps no
// cache of its own.
type TaskSource interface {
	ListDue(ctx context.Context, before time.Time) ([]models.Task, error)
}

type Broadcaster interface {
	Broadcast(event TaskDueEvent)
}

// Poller periodically scans for overdue incomplete tasks and publishes
// them to the broadcaster. It runs on its own schedule, fully decoupled
// from the request path.
type Poller struct {
	logger      zerolog.Logger
	source      TaskSource
	broadcaster Broadcaster
	schedule    string
	cron        *cron.Cron
}

func NewPoller(
	logger zerolog.Logger,
	source TaskSource,
	broadcaster Broadcaster,
	schedule string,
) *Poller {
	return &Poller{
		logger:      logger,
		source:      source,
		broadcaster: broadcaster,
		schedule:    schedule,
	}
}

func (p *Poller) Start() error {
	p.cron = cron.New()
	_, err := p.cron.AddFunc(p.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()
		p.CheckDueTasks(ctx)
	})
	if err != nil {
		return err
	}

	p.cron.Start()
	p.logger.Info().
		Str("schedule", p.schedule).
		Msg("started due task poller")
	return nil
}

// Stop halts the schedule and waits for a running scan to finish.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.logger.Info().Msg("stopped due task poller")
}

// CheckDueTasks runs a single scan, publishing one event per overdue
// incomplete task.
func (p *Poller) CheckDueTasks(ctx context.Context) {
	now := time.Now()
	tasks, err := p.source.ListDue(ctx, now)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to scan due tasks")
		return
	}
	if len(tasks) == 0 {
		return
	}

	for _, task := range tasks {
		p.broadcaster.Broadcast(NewTaskDueEvent(task))
	}
	p.logger.Info().
		Int("count", len(tasks)).
		Time("checked_at", now).
		Msg("published due tasks")
}
