package app

import (
	"task-manager/internal/config"
	"task-manager/internal/notify"
	"task-manager/internal/storage/postgres"
)

var (
	globalHub    *notify.Hub
	globalPoller *notify.Poller
)

// MustStartNotifier wires the due-task poller to the websocket hub.
// The hub always exists so clients can subscribe; the cron scan only
// runs when the notifier is enabled.
func MustStartNotifier() {
	cfg := config.Global().Notifier

	globalHub = notify.NewHub(globalLogger)
	if !cfg.Enabled {
		globalLogger.Info().Msg("due task notifier disabled")
		return
	}

	taskStore := postgres.NewTaskStore(globalLogger, globalPostgresPool)
	globalPoller = notify.NewPoller(globalLogger, taskStore, globalHub, cfg.Schedule)

	err := globalPoller.Start()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("schedule", cfg.Schedule).
			Msg("failed to start due task poller")
		panic(err)
	}
}

func StopNotifier() {
	if globalPoller != nil {
		globalPoller.Stop()
	}
	if globalHub != nil {
		globalHub.Close()
	}
}
