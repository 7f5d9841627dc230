package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/logging"
	"github.com/iliyamo/eco-education/internal/queue"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append domain events from RabbitMQ to the event log",
	Long: `Consumes the activity.logged and post.liked queues and appends one line
per event to $EVENTS_LOG_DIR/events.log.  Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the consumer needs no database, so DATABASE_URL is not required here
		log := logging.Must(config.LoadLogging())
		defer func() { _ = log.Sync() }()

		qc := config.LoadQueueConfig()
		ctx, stop := signalContext()
		defer stop()

		c := &queue.Consumer{URL: qc.URL, LogDir: qc.LogDir, Log: log}
		log.Info("event consumer starting", zap.String("log_dir", qc.LogDir))
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
