package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-studio-backend/internal/core"
	"recipe-studio-backend/pkg/messagequeue"
)

const defaultEventsQueue = "recipe_studio.sync"

// dialQueue is replaced in tests.
var dialQueue = func(url string) (messagequeue.MessageQueue, error) {
	return messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: url}, logger)
}

func newEventsCmd() *cobra.Command {
	var (
		url   string
		queue string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow library sync events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return fmt.Errorf("no broker URL: set --url or RABBITMQ_URL")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mq, err := dialQueue(url)
			if err != nil {
				return fmt.Errorf("while connecting to the broker: %w", err)
			}
			defer mq.Close()

			logger.Info("Following sync events", zap.String("queue", queue))
			err = mq.Consume(ctx, queue, func(body []byte) {
				printEvent(cmd.OutOrStdout(), body)
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", os.Getenv("RABBITMQ_URL"), "AMQP broker URL.")
	cmd.Flags().StringVar(&queue, "queue", envOr("RABBITMQ_QUEUE", defaultEventsQueue), "Queue to consume.")
	return cmd
}

func printEvent(w io.Writer, body []byte) {
	ev, err := core.DecodeSyncEvent(body)
	if err != nil {
		logger.Warn("Skipping undecodable event", zap.Error(err))
		return
	}
	line := fmt.Sprintf("%s %-19s books=%d", ev.At.Format(time.RFC3339), ev.Type, ev.Books)
	if ev.Email != "" {
		line += " email=" + ev.Email
	}
	if ev.Error != "" {
		line += " error=" + ev.Error
	}
	fmt.Fprintln(w, line)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
