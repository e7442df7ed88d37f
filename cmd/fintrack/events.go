package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
)

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Follow ledger events published by a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.AMQPEnabled() {
				return errors.New("AMQP_URL is not set")
			}
			ctx, stop := cli.GracefulShutdown(cmd.Context(), a.logger)
			defer stop()

			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
			if err != nil {
				return fmt.Errorf("connect to AMQP: %w", err)
			}
			defer client.Close()

			logger := a.logger.WithComponent(log.ComponentAMQP)
			out := cmd.OutOrStdout()
			err = client.Consume(ctx, func(ctx context.Context, event *amqp.LedgerEvent) error {
				logger.InfoContext(ctx, "Ledger event received", "type", event.Type, log.FieldID, event.ID)
				body, err := event.ToJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(body))
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
