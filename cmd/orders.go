package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Follow placed orders on the Kafka order topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(cfg.Kafka.Brokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}
			log := logger.New(cfg.Common.ServiceName, cfg.Common.LogLevel)

			c := events.NewConsumer(cfg.Kafka.Topic, group, printOrder(cmd.OutOrStdout()), log, cfg.Kafka.Brokers...)
			defer c.Close()

			log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("following orders")
			return c.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&group, "group", "storefront-orders-cli", "consumer group id")

	return cmd
}

func printOrder(w io.Writer) events.OrderHandler {
	return func(_ context.Context, evt domain.OrderPlaced) error {
		_, err := fmt.Fprintf(w, "%s  %s  %s %s  %d line(s)  %s\n",
			evt.PlacedAt.Format("2006-01-02 15:04:05"), evt.OrderID, domain.FormatPrice(evt.Total), evt.Currency, len(evt.Items), evt.Email)
		return err
	}
}
