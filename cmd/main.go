package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Consignment marketplace, flight booking and travel insurance backend",
		Long: `storefront serves the marketplace catalog, flight search, the shopping
cart, sign-in and a simulated checkout over HTTP.

Everything is held in memory or in an embedded catalog database that is
seeded on start; nothing survives a restart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		catalogCmd(),
		ordersCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
