package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/fjod/go_cart/storefront/internal/booking"
	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/insurance"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/telemetry"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long:  "Run the HTTP service. All settings come from the environment (HTTP_PORT, REDIS_ADDR, KAFKA_BROKERS, AUTH_MODE, ...).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.Common.ServiceName, cfg.Common.LogLevel)

	shutdownTracing, err := telemetry.Setup(os.Stderr, cfg.Tracing, cfg.Common.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	repo, err := catalog.NewRepository(cfg.Catalog.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := repo.RunMigrations(); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Catalog.DBPath).Msg("catalog ready")

	listingCache, closeCache, err := newListingCache(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeCache()
	catalogSvc := catalog.NewService(repo, listingCache, log)

	sessions := session.NewStore(newAuthenticator(cfg.Auth), log)
	sessions.Subscribe(func(s session.Snapshot) {
		log.Debug().Str("state", s.State.String()).Bool("authenticating", s.Authenticating).Msg("session changed")
	})

	cartStore := cart.NewStore(log)
	cartStore.Subscribe(func(s domain.CartSnapshot) {
		metrics.CartItems.Set(float64(s.TotalItems))
	})

	var status payment.StatusSource = payment.RandomStatus{}
	if cfg.Payment.AlwaysApprove {
		status = payment.AlwaysApprove{}
	}
	charger := payment.NewBreakerCharger(
		payment.NewSimulatedCharger(status, cfg.Payment.Delay),
		circuitbreaker.DefaultSettings("payment"),
		log,
	)

	publisher := newPublisher(cfg.Kafka, log)
	defer publisher.Close()

	checkoutSvc := checkout.NewService(cartStore, charger, publisher, cfg.Payment.Timeout, log)
	bookings := booking.NewStore(log, booking.Seed()...)
	insuranceSvc := insurance.NewService(charger, cfg.Payment.Timeout, log)

	handler := h.NewRouter(h.RouterConfig{
		ServiceName:        cfg.Common.ServiceName,
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	}, h.Handlers{
		Catalog:   h.NewCatalogHandler(catalogSvc, cartStore, cfg.HTTP.RequestTimeout),
		Cart:      h.NewCartHandler(cartStore, catalogSvc, cfg.HTTP.RequestTimeout),
		Session:   h.NewSessionHandler(sessions),
		Checkout:  h.NewCheckoutHandler(checkoutSvc),
		Bookings:  h.NewBookingHandler(bookings),
		Insurance: h.NewInsuranceHandler(insuranceSvc),
		Stream:    h.NewStreamHandler(cartStore, sessions),
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

func newListingCache(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (cache.ListingCache, func(), error) {
	if cfg.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, catalog cache disabled")
		return cache.Noop{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("redis ping succeeded")

	return cache.NewRedisCache(client, cfg.TTL), func() { client.Close() }, nil
}

func newAuthenticator(cfg config.AuthConfig) session.Authenticator {
	if cfg.Mode == config.AuthModeDirectory {
		return session.NewDirectoryAuthenticator(cfg.Delay, cfg.DefaultAvatar, argon2id.DefaultParams)
	}
	return session.NewStubAuthenticator(cfg.Delay, cfg.DefaultAvatar)
}

func newPublisher(cfg config.KafkaConfig, log zerolog.Logger) events.Publisher {
	if len(cfg.Brokers) == 0 {
		log.Info().Msg("KAFKA_BROKERS not set, order events are only logged")
		return events.NewLogPublisher(log)
	}
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.Topic, cfg.Brokers...)
}
