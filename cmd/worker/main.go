// Command worker forwards order.placed events to the shop owner.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/aurana-storefront/internal/config"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/messaging"
	"github.com/joao-fontenele/aurana-storefront/internal/notify"
	"github.com/joao-fontenele/aurana-storefront/internal/telemetry"
)

const (
	serviceName    = "notification-worker"
	serviceVersion = "0.1.0"
	consumerGroup  = "storefront-notifier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, sync := logging.New(serviceName, cfg.Level(), cfg.LogFormat)
	defer sync()

	if err := run(logger, cfg); err != nil {
		logger.Error("worker stopped", "error", err)
		sync()
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config) error {
	if !cfg.KafkaEnabled() {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.NotifyWebhookURL == "" {
		return errors.New("NOTIFY_WEBHOOK_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion, cfg.OTelEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	notifier := notify.NewNotifier(notify.Config{
		WebhookURL:    cfg.NotifyWebhookURL,
		StorefrontURL: cfg.BaseURL,
		AdminToken:    cfg.AdminToken,
		Location:      cfg.Location(),
	}, httpClient, logger)

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.OrderTopic, consumerGroup)
	defer func() { _ = consumer.Close() }()

	logger.Info("starting notification worker", "brokers", cfg.KafkaBrokers, "topic", cfg.OrderTopic)

	err := consumer.Consume(ctx, messaging.OrderPlaced(notifier.HandleOrderPlaced))
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Info("consumer stopped")
		return nil
	}
	return err
}
