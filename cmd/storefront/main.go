// Command storefront serves the shop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/joao-fontenele/aurana-storefront/internal/codes"
	"github.com/joao-fontenele/aurana-storefront/internal/config"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/messaging"
	"github.com/joao-fontenele/aurana-storefront/internal/store/backend"
	"github.com/joao-fontenele/aurana-storefront/internal/storefront"
	"github.com/joao-fontenele/aurana-storefront/internal/telemetry"
)

const (
	serviceName    = "storefront"
	serviceVersion = "0.1.0"
)

func main() {
	addr := flag.String("addr", "", "listen address, overrides PORT")
	storeBackend := flag.String("store", "", "store backend, overrides STORE_BACKEND")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Port = *addr
	}
	if *storeBackend != "" {
		cfg.StoreBackend = *storeBackend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger, sync := logging.New(serviceName, cfg.Level(), cfg.LogFormat)
	defer sync()

	if err := run(logger, cfg); err != nil {
		logger.Error("storefront stopped", "error", err)
		sync()
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config) error {
	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion, cfg.OTelEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	metrics, err := telemetry.NewMetrics(otel.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	st, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	var publisher storefront.EventPublisher
	if cfg.KafkaEnabled() {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	handler, err := storefront.NewHandler(st, codes.NewGenerator(), publisher, metrics, logger, storefront.Config{
		BaseURL:      cfg.BaseURL,
		WalletURL:    cfg.WalletURL,
		CookieSecure: cfg.CookieSecure,
		AdminToken:   cfg.AdminToken,
		Location:     cfg.Location(),
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handler.Routes(mux)
	mux.HandleFunc("GET /metrics", telemetry.WithHTTPRoute(metricsHandler.ServeHTTP))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(mux, serviceName, otelhttp.WithSpanNameFormatter(telemetry.SpanName)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting storefront", "addr", cfg.Addr(), "store", cfg.StoreBackend, "kafka", cfg.KafkaEnabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-stop:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
