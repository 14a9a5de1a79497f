package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	devconsoleapp "github.com/hitesh22rana/devconsole/internal/app/devconsole"
	"github.com/hitesh22rana/devconsole/internal/config"
	kafkapkg "github.com/hitesh22rana/devconsole/internal/pkg/kafka"
	loggerpkg "github.com/hitesh22rana/devconsole/internal/pkg/logger"
	otelpkg "github.com/hitesh22rana/devconsole/internal/pkg/otel"
	redispkg "github.com/hitesh22rana/devconsole/internal/pkg/redis"
	svcpkg "github.com/hitesh22rana/devconsole/internal/pkg/svc"
	"github.com/hitesh22rana/devconsole/internal/pkg/transport"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
	"github.com/hitesh22rana/devconsole/internal/server"
	devconsolesvc "github.com/hitesh22rana/devconsole/internal/service/devconsole"
	"github.com/hitesh22rana/devconsole/internal/service/export"
)

const (
	// ExitOk and ExitError are the exit codes.
	ExitOk = iota
	// ExitError is the exit code for errors.
	ExitError
)

var (
	// version is the service version.
	version string

	// name is the name of the service.
	name string
)

func main() {
	os.Exit(run())
}

//nolint:gocyclo // run wires every component in order.
func run() int {
	// Handle OS signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize the service information
	initSvcInfo()

	// Load the devconsole configuration
	cfg, err := config.InitDevConsoleConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}

	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}

	// Initialize the OTel providers when an exporter endpoint is configured
	providers := &otelpkg.Providers{}
	if cfg.Otel.Enabled {
		providers, err = otelpkg.Init(ctx, svcpkg.Info().GetName(), svcpkg.Info().GetVersion())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to init OTel providers: %v\n", err)
			return ExitError
		}
	}
	defer func() {
		if err = providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown OTel providers: %v\n", err)
		}
	}()

	// Set up logger
	ctx, logger := loggerpkg.Init(ctx, svcpkg.Info().GetName(), providers.Logger, level)
	defer func() {
		if err = logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
		}
	}()

	// Initialize the console components
	validate := validator.New()
	repo := devconsolerepo.New(&devconsolerepo.Config{
		MaxEvents:    cfg.Console.MaxEvents,
		MaxWorkflows: cfg.Console.MaxWorkflows,
	})
	svc := devconsolesvc.New(validate, repo)
	exporter := export.New(validate, svc, export.NewDelivery(
		&http.Client{},
		&export.CircuitBreakerConfig{
			ErrorThreshold:   cfg.Export.BreakerErrorThreshold,
			SuccessThreshold: 1,
			Timeout:          cfg.Export.BreakerTimeout,
		},
		&export.RetryConfig{
			MaxRetries:         cfg.Export.MaxRetries,
			BackoffExponential: cfg.Export.RetryBackoff,
			PerRetryTimeout:    cfg.Export.PerRetryTimeout,
		},
	))
	app := devconsoleapp.New(ctx, svc)

	// Initialize the stream dialer for the configured transport
	dialer, closeDialer, err := newDialer(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}
	defer closeDialer()

	client := transport.New(dialer, app, &transport.Config{
		BaseDelay: cfg.Transport.BaseDelay,
		MaxDelay:  cfg.Transport.MaxDelay,
	}, transport.WithParseLogLimit(cfg.Transport.ParseLogInterval, cfg.Transport.ParseLogBurst))

	srv := server.New(ctx, &server.Config{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		RequestTimeout:    cfg.Server.RequestTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		RequestBodyLimit:  cfg.Server.RequestBodyLimit,
		AllowedOrigin:     cfg.Server.AllowedOrigin,
	}, svc, exporter, client)

	// Log the service information
	logger.Info(
		"starting devconsole",
		zap.String("name", svcpkg.Info().Name),
		zap.String("version", svcpkg.Info().Version),
		zap.String("environment", cfg.Environment.Env),
		zap.String("transport", dialer.Name()),
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return app.Run(ctx, client)
	})
	eg.Go(func() error {
		return srv.Start(ctx)
	})

	if err := eg.Wait(); err != nil {
		logger.Error("devconsole stopped", zap.Error(err))
		return ExitError
	}

	return ExitOk
}

// newDialer builds the dialer selected by TRANSPORT_KIND. The returned close
// function releases any client the dialer holds.
func newDialer(ctx context.Context, cfg *config.DevConsoleConfig) (transport.Dialer, func(), error) {
	noop := func() {}

	switch cfg.Transport.Kind {
	case config.TransportSSE:
		return &transport.SSEDialer{URL: cfg.Transport.URL}, noop, nil
	case config.TransportRedis:
		rdb, err := redispkg.New(ctx, &redispkg.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		//nolint:errcheck // best effort on shutdown
		return &transport.RedisDialer{
			Store:    rdb,
			Channels: redispkg.LogsChannels(cfg.Transport.Channels, cfg.Transport.Scopes),
		}, func() { rdb.Close() }, nil
	case config.TransportKafka:
		return &transport.KafkaDialer{Options: kafkaOptions(&cfg.Kafka)}, noop, nil
	default:
		return &transport.WebSocketDialer{
			URL:       cfg.Transport.URL,
			ReadLimit: cfg.Transport.ReadLimit,
		}, noop, nil
	}
}

// kafkaOptions translates the KAFKA_* settings. Without explicit topics the
// console consumes the shared logs topic.
func kafkaOptions(cfg *config.Kafka) []kafkapkg.Option {
	topics := cfg.ConsumeTopics
	if len(topics) == 0 {
		topics = []string{kafkapkg.TopicLogs}
	}

	opts := []kafkapkg.Option{
		kafkapkg.WithBrokers(cfg.Brokers...),
		kafkapkg.WithConsumeTopics(topics...),
		kafkapkg.WithFetchIsolationLevel(kafkapkg.IsolationLevel(cfg.FetchIsolationLevel)),
	}
	if cfg.ConsumerGroup != "" {
		opts = append(opts, kafkapkg.WithConsumerGroup(cfg.ConsumerGroup))
	}
	if cfg.DisableAutoCommit {
		opts = append(opts, kafkapkg.WithDisableAutoCommit())
	}
	if cfg.FromBeginning {
		opts = append(opts, kafkapkg.WithFromBeginning())
	}
	return opts
}

// initSvcInfo initializes the service information.
func initSvcInfo() {
	svcpkg.SetVersion(version)
	svcpkg.SetName(name)
}
