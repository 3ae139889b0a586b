package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "marketplace-service/internal/adapters/logger"
	"marketplace-service/internal/adapters/notifier"
	postgres_adapter "marketplace-service/internal/adapters/postgres"
	rabbitmq_adapter "marketplace-service/internal/adapters/rabbitmq"
	redis_adapter "marketplace-service/internal/adapters/redis"
	"marketplace-service/internal/adapters/regionfetcher"
	"marketplace-service/internal/adapters/rest"
	"marketplace-service/internal/adapters/xlsx"
	"marketplace-service/internal/configs"
	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/usecase"
	fluentlogger "marketplace-service/pkg/fluent_logger"
	"marketplace-service/pkg/postgres"
	"marketplace-service/pkg/rabbitmq"
	"marketplace-service/pkg/redisclient"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout      = 10 * time.Second
	sessionSweepInterval = time.Minute
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	logger    port.LoggerPort

	// контекст фоновых компонентов (диспетчер SSE), отменяется при остановке
	ctx    context.Context
	cancel context.CancelFunc

	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	connManager  *rabbitmq.ConnectionManager
	publisher    *rabbitmq.Publisher
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	if err := app.initLoggers(); err != nil {
		app.cancel()
		return nil, err
	}
	if err := app.initComponents(); err != nil {
		app.logger.Error("Failed to initialize application", err, nil)
		app.closeResources()
		if app.fluentClient != nil {
			_ = app.fluentClient.Close()
		}
		return nil, err
	}
	return app, nil
}

func (a *App) initLoggers() error {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(a.config.StdoutLogger.Level),
		IsJSON:   a.config.StdoutLogger.IsJSON,
		UseColor: !a.config.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if a.config.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      a.config.FluentBit.Host,
			Port:      a.config.FluentBit.Port,
			TagPrefix: a.config.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(a.config.FluentBit.Level))
		if err != nil {
			_ = fluentClient.Close()
			return fmt.Errorf("failed to create fluentbit adapter: %w", err)
		}
		a.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.logger = multiLogger.WithFields(port.Fields{"service_name": a.config.AppName})
	a.logger.WithFields(port.Fields{"component": "app"}).Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": a.config.FluentBit.Enabled,
	})
	return nil
}

func (a *App) initComponents() error {
	baseLogger := a.logger
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	// --- хранилище объявлений ---
	pool, err := postgres.NewPool(a.ctx, postgres.Config{
		DatabaseURL: a.config.Database.URL,
		PingTimeout: 5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.dbPool = pool
	appLogger.Info("PostgreSQL pool initialized", nil)

	// --- справочник регионов ---
	fetcher, err := regionfetcher.NewRegionFetcherAdapter(regionfetcher.Config{
		BaseURL:   a.config.RegionAPI.BaseURL,
		Timeout:   a.config.RegionAPI.Timeout,
		Delay:     a.config.RegionAPI.Delay,
		UserAgent: a.config.AppName,
	})
	if err != nil {
		return fmt.Errorf("failed to create region fetcher: %w", err)
	}
	var regionProvider port.RegionProviderPort = fetcher

	if a.config.Redis.Enabled {
		client, err := redisclient.NewClient(a.ctx, redisclient.Config{
			Addr:        a.config.Redis.Addr,
			PingTimeout: 3 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
		regionProvider = redis_adapter.NewCachedRegionProvider(fetcher, client, a.config.Redis.TTL)
		appLogger.Info("Region cache enabled", port.Fields{"addr": a.config.Redis.Addr, "ttl": a.config.Redis.TTL.String()})
	}

	// --- уведомления селектора ---
	sseNotifier := notifier.NewSSENotifier(a.ctx, baseLogger)
	notifiers := []port.NotifierPort{sseNotifier, notifier.NewLoggingNotifier()}

	if a.config.RabbitMQ.Enabled {
		connBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq.NewConnectionManager(a.config.RabbitMQ.URL, connBridge)
		if err != nil {
			return fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
		}
		a.connManager = connManager

		publisher, err := rabbitmq.NewPublisher(rabbitmq.PublisherConfig{
			ExchangeName:    constants.SelectorExchange,
			ExchangeType:    "topic",
			Durable:         true,
			DeclareExchange: true,
			Logger:          rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			return fmt.Errorf("failed to create rabbitmq publisher: %w", err)
		}
		a.publisher = publisher

		selectorPublisher, err := rabbitmq_adapter.NewSelectorNotificationPublisher(publisher, constants.RoutingKeySelectorNotifications)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, selectorPublisher)
		appLogger.Info("RabbitMQ notification publisher initialized", nil)
	}
	selectorNotifier := notifier.NewFanoutNotifier(notifiers...)

	// --- use cases ---
	calculateUC := usecase.NewCalculateMortgageUseCase(xlsx.NewScheduleExporter())
	rateInputUC := usecase.NewRateInputUseCase()
	propertyMortgageUC := usecase.NewGetPropertyMortgageUseCase(postgres_adapter.NewPropertyPricingAdapter(pool))
	sessionsUC := usecase.NewRegionSessionsUseCase(regionProvider, selectorNotifier, usecase.RegionSessionsConfig{
		IdleTTL:     a.config.Sessions.IdleTTL,
		MaxSessions: a.config.Sessions.MaxSessions,
	})
	// чистка простаивающих сессий живет столько же, сколько диспетчер SSE
	sweepCtx := contextkeys.ContextWithLogger(a.ctx, baseLogger.WithFields(port.Fields{"component": "RegionSessionsSweeper"}))
	go sessionsUC.RunEviction(sweepCtx, sessionSweepInterval)
	listRegionsUC := usecase.NewListRegionsUseCase(regionProvider)
	appLogger.Info("All use cases initialized", nil)

	mortgageHandler := rest.NewMortgageHandler(calculateUC, rateInputUC, propertyMortgageUC)
	regionHandler := rest.NewRegionHandler(sessionsUC, listRegionsUC, sseNotifier)
	a.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               a.config.Rest.PORT,
		CorsAllowedOrigins: a.config.Rest.CorsAllowedOrigins,
	}, mortgageHandler, regionHandler, baseLogger)

	return nil
}

// Run запускает HTTP-сервер и ждет сигнала остановки.
func (a *App) Run() error {
	appLogger := a.logger.WithFields(port.Fields{"component": "app"})
	defer a.shutdown(appLogger)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	appLogger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.PORT})
	select {
	case receivedSignal := <-quit:
		appLogger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		appLogger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}
}

func (a *App) shutdown(appLogger port.LoggerPort) {
	appLogger.Info("Shutdown sequence initiated...", nil)

	// сначала останавливаем диспетчер SSE, иначе открытые потоки событий задержат Shutdown
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			appLogger.Error("Error during API server shutdown", err, nil)
		}
	}

	a.closeResources()
	appLogger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, пишем в stdout
			log.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

// closeResources освобождает все, кроме fluent-клиента: он нужен до последней записи в лог.
func (a *App) closeResources() {
	a.cancel()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing rabbitmq publisher", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing rabbitmq connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
