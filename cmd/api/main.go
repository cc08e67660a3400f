package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/repositories/casedocument"
	"github.com/Ramsey-B/fern/internal/repositories/comparisonrun"
	"github.com/Ramsey-B/fern/pkg/comparison"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/embedding"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/extraction"
	fernkafka "github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/reference"
	comparisonroutes "github.com/Ramsey-B/fern/pkg/routes/comparison"
	documentroutes "github.com/Ramsey-B/fern/pkg/routes/document"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	referenceroutes "github.com/Ramsey-B/fern/pkg/routes/reference"
	"github.com/Ramsey-B/fern/pkg/rules"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
	"github.com/Ramsey-B/fern/pkg/verification"
)

const version = "1.0.0"

// dependency adapts closures to the startup graph.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string     { return d.name }
func (d *dependency) DependsOn() []string { return d.dependsOn }
func (d *dependency) Start(ctx context.Context) error {
	return d.start(ctx)
}

func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}

func main() {
	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.TracingEnabled {
		var exporter sdktrace.SpanExporter
		if cfg.TracingOTLPProtocol == "console" {
			exporter = exporters.NewConsoleExporter()
		} else {
			exporter, err = exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
				Endpoint: cfg.TracingOTLPEndpoint,
				Protocol: cfg.TracingOTLPProtocol,
				Insecure: cfg.TracingInsecure,
				Timeout:  10 * time.Second,
			})
			if err != nil {
				logger.WithError(err).Error("Failed to create OTLP exporter")
				os.Exit(1)
			}
		}
		shutdown := tracing.InitProvider(cfg.AppName, exporter)
		defer shutdown(context.Background())
	}

	var db *sqlx.DB
	var producer *fernkafka.Producer
	var e *echo.Echo
	var checker *health.Checker

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	boot.AddDependency(&dependency{
		name: "database",
		start: func(ctx context.Context) error {
			var err error
			db, err = database.Connect(database.ConnectionConfig{
				Driver:          cfg.DatabaseDriver,
				Host:            cfg.DatabaseHost,
				Port:            cfg.DatabasePort,
				UserName:        cfg.DatabaseUserName,
				Password:        cfg.DatabasePassword,
				Name:            cfg.DatabaseName,
				SSLMode:         cfg.DatabaseSSLMode,
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			})
			if err != nil {
				return err
			}

			driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
			if err != nil {
				return err
			}

			migrations := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				Force:               cfg.DatabaseMigrationForce,
				AutoRollback:        cfg.DatabaseMigrationAutoRollback,
			})
			return migrations.Migrate(cfg.DatabaseName, driver)
		},
		stop: func(context.Context) error {
			return db.Close()
		},
	})

	serverDeps := []string{"database"}

	if cfg.KafkaEnabled {
		boot.AddDependency(&dependency{
			name: "kafka-producer",
			start: func(context.Context) error {
				producer = fernkafka.NewProducer(fernkafka.ProducerConfig{
					Brokers:      cfg.KafkaBrokers,
					Topic:        cfg.KafkaOutputTopic,
					BatchSize:    cfg.KafkaBatchSize,
					BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
					RequiredAcks: cfg.KafkaRequiredAcks,
					Compression:  cfg.KafkaCompression,
				}, logger)
				return nil
			},
			stop: func(context.Context) error {
				return producer.Close()
			},
		})
		serverDeps = append(serverDeps, "kafka-producer")
	}

	boot.AddDependency(&dependency{
		name:      "http-server",
		dependsOn: serverDeps,
		start: func(ctx context.Context) error {
			dbInstance := database.NewDatabaseInstance(db, logger)
			documents := casedocument.NewRepository(dbInstance, logger)
			runs := comparisonrun.NewRepository(dbInstance, logger)

			ruleLoader := rules.NewLoader(logger, cfg.RulesFilePath)
			refStore := reference.NewStore()

			var strategy comparison.SimilarityStrategy
			if cfg.EmbeddingServiceURL != "" {
				strategy = embedding.NewClient(embedding.Config{
					BaseURL:   cfg.EmbeddingServiceURL,
					Model:     cfg.EmbeddingServiceModel,
					Threshold: cfg.SemanticMatchThreshold,
					Timeout:   cfg.EmbeddingServiceTimeout,
				}, logger)
			}
			comparator := comparison.NewComparator(logger, strategy, cfg.LexicalMatchThreshold)
			engine := comparison.NewEngine(logger, ruleLoader, refStore, comparator, cfg.FuzzyFieldMatchThreshold)

			vlm := extraction.NewGeminiClient(extraction.GeminiConfig{
				BaseURL:     cfg.VLMBaseURL,
				Model:       cfg.VLMModel,
				APIKey:      cfg.VLMAPIKey,
				Temperature: cfg.VLMTemperature,
				MaxTokens:   cfg.VLMMaxTokens,
				Timeout:     cfg.VLMTimeout,
			}, logger)
			extractor := extraction.NewService(logger, vlm)

			emitter := events.NewEmitter(producer, logger)
			svc := verification.NewService(logger, extractor, documents, runs, engine, emitter)

			container, err := ectoinject.NewDIDefaultContainer()
			if err != nil {
				return err
			}
			if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
				return err
			}
			if err := ectoinject.RegisterInstance[*verification.Service](container, svc); err != nil {
				return err
			}
			if err := ectoinject.RegisterInstance[*reference.Store](container, refStore); err != nil {
				return err
			}

			e = echo.New()
			e.HideBanner = true
			e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
			e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
			e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
			e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
			e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

			e.HTTPErrorHandler = middleware.Error(logger)
			e.Use(echomw.Recover())
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins: cfg.AllowOrigins,
				AllowMethods: cfg.AllowMethods,
			}))
			e.Use(otelecho.Middleware(cfg.AppName))
			e.Use(middleware.Context())
			e.Use(middleware.Logger(logger))

			checker = health.NewChecker(db, ruleLoader, version)
			checker.RegisterRoutes(e)

			api := e.Group("/api/v1")
			documentroutes.Register(api.Group("/documents"))
			api.GET("/cases", documentroutes.ListCases)
			comparisonroutes.Register(api.Group("/comparisons"))
			referenceroutes.Register(api.Group("/reference"))

			go func() {
				addr := fmt.Sprintf(":%d", cfg.Port)
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.WithError(err).Error("HTTP server stopped unexpectedly")
					cancel()
				}
			}()

			checker.SetReady(true)
			return nil
		},
		stop: func(ctx context.Context) error {
			checker.SetReady(false)
			return e.Shutdown(ctx)
		},
	})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start service")
		os.Exit(1)
	}

	logger.WithField("port", cfg.Port).Info("Service started")

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()

	if err := boot.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("Failed to stop cleanly")
		os.Exit(1)
	}
}
