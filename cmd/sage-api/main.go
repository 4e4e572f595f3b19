package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/quizkit/sage/config"
	"github.com/quizkit/sage/pkg/embedding"
	"github.com/quizkit/sage/pkg/events"
	"github.com/quizkit/sage/pkg/kafka"
	"github.com/quizkit/sage/pkg/routes/health"
	"github.com/quizkit/sage/pkg/scoring"
	"github.com/quizkit/sage/pkg/server"
)

var version = "dev"

const containerID = "sage"

func main() {
	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		panic(err)
	}

	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	embedClient := embedding.NewClient(embedding.ClientConfig{
		BaseURL: cfg.EmbeddingBaseURL,
		APIKey:  cfg.EmbeddingAPIKey,
		Model:   cfg.EmbeddingModel,
		Timeout: cfg.EmbeddingTimeout,
	}, logger)

	combiner := scoring.NewCombiner(logger, embedClient, scoring.Config{
		DefaultThreshold: cfg.DefaultThreshold,
	})

	checker := health.NewChecker(embedClient, version)

	container, err := ectoinject.NewDIContainer(ectocontainer.DIContainerConfig{ID: containerID})
	if err != nil {
		panic(err)
	}
	if err := ectoinject.RegisterInstance[*scoring.Combiner](container, combiner); err != nil {
		panic(err)
	}

	if cfg.KafkaEventsEnabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer func() { _ = producer.Close() }()

		emitter := events.NewEmitter(producer, logger)
		if err := ectoinject.RegisterInstance[*events.Emitter](container, emitter); err != nil {
			panic(err)
		}
	}

	e := server.New(cfg, containerID, checker)

	// Warm the embedding model before reporting ready; the first real
	// request should not pay the model load cost.
	go func() {
		if cfg.EmbeddingWarmupOnStart {
			warmCtx, cancel := context.WithTimeout(context.Background(), cfg.EmbeddingTimeout)
			defer cancel()
			if err := embedClient.Ping(warmCtx); err != nil {
				logger.WithError(err).Warn("Embedding model warmup failed")
			}
		}
		checker.SetReady(true)
	}()

	go func() {
		if err := server.Start(e, cfg); err != nil {
			logger.WithError(err).Error("HTTP server stopped")
		}
	}()

	logger.WithFields(map[string]any{
		"app":  cfg.AppName,
		"port": cfg.Port,
	}).Info("Service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Tracer shutdown failed")
	}
	_ = embedClient.Close()
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zapCfg.Level = level
	}
	return zapCfg.Build()
}
