package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	red "github.com/pressmith/pr-agent/internal/redis"
	"github.com/pressmith/pr-agent/internal/setup"
	"github.com/pressmith/pr-agent/internal/stream"
	streamredis "github.com/pressmith/pr-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PR statement generator")
	}

	streamCfg := stream.NewStreamConfig(
		os.Getenv("REDIS_ADDR"),
		"pr-topics",           // stream name
		"pr-group",            // consumer group
		os.Getenv("HOSTNAME"), // unique consumer name
	)

	redisClient, err := red.ConnectRedis(ctx, streamCfg.RedisAddr, os.Getenv("REDIS_PASSWORD"), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	var consumer stream.StreamConsumer = streamredis.NewConsumer(redisClient, streamCfg.Stream, streamCfg.Group, streamCfg.ConsumerName, deps.Engine, &logger)

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	// Wait for the in-flight message to finish and be acknowledged.
	<-done

	if err := consumer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Failed to stop consumer")
	}

	log.Info().Msg("PR Agent worker stopped")
}
