package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pressmith/pr-agent/internal/models"
	red "github.com/pressmith/pr-agent/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	topic := flag.String("topic", "", "Topic to generate a PR statement for")
	data := flag.String("d", "", "Inline JSON GenerationRequest (alternative to -topic)")
	stream := flag.String("stream", "pr-topics", "Stream name")
	flag.Parse()

	if *topic == "" && *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -topic '<topic>' | -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*topic, *data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(topic, data, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	payload := data
	if payload == "" {
		request := models.GenerationRequest{
			EventID: uuid.NewString(),
			Topic:   topic,
		}
		encoded, err := json.Marshal(request)
		if err != nil {
			return err
		}
		payload = string(encoded)
	} else {
		// Validate inline JSON before publishing.
		var request models.GenerationRequest
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			return fmt.Errorf("invalid GenerationRequest JSON: %w", err)
		}
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": payload},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("id", id).Str("stream", stream).Msg("Event published")
	return nil
}
