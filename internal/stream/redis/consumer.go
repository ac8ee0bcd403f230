package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pressmith/pr-agent/internal/models"
	"github.com/pressmith/pr-agent/internal/stream"
	"github.com/pressmith/pr-agent/internal/workflow"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ stream.StreamConsumer = (*Consumer)(nil)

// Consumer reads topic events from a Redis stream, runs the generation
// loop for each, and acknowledges the message. Results are logged only;
// generated statements are not persisted anywhere.
type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	engine       *workflow.Engine
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, groupID string, consumerName string, engine *workflow.Engine, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		groupID:      groupID,
		consumerName: consumerName,
		engine:       engine,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

// Stop is called after Start has returned. The consumer holds no
// resources of its own; the redis client is owned by the caller.
func (c *Consumer) Stop() error {
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var genRequest models.GenerationRequest
	if err := json.Unmarshal([]byte(payload), &genRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	if err := (models.StatementRequest{Topic: genRequest.Topic}).Validate(); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Str("event_id", genRequest.EventID).Msg("Invalid topic in message")
		c.ack(ctx, msg.ID)
		return
	}

	start := time.Now()
	statement, err := c.engine.Run(ctx, genRequest.Topic)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("id", msg.ID).
			Str("event_id", genRequest.EventID).
			Msg("Generation failed")
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("event_id", genRequest.EventID).
		Int("statement_length", len(statement)).
		Dur("duration", time.Since(start)).
		Msg("Generation complete")

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
