package notification

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/sharath018/business-directory-backend/internal/events"
)

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventHandler processes one decoded event.
type EventHandler interface {
	Handle(ctx context.Context, evt events.Event) error
}

// Consumer reads submission events and hands them to the notification
// service. Offsets are committed after handling, whether or not delivery
// succeeded; failures are logged and recorded in the notification log.
type Consumer struct {
	reader  messageReader
	handler EventHandler
	log     zerolog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, handler EventHandler, log zerolog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	return newConsumer(r, handler, log)
}

func newConsumer(r messageReader, handler EventHandler, log zerolog.Logger) *Consumer {
	return &Consumer{reader: r, handler: handler, log: log.With().Str("component", "notification-consumer").Logger()}
}

// Run consumes until ctx is cancelled. It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info().Msg("consumer started")
	defer c.log.Info().Msg("consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error().Err(err).Msg("fetch failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	evt, err := events.Decode(msg)
	if err != nil {
		c.log.Error().Err(err).Int("partition", msg.Partition).Msg("skipping malformed event")
		return
	}
	if err := c.handler.Handle(ctx, evt); err != nil {
		c.log.Warn().Err(err).Str("type", evt.Type).Uint("submission_id", evt.SubmissionID).Msg("event handled with delivery errors")
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// StartKafkaConsumer runs a consumer in the background until ctx ends.
func StartKafkaConsumer(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler, log zerolog.Logger) *Consumer {
	c := NewConsumer(brokers, topic, groupID, handler, log)
	go func() {
		if err := c.Run(ctx); err != nil {
			c.log.Error().Err(err).Msg("consumer exited")
		}
	}()
	return c
}
