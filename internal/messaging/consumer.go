package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/cinematch/engine/internal/cache"
	"github.com/cinematch/engine/internal/config"
	"github.com/cinematch/engine/pkg/models"
)

const consumerGroup = "recommendation-engine"

// InteractionConsumer subscribes to the interaction-events topic the
// surrounding application publishes to, and evicts a user's cached
// recommendation entries whenever new signal arrives. Without it, cache
// entries only ever age out by TTL.
type InteractionConsumer struct {
	reader *kafka.Reader
	cache  cache.ResultCache
	logger *logrus.Logger
}

func NewInteractionConsumer(cfg *config.KafkaConfig, resultCache cache.ResultCache, logger *logrus.Logger) *InteractionConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topics.UserInteractions,
		GroupID:        consumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &InteractionConsumer{
		reader: reader,
		cache:  resultCache,
		logger: logger,
	}
}

// Run consumes until the context is cancelled. A malformed message is
// logged and skipped; losing an eviction only delays freshness until the
// TTL fires.
func (c *InteractionConsumer) Run(ctx context.Context) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.WithError(err).Error("Failed to read interaction event")
			continue
		}

		var event models.InteractionEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.logger.WithError(err).Error("Failed to unmarshal interaction event")
			continue
		}

		c.handleEvent(ctx, &event)
	}
}

func (c *InteractionConsumer) handleEvent(ctx context.Context, event *models.InteractionEvent) {
	if event.UserID == "" {
		return
	}

	c.cache.Invalidate(ctx, fmt.Sprintf("recommend:%s:", event.UserID))

	c.logger.WithFields(logrus.Fields{
		"user_id":  event.UserID,
		"movie_id": event.MovieID,
		"type":     event.Type,
	}).Debug("Invalidated cached recommendations")
}

func (c *InteractionConsumer) Close() error {
	return c.reader.Close()
}
