package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/blog-generator/infrastructure/logger"
)

const asyncPublishTimeout = 5 * time.Second

// Publisher appends post events to a Redis stream. A nil *Publisher
// publishes nothing.
type Publisher struct {
	client *redis.Client
	log    logger.Logger

	inflight sync.WaitGroup
}

// NewPublisher returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{client: client, log: log}
}

// Publish sends event to StreamName, filling in a missing id and timestamp.
func (p *Publisher) Publish(ctx context.Context, event PostEvent) error {
	if p == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})
	if err = result.Err(); err != nil {
		return fmt.Errorf("publish to stream: %w", err)
	}

	p.log.Debug("Published post event",
		logger.String("event_type", string(event.EventType)),
		logger.String("post_id", event.PostID),
		logger.String("stream_id", result.Val()),
	)

	return nil
}

// PublishAsync publishes in a goroutine. Failures are logged.
func (p *Publisher) PublishAsync(event PostEvent) {
	if p == nil {
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.String("post_id", event.PostID),
				logger.Error(err),
			)
		}
	}()
}

// Close waits for in-flight async publishes. The Redis client stays open
// and must be closed by its owner afterwards.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.inflight.Wait()
}
