package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/blog-generator/infrastructure/logger"
	"github.com/jonesrussell/blog-generator/internal/events"
)

func newTestPublisher(t *testing.T) (*events.Publisher, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return events.NewPublisher(client, logger.NewNop()), client
}

func TestNewPublisher_NilClient(t *testing.T) {
	t.Parallel()

	pub := events.NewPublisher(nil, logger.NewNop())

	assert.Nil(t, pub)
	require.NoError(t, pub.Publish(context.Background(), events.PostEvent{}))
	assert.NotPanics(t, func() { pub.PublishAsync(events.PostEvent{}) })
	assert.NotPanics(t, pub.Close)
}

func TestPublisher_Publish_WritesStreamEntry(t *testing.T) {
	t.Parallel()

	pub, client := newTestPublisher(t)
	ctx := context.Background()

	err := pub.Publish(ctx, events.PostEvent{
		EventType: events.PostGenerated,
		PostID:    "abc",
		Title:     "Getting Started with Go",
		Topic:     "Go",
		Tone:      "Friendly",
		Length:    "short",
	})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, events.StreamName, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, ok := entries[0].Values["event"].(string)
	require.True(t, ok)

	var got events.PostEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, events.PostGenerated, got.EventType)
	assert.Equal(t, "abc", got.PostID)
	assert.NotEmpty(t, got.EventID.String())
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublisher_PublishAsync(t *testing.T) {
	t.Parallel()

	pub, client := newTestPublisher(t)

	pub.PublishAsync(events.PostEvent{EventType: events.PostGenerated, PostID: "async"})

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), events.StreamName).Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublisher_CloseWaitsForAsyncPublishes(t *testing.T) {
	t.Parallel()

	pub, client := newTestPublisher(t)

	for _, id := range []string{"a", "b", "c"} {
		pub.PublishAsync(events.PostEvent{EventType: events.PostGenerated, PostID: id})
	}
	pub.Close()

	n, err := client.XLen(context.Background(), events.StreamName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
