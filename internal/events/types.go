// Package events publishes post lifecycle events to Redis Streams.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream post events are appended to.
const StreamName = "blog:posts"

// EventType identifies a post event.
type EventType string

// PostGenerated is emitted after a post has been stored.
const PostGenerated EventType = "post.generated"

// PostEvent is the envelope written to the stream under the "event" field.
type PostEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Tone      string    `json:"tone"`
	Length    string    `json:"length"`
	Timestamp time.Time `json:"timestamp"`
}
