package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/artique/internal/models"
	"github.com/Skotchmaster/artique/pkg/logging"
)

const (
	TopicUserEvents = "user_events"
	TopicItemEvents = "item_events"

	EventUserRegistered = "user_registered"
	EventUserLoggedIn   = "user_logged_in"
	EventItemCreated    = "item_created"
	EventItemUpdated    = "item_updated"
	EventItemDeleted    = "item_deleted"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Indexer keeps a search index of items in step with the database.
type Indexer interface {
	Put(ctx context.Context, item models.Item) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) (int64, []models.Item, error)
}

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ItemEvent struct {
	Type       string    `json:"type"`
	ItemID     uint      `json:"item_id"`
	ArtistID   uint      `json:"artist_id"`
	Name       string    `json:"name,omitempty"`
	Price      *float64  `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publish never fails the caller; a lost event is only logged.
func publish(ctx context.Context, p Publisher, topic string, key uint, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(key), 10), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}

func itemEvent(typ string, item *models.Item, now time.Time) ItemEvent {
	ev := ItemEvent{
		Type:       typ,
		ItemID:     item.ID,
		ArtistID:   item.ArtistID,
		Name:       item.Name,
		OccurredAt: now,
	}
	if typ != EventItemDeleted {
		price := item.Price
		ev.Price = &price
	}
	return ev
}
