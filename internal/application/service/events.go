package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PortfolioEventType string

const (
	PortfolioEventSectionReplaced PortfolioEventType = "section_replaced"
)

type PortfolioEvent struct {
	ID         uuid.UUID          `json:"id"`
	EventType  PortfolioEventType `json:"event_type"`
	Section    string             `json:"section"`
	OccurredAt time.Time          `json:"occurred_at"`
}

type MediaEventType string

const (
	MediaEventUploaded MediaEventType = "uploaded"
	MediaEventDeleted  MediaEventType = "deleted"
)

type MediaEvent struct {
	ID         uuid.UUID      `json:"id"`
	EventType  MediaEventType `json:"event_type"`
	Key        string         `json:"key"`
	URL        string         `json:"url,omitempty"`
	Backend    string         `json:"backend"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type EventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, evt PortfolioEvent) error
	PublishMediaEvent(ctx context.Context, evt MediaEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPortfolioEvent(context.Context, PortfolioEvent) error { return nil }
func (NopPublisher) PublishMediaEvent(context.Context, MediaEvent) error         { return nil }
