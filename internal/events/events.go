package events

import (
	"context"
	"time"
)

const (
	ListingCreated = "listing_created"
	ListingUpdated = "listing_updated"
	ListingDeleted = "listing_deleted"
)

// ListingEvent describes a change to a listing.
type ListingEvent struct {
	Type       string    `json:"type"`
	ListingID  string    `json:"listingId"`
	Title      string    `json:"title,omitempty"`
	Company    string    `json:"company,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers listing events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event ListingEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ListingEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
