package broker

import (
	"context"
	"fmt"

	"auction-service/internal/models"
	"auction-service/internal/util"
)

// EventPublisher publishes auction lifecycle events. Delivery is
// fire-and-forget: callers log failures and move on.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishAuctionUpdated publishes an AuctionUpdated event
func (ep *EventPublisher) PublishAuctionUpdated(ctx context.Context, event *models.AuctionUpdatedEvent) error {
	key := fmt.Sprintf("listing-%d", event.ListingID)
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		util.EventPublishFailedTotal.Inc()
		return err
	}
	util.EventsPublishedTotal.Inc()
	return nil
}
