package models

import "time"

// Event types
const (
	EventTypeAuctionUpdated = "AUCTION_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// AuctionUpdatedEvent published whenever a listing changes lifecycle state
type AuctionUpdatedEvent struct {
	BaseEvent
	ListingID    int64      `json:"listing_id"`
	Status       string     `json:"status"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	CurrentPrice int64      `json:"current_price"`
	Currency     string     `json:"currency"`
	BidCount     int        `json:"bid_count"`
	WinnerID     *int64     `json:"winner_id,omitempty"`
	WinningBidID *int64     `json:"winning_bid_id,omitempty"`
	SoldAt       *time.Time `json:"sold_at,omitempty"`
}
