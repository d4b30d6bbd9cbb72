package models

import "time"

// Listing represents one auction item and its lifecycle state
type Listing struct {
	ID           int64      `db:"id" json:"id"`
	SellerID     int64      `db:"seller_id" json:"seller_id"`
	Title        string     `db:"title" json:"title"`
	Status       string     `db:"status" json:"status"`
	StartsAt     time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt       time.Time  `db:"ends_at" json:"ends_at"`
	ReservePrice *int64     `db:"reserve_price" json:"reserve_price,omitempty"`
	CurrentPrice int64      `db:"current_price" json:"current_price"`
	Currency     string     `db:"currency" json:"currency"`
	BidCount     int        `db:"bid_count" json:"bid_count"`
	WinnerID     *int64     `db:"winner_id" json:"winner_id,omitempty"`
	WinningBidID *int64     `db:"winning_bid_id" json:"winning_bid_id,omitempty"`
	SoldAt       *time.Time `db:"sold_at" json:"sold_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Bid represents one offer against a listing
type Bid struct {
	ID        int64     `db:"id" json:"id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	BidderID  int64     `db:"bidder_id" json:"bidder_id"`
	Amount    int64     `db:"amount" json:"amount"`
	IsWinning bool      `db:"is_winning" json:"is_winning"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Notification is a message surfaced to a user
type Notification struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Type      string     `db:"type" json:"type"`
	Title     string     `db:"title" json:"title"`
	Message   string     `db:"message" json:"message"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
}

// User holds the fields the dispatcher needs to address mail
type User struct {
	ID    int64  `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
}

// Listing statuses
const (
	ListingStatusDraft       = "DRAFT"
	ListingStatusScheduled   = "SCHEDULED"
	ListingStatusActive      = "ACTIVE"
	ListingStatusEnded       = "ENDED"
	ListingStatusEndedNoBids = "ENDED_NO_BIDS"
	ListingStatusEndedNoSale = "ENDED_NO_SALE"
)

// Notification types
const (
	NotificationTypeAuctionStarted = "AUCTION_STARTED"
	NotificationTypeAuctionWon     = "AUCTION_WON"
)
