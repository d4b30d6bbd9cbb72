package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"auction-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// DueAuction pairs a due-to-end listing with its current winning bid, if any
type DueAuction struct {
	Listing    models.Listing
	WinningBid *models.Bid
}

// Outcome describes the terminal result applied to an ended auction
type Outcome struct {
	Status       string
	WinnerID     *int64
	WinningBidID *int64
	SoldAt       *time.Time
}

// FindDueForActivation retrieves scheduled listings whose start time has passed
func (s *Store) FindDueForActivation(ctx context.Context, now time.Time) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings,
		"SELECT * FROM listings WHERE status = $1 AND starts_at <= $2 ORDER BY starts_at",
		models.ListingStatusScheduled, now)
	return listings, err
}

// FindDueForEnding retrieves active listings whose end time has passed,
// each paired with its winning bid
func (s *Store) FindDueForEnding(ctx context.Context, now time.Time) ([]DueAuction, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings,
		"SELECT * FROM listings WHERE status = $1 AND ends_at <= $2 ORDER BY ends_at",
		models.ListingStatusActive, now)
	if err != nil {
		return nil, err
	}

	due := make([]DueAuction, 0, len(listings))
	for _, listing := range listings {
		bid, err := s.GetWinningBid(ctx, listing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load winning bid for listing %d: %w", listing.ID, err)
		}
		due = append(due, DueAuction{Listing: listing, WinningBid: bid})
	}

	return due, nil
}

// GetWinningBid retrieves the current winning bid for a listing, nil if none
func (s *Store) GetWinningBid(ctx context.Context, listingID int64) (*models.Bid, error) {
	var bid models.Bid
	err := s.db.GetContext(ctx, &bid,
		"SELECT * FROM bids WHERE listing_id = $1 AND is_winning = TRUE LIMIT 1", listingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// TryTransitionToActive promotes a listing to ACTIVE only if it is still
// SCHEDULED at write time. Returns false when the update lost the race.
func (s *Store) TryTransitionToActive(ctx context.Context, listingID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE listings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		models.ListingStatusActive, listingID, models.ListingStatusScheduled)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// TryTransitionToEnded applies a terminal outcome (status plus winner fields)
// in one statement, only if the listing is still ACTIVE at write time.
func (s *Store) TryTransitionToEnded(ctx context.Context, listingID int64, outcome Outcome) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE listings
		 SET status = $1, winner_id = $2, winning_bid_id = $3, sold_at = $4, updated_at = NOW()
		 WHERE id = $5 AND status = $6`,
		outcome.Status, outcome.WinnerID, outcome.WinningBidID, outcome.SoldAt,
		listingID, models.ListingStatusActive)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// GetListingByID retrieves a listing by ID
func (s *Store) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing, "SELECT * FROM listings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("listing not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetBidsByListingID retrieves all bids for a listing, newest first
func (s *Store) GetBidsByListingID(ctx context.Context, listingID int64) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.SelectContext(ctx, &bids,
		"SELECT * FROM bids WHERE listing_id = $1 ORDER BY created_at DESC", listingID)
	return bids, err
}

// GetWatchers retrieves the user IDs watching a listing
func (s *Store) GetWatchers(ctx context.Context, listingID int64) ([]int64, error) {
	var watchers []int64
	err := s.db.SelectContext(ctx, &watchers,
		"SELECT user_id FROM listing_watchers WHERE listing_id = $1", listingID)
	return watchers, err
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, name FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
