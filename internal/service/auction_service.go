package service

import (
	"context"
	"fmt"
	"time"

	"auction-service/internal/models"
	"auction-service/internal/store"
	"auction-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingStore is the persistence surface the lifecycle jobs need. The
// conditional transitions are the at-most-once mechanism: they commit only
// when the stored status still matches the expected prior state.
type ListingStore interface {
	FindDueForActivation(ctx context.Context, now time.Time) ([]models.Listing, error)
	FindDueForEnding(ctx context.Context, now time.Time) ([]store.DueAuction, error)
	TryTransitionToActive(ctx context.Context, listingID int64) (bool, error)
	TryTransitionToEnded(ctx context.Context, listingID int64, outcome store.Outcome) (bool, error)
	GetWatchers(ctx context.Context, listingID int64) ([]int64, error)
}

// Publisher broadcasts lifecycle events to subscribers
type Publisher interface {
	PublishAuctionUpdated(ctx context.Context, event *models.AuctionUpdatedEvent) error
}

// Notifier dispatches best-effort user notifications
type Notifier interface {
	NotifyWatchers(ctx context.Context, listing *models.Listing, watcherIDs []int64)
	NotifyWinner(ctx context.Context, listing *models.Listing, bid *models.Bid)
}

// AuctionService runs the listing lifecycle: activation of scheduled
// listings and resolution of ended auctions
type AuctionService struct {
	store     ListingStore
	publisher Publisher
	notifier  Notifier
	logger    *zap.Logger
}

// NewAuctionService creates a new auction lifecycle service
func NewAuctionService(store ListingStore, publisher Publisher, notifier Notifier) *AuctionService {
	return &AuctionService{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		logger:    util.GetLogger(),
	}
}

// ActivateDueListings promotes scheduled listings whose start time has
// passed. Each listing is handled independently: a lost race or a failure
// on one item never aborts the batch. A failed query aborts the whole run;
// unactivated listings stay SCHEDULED and the next run retries them.
func (s *AuctionService) ActivateDueListings(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "AuctionService.ActivateDueListings")
	defer span.End()

	now := time.Now()
	listings, err := s.store.FindDueForActivation(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query listings due for activation: %w", err)
	}

	if len(listings) == 0 {
		s.logger.Debug("No listings due for activation")
		return nil
	}

	for i := range listings {
		listing := &listings[i]

		ok, err := s.store.TryTransitionToActive(ctx, listing.ID)
		if err != nil {
			util.ListingProcessFailuresTotal.WithLabelValues("activation").Inc()
			s.logger.Error("Failed to activate listing",
				zap.Int64("listing_id", listing.ID),
				zap.Error(err))
			continue
		}
		if !ok {
			util.TransitionConflictsTotal.WithLabelValues("activation").Inc()
			s.logger.Debug("Listing no longer scheduled, skipping",
				zap.Int64("listing_id", listing.ID))
			continue
		}

		listing.Status = models.ListingStatusActive
		util.ListingsActivatedTotal.Inc()
		s.logger.Info("Listing activated",
			zap.Int64("listing_id", listing.ID),
			zap.Time("ends_at", listing.EndsAt))

		if err := s.publisher.PublishAuctionUpdated(ctx, auctionUpdatedEvent(listing)); err != nil {
			s.logger.Error("Failed to publish AuctionUpdated event",
				zap.Int64("listing_id", listing.ID),
				zap.Error(err))
		}

		watchers, err := s.store.GetWatchers(ctx, listing.ID)
		if err != nil {
			s.logger.Warn("Failed to load watchers",
				zap.Int64("listing_id", listing.ID),
				zap.Error(err))
			continue
		}
		s.notifier.NotifyWatchers(ctx, listing, watchers)
	}

	return nil
}

// EndDueAuctions resolves active listings whose end time has passed into a
// terminal outcome. The outcome is a pure function of the winning bid and
// the reserve price; the status and winner fields commit in one conditional
// update so overlapping runs cannot resolve a listing twice.
func (s *AuctionService) EndDueAuctions(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "AuctionService.EndDueAuctions")
	defer span.End()

	now := time.Now()
	due, err := s.store.FindDueForEnding(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query auctions due for ending: %w", err)
	}

	if len(due) == 0 {
		s.logger.Debug("No auctions due for ending")
		return nil
	}

	for i := range due {
		listing := &due[i].Listing
		bid := due[i].WinningBid

		outcome := decideOutcome(listing, bid, now)

		ok, err := s.store.TryTransitionToEnded(ctx, listing.ID, outcome)
		if err != nil {
			util.ListingProcessFailuresTotal.WithLabelValues("ending").Inc()
			s.logger.Error("Failed to end auction",
				zap.Int64("listing_id", listing.ID),
				zap.Error(err))
			continue
		}
		if !ok {
			util.TransitionConflictsTotal.WithLabelValues("ending").Inc()
			s.logger.Debug("Listing no longer active, skipping",
				zap.Int64("listing_id", listing.ID))
			continue
		}

		listing.Status = outcome.Status
		listing.WinnerID = outcome.WinnerID
		listing.WinningBidID = outcome.WinningBidID
		listing.SoldAt = outcome.SoldAt
		util.AuctionsEndedTotal.WithLabelValues(outcome.Status).Inc()
		s.logger.Info("Auction ended",
			zap.Int64("listing_id", listing.ID),
			zap.String("outcome", outcome.Status))

		if err := s.publisher.PublishAuctionUpdated(ctx, auctionUpdatedEvent(listing)); err != nil {
			s.logger.Error("Failed to publish AuctionUpdated event",
				zap.Int64("listing_id", listing.ID),
				zap.Error(err))
		}

		if outcome.WinnerID != nil {
			s.notifier.NotifyWinner(ctx, listing, bid)
		}
	}

	return nil
}

// decideOutcome maps (winning bid, reserve price) to a terminal outcome:
//
//	no winning bid                -> ENDED_NO_BIDS
//	bid below the set reserve     -> ENDED_NO_SALE
//	bid meets reserve, or no set  -> ENDED with winner and sale timestamp
func decideOutcome(listing *models.Listing, bid *models.Bid, now time.Time) store.Outcome {
	if bid == nil {
		return store.Outcome{Status: models.ListingStatusEndedNoBids}
	}

	if listing.ReservePrice != nil && bid.Amount < *listing.ReservePrice {
		return store.Outcome{Status: models.ListingStatusEndedNoSale}
	}

	soldAt := now
	return store.Outcome{
		Status:       models.ListingStatusEnded,
		WinnerID:     &bid.BidderID,
		WinningBidID: &bid.ID,
		SoldAt:       &soldAt,
	}
}

func auctionUpdatedEvent(listing *models.Listing) *models.AuctionUpdatedEvent {
	return &models.AuctionUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAuctionUpdated,
			Timestamp: time.Now(),
		},
		ListingID:    listing.ID,
		Status:       listing.Status,
		StartsAt:     listing.StartsAt,
		EndsAt:       listing.EndsAt,
		CurrentPrice: listing.CurrentPrice,
		Currency:     listing.Currency,
		BidCount:     listing.BidCount,
		WinnerID:     listing.WinnerID,
		WinningBidID: listing.WinningBidID,
		SoldAt:       listing.SoldAt,
	}
}
