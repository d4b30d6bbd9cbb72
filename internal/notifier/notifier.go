package notifier

import (
	"context"
	"fmt"

	"auction-service/internal/models"
	"auction-service/internal/util"

	"go.uber.org/zap"
)

// Store is the subset of the persistence layer the dispatcher needs
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Mailer delivers a single message; delivery is best-effort
type Mailer interface {
	Send(to, subject, body string) error
}

// Dispatcher persists notification records and attempts best-effort mail
// delivery. Delivery failures are logged and never surfaced to callers;
// a failure for one recipient does not affect the others.
type Dispatcher struct {
	store  Store
	mailer Mailer
	logger *zap.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(store Store, mailer Mailer) *Dispatcher {
	return &Dispatcher{
		store:  store,
		mailer: mailer,
		logger: util.GetLogger(),
	}
}

// NotifyWatchers tells every watcher of a listing that its auction started
func (d *Dispatcher) NotifyWatchers(ctx context.Context, listing *models.Listing, watcherIDs []int64) {
	title := "Auction started"
	message := fmt.Sprintf("The auction for %q is now open for bids until %s.",
		listing.Title, listing.EndsAt.Format("Jan 2, 2006 15:04 MST"))

	for _, userID := range watcherIDs {
		d.dispatch(ctx, userID, models.NotificationTypeAuctionStarted, title, message)
	}
}

// NotifyWinner tells the winning bidder that the auction closed in their favor
func (d *Dispatcher) NotifyWinner(ctx context.Context, listing *models.Listing, bid *models.Bid) {
	title := "You won the auction"
	message := fmt.Sprintf("Your bid of %d %s won the auction for %q.",
		bid.Amount, listing.Currency, listing.Title)

	d.dispatch(ctx, bid.BidderID, models.NotificationTypeAuctionWon, title, message)
}

// dispatch persists the record, then hands the mail off without waiting
// for delivery
func (d *Dispatcher) dispatch(ctx context.Context, userID int64, kind, title, message string) {
	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}

	if err := d.store.CreateNotification(ctx, n); err != nil {
		d.logger.Error("Failed to persist notification",
			zap.Int64("user_id", userID),
			zap.String("type", kind),
			zap.Error(err))
		return
	}
	util.NotificationsCreatedTotal.WithLabelValues(kind).Inc()

	user, err := d.store.GetUserByID(ctx, userID)
	if err != nil {
		util.NotificationDeliveryFailedTotal.Inc()
		d.logger.Warn("Failed to resolve notification recipient",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return
	}

	go func() {
		if err := d.mailer.Send(user.Email, title, message); err != nil {
			util.NotificationDeliveryFailedTotal.Inc()
			d.logger.Warn("Failed to deliver notification mail",
				zap.Int64("user_id", userID),
				zap.String("type", kind),
				zap.Error(err))
		}
	}()
}
