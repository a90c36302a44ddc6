package newsletter

import (
	"context"
	"time"

	"SwiftCart/internal/models"
)

// SubscriberRepository defines the data access contract for subscribers.
// Implementations must be safe for concurrent use.
type SubscriberRepository interface {
	// GetByEmail returns the subscriber, or nil when no record exists.
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)

	// Create inserts a new active subscriber.
	Create(ctx context.Context, email string) (*models.Subscriber, error)

	// SetActive toggles the soft subscription flag. Deactivating stamps
	// unsubscribed_at; reactivating clears it.
	SetActive(ctx context.Context, email string, active bool) error

	// List returns one page of subscribers plus the total matching count,
	// newest first.
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]models.Subscriber, int, error)

	// CountActive returns the number of active subscribers at call time.
	CountActive(ctx context.Context) (int, error)

	// SnapshotActive returns every active subscriber at call time, in a
	// stable order. Campaign sends iterate this snapshot; subscribers who
	// change state mid-send are not re-evaluated.
	SnapshotActive(ctx context.Context) ([]models.Subscriber, error)
}

// CampaignRepository defines the data access contract for campaigns.
type CampaignRepository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*models.Campaign, error)

	// Create inserts a new campaign.
	Create(ctx context.Context, c *models.Campaign) error

	// List returns all campaigns, newest first.
	List(ctx context.Context) ([]models.Campaign, error)

	// Transition moves a campaign from one status to another in a single
	// guarded write. Returns ErrNotFound when no campaign in the expected
	// status exists, which is how a lost race surfaces.
	Transition(ctx context.Context, id string, from, to models.CampaignStatus) error

	// Finalize records the terminal result of a send in a single write.
	Finalize(ctx context.Context, id string, status models.CampaignStatus, sentAt time.Time, sentCount int) error

	// Delete removes a campaign in any status.
	Delete(ctx context.Context, id string) error
}

// Dispatcher sends one outbound email. See internal/dispatch for the
// queued-versus-direct delivery semantics.
type Dispatcher interface {
	Dispatch(ctx context.Context, to, subject, html string) error
}
