package customers

import (
	"context"
	"errors"
	"time"

	"github.com/jrsteele09/storefront-server/internal/paging"
)

var ErrDuplicateEmail = errors.New("customer email already exists")

// Repo stores customers and their subscriptions. Customers returned by List
// and Get carry SubscriptionCount.
type Repo interface {
	List(ctx context.Context, filter Filter, params paging.Params) ([]*Customer, int, error)
	Get(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	// Stats counts active customers, customers created since today and
	// monthStart, guests and active subscriptions.
	Stats(ctx context.Context, today, monthStart time.Time) (*Stats, error)

	AddSubscription(ctx context.Context, sub *Subscription) error
	Subscriptions(ctx context.Context, customerID string) ([]*Subscription, error)
}
