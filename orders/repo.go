package orders

import (
	"context"

	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/paging"
)

// Repo stores orders with their items and tracking history. Orders returned
// by Get, GetByNumber and List carry their items; Get and GetByNumber also
// carry tracking, oldest first.
type Repo interface {
	customers.OrderSummaries

	// Create inserts the order and its items, assigning ids. It returns
	// ErrDuplicateOrderNumber when the order number is taken.
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter Filter, params paging.Params) ([]*Order, int, error)
	// UpdateStatus persists the order's status and timestamps and appends
	// the tracking row in one step.
	UpdateStatus(ctx context.Context, order *Order, tracking *Tracking) error
	AddTracking(ctx context.Context, tracking *Tracking) error
	Tracking(ctx context.Context, orderID string) ([]*Tracking, error)
	Stats(ctx context.Context, window StatsWindow) (*Stats, error)
}
