package fakeorderrepo

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/orders"
)

var _ orders.Repo = (*FakeOrderRepo)(nil)

type FakeOrderRepo struct {
	orders    map[string]*orders.Order
	numberIds map[string]string
	nowTime   func() time.Time
	lock      sync.RWMutex
}

func NewFakeOrderRepo() *FakeOrderRepo {
	return &FakeOrderRepo{
		orders:    make(map[string]*orders.Order),
		numberIds: make(map[string]string),
		nowTime:   time.Now,
	}
}

func (r *FakeOrderRepo) WithNowTime(now func() time.Time) *FakeOrderRepo {
	r.nowTime = now
	return r
}

var order = map[string]func(a, b *orders.Order) int{
	"createdAt":   func(a, b *orders.Order) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":   func(a, b *orders.Order) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"total":       func(a, b *orders.Order) int { return cmp.Compare(a.Total, b.Total) },
	"status":      func(a, b *orders.Order) int { return strings.Compare(string(a.Status), string(b.Status)) },
	"orderNumber": func(a, b *orders.Order) int { return strings.Compare(a.OrderNumber, b.OrderNumber) },
}

func (r *FakeOrderRepo) Create(_ context.Context, o *orders.Order) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.numberIds[o.OrderNumber]; ok {
		return orders.ErrDuplicateOrderNumber
	}

	now := r.nowTime()
	o.ID = uuid.New().String()
	o.CreatedAt, o.UpdatedAt = now, now
	for _, item := range o.Items {
		item.ID = uuid.New().String()
		item.OrderID = o.ID
	}
	r.orders[o.ID] = clone(o)
	r.numberIds[o.OrderNumber] = o.ID
	return nil
}

func (r *FakeOrderRepo) Get(_ context.Context, id string) (*orders.Order, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return clone(o), nil
}

func (r *FakeOrderRepo) GetByNumber(_ context.Context, orderNumber string) (*orders.Order, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.numberIds[orderNumber]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return clone(r.orders[id]), nil
}

func (r *FakeOrderRepo) List(_ context.Context, filter orders.Filter, params paging.Params) ([]*orders.Order, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	matched := make([]*orders.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.OrderType != nil && o.OrderType != *filter.OrderType {
			continue
		}
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		c := clone(o)
		c.Tracking = nil
		matched = append(matched, c)
	}

	compare, ok := order[params.SortBy]
	if !ok {
		compare = order[paging.DefaultSortBy]
	}
	slices.SortStableFunc(matched, func(a, b *orders.Order) int {
		if params.SortOrder == paging.SortAsc {
			return compare(a, b)
		}
		return compare(b, a)
	})

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *FakeOrderRepo) UpdateStatus(_ context.Context, o *orders.Order, tracking *orders.Tracking) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return orders.ErrOrderNotFound
	}
	stored.Status = o.Status
	stored.PaidAt, stored.ShippedAt, stored.DeliveredAt = o.PaidAt, o.ShippedAt, o.DeliveredAt
	stored.UpdatedAt = r.nowTime()
	o.UpdatedAt = stored.UpdatedAt

	tracking.ID = uuid.New().String()
	t := *tracking
	stored.Tracking = append(stored.Tracking, &t)
	return nil
}

func (r *FakeOrderRepo) AddTracking(_ context.Context, tracking *orders.Tracking) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	stored, ok := r.orders[tracking.OrderID]
	if !ok {
		return orders.ErrOrderNotFound
	}
	tracking.ID = uuid.New().String()
	t := *tracking
	stored.Tracking = append(stored.Tracking, &t)
	return nil
}

func (r *FakeOrderRepo) Tracking(_ context.Context, orderID string) ([]*orders.Tracking, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	stored, ok := r.orders[orderID]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return clone(stored).Tracking, nil
}

func (r *FakeOrderRepo) Stats(_ context.Context, window orders.StatsWindow) (*orders.Stats, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	stats := &orders.Stats{ByStatus: map[orders.Status]int{}}
	for _, o := range r.orders {
		stats.Orders.Total++
		stats.ByStatus[o.Status]++
		if o.Status == orders.StatusPending {
			stats.Orders.Pending++
		}
		if !o.CreatedAt.Before(window.WeekStart) {
			stats.Orders.Week++
		}
		if !o.CreatedAt.Before(window.MonthStart) {
			stats.Orders.Month++
			if o.Status.CountsAsRevenue() {
				stats.Revenue.Month += o.Total
			}
		}
		if !o.CreatedAt.Before(window.Today) {
			stats.Orders.Today++
			if o.Status.CountsAsRevenue() {
				stats.Revenue.Today += o.Total
			}
		}
	}
	return stats, nil
}

func (r *FakeOrderRepo) SummarizeCustomers(_ context.Context, customerIDs []string) (map[string]customers.OrderSummary, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make(map[string]customers.OrderSummary, len(customerIDs))
	for _, o := range r.orders {
		if !slices.Contains(customerIDs, o.CustomerID) {
			continue
		}
		summary := out[o.CustomerID]
		summary.Orders++
		if o.Status != orders.StatusCancelled {
			summary.TotalSpent += o.Total
		}
		out[o.CustomerID] = summary
	}
	return out, nil
}

// clone deep copies the order's item and tracking slices. Catalog rows
// hanging off items are dropped, matching what the database returns.
func clone(o *orders.Order) *orders.Order {
	c := *o
	c.Customer = nil
	c.Items = make([]*orders.Item, len(o.Items))
	for i, item := range o.Items {
		it := *item
		it.Product, it.SubscriptionPlan = nil, nil
		c.Items[i] = &it
	}
	c.Tracking = make([]*orders.Tracking, len(o.Tracking))
	for i, t := range o.Tracking {
		tc := *t
		c.Tracking[i] = &tc
	}
	return &c
}
