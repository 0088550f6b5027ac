package fakecustomerrepo

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/utils"
)

var _ customers.Repo = (*FakeCustomerRepo)(nil)

type FakeCustomerRepo struct {
	customers     map[string]*customers.Customer
	emailIds      map[string]string
	subscriptions []*customers.Subscription
	nowTime       func() time.Time
	lock          sync.RWMutex
}

func NewFakeCustomerRepo() *FakeCustomerRepo {
	return &FakeCustomerRepo{
		customers: make(map[string]*customers.Customer),
		emailIds:  make(map[string]string),
		nowTime:   time.Now,
	}
}

func (r *FakeCustomerRepo) WithNowTime(now func() time.Time) *FakeCustomerRepo {
	r.nowTime = now
	return r
}

var order = map[string]func(a, b *customers.Customer) int{
	"createdAt": func(a, b *customers.Customer) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt": func(a, b *customers.Customer) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"email":     func(a, b *customers.Customer) int { return strings.Compare(a.Email, b.Email) },
	"firstName": func(a, b *customers.Customer) int {
		return strings.Compare(utils.Value(a.FirstName), utils.Value(b.FirstName))
	},
	"lastName": func(a, b *customers.Customer) int {
		return strings.Compare(utils.Value(a.LastName), utils.Value(b.LastName))
	},
}

func (r *FakeCustomerRepo) List(_ context.Context, filter customers.Filter, params paging.Params) ([]*customers.Customer, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	matched := make([]*customers.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != nil && !matches(c, *filter.Search) {
			continue
		}
		matched = append(matched, r.withCounts(c))
	}

	compare, ok := order[params.SortBy]
	if !ok {
		compare = order[paging.DefaultSortBy]
	}
	slices.SortStableFunc(matched, func(a, b *customers.Customer) int {
		if params.SortOrder == paging.SortAsc {
			return compare(a, b)
		}
		return compare(b, a)
	})

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *FakeCustomerRepo) Get(_ context.Context, id string) (*customers.Customer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, customers.ErrCustomerNotFound
	}
	return r.withCounts(c), nil
}

func (r *FakeCustomerRepo) GetByEmail(_ context.Context, email string) (*customers.Customer, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.emailIds[email]
	if !ok {
		return nil, customers.ErrCustomerNotFound
	}
	return r.withCounts(r.customers[id]), nil
}

func (r *FakeCustomerRepo) Save(_ context.Context, c *customers.Customer) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if id, ok := r.emailIds[c.Email]; ok && id != c.ID {
		return customers.ErrDuplicateEmail
	}

	now := r.nowTime()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if existing, ok := r.customers[c.ID]; ok && existing.Email != c.Email {
		delete(r.emailIds, existing.Email)
	}
	stored := *c
	stored.OrderCount, stored.SubscriptionCount, stored.TotalSpent = 0, 0, nil
	r.customers[c.ID] = &stored
	r.emailIds[c.Email] = c.ID
	return nil
}

func (r *FakeCustomerRepo) Stats(_ context.Context, today, monthStart time.Time) (*customers.Stats, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var stats customers.Stats
	for _, c := range r.customers {
		if c.IsActive {
			stats.Total++
		}
		if !c.CreatedAt.Before(today) {
			stats.NewToday++
		}
		if !c.CreatedAt.Before(monthStart) {
			stats.NewThisMonth++
		}
		if c.IsGuest {
			stats.Guests++
		}
	}
	for _, s := range r.subscriptions {
		if s.Status == customers.SubscriptionActive {
			stats.ActiveSubscriptions++
		}
	}
	return &stats, nil
}

func (r *FakeCustomerRepo) AddSubscription(_ context.Context, sub *customers.Subscription) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.customers[sub.CustomerID]; !ok {
		return customers.ErrCustomerNotFound
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	sub.CreatedAt = r.nowTime()
	stored := *sub
	r.subscriptions = append(r.subscriptions, &stored)
	return nil
}

// Subscriptions returns the customer's subscriptions newest first.
func (r *FakeCustomerRepo) Subscriptions(_ context.Context, customerID string) ([]*customers.Subscription, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := []*customers.Subscription{}
	for i := len(r.subscriptions) - 1; i >= 0; i-- {
		if s := r.subscriptions[i]; s.CustomerID == customerID {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

// withCounts copies c and fills in SubscriptionCount. Callers hold the lock.
func (r *FakeCustomerRepo) withCounts(c *customers.Customer) *customers.Customer {
	out := *c
	for _, s := range r.subscriptions {
		if s.CustomerID == c.ID {
			out.SubscriptionCount++
		}
	}
	return &out
}

func matches(c *customers.Customer, search string) bool {
	needle := strings.ToLower(search)
	for _, v := range []string{c.Email, utils.Value(c.FirstName), utils.Value(c.LastName)} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return strings.Contains(utils.Value(c.Phone), search)
}
