package fakecatalogrepo

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/internal/paging"
)

var _ catalog.Repo = (*FakeCatalogRepo)(nil)

type FakeCatalogRepo struct {
	products map[string]*catalog.Product
	plans    map[string]*catalog.SubscriptionPlan
	nowTime  func() time.Time
	lock     sync.RWMutex
}

func NewFakeCatalogRepo() *FakeCatalogRepo {
	return &FakeCatalogRepo{
		products: make(map[string]*catalog.Product),
		plans:    make(map[string]*catalog.SubscriptionPlan),
		nowTime:  time.Now,
	}
}

// WithNowTime fixes the timestamps stamped on saved rows.
func (r *FakeCatalogRepo) WithNowTime(now func() time.Time) *FakeCatalogRepo {
	r.nowTime = now
	return r
}

var productOrder = map[string]func(a, b *catalog.Product) int{
	"createdAt":     func(a, b *catalog.Product) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":     func(a, b *catalog.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"nameEn":        func(a, b *catalog.Product) int { return strings.Compare(a.NameEn, b.NameEn) },
	"price":         func(a, b *catalog.Product) int { return cmp.Compare(a.Price, b.Price) },
	"category":      func(a, b *catalog.Product) int { return strings.Compare(a.Category, b.Category) },
	"stockQuantity": func(a, b *catalog.Product) int { return cmp.Compare(a.StockQuantity, b.StockQuantity) },
}

var planOrder = map[string]func(a, b *catalog.SubscriptionPlan) int{
	"createdAt":     func(a, b *catalog.SubscriptionPlan) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":     func(a, b *catalog.SubscriptionPlan) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	"nameEn":        func(a, b *catalog.SubscriptionPlan) int { return strings.Compare(a.NameEn, b.NameEn) },
	"monthlyPrice":  func(a, b *catalog.SubscriptionPlan) int { return cmp.Compare(a.MonthlyPrice, b.MonthlyPrice) },
	"mealsPerMonth": func(a, b *catalog.SubscriptionPlan) int { return cmp.Compare(a.MealsPerMonth, b.MealsPerMonth) },
}

func (r *FakeCatalogRepo) ListProducts(_ context.Context, filter catalog.ProductFilter, params paging.Params) ([]*catalog.Product, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	matched := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsFeatured != nil && p.IsFeatured != *filter.IsFeatured {
			continue
		}
		c := *p
		matched = append(matched, &c)
	}
	sortBy(matched, productOrder, params)

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *FakeCatalogRepo) PublicProducts(_ context.Context, category *string) ([]*catalog.Product, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if !p.IsActive || (category != nil && p.Category != *category) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *catalog.Product) int {
		if a.IsFeatured != b.IsFeatured {
			if a.IsFeatured {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *FakeCatalogRepo) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *FakeCatalogRepo) SaveProduct(_ context.Context, product *catalog.Product) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := r.nowTime()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	stored := *product
	r.products[product.ID] = &stored
	return nil
}

func (r *FakeCatalogRepo) ListPlans(_ context.Context, filter catalog.PlanFilter, params paging.Params) ([]*catalog.SubscriptionPlan, int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	matched := make([]*catalog.SubscriptionPlan, 0, len(r.plans))
	for _, p := range r.plans {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		c := *p
		matched = append(matched, &c)
	}
	sortBy(matched, planOrder, params)

	start, end := params.Window(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *FakeCatalogRepo) PublicPlans(_ context.Context) ([]*catalog.SubscriptionPlan, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make([]*catalog.SubscriptionPlan, 0, len(r.plans))
	for _, p := range r.plans {
		if !p.IsActive {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *catalog.SubscriptionPlan) int {
		if a.IsPopular != b.IsPopular {
			if a.IsPopular {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.MonthlyPrice, b.MonthlyPrice)
	})
	return out, nil
}

func (r *FakeCatalogRepo) GetPlan(_ context.Context, id string) (*catalog.SubscriptionPlan, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return nil, catalog.ErrPlanNotFound
	}
	c := *p
	return &c, nil
}

func (r *FakeCatalogRepo) SavePlan(_ context.Context, plan *catalog.SubscriptionPlan) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := r.nowTime()
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func sortBy[T any](items []T, order map[string]func(a, b T) int, params paging.Params) {
	compare, ok := order[params.SortBy]
	if !ok {
		compare = order[paging.DefaultSortBy]
	}
	slices.SortStableFunc(items, func(a, b T) int {
		if params.SortOrder == paging.SortAsc {
			return compare(a, b)
		}
		return compare(b, a)
	})
}
