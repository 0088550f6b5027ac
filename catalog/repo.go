package catalog

import (
	"context"

	"github.com/jrsteele09/storefront-server/internal/paging"
)

// Repo stores products and subscription plans. List methods return the page
// of rows plus the total number of rows matching the filter.
type Repo interface {
	ListProducts(ctx context.Context, filter ProductFilter, params paging.Params) ([]*Product, int, error)
	// PublicProducts returns active products, featured first then newest first.
	PublicProducts(ctx context.Context, category *string) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	SaveProduct(ctx context.Context, product *Product) error

	ListPlans(ctx context.Context, filter PlanFilter, params paging.Params) ([]*SubscriptionPlan, int, error)
	// PublicPlans returns active plans, popular first then cheapest first.
	PublicPlans(ctx context.Context) ([]*SubscriptionPlan, error)
	GetPlan(ctx context.Context, id string) (*SubscriptionPlan, error)
	SavePlan(ctx context.Context, plan *SubscriptionPlan) error
}
