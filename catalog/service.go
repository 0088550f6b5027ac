package catalog

import (
	"context"

	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/validation"
	"github.com/pkg/errors"
)

type Service struct {
	repo      Repo
	validator *validation.Validator
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, validator: validation.New()}
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter, params paging.Params) (paging.Page[*Product], error) {
	params = params.Normalize(ProductSortFields)
	products, total, err := s.repo.ListProducts(ctx, filter, params)
	if err != nil {
		return paging.Page[*Product]{}, errors.Wrap(err, "[catalog.ListProducts]")
	}
	return paging.NewPage(params, products, total), nil
}

func (s *Service) PublicProducts(ctx context.Context, category *string) ([]*Product, error) {
	products, err := s.repo.PublicProducts(ctx, category)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PublicProducts]")
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	product := in.toProduct()
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, errors.Wrap(err, "[catalog.CreateProduct]")
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	in := existing.toInput()
	update.apply(&in)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	product := in.toProduct()
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, errors.Wrap(err, "[catalog.UpdateProduct]")
	}
	return product, nil
}

// DeleteProduct deactivates the product. The row is kept so existing order
// items still resolve.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	product.IsActive = false
	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return errors.Wrap(err, "[catalog.DeleteProduct]")
	}
	return nil
}

func (s *Service) ListPlans(ctx context.Context, filter PlanFilter, params paging.Params) (paging.Page[*SubscriptionPlan], error) {
	params = params.Normalize(PlanSortFields)
	plans, total, err := s.repo.ListPlans(ctx, filter, params)
	if err != nil {
		return paging.Page[*SubscriptionPlan]{}, errors.Wrap(err, "[catalog.ListPlans]")
	}
	return paging.NewPage(params, plans, total), nil
}

func (s *Service) PublicPlans(ctx context.Context) ([]*SubscriptionPlan, error) {
	plans, err := s.repo.PublicPlans(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[catalog.PublicPlans]")
	}
	return plans, nil
}

func (s *Service) GetPlan(ctx context.Context, id string) (*SubscriptionPlan, error) {
	return s.repo.GetPlan(ctx, id)
}

func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (*SubscriptionPlan, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	plan := in.toPlan()
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return nil, errors.Wrap(err, "[catalog.CreatePlan]")
	}
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id string, update PlanUpdate) (*SubscriptionPlan, error) {
	existing, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	in := existing.toInput()
	update.apply(&in)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	plan := in.toPlan()
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return nil, errors.Wrap(err, "[catalog.UpdatePlan]")
	}
	return plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	plan, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return err
	}
	plan.IsActive = false
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return errors.Wrap(err, "[catalog.DeletePlan]")
	}
	return nil
}
