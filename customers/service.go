package customers

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/validation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PlanLookup resolves the plan attached to a subscription.
type PlanLookup interface {
	GetPlan(ctx context.Context, id string) (*catalog.SubscriptionPlan, error)
}

type Service struct {
	repo      Repo
	orders    OrderSummaries
	plans     PlanLookup
	validator *validation.Validator
	nowTime   func() time.Time
}

type ServiceOption func(*Service)

func WithNowTime(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = now
	}
}

func NewService(repo Repo, orders OrderSummaries, plans PlanLookup, options ...ServiceOption) *Service {
	s := &Service{
		repo:      repo,
		orders:    orders,
		plans:     plans,
		validator: validation.New(),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, filter Filter, params paging.Params) (paging.Page[*Customer], error) {
	params = params.Normalize(SortFields)
	list, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return paging.Page[*Customer]{}, errors.Wrap(err, "[customers.List]")
	}

	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	summaries, err := s.orders.SummarizeCustomers(ctx, ids)
	if err != nil {
		return paging.Page[*Customer]{}, errors.Wrap(err, "[customers.List] SummarizeCustomers")
	}
	for _, c := range list {
		c.OrderCount = summaries[c.ID].Orders
	}
	return paging.NewPage(params, list, total), nil
}

// Get returns the customer with order count and total spent filled in.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summaries, err := s.orders.SummarizeCustomers(ctx, []string{c.ID})
	if err != nil {
		return nil, errors.Wrap(err, "[customers.Get] SummarizeCustomers")
	}
	summary := summaries[c.ID]
	c.OrderCount = summary.Orders
	c.TotalSpent = &summary.TotalSpent
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, update Update) (*Customer, error) {
	if err := s.validator.Validate(update); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	setIf(&c.FirstName, update.FirstName)
	setIf(&c.LastName, update.LastName)
	setIf(&c.Phone, update.Phone)
	setIf(&c.Address, update.Address)
	setIf(&c.City, update.City)
	setIf(&c.Country, update.Country)
	if update.IsActive != nil {
		c.IsActive = *update.IsActive
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "[customers.Update]")
	}
	return c, nil
}

// Deactivate soft deletes a customer.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsActive {
		return nil
	}
	c.IsActive = false
	if err := s.repo.Save(ctx, c); err != nil {
		return errors.Wrap(err, "[customers.Deactivate]")
	}
	log.Info().Str("customer_id", id).Msg("customer deactivated")
	return nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	y, m, d := s.nowTime().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.repo.Stats(ctx, today, monthStart)
	if err != nil {
		return nil, errors.Wrap(err, "[customers.Stats]")
	}
	return stats, nil
}

// Subscriptions lists a customer's subscriptions with their plans attached.
func (s *Service) Subscriptions(ctx context.Context, customerID string) ([]*Subscription, error) {
	if _, err := s.repo.Get(ctx, customerID); err != nil {
		return nil, err
	}
	subs, err := s.repo.Subscriptions(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "[customers.Subscriptions]")
	}
	for _, sub := range subs {
		plan, err := s.plans.GetPlan(ctx, sub.PlanID)
		if err != nil {
			log.Warn().Err(err).Str("plan_id", sub.PlanID).Msg("subscription plan lookup failed")
			continue
		}
		sub.Plan = plan
	}
	return subs, nil
}

// Exists reports ErrCustomerNotFound when id does not resolve.
func (s *Service) Exists(ctx context.Context, id string) error {
	_, err := s.repo.Get(ctx, id)
	return err
}

// UpsertFromCheckout finds the customer by email, refreshing the contact
// details given at checkout, or creates a new guest customer.
func (s *Service) UpsertFromCheckout(ctx context.Context, details CheckoutDetails) (*Customer, error) {
	if err := s.validator.Validate(details); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(details.Email))

	c, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		c = &Customer{Email: email, IsGuest: true, IsActive: true}
	case err != nil:
		return nil, errors.Wrap(err, "[customers.UpsertFromCheckout] GetByEmail")
	}

	c.FirstName = &details.FirstName
	c.LastName = &details.LastName
	setIf(&c.Phone, details.Phone)
	setIf(&c.Address, details.Address)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "[customers.UpsertFromCheckout] Save")
	}
	return c, nil
}

func (s *Service) AddSubscription(ctx context.Context, customerID, planID string) (*Subscription, error) {
	sub := &Subscription{
		CustomerID: customerID,
		PlanID:     planID,
		Status:     SubscriptionActive,
		StartedAt:  s.nowTime(),
	}
	if err := s.repo.AddSubscription(ctx, sub); err != nil {
		return nil, errors.Wrap(err, "[customers.AddSubscription]")
	}
	return sub, nil
}

func setIf(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}
