package orders

import (
	"context"
	"time"

	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/internal/validation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const orderNumberAttempts = 5

// Catalog prices order items.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	GetPlan(ctx context.Context, id string) (*catalog.SubscriptionPlan, error)
}

// Customers resolves the customer placing an order.
type Customers interface {
	UpsertFromCheckout(ctx context.Context, details customers.CheckoutDetails) (*customers.Customer, error)
	AddSubscription(ctx context.Context, customerID, planID string) (*customers.Subscription, error)
	Get(ctx context.Context, id string) (*customers.Customer, error)
	Exists(ctx context.Context, id string) error
}

type Service struct {
	repo      Repo
	catalog   Catalog
	customers Customers
	validator *validation.Validator
	nowTime   func() time.Time
}

type ServiceOption func(*Service)

func WithNowTime(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = now
	}
}

func NewService(repo Repo, catalog Catalog, customers Customers, options ...ServiceOption) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		validator: validation.New(),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Create places a checkout order. Prices always come from the catalog;
// shipping and tax are zero so the total equals the subtotal.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.UpsertFromCheckout(ctx, req.Customer)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalPrice
	}

	dietary := req.DietaryPrefs
	if dietary == nil {
		dietary = []string{}
	}
	order := &Order{
		CustomerID:      customer.ID,
		OrderType:       req.OrderType,
		Status:          StatusPending,
		Subtotal:        subtotal,
		Total:           subtotal,
		ShippingAddress: req.ShippingAddress,
		DietaryPrefs:    dietary,
		SpecialNotes:    req.SpecialNotes,
		DeliveryFreq:    req.DeliveryFrequency,
		Items:           items,
		Tracking:        []*Tracking{},
	}

	for attempt := 0; ; attempt++ {
		if attempt == orderNumberAttempts {
			return nil, ErrOrderNumberExhaustion
		}
		order.OrderNumber = NewOrderNumber(s.nowTime())
		err = s.repo.Create(ctx, order)
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "[orders.Create]")
	}

	if order.OrderType == TypeSubscription {
		for _, item := range items {
			if item.SubscriptionPlanID == nil {
				continue
			}
			if _, err := s.customers.AddSubscription(ctx, customer.ID, *item.SubscriptionPlanID); err != nil {
				log.Err(err).Str("order", order.OrderNumber).Msg("failed to start subscription")
			}
		}
	}

	log.Info().Str("order", order.OrderNumber).Float64("total", order.Total).Msg("order created")
	return order, nil
}

func (s *Service) priceItems(ctx context.Context, reqs []ItemRequest) ([]*Item, error) {
	items := make([]*Item, 0, len(reqs))
	for _, r := range reqs {
		if (r.ProductID == nil) == (r.SubscriptionPlanID == nil) {
			return nil, ErrItemReference
		}

		item := &Item{
			ProductID:          r.ProductID,
			SubscriptionPlanID: r.SubscriptionPlanID,
			Quantity:           r.Quantity,
		}
		if r.ProductID != nil {
			product, err := s.catalog.GetProduct(ctx, *r.ProductID)
			if errors.Is(err, catalog.ErrProductNotFound) || (err == nil && !product.IsActive) {
				return nil, ErrProductUnavailable
			}
			if err != nil {
				return nil, errors.Wrap(err, "[orders.priceItems] GetProduct")
			}
			item.UnitPrice = product.Price
			item.Product = product
		} else {
			plan, err := s.catalog.GetPlan(ctx, *r.SubscriptionPlanID)
			if errors.Is(err, catalog.ErrPlanNotFound) || (err == nil && !plan.IsActive) {
				return nil, ErrPlanUnavailable
			}
			if err != nil {
				return nil, errors.Wrap(err, "[orders.priceItems] GetPlan")
			}
			item.UnitPrice = plan.MonthlyPrice
			item.SubscriptionPlan = plan
		}
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetByNumber(ctx, orderNumber)
}

// Get returns the order with its customer attached.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.Get(ctx, order.CustomerID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", id).Msg("order customer lookup failed")
	} else {
		order.Customer = customer
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, filter Filter, params paging.Params) (paging.Page[*Order], error) {
	params = params.Normalize(SortFields)
	list, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return paging.Page[*Order]{}, errors.Wrap(err, "[orders.List]")
	}
	return paging.NewPage(params, list, total), nil
}

// ListForCustomer pages through one customer's orders.
func (s *Service) ListForCustomer(ctx context.Context, customerID string, params paging.Params) (paging.Page[*Order], error) {
	if err := s.customers.Exists(ctx, customerID); err != nil {
		return paging.Page[*Order]{}, err
	}
	return s.List(ctx, Filter{CustomerID: &customerID}, params)
}

// UpdateStatus moves the order to status, stamping paidAt, shippedAt or
// deliveredAt the first time the order is confirmed, shipped or delivered,
// and records a tracking entry.
func (s *Service) UpdateStatus(ctx context.Context, id string, update StatusUpdate) (*Order, error) {
	if !update.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.nowTime()
	order.Status = update.Status
	switch update.Status {
	case StatusConfirmed:
		if order.PaidAt == nil {
			order.PaidAt = &now
		}
	case StatusShipped:
		if order.ShippedAt == nil {
			order.ShippedAt = &now
		}
	case StatusDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	}

	tracking := &Tracking{
		OrderID:   order.ID,
		Status:    string(update.Status),
		Notes:     update.Notes,
		TrackedAt: now,
	}
	if err := s.repo.UpdateStatus(ctx, order, tracking); err != nil {
		return nil, errors.Wrap(err, "[orders.UpdateStatus]")
	}
	order.Tracking = append(order.Tracking, tracking)
	return order, nil
}

func (s *Service) AddTracking(ctx context.Context, orderID string, in TrackingInput) (*Tracking, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, orderID); err != nil {
		return nil, err
	}
	tracking := &Tracking{
		OrderID:   orderID,
		Status:    in.Status,
		Location:  in.Location,
		Notes:     in.Notes,
		TrackedAt: s.nowTime(),
	}
	if err := s.repo.AddTracking(ctx, tracking); err != nil {
		return nil, errors.Wrap(err, "[orders.AddTracking]")
	}
	return tracking, nil
}

func (s *Service) Tracking(ctx context.Context, orderID string) ([]*Tracking, error) {
	if _, err := s.repo.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.Tracking(ctx, orderID)
}

// Stats buckets orders by today, the current ISO week (from Monday) and the
// current month.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx, NewStatsWindow(s.nowTime()))
	if err != nil {
		return nil, errors.Wrap(err, "[orders.Stats]")
	}
	return stats, nil
}

// NewStatsWindow buckets in UTC whatever zone now carries.
func NewStatsWindow(now time.Time) StatsWindow {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(today.Weekday()) + 6) % 7
	return StatsWindow{
		Today:      today,
		WeekStart:  today.AddDate(0, 0, -sinceMonday),
		MonthStart: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC),
	}
}
