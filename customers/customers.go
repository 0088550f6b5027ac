// Package customers manages storefront customers and their plan
// subscriptions. Customers are created implicitly by guest checkout and are
// deactivated rather than deleted.
package customers

import (
	"context"
	"time"

	"github.com/jrsteele09/storefront-server/catalog"
	apperrors "github.com/jrsteele09/storefront-server/internal/errors"
)

var ErrCustomerNotFound = apperrors.NotFound("Customer not found")

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Customer struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FirstName         *string   `json:"firstName"`
	LastName          *string   `json:"lastName"`
	Phone             *string   `json:"phone"`
	Address           *string   `json:"address"`
	City              *string   `json:"city"`
	Country           *string   `json:"country"`
	IsGuest           bool      `json:"isGuest"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	OrderCount        int       `json:"orderCount"`
	SubscriptionCount int       `json:"subscriptionCount"`
	// TotalSpent is only filled in on single customer lookups.
	TotalSpent *float64 `json:"totalSpent,omitempty"`
}

type Subscription struct {
	ID         string                    `json:"id"`
	CustomerID string                    `json:"customerId"`
	PlanID     string                    `json:"planId"`
	Status     SubscriptionStatus        `json:"status"`
	StartedAt  time.Time                 `json:"startedAt"`
	CreatedAt  time.Time                 `json:"createdAt"`
	Plan       *catalog.SubscriptionPlan `json:"plan,omitempty"`
}

type Filter struct {
	// Search matches email, first and last name case-insensitively and phone
	// as a plain substring.
	Search   *string
	IsActive *bool
}

type Stats struct {
	Total               int `json:"total"`
	NewToday            int `json:"newToday"`
	NewThisMonth        int `json:"newThisMonth"`
	Guests              int `json:"guests"`
	ActiveSubscriptions int `json:"activeSubscriptions"`
}

// CheckoutDetails are the customer fields captured when an order is placed.
type CheckoutDetails struct {
	Email     string  `json:"email" validate:"required,email"`
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

type Update struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	IsActive  *bool   `json:"isActive"`
}

// OrderSummary aggregates a customer's orders. TotalSpent excludes
// cancelled orders.
type OrderSummary struct {
	Orders     int
	TotalSpent float64
}

// OrderSummaries is implemented by the order store.
type OrderSummaries interface {
	SummarizeCustomers(ctx context.Context, customerIDs []string) (map[string]OrderSummary, error)
}

var SortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
}
