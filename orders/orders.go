// Package orders handles storefront checkout, order fulfilment status and
// delivery tracking.
package orders

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/customers"
	apperrors "github.com/jrsteele09/storefront-server/internal/errors"
)

var (
	ErrOrderNotFound         = apperrors.NotFound("Order not found")
	ErrItemReference         = apperrors.BadRequest("Each item must reference exactly one product or subscription plan")
	ErrProductUnavailable    = apperrors.BadRequest("Product is not available")
	ErrPlanUnavailable       = apperrors.BadRequest("Subscription plan is not available")
	ErrInvalidStatus         = apperrors.New(http.StatusBadRequest, "Invalid order status")
	ErrDuplicateOrderNumber  = errors.New("order number already exists")
	ErrOrderNumberExhaustion = errors.New("could not allocate a unique order number")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// CountsAsRevenue is false for cancelled and refunded orders.
func (s Status) CountsAsRevenue() bool {
	return s != StatusCancelled && s != StatusRefunded
}

type Type string

const (
	TypeOneTime      Type = "one-time"
	TypeSubscription Type = "subscription"
)

type Order struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	CustomerID      string              `json:"customerId"`
	OrderType       Type                `json:"orderType"`
	Status          Status              `json:"status"`
	Subtotal        float64             `json:"subtotal"`
	ShippingCost    float64             `json:"shippingCost"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
	ShippingAddress map[string]any      `json:"shippingAddress"`
	DietaryPrefs    []string            `json:"dietaryPrefs"`
	SpecialNotes    *string             `json:"specialNotes"`
	DeliveryFreq    *string             `json:"deliveryFreq"`
	PaidAt          *time.Time          `json:"paidAt"`
	ShippedAt       *time.Time          `json:"shippedAt"`
	DeliveredAt     *time.Time          `json:"deliveredAt"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Items           []*Item             `json:"items"`
	Tracking        []*Tracking         `json:"tracking"`
	Customer        *customers.Customer `json:"customer,omitempty"`
}

type Item struct {
	ID                 string                    `json:"id"`
	OrderID            string                    `json:"orderId"`
	ProductID          *string                   `json:"productId"`
	SubscriptionPlanID *string                   `json:"subscriptionPlanId"`
	Quantity           int                       `json:"quantity"`
	UnitPrice          float64                   `json:"unitPrice"`
	TotalPrice         float64                   `json:"totalPrice"`
	Product            *catalog.Product          `json:"product,omitempty"`
	SubscriptionPlan   *catalog.SubscriptionPlan `json:"subscriptionPlan,omitempty"`
}

type Tracking struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Location  *string   `json:"location"`
	Notes     *string   `json:"notes"`
	TrackedAt time.Time `json:"trackedAt"`
}

type Filter struct {
	Status     *Status
	OrderType  *Type
	CustomerID *string
}

type Stats struct {
	Orders   OrderCounts    `json:"orders"`
	Revenue  Revenue        `json:"revenue"`
	ByStatus map[Status]int `json:"byStatus"`
}

type OrderCounts struct {
	Today   int `json:"today"`
	Week    int `json:"week"`
	Month   int `json:"month"`
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

type Revenue struct {
	Today float64 `json:"today"`
	Month float64 `json:"month"`
}

// StatsWindow holds the period starts the stats are bucketed by.
type StatsWindow struct {
	Today      time.Time
	WeekStart  time.Time
	MonthStart time.Time
}

// CreateRequest is the public checkout body.
type CreateRequest struct {
	Customer          customers.CheckoutDetails `json:"customer"`
	OrderType         Type                      `json:"orderType" validate:"required,oneof=one-time subscription"`
	Items             []ItemRequest             `json:"items" validate:"required,min=1,dive"`
	DietaryPrefs      []string                  `json:"dietaryPreferences"`
	SpecialNotes      *string                   `json:"specialNotes"`
	DeliveryFrequency *string                   `json:"deliveryFrequency"`
	ShippingAddress   map[string]any            `json:"shippingAddress"`
}

type ItemRequest struct {
	ProductID          *string `json:"productId" validate:"omitempty,uuid"`
	SubscriptionPlanID *string `json:"subscriptionPlanId" validate:"omitempty,uuid"`
	Quantity           int     `json:"quantity" validate:"gt=0"`
}

type StatusUpdate struct {
	Status Status  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

type TrackingInput struct {
	Status   string  `json:"status" validate:"required"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

var SortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"total":       "total",
	"status":      "status",
	"orderNumber": "order_number",
}

// NewOrderNumber formats ORD-<yyyymmdd>-<6 upper case alphanumerics>.
func NewOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), suffix)
}
