// Package catalog manages the storefront's products and subscription plans.
// Rows are never removed: deleting a product or plan clears its IsActive flag
// and the public listings only ever return active rows.
package catalog

import (
	"time"

	apperrors "github.com/jrsteele09/storefront-server/internal/errors"
)

var (
	ErrProductNotFound = apperrors.NotFound("Product not found")
	ErrPlanNotFound    = apperrors.NotFound("Subscription plan not found")
)

type Product struct {
	ID            string    `json:"id"`
	NameEn        string    `json:"nameEn"`
	NameAr        string    `json:"nameAr"`
	DescriptionEn *string   `json:"descriptionEn"`
	DescriptionAr *string   `json:"descriptionAr"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      string    `json:"category"`
	BadgeEn       *string   `json:"badgeEn"`
	BadgeAr       *string   `json:"badgeAr"`
	ImageURL      *string   `json:"imageUrl"`
	FeaturesEn    []string  `json:"featuresEn"`
	FeaturesAr    []string  `json:"featuresAr"`
	IsFeatured    bool      `json:"isFeatured"`
	IsActive      bool      `json:"isActive"`
	StockQuantity int       `json:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type SubscriptionPlan struct {
	ID            string    `json:"id"`
	NameEn        string    `json:"nameEn"`
	NameAr        string    `json:"nameAr"`
	DescriptionEn *string   `json:"descriptionEn"`
	DescriptionAr *string   `json:"descriptionAr"`
	MonthlyPrice  float64   `json:"monthlyPrice"`
	AnnualPrice   *float64  `json:"annualPrice"`
	Savings       *float64  `json:"savings"`
	MealsPerMonth int       `json:"mealsPerMonth"`
	FeaturesEn    []string  `json:"featuresEn"`
	FeaturesAr    []string  `json:"featuresAr"`
	IsPopular     bool      `json:"isPopular"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ProductFilter struct {
	Category   *string
	IsActive   *bool
	IsFeatured *bool
}

type PlanFilter struct {
	IsActive *bool
}

// ProductSortFields maps the accepted sortBy values to column names.
var ProductSortFields = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"nameEn":        "name_en",
	"price":         "price",
	"category":      "category",
	"stockQuantity": "stock_quantity",
}

var PlanSortFields = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"nameEn":        "name_en",
	"monthlyPrice":  "monthly_price",
	"mealsPerMonth": "meals_per_month",
}
