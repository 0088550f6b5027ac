package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/storefront-server/catalog"
	"github.com/jrsteele09/storefront-server/internal/database"
	"github.com/jrsteele09/storefront-server/internal/paging"
)

var _ catalog.Repo = (*CatalogRepo)(nil)

type CatalogRepo struct {
	db database.DB
}

func NewCatalogRepo(db database.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const productColumns = `id, name_en, name_ar, description_en, description_ar, price, original_price, category,
	badge_en, badge_ar, image_url, features_en, features_ar, is_featured, is_active, stock_quantity,
	created_at, updated_at`

const planColumns = `id, name_en, name_ar, description_en, description_ar, monthly_price, annual_price, savings,
	meals_per_month, features_en, features_ar, is_popular, is_active, created_at, updated_at`

func (r *CatalogRepo) ListProducts(ctx context.Context, filter catalog.ProductFilter, params paging.Params) ([]*catalog.Product, int, error) {
	var w database.Where
	if filter.Category != nil {
		w.Add("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		w.Add("is_active = ?", *filter.IsActive)
	}
	if filter.IsFeatured != nil {
		w.Add("is_featured = ?", *filter.IsFeatured)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM products`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	q := `SELECT ` + productColumns + ` FROM products` + w.SQL() +
		database.OrderBy(catalog.ProductSortFields, params) +
		` OFFSET ` + w.Next(params.Offset()) + ` LIMIT ` + w.Next(params.Limit)
	products, err := r.queryProducts(ctx, q, w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *CatalogRepo) PublicProducts(ctx context.Context, category *string) ([]*catalog.Product, error) {
	var w database.Where
	w.Add("is_active")
	if category != nil {
		w.Add("category = ?", *category)
	}
	q := `SELECT ` + productColumns + ` FROM products` + w.SQL() + ` ORDER BY is_featured DESC, created_at DESC`
	return r.queryProducts(ctx, q, w.Args()...)
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, catalog.ErrProductNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *CatalogRepo) SaveProduct(ctx context.Context, p *catalog.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO products (id, name_en, name_ar, description_en, description_ar, price, original_price, category,
			badge_en, badge_ar, image_url, features_en, features_ar, is_featured, is_active, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			name_en = EXCLUDED.name_en,
			name_ar = EXCLUDED.name_ar,
			description_en = EXCLUDED.description_en,
			description_ar = EXCLUDED.description_ar,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			category = EXCLUDED.category,
			badge_en = EXCLUDED.badge_en,
			badge_ar = EXCLUDED.badge_ar,
			image_url = EXCLUDED.image_url,
			features_en = EXCLUDED.features_en,
			features_ar = EXCLUDED.features_ar,
			is_featured = EXCLUDED.is_featured,
			is_active = EXCLUDED.is_active,
			stock_quantity = EXCLUDED.stock_quantity,
			updated_at = now()
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.NameEn, p.NameAr, p.DescriptionEn, p.DescriptionAr, p.Price, p.OriginalPrice, p.Category,
		p.BadgeEn, p.BadgeAr, p.ImageURL, nonNil(p.FeaturesEn), nonNil(p.FeaturesAr), p.IsFeatured, p.IsActive,
		p.StockQuantity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (r *CatalogRepo) ListPlans(ctx context.Context, filter catalog.PlanFilter, params paging.Params) ([]*catalog.SubscriptionPlan, int, error) {
	var w database.Where
	if filter.IsActive != nil {
		w.Add("is_active = ?", *filter.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM subscription_plans`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}

	q := `SELECT ` + planColumns + ` FROM subscription_plans` + w.SQL() +
		database.OrderBy(catalog.PlanSortFields, params) +
		` OFFSET ` + w.Next(params.Offset()) + ` LIMIT ` + w.Next(params.Limit)
	plans, err := r.queryPlans(ctx, q, w.Args()...)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

func (r *CatalogRepo) PublicPlans(ctx context.Context) ([]*catalog.SubscriptionPlan, error) {
	return r.queryPlans(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE is_active ORDER BY is_popular DESC, monthly_price ASC`)
}

func (r *CatalogRepo) GetPlan(ctx context.Context, id string) (*catalog.SubscriptionPlan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, catalog.ErrPlanNotFound
	}
	p, err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (r *CatalogRepo) SavePlan(ctx context.Context, p *catalog.SubscriptionPlan) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO subscription_plans (id, name_en, name_ar, description_en, description_ar, monthly_price,
			annual_price, savings, meals_per_month, features_en, features_ar, is_popular, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name_en = EXCLUDED.name_en,
			name_ar = EXCLUDED.name_ar,
			description_en = EXCLUDED.description_en,
			description_ar = EXCLUDED.description_ar,
			monthly_price = EXCLUDED.monthly_price,
			annual_price = EXCLUDED.annual_price,
			savings = EXCLUDED.savings,
			meals_per_month = EXCLUDED.meals_per_month,
			features_en = EXCLUDED.features_en,
			features_ar = EXCLUDED.features_ar,
			is_popular = EXCLUDED.is_popular,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.NameEn, p.NameAr, p.DescriptionEn, p.DescriptionAr, p.MonthlyPrice, p.AnnualPrice, p.Savings,
		p.MealsPerMonth, nonNil(p.FeaturesEn), nonNil(p.FeaturesAr), p.IsPopular, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *CatalogRepo) queryProducts(ctx context.Context, q string, args ...any) ([]*catalog.Product, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) queryPlans(ctx context.Context, q string, args ...any) ([]*catalog.SubscriptionPlan, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var out []*catalog.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.NameEn, &p.NameAr, &p.DescriptionEn, &p.DescriptionAr, &p.Price, &p.OriginalPrice,
		&p.Category, &p.BadgeEn, &p.BadgeAr, &p.ImageURL, &p.FeaturesEn, &p.FeaturesAr, &p.IsFeatured, &p.IsActive,
		&p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPlan(row pgx.Row) (*catalog.SubscriptionPlan, error) {
	var p catalog.SubscriptionPlan
	err := row.Scan(&p.ID, &p.NameEn, &p.NameAr, &p.DescriptionEn, &p.DescriptionAr, &p.MonthlyPrice,
		&p.AnnualPrice, &p.Savings, &p.MealsPerMonth, &p.FeaturesEn, &p.FeaturesAr, &p.IsPopular, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
