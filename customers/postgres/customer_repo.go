package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/database"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"golang.org/x/sync/errgroup"
)

var _ customers.Repo = (*CustomerRepo)(nil)

const uniqueViolation = "23505"

type CustomerRepo struct {
	db database.DB
}

func NewCustomerRepo(db database.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = `c.id, c.email, c.first_name, c.last_name, c.phone, c.address, c.city, c.country,
	c.is_guest, c.is_active, c.created_at, c.updated_at,
	(SELECT count(*) FROM subscriptions s WHERE s.customer_id = c.id)`

func (r *CustomerRepo) List(ctx context.Context, filter customers.Filter, params paging.Params) ([]*customers.Customer, int, error) {
	var w database.Where
	if filter.Search != nil {
		like := "%" + *filter.Search + "%"
		w.Add("(c.email ILIKE ? OR c.first_name ILIKE ? OR c.last_name ILIKE ? OR c.phone LIKE ?)", like, like, like, like)
	}
	if filter.IsActive != nil {
		w.Add("c.is_active = ?", *filter.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM customers c`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	q := `SELECT ` + customerColumns + ` FROM customers c` + w.SQL() +
		database.OrderBy(customers.SortFields, params) +
		` OFFSET ` + w.Next(params.Offset()) + ` LIMIT ` + w.Next(params.Limit)
	rows, err := r.db.Query(ctx, q, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*customers.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (*customers.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, customers.ErrCustomerNotFound
	}
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id)
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*customers.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.email = $1`, email)
}

func (r *CustomerRepo) Save(ctx context.Context, c *customers.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO customers (id, email, first_name, last_name, phone, address, city, country, is_guest, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			is_guest = EXCLUDED.is_guest,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, q,
		c.ID, c.Email, c.FirstName, c.LastName, c.Phone, c.Address, c.City, c.Country, c.IsGuest, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return customers.ErrDuplicateEmail
		}
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

// Stats runs its five counts concurrently.
func (r *CustomerRepo) Stats(ctx context.Context, today, monthStart time.Time) (*customers.Stats, error) {
	var stats customers.Stats
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, q string, args ...any) {
		g.Go(func() error {
			return r.db.QueryRow(ctx, q, args...).Scan(dst)
		})
	}
	count(&stats.Total, `SELECT count(*) FROM customers WHERE is_active`)
	count(&stats.NewToday, `SELECT count(*) FROM customers WHERE created_at >= $1`, today)
	count(&stats.NewThisMonth, `SELECT count(*) FROM customers WHERE created_at >= $1`, monthStart)
	count(&stats.Guests, `SELECT count(*) FROM customers WHERE is_guest`)
	count(&stats.ActiveSubscriptions, `SELECT count(*) FROM subscriptions WHERE status = $1`, string(customers.SubscriptionActive))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("customer stats: %w", err)
	}
	return &stats, nil
}

func (r *CustomerRepo) AddSubscription(ctx context.Context, sub *customers.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO subscriptions (id, customer_id, plan_id, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		sub.ID, sub.CustomerID, sub.PlanID, string(sub.Status), sub.StartedAt,
	).Scan(&sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

func (r *CustomerRepo) Subscriptions(ctx context.Context, customerID string) ([]*customers.Subscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, plan_id, status, started_at, created_at
		FROM subscriptions WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	out := []*customers.Subscription{}
	for rows.Next() {
		var (
			s      customers.Subscription
			status string
		)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.PlanID, &status, &s.StartedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = customers.SubscriptionStatus(status)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *CustomerRepo) getOne(ctx context.Context, q string, arg any) (*customers.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx, q, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customers.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*customers.Customer, error) {
	var c customers.Customer
	err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.City, &c.Country,
		&c.IsGuest, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.SubscriptionCount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
