package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/storefront-server/customers"
	"github.com/jrsteele09/storefront-server/internal/database"
	"github.com/jrsteele09/storefront-server/internal/paging"
	"github.com/jrsteele09/storefront-server/orders"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var _ orders.Repo = (*OrderRepo)(nil)

const uniqueViolation = "23505"

type OrderRepo struct {
	db database.DB
}

func NewOrderRepo(db database.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id, order_number, customer_id, order_type, status, subtotal, shipping_cost, tax, total,
	shipping_address, dietary_prefs, special_notes, delivery_freq, paid_at, shipped_at, delivered_at,
	created_at, updated_at`

func (r *OrderRepo) Create(ctx context.Context, o *orders.Order) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Err(rbErr).Msg("order create rollback failed")
			}
		}
	}()

	o.ID = uuid.New().String()
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, customer_id, order_type, status, subtotal, shipping_cost, tax, total,
			shipping_address, dietary_prefs, special_notes, delivery_freq)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.CustomerID, string(o.OrderType), string(o.Status), o.Subtotal, o.ShippingCost,
		o.Tax, o.Total, o.ShippingAddress, o.DietaryPrefs, o.SpecialNotes, o.DeliveryFreq,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return orders.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		item.ID = uuid.New().String()
		item.OrderID = o.ID
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, subscription_plan_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.OrderID, item.ProductID, item.SubscriptionPlanID, item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*orders.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, orders.ErrOrderNotFound
	}
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
}

func (r *OrderRepo) List(ctx context.Context, filter orders.Filter, params paging.Params) ([]*orders.Order, int, error) {
	var w database.Where
	if filter.Status != nil {
		w.Add("status = ?", string(*filter.Status))
	}
	if filter.OrderType != nil {
		w.Add("order_type = ?", string(*filter.OrderType))
	}
	if filter.CustomerID != nil {
		w.Add("customer_id::text = ?", *filter.CustomerID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM orders`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	q := `SELECT ` + orderColumns + ` FROM orders` + w.SQL() +
		database.OrderBy(orders.SortFields, params) +
		` OFFSET ` + w.Next(params.Offset()) + ` LIMIT ` + w.Next(params.Limit)
	rows, err := r.db.Query(ctx, q, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *orders.Order, tracking *orders.Tracking) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Err(rbErr).Msg("order status rollback failed")
			}
		}
	}()

	err = tx.QueryRow(ctx, `
		UPDATE orders SET status = $2, paid_at = $3, shipped_at = $4, delivered_at = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, string(o.Status), o.PaidAt, o.ShippedAt, o.DeliveredAt,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if err = insertTracking(ctx, tx, tracking); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *OrderRepo) AddTracking(ctx context.Context, tracking *orders.Tracking) error {
	return insertTracking(ctx, r.db, tracking)
}

func (r *OrderRepo) Tracking(ctx context.Context, orderID string) ([]*orders.Tracking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, status, location, notes, tracked_at
		FROM delivery_tracking WHERE order_id = $1 ORDER BY tracked_at ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list tracking: %w", err)
	}
	defer rows.Close()

	out := []*orders.Tracking{}
	for rows.Next() {
		var t orders.Tracking
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Status, &t.Location, &t.Notes, &t.TrackedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Stats runs each count and sum concurrently.
func (r *OrderRepo) Stats(ctx context.Context, window orders.StatsWindow) (*orders.Stats, error) {
	stats := &orders.Stats{ByStatus: map[orders.Status]int{}}
	g, ctx := errgroup.WithContext(ctx)

	scan := func(dst any, q string, args ...any) {
		g.Go(func() error {
			return r.db.QueryRow(ctx, q, args...).Scan(dst)
		})
	}
	const revenue = `SELECT coalesce(sum(total), 0)::float8 FROM orders
		WHERE created_at >= $1 AND status NOT IN ('cancelled', 'refunded')`

	scan(&stats.Orders.Today, `SELECT count(*) FROM orders WHERE created_at >= $1`, window.Today)
	scan(&stats.Orders.Week, `SELECT count(*) FROM orders WHERE created_at >= $1`, window.WeekStart)
	scan(&stats.Orders.Month, `SELECT count(*) FROM orders WHERE created_at >= $1`, window.MonthStart)
	scan(&stats.Orders.Total, `SELECT count(*) FROM orders`)
	scan(&stats.Orders.Pending, `SELECT count(*) FROM orders WHERE status = $1`, string(orders.StatusPending))
	scan(&stats.Revenue.Today, revenue, window.Today)
	scan(&stats.Revenue.Month, revenue, window.MonthStart)

	byStatus := make(map[orders.Status]int)
	g.Go(func() error {
		rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				status string
				n      int
			)
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			byStatus[orders.Status(status)] = n
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	stats.ByStatus = byStatus
	return stats, nil
}

func (r *OrderRepo) SummarizeCustomers(ctx context.Context, customerIDs []string) (map[string]customers.OrderSummary, error) {
	out := make(map[string]customers.OrderSummary, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT customer_id::text, count(*), coalesce(sum(total) FILTER (WHERE status <> 'cancelled'), 0)::float8
		FROM orders WHERE customer_id::text = ANY($1)
		GROUP BY customer_id`, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("summarize customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      string
			summary customers.OrderSummary
		)
		if err := rows.Scan(&id, &summary.Orders, &summary.TotalSpent); err != nil {
			return nil, err
		}
		out[id] = summary
	}
	return out, rows.Err()
}

func (r *OrderRepo) getOne(ctx context.Context, q string, arg any) (*orders.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, q, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orders.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachItems(ctx, []*orders.Order{o}); err != nil {
		return nil, err
	}
	if o.Tracking, err = r.Tracking(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) attachItems(ctx context.Context, list []*orders.Order) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*orders.Order, len(list))
	ids := make([]string, 0, len(list))
	for _, o := range list {
		o.Items = []*orders.Item{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id::text, product_id, subscription_plan_id, quantity, unit_price, total_price
		FROM order_items WHERE order_id::text = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it orders.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SubscriptionPlanID, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, &it)
		}
	}
	return rows.Err()
}

// execer is satisfied by both database.DB and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertTracking(ctx context.Context, db execer, t *orders.Tracking) error {
	t.ID = uuid.New().String()
	_, err := db.Exec(ctx, `
		INSERT INTO delivery_tracking (id, order_id, status, location, notes, tracked_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.OrderID, t.Status, t.Location, t.Notes, t.TrackedAt)
	if err != nil {
		return fmt.Errorf("insert tracking: %w", err)
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]*orders.Order, error) {
	defer rows.Close()
	var out []*orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*orders.Order, error) {
	var (
		o                 orders.Order
		orderType, status string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &orderType, &status, &o.Subtotal, &o.ShippingCost,
		&o.Tax, &o.Total, &o.ShippingAddress, &o.DietaryPrefs, &o.SpecialNotes, &o.DeliveryFreq, &o.PaidAt,
		&o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.OrderType = orders.Type(orderType)
	o.Status = orders.Status(status)
	return &o, nil
}
