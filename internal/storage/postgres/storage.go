package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage needs. pgxmock's pool
// interface satisfies it, which keeps the repository testable without a
// database.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository backed by this storage.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            table_code TEXT,
            guest_name TEXT,
            comments TEXT,
            allergy_notes TEXT,
            status TEXT NOT NULL,
            void_reason TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            sent_to_kitchen_at TIMESTAMPTZ,
            ready_at TIMESTAMPTZ,
            delivered_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            position INT NOT NULL,
            item_id TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL CHECK (quantity >= 1),
            PRIMARY KEY (order_id, position)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	var order model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (table_code, guest_name, comments, allergy_notes, status)
                             VALUES ($1, $2, $3, $4, $5)
                             RETURNING id, created_at`
		err := tx.QueryRow(ctx, insertOrder,
			draft.Table, draft.GuestName, draft.Comments, draft.AllergyNotes,
			model.OrderStatusPendingWaiter,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, position, item_id, name, quantity)
                            VALUES ($1, $2, $3, $4, $5)`
		for i, it := range draft.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, i, it.ItemID, it.Name, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Table = draft.Table
	order.GuestName = draft.GuestName
	order.Comments = draft.Comments
	order.AllergyNotes = draft.AllergyNotes
	order.Items = draft.Items
	order.Status = model.OrderStatusPendingWaiter
	return &order, nil
}

const orderColumns = `id, table_code, guest_name, comments, allergy_notes, status, void_reason,
                      created_at, sent_to_kitchen_at, ready_at, delivered_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.Table, &o.GuestName, &o.Comments, &o.AllergyNotes,
		&o.Status, &o.VoidReason,
		&o.CreatedAt, &o.SentToKitchenAt, &o.ReadyAt, &o.DeliveredAt,
	)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, r.storage.pool, []int64{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query += ` WHERE status = ANY($1)`
		args = append(args, statuses)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	var ids []int64
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []model.Order{}, nil
	}

	items, err := r.loadItems(ctx, r.storage.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

// timestampColumns maps lifecycle timestamps to their orders columns.
var timestampColumns = map[model.Timestamp]string{
	model.TimestampSentToKitchen: "sent_to_kitchen_at",
	model.TimestampReady:         "ready_at",
	model.TimestampDelivered:     "delivered_at",
}

func (r *orderRepository) ApplyTransition(ctx context.Context, id int64, from, to model.OrderStatus, voidReason *string, at time.Time) (*model.Order, error) {
	var order model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var tag pgconn.CommandTag
		var err error

		// The status predicate is the compare-and-set: of two racing
		// transitions exactly one matches the stored status and wins.
		// COALESCE keeps a timestamp that was already stamped.
		if col, stamps := timestampColumns[model.TimestampFor(to)]; stamps {
			query := fmt.Sprintf(
				`UPDATE orders SET status=$1, %s=COALESCE(%s, $2) WHERE id=$3 AND status=$4`,
				col, col,
			)
			tag, err = tx.Exec(ctx, query, to, at, id, from)
		} else {
			const query = `UPDATE orders SET status=$1, void_reason=$2 WHERE id=$3 AND status=$4`
			tag, err = tx.Exec(ctx, query, to, voidReason, id, from)
		}
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			var current model.OrderStatus
			err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			return domainErrors.ErrConflict
		}

		const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
		if err := scanOrder(tx.QueryRow(ctx, query, id), &order); err != nil {
			return err
		}

		items, err := r.loadItems(ctx, tx, []int64{id})
		if err != nil {
			return err
		}
		order.Items = items[id]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// querier covers both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *orderRepository) loadItems(ctx context.Context, q querier, ids []int64) (map[int64][]model.OrderItem, error) {
	const query = `SELECT order_id, item_id, name, quantity
                   FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]model.OrderItem, len(ids))
	for rows.Next() {
		var orderID int64
		var it model.OrderItem
		if err := rows.Scan(&orderID, &it.ItemID, &it.Name, &it.Quantity); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
