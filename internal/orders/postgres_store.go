package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists orders in the orders table.
type PostgresStore struct {
	db Querier
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db Querier) *PostgresStore {
	if db == nil {
		panic("orders: pgx pool required")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, order *Order) error {
	if order == nil {
		return errors.New("orders: order required")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	details, err := json.Marshal(order.Details)
	if err != nil {
		return fmt.Errorf("orders: marshal details: %w", err)
	}
	query := `
		INSERT INTO orders (id, user_id, order_type, order_details, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = s.db.QueryRow(ctx, query, order.ID, order.UserID, order.Type, details, order.Total, order.Status).
		Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("orders: insert order: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	query := `
		SELECT id, user_id, order_type, order_details, total_amount, status, created_at
		FROM orders
		WHERE id = $1
	`
	order, err := scanOrder(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("orders: get order: %w", err)
	}
	return order, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	query := `
		SELECT id, user_id, order_type, order_details, total_amount, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("orders: list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orders: scan order: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		order   Order
		details []byte
	)
	if err := row.Scan(&order.ID, &order.UserID, &order.Type, &details, &order.Total, &order.Status, &order.CreatedAt); err != nil {
		return Order{}, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &order.Details); err != nil {
			return Order{}, fmt.Errorf("orders: decode details: %w", err)
		}
	}
	return order, nil
}
