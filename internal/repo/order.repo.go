package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"vnshop/internal/domain"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByAttemptKey(ctx context.Context, key uuid.UUID) (*domain.Order, error)
	// SettleFromPending flips a pending order to the given terminal status.
	// It reports false when the order was no longer pending, in which case
	// nothing was written.
	SettleFromPending(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (bool, error)
	// FindExpiredPending returns gateway orders still pending past the given
	// age. COD orders are settled elsewhere and are not returned.
	FindExpiredPending(ctx context.Context, olderThan time.Duration) ([]domain.Order, error)
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = `id, cart_id, attempt_key, total_price, rush_order, payment_method, status, created_at, updated_at, deleted_at`

func (r *orderRepo) Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID,
		order.CartID,
		order.AttemptKey,
		order.TotalPrice,
		order.RushOrder,
		order.PaymentMethod,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
		order.DeletedAt,
	)
	return err
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanOrder(row)
}

func (r *orderRepo) FindByAttemptKey(ctx context.Context, key uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE attempt_key = $1 AND deleted_at IS NULL`, key)
	return scanOrder(row)
}

func (r *orderRepo) SettleFromPending(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status = $3 AND deleted_at IS NULL`,
		id, status, domain.OrderPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *orderRepo) FindExpiredPending(ctx context.Context, olderThan time.Duration) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE status = $1 AND payment_method = $2 AND updated_at < $3 AND deleted_at IS NULL`,
		domain.OrderPending, domain.PaymentVNPay, time.Now().Add(-olderThan),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CartID,
			&order.AttemptKey,
			&order.TotalPrice,
			&order.RushOrder,
			&order.PaymentMethod,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.DeletedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CartID,
		&order.AttemptKey,
		&order.TotalPrice,
		&order.RushOrder,
		&order.PaymentMethod,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
