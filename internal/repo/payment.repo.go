package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"vnshop/internal/domain"
)

type PaymentRepo interface {
	Create(ctx context.Context, attempt *domain.PaymentAttempt) error
	FindByTxnRef(ctx context.Context, txnRef string) (*domain.PaymentAttempt, error)
	// LatestByOrder returns the most recent attempt for an order, nil when the
	// order was never handed to the gateway.
	LatestByOrder(ctx context.Context, orderID uuid.UUID) (*domain.PaymentAttempt, error)
	UpdateStatus(ctx context.Context, txnRef string, status domain.PaymentStatus) error
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

const attemptColumns = `id, order_id, txn_ref, amount, status, created_at, expires_at`

func (r *paymentRepo) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_attempts (`+attemptColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.ID,
		attempt.OrderID,
		attempt.TxnRef,
		attempt.Amount,
		attempt.Status,
		attempt.CreatedAt,
		attempt.ExpiresAt,
	)
	return err
}

func (r *paymentRepo) FindByTxnRef(ctx context.Context, txnRef string) (*domain.PaymentAttempt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attemptColumns+` FROM payment_attempts WHERE txn_ref = $1`, txnRef)
	return scanAttempt(row)
}

func (r *paymentRepo) LatestByOrder(ctx context.Context, orderID uuid.UUID) (*domain.PaymentAttempt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attemptColumns+` FROM payment_attempts WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1`,
		orderID)
	return scanAttempt(row)
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, txnRef string, status domain.PaymentStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_attempts SET status = $2 WHERE txn_ref = $1`, txnRef, status)
	return err
}

func scanAttempt(row *sql.Row) (*domain.PaymentAttempt, error) {
	var a domain.PaymentAttempt
	err := row.Scan(
		&a.ID,
		&a.OrderID,
		&a.TxnRef,
		&a.Amount,
		&a.Status,
		&a.CreatedAt,
		&a.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
