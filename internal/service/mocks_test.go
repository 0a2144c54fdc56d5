package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"vnshop/internal/domain"
)

// fakeOrderRepo implements repo.OrderRepo in memory for testing.
type fakeOrderRepo struct {
	orders  map[uuid.UUID]*domain.Order
	findErr error
	settles int // writes performed through SettleFromPending
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	f := &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderRepo) Create(_ context.Context, _ *sql.Tx, order *domain.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.orders[id], nil
}

func (f *fakeOrderRepo) FindByAttemptKey(_ context.Context, key uuid.UUID) (*domain.Order, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, o := range f.orders {
		if o.AttemptKey == key {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) SettleFromPending(_ context.Context, id uuid.UUID, status domain.OrderStatus) (bool, error) {
	order, ok := f.orders[id]
	if !ok || order.Status != domain.OrderPending {
		return false, nil
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	f.settles++
	return true, nil
}

func (f *fakeOrderRepo) FindExpiredPending(_ context.Context, _ time.Duration) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.Status == domain.OrderPending && o.PaymentMethod == domain.PaymentVNPay {
			out = append(out, *o)
		}
	}
	return out, nil
}

// fakePaymentRepo implements repo.PaymentRepo in memory.
type fakePaymentRepo struct {
	attempts map[string]*domain.PaymentAttempt // by txn ref
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{attempts: make(map[string]*domain.PaymentAttempt)}
}

func (f *fakePaymentRepo) Create(_ context.Context, attempt *domain.PaymentAttempt) error {
	f.attempts[attempt.TxnRef] = attempt
	return nil
}

func (f *fakePaymentRepo) FindByTxnRef(_ context.Context, txnRef string) (*domain.PaymentAttempt, error) {
	return f.attempts[txnRef], nil
}

func (f *fakePaymentRepo) LatestByOrder(_ context.Context, orderID uuid.UUID) (*domain.PaymentAttempt, error) {
	var latest *domain.PaymentAttempt
	for _, a := range f.attempts {
		if a.OrderID == orderID && (latest == nil || a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	return latest, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, txnRef string, status domain.PaymentStatus) error {
	if a, ok := f.attempts[txnRef]; ok {
		a.Status = status
	}
	return nil
}

// fakeCartRepo implements repo.CartRepo in memory.
type fakeCartRepo struct {
	carts  map[uuid.UUID]*domain.CartSnapshot
	buyers map[uuid.UUID]*domain.Buyer
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts:  make(map[uuid.UUID]*domain.CartSnapshot),
		buyers: make(map[uuid.UUID]*domain.Buyer),
	}
}

func (f *fakeCartRepo) Snapshot(_ context.Context, cartID uuid.UUID) (*domain.CartSnapshot, error) {
	return f.carts[cartID], nil
}

func (f *fakeCartRepo) Buyer(_ context.Context, cartID uuid.UUID) (*domain.Buyer, error) {
	return f.buyers[cartID], nil
}
