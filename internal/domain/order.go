package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentVNPay PaymentMethod = "vnpay"
)

// Order is created pending and settles exactly once, to paid or failed.
// TotalPrice is fixed at creation time and never recomputed. Orders are
// soft-deleted only.
type Order struct {
	ID            uuid.UUID
	CartID        uuid.UUID
	AttemptKey    uuid.UUID
	TotalPrice    int64
	RushOrder     bool
	PaymentMethod PaymentMethod
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

func NewOrder(cartID, attemptKey uuid.UUID, totalPrice int64, rushOrder bool, method PaymentMethod) *Order {
	now := time.Now()
	return &Order{
		ID:            uuid.New(),
		CartID:        cartID,
		AttemptKey:    attemptKey,
		TotalPrice:    totalPrice,
		RushOrder:     rushOrder,
		PaymentMethod: method,
		Status:        OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Settled reports whether the order has reached a terminal status.
func (o *Order) Settled() bool {
	return o.Status == OrderPaid || o.Status == OrderFailed
}

// MarkPaid moves the order to paid. Marking an already paid order again is a
// no-op; moving out of failed is not permitted.
func (o *Order) MarkPaid() error {
	return o.settle(OrderPaid)
}

// MarkFailed moves the order to failed, with the same replay rules as MarkPaid.
func (o *Order) MarkFailed() error {
	return o.settle(OrderFailed)
}

func (o *Order) settle(target OrderStatus) error {
	if o.Status == target {
		return nil
	}
	if o.Settled() {
		return ErrOrderSettled
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}
