package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentAttempt records one redirect handed to the gateway. TxnRef is the
// reference the gateway knows the attempt by; it is unique per attempt, so an
// order retried at checkout gets a fresh row.
type PaymentAttempt struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	TxnRef    string
	Amount    int64
	Status    PaymentStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

func NewPaymentAttempt(orderID uuid.UUID, txnRef string, amount int64, createdAt, expiresAt time.Time) *PaymentAttempt {
	return &PaymentAttempt{
		ID:        uuid.New(),
		OrderID:   orderID,
		TxnRef:    txnRef,
		Amount:    amount,
		Status:    PaymentInitiated,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}
