package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataIntegrity means a cart line could not be priced (missing or
	// deleted product); the order must not be created.
	ErrDataIntegrity = errors.New("cart line has no resolved product")

	ErrCartNotFound  = errors.New("cart not found")
	ErrEmptyCart     = errors.New("cart is empty, nothing to order")
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderSettled rejects a transition out of a terminal status.
	ErrOrderSettled = errors.New("order already settled")
)

// GatewayError carries a non-success response code returned by the payment
// gateway.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway declined payment: code %s (%s)", e.Code, e.Message)
}
