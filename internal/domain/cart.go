package domain

import (
	"github.com/google/uuid"
)

// ProductRef is the priced product a cart line resolved to. A nil ProductRef
// on a line means the product is gone (deleted or never existed) and the cart
// cannot be priced.
type ProductRef struct {
	ID    uuid.UUID
	Title string
	Price int64
}

type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
	Product   *ProductRef
}

// CartSnapshot is the cart exactly as it stood when an order was created:
// lines with their resolved prices, frozen for total calculation.
type CartSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Lines  []CartLine
}

func (c *CartSnapshot) Empty() bool {
	return len(c.Lines) == 0
}

// Buyer is the user a cart belongs to, resolved when a payment confirmation
// needs to name who paid.
type Buyer struct {
	ID    uuid.UUID
	Name  string
	Email string
}
