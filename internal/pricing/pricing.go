// Package pricing computes order totals from cart snapshots.
//
// Totals are whole VND (int64); VND has no minor unit. Rush orders carry a
// flat 10% surcharge on top of the line total.
package pricing

import (
	"fmt"

	"vnshop/internal/domain"
)

// RushSurchargePercent is the expedited-handling surcharge applied to the
// cart total of a rush order.
const RushSurchargePercent = 10

// Total prices a cart snapshot. Every line must carry a resolved product and
// a positive quantity; otherwise the order cannot be created and
// domain.ErrDataIntegrity is returned.
func Total(cart *domain.CartSnapshot, rushOrder bool) (int64, error) {
	var total int64
	for _, line := range cart.Lines {
		if line.Product == nil {
			return 0, fmt.Errorf("product %s in cart %s: %w", line.ProductID, cart.ID, domain.ErrDataIntegrity)
		}
		if line.Quantity <= 0 || line.Product.Price < 0 {
			return 0, fmt.Errorf("product %s in cart %s has qty %d price %d: %w",
				line.ProductID, cart.ID, line.Quantity, line.Product.Price, domain.ErrDataIntegrity)
		}
		total += line.Product.Price * int64(line.Quantity)
	}

	if rushOrder {
		total += total * RushSurchargePercent / 100
	}
	return total, nil
}
