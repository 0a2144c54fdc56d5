package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"vnshop/internal/domain"
)

type CartRepo interface {
	// Snapshot loads a cart with its lines and their resolved products. A line
	// whose product has been deleted comes back with a nil Product; pricing
	// rejects such carts. Returns nil when the cart does not exist.
	Snapshot(ctx context.Context, cartID uuid.UUID) (*domain.CartSnapshot, error)
	// Buyer resolves the user a cart belongs to.
	Buyer(ctx context.Context, cartID uuid.UUID) (*domain.Buyer, error)
}

type cartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepo {
	return &cartRepo{db: db}
}

func (r *cartRepo) Snapshot(ctx context.Context, cartID uuid.UUID) (*domain.CartSnapshot, error) {
	var snap domain.CartSnapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id FROM carts WHERE id = $1 AND deleted_at IS NULL`, cartID,
	).Scan(&snap.ID, &snap.UserID)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT cl.product_id, cl.quantity, p.id, p.title, p.price
		 FROM cart_lines cl
		 LEFT JOIN products p ON p.id = cl.product_id AND p.deleted_at IS NULL
		 WHERE cl.cart_id = $1
		 ORDER BY cl.position`,
		cartID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var productID sql.Null[uuid.UUID]
		var title sql.NullString
		var price sql.NullInt64
		if err := rows.Scan(&line.ProductID, &line.Quantity, &productID, &title, &price); err != nil {
			return nil, err
		}
		if productID.Valid {
			line.Product = &domain.ProductRef{
				ID:    productID.V,
				Title: title.String,
				Price: price.Int64,
			}
		}
		snap.Lines = append(snap.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *cartRepo) Buyer(ctx context.Context, cartID uuid.UUID) (*domain.Buyer, error) {
	var buyer domain.Buyer
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.name, u.email
		 FROM carts c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = $1`,
		cartID,
	).Scan(&buyer.ID, &buyer.Name, &buyer.Email)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}
