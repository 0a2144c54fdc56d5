package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"vnshop/internal/domain"
	"vnshop/internal/pricing"
	"vnshop/internal/repo"
)

// uniqueViolation is the Postgres error code raised when the attempt key
// collides, i.e. a concurrent checkout already created the order.
const uniqueViolation = "23505"

type CreateOrderInput struct {
	CartID        uuid.UUID
	AttemptKey    uuid.UUID
	RushOrder     bool
	PaymentMethod domain.PaymentMethod
}

type OrderService interface {
	// CreateOrder snapshots the cart, prices it and persists the order in one
	// transaction. Calling it twice with the same attempt key returns the
	// order created by the first call instead of charging twice.
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, *domain.Buyer, error)
}

type orderService struct {
	db        *sql.DB
	orderRepo repo.OrderRepo
	cartRepo  repo.CartRepo
}

func NewOrderService(db *sql.DB, orderRepo repo.OrderRepo, cartRepo repo.CartRepo) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if existing, err := s.orderRepo.FindByAttemptKey(ctx, in.AttemptKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	cart, err := s.cartRepo.Snapshot(ctx, in.CartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	if cart.Empty() {
		return nil, domain.ErrEmptyCart
	}

	totalPrice, err := pricing.Total(cart, in.RushOrder)
	if err != nil {
		return nil, err
	}

	order := domain.NewOrder(in.CartID, in.AttemptKey, totalPrice, in.RushOrder, in.PaymentMethod)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		if isUniqueViolation(err) {
			// Lost the race on the attempt key; the winner's order is the one.
			return s.orderRepo.FindByAttemptKey(ctx, in.AttemptKey)
		}
		return nil, fmt.Errorf("creating order for cart %s: %w", in.CartID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, *domain.Buyer, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrOrderNotFound
	}
	buyer, err := s.cartRepo.Buyer(ctx, order.CartID)
	if err != nil {
		return nil, nil, err
	}
	return order, buyer, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
