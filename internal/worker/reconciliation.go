package worker

import (
	"context"
	"log"
	"time"

	"vnshop/internal/domain"
	"vnshop/internal/gateway"
	"vnshop/internal/repo"
)

// ReconciliationWorker sweeps gateway orders that stayed pending past their
// payment expiry. A return callback the browser never delivered (closed tab,
// dropped redirect) leaves the order stuck; the worker asks the gateway for
// the real outcome and settles the order the same way the return handler
// would have.
type ReconciliationWorker struct {
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	checker     gateway.TransactionChecker
	expiry      time.Duration
	interval    time.Duration
}

func NewReconciliationWorker(
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	checker gateway.TransactionChecker,
	expiry time.Duration,
	interval time.Duration,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		checker:     checker,
		expiry:      expiry,
		interval:    interval,
	}
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	log.Println("Reconciliation worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.Process(ctx); err != nil {
				log.Printf("Reconciliation failed: %v", err)
			}
		}
	}
}

// Process settles every expired pending gateway order once.
func (rw *ReconciliationWorker) Process(ctx context.Context) error {
	stuckOrders, err := rw.orderRepo.FindExpiredPending(ctx, rw.expiry)
	if err != nil {
		return err
	}
	if len(stuckOrders) == 0 {
		return nil
	}

	log.Printf("Found %d stuck orders, settling", len(stuckOrders))

	for _, order := range stuckOrders {
		if err := rw.settle(ctx, &order); err != nil {
			log.Printf("Failed to settle order %s: %v", order.ID, err)
			// Leave it for the next sweep.
		}
	}
	return nil
}

func (rw *ReconciliationWorker) settle(ctx context.Context, order *domain.Order) error {
	attempt, err := rw.paymentRepo.LatestByOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	// No attempt means the buyer never got a redirect URL; nothing to ask the
	// gateway about.
	status := domain.OrderFailed
	if attempt != nil {
		isPaid, err := rw.checker.CheckTransaction(ctx, attempt)
		if err != nil {
			return err
		}
		if isPaid {
			status = domain.OrderPaid
			log.Printf("Order %s was paid at the gateway but never confirmed, fixing to paid", order.ID)
		} else {
			log.Printf("Order %s expired unpaid, fixing to failed", order.ID)
		}
	}

	applied, err := rw.orderRepo.SettleFromPending(ctx, order.ID, status)
	if err != nil {
		return err
	}
	if !applied {
		// A late return callback won; its outcome stands.
		return nil
	}

	if attempt != nil {
		attemptStatus := domain.PaymentFailed
		if status == domain.OrderPaid {
			attemptStatus = domain.PaymentSucceeded
		}
		if err := rw.paymentRepo.UpdateStatus(ctx, attempt.TxnRef, attemptStatus); err != nil {
			log.Printf("updating payment attempt %s: %v", attempt.TxnRef, err)
		}
	}
	return nil
}
