package service

import (
	"context"
	"log"
	"net/url"

	"github.com/google/uuid"

	"vnshop/internal/domain"
	"vnshop/internal/repo"
	"vnshop/internal/vnpay"
)

// PaymentConfirmation is the payload returned for a settled payment: the
// order, who paid, and what the gateway reported.
type PaymentConfirmation struct {
	OrderID       uuid.UUID            `json:"orderId"`
	BuyerName     string               `json:"buyerName,omitempty"`
	BuyerEmail    string               `json:"buyerEmail,omitempty"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Amount        int64                `json:"amount"`
	TxnRef        string               `json:"txnRef"`
	BankCode      string               `json:"bankCode,omitempty"`
	TransactionNo string               `json:"transactionNo,omitempty"`
	PayDate       string               `json:"payDate,omitempty"`
}

// ReturnResult is the structured outcome handed back to the client after a
// gateway callback has been verified and applied.
type ReturnResult struct {
	Success bool                 `json:"success"`
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Data    *PaymentConfirmation `json:"data,omitempty"`
}

type PaymentService interface {
	// CreatePaymentURL builds a signed redirect URL for a pending gateway
	// order and records the attempt.
	CreatePaymentURL(ctx context.Context, orderID uuid.UUID, clientIP string) (string, error)
	// HandleReturn verifies a gateway callback and settles the referenced
	// order. Replays of an already-applied outcome succeed without writing.
	HandleReturn(ctx context.Context, query url.Values) (*ReturnResult, error)
}

type paymentService struct {
	gateway     *vnpay.Client
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	cartRepo    repo.CartRepo
}

func NewPaymentService(
	gateway *vnpay.Client,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	cartRepo repo.CartRepo,
) PaymentService {
	return &paymentService{
		gateway:     gateway,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
	}
}

func (s *paymentService) CreatePaymentURL(ctx context.Context, orderID uuid.UUID, clientIP string) (string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", domain.ErrOrderNotFound
	}
	if order.Settled() {
		return "", domain.ErrOrderSettled
	}

	req := s.gateway.NewRequest(order.ID.String(), order.TotalPrice, clientIP)

	attempt := domain.NewPaymentAttempt(order.ID, req.TxnRef, req.Amount, req.CreatedAt, req.ExpiresAt)
	if err := s.paymentRepo.Create(ctx, attempt); err != nil {
		return "", err
	}

	return s.gateway.PaymentURL(req), nil
}

func (s *paymentService) HandleReturn(ctx context.Context, query url.Values) (*ReturnResult, error) {
	ret, err := s.gateway.VerifyReturn(query)
	if err != nil {
		// Possible tampering; leave every order untouched.
		log.Printf("rejected gateway callback for txn %q: %v", query.Get("vnp_TxnRef"), err)
		return nil, err
	}

	orderID, err := uuid.Parse(ret.OrderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	target := domain.OrderFailed
	attemptStatus := domain.PaymentFailed
	if ret.Success() {
		target = domain.OrderPaid
		attemptStatus = domain.PaymentSucceeded
	}

	switch {
	case order.Status == target:
		// Gateway retry of an outcome already applied; answer the same way.
	case order.Settled():
		return nil, domain.ErrOrderSettled
	default:
		applied, err := s.orderRepo.SettleFromPending(ctx, order.ID, target)
		if err != nil {
			return nil, err
		}
		if !applied {
			// Raced with another callback; re-read and re-judge.
			order, err = s.orderRepo.FindByID(ctx, order.ID)
			if err != nil {
				return nil, err
			}
			if order == nil || order.Status != target {
				return nil, domain.ErrOrderSettled
			}
		} else {
			order.Status = target
		}
		if err := s.paymentRepo.UpdateStatus(ctx, ret.TxnRef, attemptStatus); err != nil {
			log.Printf("updating payment attempt %s: %v", ret.TxnRef, err)
		}
	}

	if !ret.Success() {
		gerr := &domain.GatewayError{Code: ret.ResponseCode, Message: vnpay.ResponseMessage(ret.ResponseCode)}
		return &ReturnResult{
			Success: false,
			Code:    gerr.Code,
			Message: gerr.Message,
		}, nil
	}

	confirmation := &PaymentConfirmation{
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		Amount:        ret.Amount,
		TxnRef:        ret.TxnRef,
		BankCode:      ret.BankCode,
		TransactionNo: ret.TransactionNo,
		PayDate:       ret.PayDate,
	}
	if buyer, err := s.cartRepo.Buyer(ctx, order.CartID); err == nil && buyer != nil {
		confirmation.BuyerName = buyer.Name
		confirmation.BuyerEmail = buyer.Email
	}

	return &ReturnResult{
		Success: true,
		Code:    ret.ResponseCode,
		Message: vnpay.ResponseMessage(ret.ResponseCode),
		Data:    confirmation,
	}, nil
}
