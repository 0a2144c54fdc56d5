// Package gateway calls the VNPay merchant API. The redirect flow itself
// never goes through here; this client exists so reconciliation can ask the
// gateway what really happened to an attempt the return callback never
// settled.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"vnshop/internal/domain"
	"vnshop/internal/vnpay"
)

// TransactionChecker answers whether the gateway collected money for an
// attempt.
type TransactionChecker interface {
	CheckTransaction(ctx context.Context, attempt *domain.PaymentAttempt) (bool, error)
}

type Client struct {
	http *resty.Client
	cfg  vnpay.Config
}

func NewClient(cfg vnpay.Config) *Client {
	return &Client{
		http: resty.New().SetTimeout(10 * time.Second),
		cfg:  cfg,
	}
}

type queryRequest struct {
	RequestID       string `json:"vnp_RequestId"`
	Version         string `json:"vnp_Version"`
	Command         string `json:"vnp_Command"`
	TmnCode         string `json:"vnp_TmnCode"`
	TxnRef          string `json:"vnp_TxnRef"`
	OrderInfo       string `json:"vnp_OrderInfo"`
	TransactionDate string `json:"vnp_TransactionDate"`
	CreateDate      string `json:"vnp_CreateDate"`
	IPAddr          string `json:"vnp_IpAddr"`
	SecureHash      string `json:"vnp_SecureHash"`
}

type queryResponse struct {
	ResponseCode      string `json:"vnp_ResponseCode"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	Amount            string `json:"vnp_Amount"`
	Message           string `json:"vnp_Message"`
}

// CheckTransaction issues a querydr call for the attempt's transaction
// reference. It returns true when the gateway holds a successful transaction
// for it, false when the gateway is sure none exists or it failed.
func (c *Client) CheckTransaction(ctx context.Context, attempt *domain.PaymentAttempt) (bool, error) {
	const dateLayout = "20060102150405"

	req := queryRequest{
		RequestID:       uuid.NewString(),
		Version:         "2.1.0",
		Command:         "querydr",
		TmnCode:         c.cfg.TmnCode,
		TxnRef:          attempt.TxnRef,
		OrderInfo:       "Doi soat giao dich " + attempt.TxnRef,
		TransactionDate: attempt.CreatedAt.Format(dateLayout),
		CreateDate:      time.Now().Format(dateLayout),
		IPAddr:          "127.0.0.1",
	}
	req.SecureHash = c.sign(req)

	var res queryResponse
	httpRes, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&res).
		Post(c.cfg.APIURL)
	if err != nil {
		return false, fmt.Errorf("querydr %s: %w", attempt.TxnRef, err)
	}
	if httpRes.IsError() {
		return false, fmt.Errorf("querydr %s: http %d", attempt.TxnRef, httpRes.StatusCode())
	}
	if res.ResponseCode != "00" {
		return false, fmt.Errorf("querydr %s: gateway code %s (%s)", attempt.TxnRef, res.ResponseCode, res.Message)
	}

	if res.TransactionStatus != "00" {
		return false, nil
	}
	// Never trust an amount mismatch as a successful payment.
	if minor, err := strconv.ParseInt(res.Amount, 10, 64); err == nil && minor/100 != attempt.Amount {
		return false, fmt.Errorf("querydr %s: amount mismatch, gateway %d expected %d", attempt.TxnRef, minor/100, attempt.Amount)
	}
	return true, nil
}

// sign computes the querydr checksum: HMAC-SHA512 over the request fields
// joined by '|' in the order the merchant API defines.
func (c *Client) sign(req queryRequest) string {
	data := strings.Join([]string{
		req.RequestID,
		req.Version,
		req.Command,
		req.TmnCode,
		req.TxnRef,
		req.TransactionDate,
		req.CreateDate,
		req.IPAddr,
		req.OrderInfo,
	}, "|")

	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
