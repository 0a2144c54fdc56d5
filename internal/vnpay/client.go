// Package vnpay builds signed VNPay redirect URLs and verifies the callbacks
// the gateway answers with.
//
// The wire protocol is HMAC-SHA512 over a canonical query string (see
// Canonicalize). Amounts cross the wire as vnp_Amount = amount x 100 per the
// gateway convention; that multiplier is applied here and nowhere else.
package vnpay

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	version   = "2.1.0"
	command   = "pay"
	currCode  = "VND"
	orderType = "other"

	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"

	// amountMultiplier converts whole VND into the unit vnp_Amount is
	// expressed in.
	amountMultiplier = 100

	dateLayout = "20060102150405"
)

// Config carries the merchant credentials and endpoints. It is immutable
// after construction; build it once and hand it to New.
type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string // hosted payment page, e.g. https://sandbox.vnpayment.vn/paymentv2/vpcpay.html
	APIURL     string // merchant API endpoint used by querydr
	ReturnURL  string
	Locale     string
	ExpireIn   time.Duration
}

// Client signs outbound payment requests and verifies inbound returns for a
// single merchant configuration.
type Client struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Client {
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	if cfg.ExpireIn <= 0 {
		cfg.ExpireIn = 15 * time.Minute
	}
	return &Client{cfg: cfg, now: time.Now}
}

// PaymentRequest is the ephemeral input of one redirect URL. It is derived
// from an order at build time and never stored on the order itself.
type PaymentRequest struct {
	TxnRef    string
	OrderInfo string
	Amount    int64 // whole VND
	IPAddr    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewRequest derives a payment request for one attempt at paying an order.
// The transaction reference is the order id plus a millisecond suffix, so a
// retried checkout never reuses a reference the gateway has already seen.
func (c *Client) NewRequest(orderID string, amount int64, ipAddr string) PaymentRequest {
	now := c.now()
	return PaymentRequest{
		TxnRef:    fmt.Sprintf("%s-%d", orderID, now.UnixMilli()),
		OrderInfo: "Thanh toan don hang " + orderID,
		Amount:    amount,
		IPAddr:    ipAddr,
		CreatedAt: now,
		ExpiresAt: now.Add(c.cfg.ExpireIn),
	}
}

// PaymentURL renders the signed redirect URL for a request.
func (c *Client) PaymentURL(req PaymentRequest) string {
	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Locale":     c.cfg.Locale,
		"vnp_CurrCode":   currCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  orderType,
		"vnp_Amount":     strconv.FormatInt(req.Amount*amountMultiplier, 10),
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     req.IPAddr,
		"vnp_CreateDate": req.CreatedAt.Format(dateLayout),
		"vnp_ExpireDate": req.ExpiresAt.Format(dateLayout),
	}

	query := Canonicalize(params)
	signed := Sign(c.cfg.HashSecret, params)
	return c.cfg.PayURL + "?" + query + "&" + paramSecureHash + "=" + signed
}

// Return is a verified gateway callback.
type Return struct {
	TxnRef        string
	OrderID       string
	Amount        int64 // whole VND, converted back from vnp_Amount
	ResponseCode  string
	BankCode      string
	TransactionNo string
	PayDate       string
	OrderInfo     string
}

// Success reports whether the gateway confirmed the payment.
func (r Return) Success() bool {
	return r.ResponseCode == ResponseCodeSuccess
}

// VerifyReturn checks the secure hash of a callback query and extracts the
// result. The hash fields are excluded from the recomputation; a missing or
// mismatching hash yields ErrInvalidSignature and the callback must be
// discarded.
func (c *Client) VerifyReturn(query url.Values) (Return, error) {
	params := make(map[string]string, len(query))
	for k := range query {
		params[k] = query.Get(k)
	}

	secureHash := params[paramSecureHash]
	if secureHash == "" || !VerifySignature(c.cfg.HashSecret, params, secureHash) {
		return Return{}, ErrInvalidSignature
	}

	ret := Return{
		TxnRef:        params["vnp_TxnRef"],
		OrderID:       OrderIDFromTxnRef(params["vnp_TxnRef"]),
		ResponseCode:  params["vnp_ResponseCode"],
		BankCode:      params["vnp_BankCode"],
		TransactionNo: params["vnp_TransactionNo"],
		PayDate:       params["vnp_PayDate"],
		OrderInfo:     params["vnp_OrderInfo"],
	}
	if raw := params["vnp_Amount"]; raw != "" {
		minor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Return{}, fmt.Errorf("parsing vnp_Amount %q: %w", raw, err)
		}
		ret.Amount = minor / amountMultiplier
	}
	return ret, nil
}

// OrderIDFromTxnRef strips the per-attempt suffix appended by NewRequest.
func OrderIDFromTxnRef(txnRef string) string {
	i := strings.LastIndexByte(txnRef, '-')
	if i <= 0 {
		return txnRef
	}
	return txnRef[:i]
}
