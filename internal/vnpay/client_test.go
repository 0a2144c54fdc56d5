package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	c := New(Config{
		TmnCode:    "DEMOV210",
		HashSecret: testSecret,
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/vnpay/return",
	})
	c.now = func() time.Time {
		return time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)
	}
	return c
}

func TestNewRequest(t *testing.T) {
	c := testClient()

	req := c.NewRequest("order-1", 200, "127.0.0.1")

	assert.True(t, strings.HasPrefix(req.TxnRef, "order-1-"), "txn ref keeps the order id as prefix")
	assert.Equal(t, "order-1", OrderIDFromTxnRef(req.TxnRef))
	assert.Equal(t, int64(200), req.Amount)
	assert.Equal(t, "20240102150405", req.CreatedAt.Format(dateLayout))
	assert.Equal(t, 15*time.Minute, req.ExpiresAt.Sub(req.CreatedAt))
}

func TestPaymentURL(t *testing.T) {
	c := testClient()

	req := c.NewRequest("abc", 200, "127.0.0.1")
	paymentURL := c.PaymentURL(req)

	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)
	assert.Equal(t, "sandbox.vnpayment.vn", parsed.Host)

	q := parsed.Query()
	assert.Equal(t, "20000", q.Get("vnp_Amount"), "amount crosses the wire multiplied by 100")
	assert.Equal(t, "2.1.0", q.Get("vnp_Version"))
	assert.Equal(t, "pay", q.Get("vnp_Command"))
	assert.Equal(t, "DEMOV210", q.Get("vnp_TmnCode"))
	assert.Equal(t, "VND", q.Get("vnp_CurrCode"))
	assert.Equal(t, "vn", q.Get("vnp_Locale"))
	assert.Equal(t, "other", q.Get("vnp_OrderType"))
	assert.Equal(t, req.TxnRef, q.Get("vnp_TxnRef"))
	assert.Equal(t, "127.0.0.1", q.Get("vnp_IpAddr"))
	assert.Equal(t, "http://localhost:8080/vnpay/return", q.Get("vnp_ReturnUrl"))
	assert.Equal(t, "20240102150405", q.Get("vnp_CreateDate"))
	assert.Equal(t, "20240102151905", q.Get("vnp_ExpireDate"))
	assert.NotEmpty(t, q.Get("vnp_SecureHash"))
}

// Extracting the query parameters of a built URL and re-signing them must
// reproduce the hash embedded in the URL.
func TestPaymentURL_RoundTrip(t *testing.T) {
	c := testClient()

	paymentURL := c.PaymentURL(c.NewRequest("abc", 350000, "203.113.68.1"))
	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)

	q := parsed.Query()
	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}

	assert.Equal(t, q.Get("vnp_SecureHash"), Sign(testSecret, params))
}

func signedCallback(c *Client, overrides map[string]string) url.Values {
	params := map[string]string{
		"vnp_Amount":        "20000",
		"vnp_BankCode":      "NCB",
		"vnp_OrderInfo":     "Thanh toan don hang abc",
		"vnp_PayDate":       "20240102151000",
		"vnp_ResponseCode":  "00",
		"vnp_TmnCode":       "DEMOV210",
		"vnp_TransactionNo": "14217002",
		"vnp_TxnRef":        "abc-1704207845000",
	}
	for k, v := range overrides {
		params[k] = v
	}
	params["vnp_SecureHash"] = Sign(c.cfg.HashSecret, params)

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return values
}

func TestVerifyReturn_Success(t *testing.T) {
	c := testClient()

	ret, err := c.VerifyReturn(signedCallback(c, nil))
	require.NoError(t, err)

	assert.True(t, ret.Success())
	assert.Equal(t, "abc-1704207845000", ret.TxnRef)
	assert.Equal(t, "abc", ret.OrderID)
	assert.Equal(t, int64(200), ret.Amount, "vnp_Amount converts back to whole units")
	assert.Equal(t, "NCB", ret.BankCode)
	assert.Equal(t, "14217002", ret.TransactionNo)
	assert.Equal(t, "20240102151000", ret.PayDate)
}

func TestVerifyReturn_UserCancelled(t *testing.T) {
	c := testClient()

	ret, err := c.VerifyReturn(signedCallback(c, map[string]string{"vnp_ResponseCode": "24"}))
	require.NoError(t, err)

	assert.False(t, ret.Success())
	assert.Equal(t, "24", ret.ResponseCode)
}

func TestVerifyReturn_TamperedAmount(t *testing.T) {
	c := testClient()

	values := signedCallback(c, nil)
	values.Set("vnp_Amount", "10000") // one character changed by the caller

	_, err := c.VerifyReturn(values)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyReturn_MissingHash(t *testing.T) {
	c := testClient()

	values := signedCallback(c, nil)
	values.Del("vnp_SecureHash")

	_, err := c.VerifyReturn(values)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestOrderIDFromTxnRef(t *testing.T) {
	id := "0d9cf9b4-4c2e-4d7a-9df0-5a2e2a9b8f11"
	assert.Equal(t, id, OrderIDFromTxnRef(id+"-1704207845000"))
	assert.Equal(t, "plain", OrderIDFromTxnRef("plain"))
}
