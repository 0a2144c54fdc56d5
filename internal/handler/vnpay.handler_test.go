package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnshop/internal/domain"
	"vnshop/internal/service"
	"vnshop/internal/vnpay"
)

type fakePaymentService struct {
	url       string
	urlErr    error
	result    *service.ReturnResult
	resultErr error
}

func (f *fakePaymentService) CreatePaymentURL(context.Context, uuid.UUID, string) (string, error) {
	return f.url, f.urlErr
}

func (f *fakePaymentService) HandleReturn(context.Context, url.Values) (*service.ReturnResult, error) {
	return f.result, f.resultErr
}

func router(svc service.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVNPayHandler(svc)
	r := gin.New()
	r.GET("/vnpay/create-payment-url", h.CreatePaymentURL)
	r.GET("/vnpay/return", h.Return)
	return r
}

func get(t *testing.T, r *gin.Engine, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestCreatePaymentURLHandler(t *testing.T) {
	r := router(&fakePaymentService{url: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?x=1"})

	w, body := get(t, r, "/vnpay/create-payment-url?orderId="+uuid.NewString())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?x=1", body["paymentUrl"])
}

func TestCreatePaymentURLHandler_Errors(t *testing.T) {
	cases := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad order id", "/vnpay/create-payment-url?orderId=abc", nil, http.StatusBadRequest},
		{"unknown order", "/vnpay/create-payment-url?orderId=" + uuid.NewString(), domain.ErrOrderNotFound, http.StatusNotFound},
		{"settled order", "/vnpay/create-payment-url?orderId=" + uuid.NewString(), domain.ErrOrderSettled, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := router(&fakePaymentService{urlErr: tc.err})
			w, body := get(t, r, tc.target)
			assert.Equal(t, tc.want, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestReturnHandler(t *testing.T) {
	r := router(&fakePaymentService{result: &service.ReturnResult{
		Success: true,
		Code:    "00",
		Message: "Giao dich thanh cong",
	}})

	w, body := get(t, r, "/vnpay/return?vnp_ResponseCode=00")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "00", body["code"])
}

func TestReturnHandler_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid signature", vnpay.ErrInvalidSignature, http.StatusBadRequest},
		{"order gone", domain.ErrOrderNotFound, http.StatusNotFound},
		{"settled conflict", domain.ErrOrderSettled, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := router(&fakePaymentService{resultErr: tc.err})
			w, _ := get(t, r, "/vnpay/return?vnp_TxnRef=x")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
