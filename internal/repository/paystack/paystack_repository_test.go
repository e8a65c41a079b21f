//go:build !integration

package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"myCourseCompass/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body domain.PaystackInitializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://app.example.com/payment/callback", body.CallbackURL)
		assert.Equal(t, int64(20000), body.Amount)

		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/x","access_code":"x","reference":"` + body.Reference + `"}}`))
	}))
	defer srv.Close()

	repo := NewPaystackRepository(PaystackConfig{SecretKey: "sk_test", BaseURL: srv.URL + "/", CallbackURL: "https://app.example.com/payment/callback"})

	res, err := repo.InitializeTransaction(context.Background(), domain.PaystackInitializeRequest{
		Email: "a@example.com", Amount: 20000, Currency: "KES", Reference: "TXN_1_ABCDEFGH",
	})
	require.NoError(t, err)
	assert.True(t, res.Status)
	assert.Equal(t, "https://checkout.paystack.com/x", res.Data.AuthorizationURL)
	assert.Equal(t, "TXN_1_ABCDEFGH", res.Data.Reference)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/TXN_1_ABCDEFGH", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","reference":"TXN_1_ABCDEFGH","amount":20000,"channel":"mobile_money","paid_at":"2024-03-01T10:00:00Z"}}`))
	}))
	defer srv.Close()

	repo := NewPaystackRepository(PaystackConfig{SecretKey: "sk_test", BaseURL: srv.URL})

	res, err := repo.VerifyTransaction(context.Background(), "TXN_1_ABCDEFGH")
	require.NoError(t, err)
	assert.Equal(t, "success", res.Data.Status)
	assert.Equal(t, "mobile_money", res.Data.Channel)
	require.NotNil(t, res.Data.PaidAt)
	assert.Equal(t, 2024, res.Data.PaidAt.Year())
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	repo := NewPaystackRepository(PaystackConfig{SecretKey: "bad", BaseURL: srv.URL})

	_, err := repo.VerifyTransaction(context.Background(), "TXN_1_ABCDEFGH")
	assert.ErrorContains(t, err, "401")
}
