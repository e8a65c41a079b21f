package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"myCourseCompass/domain"
)

type PaystackConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
}

type PaystackRepository struct {
	paystackConfig PaystackConfig
	client         *http.Client
}

func NewPaystackRepository(cfg PaystackConfig) *PaystackRepository {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &PaystackRepository{
		paystackConfig: cfg,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *PaystackRepository) do(ctx context.Context, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal paystack payload: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.paystackConfig.BaseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.paystackConfig.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read paystack response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("paystack returned status %d: %s", res.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode paystack response: %w", err)
	}

	return nil
}

func (r *PaystackRepository) InitializeTransaction(ctx context.Context, req domain.PaystackInitializeRequest) (domain.PaystackInitializeResponse, error) {
	if req.CallbackURL == "" {
		req.CallbackURL = r.paystackConfig.CallbackURL
	}

	var res domain.PaystackInitializeResponse
	if err := r.do(ctx, http.MethodPost, "/transaction/initialize", req, &res); err != nil {
		return domain.PaystackInitializeResponse{}, err
	}

	return res, nil
}

func (r *PaystackRepository) VerifyTransaction(ctx context.Context, reference string) (domain.PaystackVerifyResponse, error) {
	var res domain.PaystackVerifyResponse
	if err := r.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &res); err != nil {
		return domain.PaystackVerifyResponse{}, err
	}

	return res, nil
}
