package domain

import "time"

type PaystackInitializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type PaystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type PaystackTransactionData struct {
	ID        int64          `json:"id"`
	Status    string         `json:"status"`
	Reference string         `json:"reference"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	Channel   string         `json:"channel"`
	PaidAt    *time.Time     `json:"paid_at"`
	Metadata  map[string]any `json:"metadata"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type PaystackVerifyResponse struct {
	Status  bool                    `json:"status"`
	Message string                  `json:"message"`
	Data    PaystackTransactionData `json:"data"`
}

type PaystackWebhookEvent struct {
	Event string                  `json:"event"`
	Data  PaystackTransactionData `json:"data"`
}
