package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.transactions (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     BIGINT REFERENCES users(id),
//     reference   TEXT UNIQUE NOT NULL,
//     amount      BIGINT NOT NULL,
//     currency    TEXT NOT NULL,
//     status      TEXT NOT NULL DEFAULT 'pending',
//     channel     TEXT,
//     metadata    JSONB,
//     paid_at     TIMESTAMPTZ,
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW()
// );

const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)

type Transaction struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint              `gorm:"column:user_id;not null;index" json:"user_id"`
	Reference string            `gorm:"column:reference;type:text;uniqueIndex;not null" json:"reference"`
	Amount    int64             `gorm:"column:amount;not null" json:"amount"`
	Currency  string            `gorm:"column:currency;type:text;not null" json:"currency"`
	Status    string            `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	Channel   string            `gorm:"column:channel;type:text" json:"channel,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	PaidAt    *time.Time        `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type PaymentInitialization struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

type PaymentStatus struct {
	HasPaid bool   `json:"has_paid"`
	Status  string `json:"status"`
}

type PaymentVerification struct {
	Transaction     Transaction `json:"transaction"`
	User            User        `json:"user"`
	AlreadyVerified bool        `json:"already_verified"`
}
