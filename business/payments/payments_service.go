package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/metrics"
	"myCourseCompass/pkg/utils"
)

const (
	EventChargeSuccess = "charge.success"

	paystackSuccess   = "success"
	paystackFailed    = "failed"
	paystackAbandoned = "abandoned"

	SubjectPaymentReceived   = "Payment Received - Course Compass"
	EmailBodyPaymentReceived = `Hello %v,</br></br>We have received your payment of %v %.2f (reference %v).</br>You now have full access to eligibility checks, cluster points and course recommendations.`
)

var (
	ErrAlreadyPaid      = errors.New("account access has already been paid for")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrGateway          = errors.New("payment gateway error")
)

// TransactionRepository contract interface
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	FindByReference(ctx context.Context, reference string) (domain.Transaction, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, reference, status, channel string, paidAt *time.Time) error
}

// PaymentGateway contract interface
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req domain.PaystackInitializeRequest) (domain.PaystackInitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (domain.PaystackVerifyResponse, error)
}

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByIndexNumber(ctx context.Context, indexNumber string) (domain.User, error)
	UpdatePaymentStatus(ctx context.Context, id uint, paid bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type Config struct {
	SecretKey string
	Currency  string
	// smallest currency unit
	AccessFee int64
}

type paymentsService struct {
	transactionRepo TransactionRepository
	gateway         PaymentGateway
	userRepo        UserRepository
	notifRepo       NotificationRepository
	cfg             Config
}

func NewPaymentsService(
	transactionRepo TransactionRepository,
	gateway PaymentGateway,
	userRepo UserRepository,
	notifRepo NotificationRepository,
	cfg Config,
) *paymentsService {
	return &paymentsService{
		transactionRepo: transactionRepo,
		gateway:         gateway,
		userRepo:        userRepo,
		notifRepo:       notifRepo,
		cfg:             cfg,
	}
}

func (s *paymentsService) InitializePayment(ctx context.Context, userID uint) (domain.PaymentInitialization, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("User not found for payment", err)
		return domain.PaymentInitialization{}, err
	}

	if user.PaymentStatus {
		return domain.PaymentInitialization{}, ErrAlreadyPaid
	}

	txn := domain.Transaction{
		UserID:    user.ID,
		Reference: utils.GenerateTransactionReference(),
		Amount:    s.cfg.AccessFee,
		Currency:  s.cfg.Currency,
		Status:    domain.TransactionPending,
		Metadata: map[string]any{
			"purpose": "calculator_access",
			"email":   user.Email,
		},
	}

	if err := s.transactionRepo.Create(ctx, &txn); err != nil {
		logger.Error("Failed to create transaction", err)
		return domain.PaymentInitialization{}, err
	}

	res, err := s.gateway.InitializeTransaction(ctx, domain.PaystackInitializeRequest{
		Email:     user.Email,
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		Reference: txn.Reference,
		Metadata: map[string]any{
			"user_id":   user.ID,
			"full_name": user.FullName,
		},
	})
	if err != nil || !res.Status {
		logger.Error("Failed to initialize payment", "reference", txn.Reference, "error", err, "message", res.Message)
		if uerr := s.transactionRepo.UpdateStatus(ctx, txn.Reference, domain.TransactionFailed, "", nil); uerr != nil {
			logger.Error("Failed to mark transaction failed", uerr)
		}
		return domain.PaymentInitialization{}, fmt.Errorf("%w: could not initialize payment", ErrGateway)
	}

	return domain.PaymentInitialization{
		Reference:        txn.Reference,
		AuthorizationURL: res.Data.AuthorizationURL,
		AccessCode:       res.Data.AccessCode,
	}, nil
}

// VerifyPayment asks the gateway about a reference. A transaction that is
// already completed is returned as is.
func (s *paymentsService) VerifyPayment(ctx context.Context, userID uint, reference string) (domain.PaymentVerification, error) {
	txn, err := s.transactionRepo.FindByReference(ctx, reference)
	if err != nil {
		logger.Error("Transaction not found", err)
		return domain.PaymentVerification{}, err
	}

	if txn.UserID != userID {
		return domain.PaymentVerification{}, domain.ErrTransactionNotFound
	}

	user, err := s.userRepo.FindByID(ctx, txn.UserID)
	if err != nil {
		logger.Error("User not found for transaction", err)
		return domain.PaymentVerification{}, err
	}
	user.Password = ""

	if txn.Status == domain.TransactionCompleted {
		return domain.PaymentVerification{Transaction: txn, User: user, AlreadyVerified: true}, nil
	}

	res, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		logger.Error("Failed to verify payment", err)
		return domain.PaymentVerification{}, fmt.Errorf("%w: could not verify payment", ErrGateway)
	}

	switch res.Data.Status {
	case paystackSuccess:
		txn, err = s.complete(ctx, txn, user, res.Data)
		if err != nil {
			return domain.PaymentVerification{}, err
		}
		user.PaymentStatus = true
	case paystackFailed, paystackAbandoned:
		if err := s.transactionRepo.UpdateStatus(ctx, reference, domain.TransactionFailed, res.Data.Channel, nil); err != nil {
			logger.Error("Failed to mark transaction failed", err)
			return domain.PaymentVerification{}, err
		}
		txn.Status = domain.TransactionFailed
	}

	return domain.PaymentVerification{Transaction: txn, User: user}, nil
}

func (s *paymentsService) complete(ctx context.Context, txn domain.Transaction, user domain.User, data domain.PaystackTransactionData) (domain.Transaction, error) {
	paidAt := time.Now()
	if data.PaidAt != nil {
		paidAt = *data.PaidAt
	}

	if err := s.transactionRepo.UpdateStatus(ctx, txn.Reference, domain.TransactionCompleted, data.Channel, &paidAt); err != nil {
		logger.Error("Failed to complete transaction", err)
		return domain.Transaction{}, err
	}

	if err := s.userRepo.UpdatePaymentStatus(ctx, user.ID, true); err != nil {
		logger.Error("Failed to update user payment status", err)
		return domain.Transaction{}, err
	}

	txn.Status = domain.TransactionCompleted
	txn.Channel = data.Channel
	txn.PaidAt = &paidAt

	body := fmt.Sprintf(EmailBodyPaymentReceived, user.FullName, txn.Currency, float64(txn.Amount)/100, txn.Reference)
	if err := s.notifRepo.SendEmail(user.FullName, user.Email, SubjectPaymentReceived, body); err != nil {
		logger.Warn("Failed to send payment confirmation email", err)
	}

	logger.Info("Payment completed", "reference", txn.Reference, "user_id", user.ID)
	return txn, nil
}

// ValidSignature checks the hex HMAC-SHA512 of the raw body against the
// x-paystack-signature header.
func (s *paymentsService) ValidSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(s.cfg.SecretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// HandleWebhook processes a signed gateway event. Events for unknown or already
// completed references are acknowledged without changes.
func (s *paymentsService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.ValidSignature(payload, signature) {
		metrics.PaymentWebhookEvents.WithLabelValues("invalid_signature").Inc()
		return ErrInvalidSignature
	}

	var event domain.PaystackWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode webhook event: %w", err)
	}
	metrics.PaymentWebhookEvents.WithLabelValues(event.Event).Inc()

	if event.Event != EventChargeSuccess {
		logger.Info("Ignoring webhook event", "event", event.Event)
		return nil
	}

	txn, err := s.transactionRepo.FindByReference(ctx, event.Data.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			logger.Warn("Webhook for unknown reference", "reference", event.Data.Reference)
			return nil
		}
		return err
	}

	if txn.Status == domain.TransactionCompleted {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, txn.UserID)
	if err != nil {
		logger.Error("User not found for webhook", err)
		return err
	}

	_, err = s.complete(ctx, txn, user, event.Data)
	return err
}

func (s *paymentsService) HasPaid(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	return user.PaymentStatus, nil
}

func (s *paymentsService) GetPaymentStatus(ctx context.Context, userID uint) (domain.PaymentStatus, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("User not found for payment status", err)
		return domain.PaymentStatus{}, err
	}

	return s.statusOf(ctx, user)
}

func (s *paymentsService) statusOf(ctx context.Context, user domain.User) (domain.PaymentStatus, error) {
	if user.PaymentStatus {
		return domain.PaymentStatus{HasPaid: true, Status: domain.TransactionCompleted}, nil
	}

	txns, err := s.transactionRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to get user transactions", err)
		return domain.PaymentStatus{}, err
	}

	// newest first
	status := "none"
	if len(txns) > 0 {
		status = txns[0].Status
	}

	return domain.PaymentStatus{HasPaid: false, Status: status}, nil
}

func (s *paymentsService) GetUserTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user transactions", err)
		return nil, err
	}

	return txns, nil
}

// VerifyExistingPayment lets a returning candidate confirm an earlier payment
// with their index number and email.
func (s *paymentsService) VerifyExistingPayment(ctx context.Context, indexNumber, email string) (domain.PaymentStatus, error) {
	user, err := s.userRepo.FindByIndexNumber(ctx, indexNumber)
	if err != nil {
		logger.Error("User not found by index number", err)
		return domain.PaymentStatus{}, err
	}

	if !strings.EqualFold(user.Email, email) {
		return domain.PaymentStatus{}, domain.ErrUserNotFound
	}

	return s.statusOf(ctx, user)
}
