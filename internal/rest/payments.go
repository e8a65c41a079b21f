package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	paymentsvc "myCourseCompass/business/payments"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	jsonres "myCourseCompass/pkg/response"
	"myCourseCompass/pkg/validation"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

const (
	PaystackSignatureHeader = "x-paystack-signature"

	maxWebhookBody = 1 << 20
)

type (
	PaymentsHandler struct {
		validate        *validation.Validator
		paymentsService PaymentsService
		timeout         time.Duration
	}

	PaymentsService interface {
		InitializePayment(ctx context.Context, userID uint) (domain.PaymentInitialization, error)
		VerifyPayment(ctx context.Context, userID uint, reference string) (domain.PaymentVerification, error)
		HandleWebhook(ctx context.Context, payload []byte, signature string) error
		GetPaymentStatus(ctx context.Context, userID uint) (domain.PaymentStatus, error)
		GetUserTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error)
		VerifyExistingPayment(ctx context.Context, indexNumber, email string) (domain.PaymentStatus, error)
	}

	VerifyExistingInput struct {
		IndexNumber string `json:"index_number" validate:"required,kcse_index"`
		Email       string `json:"email" validate:"required,email"`
	}
)

func NewPaymentsHandler(paymentsService PaymentsService, validate *validation.Validator) *PaymentsHandler {
	return &PaymentsHandler{
		validate:        validate,
		paymentsService: paymentsService,
		timeout:         20 * time.Second,
	}
}

func (h *PaymentsHandler) paymentError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, paymentsvc.ErrAlreadyPaid):
		return c.JSON(http.StatusConflict, jsonres.Error("ALREADY_PAID", err.Error(), nil))
	case errors.Is(err, paymentsvc.ErrGateway):
		return c.JSON(http.StatusBadGateway, jsonres.Error("PAYMENT_GATEWAY_ERROR", err.Error(), nil))
	}
	return respondError(c, err, fallback)
}

func (h *PaymentsHandler) InitializePayment(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.InitializePayment(ctx, userID)
	if err != nil {
		logger.Error("Failed to initialize payment", err)
		return h.paymentError(c, err, "Failed to initialize payment")
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(payment))
}

func (h *PaymentsHandler) VerifyPayment(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	reference := c.Param("reference")
	if reference == "" {
		return badRequest(c, "reference is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	verification, err := h.paymentsService.VerifyPayment(ctx, userID, reference)
	if err != nil {
		logger.Error("Failed to verify payment", err)
		return h.paymentError(c, err, "Failed to verify payment")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(verification))
}

func (h *PaymentsHandler) GetPaymentStatus(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status, err := h.paymentsService.GetPaymentStatus(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to get payment status")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(status))
}

func (h *PaymentsHandler) GetUserTransactions(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	txns, err := h.paymentsService.GetUserTransactions(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to get transactions")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(txns))
}

func (h *PaymentsHandler) VerifyExistingPayment(c echo.Context) error {
	var request VerifyExistingInput
	if err := c.Bind(&request); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		return validationFailed(c, h.validate, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status, err := h.paymentsService.VerifyExistingPayment(ctx, request.IndexNumber, request.Email)
	if err != nil {
		return respondError(c, err, "Failed to verify payment")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(status))
}

// HandleWebhook receives Paystack events. The raw body is needed for the
// signature check, so it is read directly instead of bound. Signed, parseable
// events are always acknowledged; processing failures are only logged.
func (h *PaymentsHandler) HandleWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		logger.Error("Failed to read webhook body", err)
		return badRequest(c, "Invalid request")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err = h.paymentsService.HandleWebhook(ctx, payload, c.Request().Header.Get(PaystackSignatureHeader))
	switch {
	case errors.Is(err, paymentsvc.ErrInvalidSignature):
		logger.Warn("Rejected webhook with invalid signature", "ip", c.RealIP())
		return unauthorized(c, "Invalid signature")
	case err != nil && !json.Valid(payload):
		return badRequest(c, "Invalid request")
	case err != nil:
		logger.Error("Failed to process webhook", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
}
