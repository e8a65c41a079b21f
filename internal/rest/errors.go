package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"
	jsonres "myCourseCompass/pkg/response"
	"myCourseCompass/pkg/validation"

	"github.com/labstack/echo/v4"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", message, nil))
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", message, nil))
}

func validationFailed(c echo.Context, v *validation.Validator, err error) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("VALIDATION_ERROR", "Invalid request", v.Messages(err)))
}

// respondError maps service errors shared by all handlers onto a status.
// Anything it does not know becomes a 500 with fallback as the message.
func respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, placement.ErrInvalidInput),
		errors.Is(err, placement.ErrInsufficientSubjects),
		errors.Is(err, domain.ErrInvalidQuery):
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrInstitutionNotFound),
		errors.Is(err, domain.ErrGradeNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return c.JSON(http.StatusNotFound, jsonres.Error("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, domain.ErrPaymentRequired):
		return c.JSON(http.StatusPaymentRequired, jsonres.Error("PAYMENT_REQUIRED", err.Error(), nil))
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, jsonres.Error("TIMEOUT", "Request timed out", nil))
	}

	return c.JSON(http.StatusInternalServerError, jsonres.Error("INTERNAL_SERVER_ERROR", fallback, nil))
}

func currentUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}

func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
