package middleware

import (
	"context"
	"net/http"
	"time"

	"myCourseCompass/pkg/logger"
	jsonres "myCourseCompass/pkg/response"

	"github.com/labstack/echo/v4"
)

// PaymentChecker reports whether a user has paid for calculator access.
type PaymentChecker interface {
	HasPaid(ctx context.Context, userID uint) (bool, error)
}

// RequirePayment must run after an auth middleware. Admins are not gated.
func RequirePayment(checker PaymentChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get("user_id").(uint)
			if !ok {
				return unauthorized(c, "User not authenticated")
			}

			if isAdmin(c) {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			paid, err := checker.HasPaid(ctx, userID)
			if err != nil {
				logger.Error("Failed to check payment status", err)
				return c.JSON(http.StatusInternalServerError, jsonres.Error(
					"INTERNAL_SERVER_ERROR", "Failed to check payment status", nil,
				))
			}

			if !paid {
				return c.JSON(http.StatusPaymentRequired, jsonres.Error(
					"PAYMENT_REQUIRED", "Payment is required to use the calculator", nil,
				))
			}

			return next(c)
		}
	}
}
