package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"myCourseCompass/pkg/logger"
	jsonres "myCourseCompass/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers with the error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled error", "path", c.Path(), "trace_id", TraceIDFromContext(c.Request().Context()), "error", err)
	}

	errCode := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, jsonres.Error(errCode, message, nil))
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", writeErr)
	}
}
