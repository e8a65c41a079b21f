package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myCourseCompass/pkg/logger"
	jsonres "myCourseCompass/pkg/response"
	"myCourseCompass/pkg/utils"

	"github.com/labstack/echo/v4"
)

const RoleAdmin = "admin"

// TokenValidator checks that a token is still active in the token store.
type TokenValidator interface {
	ValidateTokenFromRedis(ctx context.Context, token string) (string, error)
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, jsonres.Error("UNAUTHORIZED", message, nil))
}

func forbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, jsonres.Error("FORBIDDEN", message, nil))
}

// bearerClaims pulls the bearer token out of the request and parses it. On
// failure the response has already been written and ok is false.
func bearerClaims(c echo.Context) (token string, claims *utils.Claims, ok bool, err error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", nil, false, unauthorized(c, "Missing authorization header")
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", nil, false, unauthorized(c, "Invalid authorization format")
	}

	claims, perr := utils.ParseJWT(token)
	if perr != nil {
		logger.Debug("Failed to parse JWT", perr)
		return "", nil, false, unauthorized(c, "Invalid token")
	}

	expAt, perr := claims.GetExpirationTime()
	if perr != nil || expAt == nil || time.Now().After(expAt.Time) {
		return "", nil, false, forbidden(c, "Token expired")
	}

	return token, claims, true, nil
}

func setIdentity(c echo.Context, token string, claims *utils.Claims) error {
	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		logger.Error("Invalid user ID in token", err)
		return forbidden(c, "Invalid user ID in token")
	}

	c.Set("user_id", uint(userID))
	c.Set("role", claims.Role)
	c.Set("token", token)
	return nil
}

// AuthMiddleware checks the JWT only.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, claims, ok, err := bearerClaims(c)
			if !ok {
				return err
			}

			if err := setIdentity(c, token, claims); err != nil || c.Response().Committed {
				return err
			}

			return next(c)
		}
	}
}

// AuthMiddlewareWithRedis also requires the token to be active in Redis, so
// logged out tokens stop working before they expire.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, claims, ok, err := bearerClaims(c)
			if !ok {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, verr := tokenValidator.ValidateTokenFromRedis(ctx, token)
			if verr != nil {
				logger.Warn("Token not found in Redis", verr)
				return unauthorized(c, "Token expired or invalid")
			}

			if userID != claims.UserID {
				logger.Error("UserID mismatch between JWT and Redis")
				return unauthorized(c, "Invalid token")
			}

			if err := setIdentity(c, token, claims); err != nil || c.Response().Committed {
				return err
			}

			return next(c)
		}
	}
}

func isAdmin(c echo.Context) bool {
	role, ok := c.Get("role").(string)
	return ok && strings.EqualFold(role, RoleAdmin)
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isAdmin(c) {
				return forbidden(c, "Admin access required")
			}

			return next(c)
		}
	}
}

// SelfOrAdmin lets admins through and limits everyone else to the :id in the path.
func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loggedInUserID, ok := c.Get("user_id").(uint)
			if !ok {
				return unauthorized(c, "User not authenticated")
			}

			if isAdmin(c) {
				return next(c)
			}

			requestedID, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, jsonres.Error(
					"BAD_REQUEST", "Invalid user ID", nil,
				))
			}

			if uint(requestedID) != loggedInUserID {
				return forbidden(c, "You can only access your own data")
			}

			return next(c)
		}
	}
}
