package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	usersvc "myCourseCompass/business/user"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	jsonres "myCourseCompass/pkg/response"
	"myCourseCompass/pkg/validation"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, user *domain.User) (domain.User, error)
	Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error)
	RefreshToken(ctx context.Context, oldToken, ipAddress, userAgent string) (string, domain.User, error)
	Logout(ctx context.Context, userID uint, token string) error
	VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id uint, updateData *domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type UserHandler struct {
	userService UserService
	validate    *validation.Validator
	timeout     time.Duration
}

func NewUserHandler(userService UserService, validate *validation.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validate,
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,ke_phone"`
	IndexNumber string `json:"index_number" validate:"omitempty,kcse_index"`
	Password    string `json:"password" validate:"required,min=6"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	FullName    string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,ke_phone"`
	IndexNumber string `json:"index_number,omitempty" validate:"omitempty,kcse_index"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *UserHandler) userError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, usersvc.ErrEmailExists), errors.Is(err, usersvc.ErrIndexNumberExists):
		return c.JSON(http.StatusConflict, jsonres.Error("CONFLICT", err.Error(), nil))
	case errors.Is(err, usersvc.ErrInvalidCredentials), errors.Is(err, usersvc.ErrInvalidToken):
		return unauthorized(c, err.Error())
	case errors.Is(err, usersvc.ErrEmailNotVerified):
		return c.JSON(http.StatusForbidden, jsonres.Error("EMAIL_NOT_VERIFIED", err.Error(), nil))
	case errors.Is(err, usersvc.ErrInvalidLink):
		return c.JSON(http.StatusBadRequest, jsonres.Error("INVALID_LINK", err.Error(), nil))
	}
	return respondError(c, err, fallback)
}

func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return validationFailed(c, h.validate, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.Register(ctx, &domain.User{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		IndexNumber: optional(req.IndexNumber),
		Password:    req.Password,
	})
	if err != nil {
		logger.Error("Failed to register user", err)
		return h.userError(c, err, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(user))
}

func (h *UserHandler) Login(c echo.Context) error {
	var req UserLoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return validationFailed(c, h.validate, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, user, err := h.userService.Login(ctx, req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		logger.Warn("Failed login", "email", req.Email, "error", err)
		return h.userError(c, err, "Failed to login")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(authResponse{Token: token, User: user}))
}

func (h *UserHandler) Logout(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	token, ok := c.Get("token").(string)
	if !ok {
		logger.Error("Failed to get token from context")
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, userID, token); err != nil {
		logger.Error("Failed to logout user", err)
		return respondError(c, err, "Failed to logout")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Logout successful"))
}

func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return validationFailed(c, h.validate, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newToken, user, err := h.userService.RefreshToken(ctx, req.Token, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		logger.Warn("Failed to refresh token", err)
		return h.userError(c, err, "Failed to refresh token")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(authResponse{Token: newToken, User: user}))
}

func (h *UserHandler) VerifyEmail(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.VerifyEmail(ctx, c.Param("code")); err != nil {
		logger.Warn("Failed to verify email", err)
		return h.userError(c, err, "Failed to verify email")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Successfully verified email"))
}

// Me returns the logged in user.
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, uint(id))
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return respondError(c, err, "Failed to get users")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return validationFailed(c, h.validate, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.userService.UpdateUser(ctx, uint(id), &domain.User{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		IndexNumber: optional(req.IndexNumber),
		Password:    req.Password,
	})
	if err != nil {
		logger.Error("Failed to update user", err)
		return h.userError(c, err, "Failed to update user")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.DeleteUser(ctx, uint(id)); err != nil {
		logger.Error("Failed to delete user", err)
		return respondError(c, err, "Failed to delete user")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("User deleted successfully"))
}
