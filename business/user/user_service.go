package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/utils"
	"myCourseCompass/pkg/validation"

	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByIndexNumber(ctx context.Context, indexNumber string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
}

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, userID, token string, session domain.TokenSession, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, userID, token string) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type userService struct {
	userRepo                UserRepository
	tokenRepo               TokenRepository
	validate                *validation.Validator
	notifRepo               NotificationRepository
	appEmailVerificationKey string
	appDeploymentUrl        string
}

const (
	verificationCodeTTL      = 5
	SubjectRegisterAccount   = "Activate Your Course Compass Account"
	EmailBodyRegisterAccount = `Hello %v, activate your account by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address has not been verified")
	ErrEmailExists        = errors.New("email already exists")
	ErrIndexNumberExists  = errors.New("index number already registered")
	ErrInvalidLink        = errors.New("invalid or expired url")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

func NewUserService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	validate *validation.Validator,
	notifRepo NotificationRepository,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		tokenRepo:               tokenRepo,
		validate:                validate,
		notifRepo:               notifRepo,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var validRoles = map[string]bool{
	RoleStudent: true,
	RoleAdmin:   true,
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	if err := s.validate.Var(user.Phone, "required,ke_phone"); err != nil {
		logger.Error("Invalid phone number", err)
		return domain.User{}, errors.New("invalid phone number")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, ErrEmailExists
	}

	if user.IndexNumber != nil && *user.IndexNumber != "" {
		if err := s.validate.Var(*user.IndexNumber, "kcse_index"); err != nil {
			logger.Error("Invalid index number", err)
			return domain.User{}, errors.New("invalid index number")
		}
		if existing, err := s.userRepo.FindByIndexNumber(ctx, *user.IndexNumber); err == nil && existing.ID > 0 {
			logger.Error("Index number already registered")
			return domain.User{}, ErrIndexNumberExists
		}
	} else {
		user.IndexNumber = nil
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName:    user.FullName,
		Email:       user.Email,
		Phone:       user.Phone,
		IndexNumber: user.IndexNumber,
		Password:    string(passwordHash),
		IsVerified:  false,
		Role:        RoleStudent,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	activationLink, err := s.activationLink(newUser.Email)
	if err != nil {
		logger.Error("Failed to build activation link", err)
	} else {
		err = s.notifRepo.SendEmail(newUser.FullName, newUser.Email, SubjectRegisterAccount, fmt.Sprintf(EmailBodyRegisterAccount, newUser.FullName, activationLink, verificationCodeTTL))
		if err != nil {
			logger.Warn("Failed to send verification email", err)
		}
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) activationLink(email string) (string, error) {
	expAt := time.Now().Add(verificationCodeTTL * time.Minute).Unix()

	verificationCode := fmt.Sprintf("%v|%v", email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt verification code: %w", err)
	}

	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	return s.appDeploymentUrl + "/api/v1/users/email-verification/" + strEncode, nil
}

// issueToken signs a JWT and records it in the token store.
func (s *userService) issueToken(ctx context.Context, user domain.User, ipAddress, userAgent string) (string, error) {
	userIdStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIdStr, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", errors.New("failed to generate token")
	}

	now := time.Now()
	session := domain.TokenSession{
		UserID:    userIdStr,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(utils.TokenTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if err := s.tokenRepo.StoreToken(ctx, userIdStr, token, session, utils.TokenTTL); err != nil {
		logger.Error("Failed to store token", err)
		return "", errors.New("failed to store token")
	}

	return token, nil
}

func (s *userService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, ErrInvalidCredentials
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("User password incorrect")
		return "", domain.User{}, ErrInvalidCredentials
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified", "user_id", user.ID)
		return "", domain.User{}, ErrEmailNotVerified
	}

	token, err := s.issueToken(ctx, user, ipAddress, userAgent)
	if err != nil {
		return "", domain.User{}, err
	}

	user.Password = ""
	return token, user, nil
}

func (s *userService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	return s.tokenRepo.ValidateToken(ctx, token)
}

// RefreshToken swaps a still valid token for a new one.
func (s *userService) RefreshToken(ctx context.Context, oldToken, ipAddress, userAgent string) (string, domain.User, error) {
	claims, err := utils.ParseJWT(oldToken)
	if err != nil {
		logger.Error("Failed to parse token for refresh", err)
		return "", domain.User{}, ErrInvalidToken
	}

	userIdStr, err := s.tokenRepo.ValidateToken(ctx, oldToken)
	if err != nil || userIdStr != claims.UserID {
		logger.Error("Token not active for refresh", err)
		return "", domain.User{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(userIdStr, 10, 64)
	if err != nil {
		return "", domain.User{}, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, uint(userID))
	if err != nil {
		logger.Error("User not found for refresh", err)
		return "", domain.User{}, err
	}

	if err := s.tokenRepo.DeleteToken(ctx, userIdStr, oldToken); err != nil {
		logger.Warn("Failed to revoke old token", err)
	}

	token, err := s.issueToken(ctx, user, ipAddress, userAgent)
	if err != nil {
		return "", domain.User{}, err
	}

	user.Password = ""
	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	userIdStr := strconv.FormatUint(uint64(userID), 10)
	if err := s.tokenRepo.DeleteToken(ctx, userIdStr, token); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}

	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return ErrInvalidLink
	}

	email, expAtStr, ok := strings.Cut(verificationCodeDecrypt, "|")
	if !ok {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return ErrInvalidLink
	}

	ts, err := strconv.ParseInt(expAtStr, 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return ErrInvalidLink
	}
	if time.Now().After(time.Unix(ts, 0)) {
		return ErrInvalidLink
	}

	getUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("failed to get user by email")
	}

	if getUser.IsVerified {
		logger.Warn("Email already verified", "user_id", getUser.ID)
		return ErrInvalidLink
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, getUser.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// UpdateUser updates profile fields; empty fields are left alone.
func (s *userService) UpdateUser(ctx context.Context, id uint, updateData *domain.User) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if updateData.FullName != "" {
		existingUser.FullName = updateData.FullName
	}

	if updateData.Email != "" && updateData.Email != existingUser.Email {
		if err := s.validate.Var(updateData.Email, "required,email"); err != nil {
			logger.Error("Invalid email format", err)
			return domain.User{}, errors.New("invalid email format")
		}

		userWithEmail, err := s.userRepo.FindByEmail(ctx, updateData.Email)
		if err == nil && userWithEmail.ID != id {
			logger.Error("Email already exists")
			return domain.User{}, ErrEmailExists
		}
		existingUser.Email = updateData.Email
	}

	if updateData.Phone != "" {
		if err := s.validate.Var(updateData.Phone, "ke_phone"); err != nil {
			logger.Error("Invalid phone number", err)
			return domain.User{}, errors.New("invalid phone number")
		}
		existingUser.Phone = updateData.Phone
	}

	if updateData.IndexNumber != nil && *updateData.IndexNumber != "" {
		if err := s.validate.Var(*updateData.IndexNumber, "kcse_index"); err != nil {
			logger.Error("Invalid index number", err)
			return domain.User{}, errors.New("invalid index number")
		}
		other, err := s.userRepo.FindByIndexNumber(ctx, *updateData.IndexNumber)
		if err == nil && other.ID != id {
			return domain.User{}, ErrIndexNumberExists
		}
		existingUser.IndexNumber = updateData.IndexNumber
	}

	if updateData.Password != "" {
		if err := s.validate.Var(updateData.Password, "required,min=6"); err != nil {
			logger.Error("Invalid password", err)
			return domain.User{}, errors.New("password must be at least 6 characters")
		}

		passwordHash, err := utils.HashPassword(updateData.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existingUser.Password = string(passwordHash)
	}

	if updateData.Role != "" {
		if !validRoles[updateData.Role] {
			return domain.User{}, errors.New("invalid role")
		}
		existingUser.Role = updateData.Role
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existingUser.Password = ""
	return existingUser, nil
}

// DeleteUser soft deletes a user
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		logger.Error("User not found for deletion", err)
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	return nil
}
