package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	resetCodeLength = 6
	resetCodeTTL    = 15 * time.Minute
	defaultShopName = "Shop"
)

// ResetMailer sends the password reset emails
type ResetMailer interface {
	SendResetCode(to, shopName, code string) EmailResult
	SendResetConfirmation(to, shopName string) EmailResult
}

// ForgotPasswordResult is returned once a reset code has been emailed
type ForgotPasswordResult struct {
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"` // minutes
}

type AuthService struct {
	owners    OwnerStore
	employees EmployeeStore
	settings  SettingsStore
	tokens    *middleware.TokenManager
	mailer    ResetMailer
	limiter   AttemptLimiter
	log       *logrus.Entry
	now       Clock
}

// NewAuthService builds the auth service. limiter may be nil, in which case
// reset requests are not throttled beyond the HTTP rate limiter.
func NewAuthService(owners OwnerStore, employees EmployeeStore, settings SettingsStore, tokens *middleware.TokenManager, mailer ResetMailer, limiter AttemptLimiter, log *logrus.Entry) *AuthService {
	return &AuthService{
		owners:    owners,
		employees: employees,
		settings:  settings,
		tokens:    tokens,
		mailer:    mailer,
		limiter:   limiter,
		log:       log,
		now:       time.Now,
	}
}

// OwnerExists reports whether the shop already has its owner
func (s *AuthService) OwnerExists(ctx context.Context) (bool, error) {
	n, err := s.owners.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RegisterOwner creates the one and only owner account
func (s *AuthService) RegisterOwner(ctx context.Context, req models.OwnerRegisterRequest) (*models.AuthResponse, error) {
	exists, err := s.OwnerExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, Forbidden("Owner already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, BadRequest("Invalid email format")
	}
	owner := &models.Owner{
		Name:         utils.SanitizeInput(req.Name),
		Email:        email,
		Password:     hash,
		Phone:        req.Phone,
		ShopName:     req.ShopName,
		IsOwner:      true,
		IsRegistered: true,
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, duplicateOr(err, "Owner already registered")
	}
	return s.ownerSession(owner)
}

func (s *AuthService) OwnerLogin(ctx context.Context, req models.OwnerLoginRequest) (*models.AuthResponse, error) {
	owner, err := s.owners.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPassword(owner.Password, req.Password) {
		return nil, Unauthorized("Invalid credentials")
	}
	return s.ownerSession(owner)
}

func (s *AuthService) EmployeeLogin(ctx context.Context, req models.EmployeeLoginRequest) (*models.AuthResponse, error) {
	employee, err := s.employees.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPassword(employee.Password, req.Password) {
		return nil, Unauthorized("Invalid credentials")
	}
	if !employee.IsActive {
		return nil, Forbidden("Account is inactive")
	}

	token, err := s.tokens.GenerateJWT(employee.ID.Hex(), employee.Role, false, 0)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.AuthResponse{
		Token: token,
		User: models.AuthUser{
			ID:       employee.ID.Hex(),
			Name:     employee.Name,
			Email:    employee.Email,
			Username: employee.Username,
			Role:     employee.Role,
		},
	}, nil
}

func (s *AuthService) ownerSession(owner *models.Owner) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateJWT(owner.ID.Hex(), models.RoleOwner, true, owner.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.AuthResponse{
		Token: token,
		User: models.AuthUser{
			ID:      owner.ID.Hex(),
			Name:    owner.Name,
			Email:   owner.Email,
			Role:    models.RoleOwner,
			IsOwner: true,
		},
	}, nil
}

// ForgotPassword emails a six digit code to the owner. The code is valid for
// fifteen minutes and replaces any earlier one.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	email = normalizeEmail(email)
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, email); err != nil {
			if errors.Is(err, utils.ErrTooManyAttempts) {
				return nil, &Error{Kind: KindBadRequest, Message: "Too many reset attempts. Please try again later."}
			}
			s.log.WithError(err).Warn("Reset attempt limiter unavailable")
		}
	}

	owner, err := s.owners.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(err, "No account found with this email")
	}

	code, err := utils.GenerateNumericCode(resetCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.owners.SetResetCode(ctx, owner.ID, code, s.now().Add(resetCodeTTL)); err != nil {
		return nil, err
	}

	result := s.mailer.SendResetCode(owner.Email, s.shopName(ctx, owner), code)
	if !result.Success {
		return nil, fmt.Errorf("send reset code: %s", result.Message)
	}
	return &ForgotPasswordResult{
		Email:     utils.MaskEmail(owner.Email),
		ExpiresIn: int(resetCodeTTL / time.Minute),
	}, nil
}

// VerifyResetCode trades a valid code for a short lived reset token
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) (string, error) {
	owner, err := s.owners.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", BadRequest("Invalid or expired verification code")
		}
		return "", err
	}
	if !s.codeValid(owner, code) {
		return "", BadRequest("Invalid or expired verification code")
	}
	token, err := s.tokens.GenerateResetToken(owner.ID.Hex(), code)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return token, nil
}

// ResetPassword sets a new password. It invalidates every owner session
// issued before it.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.ParseResetToken(resetToken)
	if err != nil {
		return BadRequest("Invalid or expired reset token")
	}
	ownerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return BadRequest("Invalid or expired reset token")
	}
	owner, err := s.owners.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return BadRequest("Invalid or expired reset token")
		}
		return err
	}
	if !s.codeValid(owner, claims.Code) {
		return BadRequest("Invalid or expired reset token")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.owners.CompletePasswordReset(ctx, owner.ID, hash); err != nil {
		return err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, owner.Email); err != nil {
			s.log.WithError(err).Warn("Failed to clear reset attempts")
		}
	}
	if result := s.mailer.SendResetConfirmation(owner.Email, s.shopName(ctx, owner)); !result.Success {
		s.log.Warnf("Password reset confirmation not sent: %s", result.Message)
	}
	return nil
}

func (s *AuthService) codeValid(owner *models.Owner, code string) bool {
	if owner.ResetPasswordCode == "" || owner.ResetPasswordExpires == nil {
		return false
	}
	if owner.ResetPasswordCode != code {
		return false
	}
	return s.now().Before(*owner.ResetPasswordExpires)
}

func (s *AuthService) shopName(ctx context.Context, owner *models.Owner) string {
	if settings, err := s.settings.Get(ctx); err == nil && settings.ShopName != "" {
		return settings.ShopName
	}
	if owner.ShopName != "" {
		return owner.ShopName
	}
	return defaultShopName
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
