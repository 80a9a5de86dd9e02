package services

import (
	"context"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/logger"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	allowed int
	count   map[string]int
	resets  int
}

func (l *countingLimiter) Allow(_ context.Context, key string) error {
	if l.count == nil {
		l.count = map[string]int{}
	}
	l.count[key]++
	if l.count[key] > l.allowed {
		return utils.ErrTooManyAttempts
	}
	return nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	delete(l.count, key)
	l.resets++
	return nil
}

type authFixture struct {
	svc       *AuthService
	owners    *fakeOwners
	employees *fakeEmployees
	mailer    *fakeMailer
	tokens    *middleware.TokenManager
	limiter   *countingLimiter
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		owners:    &fakeOwners{},
		employees: newFakeEmployees(),
		mailer:    &fakeMailer{},
		tokens:    middleware.NewTokenManager("test-secret", time.Hour),
		limiter:   &countingLimiter{allowed: 5},
	}
	settings := &fakeSettings{settings: models.ShopSettings{ShopName: "Corner Store"}}
	email := NewEmailService(f.mailer, logger.Discard())
	f.svc = NewAuthService(f.owners, f.employees, settings, f.tokens, email, f.limiter, logger.Discard())
	return f
}

func (f *authFixture) register(t *testing.T) *models.AuthResponse {
	t.Helper()
	res, err := f.svc.RegisterOwner(context.Background(), models.OwnerRegisterRequest{
		Name: "Owner", Email: "Owner@Shop.pk", Password: "secret1",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterOwnerOnlyOnce(t *testing.T) {
	f := newAuthFixture()
	res := f.register(t)
	assert.True(t, res.User.IsOwner)
	assert.Equal(t, "owner@shop.pk", res.User.Email)

	claims, err := f.tokens.ParseJWT(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, claims.Role)
	assert.Equal(t, 0, claims.TokenVersion)

	exists, err := f.svc.OwnerExists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = f.svc.RegisterOwner(context.Background(), models.OwnerRegisterRequest{Name: "B", Email: "b@shop.pk", Password: "secret1"})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestOwnerLogin(t *testing.T) {
	f := newAuthFixture()
	f.register(t)
	ctx := context.Background()

	_, err := f.svc.OwnerLogin(ctx, models.OwnerLoginRequest{Email: "owner@shop.pk", Password: "wrong"})
	assert.Equal(t, "Invalid credentials", err.Error())
	_, err = f.svc.OwnerLogin(ctx, models.OwnerLoginRequest{Email: "nobody@shop.pk", Password: "secret1"})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	res, err := f.svc.OwnerLogin(ctx, models.OwnerLoginRequest{Email: " OWNER@shop.pk ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestEmployeeLoginRejectsInactive(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	require.NoError(t, f.employees.Create(ctx, &models.Employee{Name: "Hamza", Username: "hamza", Password: hash, Role: models.RoleCashier, IsActive: true}))
	require.NoError(t, f.employees.Create(ctx, &models.Employee{Name: "Old", Username: "old", Password: hash, Role: models.RoleCashier}))

	res, err := f.svc.EmployeeLogin(ctx, models.EmployeeLoginRequest{Username: " hamza ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCashier, res.User.Role)
	assert.False(t, res.User.IsOwner)

	_, err = f.svc.EmployeeLogin(ctx, models.EmployeeLoginRequest{Username: "old", Password: "secret1"})
	assert.Equal(t, "Account is inactive", err.Error())
	_, err = f.svc.EmployeeLogin(ctx, models.EmployeeLoginRequest{Username: "hamza", Password: "nope"})
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestPasswordResetFlowBumpsTokenVersion(t *testing.T) {
	f := newAuthFixture()
	f.register(t)
	ctx := context.Background()

	forgot, err := f.svc.ForgotPassword(ctx, "owner@shop.pk")
	require.NoError(t, err)
	assert.Equal(t, "ow***@shop.pk", forgot.Email)
	assert.Equal(t, 15, forgot.ExpiresIn)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "Corner Store - Password Reset Code", f.mailer.sent[0].subject)

	code := f.owners.owner.ResetPasswordCode
	require.Len(t, code, 6)
	assert.Contains(t, f.mailer.sent[0].body, code)

	_, err = f.svc.VerifyResetCode(ctx, "owner@shop.pk", "000000x")
	assert.Equal(t, "Invalid or expired verification code", err.Error())

	resetToken, err := f.svc.VerifyResetCode(ctx, "owner@shop.pk", code)
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetPassword(ctx, resetToken, "brandnew"))
	assert.Equal(t, 1, f.owners.owner.TokenVersion)
	assert.Empty(t, f.owners.owner.ResetPasswordCode)
	assert.Equal(t, 1, f.limiter.resets)
	assert.Len(t, f.mailer.sent, 2)

	// the code is spent
	err = f.svc.ResetPassword(ctx, resetToken, "again123")
	assert.Equal(t, KindBadRequest, KindOf(err))

	res, err := f.svc.OwnerLogin(ctx, models.OwnerLoginRequest{Email: "owner@shop.pk", Password: "brandnew"})
	require.NoError(t, err)
	claims, err := f.tokens.ParseJWT(res.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.TokenVersion)
}

func TestResetCodeExpires(t *testing.T) {
	f := newAuthFixture()
	f.register(t)
	ctx := context.Background()
	start := time.Now()
	f.svc.now = fixedClock(start)

	_, err := f.svc.ForgotPassword(ctx, "owner@shop.pk")
	require.NoError(t, err)
	code := f.owners.owner.ResetPasswordCode

	f.svc.now = fixedClock(start.Add(16 * time.Minute))
	_, err = f.svc.VerifyResetCode(ctx, "owner@shop.pk", code)
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestForgotPasswordLimitsAndUnknownEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t)
	ctx := context.Background()

	_, err := f.svc.ForgotPassword(ctx, "stranger@shop.pk")
	assert.Equal(t, KindNotFound, KindOf(err))

	f.limiter.allowed = 1
	_, err = f.svc.ForgotPassword(ctx, "owner@shop.pk")
	require.NoError(t, err)
	_, err = f.svc.ForgotPassword(ctx, "owner@shop.pk")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestRegisterOwnerStoresNameUnescaped(t *testing.T) {
	f := newAuthFixture()
	res, err := f.svc.RegisterOwner(context.Background(), models.OwnerRegisterRequest{
		Name: "  Ali & Sons ", Email: "ali@shop.pk", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ali & Sons", res.User.Name)
	assert.Equal(t, "Ali & Sons", f.owners.owner.Name)
}
