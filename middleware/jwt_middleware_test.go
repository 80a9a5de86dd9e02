package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubOwners struct {
	owner *models.Owner
}

func (s stubOwners) FindByID(_ context.Context, id primitive.ObjectID) (*models.Owner, error) {
	if s.owner == nil || s.owner.ID != id {
		return nil, assert.AnError
	}
	return s.owner, nil
}

func newProtectedServer(tm *TokenManager, owners OwnerLookup, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", tm.JWTMiddleware(), TokenVersionCheck(owners))
	g.Use(extra...)
	g.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserIDFromToken(c))
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestOwnerTokenAcceptedWhileVersionMatches(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	owner := &models.Owner{ID: primitive.NewObjectID(), TokenVersion: 2}
	e := newProtectedServer(tm, stubOwners{owner: owner})

	token, err := tm.GenerateJWT(owner.ID.Hex(), models.RoleOwner, true, 2)
	require.NoError(t, err)

	rec := doGet(e, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, owner.ID.Hex(), rec.Body.String())
}

func TestOwnerTokenRejectedAfterVersionBump(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	owner := &models.Owner{ID: primitive.NewObjectID(), TokenVersion: 0}
	e := newProtectedServer(tm, stubOwners{owner: owner})

	token, err := tm.GenerateJWT(owner.ID.Hex(), models.RoleOwner, true, 0)
	require.NoError(t, err)

	owner.TokenVersion = 1
	rec := doGet(e, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Session expired")
}

func TestEmployeeTokenSkipsVersionCheck(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	e := newProtectedServer(tm, stubOwners{})

	token, err := tm.GenerateJWT(primitive.NewObjectID().Hex(), models.RoleCashier, false, 0)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(e, token).Code)
}

func TestMissingOrForeignTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	e := newProtectedServer(tm, stubOwners{})

	assert.Equal(t, http.StatusUnauthorized, doGet(e, "").Code)

	other := NewTokenManager("other-secret", time.Hour)
	token, err := other.GenerateJWT(primitive.NewObjectID().Hex(), models.RoleCashier, false, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, token).Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := tm.GenerateJWT(primitive.NewObjectID().Hex(), models.RoleCashier, false, 0)
	require.NoError(t, err)

	tm.now = time.Now
	e := newProtectedServer(tm, stubOwners{})
	assert.Equal(t, http.StatusUnauthorized, doGet(e, token).Code)
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	owner := &models.Owner{ID: primitive.NewObjectID()}
	e := newProtectedServer(tm, stubOwners{owner: owner}, RequireRole(models.RoleManager))

	cashier, _ := tm.GenerateJWT(primitive.NewObjectID().Hex(), models.RoleCashier, false, 0)
	manager, _ := tm.GenerateJWT(primitive.NewObjectID().Hex(), models.RoleManager, false, 0)
	ownerToken, _ := tm.GenerateJWT(owner.ID.Hex(), models.RoleOwner, true, 0)

	assert.Equal(t, http.StatusForbidden, doGet(e, cashier).Code)
	assert.Equal(t, http.StatusOK, doGet(e, manager).Code)
	assert.Equal(t, http.StatusOK, doGet(e, ownerToken).Code)
}

func TestRequireOwner(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	e := newProtectedServer(tm, stubOwners{}, RequireOwner())

	manager, _ := tm.GenerateJWT(primitive.NewObjectID().Hex(), models.RoleManager, false, 0)
	rec := doGet(e, manager)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Owner only")
}

func TestResetTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateResetToken("abc", "123456")
	require.NoError(t, err)

	claims, err := tm.ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.ID)
	assert.Equal(t, "123456", claims.Code)

	session, err := tm.GenerateJWT("abc", models.RoleOwner, true, 0)
	require.NoError(t, err)
	_, err = tm.ParseResetToken(session)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
