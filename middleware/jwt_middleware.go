// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	resetPurpose  = "password-reset"
	resetTokenTTL = 15 * time.Minute
)

var ErrInvalidToken = errors.New("invalid or expired token")

// JwtCustomClaims for JWT token. TokenVersion is only meaningful for owners.
type JwtCustomClaims struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	IsOwner      bool   `json:"isOwner"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.StandardClaims
}

// ResetClaims authorise a single password reset for the owner
type ResetClaims struct {
	ID      string `json:"id"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
	jwt.StandardClaims
}

// TokenManager signs and verifies session and reset tokens with one HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateJWT issues a session token for the given identity
func (tm *TokenManager) GenerateJWT(id, role string, isOwner bool, tokenVersion int) (string, error) {
	now := tm.now()
	claims := &JwtCustomClaims{
		ID:           id,
		Role:         role,
		IsOwner:      isOwner,
		TokenVersion: tokenVersion,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tm.ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

func (tm *TokenManager) GenerateResetToken(id, code string) (string, error) {
	now := tm.now()
	claims := &ResetClaims{
		ID:      id,
		Purpose: resetPurpose,
		Code:    code,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(resetTokenTTL).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// ParseResetToken verifies signature, expiry and purpose of a reset token
func (tm *TokenManager) ParseResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, tm.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != resetPurpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseJWT verifies a session token outside of the echo middleware
func (tm *TokenManager) ParseJWT(tokenString string) (*JwtCustomClaims, error) {
	claims := &JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, tm.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return tm.secret, nil
}

// JWTMiddleware returns a configured JWT middleware. The token is read from
// the Authorization header, or from ?token= for websocket upgrades.
func (tm *TokenManager) JWTMiddleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:  tm.secret,
		Claims:      &JwtCustomClaims{},
		TokenLookup: "header:Authorization,query:token",
		SuccessHandler: func(c echo.Context) {
			claims := GetUserFromToken(c)
			c.Set("userId", claims.ID)
			c.Set("role", claims.Role)
		},
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Token is invalid or expired",
			})
		},
	})
}

// OwnerLookup resolves the stored owner for the session version check
type OwnerLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Owner, error)
}

// TokenVersionCheck rejects owner tokens issued before the last password
// reset. Must run after JWTMiddleware.
func TokenVersionCheck(owners OwnerLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetUserFromToken(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "No token, authorization denied",
				})
			}
			if !claims.IsOwner {
				return next(c)
			}

			id, err := primitive.ObjectIDFromHex(claims.ID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "User not found",
				})
			}
			owner, err := owners.FindByID(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "User not found",
				})
			}
			if owner.TokenVersion != claims.TokenVersion {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Session expired. Please login again.",
					Data:    map[string]bool{"sessionExpired": true},
				})
			}
			return next(c)
		}
	}
}

// GetUserFromToken extracts user information from JWT token
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetUserIDFromToken returns the caller's id or an empty string
func GetUserIDFromToken(c echo.Context) string {
	if userID, ok := c.Get("userId").(string); ok && userID != "" {
		return userID
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.ID
	}
	return ""
}
