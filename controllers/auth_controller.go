// controllers/auth_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

// AuthController handles owner and employee sign-in
type AuthController struct {
	auth *services.AuthService
	log  *logrus.Entry
}

func NewAuthController(auth *services.AuthService, log *logrus.Entry) *AuthController {
	return &AuthController{auth: auth, log: log}
}

// RegisterOwner creates the shop owner. Only one owner can ever exist.
func (ac *AuthController) RegisterOwner(c echo.Context) error {
	var req models.OwnerRegisterRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := ac.auth.RegisterOwner(ctx, req)
	if err != nil {
		return respondError(c, ac.log, err, "Registration failed")
	}
	ac.log.WithField("ownerId", res.User.ID).Info("Owner registered")
	return respond(c, http.StatusCreated, "Owner registered successfully", res)
}

func (ac *AuthController) OwnerLogin(c echo.Context) error {
	var req models.OwnerLoginRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := ac.auth.OwnerLogin(ctx, req)
	if err != nil {
		return respondError(c, ac.log, err, "Login failed")
	}
	return respond(c, http.StatusOK, "Login successful", res)
}

func (ac *AuthController) EmployeeLogin(c echo.Context) error {
	var req models.EmployeeLoginRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := ac.auth.EmployeeLogin(ctx, req)
	if err != nil {
		return respondError(c, ac.log, err, "Login failed")
	}
	return respond(c, http.StatusOK, "Login successful", res)
}

// OwnerExists lets the frontend choose between the register and login screens
func (ac *AuthController) OwnerExists(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	exists, err := ac.auth.OwnerExists(ctx)
	if err != nil {
		return respondError(c, ac.log, err, "Server error")
	}
	return respond(c, http.StatusOK, "OK", map[string]bool{"exists": exists})
}

// Me returns the identity carried by the caller's token
func (ac *AuthController) Me(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	return respond(c, http.StatusOK, "OK", map[string]interface{}{
		"id":      claims.ID,
		"role":    claims.Role,
		"isOwner": claims.IsOwner,
	})
}
