// controllers/password_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PasswordController handles the owner password reset flow
type PasswordController struct {
	auth *services.AuthService
	log  *logrus.Entry
}

// NewPasswordController creates a new password controller
func NewPasswordController(auth *services.AuthService, log *logrus.Entry) *PasswordController {
	return &PasswordController{auth: auth, log: log}
}

// ForgotPassword emails a reset code to the owner
func (pc *PasswordController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := pc.auth.ForgotPassword(ctx, req.Email)
	if err != nil {
		return respondError(c, pc.log, err, "Failed to send reset code")
	}
	return respond(c, http.StatusOK, "Verification code sent to "+res.Email, res)
}

// VerifyResetCode exchanges the emailed code for a reset token
func (pc *PasswordController) VerifyResetCode(c echo.Context) error {
	var req models.VerifyResetCodeRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	token, err := pc.auth.VerifyResetCode(ctx, req.Email, req.Code)
	if err != nil {
		return respondError(c, pc.log, err, "Verification failed")
	}
	return respond(c, http.StatusOK, "Code verified", map[string]string{"resetToken": token})
}

// ResetPassword sets the new password and signs out every owner session
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := pc.auth.ResetPassword(ctx, req.ResetToken, req.NewPassword); err != nil {
		return respondError(c, pc.log, err, "Password reset failed")
	}
	return respond(c, http.StatusOK, "Password reset successfully. Please login with your new password.", nil)
}
