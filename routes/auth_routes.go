package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterAuthRoutes sets up owner and employee authentication
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, passwordController *controllers.PasswordController, auth []echo.MiddlewareFunc) {
	g := e.Group("/api/auth")

	// Public
	g.POST("/owner/register", authController.RegisterOwner)
	g.POST("/owner/login", authController.OwnerLogin)
	g.GET("/owner/exists", authController.OwnerExists)
	g.POST("/employee/login", authController.EmployeeLogin)

	g.POST("/owner/forgot-password", passwordController.ForgotPassword)
	g.POST("/owner/verify-reset-code", passwordController.VerifyResetCode)
	g.POST("/owner/reset-password", passwordController.ResetPassword)

	g.GET("/me", authController.Me, auth...)
}
