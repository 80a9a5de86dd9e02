package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/labstack/echo/v4"
)

func RegisterShopRoutes(e *echo.Echo, settingsController *controllers.ShopSettingsController, dashboardController *controllers.DashboardController, auth []echo.MiddlewareFunc) {
	settings := e.Group("/api/shop-settings")
	settings.GET("", settingsController.GetSettings)

	writers := append(append([]echo.MiddlewareFunc{}, auth...), middleware.RequireRole("manager"))
	settings.POST("", settingsController.SaveSettings, writers...)
	settings.PUT("", settingsController.UpdateSettings, writers...)

	e.GET("/api/dashboard", dashboardController.GetStats, auth...)
}
