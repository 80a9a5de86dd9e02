package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController, auth []echo.MiddlewareFunc) {
	notifications := e.Group("/api/notifications", auth...)

	// websocket clients pass the token as ?token=
	notifications.GET("/ws", notificationController.Live)

	notifications.POST("", notificationController.SendNotification)
	notifications.GET("", notificationController.GetNotifications)
	notifications.PATCH("/mark-all-read", notificationController.MarkAllRead)
	notifications.PATCH("/mark-read", notificationController.MarkRead)
	notifications.PATCH("/:id", notificationController.MarkOneRead)
	notifications.DELETE("/clear-all", notificationController.ClearAll)
	notifications.DELETE("/:id", notificationController.DeleteNotification)
}
