package controllers

import (
	"context"
	"net/http"

	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type NotificationController struct {
	notifications *services.NotificationService
	hub           *websocket.Hub
	log           *logrus.Entry
}

func NewNotificationController(notifications *services.NotificationService, hub *websocket.Hub, log *logrus.Entry) *NotificationController {
	return &NotificationController{notifications: notifications, hub: hub, log: log}
}

// SendNotification stores a notification and emails the shop for the
// allow-listed types.
func (nc *NotificationController) SendNotification(c echo.Context) error {
	var req models.NotificationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	result, err := nc.notifications.Dispatch(ctx, req)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to send notification")
	}
	return respond(c, http.StatusCreated, "Notification sent", result)
}

func (nc *NotificationController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	list, err := nc.notifications.List(ctx)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to fetch notifications")
	}
	return respond(c, http.StatusOK, "Notifications retrieved successfully", list)
}

func (nc *NotificationController) MarkAllRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	result, err := nc.notifications.MarkAllRead(ctx)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to mark notifications as read")
	}
	return respond(c, http.StatusOK, "All notifications marked as read", result)
}

// MarkRead marks the notifications listed in the ids body field
func (nc *NotificationController) MarkRead(c echo.Context) error {
	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	modified, err := nc.notifications.MarkRead(ctx, req.IDs)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to mark notifications as read")
	}
	return respond(c, http.StatusOK, "Notifications marked as read", map[string]int64{"modified": modified})
}

func (nc *NotificationController) MarkOneRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	n, err := nc.notifications.MarkOneRead(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, nc.log, err, "Failed to mark notification as read")
	}
	return respond(c, http.StatusOK, "Notification marked as read", n)
}

func (nc *NotificationController) ClearAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	deleted, err := nc.notifications.ClearAll(ctx)
	if err != nil {
		return respondError(c, nc.log, err, "Failed to clear notifications")
	}
	return respond(c, http.StatusOK, "All notifications cleared", map[string]int64{"deleted": deleted})
}

func (nc *NotificationController) DeleteNotification(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := nc.notifications.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, nc.log, err, "Failed to delete notification")
	}
	return respond(c, http.StatusOK, "Notification deleted", nil)
}

// Live upgrades to a websocket that receives every new notification
func (nc *NotificationController) Live(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "No token, authorization denied")
	}
	if err := websocket.HandleWebSocket(c, nc.hub, claims.ID, claims.Role); err != nil {
		nc.log.WithError(err).Warn("WebSocket upgrade failed")
		return err
	}
	return nil
}
