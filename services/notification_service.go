package services

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// emailTypes are the notification types that also email the shop
var emailTypes = map[string]bool{
	models.NotificationLowStock:      true,
	models.NotificationNewCredit:     true,
	models.NotificationEmployeeAdded: true,
	models.NotificationSalaryPaid:    true,
	models.NotificationCreditDue:     true,
}

// TemplateSender sends one of the fixed notification emails
type TemplateSender interface {
	SendTemplate(to, templateType string, data map[string]interface{}) EmailResult
}

// Broadcaster pushes a stored notification to live clients
type Broadcaster interface {
	Broadcast(n models.Notification)
}

// DispatchResult describes what happened to one notification. The record is
// always stored; email is attempted at most once and never retried.
type DispatchResult struct {
	Notification   *models.Notification `json:"notification"`
	EmailAttempted bool                 `json:"emailAttempted"`
	EmailSent      bool                 `json:"emailSent"`
	SkipReason     string               `json:"skipReason,omitempty"`
}

type MarkAllResult struct {
	BeforeUnread int64 `json:"beforeUnread"`
	AfterUnread  int64 `json:"afterUnread"`
	Modified     int64 `json:"modified"`
}

type NotificationService struct {
	store    NotificationStore
	settings SettingsStore
	email    TemplateSender
	hub      Broadcaster
	log      *logrus.Entry
	now      Clock
}

func NewNotificationService(store NotificationStore, settings SettingsStore, email TemplateSender, hub Broadcaster, log *logrus.Entry) *NotificationService {
	return &NotificationService{store: store, settings: settings, email: email, hub: hub, log: log, now: time.Now}
}

// Dispatch stores a notification and, for allow-listed types, emails the
// address in shop settings. Email problems are reported in the result only.
func (s *NotificationService) Dispatch(ctx context.Context, req models.NotificationRequest) (*DispatchResult, error) {
	if req.Type == "" || req.Message == "" {
		return nil, BadRequest("Type and message required")
	}
	if !models.IsValidNotificationType(req.Type) {
		return nil, BadRequest("Invalid notification type: %s", req.Type)
	}

	n := &models.Notification{
		Type:      req.Type,
		Message:   req.Message,
		Timestamp: s.now(),
		SendEmail: emailTypes[req.Type],
		EmailData: req.EmailData,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	result := &DispatchResult{Notification: n}

	if n.SendEmail {
		s.sendEmail(ctx, n, result)
	}
	if s.hub != nil {
		s.hub.Broadcast(*n)
	}
	return result, nil
}

func (s *NotificationService) sendEmail(ctx context.Context, n *models.Notification, result *DispatchResult) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Could not load shop settings, email skipped")
		result.SkipReason = "Shop settings unavailable"
		return
	}
	if settings.Email == "" {
		s.log.Infof("No shop email configured, skipping %s email", n.Type)
		result.SkipReason = "No shop email configured"
		return
	}

	result.EmailAttempted = true
	sent := s.email.SendTemplate(settings.Email, n.Type, n.EmailData)
	if !sent.Success {
		result.SkipReason = sent.Message
		return
	}

	if err := s.store.SetEmailSent(ctx, n.ID, true); err != nil {
		s.log.WithError(err).Error("Email sent but emailSent flag could not be saved")
		return
	}
	n.EmailSent = true
	result.EmailSent = true
}

// Notify dispatches and only logs failures
func (s *NotificationService) Notify(ctx context.Context, notifType, message string, data map[string]interface{}) {
	if _, err := s.Dispatch(ctx, models.NotificationRequest{Type: notifType, Message: message, EmailData: data}); err != nil {
		s.log.WithError(err).Errorf("Failed to record %s notification", notifType)
	}
}

func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	return s.store.List(ctx)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (*MarkAllResult, error) {
	before, err := s.store.CountUnread(ctx)
	if err != nil {
		return nil, err
	}
	modified, err := s.store.MarkAllRead(ctx)
	if err != nil {
		return nil, err
	}
	after, err := s.store.CountUnread(ctx)
	if err != nil {
		return nil, err
	}
	return &MarkAllResult{BeforeUnread: before, AfterUnread: after, Modified: modified}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, BadRequest("ids array required")
	}
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, BadRequest("Invalid notification id: %s", id)
		}
		objIDs = append(objIDs, objID)
	}
	return s.store.MarkRead(ctx, objIDs)
}

func (s *NotificationService) MarkOneRead(ctx context.Context, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NotFound("Notification not found")
	}
	n, err := s.store.MarkOneRead(ctx, objID)
	if err != nil {
		return nil, notFoundOr(err, "Notification not found")
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NotFound("Notification not found")
	}
	return notFoundOr(s.store.Delete(ctx, objID), "Notification not found")
}

func (s *NotificationService) ClearAll(ctx context.Context) (int64, error) {
	return s.store.DeleteAll(ctx)
}
