package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationSuccess       = "success"
	NotificationError         = "error"
	NotificationWarning       = "warning"
	NotificationInfo          = "info"
	NotificationLowStock      = "low-stock"
	NotificationNewCredit     = "new-credit"
	NotificationEmployeeAdded = "employee-added"
	NotificationSalaryPaid    = "salary-paid"
	NotificationCreditDue     = "credit-due"
)

// Notification model
type Notification struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Type      string                 `json:"type" bson:"type"`
	Message   string                 `json:"message" bson:"message"`
	IsRead    bool                   `json:"isRead" bson:"isRead"`
	Timestamp time.Time              `json:"timestamp" bson:"timestamp"`
	SendEmail bool                   `json:"sendEmail" bson:"sendEmail"`
	EmailSent bool                   `json:"emailSent" bson:"emailSent"`
	EmailData map[string]interface{} `json:"emailData,omitempty" bson:"emailData,omitempty"`
}

// IsValidNotificationType reports whether t is a known notification type
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationSuccess, NotificationError, NotificationWarning, NotificationInfo,
		NotificationLowStock, NotificationNewCredit, NotificationEmployeeAdded,
		NotificationSalaryPaid, NotificationCreditDue:
		return true
	}
	return false
}
