package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ExpenseTypes = []string{"salary", "purchase", "utility", "office", "food", "transport", "other"}

var PaymentMethods = []string{"cash", "bank", "credit"}

type Expense struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type          string             `json:"type" bson:"type"`
	Category      string             `json:"category" bson:"category"`
	Description   string             `json:"description" bson:"description"`
	Amount        float64            `json:"amount" bson:"amount"`
	Employee      string             `json:"employee,omitempty" bson:"employee,omitempty"`
	Date          time.Time          `json:"date" bson:"date"`
	PaymentMethod string             `json:"paymentMethod" bson:"paymentMethod"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	Start *time.Time
	End   *time.Time
	Type  string
}
