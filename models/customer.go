package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultCreditLimit = 50000
	DefaultGender      = "male"
)

// Customer is a permanent credit customer. The balance fields are a running
// ledger updated by sales and payments.
type Customer struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	Gender         string             `json:"gender" bson:"gender"`
	Address        string             `json:"address,omitempty" bson:"address,omitempty"`
	CNIC           string             `json:"cnic,omitempty" bson:"cnic,omitempty"`
	CreditLimit    float64            `json:"creditLimit" bson:"creditLimit"`
	DueDate        *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	TotalPurchases float64            `json:"totalPurchases" bson:"totalPurchases"`
	TotalPaid      float64            `json:"totalPaid" bson:"totalPaid"`
	RemainingDue   float64            `json:"remainingDue" bson:"remainingDue"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CustomerWithCredit adds the recomputed total of the customer's permanent sales.
type CustomerWithCredit struct {
	Customer    `bson:",inline"`
	TotalCredit float64 `json:"totalCredit" bson:"totalCredit"`
}
