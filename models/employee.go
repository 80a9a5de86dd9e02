package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee roles
const (
	RoleOwner       = "owner"
	RoleManager     = "manager"
	RoleCashier     = "cashier"
	RoleStockKeeper = "stock_keeper"
)

const (
	SalaryPaid   = "paid"
	SalaryUnpaid = "unpaid"
)

// SalaryRecord is one monthly salary payment
type SalaryRecord struct {
	Amount   float64   `json:"amount" bson:"amount"`
	PaidDate time.Time `json:"paidDate" bson:"paidDate"`
	Month    string    `json:"month" bson:"month"` // YYYY-MM
	Status   string    `json:"status" bson:"status"`
}

type Employee struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Phone         string             `json:"phone" bson:"phone"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Role          string             `json:"role" bson:"role"`
	Salary        float64            `json:"salary" bson:"salary"`
	JoinDate      time.Time          `json:"joinDate" bson:"joinDate"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	CNIC          string             `json:"cnic,omitempty" bson:"cnic,omitempty"`
	Username      string             `json:"username" bson:"username"`
	Password      string             `json:"-" bson:"password"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	SalaryStatus  string             `json:"salaryStatus" bson:"salaryStatus"`
	SalaryHistory []SalaryRecord     `json:"salaryHistory" bson:"salaryHistory"`
	LastPaidMonth string             `json:"lastPaidMonth,omitempty" bson:"lastPaidMonth,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsValidRole reports whether role is one an employee may hold
func IsValidRole(role string) bool {
	switch role {
	case RoleManager, RoleCashier, RoleStockKeeper:
		return true
	}
	return false
}
