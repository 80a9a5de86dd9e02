package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale types
const (
	SaleCash      = "cash"
	SalePermanent = "permanent"
	SaleTemporary = "temporary"
)

type SaleItem struct {
	Product primitive.ObjectID `json:"product,omitempty" bson:"product,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Qty     int                `json:"qty" bson:"qty"`
	Price   float64            `json:"price" bson:"price"`
}

// CustomerInfo is loose contact data for temporary credit sales
type CustomerInfo struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type Payment struct {
	Method string    `json:"method" bson:"method"`
	Amount float64   `json:"amount" bson:"amount"`
	Detail string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Date   time.Time `json:"date" bson:"date"`
}

// Sale is immutable in its total; payments are append-only and paidAmount
// tracks their sum.
type Sale struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Items           []SaleItem          `json:"items" bson:"items"`
	Customer        *primitive.ObjectID `json:"customer,omitempty" bson:"customer,omitempty"`
	CustomerInfo    *CustomerInfo       `json:"customerInfo,omitempty" bson:"customerInfo,omitempty"`
	SaleType        string              `json:"saleType" bson:"saleType"`
	Payments        []Payment           `json:"payments" bson:"payments"`
	PaidAmount      float64             `json:"paidAmount" bson:"paidAmount"`
	Subtotal        float64             `json:"subtotal" bson:"subtotal"`
	DiscountPercent float64             `json:"discountPercent" bson:"discountPercent"`
	ServiceCharge   float64             `json:"serviceCharge" bson:"serviceCharge"`
	Tax             float64             `json:"tax" bson:"tax"`
	Total           float64             `json:"total" bson:"total"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CustomerSummary is the populated view of a sale's customer reference
type CustomerSummary struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Phone string             `json:"phone,omitempty" bson:"phone,omitempty"`
}

// SaleView is a sale with its customer resolved
type SaleView struct {
	Sale            `bson:",inline"`
	CustomerDetails *CustomerSummary `json:"customerDetails,omitempty" bson:"customerDetails,omitempty"`
}

// IsValidSaleType reports whether t is a known sale type
func IsValidSaleType(t string) bool {
	return t == SaleCash || t == SalePermanent || t == SaleTemporary
}
