package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultMinStockAlert = 10

type Product struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	SKU           string             `json:"sku" bson:"sku"`
	Barcode       string             `json:"barcode,omitempty" bson:"barcode,omitempty"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"`
	Location      string             `json:"location,omitempty" bson:"location,omitempty"`
	Brand         string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Supplier      string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	Unit          string             `json:"unit,omitempty" bson:"unit,omitempty"`
	Stock         int                `json:"stock" bson:"stock"`
	CostPrice     float64            `json:"costPrice" bson:"costPrice"`
	SalePrice     float64            `json:"salePrice" bson:"salePrice"`
	MinStockAlert int                `json:"minStockAlert" bson:"minStockAlert"`
	Image         string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsLowStock compares stock against the product's own threshold
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStockAlert
}
