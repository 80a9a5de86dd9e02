package models

import "time"

// ShopSettingsID is the fixed key of the single settings document
const ShopSettingsID = "shop"

type Theme struct {
	Mode      string `json:"mode" bson:"mode"` // light or dark
	Primary   string `json:"primary" bson:"primary"`
	Secondary string `json:"secondary" bson:"secondary"`
}

type ShopSettings struct {
	ID        string    `json:"id" bson:"_id"`
	ShopName  string    `json:"shopName" bson:"shopName"`
	Address   string    `json:"address" bson:"address"`
	Location  string    `json:"location" bson:"location"`
	Phone     string    `json:"phone" bson:"phone"`
	WhatsApp  string    `json:"whatsapp" bson:"whatsapp"`
	Email     string    `json:"email" bson:"email"`
	About     string    `json:"about" bson:"about"`
	Logo      string    `json:"logo" bson:"logo"`
	Theme     Theme     `json:"theme" bson:"theme"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DefaultShopSettings is what a fresh shop starts with
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		ID:       ShopSettingsID,
		ShopName: "My Shop",
		Address:  "Main Bazar, City",
		Location: "Lahore, Punjab",
		Phone:    "03xx-xxxxxxx",
		Theme: Theme{
			Mode:      "light",
			Primary:   "#0d6efd",
			Secondary: "#6c757d",
		},
	}
}
