package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner is the single shop owner account
type Owner struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	Phone                string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ShopName             string             `json:"shopName,omitempty" bson:"shopName,omitempty"`
	IsOwner              bool               `json:"isOwner" bson:"isOwner"`
	IsRegistered         bool               `json:"isRegistered" bson:"isRegistered"`
	ResetPasswordCode    string             `json:"-" bson:"resetPasswordCode,omitempty"`
	ResetPasswordExpires *time.Time         `json:"-" bson:"resetPasswordExpires,omitempty"`
	TokenVersion         int                `json:"-" bson:"tokenVersion"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}
