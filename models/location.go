package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a shop branch or storage point
type Location struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Address       string              `json:"address" bson:"address"`
	Phone         string              `json:"phone,omitempty" bson:"phone,omitempty"`
	AssignedStaff *primitive.ObjectID `json:"assignedStaff,omitempty" bson:"assignedStaff,omitempty"`
	IsActive      bool                `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type StaffSummary struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
	Role string             `json:"role" bson:"role"`
}

type LocationView struct {
	Location     `bson:",inline"`
	StaffDetails *StaffSummary `json:"staffDetails,omitempty" bson:"staffDetails,omitempty"`
}
