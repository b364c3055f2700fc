package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Subscription links a user to an organization whose posts they follow.
type Subscription struct {
	ID             bson.ObjectID `bson:"_id,omitempty"   json:"id"`
	UserID         bson.ObjectID `bson:"user_id"         json:"userId"`
	OrganizationID bson.ObjectID `bson:"organization_id" json:"organizationId"`
	CreatedAt      time.Time     `bson:"created_at"      json:"createdAt"`
}
