package models

import "go.mongodb.org/mongo-driver/v2/bson"

type Club struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   bson.ObjectID `bson:"user_id"       json:"userId"`
	ClubName string        `bson:"club_name"     json:"clubName"`
}

type Company struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      bson.ObjectID `bson:"user_id"       json:"userId"`
	CompanyName string        `bson:"company_name"  json:"companyName"`
}
