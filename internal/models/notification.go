package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotiType string

type Ref struct {
	Entity string        `bson:"entity" json:"entity"` // "post"
	ID     bson.ObjectID `bson:"id"     json:"id"`
}

type Notification struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user_id"       json:"userId"`
	Type      NotiType      `bson:"type"          json:"type"`
	Title     string        `bson:"title"         json:"title"`
	Body      string        `bson:"body"          json:"body"`
	Link      string        `bson:"link"          json:"link"`
	Ref       Ref           `bson:"ref"           json:"ref"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	Read      bool          `bson:"read"          json:"read"`
	ReadAt    *time.Time    `bson:"read_at,omitempty" json:"readAt,omitempty"`
}

// NotiParams feeds BuildTitleBody.
type NotiParams struct {
	AuthorName string
	PostTitle  string
	PostID     bson.ObjectID
	Deadline   string // cooperation_return, yyyy-mm-dd
}
