package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const MessageSubscription = "subscription_notification"

// Message is an inbox entry in the messages collection.
type Message struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   bson.ObjectID `bson:"sender_id"     json:"senderId"`
	ReceiverID bson.ObjectID `bson:"receiver_id"   json:"receiverId"`
	Content    string        `bson:"content"       json:"content"`
	Type       string        `bson:"type"          json:"type"`
	IsRead     bool          `bson:"is_read"       json:"isRead"`
	PostID     bson.ObjectID `bson:"post_id"       json:"postId"`
	PostTitle  string        `bson:"post_title"    json:"postTitle"`
	Timestamp  time.Time     `bson:"timestamp"     json:"timestamp"`
}
