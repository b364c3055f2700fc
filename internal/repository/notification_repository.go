package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pllus/clubmatch/internal/models"
)

const (
	NotificationsCollection = "notifications"
	MessagesCollection      = "messages"
)

type NotificationRepository struct {
	notis    *mongo.Collection
	messages *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		notis:    db.Collection(NotificationsCollection),
		messages: db.Collection(MessagesCollection),
	}
}

func (r *NotificationRepository) Notifications() *mongo.Collection { return r.notis }

func (r *NotificationRepository) Messages() *mongo.Collection { return r.messages }

// Unread lists a user's unread notifications, newest first.
func (r *NotificationRepository) Unread(ctx context.Context, userID bson.ObjectID) ([]models.Notification, error) {
	cur, err := r.notis.Find(ctx,
		bson.M{"user_id": userID, "read": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags the notification read and returns the updated document.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id bson.ObjectID) (*models.Notification, error) {
	filter := bson.M{"_id": id, "user_id": userID}
	update := bson.M{"$set": bson.M{
		"read":    true,
		"read_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := r.notis.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
