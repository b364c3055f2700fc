package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pllus/clubmatch/internal/models"
)

const SubscriptionsCollection = "subscriptions"

type SubscriptionRepository struct {
	col *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{col: db.Collection(SubscriptionsCollection)}
}

// SubscriberIDs lists the users following organizationID.
func (r *SubscriptionRepository) SubscriberIDs(ctx context.Context, organizationID bson.ObjectID) ([]bson.ObjectID, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"organization_id": organizationID},
		options.Find().SetProjection(bson.M{"user_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []bson.ObjectID
	seen := make(map[bson.ObjectID]struct{})
	for cur.Next(ctx) {
		var row models.Subscription
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.UserID.IsZero() {
			continue
		}
		if _, dup := seen[row.UserID]; dup {
			continue
		}
		seen[row.UserID] = struct{}{}
		ids = append(ids, row.UserID)
	}
	return ids, cur.Err()
}
