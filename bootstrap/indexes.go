package bootstrap

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pllus/clubmatch/internal/repository"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{repository.PostsCollection, []mongo.IndexModel{
			{
				// draft list per author, newest first
				Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "is_draft", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("author_draft_created"),
			},
			{
				Keys:    bson.D{{Key: "is_draft", Value: 1}, {Key: "published_at", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("published_feed"),
			},
			{
				Keys: bson.D{{Key: "cooperation_return", Value: 1}},
				Options: options.Index().SetName("draft_deadline").
					SetPartialFilterExpression(bson.M{"is_draft": true}),
			},
		}},
		{repository.SubscriptionsCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "organization_id", Value: 1}},
				Options: options.Index().SetName("organization"),
			},
		}},
		{repository.NotificationsCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("user_unread"),
			},
			{
				// one deadline reminder per draft and deadline
				Keys: bson.D{
					{Key: "user_id", Value: 1}, {Key: "type", Value: 1},
					{Key: "ref.id", Value: 1}, {Key: "meta.deadline", Value: 1},
				},
				Options: options.Index().SetName("uniq_reminder").SetUnique(true).
					SetPartialFilterExpression(bson.M{"meta.deadline": bson.M{"$exists": true}}),
			},
		}},
	}
}

// EnsureIndexes creates the indexes the repositories rely on. Existing
// indexes with the same definition are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ci := range indexPlan() {
		if _, err := db.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", ci.collection, err)
		}
	}
	return nil
}
