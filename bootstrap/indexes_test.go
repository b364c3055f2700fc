package bootstrap

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pllus/clubmatch/internal/repository"
)

func TestIndexPlan_NamesUniquePerCollection(t *testing.T) {
	seen := map[string]bool{}
	for _, ci := range indexPlan() {
		for _, m := range ci.models {
			var opts options.IndexOptions
			if m.Options != nil {
				for _, set := range m.Options.List() {
					if err := set(&opts); err != nil {
						t.Fatal(err)
					}
				}
			}
			if opts.Name == nil {
				t.Fatalf("%s: unnamed index %v", ci.collection, m.Keys)
			}
			key := ci.collection + "/" + *opts.Name
			if seen[key] {
				t.Fatalf("duplicate index %s", key)
			}
			seen[key] = true
		}
	}
	for _, want := range []string{
		repository.PostsCollection + "/author_draft_created",
		repository.NotificationsCollection + "/uniq_reminder",
		repository.SubscriptionsCollection + "/organization",
	} {
		if !seen[want] {
			t.Errorf("missing index %s", want)
		}
	}
}

func TestEnsureIndexes_Mongo(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	defer client.Disconnect(ctx)

	db := client.Database("clubmatch_test_" + bson.NewObjectID().Hex())
	defer db.Drop(ctx)

	// twice: a rerun must be a no-op
	for i := 0; i < 2; i++ {
		if err := EnsureIndexes(ctx, db); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
