// Command remindercheck seeds a draft whose sponsorship deadline is close,
// runs the deadline reminder twice against a real database and checks that
// exactly one notification was written. The seeded documents are removed.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/pllus/clubmatch/config"
	"github.com/pllus/clubmatch/database"
	"github.com/pllus/clubmatch/internal/repository"
	"github.com/pllus/clubmatch/internal/services"
)

func main() {
	cfg, err := config.LoadConfig("conf/app.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	client, db, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.DB, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loc := cfg.Location()
	postsCol := db.Collection(repository.PostsCollection)
	notiCol := db.Collection(repository.NotificationsCollection)

	postID := bson.NewObjectID()
	authorID := bson.NewObjectID()
	deadline := time.Now().In(loc).AddDate(0, 0, 1).Format("2006-01-02")
	now := time.Now().UTC()

	filter := bson.M{
		"type":    string(services.NotiDeadlineReminder),
		"ref.id":  postID,
		"user_id": authorID,
	}
	cleanup := func(ctx context.Context) {
		_, _ = notiCol.DeleteMany(ctx, filter)
		_, _ = postsCol.DeleteOne(ctx, bson.M{"_id": postID})
	}
	defer cleanup(ctx)

	if _, err := postsCol.InsertOne(ctx, bson.M{
		"_id":                postID,
		"author_id":          authorID,
		"title":              "Reminder check draft",
		"cooperation_return": deadline,
		"is_draft":           true,
		"created_at":         now,
		"updated_at":         now,
	}); err != nil {
		log.Fatalf("failed to insert test draft: %v", err)
	}

	posts := repository.NewPostRepository(db)
	for run := 1; run <= 2; run++ {
		n, err := services.RunDeadlineReminder(ctx, posts, notiCol, loc, cfg.Reminder.Days)
		if err != nil {
			log.Fatalf("run %d: RunDeadlineReminder returned error: %v", run, err)
		}
		fmt.Printf("run %d: %d new reminder(s)\n", run, n)
	}

	count, err := notiCol.CountDocuments(ctx, filter)
	if err != nil {
		log.Fatalf("failed to count reminders: %v", err)
	}
	if count != 1 {
		fmt.Printf("expected exactly one reminder, found %d\n", count)
		os.Exit(1)
	}

	var result bson.M
	if err := notiCol.FindOne(ctx, filter).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			fmt.Println("no reminder notification found for the test data")
			os.Exit(1)
		}
		log.Fatalf("failed to fetch reminder notification: %v", err)
	}

	fmt.Println("deadline reminder notification inserted:")
	for k, v := range result {
		fmt.Printf("  %s: %#v\n", k, v)
	}
}
