package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/pllus/clubmatch/internal/composer"
	"github.com/pllus/clubmatch/internal/cursor"
	"github.com/pllus/clubmatch/internal/models"
	"github.com/pllus/clubmatch/internal/utils"
)

const PostsCollection = "posts"

// fieldKeys maps composer text fields to their document keys.
var fieldKeys = map[composer.Field]string{
	composer.FieldTitle:                 "title",
	composer.FieldOrganizationName:      "organization_name",
	composer.FieldEmail:                 "email",
	composer.FieldContactPerson:         "contact_person",
	composer.FieldContactPhone:          "contact_phone",
	composer.FieldContactEmail:          "contact_email",
	composer.FieldEventName:             "event_name",
	composer.FieldEventType:             "event_type",
	composer.FieldEstimatedParticipants: "estimated_participants",
	composer.FieldLocation:              "location",
	composer.FieldEventDate:             "event_date",
	composer.FieldEventEndDate:          "event_end_date",
	composer.FieldCooperationReturn:     "cooperation_return",
	composer.FieldParticipationType:     "participation_type",
	composer.FieldDemandDescription:     "demand_description",
	composer.FieldEventDescription:      "event_description",
	composer.FieldPromotionTopic:        "promotion_topic",
	composer.FieldPromotionTarget:       "promotion_target",
	composer.FieldPromotionForm:         "promotion_form",
	composer.FieldSchoolName:            "school_name",
}

// PostRepository is the Mongo-backed Post Store.
type PostRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col: db.Collection(PostsCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// content is the $set document for every editable key of d.
func content(d composer.Draft) bson.M {
	set := bson.M{
		"purpose_type": string(d.PurposeType),
		"custom_items": nonNil(d.CustomItems),
	}
	for f, key := range fieldKeys {
		set[key] = d.Value(f)
	}
	return set
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *PostRepository) CreatePost(ctx context.Context, authorID string, d composer.Draft) (string, error) {
	author, err := utils.Oid(authorID)
	if err != nil {
		return "", fmt.Errorf("invalid author id: %w", err)
	}
	now := r.now()
	doc := content(d)
	doc["author_id"] = author
	doc["is_draft"] = d.IsDraft
	doc["created_at"] = now
	doc["updated_at"] = now
	if !d.IsDraft {
		doc["published_at"] = now
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id %T", res.InsertedID)
	}
	return id.Hex(), nil
}

// UpdateDraft overwrites the content of a stored draft. Published posts are
// never matched, so a post cannot move back to draft.
func (r *PostRepository) UpdateDraft(ctx context.Context, authorID, id string, d composer.Draft) error {
	filter, err := draftFilter(authorID, id)
	if err != nil {
		return err
	}
	set := content(d)
	set["updated_at"] = r.now()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return composer.ErrDraftNotFound
	}
	return nil
}

func (r *PostRepository) PublishDraft(ctx context.Context, authorID, id string) error {
	filter, err := draftFilter(authorID, id)
	if err != nil {
		return err
	}
	now := r.now()
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"is_draft":     false,
		"published_at": now,
		"updated_at":   now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return composer.ErrDraftNotFound
	}
	return nil
}

// GetPostByID decodes into bson.M so keys absent on the document stay absent
// in Record.Values.
func (r *PostRepository) GetPostByID(ctx context.Context, id string) (*composer.Record, error) {
	oid, err := utils.Oid(id)
	if err != nil {
		return nil, composer.ErrDraftNotFound
	}
	var doc bson.M
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, composer.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := recordFromDoc(doc)
	return &rec, nil
}

func recordFromDoc(doc bson.M) composer.Record {
	rec := composer.Record{
		ID:          utils.ExtractOID(doc, "_id").Hex(),
		AuthorID:    utils.ExtractOID(doc, "author_id").Hex(),
		Values:      make(map[composer.Field]string, len(fieldKeys)),
		CustomItems: utils.ExtractStrings(doc, "custom_items"),
	}
	if v, ok := doc["is_draft"].(bool); ok {
		rec.IsDraft = v
	}
	if p, ok := utils.ExtractString(doc, "purpose_type"); ok {
		// unknown stored purposes load as unset
		rec.PurposeType, _ = composer.ParsePurposeType(p)
	}
	for f, key := range fieldKeys {
		if v, ok := utils.ExtractString(doc, key); ok {
			rec.Values[f] = v
		}
	}
	rec.CreatedAt, _ = utils.ExtractTime(doc, "created_at")
	rec.UpdatedAt, _ = utils.ExtractTime(doc, "updated_at")
	return rec
}

func (r *PostRepository) GetUserDrafts(ctx context.Context, userID string) ([]composer.Summary, error) {
	author, err := utils.Oid(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"title": 1, "organization_name": 1, "purpose_type": 1, "created_at": 1})

	cur, err := r.col.Find(ctx, bson.M{"author_id": author, "is_draft": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]composer.Summary, 0, 8)
	for cur.Next(ctx) {
		var row struct {
			ID               bson.ObjectID `bson:"_id"`
			Title            string        `bson:"title"`
			OrganizationName string        `bson:"organization_name"`
			PurposeType      string        `bson:"purpose_type"`
			CreatedAt        time.Time     `bson:"created_at"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, composer.Summary{
			ID:               row.ID.Hex(),
			Title:            row.Title,
			OrganizationName: row.OrganizationName,
			PurposeType:      composer.PurposeType(row.PurposeType),
			CreatedAt:        row.CreatedAt,
		})
	}
	return out, cur.Err()
}

// DeletePost removes one of the author's drafts.
func (r *PostRepository) DeletePost(ctx context.Context, authorID, id string) error {
	filter, err := draftFilter(authorID, id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return composer.ErrDraftNotFound
	}
	return nil
}

func draftFilter(authorID, id string) (bson.M, error) {
	oid, err := utils.Oid(id)
	if err != nil {
		return nil, composer.ErrDraftNotFound
	}
	author, err := utils.Oid(authorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id: %w", err)
	}
	return bson.M{"_id": oid, "author_id": author, "is_draft": true}, nil
}

// ListPublished returns public posts, newest first, keyset paginated on
// published_at + _id.
func (r *PostRepository) ListPublished(ctx context.Context, limit int64, after string) ([]models.Post, *string, bool, error) {
	filter := bson.M{"is_draft": false}
	if after != "" {
		at, id, err := cursor.Decode(after)
		if err != nil {
			return nil, nil, false, ErrBadCursor
		}
		filter = bson.M{"$and": []bson.M{filter, cursor.After("published_at", at, id)}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, false, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, nil, false, err
	}

	hasMore := int64(len(posts)) > limit
	if hasMore {
		posts = posts[:limit]
	}
	var next *string
	if hasMore && len(posts) > 0 {
		last := posts[len(posts)-1]
		at := last.CreatedAt
		if last.PublishedAt != nil {
			at = *last.PublishedAt
		}
		s := cursor.Encode(at, last.ID)
		next = &s
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, next, hasMore, nil
}

// GetPublished returns a public post; drafts are reported as not found.
func (r *PostRepository) GetPublished(ctx context.Context, id string) (*models.Post, error) {
	oid, err := utils.Oid(id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	var p models.Post
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "is_draft": false}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DraftsWithDeadlineBetween lists unpublished drafts whose cooperation
// deadline (yyyy-mm-dd) falls in [from, to].
func (r *PostRepository) DraftsWithDeadlineBetween(ctx context.Context, from, to string) ([]models.Post, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"is_draft":           true,
		"cooperation_return": bson.M{"$gte": from, "$lte": to},
	}, options.Find().SetProjection(bson.M{
		"author_id": 1, "title": 1, "cooperation_return": 1,
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
