package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pllus/clubmatch/internal/metrics"
	m "github.com/pllus/clubmatch/internal/models"
)

const (
	NotiPostPublished    m.NotiType = "POST_PUBLISHED"
	NotiDeadlineReminder m.NotiType = "DEADLINE_REMINDER"
)

// fallback when the author has no organization profile
const someOrganization = "某個組織"

func BuildTitleBody(t m.NotiType, p m.NotiParams) (title, body string, err error) {
	switch t {
	case NotiPostPublished:
		if p.PostTitle == "" {
			return "", "", errors.New("missing PostTitle")
		}
		author := p.AuthorName
		if author == "" {
			author = someOrganization
		}
		return fmt.Sprintf("%s發布了新文章", author),
			fmt.Sprintf("您訂閱的%s剛剛發布了新文章「%s」", author, p.PostTitle), nil

	case NotiDeadlineReminder:
		if p.PostTitle == "" || p.Deadline == "" {
			return "", "", errors.New("missing PostTitle/Deadline")
		}
		return "贊助截止日即將到來",
			fmt.Sprintf("草稿「%s」的合作截止日為 %s，請盡快完成並發布。", p.PostTitle, p.Deadline), nil
	}
	return "", "", fmt.Errorf("unknown noti type: %s", t)
}

func postLink(id bson.ObjectID) string { return "/posts/" + id.Hex() }

// NotifyMany inserts the same notification for every user in one unordered
// bulk write.
func NotifyMany(ctx context.Context, col *mongo.Collection,
	userIDs []bson.ObjectID, typ m.NotiType, ref m.Ref, p m.NotiParams) error {

	if len(userIDs) == 0 {
		return nil
	}
	title, body, err := BuildTitleBody(typ, p)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(userIDs))
	for _, uid := range userIDs {
		if uid.IsZero() {
			return fmt.Errorf("notifyMany: found zero userID in payload")
		}
		writes = append(writes, &mongo.InsertOneModel{Document: m.Notification{
			UserID:    uid,
			Type:      typ,
			Title:     title,
			Body:      body,
			Link:      postLink(ref.ID),
			Ref:       ref,
			CreatedAt: now,
		}})
	}
	_, err = col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// MessageMany mirrors a publish notification into each subscriber's inbox.
func MessageMany(ctx context.Context, col *mongo.Collection,
	senderID bson.ObjectID, receiverIDs []bson.ObjectID, p m.NotiParams) error {

	if len(receiverIDs) == 0 {
		return nil
	}
	_, body, err := BuildTitleBody(NotiPostPublished, p)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(receiverIDs))
	for _, rid := range receiverIDs {
		writes = append(writes, &mongo.InsertOneModel{Document: m.Message{
			SenderID:   senderID,
			ReceiverID: rid,
			Content:    body,
			Type:       m.MessageSubscription,
			PostID:     p.PostID,
			PostTitle:  p.PostTitle,
			Timestamp:  now,
		}})
	}
	_, err = col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

type subscriberSource interface {
	SubscriberIDs(ctx context.Context, organizationID bson.ObjectID) ([]bson.ObjectID, error)
}

type organizationNames interface {
	FindName(ctx context.Context, userID bson.ObjectID) (string, bool, error)
}

// SubscriberNotifier tells an organization's followers about a new post.
type SubscriberNotifier struct {
	subs     subscriberSource
	orgs     organizationNames
	notis    *mongo.Collection
	messages *mongo.Collection
	log      *zap.Logger
}

func NewSubscriberNotifier(subs subscriberSource, orgs organizationNames,
	notis, messages *mongo.Collection, log *zap.Logger) *SubscriberNotifier {
	return &SubscriberNotifier{subs: subs, orgs: orgs, notis: notis, messages: messages, log: log}
}

// NotifyPostPublished returns how many subscribers were notified.
func (n *SubscriberNotifier) NotifyPostPublished(ctx context.Context, authorID, postID, title string) (int, error) {
	author, err := bson.ObjectIDFromHex(authorID)
	if err != nil {
		return 0, fmt.Errorf("invalid author id: %w", err)
	}
	post, err := bson.ObjectIDFromHex(postID)
	if err != nil {
		return 0, fmt.Errorf("invalid post id: %w", err)
	}

	userIDs, err := n.subs.SubscriberIDs(ctx, author)
	if err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	name, ok, err := n.orgs.FindName(ctx, author)
	if err != nil {
		n.log.Warn("author name lookup failed", zap.String("author_id", authorID), zap.Error(err))
	}
	if !ok {
		name = ""
	}
	p := m.NotiParams{AuthorName: name, PostTitle: title, PostID: post}
	ref := m.Ref{Entity: "post", ID: post}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return NotifyMany(gctx, n.notis, userIDs, NotiPostPublished, ref, p) })
	g.Go(func() error { return MessageMany(gctx, n.messages, author, userIDs, p) })
	if err := g.Wait(); err != nil {
		return 0, err
	}
	metrics.NotificationsSent.WithLabelValues(string(NotiPostPublished)).Add(float64(len(userIDs)))
	return len(userIDs), nil
}

type deadlineSource interface {
	DraftsWithDeadlineBetween(ctx context.Context, from, to string) ([]m.Post, error)
}

// RunDeadlineReminder notifies authors whose unpublished draft has a
// cooperation deadline within the next days. One notification per
// draft and deadline; reruns upsert instead of duplicating. Returns the
// number of reminders written for the first time.
func RunDeadlineReminder(ctx context.Context, posts deadlineSource, col *mongo.Collection,
	loc *time.Location, days int) (int, error) {

	today := time.Now().In(loc)
	from := today.Format("2006-01-02")
	to := today.AddDate(0, 0, days).Format("2006-01-02")

	drafts, err := posts.DraftsWithDeadlineBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	var writes []mongo.WriteModel
	now := time.Now().UTC()
	for _, d := range drafts {
		if d.AuthorID.IsZero() {
			continue
		}
		title := d.Title
		if title == "" {
			title = "未命名草稿"
		}
		p := m.NotiParams{PostTitle: title, PostID: d.ID, Deadline: d.CooperationReturn}
		ntitle, body, err := BuildTitleBody(NotiDeadlineReminder, p)
		if err != nil {
			continue
		}
		// ref.id and meta.deadline come from the filter on insert; an existing
		// reminder keeps its read flag.
		writes = append(writes, &mongo.UpdateOneModel{
			Filter: bson.M{
				"user_id":       d.AuthorID,
				"type":          string(NotiDeadlineReminder),
				"ref.id":        d.ID,
				"meta.deadline": d.CooperationReturn,
			},
			Update: bson.M{"$setOnInsert": bson.M{
				"title":          ntitle,
				"body":           body,
				"link":           "/composer?draft=" + d.ID.Hex(),
				"ref.entity":     "post",
				"meta.lead_days": days,
				"created_at":     now,
				"read":           false,
			}},
			Upsert: boolPtr(true),
		})
	}

	if len(writes) == 0 {
		return 0, nil
	}
	res, err := col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	created := int(res.UpsertedCount)
	metrics.NotificationsSent.WithLabelValues(string(NotiDeadlineReminder)).Add(float64(created))
	return created, nil
}

func boolPtr(b bool) *bool { return &b }
