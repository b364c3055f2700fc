package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a composer post in the posts collection. Drafts carry is_draft=true
// and never appear in public listings.
type Post struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID    bson.ObjectID `json:"authorId" bson:"author_id"`
	PurposeType string        `json:"purposeType" bson:"purpose_type"`

	Title            string `json:"title" bson:"title"`
	OrganizationName string `json:"organizationName" bson:"organization_name"`
	Email            string `json:"email" bson:"email"`
	ContactPerson    string `json:"contactPerson" bson:"contact_person"`
	ContactPhone     string `json:"contactPhone" bson:"contact_phone"`
	ContactEmail     string `json:"contactEmail" bson:"contact_email"`

	EventName             string   `json:"eventName" bson:"event_name"`
	EventType             string   `json:"eventType" bson:"event_type"`
	EstimatedParticipants string   `json:"estimatedParticipants" bson:"estimated_participants"`
	Location              string   `json:"location" bson:"location"`
	EventDate             string   `json:"eventDate" bson:"event_date"`
	EventEndDate          string   `json:"eventEndDate" bson:"event_end_date"`
	CooperationReturn     string   `json:"cooperationReturn" bson:"cooperation_return"`
	ParticipationType     string   `json:"participationType" bson:"participation_type"`
	DemandDescription     string   `json:"demandDescription" bson:"demand_description"`
	EventDescription      string   `json:"eventDescription" bson:"event_description"`
	PromotionTopic        string   `json:"promotionTopic" bson:"promotion_topic"`
	PromotionTarget       string   `json:"promotionTarget" bson:"promotion_target"`
	PromotionForm         string   `json:"promotionForm" bson:"promotion_form"`
	SchoolName            string   `json:"schoolName" bson:"school_name"`
	CustomItems           []string `json:"customItems" bson:"custom_items"`

	IsDraft     bool       `json:"isDraft" bson:"is_draft"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
}
