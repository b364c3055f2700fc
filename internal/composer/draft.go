package composer

import (
	"fmt"
	"strings"
	"time"
)

// NotFilled marks a field that was missing on a stored draft when it was loaded.
const NotFilled = "未填寫"

// Draft is the post under edit.
type Draft struct {
	ID          string      `json:"id,omitempty"`
	PurposeType PurposeType `json:"purposeType"`

	Title            string `json:"title"`
	OrganizationName string `json:"organizationName"`
	Email            string `json:"email"`
	ContactPerson    string `json:"contactPerson"`
	ContactPhone     string `json:"contactPhone"`
	ContactEmail     string `json:"contactEmail"`

	EventName             string   `json:"eventName"`
	EventType             string   `json:"eventType"`
	EstimatedParticipants string   `json:"estimatedParticipants"`
	Location              string   `json:"location"`
	EventDate             string   `json:"eventDate"`
	EventEndDate          string   `json:"eventEndDate"`
	CooperationReturn     string   `json:"cooperationReturn"`
	ParticipationType     string   `json:"participationType"`
	DemandDescription     string   `json:"demandDescription"`
	EventDescription      string   `json:"eventDescription"`
	PromotionTopic        string   `json:"promotionTopic"`
	PromotionTarget       string   `json:"promotionTarget"`
	PromotionForm         string   `json:"promotionForm"`
	SchoolName            string   `json:"schoolName"`
	CustomItems           []string `json:"customItems"`

	IsDraft bool `json:"isDraft"`
}

// slot returns the backing string of a scalar text field. PurposeType and
// CustomItems have no string slot.
func (d *Draft) slot(f Field) *string {
	switch f {
	case FieldTitle:
		return &d.Title
	case FieldOrganizationName:
		return &d.OrganizationName
	case FieldEmail:
		return &d.Email
	case FieldContactPerson:
		return &d.ContactPerson
	case FieldContactPhone:
		return &d.ContactPhone
	case FieldContactEmail:
		return &d.ContactEmail
	case FieldEventName:
		return &d.EventName
	case FieldEventType:
		return &d.EventType
	case FieldEstimatedParticipants:
		return &d.EstimatedParticipants
	case FieldLocation:
		return &d.Location
	case FieldEventDate:
		return &d.EventDate
	case FieldEventEndDate:
		return &d.EventEndDate
	case FieldCooperationReturn:
		return &d.CooperationReturn
	case FieldParticipationType:
		return &d.ParticipationType
	case FieldDemandDescription:
		return &d.DemandDescription
	case FieldEventDescription:
		return &d.EventDescription
	case FieldPromotionTopic:
		return &d.PromotionTopic
	case FieldPromotionTarget:
		return &d.PromotionTarget
	case FieldPromotionForm:
		return &d.PromotionForm
	case FieldSchoolName:
		return &d.SchoolName
	}
	return nil
}

// TextFields lists the fields that hold a single string value.
func TextFields() []Field {
	out := make([]Field, 0, numFields)
	var d Draft
	for _, f := range AllFields() {
		if d.slot(f) != nil {
			out = append(out, f)
		}
	}
	return out
}

// Value returns the current value of f. CustomItems is joined with ", ".
func (d Draft) Value(f Field) string {
	switch f {
	case FieldPurposeType:
		return string(d.PurposeType)
	case FieldCustomItems:
		return strings.Join(d.CustomItems, ", ")
	}
	if p := d.slot(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns a scalar field. Use SetCustomItems for the item list.
func (d *Draft) Set(f Field, v string) error {
	switch f {
	case FieldPurposeType:
		p, err := ParsePurposeType(v)
		if err != nil {
			return err
		}
		d.PurposeType = p
		return nil
	case FieldCustomItems:
		return fmt.Errorf("%w: %s", ErrNotScalar, f)
	}
	p := d.slot(f)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	*p = v
	return nil
}

// Record is a post as held by the Post Store. Values only carries the text
// fields that are present on the stored document.
type Record struct {
	ID          string
	AuthorID    string
	IsDraft     bool
	PurposeType PurposeType
	Values      map[Field]string
	CustomItems []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Summary is one row of the draft list.
type Summary struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	OrganizationName string      `json:"organizationName"`
	PurposeType      PurposeType `json:"purposeType"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// Hydrate turns a stored record into an editable draft. Text fields missing
// from the record become NotFilled so the gap stays visible in the form.
func Hydrate(r Record) Draft {
	d := Draft{
		ID:          r.ID,
		PurposeType: r.PurposeType,
		IsDraft:     r.IsDraft,
		CustomItems: append([]string(nil), r.CustomItems...),
	}
	for _, f := range TextFields() {
		v, ok := r.Values[f]
		if !ok {
			v = NotFilled
		}
		*d.slot(f) = v
	}
	return d
}

// Stored returns d in the form it is persisted: NotFilled markers left by
// Hydrate become empty and parseable dates are written as DateLayout.
func (d Draft) Stored() Draft {
	d.CustomItems = append([]string(nil), d.CustomItems...)
	for _, f := range TextFields() {
		p := d.slot(f)
		if strings.TrimSpace(*p) == NotFilled {
			*p = ""
		}
	}
	for _, p := range []*string{&d.EventDate, &d.EventEndDate, &d.CooperationReturn} {
		if t, err := ParseDate(*p); err == nil {
			*p = t.Format(DateLayout)
		}
	}
	return d
}

// filled reports whether s counts as user input.
func filled(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != NotFilled
}
