package composer

import "fmt"

// Field identifies one input of the post composer.
type Field uint8

const (
	FieldTitle Field = iota
	FieldOrganizationName
	FieldEmail
	FieldContactPerson
	FieldContactPhone
	FieldContactEmail
	FieldPurposeType
	FieldCustomItems
	FieldEventName
	FieldEventType
	FieldEstimatedParticipants
	FieldLocation
	FieldEventDate
	FieldEventEndDate
	FieldCooperationReturn
	FieldParticipationType
	FieldDemandDescription
	FieldEventDescription
	FieldPromotionTopic
	FieldPromotionTarget
	FieldPromotionForm
	FieldSchoolName

	numFields
)

var fieldNames = [numFields]string{
	FieldTitle:                 "title",
	FieldOrganizationName:      "organizationName",
	FieldEmail:                 "email",
	FieldContactPerson:         "contactPerson",
	FieldContactPhone:          "contactPhone",
	FieldContactEmail:          "contactEmail",
	FieldPurposeType:           "purposeType",
	FieldCustomItems:           "customItems",
	FieldEventName:             "eventName",
	FieldEventType:             "eventType",
	FieldEstimatedParticipants: "estimatedParticipants",
	FieldLocation:              "location",
	FieldEventDate:             "eventDate",
	FieldEventEndDate:          "eventEndDate",
	FieldCooperationReturn:     "cooperationReturn",
	FieldParticipationType:     "participationType",
	FieldDemandDescription:     "demandDescription",
	FieldEventDescription:      "eventDescription",
	FieldPromotionTopic:        "promotionTopic",
	FieldPromotionTarget:       "promotionTarget",
	FieldPromotionForm:         "promotionForm",
	FieldSchoolName:            "schoolName",
}

func (f Field) String() string {
	if f >= numFields {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
	return fieldNames[f]
}

// MarshalText makes Field usable as a JSON object key.
func (f Field) MarshalText() ([]byte, error) {
	if f >= numFields {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, uint8(f))
	}
	return []byte(fieldNames[f]), nil
}

func (f *Field) UnmarshalText(b []byte) error {
	v, ok := ParseField(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, string(b))
	}
	*f = v
	return nil
}

// ParseField resolves a field by its wire name.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// AllFields lists every composer field in declaration order.
func AllFields() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// PurposeType is the category selector of a post.
type PurposeType string

const (
	PurposeUnset             PurposeType = ""
	PurposeActivitySupport   PurposeType = "activity_support"
	PurposeEducationOutreach PurposeType = "education_outreach"
	PurposeCommunityService  PurposeType = "community_service"
	PurposeCampusPromotion   PurposeType = "campus_promotion"
)

// PurposeTypes lists the selectable categories.
func PurposeTypes() []PurposeType {
	return []PurposeType{
		PurposeActivitySupport,
		PurposeEducationOutreach,
		PurposeCommunityService,
		PurposeCampusPromotion,
	}
}

func (p PurposeType) Valid() bool {
	_, ok := purposeRequired[p]
	return ok
}

// ParsePurposeType accepts the wire value. An empty string is the unset purpose.
func ParsePurposeType(s string) (PurposeType, error) {
	p := PurposeType(s)
	if p == PurposeUnset || p.Valid() {
		return p, nil
	}
	return PurposeUnset, fmt.Errorf("%w: %q", ErrUnknownPurpose, s)
}

// commonRequired applies to every post regardless of purpose.
var commonRequired = []Field{
	FieldTitle,
	FieldOrganizationName,
	FieldEmail,
	FieldContactPerson,
	FieldContactPhone,
	FieldContactEmail,
	FieldPurposeType,
	FieldCustomItems,
	FieldEventEndDate,
}

// purposeRequired holds the additional required fields per category.
// For campus promotion the "location" input carries the school name.
var purposeRequired = map[PurposeType][]Field{
	PurposeActivitySupport: {
		FieldEventName, FieldEventType, FieldEstimatedParticipants, FieldLocation,
		FieldEventDate, FieldEventEndDate, FieldParticipationType, FieldCooperationReturn,
	},
	PurposeEducationOutreach: {
		FieldEventName, FieldEstimatedParticipants, FieldLocation, FieldEventDate,
		FieldEventEndDate, FieldParticipationType, FieldEventDescription,
		FieldDemandDescription, FieldCooperationReturn,
	},
	PurposeCommunityService: {
		FieldEventName, FieldEventType, FieldEstimatedParticipants, FieldLocation,
		FieldEventDate, FieldEventEndDate, FieldParticipationType, FieldEventDescription,
		FieldDemandDescription, FieldCooperationReturn,
	},
	PurposeCampusPromotion: {
		FieldPromotionTopic, FieldPromotionTarget, FieldPromotionForm, FieldSchoolName,
		FieldEstimatedParticipants, FieldEventDate, FieldEventEndDate,
		FieldParticipationType, FieldDemandDescription, FieldCooperationReturn,
	},
}

// RequiredFields returns the union of common and category fields for p, in
// declaration order. With an unset purpose only the common fields apply.
func RequiredFields(p PurposeType) []Field {
	var set [numFields]bool
	for _, f := range commonRequired {
		set[f] = true
	}
	for _, f := range purposeRequired[p] {
		set[f] = true
	}
	out := make([]Field, 0, numFields)
	for i, ok := range set {
		if ok {
			out = append(out, Field(i))
		}
	}
	return out
}

// IsRequired reports whether f must be filled for purpose p.
func IsRequired(p PurposeType, f Field) bool {
	for _, r := range RequiredFields(p) {
		if r == f {
			return true
		}
	}
	return false
}
