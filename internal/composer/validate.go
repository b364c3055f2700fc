package composer

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the date inputs.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^[0-9]+$`)

// FieldErrors maps every field to true when it fails its rule.
type FieldErrors map[Field]bool

// Invalid lists the failing fields in declaration order.
func (fe FieldErrors) Invalid() []Field {
	var out []Field
	for _, f := range AllFields() {
		if fe[f] {
			out = append(out, f)
		}
	}
	return out
}

// Result is the outcome of one validation pass. It is never persisted.
type Result struct {
	FieldErrors FieldErrors `json:"fieldErrors"`
	Valid       bool        `json:"isValid"`
}

// Validate checks d against the rules of purpose p. Every field is present
// in the returned map; fields that do not apply to p are always false.
func Validate(d Draft, p PurposeType) Result {
	errs := make(FieldErrors, numFields)
	for _, f := range AllFields() {
		errs[f] = false
	}

	for _, f := range commonRequired {
		errs[f] = !satisfied(d, p, f)
	}

	// Nothing to check the category rules against.
	if !p.Valid() {
		return finish(errs)
	}

	for _, f := range purposeRequired[p] {
		if !satisfied(d, p, f) {
			errs[f] = true
		}
	}

	if filled(d.CooperationReturn) && filled(d.EventDate) {
		deadline, err1 := ParseDate(d.CooperationReturn)
		start, err2 := ParseDate(d.EventDate)
		if err1 == nil && err2 == nil && deadline.After(start) {
			errs[FieldCooperationReturn] = true
		}
	}

	return finish(errs)
}

func finish(errs FieldErrors) Result {
	valid := true
	for _, bad := range errs {
		if bad {
			valid = false
			break
		}
	}
	return Result{FieldErrors: errs, Valid: valid}
}

func satisfied(d Draft, p PurposeType, f Field) bool {
	switch f {
	case FieldPurposeType:
		return p.Valid()
	case FieldContactPhone:
		return filled(d.ContactPhone) && phonePattern.MatchString(strings.TrimSpace(d.ContactPhone))
	case FieldCustomItems:
		for _, item := range d.CustomItems {
			if filled(item) {
				return true
			}
		}
		return false
	}
	return filled(d.Value(f))
}

// ParseDate reads a calendar date. Full RFC 3339 timestamps are accepted and
// truncated to their date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
