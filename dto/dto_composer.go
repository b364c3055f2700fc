package dto

import (
	"time"

	"github.com/pllus/clubmatch/internal/composer"
	"github.com/pllus/clubmatch/internal/session"
)

type OpenSessionReq struct {
	DraftID string `json:"draftId" validate:"omitempty,mongodb" example:"68bd8d30b98a8dce0eab0db6"`
}

// SetFieldReq edits one field. customItems takes Items; every other field
// takes Value.
type SetFieldReq struct {
	Field string   `json:"field" validate:"required,max=64" example:"eventDate"`
	Value *string  `json:"value" validate:"omitempty" example:"2025-06-15"`
	Items []string `json:"items" validate:"omitempty,max=50,dive,max=200"`
}

type SessionResp struct {
	SessionID      string             `json:"sessionId" example:"0f0e6f0c-5c0c-4c4a-9a53-2b2f4f1f0c11"`
	State          composer.State     `json:"state" swaggertype:"string" example:"editing"`
	Draft          composer.Draft     `json:"draft"`
	Drafts         []composer.Summary `json:"drafts"`
	RequiredFields []composer.Field   `json:"requiredFields" swaggertype:"array,string"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

func NewSessionResp(s *session.Session) SessionResp {
	snap := s.Snapshot
	drafts := snap.Drafts
	if drafts == nil {
		drafts = []composer.Summary{}
	}
	return SessionResp{
		SessionID:      s.ID,
		State:          snap.State,
		Draft:          snap.Draft,
		Drafts:         drafts,
		RequiredFields: composer.RequiredFields(snap.Draft.PurposeType),
		UpdatedAt:      s.UpdatedAt,
	}
}

// ActionResp is returned by save, publish, load and delete.
type ActionResp struct {
	Session         *SessionResp         `json:"session,omitempty"`
	Notice          composer.Notice      `json:"notice"`
	FieldErrors     composer.FieldErrors `json:"fieldErrors,omitempty" swaggertype:"object"`
	Focus           *composer.Field      `json:"focus,omitempty" swaggertype:"string"`
	Redirect        string               `json:"redirect,omitempty" example:"/posts"`
	RedirectAfterMs int64                `json:"redirectAfterMs,omitempty" example:"2000"`
}

func NewActionResp(s *session.Session, out composer.Outcome) ActionResp {
	resp := ActionResp{
		Notice:   out.Notice,
		Focus:    out.Focus,
		Redirect: out.Redirect,
	}
	if s != nil {
		v := NewSessionResp(s)
		resp.Session = &v
	}
	if out.Validation != nil {
		resp.FieldErrors = out.Validation.FieldErrors
	}
	if out.RedirectAfter > 0 {
		resp.RedirectAfterMs = out.RedirectAfter.Milliseconds()
	}
	return resp
}

type ValidateResp struct {
	FieldErrors composer.FieldErrors `json:"fieldErrors" swaggertype:"object"`
	IsValid     bool                 `json:"isValid"`
	Focus       *composer.Field      `json:"focus,omitempty" swaggertype:"string"`
}

func NewValidateResp(r composer.Result) ValidateResp {
	resp := ValidateResp{FieldErrors: r.FieldErrors, IsValid: r.Valid}
	if f, ok := composer.FirstErrorTarget(r.FieldErrors); ok {
		resp.Focus = &f
	}
	return resp
}
