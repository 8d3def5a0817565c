package correction

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// ========================================
// CORRECTION REQUESTS
// ========================================

type ApplyCorrectionRequest struct {
	EventID   string  `json:"-"`
	Timestamp *string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Kind      *string `json:"kind,omitempty" validate:"omitempty,oneof=clock_in clock_out"`
	Reason    string  `json:"reason" validate:"required"`
}

func (r *ApplyCorrectionRequest) Validate() error {
	errs := validateChange(r.EventID, r.Timestamp, r.Kind, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ApplyCorrectionRequest) Changes() Changes {
	return parseChanges(r.Timestamp, r.Kind)
}

type SubmitRequest struct {
	EventID   string  `json:"event_id"`
	Timestamp *string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Kind      *string `json:"kind,omitempty" validate:"omitempty,oneof=clock_in clock_out"`
	Reason    string  `json:"reason" validate:"required"`
}

func (r *SubmitRequest) Validate() error {
	errs := validateChange(r.EventID, r.Timestamp, r.Kind, r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *SubmitRequest) Changes() Changes {
	return parseChanges(r.Timestamp, r.Kind)
}

type RejectRequest struct {
	CorrectionID string  `json:"-"`
	Note         *string `json:"note,omitempty"`
}

func validateChange(eventID string, timestamp, kind *string, body interface{}) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(eventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	} else if !validator.IsValidUUID(eventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id must be a UUIDv7",
		})
	}

	if timestamp == nil && kind == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "changes",
			Message: "timestamp or kind is required",
		})
	}

	return append(errs, validator.Struct(body)...)
}

// parseChanges assumes the values passed validation.
func parseChanges(timestamp, kind *string) Changes {
	var c Changes
	if timestamp != nil {
		if ts, ok := validator.IsValidDateTime(*timestamp); ok {
			ts = ts.UTC()
			c.Timestamp = &ts
		}
	}
	if kind != nil {
		k := attendance.Kind(*kind)
		c.Kind = &k
	}
	return c
}

// ========================================
// CORRECTION RESPONSES
// ========================================

type EventValuesResponse struct {
	Timestamp *string `json:"timestamp,omitempty"`
	Kind      *string `json:"kind,omitempty"`
}

func toValuesResponse(v EventValues) EventValuesResponse {
	var resp EventValuesResponse
	if v.Timestamp != nil {
		ts := v.Timestamp.UTC().Format(time.RFC3339)
		resp.Timestamp = &ts
	}
	if v.Kind != nil {
		kind := string(*v.Kind)
		resp.Kind = &kind
	}
	return resp
}

type CorrectionResponse struct {
	ID            string              `json:"id"`
	EventID       string              `json:"event_id"`
	UserID        string              `json:"user_id"`
	AdminID       *string             `json:"admin_id,omitempty"`
	Source        string              `json:"source"`
	Field         string              `json:"field"`
	PreviousValue EventValuesResponse `json:"previous_value"`
	NewValue      EventValuesResponse `json:"new_value"`
	Reason        string              `json:"reason"`
	Status        string              `json:"status"`
	ReviewedBy    *string             `json:"reviewed_by,omitempty"`
	ReviewedAt    *string             `json:"reviewed_at,omitempty"`
	ReviewNote    *string             `json:"review_note,omitempty"`
	CreatedAt     string              `json:"created_at"`
}

func ToResponse(c Correction) CorrectionResponse {
	resp := CorrectionResponse{
		ID:            c.ID,
		EventID:       c.EventID,
		UserID:        c.UserID,
		AdminID:       c.AdminID,
		Source:        string(c.Source),
		Field:         string(c.Field),
		PreviousValue: toValuesResponse(c.PreviousValue),
		NewValue:      toValuesResponse(c.NewValue),
		Reason:        c.Reason,
		Status:        string(c.Status),
		ReviewedBy:    c.ReviewedBy,
		ReviewNote:    c.ReviewNote,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.ReviewedAt != nil {
		reviewedAt := c.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

func ToResponses(list []Correction) []CorrectionResponse {
	out := make([]CorrectionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToResponse(c))
	}
	return out
}

// EventHistoryResponse is the audit trail of one event together with the
// original values recovered from it.
type EventHistoryResponse struct {
	EventID     string               `json:"event_id"`
	Original    EventValuesResponse  `json:"original"`
	Current     EventValuesResponse  `json:"current"`
	Corrections []CorrectionResponse `json:"corrections"`
}

func ToHistoryResponse(event attendance.TimeEvent, history []Correction) EventHistoryResponse {
	original := Reconstruct(event, history)
	return EventHistoryResponse{
		EventID:     event.ID,
		Original:    toValuesResponse(ValuesOf(original, FieldMultiple)),
		Current:     toValuesResponse(ValuesOf(event, FieldMultiple)),
		Corrections: ToResponses(history),
	}
}
