package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// ========================================
// EVENT DTOs
// ========================================

type RecordEventRequest struct {
	UserID    string  `json:"-"`
	Kind      string  `json:"kind" validate:"oneof=clock_in clock_out"`
	Timestamp *string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location  *string `json:"location,omitempty" validate:"omitempty,oneof=office remote"`
	Simulated bool    `json:"simulated"`
}

func (r *RecordEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	errs = append(errs, validator.Struct(r)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// maxSimulationDays bounds a single bulk-simulate call
const maxSimulationDays = 62

type SimulateEventsRequest struct {
	UserID          string  `json:"-"`
	StartDate       string  `json:"start_date" validate:"datetime=2006-01-02"`
	EndDate         string  `json:"end_date" validate:"datetime=2006-01-02"`
	ClockInTime     string  `json:"clock_in_time" validate:"datetime=15:04"`
	ClockOutTime    string  `json:"clock_out_time" validate:"datetime=15:04"`
	Location        *string `json:"location,omitempty" validate:"omitempty,oneof=office remote"`
	IncludeWeekends bool    `json:"include_weekends"`
}

func (r *SimulateEventsRequest) Validate() error {
	errs := validator.Struct(r)

	start, startOK := validator.IsValidDate(r.StartDate)
	end, endOK := validator.IsValidDate(r.EndDate)
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if end.Sub(start) > maxSimulationDays*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "simulation range must not exceed 62 days",
			})
		}
	}

	in, inOK := validator.IsValidClock(r.ClockInTime)
	out, outOK := validator.IsValidClock(r.ClockOutTime)
	if inOK && outOK && out <= in {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be after clock_in_time",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RangeFilter is an inclusive calendar date range from query parameters.
// Both bounds empty means the current month.
type RangeFilter struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// maxRangeDays bounds any single range query
const maxRangeDays = 366

func (f *RangeFilter) Validate() error {
	var errs validator.ValidationErrors

	if (f.From == "") != (f.To == "") {
		errs = append(errs, validator.ValidationError{
			Field:   "range",
			Message: "from and to must be given together",
		})
		return errs
	}
	if f.From == "" {
		return nil
	}

	from, fromOK := validator.IsValidDate(f.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(f.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if fromOK && toOK {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must not be before from",
			})
		} else if to.Sub(from) > maxRangeDays*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "range must not exceed 366 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Bounds resolves the filter to [from, to) instants at local midnight in loc.
// An empty filter resolves to the month containing now.
func (f *RangeFilter) Bounds(loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	if err := f.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if f.From == "" {
		local := now.In(loc)
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	}
	from, err := time.ParseInLocation("2006-01-02", f.From, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	to, err := time.ParseInLocation("2006-01-02", f.To, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return from, to.AddDate(0, 0, 1), nil
}

type TimeEventResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Timestamp         string  `json:"timestamp"`
	Kind              string  `json:"kind"`
	Simulated         bool    `json:"simulated"`
	Location          *string `json:"location,omitempty"`
	Modified          bool    `json:"modified"`
	LastModifiedAt    *string `json:"last_modified_at,omitempty"`
	ModifiedByAdminID *string `json:"modified_by_admin_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func ToResponse(e TimeEvent) TimeEventResponse {
	resp := TimeEventResponse{
		ID:                e.ID,
		UserID:            e.UserID,
		Timestamp:         e.Timestamp.UTC().Format(time.RFC3339),
		Kind:              string(e.Kind),
		Simulated:         e.Simulated,
		Modified:          e.Modified,
		ModifiedByAdminID: e.ModifiedByAdminID,
		CreatedAt:         e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.Location != nil {
		loc := string(*e.Location)
		resp.Location = &loc
	}
	if e.LastModifiedAt != nil {
		s := e.LastModifiedAt.UTC().Format(time.RFC3339)
		resp.LastModifiedAt = &s
	}
	return resp
}

func ToResponses(events []TimeEvent) []TimeEventResponse {
	out := make([]TimeEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, ToResponse(e))
	}
	return out
}
