package correction

import "errors"

var (
	ErrCorrectionNotFound        = errors.New("correction not found")
	ErrNoChanges                 = errors.New("correction must change the timestamp or the kind of the event")
	ErrCorrectionAlreadyReviewed = errors.New("correction has already been approved or rejected")
	ErrStaleRequest              = errors.New("event was corrected after this request was submitted")
)
