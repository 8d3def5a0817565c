package report

import "errors"

var (
	ErrReportNotFound        = errors.New("monthly report not found")
	ErrReportAlreadyExists   = errors.New("monthly report already generated for this period")
	ErrReportNotViewed       = errors.New("monthly report must be viewed before it can be accepted")
	ErrReportAlreadyReviewed = errors.New("monthly report has already been accepted or contested")
	ErrNotReportOwner        = errors.New("only the report owner can review it")
	ErrInvalidPeriod         = errors.New("report period has not ended yet")
	ErrContestReasonTooShort = errors.New("contest reason is too short")
)
