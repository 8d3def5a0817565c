package attendance

import "errors"

// Attendance domain errors
var (
	ErrEventNotFound      = errors.New("time event not found")
	ErrNotEventOwner      = errors.New("time event belongs to another user")
	ErrSessionAlreadyOpen = errors.New("a work session is already open")
	ErrNoOpenSession      = errors.New("no open work session to clock out of")
	ErrBreaksLaterPair    = errors.New("a later time event would be left unpaired")
	ErrInvalidRange       = errors.New("invalid date range")
)
