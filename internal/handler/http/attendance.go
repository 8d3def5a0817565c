package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	RecordMine(w http.ResponseWriter, r *http.Request)
	RecordForUser(w http.ResponseWriter, r *http.Request)
	Simulate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// RecordMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.RecordEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = actor.UserID

	result, err := h.attendanceService.RecordEvent(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to record time event", "user_id", actor.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time event recorded", result)
}

// RecordForUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecordForUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.RecordEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID, ok = pathUserID(w, r, actor); !ok {
		return
	}

	result, err := h.attendanceService.RecordEvent(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to record time event", "user_id", req.UserID, "admin_id", actor.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time event recorded", result)
}

// Simulate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Simulate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req attendance.SimulateEventsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID, ok = pathUserID(w, r, actor); !ok {
		return
	}

	result, err := h.attendanceService.SimulateEvents(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to simulate time events", "user_id", req.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Simulated time events recorded", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	userID, ok := pathUserID(w, r, actor)
	if !ok {
		return
	}

	result, err := h.attendanceService.ListEvents(r.Context(), actor, userID, rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
