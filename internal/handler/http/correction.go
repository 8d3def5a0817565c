package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
	Pending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
	}
}

// Submit implements CorrectionHandler.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req correction.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.correctionService.SubmitUserRequest(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to submit correction request", "event_id", req.EventID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction request submitted", result)
}

// History implements CorrectionHandler.
func (h *correctionHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	eventIDs, ok := queryIDs(w, r, "event_id")
	if !ok {
		return
	}
	if len(eventIDs) == 0 {
		response.BadRequest(w, "event_id is required", nil)
		return
	}

	result, err := h.correctionService.GetCorrectionsForEvents(r.Context(), actor, eventIDs)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Apply implements CorrectionHandler.
func (h *correctionHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req correction.ApplyCorrectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EventID, ok = pathID(w, r, "eventID"); !ok {
		return
	}

	result, err := h.correctionService.ApplyCorrection(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to apply correction", "event_id", req.EventID, "admin_id", actor.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction applied", result)
}

// Pending implements CorrectionHandler.
func (h *correctionHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.correctionService.ListPendingRequests(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.correctionService.ApproveRequest(r.Context(), actor, id)
	if err != nil {
		slog.Error("Failed to approve correction request", "correction_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request approved", result)
}

// Reject implements CorrectionHandler.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	// The note is optional, so an empty body is fine
	var req correction.RejectRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.CorrectionID, ok = pathID(w, r, "id"); !ok {
		return
	}

	result, err := h.correctionService.RejectRequest(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to reject correction request", "correction_id", req.CorrectionID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request rejected", result)
}
