package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
)

type WorktimeHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Summaries(w http.ResponseWriter, r *http.Request)
	Overtime(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
}

type worktimeHandlerImpl struct {
	worktimeService worktime.WorktimeService
}

func NewWorktimeHandler(worktimeService worktime.WorktimeService) WorktimeHandler {
	return &worktimeHandlerImpl{
		worktimeService: worktimeService,
	}
}

// Today implements WorktimeHandler.
func (h *worktimeHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.worktimeService.GetTodayStatus(r.Context(), actor, actor.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summaries implements WorktimeHandler.
func (h *worktimeHandlerImpl) Summaries(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	userID, ok := pathUserID(w, r, actor)
	if !ok {
		return
	}

	result, err := h.worktimeService.GetDailySummaries(r.Context(), actor, userID, rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Overtime implements WorktimeHandler.
func (h *worktimeHandlerImpl) Overtime(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	userID, ok := pathUserID(w, r, actor)
	if !ok {
		return
	}

	result, err := h.worktimeService.GetOvertimeAssessment(r.Context(), actor, userID, rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Overview implements WorktimeHandler.
func (h *worktimeHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	result, err := h.worktimeService.GetTeamOverview(r.Context(), actor, rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
