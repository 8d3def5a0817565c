package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
)

type ReportHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	View(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Contest(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// List implements ReportHandler.
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	userID, ok := pathUserID(w, r, actor)
	if !ok {
		return
	}

	result, err := h.reportService.ListReports(r.Context(), actor, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Current implements ReportHandler.
func (h *reportHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	userID, ok := pathUserID(w, r, actor)
	if !ok {
		return
	}

	result, err := h.reportService.GetCurrentMonthStatus(r.Context(), actor, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Generate implements ReportHandler.
func (h *reportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req report.GenerateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID, ok = pathUserID(w, r, actor); !ok {
		return
	}

	result, err := h.reportService.GenerateReport(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to generate monthly report", "user_id", req.UserID, "year", req.Year, "month", req.Month, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Monthly report generated", result)
}

// Get implements ReportHandler.
func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.reportService.GetReport(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// View implements ReportHandler.
func (h *reportHandlerImpl) View(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.reportService.MarkViewed(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Accept implements ReportHandler.
func (h *reportHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.reportService.Accept(r.Context(), actor, id)
	if err != nil {
		slog.Error("Failed to accept monthly report", "report_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly report accepted", result)
}

// Contest implements ReportHandler.
func (h *reportHandlerImpl) Contest(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req report.ContestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ReportID, ok = pathID(w, r, "id"); !ok {
		return
	}

	result, err := h.reportService.Contest(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to contest monthly report", "report_id", req.ReportID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly report contested", result)
}
