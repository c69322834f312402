package handlers

import (
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RunHandler struct {
	svc *service.RunService
}

func NewRunHandler(svc *service.RunService) *RunHandler {
	return &RunHandler{svc: svc}
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.svc.List(r.Context(), limit)
	if err != nil {
		writeError(w, statusFor(err), "failed to list runs")
		return
	}
	if runs == nil {
		runs = []domain.AnalysisRun{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

type runTrustResponse struct {
	Run  *domain.AnalysisRun `json:"run"`
	Rows []domain.TrustRow   `json:"rows"`
}

func (h *RunHandler) Trust(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, rows, err := h.svc.Trust(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		msg := "failed to get run"
		if status == http.StatusNotFound {
			msg = "run not found"
		}
		writeError(w, status, msg)
		return
	}
	if rows == nil {
		rows = []domain.TrustRow{}
	}
	writeJSON(w, http.StatusOK, runTrustResponse{Run: run, Rows: rows})
}
