package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/report"
)

// ReportsHandler handles derived read-only views.
type ReportsHandler struct {
	Reports *report.Engine
	Now     func() time.Time
}

// ExpiringSoon handles GET /api/expiring-soon.
func (h *ReportsHandler) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	items, err := h.Reports.ExpiringSoon(r.Context(), h.Now())
	if err != nil {
		domainError(w, r, err, "failed to list expiring items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// SpendingSummary handles GET /api/spending-summary?month=&year=.
func (h *ReportsHandler) SpendingSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var v model.Validation
	month, err := strconv.Atoi(q.Get("month"))
	v.Check(err == nil, "month")
	year, err := strconv.Atoi(q.Get("year"))
	v.Check(err == nil, "year")
	if err := v.Err(); err != nil {
		domainError(w, r, err, "")
		return
	}

	summary, err := h.Reports.SpendingSummary(r.Context(), month, year)
	if err != nil {
		domainError(w, r, err, "failed to compute spending summary")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// Overview handles GET /api/overview.
func (h *ReportsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Reports.Overview(r.Context(), h.Now())
	if err != nil {
		domainError(w, r, err, "failed to build overview")
		return
	}
	jsonResponse(w, http.StatusOK, overview)
}
