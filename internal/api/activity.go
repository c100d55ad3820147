package api

import (
	"net/http"

	"github.com/erazemk/shramba/internal/inventory"
	"github.com/erazemk/shramba/internal/ledger"
	"github.com/erazemk/shramba/internal/model"
)

// ActivityHandler handles activity log endpoints.
type ActivityHandler struct {
	Ledger    *ledger.Ledger
	Inventory *inventory.Service
}

type createActivityRequest struct {
	TakenBy  string `json:"takenBy"`
	ItemName string `json:"itemName"`
	Date     string `json:"date"`
	Message  string `json:"message"`
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.ListRecent(r.Context())
	if err != nil {
		domainError(w, r, err, "failed to list activity")
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Create handles POST /api/activity. takenBy defaults to the caller.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TakenBy == "" {
		req.TakenBy = caller(r.Context()).Name
	}

	in := model.NewActivity{
		TakenBy:  req.TakenBy,
		ItemName: req.ItemName,
		Message:  req.Message,
	}
	if date := parseDate(req.Date); date != nil {
		in.Date = *date
	}

	entry, err := h.Inventory.AppendManualActivity(r.Context(), in)
	if err != nil {
		domainError(w, r, err, "failed to record activity")
		return
	}
	jsonResponse(w, http.StatusCreated, entry)
}

// DeleteBroken handles POST /api/activity/delete-broken.
func (h *ActivityHandler) DeleteBroken(w http.ResponseWriter, r *http.Request) {
	n, err := h.Inventory.ReconcileLedger(r.Context())
	if err != nil {
		domainError(w, r, err, "failed to delete broken activity")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"deleted": n,
		"message": "broken activity entries deleted",
	})
}
