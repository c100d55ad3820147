package api

import (
	"net/http"
	"time"

	"github.com/erazemk/shramba/internal/catalog"
	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/inventory"
	"github.com/erazemk/shramba/internal/model"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Catalog   *catalog.Catalog
	Inventory *inventory.Service
}

type createItemRequest struct {
	Name       string   `json:"name"`
	BoughtDate string   `json:"boughtDate"`
	ExpiryDate string   `json:"expiryDate"`
	Price      *float64 `json:"price"`
	TakenBy    string   `json:"takenBy"`
	AddedBy    string   `json:"addedBy"`
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates, the
// latter as midnight UTC. Anything else yields nil, which item validation
// reports as a missing field.
func parseDate(s string) *time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t
	}
	return nil
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListAll(r.Context())
	if err != nil {
		domainError(w, r, err, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. The item is created even when its
// activity entry cannot be written; X-Activity-Logged reports that case.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AddedBy == "" {
		req.AddedBy = caller(r.Context()).Name
	}

	rec, err := h.Inventory.RecordNewItem(r.Context(), model.NewItem{
		Name:       req.Name,
		BoughtDate: parseDate(req.BoughtDate),
		ExpiryDate: parseDate(req.ExpiryDate),
		Price:      req.Price,
		TakenBy:    req.TakenBy,
		AddedBy:    req.AddedBy,
	})
	if err != nil {
		domainError(w, r, err, "failed to create item")
		return
	}

	if rec.LogErr != nil {
		w.Header().Set("X-Activity-Logged", "false")
	}
	jsonResponse(w, http.StatusCreated, rec.Item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		domainError(w, r, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	if err := h.Catalog.AttachImage(r.Context(), r.PathValue("id"), file); err != nil {
		domainError(w, r, err, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Catalog.Image(r.Context(), r.PathValue("id"))
	if err != nil {
		domainError(w, r, err, "failed to get image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
