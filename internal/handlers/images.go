package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/imlogolabs/studio/internal/catalog"
	"github.com/imlogolabs/studio/internal/models"
	"github.com/imlogolabs/studio/internal/storage"
)

var (
	errNegativeLikes    = errors.New("likes must not be negative")
	errEmptyDescription = errors.New("description must not be empty")
)

func (h *Handler) HandleImages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, h.imageStore.List())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleImageDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPut {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := chi.URLParam(r, "id")
	if !catalog.ValidID(id) {
		h.writeError(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, ok := h.imageStore.Get(id)
		if !ok {
			h.writeError(w, "image not found", http.StatusNotFound)
			return
		}
		h.writeJSON(w, record)
	case http.MethodPut:
		var update models.ImageUpdate
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&update); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		record, err := h.imageStore.Update(id, func(rec *models.ImageRecord) error {
			return applyUpdate(rec, update)
		})
		switch {
		case errors.Is(err, storage.ErrNotFound):
			h.writeError(w, "image not found", http.StatusNotFound)
		case err != nil:
			h.writeError(w, err.Error(), http.StatusBadRequest)
		default:
			h.writeJSON(w, record)
		}
	}
}

func applyUpdate(rec *models.ImageRecord, update models.ImageUpdate) error {
	if update.Description != nil {
		desc := strings.TrimSpace(*update.Description)
		if desc == "" {
			return errEmptyDescription
		}
		rec.Description = desc
	}
	if update.Likes != nil {
		if *update.Likes < 0 {
			return errNegativeLikes
		}
		rec.Likes = *update.Likes
	}
	if update.Order != nil {
		rec.Order = *update.Order
	}
	return nil
}
