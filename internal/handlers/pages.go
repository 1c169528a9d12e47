package handlers

import (
	"net/http"

	"github.com/imlogolabs/studio/internal/config"
)

// PageData is the data behind the home page.
type PageData struct {
	Site    config.Config
	Gallery GalleryView
}

// HandleHome renders the full page with the caller's gallery.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	session := h.gallerySession(w, r)
	h.render(w, "page", PageData{
		Site:    h.cfg,
		Gallery: h.galleryView(session.Controller),
	})
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		h.writeError(w, "Unable to write healthcheck", http.StatusInternalServerError)
	}
}
