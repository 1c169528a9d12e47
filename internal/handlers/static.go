package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/imlogolabs/studio/internal/site"
)

// HandleStatic serves the embedded stylesheet and page script under /static/.
func (h *Handler) HandleStatic() http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(site.StaticFS()))
}

// HandleAsset serves gallery images and the logo from the public asset directory.
func (h *Handler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	if h.assetsDir == "" {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	// Prevent directory traversal attacks
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(h.assetsDir, filepath.FromSlash(name))
	http.ServeFile(w, r, fullPath)
}
