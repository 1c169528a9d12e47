package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/imlogolabs/studio/internal/catalog"
	"github.com/imlogolabs/studio/internal/config"
	"github.com/imlogolabs/studio/internal/gallery"
	"github.com/imlogolabs/studio/internal/site"
	"github.com/imlogolabs/studio/internal/storage"
)

const queryLogLimit = 200

type Handler struct {
	cfg        config.Config
	galleryCfg gallery.Config
	catalog    *catalog.Catalog
	renderer   *site.Renderer
	assetsDir  string

	sessionStore *storage.SessionStore
	imageStore   *storage.ImageStore
	queryLog     *storage.QueryLog

	settleDelay time.Duration
	sessionTTL  time.Duration
	now         func() time.Time
}

// Options carries the dependencies of a Handler.
type Options struct {
	Config   config.Config
	Catalog  *catalog.Catalog
	Renderer *site.Renderer
	// AssetsDir is the public directory image sources are served from.
	AssetsDir string
}

func New(opts Options) *Handler {
	return &Handler{
		cfg:          opts.Config,
		galleryCfg:   opts.Config.GalleryConfig(),
		catalog:      opts.Catalog,
		renderer:     opts.Renderer,
		assetsDir:    opts.AssetsDir,
		sessionStore: storage.New(),
		imageStore:   storage.NewImageStore(opts.Catalog.Records()),
		queryLog:     storage.NewQueryLog(queryLogLimit),
		settleDelay:  opts.Config.LoadSettle(),
		sessionTTL:   opts.Config.SessionTTL(),
		now:          time.Now,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "status", code)
	}
	h.writeJSONStatus(w, code, map[string]string{"error": message})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		slog.Error("Unable to render template", "template", name, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Unable to write response", "err", err)
	}
}
