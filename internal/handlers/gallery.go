package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imlogolabs/studio/internal/gallery"
	"github.com/imlogolabs/studio/internal/models"
)

const sessionCookie = "gallery_session"

// GalleryView is the data behind the gallery fragment.
type GalleryView struct {
	Mode  string
	State gallery.State
	Cells []CellView
	Dots  []Dot
}

// CellView is a visible cell plus its alt text.
type CellView struct {
	gallery.Cell
	Alt string
}

// Dot is one page indicator.
type Dot struct {
	Index  int
	Active bool
}

// galleryEvent is one user interaction posted by the page script.
type galleryEvent struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Offset    float64 `json:"offset"`
	Velocity  float64 `json:"velocity"`
	Path      string  `json:"path"`
	Page      int     `json:"page"`
	Direction int     `json:"direction"`
	Visible   bool    `json:"visible"`
}

// settle finishes a load after the reveal transition.
func (h *Handler) settle(done func()) {
	if h.settleDelay <= 0 {
		done()
		return
	}
	time.AfterFunc(h.settleDelay, done)
}

// gallerySession returns the caller's session, creating one and setting the cookie
// when the request carries none or an expired one.
func (h *Handler) gallerySession(w http.ResponseWriter, r *http.Request) *models.GallerySession {
	now := h.now()
	if c, err := r.Cookie(sessionCookie); err == nil {
		if session, ok := h.sessionStore.Touch(c.Value, now); ok {
			return session
		}
	}

	controller := gallery.New(h.catalog.Collection(), h.galleryCfg)
	feed := gallery.NewFeed()
	controller.Mount(feed, h.settle)

	session := &models.GallerySession{
		ID:         uuid.NewString(),
		Controller: controller,
		Feed:       feed,
		CreatedAt:  now,
		LastSeen:   now,
	}
	h.sessionStore.Set(session.ID, session)
	slog.Debug("Gallery session created", "session_id", session.ID, "mode", h.galleryCfg.Mode)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session
}

func (h *Handler) galleryView(c *gallery.Controller) GalleryView {
	state := c.State()
	cells := c.Visible()
	view := GalleryView{
		Mode:  state.Mode,
		State: state,
		Cells: make([]CellView, 0, len(cells)),
	}
	alts := h.altTexts()
	for _, cell := range cells {
		alt := alts[cell.Path]
		if alt == "" {
			alt = "Gallery image " + strconv.Itoa(cell.Number())
		}
		view.Cells = append(view.Cells, CellView{Cell: cell, Alt: alt})
	}
	if c.Config().Mode == gallery.ModePaging {
		for i := 0; i < state.TotalPages; i++ {
			view.Dots = append(view.Dots, Dot{Index: i, Active: i == state.CurrentPage})
		}
	}
	return view
}

func (h *Handler) altTexts() map[gallery.ImagePath]string {
	records := h.imageStore.List()
	alts := make(map[gallery.ImagePath]string, len(records))
	for _, r := range records {
		alts[gallery.ImagePath(r.Src)] = r.Description
	}
	return alts
}

// HandleGallery renders the caller's gallery fragment.
func (h *Handler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	session := h.gallerySession(w, r)
	h.respondGallery(w, r, session.Controller)
}

// HandleGalleryEvent applies one event to the caller's gallery and returns the new
// fragment, or the state as JSON when the client asks for it.
func (h *Handler) HandleGalleryEvent(w http.ResponseWriter, r *http.Request) {
	var ev galleryEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	session := h.gallerySession(w, r)
	if !h.dispatch(session, ev) {
		h.writeError(w, "Unknown gallery event: "+ev.Type, http.StatusBadRequest)
		return
	}
	h.respondGallery(w, r, session.Controller)
}

func (h *Handler) dispatch(session *models.GallerySession, ev galleryEvent) bool {
	c := session.Controller
	switch ev.Type {
	case "paginate":
		c.Paginate(directionOf(ev.Direction))
	case "goto":
		c.GoToPage(ev.Page)
	case "select":
		c.SelectImage(gallery.ImagePath(ev.Path))
	case "clear":
		c.ClearSelection()
	case "reset":
		c.Reset()
	case "loadmore":
		if done, ok := c.LoadMore(); ok {
			h.settle(done)
		}
	case "visibility":
		session.Feed.Publish(ev.Visible)
	case "touchstart":
		c.TouchStart(ev.X)
	case "touchmove":
		c.TouchMove(ev.X)
	case "touchend":
		c.TouchEnd()
	case "dragstart":
		c.DragStart()
	case "dragend":
		c.DragEnd(ev.Offset, ev.Velocity)
	default:
		return false
	}
	slog.Debug("Gallery event applied", "session_id", session.ID, "type", ev.Type)
	return true
}

func directionOf(n int) gallery.Direction {
	switch {
	case n > 0:
		return gallery.Next
	case n < 0:
		return gallery.Prev
	}
	return gallery.None
}

func (h *Handler) respondGallery(w http.ResponseWriter, r *http.Request, c *gallery.Controller) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		h.writeJSON(w, c.State())
		return
	}
	h.render(w, "gallery", h.galleryView(c))
}

// SweepSessions drops idle gallery sessions every interval until ctx is done.
func (h *Handler) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Handler) sweep() int {
	expired := h.sessionStore.Sweep(h.now().Add(-h.sessionTTL))
	for _, session := range expired {
		session.Controller.Unmount()
	}
	if len(expired) > 0 {
		slog.Debug("Swept idle gallery sessions", "count", len(expired), "remaining", h.sessionStore.Len())
	}
	return len(expired)
}
