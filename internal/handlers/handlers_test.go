package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/imlogolabs/studio/internal/catalog"
	"github.com/imlogolabs/studio/internal/config"
	"github.com/imlogolabs/studio/internal/gallery"
	"github.com/imlogolabs/studio/internal/models"
	"github.com/imlogolabs/studio/internal/site"
)

func newTestHandler(t *testing.T, mode gallery.Mode, assets string) *Handler {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultManifest())
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	renderer, err := site.NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Gallery.Mode = mode.String()

	h := New(Options{Config: cfg, Catalog: cat, Renderer: renderer, AssetsDir: assets})
	h.settleDelay = 0
	return h
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("Expected gallery_session cookie")
	return nil
}

func postEvent(t *testing.T, h http.Handler, cookie *http.Cookie, body string) gallery.State {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/gallery/events", strings.NewReader(body))
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := do(t, h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for %s, got %d: %s", body, rec.Code, rec.Body.String())
	}
	var state gallery.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Invalid state JSON: %v", err)
	}
	return state
}

func TestHealthcheck(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	rec := do(t, h.Router(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHomePage(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	rec := do(t, h.Router(), httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`src="/gallery/1.jpg"`,
		`src="/gallery/6.jpg"`,
		`data-action="paginate"`,
		`id="service-design"`,
		"Branding &amp; Identity Design",
		"+960 7692107",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if strings.Contains(body, `src="/gallery/7.jpg"`) {
		t.Error("Expected second page images to be hidden")
	}
	sessionFrom(t, rec)
	if h.sessionStore.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", h.sessionStore.Len())
	}
}

func TestGalleryEventsPaging(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	router := h.Router()

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	cookie := sessionFrom(t, rec)

	tests := []struct {
		name     string
		event    string
		wantPage int
		wantSel  bool
	}{
		{name: "next", event: `{"type":"paginate","direction":1}`, wantPage: 1},
		{name: "next wraps", event: `{"type":"paginate","direction":1}`, wantPage: 0},
		{name: "prev wraps", event: `{"type":"paginate","direction":-1}`, wantPage: 1},
		{name: "select visible", event: `{"type":"select","path":"/gallery/7.jpg"}`, wantPage: 1, wantSel: true},
		{name: "locked while selected", event: `{"type":"paginate","direction":1}`, wantPage: 1, wantSel: true},
		{name: "clear", event: `{"type":"clear"}`, wantPage: 1},
		{name: "touch swipe left", event: `{"type":"touchstart","x":300}`, wantPage: 1},
		{name: "touch move past threshold", event: `{"type":"touchmove","x":200}`, wantPage: 0},
		{name: "touch end", event: `{"type":"touchend"}`, wantPage: 0},
		{name: "drag start", event: `{"type":"dragstart"}`, wantPage: 0},
		{name: "weak drag", event: `{"type":"dragend","offset":-10,"velocity":100}`, wantPage: 0},
		{name: "strong drag", event: `{"type":"dragend","offset":-200,"velocity":500}`, wantPage: 1},
		{name: "goto", event: `{"type":"goto","page":0}`, wantPage: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := postEvent(t, router, cookie, tt.event)
			if state.CurrentPage != tt.wantPage {
				t.Errorf("Expected page %d, got %d", tt.wantPage, state.CurrentPage)
			}
			if state.HasSelection != tt.wantSel {
				t.Errorf("Expected selection %v, got %v", tt.wantSel, state.HasSelection)
			}
		})
	}
	if h.sessionStore.Len() != 1 {
		t.Errorf("Expected events to reuse the session, got %d sessions", h.sessionStore.Len())
	}
}

func TestGalleryEventsReveal(t *testing.T) {
	h := newTestHandler(t, gallery.ModeReveal, "")
	router := h.Router()

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	cookie := sessionFrom(t, rec)
	if !strings.Contains(rec.Body.String(), `id="gallery-sentinel"`) {
		t.Error("Expected sentinel in reveal mode")
	}

	state := postEvent(t, router, cookie, `{"type":"loadmore"}`)
	if state.RevealCount != 6 || state.Loading {
		t.Errorf("Expected 6 revealed and settled, got %d loading=%v", state.RevealCount, state.Loading)
	}

	state = postEvent(t, router, cookie, `{"type":"visibility","visible":true}`)
	if state.RevealCount != 9 {
		t.Errorf("Expected sentinel to load 9, got %d", state.RevealCount)
	}
	state = postEvent(t, router, cookie, `{"type":"visibility","visible":true}`)
	if state.RevealCount != 9 {
		t.Errorf("Expected no load without a new intersection, got %d", state.RevealCount)
	}
	postEvent(t, router, cookie, `{"type":"visibility","visible":false}`)
	state = postEvent(t, router, cookie, `{"type":"visibility","visible":true}`)
	if state.RevealCount != 12 || !state.Exhausted {
		t.Errorf("Expected all 12 revealed, got %d exhausted=%v", state.RevealCount, state.Exhausted)
	}

	state = postEvent(t, router, cookie, `{"type":"loadmore"}`)
	if state.RevealCount != 3 || !state.ScrollToOrigin {
		t.Errorf("Expected wrap to 3 with scroll, got %d scroll=%v", state.RevealCount, state.ScrollToOrigin)
	}

	state = postEvent(t, router, cookie, `{"type":"select","path":"/gallery/2.jpg"}`)
	if state.ScrollToOrigin || !state.HasSelection {
		t.Errorf("Expected select after wrap to clear the scroll, got scroll=%v selected=%v", state.ScrollToOrigin, state.HasSelection)
	}

	req := httptest.NewRequest(http.MethodPost, "/gallery/events", strings.NewReader(`{"type":"visibility","visible":false}`))
	req.AddCookie(cookie)
	body := do(t, router, req).Body.String()
	if strings.Contains(body, "data-scroll-origin") {
		t.Error("Expected re-rendered fragment without a scroll request")
	}
}

func TestGalleryClickSequences(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		want   bool
	}{
		{
			name:   "mouse click",
			events: []string{`{"type":"select","path":"/gallery/2.jpg"}`},
			want:   true,
		},
		{
			name: "tap",
			events: []string{
				`{"type":"touchstart","x":120}`,
				`{"type":"touchend"}`,
				`{"type":"select","path":"/gallery/2.jpg"}`,
			},
			want: true,
		},
		{
			name: "click after weak drag",
			events: []string{
				`{"type":"dragstart"}`,
				`{"type":"dragend","offset":12,"velocity":40}`,
				`{"type":"select","path":"/gallery/2.jpg"}`,
			},
			want: true,
		},
		{
			name: "click while dragging",
			events: []string{
				`{"type":"dragstart"}`,
				`{"type":"select","path":"/gallery/2.jpg"}`,
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, gallery.ModePaging, "")
			router := h.Router()
			cookie := sessionFrom(t, do(t, router, httptest.NewRequest(http.MethodGet, "/gallery", nil)))

			var state gallery.State
			for _, ev := range tt.events {
				state = postEvent(t, router, cookie, ev)
			}
			if state.HasSelection != tt.want {
				t.Errorf("Expected selection %v, got %v", tt.want, state.HasSelection)
			}
			if state.CurrentPage != 0 {
				t.Errorf("Expected page 0, got %d", state.CurrentPage)
			}
		})
	}
}

func TestGalleryEventErrors(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	router := h.Router()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"type":`},
		{name: "unknown type", body: `{"type":"explode"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/gallery/events", strings.NewReader(tt.body))
			rec := do(t, router, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestSweepUnmountsIdleSessions(t *testing.T) {
	h := newTestHandler(t, gallery.ModeReveal, "")
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return start }

	rec := do(t, h.Router(), httptest.NewRequest(http.MethodGet, "/gallery", nil))
	cookie := sessionFrom(t, rec)
	session, ok := h.sessionStore.Get(cookie.Value)
	if !ok {
		t.Fatal("Expected session to be stored")
	}
	if !session.Controller.Mounted() {
		t.Fatal("Expected controller to be mounted")
	}

	h.now = func() time.Time { return start.Add(h.sessionTTL / 2) }
	if n := h.sweep(); n != 0 {
		t.Errorf("Expected no sessions swept, got %d", n)
	}

	h.now = func() time.Time { return start.Add(2 * h.sessionTTL) }
	if n := h.sweep(); n != 1 {
		t.Errorf("Expected 1 session swept, got %d", n)
	}
	if session.Controller.Mounted() {
		t.Error("Expected swept controller to be unmounted")
	}
	if session.Feed.Len() != 0 {
		t.Errorf("Expected feed subscribers released, got %d", session.Feed.Len())
	}
}

func TestImagesAPI(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	router := h.Router()

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/images", nil))
	var list []models.ImageRecord
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("Invalid list JSON: %v", err)
	}
	if len(list) != 12 || list[0].ID != "1" {
		t.Fatalf("Expected 12 records starting with 1, got %d", len(list))
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "get", method: http.MethodGet, path: "/api/images/3", want: http.StatusOK},
		{name: "unknown", method: http.MethodGet, path: "/api/images/99", want: http.StatusNotFound},
		{name: "invalid id", method: http.MethodGet, path: "/api/images/Bad.ID", want: http.StatusBadRequest},
		{name: "update", method: http.MethodPut, path: "/api/images/3", body: `{"likes":4,"description":"Studio mark"}`, want: http.StatusOK},
		{name: "unknown field", method: http.MethodPut, path: "/api/images/3", body: `{"src":"/x.jpg"}`, want: http.StatusBadRequest},
		{name: "negative likes", method: http.MethodPut, path: "/api/images/3", body: `{"likes":-1}`, want: http.StatusBadRequest},
		{name: "empty description", method: http.MethodPut, path: "/api/images/3", body: `{"description":"  "}`, want: http.StatusBadRequest},
		{name: "malformed", method: http.MethodPut, path: "/api/images/3", body: `{`, want: http.StatusBadRequest},
		{name: "update unknown", method: http.MethodPut, path: "/api/images/99", body: `{"likes":1}`, want: http.StatusNotFound},
		{name: "delete", method: http.MethodDelete, path: "/api/images/3", want: http.StatusMethodNotAllowed},
		{name: "delete invalid id", method: http.MethodDelete, path: "/api/images/Bad.ID", want: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := do(t, router, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}

	got, _ := h.imageStore.Get("3")
	want := models.ImageRecord{
		ID:          "3",
		Src:         "/gallery/3.jpg",
		Description: "Studio mark",
		Likes:       4,
		Order:       3,
		CreatedAt:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected record after updates (-want +got):\n%s", diff)
	}
}

func TestUpdatedDescriptionBecomesAltText(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	router := h.Router()

	req := httptest.NewRequest(http.MethodPut, "/api/images/1", strings.NewReader(`{"description":"Coral wordmark"}`))
	if rec := do(t, router, req); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	if !strings.Contains(rec.Body.String(), `alt="Coral wordmark"`) {
		t.Error("Expected updated description as alt text")
	}
}

func TestQueriesAPI(t *testing.T) {
	h := newTestHandler(t, gallery.ModePaging, "")
	router := h.Router()

	valid := url.Values{
		"service":       {"Design"},
		"name":          {"Aisha"},
		"contactNumber": {"+960 7692107"},
		"email":         {"aisha@example.com"},
		"serviceType":   {"Print Design"},
	}

	tests := []struct {
		name       string
		mutate     func(url.Values)
		want       int
		wantFields []string
	}{
		{name: "valid", mutate: func(url.Values) {}, want: http.StatusCreated},
		{name: "missing name", mutate: func(v url.Values) { v.Set("name", " ") }, want: http.StatusBadRequest, wantFields: []string{"name"}},
		{name: "bad email", mutate: func(v url.Values) { v.Set("email", "not-an-email") }, want: http.StatusBadRequest, wantFields: []string{"email"}},
		{name: "short phone", mutate: func(v url.Values) { v.Set("contactNumber", "12") }, want: http.StatusBadRequest, wantFields: []string{"contactNumber"}},
		{name: "letters in phone", mutate: func(v url.Values) { v.Set("contactNumber", "555-CALL-NOW") }, want: http.StatusBadRequest, wantFields: []string{"contactNumber"}},
		{name: "type from other card", mutate: func(v url.Values) { v.Set("serviceType", "Web Development") }, want: http.StatusBadRequest, wantFields: []string{"serviceType"}},
		{name: "unknown service", mutate: func(v url.Values) { v.Set("service", "Catering") }, want: http.StatusBadRequest, wantFields: []string{"service"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			for k, v := range valid {
				form[k] = append([]string(nil), v...)
			}
			tt.mutate(form)

			req := httptest.NewRequest(http.MethodPost, "/api/queries", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := do(t, router, req)
			if rec.Code != tt.want {
				t.Fatalf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if tt.want != http.StatusBadRequest {
				return
			}
			var resp queryErrors
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Invalid error JSON: %v", err)
			}
			for _, f := range tt.wantFields {
				if _, ok := resp.Fields[f]; !ok {
					t.Errorf("Expected error for field %s, got %v", f, resp.Fields)
				}
			}
		})
	}

	body := `{"service":"Social","name":"Ibrahim","contactNumber":"7692107","email":"ib@example.com","serviceType":"Ads"}`
	req := httptest.NewRequest(http.MethodPost, "/api/queries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, router, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for JSON query, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted queryAccepted
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil || accepted.ID == "" {
		t.Fatalf("Expected an id in the response, got %+v (%v)", accepted, err)
	}

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/queries", nil))
	var recent []models.QuerySubmission
	if err := json.NewDecoder(rec.Body).Decode(&recent); err != nil {
		t.Fatalf("Invalid list JSON: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != accepted.ID {
		t.Errorf("Expected newest submission first, got %+v", recent)
	}
}

func TestAssetsAndStatic(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "gallery"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gallery", "1.jpg"), []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}
	h := newTestHandler(t, gallery.ModePaging, dir)
	router := h.Router()

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "gallery image", path: "/gallery/1.jpg", want: http.StatusOK},
		{name: "missing image", path: "/gallery/2.jpg", want: http.StatusNotFound},
		{name: "stylesheet", path: "/static/site.css", want: http.StatusOK},
		{name: "script", path: "/static/gallery.js", want: http.StatusOK},
		{name: "dotfile", path: "/.env", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestValidContactNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+960 7692107", true},
		{"7692107", true},
		{"123456", false},
		{"+", false},
		{"12 34+567", false},
		{"123456789012345678901", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := validContactNumber(tt.in); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
