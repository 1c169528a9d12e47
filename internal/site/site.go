// Package site renders the studio pages from html/template sources, embedded in the
// binary or read from disk in dev mode.
package site

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS returns the embedded CSS and JavaScript rooted at static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
	"lower": strings.ToLower,
}

// Renderer executes the page templates. With a template directory it re-parses
// from disk whenever the directory changes.
type Renderer struct {
	mu    sync.RWMutex
	dir   string
	tmpl  *template.Template
	dirty bool
}

// NewRenderer parses the embedded templates, or those in dir when dir is set.
func NewRenderer(dir string) (*Renderer, error) {
	r := &Renderer{dir: dir}
	tmpl, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.tmpl = tmpl
	return r, nil
}

func (r *Renderer) parse() (*template.Template, error) {
	var fsys fs.FS = templateFS
	pattern := "templates/*.tmpl"
	if r.dir != "" {
		fsys = os.DirFS(r.dir)
		pattern = "*.tmpl"
	}
	tmpl, err := template.New("_root").Funcs(funcs).ParseFS(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func (r *Renderer) current() (*template.Template, error) {
	r.mu.RLock()
	tmpl, dirty := r.tmpl, r.dirty
	r.mu.RUnlock()
	if !dirty {
		return tmpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return r.tmpl, nil
	}
	tmpl, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.tmpl = tmpl
	r.dirty = false
	slog.Info("Templates reloaded", "dir", r.dir)
	return tmpl, nil
}

// Render executes the named template into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.current()
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// Invalidate forces a re-parse before the next render.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	r.dirty = r.dir != ""
	r.mu.Unlock()
}

// Watch invalidates the templates whenever a .tmpl file in the template directory
// is written or created. It blocks until ctx is done. Without a directory it
// returns immediately.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("failed to watch template directory: %w", err)
	}
	slog.Info("Watching templates for changes", "dir", r.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".tmpl" {
				continue
			}
			slog.Debug("Template changed", "file", filepath.Base(event.Name))
			r.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Template watcher error", "err", err)
		}
	}
}
