package catalog

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imlogolabs/studio/internal/models"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/sync/errgroup"
)

// Inspector fills in dimensions and capture dates by probing the image files
// under the public asset root.
type Inspector struct {
	Root        string
	Concurrency int
}

// NewInspector creates an inspector for files under root
func NewInspector(root string) *Inspector {
	return &Inspector{Root: root, Concurrency: 4}
}

// Resolve maps a record's src to a file path under the asset root. Remote
// sources resolve to "".
func (in *Inspector) Resolve(src string) string {
	if strings.Contains(src, "://") {
		return ""
	}
	rel := filepath.FromSlash(strings.TrimPrefix(src, "/"))
	if rel == "" || strings.HasPrefix(filepath.Clean(rel), "..") {
		return ""
	}
	return filepath.Join(in.Root, rel)
}

// Inspect returns a copy of records with Width, Height and (when unset) CreatedAt
// filled from the files. Unreadable files are logged and left as they were.
func (in *Inspector) Inspect(ctx context.Context, records []models.ImageRecord) ([]models.ImageRecord, error) {
	out := make([]models.ImageRecord, len(records))
	copy(out, records)

	g, ctx := errgroup.WithContext(ctx)
	limit := in.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := range out {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := in.Resolve(out[i].Src)
			if path == "" {
				slog.Debug("Skipping remote image", "src", out[i].Src)
				return nil
			}
			info, err := probe(path)
			if err != nil {
				slog.Warn("Failed to inspect image", "src", out[i].Src, "err", err)
				return nil
			}
			out[i].Width = info.width
			out[i].Height = info.height
			if out[i].CreatedAt.IsZero() && !info.taken.IsZero() {
				out[i].CreatedAt = info.taken
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type probeResult struct {
	width  int
	height int
	taken  time.Time
}

func probe(path string) (*probeResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("decoding image config: %w", err)
	}
	res := &probeResult{width: cfg.Width, height: cfg.Height}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file for exif: %w", err)
	}
	// EXIF is optional
	if x, err := exif.Decode(file); err == nil {
		if taken, err := x.DateTime(); err == nil {
			res.taken = taken
		}
	}
	return res, nil
}
