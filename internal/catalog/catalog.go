// Package catalog loads the fixed list of gallery images and the metadata kept
// alongside each one.
package catalog

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/imlogolabs/studio/internal/gallery"
	"github.com/imlogolabs/studio/internal/models"
)

// Catalog is the immutable, ordered set of image records the site is built from.
type Catalog struct {
	records []models.ImageRecord
	byID    map[string]int
}

// New validates records and freezes them in display order. Records without an
// order keep their manifest position; records without an ID get one from the
// file name.
func New(records []models.ImageRecord) (*Catalog, error) {
	c := &Catalog{
		records: make([]models.ImageRecord, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}

	seenSrc := make(map[string]bool, len(records))
	for i, r := range records {
		r.Src = strings.TrimSpace(r.Src)
		if r.Src == "" {
			return nil, fmt.Errorf("image %d: src is required", i+1)
		}
		if seenSrc[r.Src] {
			return nil, fmt.Errorf("image %d: duplicate src %s", i+1, r.Src)
		}
		seenSrc[r.Src] = true

		if r.ID == "" {
			r.ID = IDFromSrc(r.Src)
		}
		if !ValidID(r.ID) {
			return nil, fmt.Errorf("image %d: invalid id %q", i+1, r.ID)
		}
		if r.Order == 0 {
			r.Order = i + 1
		}
		if r.Likes < 0 {
			r.Likes = 0
		}
		c.records = append(c.records, r)
	}

	sort.SliceStable(c.records, func(i, j int) bool {
		return c.records[i].Order < c.records[j].Order
	})

	for i, r := range c.records {
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate image id %s", r.ID)
		}
		c.byID[r.ID] = i
	}

	return c, nil
}

// Len returns the number of images.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the records in display order.
func (c *Catalog) Records() []models.ImageRecord {
	out := make([]models.ImageRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the record with the given ID.
func (c *Catalog) Get(id string) (models.ImageRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.ImageRecord{}, false
	}
	return c.records[i], true
}

// Collection returns the image paths for the gallery controller.
func (c *Catalog) Collection() gallery.Collection {
	paths := make([]gallery.ImagePath, len(c.records))
	for i, r := range c.records {
		paths[i] = gallery.ImagePath(r.Src)
	}
	return gallery.NewCollection(paths)
}

// IDFromSrc derives a record ID from the file name: "/gallery/10.jpg" -> "10".
func IDFromSrc(src string) string {
	base := path.Base(src)
	base = strings.TrimSuffix(base, path.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	id := strings.Trim(b.String(), "-_")
	if len(id) > 64 {
		id = id[:64]
	}
	return id
}

// ValidID reports whether id is usable in the image API path.
func ValidID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for i, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case (r == '_' || r == '-') && i > 0:
		default:
			return false
		}
	}
	return true
}

// DefaultManifest is the studio's shipped gallery: twelve logos in two pages.
func DefaultManifest() []models.ImageRecord {
	created := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.ImageRecord, 12)
	for i := range records {
		n := i + 1
		records[i] = models.ImageRecord{
			ID:          fmt.Sprintf("%d", n),
			Src:         fmt.Sprintf("/gallery/%d.jpg", n),
			Description: fmt.Sprintf("Logo %d", n),
			Order:       n,
			CreatedAt:   created,
		}
	}
	return records
}
