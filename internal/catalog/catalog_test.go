package catalog

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/imlogolabs/studio/internal/models"
)

func TestNewOrdersAndDerivesIDs(t *testing.T) {
	c, err := New([]models.ImageRecord{
		{Src: "/gallery/B Logo.png", Order: 2},
		{Src: "/gallery/a.jpg", Order: 1},
		{Src: "/gallery/c.jpg", Order: 3, Likes: -4},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var ids []string
	for _, r := range c.Records() {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"a", "b-logo", "c"}, ids); diff != "" {
		t.Errorf("Unexpected ids (-want +got):\n%s", diff)
	}

	r, ok := c.Get("c")
	if !ok {
		t.Fatal("Expected record c")
	}
	if r.Likes != 0 {
		t.Errorf("Expected negative likes to be clamped, got %d", r.Likes)
	}

	col := c.Collection()
	if first, _ := col.At(0); first != "/gallery/a.jpg" {
		t.Errorf("Expected /gallery/a.jpg first, got %s", first)
	}
}

func TestNewRejectsBadManifests(t *testing.T) {
	tests := []struct {
		name    string
		records []models.ImageRecord
	}{
		{name: "missing src", records: []models.ImageRecord{{ID: "x"}}},
		{name: "duplicate src", records: []models.ImageRecord{{Src: "/a.jpg"}, {Src: "/a.jpg"}}},
		{name: "duplicate id", records: []models.ImageRecord{{ID: "a", Src: "/a.jpg"}, {ID: "a", Src: "/b.jpg"}}},
		{name: "invalid id", records: []models.ImageRecord{{ID: "../etc", Src: "/a.jpg"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.records); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestDefaultManifest(t *testing.T) {
	c, err := New(DefaultManifest())
	if err != nil {
		t.Fatalf("Default manifest invalid: %v", err)
	}
	if c.Len() != 12 {
		t.Errorf("Expected 12 images, got %d", c.Len())
	}
	if r, _ := c.Get("12"); r.Src != "/gallery/12.jpg" {
		t.Errorf("Expected /gallery/12.jpg, got %s", r.Src)
	}
}

func TestValidID(t *testing.T) {
	tests := map[string]bool{
		"1":        true,
		"logo-2_b": true,
		"":         false,
		"-x":       false,
		"A":        false,
		"a/b":      false,
	}
	for id, want := range tests {
		if got := ValidID(id); got != want {
			t.Errorf("ValidID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "gallery.yaml")
	data := `images:
  - src: /gallery/1.jpg
    description: First logo
    order: 1
  - src: /gallery/2.jpg
    description: Second logo
    likes: 3
    order: 2
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	c, err := NewLoader(path).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Expected 2 records, got %d", c.Len())
	}
	r, _ := c.Get("2")
	if r.Description != "Second logo" || r.Likes != 3 {
		t.Errorf("Unexpected record %+v", r)
	}
}

func TestLoadJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "gallery.jsonl")
	data := `{"src":"/gallery/1.jpg","description":"one"}

{"src":"/gallery/2.jpg","description":"two"}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := NewLoader("gallery.txt").Load(); err == nil {
		t.Error("Expected error for unsupported format, got nil")
	}
	if _, err := NewLoader("/nonexistent/gallery.yaml").Load(); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestExportParquetLoadsBack(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out", "gallery.parquet")

	want := DefaultManifest()[:3]
	if err := Export(path, want); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parquet records differ (-want +got):\n%s", diff)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	if err := Export(filepath.Join(t.TempDir(), "x.csv"), nil); err == nil {
		t.Error("Expected error for csv export")
	}
}

func TestInspect(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "gallery"), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(root, "gallery", "1.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	records := []models.ImageRecord{
		{ID: "1", Src: "/gallery/1.png"},
		{ID: "2", Src: "/gallery/missing.png"},
		{ID: "3", Src: "https://cdn.example.com/3.png"},
	}

	got, err := NewInspector(root).Inspect(context.Background(), records)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if got[0].Width != 40 || got[0].Height != 30 {
		t.Errorf("Expected 40x30, got %dx%d", got[0].Width, got[0].Height)
	}
	if got[1].Width != 0 || got[2].Width != 0 {
		t.Errorf("Expected missing and remote images untouched")
	}
	if records[0].Width != 0 {
		t.Errorf("Expected input records not to be modified")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	in := NewInspector("/srv/public")
	if got := in.Resolve("/../secret.jpg"); got != "" {
		t.Errorf("Expected traversal to resolve to empty, got %s", got)
	}
	if got := in.Resolve("/gallery/1.jpg"); got != filepath.Join("/srv/public", "gallery", "1.jpg") {
		t.Errorf("Unexpected resolution %s", got)
	}
}

func TestLoadSampleManifest(t *testing.T) {
	c, err := NewLoader(filepath.Join("..", "..", "configs", "gallery.yaml")).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if c.Len() != 12 {
		t.Errorf("Expected 12 images, got %d", c.Len())
	}
	if r, ok := c.Get("10"); !ok || r.Order != 10 {
		t.Errorf("Expected image 10 at order 10, got %+v", r)
	}
}
