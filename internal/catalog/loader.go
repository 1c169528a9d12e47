package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imlogolabs/studio/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML document listing the gallery images.
type Manifest struct {
	Images []models.ImageRecord `yaml:"images"`
}

// imageRow is the Parquet layout of an image record.
type imageRow struct {
	ID          string `parquet:"id"`
	Src         string `parquet:"src"`
	Description string `parquet:"description"`
	Likes       int64  `parquet:"likes"`
	Order       int64  `parquet:"order"`
	Width       int64  `parquet:"width"`
	Height      int64  `parquet:"height"`
	CreatedAtMS int64  `parquet:"created_at_ms"`
}

func rowFromRecord(r models.ImageRecord) imageRow {
	row := imageRow{
		ID:          r.ID,
		Src:         r.Src,
		Description: r.Description,
		Likes:       int64(r.Likes),
		Order:       int64(r.Order),
		Width:       int64(r.Width),
		Height:      int64(r.Height),
	}
	if !r.CreatedAt.IsZero() {
		row.CreatedAtMS = r.CreatedAt.UnixMilli()
	}
	return row
}

func (row imageRow) record() models.ImageRecord {
	r := models.ImageRecord{
		ID:          row.ID,
		Src:         row.Src,
		Description: row.Description,
		Likes:       int(row.Likes),
		Order:       int(row.Order),
		Width:       int(row.Width),
		Height:      int(row.Height),
	}
	if row.CreatedAtMS != 0 {
		r.CreatedAt = time.UnixMilli(row.CreatedAtMS).UTC()
	}
	return r
}

// Loader reads an image manifest from disk
type Loader struct {
	manifestPath string
}

// NewLoader creates a loader for the given manifest file
func NewLoader(manifestPath string) *Loader {
	return &Loader{
		manifestPath: manifestPath,
	}
}

// Load reads records from a manifest (YAML, JSONL or Parquet)
func (l *Loader) Load() ([]models.ImageRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.manifestPath))

	switch ext {
	case ".yaml", ".yml":
		return l.loadYAML()
	case ".jsonl", ".json":
		return l.loadJSONL()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .yaml, .jsonl, .parquet)", ext)
	}
}

// LoadCatalog loads and validates the manifest.
func (l *Loader) LoadCatalog() (*Catalog, error) {
	records, err := l.Load()
	if err != nil {
		return nil, err
	}
	return New(records)
}

func (l *Loader) loadYAML() ([]models.ImageRecord, error) {
	data, err := os.ReadFile(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", l.manifestPath, err)
	}

	slog.Debug("Loaded YAML manifest", "path", l.manifestPath, "images", len(m.Images))
	return m.Images, nil
}

func (l *Loader) loadJSONL() ([]models.ImageRecord, error) {
	file, err := os.Open(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	var records []models.ImageRecord
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record models.ImageRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	slog.Debug("Loaded JSONL manifest", "path", l.manifestPath, "images", len(records))
	return records, nil
}

func (l *Loader) loadParquet() ([]models.ImageRecord, error) {
	file, err := os.Open(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[imageRow](pf)
	defer reader.Close()

	var records []models.ImageRecord
	rows := make([]imageRow, 64)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			records = append(records, row.record())
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Loaded Parquet manifest", "path", l.manifestPath, "images", len(records), "num_rows", pf.NumRows())
	return records, nil
}
