package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imlogolabs/studio/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Export writes records to path, choosing the format from the extension.
func Export(path string, records []models.ImageRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return SaveManifest(path, records)
	case ".jsonl", ".json":
		return exportJSONL(path, records)
	case ".parquet":
		return exportParquet(path, records)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .yaml, .jsonl, .parquet)", ext)
	}
}

// SaveManifest writes records as a YAML manifest.
func SaveManifest(path string, records []models.ImageRecord) error {
	data, err := yaml.Marshal(&Manifest{Images: records})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func exportJSONL(path string, records []models.ImageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
		}
	}
	return f.Close()
}

func exportParquet(path string, records []models.ImageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]imageRow, len(records))
	for i, r := range records {
		rows[i] = rowFromRecord(r)
	}

	w := parquet.NewGenericWriter[imageRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return f.Close()
}
