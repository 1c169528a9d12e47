package cmd

import (
	"fmt"
	"log/slog"

	"github.com/imlogolabs/studio/internal/catalog"
	"github.com/imlogolabs/studio/internal/config"
	"github.com/spf13/cobra"
)

// addSiteFlags registers the flags shared by commands that load the site.
func addSiteFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Site config TOML file (env IMLOGOLABS_CONFIG)")
	cmd.Flags().String("manifest", "", "Image manifest: .yaml, .jsonl or .parquet (env IMLOGOLABS_MANIFEST)")
	cmd.Flags().String("assets", "public", "Public asset directory (env IMLOGOLABS_ASSETS)")
}

type siteInputs struct {
	cfg          config.Config
	catalog      *catalog.Catalog
	manifestPath string
	assetsDir    string
}

// loadSite reads the site config and the image catalog. Without a manifest the
// built-in gallery is used.
func loadSite(cmd *cobra.Command) (*siteInputs, error) {
	configPath := flagOrEnv(cmd, "config", "IMLOGOLABS_CONFIG")
	manifestPath := flagOrEnv(cmd, "manifest", "IMLOGOLABS_MANIFEST")
	assetsDir := flagOrEnv(cmd, "assets", "IMLOGOLABS_ASSETS")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cat *catalog.Catalog
	if manifestPath == "" {
		cat, err = catalog.New(catalog.DefaultManifest())
	} else {
		cat, err = catalog.NewLoader(manifestPath).LoadCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load image manifest: %w", err)
	}

	slog.Debug("Site loaded", "config", configPath, "manifest", manifestPath, "images", cat.Len(), "mode", cfg.Gallery.Mode)
	return &siteInputs{cfg: cfg, catalog: cat, manifestPath: manifestPath, assetsDir: assetsDir}, nil
}
