package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/imlogolabs/studio/internal/catalog"
	"github.com/imlogolabs/studio/internal/describe"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Image manifest tools",
		Long: `Tools for maintaining the gallery's image manifest.

Manifests are YAML, JSON Lines or Parquet files listing each image's source,
description, likes and display order.`,
	}

	cmd.AddCommand(newCatalogInspectCmd())
	cmd.AddCommand(newCatalogExportCmd())
	cmd.AddCommand(newCatalogDescribeCmd())

	return cmd
}

func newCatalogInspectCmd() *cobra.Command {
	var (
		output      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Probe image dimensions and capture dates",
		Long: `Loads the manifest, reads every local image under the asset directory for
its dimensions and EXIF capture date, and prints the resulting records as YAML.`,
		Example: `  # Print the probed built-in gallery
  imlogolabs catalog inspect --assets public

  # Probe a manifest and save the result
  imlogolabs catalog inspect --manifest gallery.yaml --output gallery.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadSite(cmd)
			if err != nil {
				return err
			}

			inspector := catalog.NewInspector(inputs.assetsDir)
			inspector.Concurrency = concurrency
			records, err := inspector.Inspect(cmd.Context(), inputs.catalog.Records())
			if err != nil {
				return fmt.Errorf("failed to inspect images: %w", err)
			}

			if output != "" {
				if err := catalog.Export(output, records); err != nil {
					return err
				}
				slog.Info("Manifest written", "path", output, "images", len(records))
				return nil
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(&catalog.Manifest{Images: records})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the probed records to this file instead of stdout")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Images probed in parallel")
	addSiteFlags(cmd)

	return cmd
}

func newCatalogExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export image records to Parquet, JSONL or YAML",
		Example: `  # Export the built-in gallery to Parquet
  imlogolabs catalog export --output out/gallery.parquet

  # Convert a YAML manifest to JSON Lines
  imlogolabs catalog export --manifest gallery.yaml --output gallery.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("--output is required")
			}
			inputs, err := loadSite(cmd)
			if err != nil {
				return err
			}
			if err := catalog.Export(output, inputs.catalog.Records()); err != nil {
				return err
			}
			slog.Info("Records exported", "path", output, "images", inputs.catalog.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file; format from the extension")
	addSiteFlags(cmd)

	return cmd
}

func newCatalogDescribeCmd() *cobra.Command {
	var (
		providerName string
		model        string
		temperature  float64
		force        bool
		concurrency  int
		output       string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Write alt text for images with a vision LLM",
		Long: `Sends each image without a description to a vision-capable LLM and stores the
reply as the image's description (its alt text on the site).

Providers: ollama (OLLAMA_URL), openai (OPENAI_API_KEY), gemini (GEMINI_API_KEY).
The provider defaults to DESCRIBE_PROVIDER, then ollama.`,
		Example: `  # Describe missing images with the local Ollama server
  imlogolabs catalog describe --manifest gallery.yaml

  # Re-describe everything with OpenAI
  imlogolabs catalog describe --manifest gallery.yaml --provider openai --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadSite(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				output = inputs.manifestPath
			}
			if output == "" {
				return errors.New("--output is required when describing the built-in gallery")
			}

			provider, name, err := describe.NewProvider(providerName)
			if err != nil {
				return err
			}
			if model == "" {
				model = describe.DefaultModel(name)
			}
			slog.Info("Describing images", "provider", name, "model", model, "images", inputs.catalog.Len(), "force", force)

			svc := describe.NewService(provider, inputs.assetsDir, describe.Options{
				Model:       model,
				Temperature: temperature,
				Force:       force,
				Concurrency: concurrency,
			})
			records, result, err := svc.Describe(cmd.Context(), inputs.catalog.Records())
			if err != nil {
				return fmt.Errorf("describe run aborted: %w", err)
			}

			if err := catalog.Export(output, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "described %d, skipped %d, failed %d → %s\n",
				result.Described, result.Skipped, result.Failed, output)
			if result.Failed > 0 {
				return fmt.Errorf("%d images could not be described", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "LLM provider: ollama, openai or gemini")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default per provider)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.2, "Sampling temperature")
	cmd.Flags().BoolVar(&force, "force", false, "Replace existing descriptions")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Images described in parallel")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write records here instead of back to the manifest")
	addSiteFlags(cmd)

	return cmd
}
