package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "imlogolabs",
		Short: "Portfolio site and gallery tooling for imlogolabs",
		Long: `imlogolabs serves the studio's portfolio site: the image gallery, the service
cards with their query forms and the contact section.

It also ships a terminal gallery browser and tools for maintaining the image
manifest (probing dimensions, exporting, and writing alt text with an LLM).`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newCatalogCmd())

	return cmd
}

// flagOrEnv returns the flag value when it was set on the command line, else the
// environment variable key, else the flag default.
func flagOrEnv(cmd *cobra.Command, name, key string) string {
	value, _ := cmd.Flags().GetString(name)
	if cmd.Flags().Changed(name) {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return value
}
