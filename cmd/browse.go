package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imlogolabs/studio/internal/gallery"
	"github.com/imlogolabs/studio/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the gallery in the terminal",
		Long: `Opens the gallery in a terminal UI driven by the same controller the site uses.

Arrow keys turn pages, digits expand the n-th visible image, m loads more in
reveal mode, esc collapses, r resets and q quits.`,
		Example: `  # Browse the built-in gallery
  imlogolabs browse

  # Browse a manifest in load-more mode
  imlogolabs browse --manifest gallery.yaml --mode reveal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadSite(cmd)
			if err != nil {
				return err
			}

			cfg := inputs.cfg.GalleryConfig()
			if mode != "" {
				m, err := gallery.ParseMode(mode)
				if err != nil {
					return err
				}
				cfg.Mode = m
			}

			controller := gallery.New(inputs.catalog.Collection(), cfg)
			model := tui.New(controller, inputs.cfg.Name, inputs.cfg.LoadSettle())
			if _, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Gallery mode: paging or reveal (default from config)")
	addSiteFlags(cmd)

	return cmd
}
