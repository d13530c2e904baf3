package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/settings"
)

func init() {
	whatsNewCmd := &cobra.Command{
		Use:     "whats-new",
		Aliases: []string{"news"},
		Short:   "Show what changed in this release",
		Run:     runWhatsNew,
	}

	rootCmd.AddCommand(whatsNewCmd)
}

func runWhatsNew(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to show release notes")
	defer a.close()

	if last, ok, err := a.settings.WhatsNewLastSeen(); err == nil && ok {
		slog.Debug("release notes last seen", "at", last)
	}

	format.PrintReleaseNotes(settings.ReleaseNotes)

	if _, err := a.settings.MarkWhatsNewSeen(); err != nil {
		fail("Failed to save release notes state", err)
	}
}
