package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
)

func init() {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage preferences",
	}

	themeCmd := &cobra.Command{
		Use:   "theme [dark|light|toggle]",
		Short: "Show or change the color theme",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSettingsTheme,
	}

	onboardingCmd := &cobra.Command{
		Use:   "onboarding <dismiss|reset>",
		Short: "Hide or bring back the first-run tip",
		Args:  cobra.ExactArgs(1),
		ValidArgs: []string{
			"dismiss",
			"reset",
		},
		Run: runSettingsOnboarding,
	}

	settingsCmd.AddCommand(themeCmd, onboardingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsTheme(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to update theme")
	defer a.close()

	if len(args) == 0 {
		fmt.Println(a.theme())
		return
	}

	theme := args[0]
	if theme == "toggle" {
		next, err := a.settings.ToggleTheme()
		if err != nil {
			fail("Failed to update theme", err)
		}
		theme = next
	} else if err := a.settings.SetTheme(theme); err != nil {
		fail("Failed to update theme", err)
	}

	format.ApplyTheme(theme)
	format.PrintSuccess(fmt.Sprintf("Theme set to %s", theme))
}

func runSettingsOnboarding(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to update onboarding")
	defer a.close()

	switch args[0] {
	case "dismiss":
		if err := a.settings.DismissOnboarding(); err != nil {
			fail("Failed to update onboarding", err)
		}
		format.PrintSuccess("Onboarding tip dismissed")
	case "reset":
		if err := a.settings.ResetOnboarding(); err != nil {
			fail("Failed to update onboarding", err)
		}
		format.PrintSuccess("Onboarding tip will show on the next request")
	default:
		fail("Failed to update onboarding", fmt.Errorf("unknown action %q (use dismiss or reset)", args[0]))
	}
}
