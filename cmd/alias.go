package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
)

func init() {
	aliasCmd := &cobra.Command{
		Use:     "alias",
		Aliases: []string{"a"},
		Short:   "Manage URL aliases",
		Long: `Manage URL aliases for frequently used endpoints.

Aliases are shortcuts for base URLs, so 'starwars/people/1' can be sent
instead of 'https://www.swapi.tech/api/people/1'.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all aliases",
		Run:   runAliasList,
	}

	createCmd := &cobra.Command{
		Use:   "create <name> <url>",
		Short: "Create or update an alias",
		Long: `Create or update an alias for a base URL.

Example:
  apitester alias create starwars https://www.swapi.tech/api
  apitester get starwars/people/1`,
		Args: cobra.ExactArgs(2),
		Run:  runAliasCreate,
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show an alias",
		Args:  cobra.ExactArgs(1),
		Run:   runAliasShow,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an alias",
		Args:  cobra.ExactArgs(1),
		Run:   runAliasDelete,
	}

	aliasCmd.AddCommand(listCmd, createCmd, showCmd, deleteCmd)
	rootCmd.AddCommand(aliasCmd)
}

func runAliasList(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load aliases")
	defer a.close()

	aliases, err := a.settings.Aliases()
	if err != nil {
		fail("Failed to load aliases", err)
	}
	format.PrintAliasList(aliases)
}

func runAliasCreate(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to create alias")
	defer a.close()

	name, url := args[0], args[1]
	if err := a.settings.SetAlias(name, url); err != nil {
		fail("Failed to create alias", err)
	}
	format.PrintSuccess(fmt.Sprintf("Alias '%s' created for %s", name, url))
}

func runAliasShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load alias")
	defer a.close()

	url, ok, err := a.settings.Alias(args[0])
	if err != nil {
		fail("Failed to load alias", err)
	}
	if !ok {
		format.PrintError(fmt.Sprintf("Alias '%s' not found", args[0]))
		exit(1)
	}
	format.PrintAlias(args[0], url)
}

func runAliasDelete(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to delete alias")
	defer a.close()

	if err := a.settings.DeleteAlias(args[0]); err != nil {
		fail("Failed to delete alias", err)
	}
	format.PrintSuccess(fmt.Sprintf("Alias '%s' deleted", args[0]))
}
