package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/mock"
	"github.com/vedsharma/apitester/internal/model"
)

var mockDictPath string

func init() {
	mockCmd := &cobra.Command{
		Use:   "mock",
		Short: "Manage mock endpoint definitions",
		Long: `Manage mock endpoint definitions.

A mock endpoint pairs a path with a response template. The first
{{random}} in a template is replaced with a random word when rendered.`,
		Run: runMockList,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List mock endpoints",
		Run:   runMockList,
	}

	addCmd := &cobra.Command{
		Use:   "add <path> <response>",
		Short: "Add a mock endpoint",
		Long: `Add a mock endpoint.

Example:
  apitester mock add /greeting "hello {{random}}"`,
		Args: cobra.ExactArgs(2),
		Run:  runMockAdd,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove a mock endpoint",
		Args:  cobra.ExactArgs(1),
		Run:   runMockRemove,
	}

	enableCmd := &cobra.Command{
		Use:   "enable",
		Short: "Turn the mock server on",
		Run:   runMockSetEnabled(true),
	}

	disableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Turn the mock server off",
		Run:   runMockSetEnabled(false),
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip the mock server toggle",
		Run:   runMockToggle,
	}

	renderCmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Print the response a mock endpoint would return",
		Args:  cobra.ExactArgs(1),
		Run:   runMockRender,
	}
	renderCmd.Flags().StringVar(&mockDictPath, "dict", "", "Word list used for {{random}}, one word per line")

	loadCmd := &cobra.Command{
		Use:   "load <file.yaml|file.json>",
		Short: "Replace mock endpoints with a definition file",
		Args:  cobra.ExactArgs(1),
		Run:   runMockLoad,
	}

	saveCmd := &cobra.Command{
		Use:   "save <file.yaml|file.json>",
		Short: "Write mock endpoints to a definition file",
		Args:  cobra.ExactArgs(1),
		Run:   runMockSave,
	}

	mockCmd.AddCommand(listCmd, addCmd, removeCmd, enableCmd, disableCmd, toggleCmd, renderCmd, loadCmd, saveCmd)
	rootCmd.AddCommand(mockCmd)
}

func runMockList(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load mock endpoints")
	defer a.close()

	endpoints, err := a.mocks.List()
	if err != nil {
		fail("Failed to load mock endpoints", err)
	}
	enabled, err := a.mocks.Enabled()
	if err != nil {
		fail("Failed to load mock endpoints", err)
	}
	format.PrintMockEndpoints(endpoints, enabled)
}

func runMockAdd(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to add mock endpoint")
	defer a.close()

	ep := model.MockEndpoint{Path: args[0], Response: args[1]}
	if err := a.mocks.Add(ep); err != nil {
		fail("Failed to add mock endpoint", err)
	}
	format.PrintSuccess(fmt.Sprintf("Mock endpoint '%s' added", args[0]))
}

func runMockRemove(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to remove mock endpoint")
	defer a.close()

	if err := a.mocks.Remove(args[0]); err != nil {
		fail("Failed to remove mock endpoint", err)
	}
	format.PrintSuccess(fmt.Sprintf("Mock endpoint '%s' removed", args[0]))
}

func runMockSetEnabled(enabled bool) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		a := mustOpenApp("Failed to update mock server")
		defer a.close()

		if err := a.mocks.SetEnabled(enabled); err != nil {
			fail("Failed to update mock server", err)
		}
		printMockState(enabled)
	}
}

func runMockToggle(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to update mock server")
	defer a.close()

	enabled, err := a.mocks.Toggle()
	if err != nil {
		fail("Failed to update mock server", err)
	}
	printMockState(enabled)
}

func printMockState(enabled bool) {
	if enabled {
		format.PrintSuccess("Mock server enabled")
		return
	}
	format.PrintSuccess("Mock server disabled")
}

func runMockRender(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to render mock endpoint")
	defer a.close()

	registry := a.mocks
	if mockDictPath != "" {
		dict, err := mock.LoadDictionary(mockDictPath, nil)
		if err != nil {
			fail("Failed to render mock endpoint", err)
		}
		registry = mock.NewRegistry(a.store, dict)
	}

	body, err := registry.Render(args[0])
	if err != nil {
		fail("Failed to render mock endpoint", err)
	}
	fmt.Println(format.PrettyJSON(string(body)))
}

func runMockLoad(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load mock file")
	defer a.close()

	f, err := a.mocks.Import(args[0])
	if err != nil {
		fail("Failed to load mock file", err)
	}
	format.PrintSuccess(fmt.Sprintf("Loaded %d mock endpoints from %s", len(f.Endpoints), args[0]))
}

func runMockSave(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to save mock file")
	defer a.close()

	if err := a.mocks.Export(args[0]); err != nil {
		fail("Failed to save mock file", err)
	}
	format.PrintSuccess(fmt.Sprintf("Mock endpoints saved to %s", args[0]))
}
