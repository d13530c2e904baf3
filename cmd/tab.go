package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/workspace"
)

var (
	tabCloseYes bool
	tabSendOut  outputFlags
)

func init() {
	tabCmd := &cobra.Command{
		Use:   "tab",
		Short: "Work with request tabs",
		Long: `Work with request tabs.

Every sent request and its response are kept on the active tab. Tabs are
referenced by id or name; commands that take an optional tab default to
the active one.`,
		Run: runTabList,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List open tabs",
		Run:   runTabList,
	}

	newCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Open a new tab and make it active",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTabNew,
	}

	closeCmd := &cobra.Command{
		Use:   "close [tab]",
		Short: "Close a tab",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTabClose,
	}
	closeCmd.Flags().BoolVarP(&tabCloseYes, "yes", "y", false, "Close the last tab without asking")

	switchCmd := &cobra.Command{
		Use:   "switch <tab>",
		Short: "Make a tab active",
		Args:  cobra.ExactArgs(1),
		Run:   runTabSwitch,
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Activate the next tab",
		Run:   runTabStep(true),
	}

	prevCmd := &cobra.Command{
		Use:   "prev",
		Short: "Activate the previous tab",
		Run:   runTabStep(false),
	}

	renameCmd := &cobra.Command{
		Use:   "rename <tab> <name>",
		Short: "Rename a tab",
		Args:  cobra.ExactArgs(2),
		Run:   runTabRename,
	}

	showCmd := &cobra.Command{
		Use:   "show [tab]",
		Short: "Show a tab's request and last response",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTabShow,
	}

	sendCmd := &cobra.Command{
		Use:   "send [tab]",
		Short: "Send the request kept on a tab",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTabSend,
	}
	addOutputFlags(sendCmd, &tabSendOut)

	tabCmd.AddCommand(listCmd, newCmd, closeCmd, switchCmd, nextCmd, prevCmd, renameCmd, showCmd, sendCmd)
	tabCmd.AddCommand(tabPairCommands()...)
	rootCmd.AddCommand(tabCmd)
}

// loadWorkspace opens the app and the tab set
func loadWorkspace(action string) (*app, *workspace.Workspace) {
	a := mustOpenApp(action)
	ws, err := workspace.Load(a.store)
	if err != nil {
		a.close()
		fail(action, err)
	}
	return a, ws
}

func saveWorkspace(ws *workspace.Workspace, action string) {
	if err := ws.Save(); err != nil {
		fail(action, err)
	}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runTabList(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to load tabs")
	defer a.close()

	active, _ := ws.Active()
	format.PrintTabs(ws.Tabs(), active.ID)
}

func runTabNew(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to open tab")
	defer a.close()

	tab := ws.Add(optionalArg(args))
	saveWorkspace(ws, "Failed to open tab")
	format.PrintSuccess(fmt.Sprintf("Opened tab '%s' (%s)", tab.Name, tab.ID))
}

func runTabClose(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to close tab")
	defer a.close()

	confirm := promptConfirm(os.Stdin)
	if tabCloseYes {
		confirm = func(string) bool { return true }
	}

	closed, err := ws.Close(optionalArg(args), confirm)
	if errors.Is(err, workspace.ErrCloseCancelled) {
		format.PrintInfo("Cancelled")
		return
	}
	if err != nil {
		fail("Failed to close tab", err)
	}
	saveWorkspace(ws, "Failed to close tab")
	format.PrintSuccess(fmt.Sprintf("Closed tab '%s'", closed.Name))
}

// promptConfirm asks a yes/no question on stdout and reads the answer from in
func promptConfirm(in io.Reader) workspace.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Printf("%s [y/N] ", prompt)
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func runTabSwitch(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to switch tab")
	defer a.close()

	tab, err := ws.Activate(args[0])
	if err != nil {
		fail("Failed to switch tab", err)
	}
	saveWorkspace(ws, "Failed to switch tab")
	format.PrintSuccess(fmt.Sprintf("Switched to tab '%s'", tab.Name))
}

func runTabStep(forward bool) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		a, ws := loadWorkspace("Failed to switch tab")
		defer a.close()

		step := ws.Prev
		if forward {
			step = ws.Next
		}
		tab, err := step()
		if err != nil {
			fail("Failed to switch tab", err)
		}
		saveWorkspace(ws, "Failed to switch tab")
		format.PrintSuccess(fmt.Sprintf("Switched to tab '%s'", tab.Name))
	}
}

func runTabRename(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to rename tab")
	defer a.close()

	if err := ws.Rename(args[0], args[1]); err != nil {
		fail("Failed to rename tab", err)
	}
	saveWorkspace(ws, "Failed to rename tab")
	format.PrintSuccess(fmt.Sprintf("Tab renamed to '%s'", args[1]))
}

func runTabShow(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to load tab")
	defer a.close()

	tab, err := ws.Get(optionalArg(args))
	if err != nil {
		fail("Failed to load tab", err)
	}

	fmt.Printf("Tab: %s\n", tab.Name)
	fmt.Println(strings.Repeat("-", 40))
	if tab.Request.URL == "" {
		format.PrintInfo("No request yet")
		return
	}
	format.PrintRequest(tab.Request)

	if tab.Response == nil {
		format.PrintInfo("No response yet")
		return
	}
	fmt.Println("Response:")
	fmt.Println(strings.Repeat("-", 40))
	format.PrintResponse(tab.Response, format.Formatted, a.theme())
}

func runTabSend(cmd *cobra.Command, args []string) {
	a, ws := loadWorkspace("Failed to send tab")
	defer a.close()

	tab, err := ws.Activate(optionalArg(args))
	if err != nil {
		fail("Failed to send tab", err)
	}
	if tab.Request.URL == "" {
		format.PrintError(fmt.Sprintf("Tab '%s' has no request to send", tab.Name))
		exit(1)
	}
	saveWorkspace(ws, "Failed to send tab")

	if !sendRequest(cmd.Context(), a, tab.Request, tabSendOut) {
		exit(1)
	}
}
