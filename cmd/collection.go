package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/builder"
	"github.com/vedsharma/apitester/internal/collection"
	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/history"
	"github.com/vedsharma/apitester/internal/model"
)

var (
	collectionAddFlags requestFlags
	collectionRunOut   outputFlags
)

func init() {
	collectionCmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Manage request collections",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all collections",
		Run:   runCollectionList,
	}

	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new collection",
		Long: `Create a new collection. Without a name the collection is called
"New Collection N".`,
		Args: cobra.MaximumNArgs(1),
		Run:  runCollectionCreate,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <collection> <new-name>",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		Run:   runCollectionRename,
	}

	showCmd := &cobra.Command{
		Use:   "show <collection>",
		Short: "Show requests in a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionShow,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <collection>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionDelete,
	}

	addCmd := &cobra.Command{
		Use:   "add <collection> <name> <method> <url>",
		Short: "Add a request to a collection",
		Long: `Add a request to a collection.

Example:
  apitester collection add my-api "Get Users" GET https://api.example.com/users`,
		Args: cobra.ExactArgs(4),
		Run:  runCollectionAdd,
	}
	addFormFlags(addCmd, &collectionAddFlags)

	removeCmd := &cobra.Command{
		Use:   "remove-request <collection> <index>",
		Short: "Remove a request from a collection",
		Args:  cobra.ExactArgs(2),
		Run:   runCollectionRemoveRequest,
	}

	moveCmd := &cobra.Command{
		Use:   "move <collection> <from> <to>",
		Short: "Reorder a request within a collection",
		Args:  cobra.ExactArgs(3),
		Run:   runCollectionMove,
	}

	runCmd := &cobra.Command{
		Use:   "run <collection>",
		Short: "Run all requests in a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionRun,
	}
	addOutputFlags(runCmd, &collectionRunOut)

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all collections as JSON",
		Args:  cobra.MaximumNArgs(1),
		Run:   runCollectionExport,
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import collections from a JSON file",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionImport,
	}

	collectionCmd.AddCommand(listCmd, createCmd, renameCmd, showCmd, deleteCmd,
		addCmd, removeCmd, moveCmd, runCmd, exportCmd, importCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionList(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load collections")
	defer a.close()

	cols, err := a.collections.List()
	if err != nil {
		fail("Failed to load collections", err)
	}
	format.PrintCollectionList(cols)
}

func runCollectionCreate(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to create collection")
	defer a.close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	col, err := a.collections.Create(name)
	if err != nil {
		fail("Failed to create collection", err)
	}
	format.PrintSuccess(fmt.Sprintf("Collection '%s' created (%s)", col.Name, col.ID))
}

func runCollectionRename(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to rename collection")
	defer a.close()

	if err := a.collections.Rename(args[0], args[1]); err != nil {
		fail("Failed to rename collection", err)
	}
	format.PrintSuccess(fmt.Sprintf("Collection '%s' renamed to '%s'", args[0], args[1]))
}

func runCollectionShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load collection")
	defer a.close()

	col, err := a.collections.Get(args[0])
	if err != nil {
		fail("Failed to load collection", err)
	}
	format.PrintCollectionRequests(col)
}

func runCollectionDelete(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to delete collection")
	defer a.close()

	if err := a.collections.Delete(args[0]); err != nil {
		fail("Failed to delete collection", err)
	}
	format.PrintSuccess(fmt.Sprintf("Collection '%s' deleted", args[0]))
}

func runCollectionAdd(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to add request")
	defer a.close()

	ref, name, method, url := args[0], args[1], args[2], args[3]

	method, err := builder.NormalizeMethod(method)
	if err != nil {
		fail("Failed to add request", err)
	}

	desc, err := buildRequest(a, method, url, collectionAddFlags)
	if err != nil {
		fail("Failed to add request", err)
	}

	req := savedRequest(name, url, desc)
	if _, err := a.collections.AddRequest(ref, req); err != nil {
		fail("Failed to add request", err)
	}
	format.PrintSuccess(fmt.Sprintf("Request '%s' added to collection '%s'", name, ref))
}

func runCollectionRemoveRequest(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to remove request")
	defer a.close()

	index, err := strconv.Atoi(args[1])
	if err != nil {
		fail("Failed to remove request", fmt.Errorf("invalid index %q", args[1]))
	}
	if err := a.collections.RemoveRequest(args[0], index); err != nil {
		fail("Failed to remove request", err)
	}
	format.PrintSuccess(fmt.Sprintf("Request %d removed from collection '%s'", index, args[0]))
}

func runCollectionMove(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to move request")
	defer a.close()

	from, err := strconv.Atoi(args[1])
	if err != nil {
		fail("Failed to move request", fmt.Errorf("invalid index %q", args[1]))
	}
	to, err := strconv.Atoi(args[2])
	if err != nil {
		fail("Failed to move request", fmt.Errorf("invalid index %q", args[2]))
	}
	if err := a.collections.MoveRequest(args[0], from, to); err != nil {
		fail("Failed to move request", err)
	}
	format.PrintSuccess(fmt.Sprintf("Moved request %d to position %d", from, to))
}

func runCollectionRun(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load collection")
	defer a.close()

	col, err := a.collections.Get(args[0])
	if err != nil {
		fail("Failed to load collection", err)
	}

	if len(col.Requests) == 0 {
		format.PrintError(fmt.Sprintf("Collection '%s' is empty", col.Name))
		exit(1)
	}

	failed := runCollection(cmd.Context(), a, col, collectionRunOut)
	if failed > 0 {
		format.PrintWarning(fmt.Sprintf("Completed running collection '%s' with %d failed requests", col.Name, failed))
		return
	}
	format.PrintSuccess(fmt.Sprintf("Completed running collection '%s'", col.Name))
}

// runCollection sends every request of col in order and returns how many failed
func runCollection(ctx context.Context, a *app, col model.Collection, out outputFlags) int {
	fmt.Printf("Running %d requests from collection '%s'\n\n", len(col.Requests), col.Name)

	failed := 0
	for i, req := range col.Requests {
		desc, dropped := history.DropRedacted(req.Descriptor())
		if dropped {
			format.PrintWarning("Stored credentials were redacted; the request is sent without them.")
		}

		resolved, err := a.settings.ResolveURL(desc.URL)
		if err != nil {
			format.PrintError(fmt.Sprintf("Request failed: %v", err))
			failed++
			continue
		}
		desc.URL = resolved

		if req.Name != "" {
			fmt.Printf("[%d/%d] %s\n", i+1, len(col.Requests), req.Name)
		} else {
			fmt.Printf("[%d/%d] %s %s\n", i+1, len(col.Requests), desc.Method, desc.URL)
		}

		if !sendRequest(ctx, a, desc, out) {
			failed++
		}
		fmt.Println()
	}
	return failed
}

// savedRequest builds a collection entry from desc. rawURL is the URL as
// typed so an alias stays unresolved and follows later alias changes.
func savedRequest(name, rawURL string, desc model.RequestDescriptor) model.SavedRequest {
	base, _, _ := builder.SplitURL(rawURL)
	_, query, fragment := builder.SplitURL(desc.URL)
	if query != "" {
		base += "?" + query
	}
	if fragment != "" {
		base += "#" + fragment
	}

	return model.SavedRequest{
		Name:    name,
		Method:  desc.Method,
		URL:     base,
		Headers: desc.Headers,
		Body:    desc.Body,
		Auth:    desc.Auth,
	}
}

func runCollectionExport(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to export collections")
	defer a.close()

	path := collection.ExportFile
	if len(args) == 1 {
		path = args[0]
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		fail("Failed to export collections", err)
	}
	defer f.Close()

	if err := a.collections.Export(f); err != nil {
		fail("Failed to export collections", err)
	}
	format.PrintSuccess(fmt.Sprintf("Collections exported to %s", path))
}

func runCollectionImport(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to import collections")
	defer a.close()

	f, err := os.Open(args[0])
	if err != nil {
		fail("Failed to import collections", err)
	}
	defer f.Close()

	imported, err := a.collections.Import(f)
	if errors.Is(err, collection.ErrInvalidJSONFile) {
		format.PrintError(collection.ErrInvalidJSONFile.Error())
		exit(1)
	}
	if err != nil {
		fail("Failed to import collections", err)
	}
	format.PrintSuccess(fmt.Sprintf("Imported %d collections from %s", len(imported), args[0]))
}
