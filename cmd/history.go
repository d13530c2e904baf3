package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/history"
)

var (
	historyRerunOut outputFlags
	historyHARPath  string
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View request history",
		Run:   runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "n", 10, "Number of requests to show")

	showCmd := &cobra.Command{
		Use:   "show <id or index>",
		Short: "Show full details of a request",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id or index>",
		Short: "Remove one request from history",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryRemove,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all history",
		Run:   runHistoryClear,
	}

	rerunCmd := &cobra.Command{
		Use:   "rerun <id or index>",
		Short: "Send a request from history again",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryRerun,
	}
	addOutputFlags(rerunCmd, &historyRerunOut)

	exportCmd := &cobra.Command{
		Use:   "export --har <file>",
		Short: "Export history as an HTTP Archive (HAR) file",
		Args:  cobra.NoArgs,
		Run:   runHistoryExport,
	}
	exportCmd.Flags().StringVar(&historyHARPath, "har", "", "HAR file to write")
	exportCmd.MarkFlagRequired("har")

	historyCmd.AddCommand(showCmd, removeCmd, clearCmd, rerunCmd, exportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load history")
	defer a.close()

	entries, err := a.history.List()
	if err != nil {
		fail("Failed to load history", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	format.PrintHistoryList(entries, limit)
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to load history")
	defer a.close()

	entry, err := a.history.Get(args[0])
	if err != nil {
		fail("Failed to load history", err)
	}
	format.PrintHistoryDetail(entry)
}

func runHistoryRemove(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to remove request")
	defer a.close()

	if err := a.history.Remove(args[0]); err != nil {
		fail("Failed to remove request", err)
	}
	format.PrintSuccess(fmt.Sprintf("Removed %s from history", args[0]))
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to clear history")
	defer a.close()

	if err := a.history.Clear(); err != nil {
		fail("Failed to clear history", err)
	}
	format.PrintSuccess("History cleared")
}

func runHistoryRerun(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to rerun request")
	defer a.close()

	entry, err := a.history.Get(args[0])
	if err != nil {
		fail("Failed to rerun request", err)
	}

	desc, dropped := history.DropRedacted(entry.RequestDescriptor)
	if dropped {
		format.PrintWarning("Stored credentials were redacted; the request is sent without them.")
	}

	if !sendRequest(cmd.Context(), a, desc, historyRerunOut) {
		exit(1)
	}
}

func runHistoryExport(cmd *cobra.Command, args []string) {
	a := mustOpenApp("Failed to export history")
	defer a.close()

	entries, err := a.history.List()
	if err != nil {
		fail("Failed to export history", err)
	}

	f, err := os.OpenFile(historyHARPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		fail("Failed to export history", err)
	}
	defer f.Close()

	if err := history.ExportHAR(f, entries, rootCmd.Name(), version); err != nil {
		fail("Failed to export history", err)
	}
	format.PrintSuccess(fmt.Sprintf("Exported %d requests to %s", len(entries), historyHARPath))
}
