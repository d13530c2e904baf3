// Package format renders responses and stored entities for the terminal.
package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/settings"
)

// sanitizeOutput removes or escapes potentially dangerous control characters
// that could manipulate terminal display or execute commands
func sanitizeOutput(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			result.WriteRune(r)
		case r == '\x1b':
			// Escape ANSI escape sequences - replace ESC with visible representation
			result.WriteString("\\x1b")
		case unicode.IsControl(r) && r < 0x20:
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		case r == 0x7F:
			result.WriteString("\\x7f")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

var (
	successColor   = color.New(color.FgGreen, color.Bold)
	redirectColor  = color.New(color.FgYellow, color.Bold)
	clientErrColor = color.New(color.FgRed, color.Bold)
	serverErrColor = color.New(color.FgRed, color.Bold, color.BgWhite)
	headerKeyColor = color.New(color.FgCyan)
	methodColor    = color.New(color.FgMagenta, color.Bold)
	urlColor       = color.New(color.FgBlue)
	dimColor       = color.New(color.Faint)
	warnColor      = color.New(color.FgYellow)
)

// PrintResponse prints the status line, timing and size, then the body in mode
func PrintResponse(rec *model.ResponseRecord, mode Mode, theme string) {
	printStatusLine(rec)
	dimColor.Printf("  Time: %dms  Size: %s\n\n", rec.TimingMs, humanSize(rec.SizeBytes))

	if mode == Headers {
		fmt.Println(Render(rec, Headers, theme))
		return
	}

	body := Render(rec, mode, theme)
	if body == "" {
		dimColor.Println("(empty body)")
		return
	}
	fmt.Println(sanitizeOutput(body))
}

// PrintFiltered prints the status line followed by a filtered body
func PrintFiltered(rec *model.ResponseRecord, body string) {
	printStatusLine(rec)
	dimColor.Printf("  Time: %dms  Size: %s\n\n", rec.TimingMs, humanSize(rec.SizeBytes))
	fmt.Println(sanitizeOutput(body))
}

func printStatusLine(rec *model.ResponseRecord) {
	if rec.IsError() {
		clientErrColor.Println(model.ErrorStatusText)
		return
	}
	statusColor := getStatusColor(rec.Status)
	statusColor.Printf("%d %s\n", rec.Status, sanitizeOutput(rec.StatusText))
}

func getStatusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return successColor
	case code >= 300 && code < 400:
		return redirectColor
	case code >= 400 && code < 500:
		return clientErrColor
	default:
		return serverErrColor
	}
}

func humanSize(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func printHeaders(headers model.Headers) {
	if headers.Len() == 0 {
		return
	}

	fmt.Println("Headers:")
	for _, h := range headers.All() {
		headerKeyColor.Printf("  %s: ", sanitizeOutput(h.Key))
		fmt.Println(sanitizeOutput(h.Value))
	}
	fmt.Println()
}

// PrintPairs prints numbered key/value rows, numbering from 1
func PrintPairs(title string, pairs []model.KeyValuePair) {
	fmt.Printf("%s:\n", title)
	if len(pairs) == 0 {
		dimColor.Println("  (none)")
		return
	}
	for i, p := range pairs {
		dimColor.Printf("  %d. ", i+1)
		headerKeyColor.Printf("%s", sanitizeOutput(p.Key))
		fmt.Printf(" = %s\n", sanitizeOutput(p.Value))
	}
}

// PrintRequest prints a request line with its headers and body
func PrintRequest(desc model.RequestDescriptor) {
	methodColor.Printf("%s ", desc.Method)
	urlColor.Println(sanitizeOutput(desc.URL))
	if desc.Auth.Type != "" && desc.Auth.Type != model.AuthNone {
		dimColor.Printf("Auth: %s\n", desc.Auth.Type)
	}
	fmt.Println()

	printHeaders(desc.Headers)

	if desc.HasBody() {
		fmt.Println("Body:")
		fmt.Println(sanitizeOutput(prettyIfJSON(desc.Body)))
		fmt.Println()
	}
}

// PrintHistoryDetail prints one history entry in full
func PrintHistoryDetail(e model.HistoryEntry) {
	fmt.Println("Request:")
	fmt.Println(strings.Repeat("-", 40))
	dimColor.Printf("ID: %s\n", e.ID)
	dimColor.Printf("Time: %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	if e.Status != 0 {
		fmt.Print("Status: ")
		getStatusColor(e.Status).Printf("%d ", e.Status)
		dimColor.Printf("(%dms)\n", e.TimingMs)
	}
	fmt.Println()
	PrintRequest(e.RequestDescriptor)
}

// PrintHistoryList prints a list of requests in a compact format
func PrintHistoryList(entries []model.HistoryEntry, limit int) {
	if len(entries) == 0 {
		dimColor.Println("No requests in history")
		return
	}

	count := len(entries)
	if limit > 0 && limit < count {
		count = limit
	}

	for i := 0; i < count; i++ {
		e := entries[i]
		dimColor.Printf("[%d] ", i+1)
		methodColor.Printf("%-7s ", e.Method)
		urlColor.Printf("%-60s ", sanitizeOutput(truncate(e.URL, 60)))

		if e.Status != 0 {
			getStatusColor(e.Status).Printf("%d ", e.Status)
			dimColor.Printf("(%dms)", e.TimingMs)
		}
		fmt.Println()
	}

	if limit > 0 && len(entries) > limit {
		dimColor.Printf("\n... and %d more requests\n", len(entries)-limit)
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// PrintCollectionList prints collections in stored order
func PrintCollectionList(cols []model.Collection) {
	if len(cols) == 0 {
		dimColor.Println("No collections found")
		return
	}

	fmt.Println("Collections:")
	for _, col := range cols {
		headerKeyColor.Printf("  %s ", sanitizeOutput(col.Name))
		dimColor.Printf("[%s] (%d requests)\n", col.ID, len(col.Requests))
	}
}

// PrintCollectionRequests prints requests in a collection
func PrintCollectionRequests(col model.Collection) {
	if len(col.Requests) == 0 {
		dimColor.Printf("Collection '%s' is empty\n", sanitizeOutput(col.Name))
		return
	}

	headerKeyColor.Printf("Collection: %s\n", sanitizeOutput(col.Name))
	fmt.Println(strings.Repeat("-", 40))

	for i, req := range col.Requests {
		dimColor.Printf("[%d] ", i+1)
		if req.Name != "" {
			fmt.Printf("%s: ", sanitizeOutput(req.Name))
		}
		methodColor.Printf("%s ", req.Method)
		urlColor.Println(sanitizeOutput(req.URL))
	}
}

// PrintTabs lists tabs and marks the active one
func PrintTabs(tabs []model.Tab, activeID string) {
	if len(tabs) == 0 {
		dimColor.Println("No open tabs")
		return
	}

	for i, tab := range tabs {
		marker := " "
		if tab.ID == activeID {
			marker = "*"
		}
		successColor.Printf("%s ", marker)
		dimColor.Printf("[%d] ", i+1)
		fmt.Printf("%s ", sanitizeOutput(tab.Name))
		dimColor.Printf("(%s)", tab.ID)
		if tab.Request.URL != "" {
			fmt.Print(" ")
			methodColor.Printf("%s ", tab.Request.Method)
			urlColor.Print(sanitizeOutput(truncate(tab.Request.URL, 50)))
		}
		if tab.Response != nil {
			fmt.Print(" ")
			if tab.Response.IsError() {
				clientErrColor.Print(model.ErrorStatusText)
			} else {
				getStatusColor(tab.Response.Status).Printf("%d", tab.Response.Status)
			}
		}
		fmt.Println()
	}
}

// PrintMockEndpoints lists mock endpoints and the toggle state
func PrintMockEndpoints(endpoints []model.MockEndpoint, enabled bool) {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	dimColor.Printf("Mock server: %s\n", state)

	if len(endpoints) == 0 {
		dimColor.Println("No mock endpoints")
		return
	}
	for _, ep := range endpoints {
		urlColor.Printf("  %s ", sanitizeOutput(ep.Path))
		dimColor.Print("→ ")
		fmt.Println(sanitizeOutput(ep.Response))
	}
}

// PrintSnippet prints generated code verbatim
func PrintSnippet(code string) {
	fmt.Println(sanitizeOutput(code))
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	successColor.Printf("✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(msg string) {
	clientErrColor.Printf("✗ %s\n", msg)
}

// PrintWarning prints a warning message
func PrintWarning(msg string) {
	warnColor.Printf("! %s\n", msg)
}

// PrintInfo prints a dim informational message
func PrintInfo(msg string) {
	dimColor.Println(msg)
}

// PrintAliasList prints aliases
func PrintAliasList(aliases []settings.Alias) {
	if len(aliases) == 0 {
		dimColor.Println("No aliases found")
		return
	}

	fmt.Println("Aliases:")
	for _, a := range aliases {
		headerKeyColor.Printf("  %s ", sanitizeOutput(a.Name))
		dimColor.Print("→ ")
		urlColor.Println(sanitizeOutput(a.URL))
	}
}

// PrintAlias prints a single alias
func PrintAlias(name, url string) {
	headerKeyColor.Printf("%s ", sanitizeOutput(name))
	dimColor.Print("→ ")
	urlColor.Println(sanitizeOutput(url))
}

// PrintReleaseNotes prints the what's new sections
func PrintReleaseNotes(sections []settings.ReleaseSection) {
	successColor.Println("What's New!")
	for _, section := range sections {
		fmt.Println()
		headerKeyColor.Println(section.Title)
		for _, item := range section.Items {
			fmt.Printf("  • %s\n", item)
		}
	}
}

// PrintOnboarding prints the first-run tip
func PrintOnboarding() {
	headerKeyColor.Println("Welcome to apitester!")
	dimColor.Println("  Send a request:   apitester get https://api.example.com/users")
	dimColor.Println("  Save it:          apitester post <url> -d '{...}' -c \"My API\"")
	dimColor.Println("  Copy as cURL:     apitester snippet curl <url>")
	dimColor.Println("  Hide this tip:    apitester settings onboarding dismiss")
	fmt.Println()
}
