package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/builder"
	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/history"
	httpclient "github.com/vedsharma/apitester/internal/http"
	"github.com/vedsharma/apitester/internal/kvlist"
	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/snippet"
	"github.com/vedsharma/apitester/internal/workspace"
)

// requestFlags holds the form flags shared by the method commands and snippet
type requestFlags struct {
	headers  []string
	params   []string
	data     string
	bearer   string
	authType string
}

// outputFlags controls what happens with a response
type outputFlags struct {
	noHistory   bool
	collection  string
	name        string
	format      string
	exportDir   string
	copy        bool
	filter      string
	snippetLang string
}

var (
	reqFlags requestFlags
	outFlags outputFlags
)

func init() {
	for _, method := range model.Methods {
		cmd := &cobra.Command{
			Use:   strings.ToLower(method) + " <url>",
			Short: fmt.Sprintf("Send a %s request", method),
			Args:  cobra.ExactArgs(1),
			Run:   runRequest(method),
		}
		addFormFlags(cmd, &reqFlags)
		addOutputFlags(cmd, &outFlags)
		rootCmd.AddCommand(cmd)
	}
}

func addFormFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", []string{}, "Add header 'Key: Value' (can be used multiple times)")
	cmd.Flags().StringArrayVarP(&f.params, "param", "q", []string{}, "Add query parameter key=value (can be used multiple times)")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "Request body (JSON string or @filename)")
	cmd.Flags().StringVar(&f.bearer, "bearer", "", "Bearer token; sets the Authorization header")
	cmd.Flags().StringVar(&f.authType, "auth", "", "Auth type: none, bearer or basic")
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Don't save to history")
	cmd.Flags().StringVarP(&f.collection, "collection", "c", "", "Save to collection (id or name)")
	cmd.Flags().StringVar(&f.name, "name", "", "Name of the request saved with --collection")
	cmd.Flags().StringVarP(&f.format, "format", "f", "formatted", "Response view: formatted, raw or headers")
	cmd.Flags().StringVar(&f.exportDir, "export", "", "Write the raw response to <dir>/response.txt")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "Copy the raw response to the clipboard")
	cmd.Flags().StringVar(&f.filter, "filter", "", "JMESPath expression applied to a JSON response")
	cmd.Flags().StringVar(&f.snippetLang, "snippet", "", "Also print the request as a curl or fetch snippet")
}

func runRequest(method string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		a := mustOpenApp("Request failed")
		defer a.close()

		if show, err := a.settings.ShowOnboarding(); err == nil && show {
			format.PrintOnboarding()
		}

		desc, err := buildRequest(a, method, args[0], reqFlags)
		if err != nil {
			fail("Invalid request", err)
		}

		if !outFlags.noHistory && a.cfg.Redact() && history.LooksSensitive(desc.Body) {
			format.PrintWarning("Request body may contain sensitive data (e.g., passwords, tokens). This will be stored in history.")
			format.PrintInfo("  Use --no-history flag to skip storing this request.")
		}

		if !sendRequest(cmd.Context(), a, desc, outFlags) {
			exit(1)
		}
	}
}

// buildRequest resolves aliases and turns the form flags into a descriptor
func buildRequest(a *app, method, rawURL string, f requestFlags) (model.RequestDescriptor, error) {
	resolved, err := a.settings.ResolveURL(rawURL)
	if err != nil {
		return model.RequestDescriptor{}, err
	}

	form := builder.NewForm()
	form.Method = method
	form.SetURL(resolved)

	for _, h := range f.headers {
		pair, ok := kvlist.ParsePair(h, ":")
		if !ok {
			return model.RequestDescriptor{}, fmt.Errorf("invalid header %q (use 'Key: Value')", h)
		}
		form.Headers.Append(pair.Key, pair.Value)
	}

	for _, p := range f.params {
		pair, ok := kvlist.ParsePair(p, "=")
		if !ok {
			pair = model.KeyValuePair{Key: p}
		}
		form.Params.Append(pair.Key, pair.Value)
	}

	body := f.data
	if strings.HasPrefix(body, "@") {
		content, err := readBodyFromFile(strings.TrimPrefix(body, "@"))
		if err != nil {
			return model.RequestDescriptor{}, fmt.Errorf("failed to read file: %w", err)
		}
		body = content
	}
	form.Body = body

	form.Auth = model.AuthSpec{Type: model.AuthNone}
	switch {
	case f.authType != "":
		form.Auth.Type = strings.ToLower(f.authType)
		form.Auth.Token = f.bearer
	case f.bearer != "":
		form.Auth = model.AuthSpec{Type: model.AuthBearer, Token: f.bearer}
	}
	switch form.Auth.Type {
	case model.AuthNone, model.AuthBearer, model.AuthBasic:
	default:
		return model.RequestDescriptor{}, fmt.Errorf("unknown auth type %q (use none, bearer or basic)", f.authType)
	}

	return form.Descriptor()
}

// sendRequest runs one request through the pipeline and handles its outputs.
// It reports whether the request completed.
func sendRequest(ctx context.Context, a *app, desc model.RequestDescriptor, out outputFlags) bool {
	mode, err := format.ParseMode(out.format)
	if err != nil {
		format.PrintError(err.Error())
		return false
	}
	timeout, _ := a.cfg.RequestTimeout()
	client := httpclient.NewClient(httpclient.WithTimeout(timeout))
	client.OnStateChange = func(s httpclient.State) {
		slog.Debug("request state", "state", s.String(), "url", desc.URL)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res := client.Send(ctx, desc)
	rec := res.Record

	storeOnActiveTab(a, desc, rec)

	if res.State == httpclient.Failed {
		format.PrintError(fmt.Sprintf("Request failed: %v", res.Err))
		format.PrintResponse(rec, format.Raw, a.theme())
		return false
	}

	if verbose && mode != format.Headers {
		fmt.Println(format.HeaderTable(rec.Headers, a.theme()))
	}

	printed := false
	if out.filter != "" && rec.IsJSON() {
		filtered, err := format.Filter(rec.Text(), out.filter)
		if err != nil {
			format.PrintError(err.Error())
		} else {
			format.PrintFiltered(rec, filtered)
			printed = true
		}
	}
	if !printed {
		format.PrintResponse(rec, mode, a.theme())
	}

	if !out.noHistory {
		if _, err := a.history.Add(desc, rec); err != nil {
			format.PrintWarning(fmt.Sprintf("Failed to save history: %v", err))
		}
	}

	if out.collection != "" {
		saveToCollection(a, out.collection, out.name, desc)
	}

	if out.exportDir != "" {
		if path, err := format.Export(rec, out.exportDir); err != nil {
			format.PrintError(err.Error())
		} else {
			format.PrintSuccess(fmt.Sprintf("Response exported to %s", path))
		}
	}

	if out.copy {
		if err := format.Copy(rec.Text()); err != nil {
			format.PrintError(err.Error())
		} else {
			format.PrintSuccess("Response copied to clipboard")
		}
	}

	if out.snippetLang != "" {
		code, err := snippet.Generate(snippet.Language(out.snippetLang), desc)
		if err != nil {
			format.PrintError(err.Error())
		} else {
			fmt.Println()
			format.PrintSnippet(code)
		}
	}

	return true
}

// storeOnActiveTab keeps the last request and response on the active tab
func storeOnActiveTab(a *app, desc model.RequestDescriptor, rec *model.ResponseRecord) {
	ws, err := workspace.Load(a.store)
	if err != nil {
		format.PrintWarning(fmt.Sprintf("Failed to load tabs: %v", err))
		return
	}
	if _, ok := ws.Active(); !ok {
		ws.Add("")
	}
	if err := ws.UpdateRequest("", desc); err != nil {
		return
	}
	if err := ws.UpdateResponse("", rec); err != nil {
		return
	}
	if err := ws.Save(); err != nil {
		format.PrintWarning(fmt.Sprintf("Failed to save tabs: %v", err))
	}
}

func saveToCollection(a *app, ref, name string, desc model.RequestDescriptor) {
	req := savedRequest(name, desc.URL, desc)
	if _, err := a.collections.AddRequest(ref, req); err != nil {
		format.PrintError(fmt.Sprintf("Failed to save to collection: %v", err))
		return
	}
	format.PrintSuccess(fmt.Sprintf("Saved to collection '%s'", ref))
}

// readBodyFromFile reads file content with path validation to prevent directory traversal
func readBodyFromFile(filename string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}
	cleanPath := filepath.Clean(absPath)

	if !withinDir(cleanPath, wd) {
		return "", errors.New("access denied: file must be within current directory")
	}

	// Check for symlinks - resolve and verify target is also within working directory
	realPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		realPath = cleanPath
	} else if !withinDir(realPath, wd) {
		return "", errors.New("access denied: symlink target must be within current directory")
	}

	content, err := os.ReadFile(realPath)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func withinDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
