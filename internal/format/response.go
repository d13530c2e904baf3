package format

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"

	"github.com/vedsharma/apitester/internal/model"
)

// Mode selects how a response body is rendered
type Mode string

const (
	Formatted Mode = "formatted"
	Raw       Mode = "raw"
	Headers   Mode = "headers"
)

// InvalidJSON replaces a JSON body that cannot be re-indented
const InvalidJSON = "Invalid JSON"

// ExportFile is the file name used by Export
const ExportFile = "response.txt"

// ParseMode validates a --format value
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case Formatted, Raw, Headers:
		return m, nil
	case "":
		return Formatted, nil
	default:
		return "", fmt.Errorf("unknown format %q (use formatted, raw or headers)", s)
	}
}

// Render returns the record rendered in mode
func Render(rec *model.ResponseRecord, mode Mode, theme string) string {
	switch mode {
	case Raw:
		return rec.Text()
	case Headers:
		return HeaderTable(rec.Headers, theme)
	default:
		if rec.IsJSON() {
			return PrettyJSON(rec.Text())
		}
		return rec.Text()
	}
}

// PrettyJSON indents s with two spaces, or returns InvalidJSON
func PrettyJSON(s string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(s), "", "  "); err != nil {
		return InvalidJSON
	}
	return out.String()
}

// prettyIfJSON indents s when it parses as JSON and returns it unchanged otherwise
func prettyIfJSON(s string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(s), "", "  "); err != nil {
		return s
	}
	return out.String()
}

// HeaderTable renders headers as a two-column table in iteration order
func HeaderTable(h model.Headers, theme string) string {
	if h.Len() == 0 {
		return "(no headers)"
	}

	p := paletteFor(theme)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.primary).Padding(0, 1)
	keyStyle := lipgloss.NewStyle().Foreground(p.secondary).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Foreground(p.text).Padding(0, 1)

	rows := make([][]string, 0, h.Len())
	for _, kv := range h.All() {
		rows = append(rows, []string{sanitizeOutput(kv.Key), sanitizeOutput(kv.Value)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.muted)).
		Headers("Header", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return valueStyle
			}
		})

	return t.String()
}

// Export writes the raw response body to dir/response.txt and returns the path
func Export(rec *model.ResponseRecord, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ExportFile)
	if err := os.WriteFile(path, []byte(rec.Text()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// Copy puts text on the system clipboard
func Copy(text string) error {
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Filter applies a JMESPath expression to a JSON body and returns indented JSON
func Filter(body, expression string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}
