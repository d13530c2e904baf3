package history

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pb33f/harhar"

	"github.com/vedsharma/apitester/internal/builder"
	"github.com/vedsharma/apitester/internal/kvlist"
	"github.com/vedsharma/apitester/internal/model"
)

const harVersion = "1.2"

// harDocument is the root of an HTTP Archive file
type harDocument struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Version string         `json:"version"`
	Creator harhar.Creator `json:"creator"`
	Entries []harhar.Entry `json:"entries"`
}

// ExportHAR writes entries as an HTTP Archive. History keeps only status and
// timing of each response, so response bodies are empty.
func ExportHAR(w io.Writer, entries []model.HistoryEntry, creator, version string) error {
	doc := harDocument{
		Log: harLog{
			Version: harVersion,
			Creator: harhar.Creator{Name: creator, Version: version},
			Entries: make([]harhar.Entry, 0, len(entries)),
		},
	}

	for _, e := range entries {
		doc.Log.Entries = append(doc.Log.Entries, harEntry(e))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func harEntry(e model.HistoryEntry) harhar.Entry {
	req := harhar.Request{
		Method:      e.Method,
		URL:         e.URL,
		HTTPVersion: "HTTP/1.1",
		Headers:     nameValuePairs(e.Headers),
		QueryParams: queryParams(e.URL),
	}
	if e.HasBody() {
		req.Body = harhar.BodyType{
			MIMEType: contentType(e.Headers),
			Content:  e.Body,
		}
		req.BodySize = len(e.Body)
	}

	return harhar.Entry{
		Start:   e.Timestamp.Format(time.RFC3339),
		Time:    float64(e.TimingMs),
		Request: req,
		Response: harhar.Response{
			StatusCode:  e.Status,
			StatusText:  statusText(e.Status),
			HTTPVersion: "HTTP/1.1",
		},
	}
}

func nameValuePairs(h model.Headers) []harhar.NameValuePair {
	pairs := make([]harhar.NameValuePair, 0, h.Len())
	for _, kv := range h.All() {
		pairs = append(pairs, harhar.NameValuePair{Name: kv.Key, Value: kv.Value})
	}
	return pairs
}

func queryParams(rawURL string) []harhar.NameValuePair {
	_, query, _ := builder.SplitURL(rawURL)
	if query == "" {
		return nil
	}

	var pairs []harhar.NameValuePair
	for _, p := range kvlist.FromQueryString(query) {
		pairs = append(pairs, harhar.NameValuePair{Name: p.Key, Value: p.Value})
	}
	return pairs
}

func contentType(h model.Headers) string {
	for _, kv := range h.All() {
		if strings.EqualFold(kv.Key, "Content-Type") {
			return kv.Value
		}
	}
	return "application/json"
}

func statusText(code int) string {
	if code == 0 {
		return model.ErrorStatusText
	}
	return http.StatusText(code)
}
