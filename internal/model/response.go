package model

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// ErrorStatusText is the status text carried by every ErrorRecord
const ErrorStatusText = "Error"

// RawJSON is a compact JSON document kept byte-for-byte, so objects keep the
// key order the server sent them in
type RawJSON []byte

// MarshalJSON returns the document itself
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// ResponseRecord is the normalized, display-ready form of a response.
// Data holds either a RawJSON document or the body text.
type ResponseRecord struct {
	Status     int     `json:"status"`
	StatusText string  `json:"statusText"`
	Headers    Headers `json:"headers"`
	Data       any     `json:"data"`
	TimingMs   int64   `json:"timing"`
	SizeBytes  int     `json:"size"`
}

// NewErrorRecord builds the record shown when a send fails
func NewErrorRecord(message string, timingMs int64) *ResponseRecord {
	if timingMs < 0 {
		timingMs = 0
	}
	return &ResponseRecord{
		Status:     0,
		StatusText: ErrorStatusText,
		Headers:    Headers{},
		Data:       message,
		TimingMs:   timingMs,
		SizeBytes:  0,
	}
}

// IsError reports whether the record stands for a failed send
func (r *ResponseRecord) IsError() bool {
	return r.Status == 0 && r.StatusText == ErrorStatusText
}

// ContentType returns the content-type response header, matched case-insensitively
func (r *ResponseRecord) ContentType() string {
	for _, h := range r.Headers.All() {
		if strings.EqualFold(h.Key, "content-type") {
			return h.Value
		}
	}
	return ""
}

// IsJSON reports whether the response was classified as JSON
func (r *ResponseRecord) IsJSON() bool {
	return IsJSONContentType(r.ContentType())
}

// Text returns the body as display text: the string itself for text bodies,
// compact JSON for parsed ones
func (r *ResponseRecord) Text() string {
	return DataText(r.Data)
}

// UnmarshalJSON keeps a stored JSON body as RawJSON instead of a Go map
func (r *ResponseRecord) UnmarshalJSON(data []byte) error {
	type plain ResponseRecord
	var aux struct {
		plain
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ResponseRecord(aux.plain)

	raw := bytes.TrimSpace(aux.Data)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		r.Data = nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		r.Data = s
	default:
		r.Data = RawJSON(append([]byte(nil), raw...))
	}
	return nil
}

// IsJSONContentType reports whether a content-type names a JSON body
func IsJSONContentType(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

// DataText serializes a response data value the way it is measured and exported
func DataText(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	case RawJSON:
		return string(v)
	case []byte:
		return string(v)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return ""
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}
