// Package snippet renders a RequestDescriptor as equivalent client code.
package snippet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vedsharma/apitester/internal/model"
)

// Language names a snippet flavour
type Language string

const (
	Curl  Language = "curl"
	Fetch Language = "fetch"
)

// Generate renders desc in the given language
func Generate(lang Language, desc model.RequestDescriptor) (string, error) {
	switch Language(strings.ToLower(string(lang))) {
	case Curl:
		return ToCurl(desc), nil
	case Fetch:
		return ToFetch(desc), nil
	default:
		return "", fmt.Errorf("unknown snippet language %q (use curl or fetch)", lang)
	}
}

// ToCurl renders a multi-line curl command. A bearer token is appended as its
// own --header even when the header map already carries Authorization.
func ToCurl(desc model.RequestDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "curl --request %s \\\n  --url %s", desc.Method, desc.URL)

	for _, h := range desc.Headers.All() {
		fmt.Fprintf(&b, " \\\n  --header '%s: %s'", h.Key, h.Value)
	}

	if desc.Auth.IsBearer() {
		fmt.Fprintf(&b, " \\\n  --header 'Authorization: Bearer %s'", desc.Auth.Token)
	}

	if desc.HasBody() {
		fmt.Fprintf(&b, " \\\n  --data '%s'", desc.Body)
	}

	return b.String()
}

// ToFetch renders a fetch() call with promise handlers
func ToFetch(desc model.RequestDescriptor) string {
	headers := desc.Headers.Clone()
	if desc.Auth.IsBearer() {
		headers.Set("Authorization", "Bearer "+desc.Auth.Token)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "fetch('%s', {\n", desc.URL)
	fmt.Fprintf(&b, "  method: '%s',\n", desc.Method)
	fmt.Fprintf(&b, "  headers: %s,\n", prettyHeaders(headers))

	if desc.HasBody() {
		fmt.Fprintf(&b, "  body: JSON.stringify(%s)\n", desc.Body)
	}

	b.WriteString("})")
	b.WriteString(".then(response => response.json())\n")
	b.WriteString(".then(data => console.log(data))\n")
	b.WriteString(".catch(error => console.error('Error:', error));")

	return b.String()
}

// prettyHeaders prints the header object with two-space indentation
func prettyHeaders(h model.Headers) string {
	if h.Len() == 0 {
		return "{}"
	}
	raw, err := h.MarshalJSON()
	if err != nil {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
