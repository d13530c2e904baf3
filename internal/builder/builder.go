// Package builder turns editable request form state into a RequestDescriptor.
package builder

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vedsharma/apitester/internal/kvlist"
	"github.com/vedsharma/apitester/internal/model"
)

const authorizationHeader = "Authorization"

// ErrUnsupportedMethod is returned for methods outside GET/POST/PUT/PATCH/DELETE
var ErrUnsupportedMethod = errors.New("unsupported method")

// NormalizeMethod upper-cases method and checks it is supported
func NormalizeMethod(method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	for _, supported := range model.Methods {
		if m == supported {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
}

// SplitURL separates a URL into the part before the first "?", the query
// string and the fragment after "#"
func SplitURL(rawURL string) (base, query, fragment string) {
	rest, fragment, _ := strings.Cut(rawURL, "#")
	base, query, _ = strings.Cut(rest, "?")
	return base, query, fragment
}

// BuildURL appends the encoded params to base, or returns base when no param has a key
func BuildURL(base string, params []model.KeyValuePair) string {
	qs := kvlist.ToQueryString(params)
	if qs == "" {
		return base
	}
	return base + "?" + qs
}

// BuildHeaders folds header rows into a map, later rows overwriting earlier
// ones. Rows with an empty key or value are skipped. A bearer token always
// ends up in Authorization, replacing any value typed by hand under any
// spelling of the name.
func BuildHeaders(pairs []model.KeyValuePair, auth model.AuthSpec) model.Headers {
	var headers model.Headers
	for _, p := range pairs {
		if p.Key == "" || p.Value == "" {
			continue
		}
		headers.Set(p.Key, p.Value)
	}

	switch {
	case auth.IsBearer():
		for _, key := range headers.Keys() {
			if key != authorizationHeader && strings.EqualFold(key, authorizationHeader) {
				headers.Del(key)
			}
		}
		headers.Set(authorizationHeader, "Bearer "+auth.Token)
	case auth.Type == model.AuthBasic:
		// basic credentials have no encoding defined; nothing is applied
		slog.Warn("basic auth is not applied to requests", "type", auth.Type)
	}

	return headers
}

// BuildDescriptor assembles a send-ready request. GET requests never carry a body.
func BuildDescriptor(method, url string, headerPairs []model.KeyValuePair, body string, auth model.AuthSpec) (model.RequestDescriptor, error) {
	m, err := NormalizeMethod(method)
	if err != nil {
		return model.RequestDescriptor{}, err
	}
	if auth.Type == "" {
		auth.Type = model.AuthNone
	}

	desc := model.RequestDescriptor{
		Method:  m,
		URL:     url,
		Headers: BuildHeaders(headerPairs, auth),
		Auth:    auth,
	}
	if m != model.MethodGet {
		desc.Body = body
	}
	return desc, nil
}
