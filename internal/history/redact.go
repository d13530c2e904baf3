package history

import (
	"strings"

	"github.com/vedsharma/apitester/internal/model"
)

// Redacted replaces sensitive values kept in history
const Redacted = "[REDACTED]"

// sensitiveHeaders is a list of headers that should be redacted before storing in history
var sensitiveHeaders = map[string]bool{
	// Standard authentication headers
	"authorization":       true,
	"proxy-authorization": true,
	"www-authenticate":    true,

	// Session and token headers
	"cookie":       true,
	"set-cookie":   true,
	"x-api-key":    true,
	"api-key":      true,
	"x-auth-token": true,
	"x-csrf-token": true,
	"x-xsrf-token": true,

	// Cloud credentials
	"x-amz-security-token":     true,
	"x-amz-credential":         true,
	"x-amz-signature":          true,
	"x-goog-iap-jwt-assertion": true,
	"x-ms-token-aad-id-token":  true,

	"x-access-token":  true,
	"x-refresh-token": true,
	"x-session-token": true,
	"x-secret-key":    true,
	"x-private-key":   true,
}

// IsSensitiveHeader reports whether a header value must not be persisted
func IsSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}

// RedactHeaders returns a copy of headers with sensitive values redacted
func RedactHeaders(h model.Headers) model.Headers {
	out := h.Clone()
	for _, key := range out.Keys() {
		if IsSensitiveHeader(key) {
			out.Set(key, Redacted)
		}
	}
	return out
}

// DropRedacted returns a copy of desc without placeholder values: headers
// holding Redacted are removed and a redacted token is cleared. dropped
// reports whether anything was removed.
func DropRedacted(desc model.RequestDescriptor) (out model.RequestDescriptor, dropped bool) {
	out = desc
	out.Headers = desc.Headers.Clone()
	for _, key := range out.Headers.Keys() {
		if v, _ := out.Headers.Get(key); v == Redacted {
			out.Headers.Del(key)
			dropped = true
		}
	}
	if out.Auth.Token == Redacted {
		out.Auth.Token = ""
		dropped = true
	}
	return out, dropped
}

// sensitiveBodyPatterns contains patterns that suggest sensitive data in request bodies
var sensitiveBodyPatterns = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"private_key", "privatekey",
	"credit_card", "creditcard", "card_number",
	"ssn", "social_security",
	"client_secret", "auth",
}

// LooksSensitive reports whether a request body might carry credentials
func LooksSensitive(body string) bool {
	if body == "" {
		return false
	}
	lower := strings.ToLower(body)
	for _, pattern := range sensitiveBodyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
