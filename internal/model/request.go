package model

import (
	"time"
)

// HTTP methods a request can be composed with
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// Methods lists the supported methods in display order
var Methods = []string{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// Auth types
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthBasic  = "basic"
)

// KeyValuePair is one editable row of a header or query parameter list
type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AuthSpec describes how a request authenticates
type AuthSpec struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// IsBearer reports whether a bearer token should be applied
func (a AuthSpec) IsBearer() bool {
	return a.Type == AuthBearer && a.Token != ""
}

// RequestDescriptor is the normalized, send-ready form of a request
type RequestDescriptor struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers Headers  `json:"headers"`
	Body    string   `json:"body,omitempty"`
	Auth    AuthSpec `json:"auth"`
}

// HasBody reports whether a body should go on the wire
func (d RequestDescriptor) HasBody() bool {
	return d.Body != "" && d.Method != MethodGet
}

// HistoryEntry is a sent request recorded in history
type HistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RequestDescriptor
	Status   int   `json:"status,omitempty"`
	TimingMs int64 `json:"timing,omitempty"`
}

// SavedRequest represents a request saved in a collection (without response)
type SavedRequest struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Method  string  `json:"method"`
	URL     string  `json:"url"`
	Headers Headers  `json:"headers"`
	Body    string   `json:"body,omitempty"`
	Auth    AuthSpec `json:"auth"`
}

// Descriptor converts the saved request back into something sendable
func (r SavedRequest) Descriptor() RequestDescriptor {
	d := RequestDescriptor{
		Method:  r.Method,
		URL:     r.URL,
		Headers: r.Headers.Clone(),
		Auth:    r.Auth,
	}
	if d.Auth.Type == "" {
		d.Auth.Type = AuthNone
	}
	if r.Method != MethodGet {
		d.Body = r.Body
	}
	return d
}

// Collection represents a named group of saved requests
type Collection struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Requests []SavedRequest `json:"requests"`
}

// Tab is one request/response editing context
type Tab struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Request  RequestDescriptor `json:"request"`
	Response *ResponseRecord   `json:"response,omitempty"`
}

// MockEndpoint is a path with a response template
type MockEndpoint struct {
	Path     string `json:"path" yaml:"path"`
	Response string `json:"response" yaml:"response"`
}
