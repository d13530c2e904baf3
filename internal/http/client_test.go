package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/model"
)

// steppingClock advances by step on every read
type steppingClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func TestSend_JSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"a":1}`)
	}))
	defer srv.Close()

	client := NewClient()
	res := client.Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})

	require.NoError(t, res.Err)
	assert.Equal(t, Completed, res.State)
	rec := res.Record
	assert.Equal(t, 201, rec.Status)
	assert.Equal(t, "Created", rec.StatusText)
	assert.Equal(t, model.RawJSON(`{"a":1}`), rec.Data)
	assert.Equal(t, len(`{"a":1}`), rec.SizeBytes)
	assert.GreaterOrEqual(t, rec.TimingMs, int64(0))
	assert.True(t, rec.IsJSON())
}

func TestSend_JSONSizeIsCompactText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		io.WriteString(w, "{\n  \"name\": \"ada\",\n  \"tags\": [1, 2]\n}\n")
	}))
	defer srv.Close()

	res := NewClient().Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})

	require.NoError(t, res.Err)
	assert.Equal(t, `{"name":"ada","tags":[1,2]}`, res.Record.Text())
	assert.Equal(t, len(`{"name":"ada","tags":[1,2]}`), res.Record.SizeBytes)
}

func TestSend_JSONTextMatchesParsedValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"name": "Ren\u00e9", "score": 1.50, "big": 1E-7}`)
	}))
	defer srv.Close()

	res := NewClient().Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})

	require.NoError(t, res.Err)
	want := `{"name":"René","score":1.5,"big":1e-7}`
	assert.Equal(t, want, res.Record.Text())
	assert.Equal(t, len(want), res.Record.SizeBytes)
}

func TestSend_TextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "héllo")
	}))
	defer srv.Close()

	res := NewClient().Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})

	require.NoError(t, res.Err)
	assert.Equal(t, 404, res.Record.Status)
	assert.Equal(t, "Not Found", res.Record.StatusText)
	assert.Equal(t, "héllo", res.Record.Data)
	assert.Equal(t, 6, res.Record.SizeBytes)
}

func TestSend_HeadersFlattened(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Zeta", "z")
		w.Header().Add("X-Alpha", "first")
		w.Header().Add("X-Alpha", "second")
		w.Header().Set("Content-Type", "text/plain")
	}))
	defer srv.Close()

	res := NewClient().Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})
	require.NoError(t, res.Err)

	h := res.Record.Headers
	v, ok := h.Get("x-alpha")
	require.True(t, ok)
	assert.Equal(t, "second", v)

	keys := h.Keys()
	assert.Contains(t, keys, "x-zeta")
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestSend_RequestShape(t *testing.T) {
	var (
		gotMethod string
		gotBody   string
		gotAuth   string
		gotType   string
		gotQuery  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotMethod = r.Method
		gotBody = string(b)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	desc := model.RequestDescriptor{
		Method:  "POST",
		URL:     srv.URL + "/users?b=2&a=1",
		Headers: model.NewHeaders("Authorization", "Bearer tok"),
		Body:    `{"name":"ada"}`,
	}

	res := NewClient().Send(context.Background(), desc)
	require.NoError(t, res.Err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, `{"name":"ada"}`, gotBody)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "b=2&a=1", gotQuery)
}

func TestSend_GETCarriesNoBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	desc := model.RequestDescriptor{Method: "GET", URL: srv.URL, Body: "should not be sent"}
	res := NewClient().Send(context.Background(), desc)

	require.NoError(t, res.Err)
	assert.Empty(t, gotBody)
}

func TestSend_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	clock := &steppingClock{t: time.Unix(1000, 0), step: 15 * time.Millisecond}
	res := NewClient(WithClock(clock.Now)).Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: addr})

	require.Error(t, res.Err)
	assert.Equal(t, Failed, res.State)
	rec := res.Record
	assert.Equal(t, 0, rec.Status)
	assert.Equal(t, "Error", rec.StatusText)
	assert.Equal(t, 0, rec.Headers.Len())
	assert.Equal(t, 0, rec.SizeBytes)
	assert.Equal(t, res.Err.Error(), rec.Data)
	assert.Equal(t, int64(15), rec.TimingMs)
}

func TestSend_MalformedJSONFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"a":`)
	}))
	defer srv.Close()

	res := NewClient().Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})

	require.Error(t, res.Err)
	assert.True(t, res.Record.IsError())
	assert.Contains(t, res.Record.Data, "failed to parse JSON response")
}

func TestSend_RejectsBadURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"scheme", "ftp://example.com/file", "unsupported URL scheme"},
		{"no host", "http:///path", "hostname"},
		{"metadata", "http://169.254.169.254/latest", "metadata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewClient().Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: tt.url})
			require.Error(t, res.Err)
			assert.True(t, strings.Contains(res.Record.Data.(string), tt.want))
		})
	}
}

func TestSend_StateTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var states []State
	client := NewClient()
	client.OnStateChange = func(s State) { states = append(states, s) }

	client.Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: srv.URL})
	client.Send(context.Background(), model.RequestDescriptor{Method: "GET", URL: "ftp://nope"})

	assert.Equal(t, []State{Sending, Completed, Sending, Failed}, states)
	assert.Equal(t, "completed", Completed.String())
}
