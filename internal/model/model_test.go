package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_SetKeepsPosition(t *testing.T) {
	h := NewHeaders("Content-Type", "application/json", "Accept", "*/*")
	h.Set("Content-Type", "text/plain")
	h.Set("X-Trace", "1")

	assert.Equal(t, []string{"Content-Type", "Accept", "X-Trace"}, h.Keys())
	v, ok := h.Get("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", v)

	h.Del("Accept")
	assert.Equal(t, []string{"Content-Type", "X-Trace"}, h.Keys())
}

func TestHeaders_JSONKeepsOrder(t *testing.T) {
	h := NewHeaders("b", "2", "a", "1")

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"2","a":"1"}`, string(data))

	var back Headers
	require.NoError(t, json.Unmarshal([]byte(`{"z":"1","y":"2","x":"3"}`), &back))
	assert.Equal(t, []string{"z", "y", "x"}, back.Keys())

	var empty Headers
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.Equal(t, 0, empty.Len())
}

func TestHeaders_RejectsNonObject(t *testing.T) {
	var h Headers
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &h))
}

func TestNewErrorRecord(t *testing.T) {
	rec := NewErrorRecord("connection refused", 12)

	assert.Equal(t, 0, rec.Status)
	assert.Equal(t, "Error", rec.StatusText)
	assert.Equal(t, 0, rec.Headers.Len())
	assert.Equal(t, "connection refused", rec.Data)
	assert.Equal(t, int64(12), rec.TimingMs)
	assert.Equal(t, 0, rec.SizeBytes)
	assert.True(t, rec.IsError())
}

func TestResponseRecord_RoundTripKeepsRawJSON(t *testing.T) {
	rec := ResponseRecord{
		Status:     200,
		StatusText: "OK",
		Headers:    NewHeaders("content-type", "application/json"),
		Data:       RawJSON(`{"z":1,"a":[true,null]}`),
		TimingMs:   5,
		SizeBytes:  24,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back ResponseRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, RawJSON(`{"z":1,"a":[true,null]}`), back.Data)
	assert.True(t, back.IsJSON())
	assert.Equal(t, 200, back.Status)

	text := ResponseRecord{Data: "plain body"}
	data, err = json.Marshal(text)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "plain body", back.Data)
}

func TestDataText(t *testing.T) {
	assert.Equal(t, "", DataText(nil))
	assert.Equal(t, "hello", DataText("hello"))
	assert.Equal(t, `{"a":1}`, DataText(RawJSON(`{"a":1}`)))
	assert.Equal(t, `{"a":"<b>"}`, DataText(map[string]any{"a": "<b>"}))
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, IsJSONContentType("application/json; charset=utf-8"))
	assert.False(t, IsJSONContentType("text/html"))
	assert.False(t, IsJSONContentType(""))
}

func TestSavedRequest_Descriptor(t *testing.T) {
	get := SavedRequest{Method: MethodGet, URL: "https://x.test", Body: "ignored"}
	assert.Empty(t, get.Descriptor().Body)

	post := SavedRequest{Method: MethodPost, URL: "https://x.test", Body: `{"a":1}`}
	d := post.Descriptor()
	assert.Equal(t, `{"a":1}`, d.Body)
	assert.True(t, d.HasBody())
	assert.Equal(t, AuthNone, d.Auth.Type)

	bearer := SavedRequest{Method: MethodGet, URL: "https://x.test", Auth: AuthSpec{Type: AuthBearer, Token: "t"}}
	assert.Equal(t, AuthSpec{Type: AuthBearer, Token: "t"}, bearer.Descriptor().Auth)
}
