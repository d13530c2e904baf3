package builder

import (
	"github.com/vedsharma/apitester/internal/kvlist"
	"github.com/vedsharma/apitester/internal/model"
)

// Form is the editable state of one request. The URL and the Params list are
// kept in sync: setting the URL re-derives Params from its query string, and
// the URL sent is always rebuilt from Params.
type Form struct {
	Method  string
	Headers *kvlist.List
	Params  *kvlist.List
	Body    string
	Auth    model.AuthSpec

	base     string
	fragment string
}

// NewForm returns a GET form with the default JSON content type row
func NewForm() *Form {
	return &Form{
		Method:  model.MethodGet,
		Headers: kvlist.New(model.KeyValuePair{Key: "Content-Type", Value: "application/json"}),
		Params:  kvlist.New(),
		Auth:    model.AuthSpec{Type: model.AuthNone},
	}
}

// SetURL stores the base URL and fragment and replaces Params with the URL's query
func (f *Form) SetURL(rawURL string) {
	base, query, fragment := SplitURL(rawURL)
	f.base = base
	f.fragment = fragment
	f.Params.Replace(kvlist.FromQueryString(query))
}

// URL returns the effective URL built from the base and the current Params,
// with the fragment re-appended
func (f *Form) URL() string {
	u := BuildURL(f.base, f.Params.Pairs())
	if f.fragment != "" {
		u += "#" + f.fragment
	}
	return u
}

// Descriptor builds the send-ready request for the current state
func (f *Form) Descriptor() (model.RequestDescriptor, error) {
	return BuildDescriptor(f.Method, f.URL(), f.Headers.Pairs(), f.Body, f.Auth)
}

// Load fills the form from a descriptor, e.g. a saved or historic request
func (f *Form) Load(desc model.RequestDescriptor) {
	f.Method = desc.Method
	f.SetURL(desc.URL)
	pairs := make([]model.KeyValuePair, 0, desc.Headers.Len())
	for _, h := range desc.Headers.All() {
		pairs = append(pairs, model.KeyValuePair{Key: h.Key, Value: h.Value})
	}
	f.Headers.Replace(pairs)
	f.Body = desc.Body
	f.Auth = desc.Auth
}
