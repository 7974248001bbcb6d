package domain

import "encoding/json"

// Envelope is the normalized response shape every caller receives from the
// backend, regardless of which of the historical shapes the backend actually
// returned (bare array, bare object, pre-enveloped object).
//
// Business failure is carried inside the envelope as Success=false; a Go
// error is reserved for terminal conditions such as session expiry.
type Envelope struct {
	Success bool
	Error   string
	Data    any
	// Fields holds named top-level payload fields (e.g. "products",
	// "customers") for responses that carry their payload under a domain
	// key instead of "data".
	Fields map[string]any
}

// Field returns a named payload field, looking first at merged domain fields
// and then inside a map-shaped Data payload. Returns nil when absent.
func (e *Envelope) Field(name string) any {
	if v, ok := e.Fields[name]; ok {
		return v
	}
	if m, ok := e.Data.(map[string]any); ok {
		return m[name]
	}
	return nil
}

// StringField returns a named payload field as a string, or "" when the
// field is absent or not a string.
func (e *Envelope) StringField(name string) string {
	s, _ := e.Field(name).(string)
	return s
}

// MarshalJSON renders the envelope back into its wire shape: success, then
// error and data when set, then the domain fields. A pre-enveloped backend
// body therefore round-trips through the envelope unchanged.
func (e Envelope) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+3)
	m["success"] = e.Success
	if e.Error != "" {
		m["error"] = e.Error
	}
	if e.Data != nil {
		m["data"] = e.Data
	}
	for k, v := range e.Fields {
		m[k] = v
	}
	return json.Marshal(m)
}

// Failure builds the canonical failure envelope: success=false, a message,
// and an empty data list so list-rendering callers never see nil.
func Failure(msg string) *Envelope {
	return &Envelope{Success: false, Error: msg, Data: []any{}}
}

// Attachment is the result of the binary download path: raw bytes plus the
// metadata needed to trigger a local save. No JSON parsing is attempted.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}
