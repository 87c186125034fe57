package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/jrsteele09/tenant-console/internal/errors"
)

// Response is the normalised outcome of a backend call. OK reflects the
// HTTP layer only; the application outcome lives in the Envelope.
type Response struct {
	OK     bool
	Status int
	Header http.Header
	// JSON is set when the backend declared a JSON content type and the
	// body parsed. A declared but unparsable body leaves both JSON and Text empty.
	JSON json.RawMessage
	// Text holds the raw body of non-JSON responses
	Text string
}

// Envelope is the backend's {status, data, meta, message, error} wrapper
type Envelope struct {
	Status  bool            `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// Meta carries list pagination
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

func newResponse(res *http.Response, body []byte) *Response {
	r := &Response{
		OK:     res.StatusCode >= 200 && res.StatusCode < 300,
		Status: res.StatusCode,
		Header: res.Header.Clone(),
	}
	if !isJSON(res.Header.Get("Content-Type")) {
		r.Text = string(body)
		return r
	}
	if json.Valid(body) {
		r.JSON = json.RawMessage(body)
	}
	return r
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Decode unmarshals the JSON body into v
func (r *Response) Decode(v any) error {
	if r == nil || r.JSON == nil {
		return errors.ErrMalformedEnvelope
	}
	if err := json.Unmarshal(r.JSON, v); err != nil {
		return fmt.Errorf("[api Decode] %v: %w", err, errors.ErrMalformedEnvelope)
	}
	return nil
}

// Envelope decodes the backend envelope. A body that is not a JSON object
// returns ErrMalformedEnvelope; a decoded envelope may still report Failed.
func (r *Response) Envelope() (*Envelope, error) {
	var env Envelope
	if err := r.Decode(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Failed reports an application level failure: status false or missing
func (e *Envelope) Failed() bool {
	return e == nil || !e.Status
}

// DecodeData unmarshals the envelope data into v
func (e *Envelope) DecodeData(v any) error {
	if e == nil || len(e.Data) == 0 || string(e.Data) == "null" {
		return errors.ErrMalformedEnvelope
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("[api DecodeData] %v: %w", err, errors.ErrMalformedEnvelope)
	}
	return nil
}

// ErrorMessage picks the most useful human readable failure text
func (e *Envelope) ErrorMessage(fallback string) string {
	if e == nil {
		return fallback
	}
	if e.Message != "" {
		return e.Message
	}
	var s string
	if json.Unmarshal(e.Error, &s) == nil && s != "" {
		return s
	}
	return fallback
}
