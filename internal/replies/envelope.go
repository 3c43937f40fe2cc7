// Package replies builds the uniform response envelope every endpoint returns:
//
//	{"code": "APP_HEALTH_QUERIED", "success": true, "payload": {...}}
//
// The payload key is omitted, never null, when no payload was supplied. Each feature declares its
// payload type and binds one Factory per outcome code in its own file.
package replies

import "encoding/json"

// Reply is an immutable reply envelope carrying an optional payload of type P.
type Reply[P any] struct {
	code       string
	success    bool
	payload    P
	hasPayload bool
}

type wireReply[P any] struct {
	Code    string `json:"code"`
	Success bool   `json:"success"`
	Payload *P     `json:"payload,omitempty"`
}

// Create returns an envelope without payload.
func Create[P any](code string, success bool) Reply[P] {
	return Reply[P]{code: code, success: success}
}

// CreateWith returns an envelope carrying payload.
func CreateWith[P any](code string, success bool, payload P) Reply[P] {
	return Reply[P]{code: code, success: success, payload: payload, hasPayload: true}
}

// Code is the outcome code.
func (r Reply[P]) Code() string { return r.code }

// Success reports whether the outcome is a success.
func (r Reply[P]) Success() bool { return r.success }

// Payload returns the payload and whether one was supplied.
func (r Reply[P]) Payload() (P, bool) {
	return r.payload, r.hasPayload
}

// MarshalJSON omits the payload key when no payload was supplied.
func (r Reply[P]) MarshalJSON() ([]byte, error) {
	w := wireReply[P]{Code: r.code, Success: r.success}
	if r.hasPayload {
		p := r.payload
		w.Payload = &p
	}
	return json.Marshal(w)
}

// UnmarshalJSON treats a missing or null payload as absent.
func (r *Reply[P]) UnmarshalJSON(data []byte) error {
	var w wireReply[P]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Reply[P]{code: w.Code, success: w.Success}
	if w.Payload != nil {
		r.payload = *w.Payload
		r.hasPayload = true
	}
	return nil
}

// Factory binds a code and outcome once; every reply it builds shares them.
type Factory[P any] struct {
	code    string
	success bool
}

// NewFactory returns the reply builder for one outcome of a catalog entry.
func NewFactory[P any](code string, success bool) Factory[P] {
	return Factory[P]{code: code, success: success}
}

// Code is the bound outcome code.
func (f Factory[P]) Code() string { return f.code }

// Success is the bound outcome flag.
func (f Factory[P]) Success() bool { return f.success }

// Reply builds an envelope carrying payload.
func (f Factory[P]) Reply(payload P) Reply[P] {
	return CreateWith(f.code, f.success, payload)
}

// Empty builds an envelope without payload.
func (f Factory[P]) Empty() Reply[P] {
	return Create[P](f.code, f.success)
}
