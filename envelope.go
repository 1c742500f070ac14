package mediator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrInvalidJSON is returned when the input is not valid JSON.
	ErrInvalidJSON = errors.New("mediator: invalid JSON")

	// ErrUnknownFormat is returned when no envelope format matches the input.
	ErrUnknownFormat = errors.New("mediator: no envelope format matched")

	// ErrUnboundKey is returned when the envelope's key is not bound to a type.
	ErrUnboundKey = errors.New("mediator: envelope key not bound")

	// ErrInvalidPayload is matched by DecodeError.
	ErrInvalidPayload = errors.New("mediator: invalid envelope payload")

	errMissingPayload = errors.New("payload is missing or null")
)

// Format describes one JSON envelope layout: how to recognize it and where it
// keeps the routing key and the payload.
//
// Example, an EventBridge-style envelope:
//
//	mediator.Format{
//	    Name:        "eventbridge",
//	    Match:       mediator.HasPaths("source", "detail-type", "detail"),
//	    KeyPath:     "detail-type",
//	    PayloadPath: "detail",
//	}
type Format struct {
	// Name identifies the format in errors.
	Name string

	// Match recognizes the format. A nil Match accepts any document that
	// has KeyPath.
	Match Matcher

	// KeyPath is the gjson path of the routing key.
	KeyPath string

	// PayloadPath is the gjson path of the payload. Empty means the whole
	// document is the payload.
	PayloadPath string
}

// Wrap builds an envelope of this format carrying key and the JSON encoding
// of payload. Paths required by Match beyond KeyPath and PayloadPath are not
// filled in.
//
// Example:
//
//	body, err := format.Wrap("user/created", UserCreated{ID: id})
func (f Format) Wrap(key string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mediator: encode %s payload: %w", f.Name, err)
	}

	doc := []byte("{}")
	if f.PayloadPath == "" {
		doc = raw
	} else if doc, err = sjson.SetRawBytes(doc, f.PayloadPath, raw); err != nil {
		return nil, fmt.Errorf("mediator: wrap %s payload: %w", f.Name, err)
	}

	doc, err = sjson.SetBytes(doc, f.KeyPath, key)
	if err != nil {
		return nil, fmt.Errorf("mediator: wrap %s key: %w", f.Name, err)
	}
	return doc, nil
}

// Decoder turns raw JSON envelopes into typed request or notification values
// so they can be handed to a Mediator. It is an in-process adapter; it does
// not receive or send anything itself.
//
// Decoder is safe for concurrent use after configuration. Do not call Bind
// after calling Decode.
type Decoder struct {
	formats  []Format
	bindings map[string]decodeFunc

	// Adaptive ordering: try the last matching format first.
	lastMatch atomic.Int64
}

type decodeFunc func(payload []byte) (any, error)

// validatable is the interface for payload self-validation.
type validatable interface {
	Validate() error
}

// NewDecoder creates a Decoder that tries formats in order.
func NewDecoder(formats ...Format) *Decoder {
	d := &Decoder{
		formats:  formats,
		bindings: make(map[string]decodeFunc),
	}
	d.lastMatch.Store(-1)
	return d
}

// Bind maps an envelope key to the type its payload decodes into. Bind a
// pointer type when handlers are registered for pointers.
//
// Example:
//
//	mediator.Bind[*CreateUser](d, "user/create")
//	mediator.Bind[UserCreated](d, "user/created")
func Bind[T any](d *Decoder, key string) {
	d.bindings[key] = func(payload []byte) (any, error) {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, errMissingPayload
		}
		if val, ok := any(v).(validatable); ok {
			if err := val.Validate(); err != nil {
				return nil, err
			}
		} else if val, ok := any(&v).(validatable); ok {
			if err := val.Validate(); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// DecodeError reports a payload that could not be unmarshalled or failed
// validation.
type DecodeError struct {
	Format string
	Key    string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: format %s, key %q: %v", ErrInvalidPayload, e.Format, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is allows errors.Is to match DecodeError with ErrInvalidPayload.
func (e *DecodeError) Is(target error) bool { return target == ErrInvalidPayload }

// Decode recognizes the envelope format of raw, reads its key and decodes the
// payload into the type bound to that key.
func (d *Decoder) Decode(raw []byte) (any, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(raw)

	format, ok := d.match(doc)
	if !ok {
		return nil, ErrUnknownFormat
	}

	key := doc.Get(format.KeyPath).String()
	decode, ok := d.bindings[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q in format %s", ErrUnboundKey, key, format.Name)
	}

	payload := raw
	if format.PayloadPath != "" {
		payload = []byte(doc.Get(format.PayloadPath).Raw)
		if len(payload) == 0 {
			payload = []byte("null")
		}
	}

	v, err := decode(payload)
	if err != nil {
		return nil, &DecodeError{Format: format.Name, Key: key, Err: err}
	}
	return v, nil
}

// match finds the first format that accepts doc, trying the last successful
// format first.
func (d *Decoder) match(doc gjson.Result) (Format, bool) {
	if i := d.lastMatch.Load(); i >= 0 && int(i) < len(d.formats) {
		if f := d.formats[i]; accepts(f, doc) {
			return f, true
		}
	}
	for i, f := range d.formats {
		if accepts(f, doc) {
			d.lastMatch.Store(int64(i))
			return f, true
		}
	}
	return Format{}, false
}

func accepts(f Format, doc gjson.Result) bool {
	if f.Match != nil {
		return f.Match(doc)
	}
	return doc.Get(f.KeyPath).Exists()
}

// SendEnvelope decodes raw with d and sends the resulting request.
//
// Example:
//
//	// In a queue consumer
//	func (c *Consumer) Handle(ctx context.Context, body []byte) error {
//	    _, err := mediator.SendEnvelope(ctx, c.mediator, c.decoder, body)
//	    return err
//	}
func SendEnvelope(ctx context.Context, s Sender, d *Decoder, raw []byte) (any, error) {
	request, err := d.Decode(raw)
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, request)
}

// PublishEnvelope decodes raw with d and publishes the resulting notification.
func PublishEnvelope(ctx context.Context, p Publisher, d *Decoder, raw []byte) error {
	notification, err := d.Decode(raw)
	if err != nil {
		return err
	}
	return p.Publish(ctx, notification)
}
