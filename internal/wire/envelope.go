package wire

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrNoSuccessField is returned when a response object lacks the boolean
// "success" member.
var ErrNoSuccessField = errors.New(`envelope has no "success" field`)

// MissingFieldError is returned by Envelope.Decode when a payload member is
// absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("envelope has no %q field", e.Field)
}

// Envelope is a decoded response wrapper. Payload members are kept raw until
// the caller asks for them by name.
type Envelope struct {
	Success bool
	Error   string
	Message string
	Fields  map[string]jx.Raw
}

// DecodeEnvelope parses a response body.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	env := &Envelope{Fields: make(map[string]jx.Raw)}
	var sawSuccess bool

	d := jx.DecodeBytes(data)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "success":
			v, err := d.Bool()
			if err != nil {
				return errors.Wrap(err, "success")
			}
			env.Success = v
			sawSuccess = true
		case "error":
			s, err := decodeText(d)
			if err != nil {
				return errors.Wrap(err, "error")
			}
			env.Error = s
		case "message":
			s, err := decodeText(d)
			if err != nil {
				return errors.Wrap(err, "message")
			}
			env.Message = s
		default:
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrapf(err, "field %q", key)
			}
			env.Fields[string(key)] = append(jx.Raw(nil), raw...)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if !sawSuccess {
		return nil, ErrNoSuccessField
	}
	return env, nil
}

// decodeText reads a string member. Null yields an empty string and any other
// JSON value is kept in its raw textual form.
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Null:
		return "", d.Null()
	default:
		raw, err := d.Raw()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// Decode unmarshals the payload member field into v.
func (e *Envelope) Decode(field string, v any) error {
	raw, ok := e.Fields[field]
	if !ok {
		return &MissingFieldError{Field: field}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "decode %q", field)
	}
	return nil
}

// Field is a named payload member written by EncodeEnvelope.
type Field struct {
	Name  string
	Value any
}

// EncodeEnvelope renders a successful envelope with the given payload members.
func EncodeEnvelope(fields ...Field) ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(true)
	for _, f := range fields {
		b, err := json.Marshal(f.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %q", f.Name)
		}
		e.FieldStart(f.Name)
		e.Raw(b)
	}
	e.ObjEnd()
	return e.Bytes(), nil
}

// EncodeFailure renders a failed envelope carrying reason.
func EncodeFailure(reason string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(false)
	e.FieldStart("error")
	e.Str(reason)
	e.ObjEnd()
	return e.Bytes()
}
