package wire

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ID is a product identifier. The API may key products by JSON number or by
// string; ID remembers which, so it is written back in the form it was read.
type ID struct {
	text   string
	number bool
}

// StringID returns an id encoded as a JSON string.
func StringID(s string) ID { return ID{text: s} }

// NumberID returns an id encoded as a JSON number. s must be a number literal.
func NumberID(s string) ID { return ID{text: s, number: true} }

// String returns the textual form of the id.
func (id ID) String() string { return id.text }

// IsNumber reports whether the id is encoded as a JSON number.
func (id ID) IsNumber() bool { return id.number }

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	if id.number {
		e.RawStr(id.text)
	} else {
		e.Str(id.text)
	}
	return e.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	switch tt := d.Next(); tt {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "decode id")
		}
		*id = StringID(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return errors.Wrap(err, "decode id")
		}
		*id = NumberID(n.String())
	default:
		return errors.Errorf("unexpected id type %s", tt)
	}
	return nil
}
