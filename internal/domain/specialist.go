package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Well-known record fields.
const (
	FieldName      = "name"
	FieldSpecialty = "specialty"
	FieldGender    = "gender"
	FieldImage     = "image"
)

// DocumentKey is the top-level key that wraps the specialist collection.
const DocumentKey = "doctors"

// field is a single key/value pair of a record, with the value kept as raw JSON
// so that fields this program does not understand survive a round trip.
type field struct {
	key   string
	value json.RawMessage
}

// Record is one specialist entry. It preserves every field of the source
// object and the order in which they appeared; only the image field is ever
// changed by this program.
type Record struct {
	fields []field
}

// Document is the on-disk shape of the specialist collection.
type Document struct {
	Doctors []Record `json:"doctors"`
}

// NewRecord builds a record from alternating key/value string pairs.
// A trailing key without a value is ignored.
func NewRecord(kv ...string) Record {
	var r Record
	for i := 0; i+1 < len(kv); i += 2 {
		r.SetString(kv[i], kv[i+1])
	}
	return r
}

// String returns the value of key when it is present and holds a JSON string.
func (r Record) String(key string) (string, bool) {
	idx := r.index(key)
	if idx < 0 {
		return "", false
	}
	value := r.fields[idx].value
	// Unmarshal accepts null into a string, so check the type first.
	if len(value) == 0 || value[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", false
	}
	return s, true
}

// StringOr returns the string value of key, or def when the key is absent or
// does not hold a string.
func (r Record) StringOr(key, def string) string {
	if s, ok := r.String(key); ok {
		return s
	}
	return def
}

// Has reports whether key is present, whatever its JSON type.
func (r Record) Has(key string) bool {
	return r.index(key) >= 0
}

// SetString sets key to a string value. An existing key keeps its position;
// a new key is appended.
func (r *Record) SetString(key, value string) {
	if key == "" {
		return
	}
	raw := encodeString(value)
	if idx := r.index(key); idx >= 0 {
		r.fields[idx].value = raw
		return
	}
	r.fields = append(r.fields, field{key: key, value: raw})
}

// Keys returns the record's field names in document order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{fields: make([]field, len(r.fields))}
	for i, f := range r.fields {
		out.fields[i] = field{key: f.key, value: append(json.RawMessage(nil), f.value...)}
	}
	return out
}

// Name returns the record's name for logging, or an empty string.
func (r Record) Name() string {
	return r.StringOr(FieldName, "")
}

func (r Record) index(key string) int {
	for i, f := range r.fields {
		if f.key == key {
			return i
		}
	}
	return -1
}

// UnmarshalJSON decodes a JSON object while keeping field order. Repeated keys
// keep the position of the first occurrence and the value of the last one.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: record must be a JSON object", ErrInvalidFormat)
	}

	fields := make([]field, 0, 4)
	positions := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v", ErrInvalidFormat, tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidFormat, key, err)
		}
		value, err := normalizeValue(raw)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidFormat, key, err)
		}
		if pos, seen := positions[key]; seen {
			fields[pos].value = value
			continue
		}
		positions[key] = len(fields)
		fields = append(fields, field{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	r.fields = fields
	return nil
}

// MarshalJSON encodes the record with its fields in their original order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(f.key))
		buf.WriteByte(':')
		if len(f.value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// normalizeValue re-encodes raw so every string and key is written with
// literal non-ASCII text, whatever escapes the source used. Key order and
// number text are kept as they were.
func normalizeValue(raw json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := writeValue(dec, &buf); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// writeValue copies the next complete JSON value from dec to buf.
func writeValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			buf.WriteByte('{')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					buf.WriteByte(',')
				}
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("unexpected token %v", keyTok)
				}
				buf.Write(encodeString(key))
				buf.WriteByte(':')
				if err := writeValue(dec, buf); err != nil {
					return err
				}
			}
			buf.WriteByte('}')
		case '[':
			buf.WriteByte('[')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeValue(dec, buf); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
		default:
			return fmt.Errorf("unexpected delimiter %v", v)
		}
		// Consume the closing delimiter.
		if _, err := dec.Token(); err != nil {
			return err
		}
	case string:
		buf.Write(encodeString(v))
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

// encodeString renders s as a JSON string without HTML escaping.
func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}
