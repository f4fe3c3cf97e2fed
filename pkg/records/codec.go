package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decode reads exactly one JSON value from r into the record model.
// Trailing non-whitespace data is an error.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return v, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
	default:
		// json.Number, string, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T at offset %d", tok, dec.InputOffset())
		}
		if obj.Has(key) {
			return nil, &offsetError{msg: fmt.Sprintf("duplicate key %q", key), offset: dec.InputOffset()}
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

// offsetError is a decode error at a byte offset of the input.
type offsetError struct {
	msg    string
	offset int64
}

func (e *offsetError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.msg, e.offset)
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// Encode writes v as JSON. With a non-empty indent each element goes on
// its own line; with an empty indent the value is written inline using
// ", " and ": " separators. HTML characters and non-ASCII text are written
// unescaped.
func Encode(w io.Writer, v any, indent string) error {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, indent, 0); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Marshal returns the indented JSON encoding of v.
func Marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, indent, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Inline renders v on a single line, e.g. {"a": 1, "b": [true, null]}.
func Inline(v any) string {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, "", 0); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return buf.String()
}

// Truncate shortens s to at most width runes.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width])
}

// MarshalJSON implements json.Marshaler preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Marshal(o, "")
}

// UnmarshalJSON implements json.Unmarshaler preserving key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := DecodeBytes(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("records: cannot unmarshal %T into Object", v)
	}
	*o = *obj
	return nil
}

func writeValue(buf *bytes.Buffer, v any, indent string, depth int) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		if t == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(t.String())
		}
	case string:
		return writeString(buf, t)
	case *Object:
		return writeObject(buf, t, indent, depth)
	case []any:
		return writeArray(buf, t, indent, depth)
	default:
		if n, ok := Number(v); ok {
			buf.WriteString(n.String())
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if strings.ContainsAny(s, "\u2028\u2029") {
		var tmp bytes.Buffer
		if err := encodeString(&tmp, s); err != nil {
			return err
		}
		unescapeSeparators(buf, tmp.Bytes())
		return nil
	}
	return encodeString(buf, s)
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// unescapeSeparators copies an encoded string, writing the line and
// paragraph separators that encoding/json always escapes as raw runes.
func unescapeSeparators(buf *bytes.Buffer, enc []byte) {
	for i := 0; i < len(enc); i++ {
		if enc[i] != '\\' || i+1 >= len(enc) {
			buf.WriteByte(enc[i])
			continue
		}
		if i+5 < len(enc) && enc[i+1] == 'u' && string(enc[i+2:i+5]) == "202" && (enc[i+5] == '8' || enc[i+5] == '9') {
			buf.WriteRune(rune(0x2020 + int(enc[i+5]-'0')))
			i += 5
			continue
		}
		buf.WriteByte(enc[i])
		buf.WriteByte(enc[i+1])
		i++
	}
}

func writeObject(buf *bytes.Buffer, o *Object, indent string, depth int) error {
	if o.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	var err error
	first := true
	o.Range(func(k string, v any) bool {
		writeSeparator(buf, indent, depth+1, first)
		first = false
		if err = writeString(buf, k); err != nil {
			return false
		}
		buf.WriteString(": ")
		err = writeValue(buf, v, indent, depth+1)
		return err == nil
	})
	if err != nil {
		return err
	}
	writeClose(buf, indent, depth)
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, a []any, indent string, depth int) error {
	if len(a) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i, v := range a {
		writeSeparator(buf, indent, depth+1, i == 0)
		if err := writeValue(buf, v, indent, depth+1); err != nil {
			return err
		}
	}
	writeClose(buf, indent, depth)
	buf.WriteByte(']')
	return nil
}

func writeSeparator(buf *bytes.Buffer, indent string, depth int, first bool) {
	if indent == "" {
		if !first {
			buf.WriteString(", ")
		}
		return
	}
	if !first {
		buf.WriteByte(',')
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

func writeClose(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
