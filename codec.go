package itc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// The wire form of an IDTree is 0, 1 or [left,right]; of an EventTree it
// is n or [left,n,right]; of a Stamp it is {"id":...,"event":...}. The
// JSON, protobuf and CBOR codecs all go through the generic values built
// by wire and checked by the *FromWire functions.

func (i *IDTree) wire() interface{} {
	if i.IsLeaf() {
		if i.owned {
			return 1
		}
		return 0
	}
	return []interface{}{i.left.wire(), i.right.wire()}
}

func (e *EventTree) wire() interface{} {
	if e.IsLeaf() {
		return e.n
	}
	return []interface{}{e.left.wire(), e.n, e.right.wire()}
}

func (s Stamp) wire() map[string]interface{} {
	return map[string]interface{}{
		"id":    s.ID().wire(),
		"event": s.History().wire(),
	}
}

func idFromWire(v interface{}, path string) (*IDTree, error) {
	if l, ok := v.([]interface{}); ok {
		if len(l) != 2 {
			return nil, decodeErrorf(KindArity, path, "identity node has %d elements, want 2", len(l))
		}
		left, err := idFromWire(l[0], path+"[0]")
		if err != nil {
			return nil, err
		}
		right, err := idFromWire(l[1], path+"[1]")
		if err != nil {
			return nil, err
		}
		return IDNode(left, right), nil
	}
	n, err := wireUint(v, path)
	if err != nil {
		if de, ok := err.(*DecodeError); ok && de.Kind == KindCount {
			de.Kind = KindLeafMarker
		}
		return nil, err
	}
	if n > 1 {
		return nil, decodeErrorf(KindLeafMarker, path, "identity leaf is %d, want 0 or 1", n)
	}
	return IDLeaf(n == 1), nil
}

// eventFromWire decodes an event tree whose parent bases add up to
// offset. Counts are cumulative along a path, so each one is checked
// with everything above it.
func eventFromWire(v interface{}, path string, offset uint32) (*EventTree, error) {
	if l, ok := v.([]interface{}); ok {
		if len(l) != 3 {
			return nil, decodeErrorf(KindArity, path, "event node has %d elements, want 3", len(l))
		}
		n, err := eventCount(l[1], path+"[1]", offset)
		if err != nil {
			return nil, err
		}
		left, err := eventFromWire(l[0], path+"[0]", offset+n)
		if err != nil {
			return nil, err
		}
		right, err := eventFromWire(l[2], path+"[2]", offset+n)
		if err != nil {
			return nil, err
		}
		return EventNode(n, left, right), nil
	}
	n, err := eventCount(v, path, offset)
	if err != nil {
		return nil, err
	}
	return EventLeaf(n), nil
}

func stampFromWire(v interface{}) (Stamp, error) {
	fields, ok := v.(map[string]interface{})
	if !ok {
		return Stamp{}, decodeErrorf(KindShape, "", "stamp is %T, want an object with id and event", v)
	}
	for k := range fields {
		if k != "id" && k != "event" {
			return Stamp{}, decodeErrorf(KindField, k, "unknown stamp field")
		}
	}
	idv, ok := fields["id"]
	if !ok {
		return Stamp{}, decodeErrorf(KindField, "id", "missing stamp field")
	}
	ev, ok := fields["event"]
	if !ok {
		return Stamp{}, decodeErrorf(KindField, "event", "missing stamp field")
	}
	id, err := idFromWire(idv, "id")
	if err != nil {
		return Stamp{}, err
	}
	event, err := eventFromWire(ev, "event", 0)
	if err != nil {
		return Stamp{}, err
	}
	return NewStamp(id, event), nil
}

func eventCount(v interface{}, path string, offset uint32) (uint32, error) {
	n, err := wireUint(v, path)
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint32-uint64(offset) {
		return 0, decodeErrorf(KindCount, path, "event count %d on top of %d overflows", n, offset)
	}
	return uint32(n), nil
}

// wireUint accepts the integer representations produced by the JSON and
// CBOR decoders. Protobuf numbers arrive as json.Number; see protoWire.
func wireUint(v interface{}, path string) (uint64, error) {
	switch x := v.(type) {
	case json.Number:
		s := string(x)
		if strings.HasPrefix(s, "-") {
			return 0, decodeErrorf(KindCount, path, "negative value %s", s)
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, decodeErrorf(KindCount, path, "%s is not a non-negative integer", s)
		}
		return n, nil
	case uint64:
		return x, nil
	case int64:
		if x < 0 {
			return 0, decodeErrorf(KindCount, path, "negative value %d", x)
		}
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case int:
		if x < 0 {
			return 0, decodeErrorf(KindCount, path, "negative value %d", x)
		}
		return uint64(x), nil
	default:
		return 0, decodeErrorf(KindShape, path, "got %T, want a number or a list", v)
	}
}

// decodeJSON parses exactly one JSON value, keeping numbers exact.
func decodeJSON(b []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := readJSON(dec, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, decodeErrorf(KindSyntax, "", "json: trailing data after value")
	}
	return v, nil
}

// readJSON reads one value token by token. Unlike decoding into an
// interface{}, it sees every object key, so a repeated key is an error
// instead of silently replacing the earlier value.
func readJSON(dec *json.Decoder, path string) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError("json", err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '[':
		l := []interface{}{}
		for dec.More() {
			v, err := readJSON(dec, fmt.Sprintf("%s[%d]", path, len(l)))
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, syntaxError("json", err)
		}
		return l, nil
	case '{':
		m := map[string]interface{}{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, syntaxError("json", err)
			}
			key, ok := tok.(string)
			if !ok {
				return nil, decodeErrorf(KindSyntax, path, "json: object key is %T", tok)
			}
			field := key
			if path != "" {
				field = path + "." + key
			}
			if _, dup := m[key]; dup {
				return nil, decodeErrorf(KindField, field, "duplicate field")
			}
			v, err := readJSON(dec, field)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
		if _, err := dec.Token(); err != nil {
			return nil, syntaxError("json", err)
		}
		return m, nil
	default:
		return nil, decodeErrorf(KindSyntax, path, "json: unexpected %v", d)
	}
}

// MarshalJSON encodes the tree as 0, 1 or [left,right].
func (i *IDTree) MarshalJSON() ([]byte, error) {
	return i.appendText(nil), nil
}

// UnmarshalJSON decodes a tree, rejecting anything but exact wire shapes.
// It must not be called on a tree that is already in use.
func (i *IDTree) UnmarshalJSON(b []byte) error {
	v, err := decodeJSON(b)
	if err != nil {
		return err
	}
	decoded, err := idFromWire(v, "")
	if err != nil {
		return err
	}
	*i = *decoded
	return nil
}

// MarshalJSON encodes the tree as n or [left,n,right].
func (e *EventTree) MarshalJSON() ([]byte, error) {
	return e.appendText(nil), nil
}

// UnmarshalJSON decodes a tree, rejecting anything but exact wire shapes.
// It must not be called on a tree that is already in use.
func (e *EventTree) UnmarshalJSON(b []byte) error {
	v, err := decodeJSON(b)
	if err != nil {
		return err
	}
	decoded, err := eventFromWire(v, "", 0)
	if err != nil {
		return err
	}
	*e = *decoded
	return nil
}

// MarshalJSON encodes the stamp as {"id":...,"event":...}.
func (s Stamp) MarshalJSON() ([]byte, error) {
	return s.appendJSON(nil), nil
}

func (s Stamp) appendJSON(buf []byte) []byte {
	buf = append(buf, `{"id":`...)
	buf = s.ID().appendText(buf)
	buf = append(buf, `,"event":`...)
	buf = s.History().appendText(buf)
	return append(buf, '}')
}

// UnmarshalJSON decodes a stamp and normalizes its trees.
func (s *Stamp) UnmarshalJSON(b []byte) error {
	v, err := decodeJSON(b)
	if err != nil {
		return err
	}
	decoded, err := stampFromWire(v)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
