package itc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	cborEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborDecMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// MarshalCBOR encodes the stamp as a canonical CBOR map with the same id
// and event values as the JSON form.
func (s Stamp) MarshalCBOR() ([]byte, error) {
	b, err := cborEncMode.Marshal(s.wire())
	if err != nil {
		return nil, fmt.Errorf("marshal cbor: %w", err)
	}
	return b, nil
}

// UnmarshalCBOR decodes a stamp written by MarshalCBOR. Duplicate keys
// and trailing bytes are rejected.
func (s *Stamp) UnmarshalCBOR(b []byte) error {
	var v interface{}
	if err := cborDecMode.Unmarshal(b, &v); err != nil {
		return syntaxError("cbor", err)
	}
	m, ok := v.(map[interface{}]interface{})
	if !ok {
		return decodeErrorf(KindShape, "", "stamp is %T, want a map with id and event", v)
	}
	fields := make(map[string]interface{}, len(m))
	for k, val := range m {
		name, ok := k.(string)
		if !ok {
			return decodeErrorf(KindField, fmt.Sprint(k), "stamp field name is %T, want a string", k)
		}
		fields[name] = val
	}
	decoded, err := stampFromWire(fields)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
