package itc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MarshalProto encodes the stamp as a google.protobuf.Struct holding the
// same id and event values as the JSON form. Output is deterministic.
func (s Stamp) MarshalProto() ([]byte, error) {
	st, err := structpb.NewStruct(s.wire())
	if err != nil {
		return nil, fmt.Errorf("struct: %w", err)
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal proto: %w", err)
	}
	return b, nil
}

// UnmarshalProto decodes a stamp written by MarshalProto.
func (s *Stamp) UnmarshalProto(b []byte) error {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return syntaxError("proto", err)
	}
	fields := make(map[string]interface{}, len(st.GetFields()))
	for k, v := range st.GetFields() {
		fields[k] = protoWire(v)
	}
	decoded, err := stampFromWire(fields)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// protoWire converts a Struct value to the generic wire form. Struct
// numbers are always doubles, so they are handed on as exact decimals and
// checked like JSON numbers: 1.5, -1 and 1e300 are all rejected rather
// than rounded.
func protoWire(v *structpb.Value) interface{} {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return json.Number(strconv.FormatFloat(k.NumberValue, 'f', -1, 64))
	case *structpb.Value_ListValue:
		l := make([]interface{}, 0, len(k.ListValue.GetValues()))
		for _, e := range k.ListValue.GetValues() {
			l = append(l, protoWire(e))
		}
		return l
	default:
		return v.AsInterface()
	}
}
