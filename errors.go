package itc

import "fmt"

// DecodeErrorKind is a stable category of decoding failure. Branch on it
// rather than on error strings.
type DecodeErrorKind string

const (
	// KindSyntax means the bytes are not valid in the chosen format.
	KindSyntax DecodeErrorKind = "Syntax"
	// KindShape means a value is neither a number nor a list where a tree
	// was expected.
	KindShape DecodeErrorKind = "Shape"
	// KindArity means a list has the wrong number of elements.
	KindArity DecodeErrorKind = "Arity"
	// KindLeafMarker means an identity leaf is not 0 or 1.
	KindLeafMarker DecodeErrorKind = "LeafMarker"
	// KindCount means an event count is negative, fractional or too big.
	KindCount DecodeErrorKind = "Count"
	// KindField means a stamp is missing a field or has an unknown one.
	KindField DecodeErrorKind = "Field"
)

// DecodeError reports why an encoded stamp or tree was rejected. Path
// locates the offending value, e.g. "event[0][1]".
type DecodeError struct {
	Kind  DecodeErrorKind
	Path  string
	Msg   string
	Cause error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return fmt.Sprintf("itc: decode: %s", e.Msg)
	}
	return fmt.Sprintf("itc: decode %s: %s", e.Path, e.Msg)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func decodeErrorf(kind DecodeErrorKind, path, format string, args ...interface{}) error {
	return &DecodeError{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func syntaxError(format string, cause error) error {
	return &DecodeError{Kind: KindSyntax, Msg: fmt.Sprintf("%s: %v", format, cause), Cause: cause}
}
