package itc

import (
	"fmt"
)

// Format selects a wire encoding for stamps.
type Format int

const (
	// FormatJSON is {"id":...,"event":...} with nested arrays.
	FormatJSON Format = iota
	// FormatProto is a google.protobuf.Struct with the same layout.
	FormatProto
	// FormatCBOR is a canonical CBOR map with the same layout.
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatProto:
		return "proto"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// CodecConfig controls how stamps are encoded and decoded.
type CodecConfig struct {
	// Format of encoded stamps. Defaults to FormatJSON.
	Format Format

	// Cache, if set, remembers decoded stamps so that repeatedly received
	// encodings are only validated once. It may be shared between codecs.
	Cache StampCache

	// Debug traces every cache miss.
	Debug bool
}

// Codec converts stamps to and from bytes. A Codec is safe for
// concurrent use if its cache is.
type Codec struct {
	format Format
	cache  StampCache
	debug  bool
}

// NewCodec returns a codec for the given config; nil means JSON without a
// cache.
func NewCodec(cfg *CodecConfig) (*Codec, error) {
	if cfg == nil {
		cfg = &CodecConfig{}
	}
	switch cfg.Format {
	case FormatJSON, FormatProto, FormatCBOR:
	default:
		return nil, fmt.Errorf("unknown stamp format %v", cfg.Format)
	}
	return &Codec{
		format: cfg.Format,
		cache:  cfg.Cache,
		debug:  cfg.Debug,
	}, nil
}

// Format returns the codec's wire format.
func (c *Codec) Format() Format {
	return c.format
}

// Marshal encodes the stamp.
func (c *Codec) Marshal(s Stamp) ([]byte, error) {
	switch c.format {
	case FormatProto:
		return s.MarshalProto()
	case FormatCBOR:
		return s.MarshalCBOR()
	default:
		return s.MarshalJSON()
	}
}

// Unmarshal decodes a stamp, failing with a *DecodeError if the bytes are
// not exactly a well-formed encoding.
func (c *Codec) Unmarshal(b []byte) (Stamp, error) {
	var key string
	if c.cache != nil {
		key = c.format.String() + ":" + digest(b)
		if cached, ok := c.cache.Get(key); ok {
			return cached.(Stamp), nil
		}
	}
	var s Stamp
	var err error
	switch c.format {
	case FormatProto:
		err = s.UnmarshalProto(b)
	case FormatCBOR:
		err = s.UnmarshalCBOR(b)
	default:
		err = s.UnmarshalJSON(b)
	}
	if err != nil {
		return Stamp{}, err
	}
	if c.cache != nil {
		if c.debug {
			fmt.Printf("decoded %s stamp %v\n", c.format, s)
		}
		c.cache.Add(key, s)
	}
	return s, nil
}
