package itc

import lru "github.com/hashicorp/golang-lru"

// StampCache holds already-decoded stamps so a Codec can skip validating
// encodings it has seen before. Keys are strings of the form
// "<format>:<digest>", e.g. "cbor:" followed by the base64 blake2b-256 of
// the encoded bytes, so one cache can serve codecs of every format without
// an encoding in one format aliasing another. Values are Stamps; only
// successfully decoded, normalized stamps are added. Stamps are
// immutable, so a cached stamp can be handed to any number of callers.
type StampCache interface {
	// Add adds a freshly-decoded Stamp under its format-and-digest key.
	Add(key, value interface{})
	// Get retrieves the already-decoded stamp with the given key, if cached.
	Get(key interface{}) (value interface{}, ok bool)
}

// NewStampCache creates a new LRU-based stamp cache of the given size. One
// cache can be shared by any number of codecs.
func NewStampCache(size int) StampCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}
