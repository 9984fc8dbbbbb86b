package itc

import (
	"encoding/base64"

	"github.com/minio/blake2b-simd"
)

// Fingerprint identifies the stamp's content. Stamps in normal form have
// equal fingerprints exactly when they are Equal.
func (s Stamp) Fingerprint() string {
	return digest(s.appendJSON(nil))
}

// Fingerprint identifies the history's content, so replicas can check
// cheaply whether they have seen the same events.
func (e *EventTree) Fingerprint() string {
	return digest(e.appendText(nil))
}

func digest(b []byte) string {
	hashBytes := blake2b.Sum256(b)
	return base64.RawURLEncoding.EncodeToString(hashBytes[:])
}
