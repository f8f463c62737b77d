package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// idPattern matches store-native object ids: 24 lowercase hex characters.
var idPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)

// NewID generates a new 24-character lowercase hex object id.
// Ids are generated application-side so entities can reference each other
// before the insert round-trips.
func NewID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process has no usable entropy source;
		// nothing sensible can continue from here.
		panic(fmt.Sprintf("models: read random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}

// IsValidID reports whether s has the canonical object id shape.
// Externally supplied ids must pass this check before reaching storage.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
