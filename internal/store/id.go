package store

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

const (
	// objectPathPrefix is the fixed path component under which every
	// locally minted object URI lives.
	objectPathPrefix = "/ap/o/"

	base36Alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	mastodonIDLength = 24
)

// NewObjectURI mints the canonical local identifier for a new object
// under the given domain. The random token is collision-resistant
// enough that the repository's uniqueness constraint is a formality,
// not something correctness depends on. No network or storage access.
func NewObjectURI(domain string) string {
	return ObjectURI(domain, uuid.NewString())
}

// ObjectURI builds the canonical URI for an object token under domain.
func ObjectURI(domain, token string) string {
	return fmt.Sprintf("https://%s%s%s", domain, objectPathPrefix, token)
}

// NewMastodonID returns a new opaque alias identifier. Assigned once
// at creation and never recomputed.
func NewMastodonID() (string, error) {
	return randomBase36(mastodonIDLength)
}

func randomBase36(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return string(out), nil
}
