package migrate

import (
	"crypto/sha256"
	"encoding/base32"
	"hash"
	"strings"

	"github.com/pkg/errors"
)

// Migration ids are a compatibility contract between independently built
// clients: the same parent and statement sequence must produce the same id
// everywhere, so the construction below must never change. Fields are
// delimited by NUL so that no concatenation of texts can collide with a
// different split of the same bytes.
var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Hasher folds a migration's parent id and statement texts, in order, into
// a content-addressed migration id.
type Hasher struct {
	h hash.Hash
}

// NewHasher starts an accumulator for a migration built onto parent.
func NewHasher(parent string) *Hasher {
	h := sha256.New()
	h.Write([]byte("CREATE MIGRATION"))
	h.Write([]byte{0})
	h.Write([]byte("ONTO "))
	h.Write([]byte(parent))
	h.Write([]byte{0})
	return &Hasher{h: h}
}

// Source folds one statement into the accumulator. A statement containing a
// NUL byte cannot be canonicalized and aborts the migration write.
func (h *Hasher) Source(stmt string) error {
	if strings.ContainsRune(stmt, 0) {
		return errors.New("statement contains a NUL byte and cannot be hashed")
	}
	h.h.Write([]byte(stmt))
	h.h.Write([]byte{0})
	return nil
}

// MakeID renders the accumulated digest as a migration id: the stable "m1"
// prefix followed by the lowercase base32 digest. It does not consume the
// accumulator.
func (h *Hasher) MakeID() string {
	return "m1" + strings.ToLower(idEncoding.EncodeToString(h.h.Sum(nil)))
}
