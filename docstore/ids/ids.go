// Package ids generates short, URL-safe identifiers for documents that are
// stored without an explicit key.
package ids

import (
	"math/big"

	"github.com/google/uuid"
)

// alphabet is the base-62 digit set, ordered so encoded ids sort the same
// way as their numeric value.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var base = big.NewInt(int64(len(alphabet)))

// New returns a fresh identifier: 128 random bits encoded in base 62,
// at most 22 characters. Collisions within a single store are negligible,
// so callers do not re-check uniqueness.
func New() string {
	u := uuid.New()
	return encode(new(big.Int).SetBytes(u[:]))
}

// encode converts n to its base-62 representation.
func encode(n *big.Int) string {
	if n.Sign() == 0 {
		return string(alphabet[0])
	}

	// 128 bits never need more than 22 base-62 digits.
	buf := make([]byte, 0, 22)
	rem := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, rem)
		buf = append(buf, alphabet[rem.Int64()])
	}

	// Digits were produced least-significant first.
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
