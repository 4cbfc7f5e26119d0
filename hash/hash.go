// Package hash provides a fixed-size content hash. The symbol package stores
// the hash of every interned name (symbol.ID.Hash); interning itself dedupes
// names through a string-keyed map, not through these hashes.
package hash

import "crypto/sha512"

// Hash is a 256-bit digest.
type Hash [32]byte

// Bytes hashes an arbitrary byte string.
func Bytes(data []byte) Hash {
	return Hash(sha512.Sum512_256(data))
}

// String hashes a string.
func String(s string) Hash {
	return Bytes([]byte(s))
}

// Add combines two hashes commutatively (h.Add(h2) == h2.Add(h)). It is used
// to fold unordered sets of hashes, e.g. the branches of a Sum type, where
// the result must not depend on declaration order.
func (h Hash) Add(h2 Hash) Hash {
	var sum Hash
	var carry uint16
	for i := len(h) - 1; i >= 0; i-- {
		total := uint16(h[i]) + uint16(h2[i]) + carry
		sum[i] = byte(total)
		carry = total >> 8
	}
	return sum
}

// Merge combines two hashes in an order-sensitive way, for contexts where
// sequence matters (struct fields, function parameters). Unlike Add, Merge is
// not an identity-preserving operation on the zero Hash.
func (h Hash) Merge(h2 Hash) Hash {
	buf := make([]byte, 0, len(h)+len(h2))
	buf = append(buf, h[:]...)
	buf = append(buf, h2[:]...)
	return Bytes(buf)
}
