// Package pickup generates the short codes customers present in-store to
// claim an online order.
package pickup

import (
	"crypto/rand"
	"fmt"
)

// Alphabet excludes 0, 1, I and O: the code is read aloud or typed from a
// phone screen, and those glyphs are routinely transcribed wrong.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is fixed at 6 — short enough to dictate, 32^6 ≈ 1.07e9 combinations.
const CodeLength = 6

// NewCode returns a random pickup code. Uniqueness against already-issued
// codes is the caller's responsibility (see pedido_service).
func NewCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("pickup: rand: %w", err)
	}
	code := make([]byte, CodeLength)
	for i, b := range buf {
		code[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(code), nil
}
