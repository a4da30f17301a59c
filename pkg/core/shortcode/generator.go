// Package shortcode produces the random identifiers used in short links.
package shortcode

import (
	"errors"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is base62: digits, upper case, lower case.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	DefaultLength = 8
	MinLength     = 4
	MaxLength     = 32
)

var ErrInvalidLength = errors.New("short code length out of range")

// Generator draws fixed-length codes from Alphabet using crypto/rand.
// It is safe for concurrent use.
type Generator struct {
	length int
	next   func() string
}

func New(length int) (*Generator, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidLength, length, MinLength, MaxLength)
	}

	next, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return &Generator{length: length, next: next}, nil
}

// Generate returns a fresh code. Uniqueness is not checked here; the store enforces it.
func (g *Generator) Generate() (string, error) {
	return g.next(), nil
}

func (g *Generator) Length() int {
	return g.length
}

// Valid reports whether code is a well-formed short id. Besides Alphabet it accepts
// '-' and '_' so that imported nanoid codes keep resolving.
func Valid(code string) bool {
	if len(code) < MinLength || len(code) > MaxLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}
