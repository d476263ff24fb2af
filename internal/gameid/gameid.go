// Package gameid generates sortable identifiers for sessions and episodes.
//
// An ID is a short type prefix, an underscore and a UUIDv7 encoded as 26
// characters of Crockford base32, e.g. "sess_01j9z3k5m8q2r4t6v8w0x2y4z6".
// IDs from one generator sort by creation time.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

const (
	alphabet  = "0123456789abcdefghjkmnpqrstvwxyz"
	encodeLen = 26
)

// Prefixes used across the module
const (
	Session = "sess"
	Episode = "ep"
	Run     = "run"
)

// RandSource supplies the random bits of an ID. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator creates IDs from a clock and an optional RandSource. It is safe
// for concurrent use.
type Generator struct {
	clock quartz.Clock
	mu    sync.Mutex
	rand  RandSource
}

// NewGenerator creates a generator. A nil clock means the real clock and a
// nil RandSource means crypto/rand.
func NewGenerator(clock quartz.Clock, rnd RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rand: rnd}
}

var defaultGenerator = NewGenerator(nil, nil)

// New creates an ID with the given prefix using the real clock.
func New(prefix string) string {
	return defaultGenerator.New(prefix)
}

// New creates an ID with the given prefix
func (g *Generator) New(prefix string) string {
	return prefix + "_" + encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var id [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rand != nil {
		g.mu.Lock()
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rand.IntN(256))
		}
		g.mu.Unlock()
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("gameid: crypto/rand failed: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10
	return id
}

// encode writes the 128-bit value as 130 bits of base32, the top two bits zero.
func encode(id [16]byte) string {
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(id[i])
		lo = lo<<8 | uint64(id[i+8])
	}

	out := make([]byte, encodeLen)
	for i := encodeLen - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

func decode(s string) ([16]byte, error) {
	var id [16]byte
	if len(s) != encodeLen {
		return id, fmt.Errorf("encoded part must be %d characters, got %d", encodeLen, len(s))
	}
	if s[0] > '7' {
		return id, fmt.Errorf("first character must be 0-7, got %c", s[0])
	}

	var hi, lo uint64
	for i := 0; i < encodeLen; i++ {
		v := strings.IndexByte(alphabet, s[i])
		if v < 0 {
			return id, fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}
	for i := 7; i >= 0; i-- {
		id[i] = byte(hi)
		id[i+8] = byte(lo)
		hi >>= 8
		lo >>= 8
	}
	return id, nil
}

// Parse splits an ID into its prefix and creation time.
func Parse(id string) (string, time.Time, error) {
	prefix, enc, ok := strings.Cut(id, "_")
	if !ok || prefix == "" {
		return "", time.Time{}, fmt.Errorf("id %q has no prefix", id)
	}
	raw, err := decode(enc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("id %q: %w", id, err)
	}
	if raw[6]>>4 != 7 {
		return "", time.Time{}, fmt.Errorf("id %q is not a UUIDv7", id)
	}

	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(raw[i])
	}
	return prefix, time.UnixMilli(ms), nil
}

// Validate checks that id is well formed
func Validate(id string) error {
	_, _, err := Parse(id)
	return err
}
