package roomcode

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	// Alphabet excludes O and 0, which are easy to confuse when read aloud
	Alphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"

	// DefaultLength is the number of characters in a room code
	DefaultLength = 4
)

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/KirkDiggler/zombeers/internal/common/roomcode Generator

// Generator produces candidate room codes. Uniqueness among live rooms is the
// caller's concern.
type Generator interface {
	Generate() string
}

// Config for the room code generator
type Config struct {
	// Optional seed for testing
	Seed int64

	// Length of generated codes, DefaultLength when zero
	Length int
}

// generator draws codes from Alphabet using a seeded source
type generator struct {
	mu     sync.Mutex
	random *rand.Rand
	length int
}

// New creates a new room code generator
func New(cfg *Config) *generator {
	var seed int64
	length := DefaultLength
	if cfg != nil {
		seed = cfg.Seed
		if cfg.Length > 0 {
			length = cfg.Length
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &generator{
		random: rand.New(rand.NewSource(seed)),
		length: length,
	}
}

// Generate returns a random code of the configured length
func (g *generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(g.length)
	for i := 0; i < g.length; i++ {
		b.WriteByte(Alphabet[g.random.Intn(len(Alphabet))])
	}
	return b.String()
}

// Normalize trims and upper-cases user input
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the default length and only alphabet
// characters
func Valid(code string) bool {
	if len(code) != DefaultLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
