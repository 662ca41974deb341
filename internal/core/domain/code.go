package domain

import (
	"math/rand"
	"sync"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator produces fixed-length uppercase alphanumeric booking
// codes from an injectable random source, so tests can force
// collisions deterministically.
type CodeGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	length int
}

func NewCodeGenerator(src rand.Source, length int) *CodeGenerator {
	return &CodeGenerator{rng: rand.New(src), length: length}
}

// Next returns a fresh candidate code. Uniqueness is the ledger's job.
func (g *CodeGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, g.length)
	for i := range buf {
		buf[i] = codeAlphabet[g.rng.Intn(len(codeAlphabet))]
	}
	return string(buf)
}
