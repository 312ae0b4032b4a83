package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields predictable screen identifiers such as "screen-1".
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
	issued  []string
}

// NewIDGenerator returns a generator using prefix, or "screen" when empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "screen"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	id := fmt.Sprintf("%s-%d", g.prefix, g.counter)
	g.issued = append(g.issued, id)
	return id
}

// NextFunc exposes Next for dependency injection. A nil generator yields
// empty ids, which the screen service rejects.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Issued lists every identifier handed out so far.
func (g *IDGenerator) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.issued...)
}

// Reset restarts the sequence under prefix.
func (g *IDGenerator) Reset(prefix string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if prefix != "" {
		g.prefix = prefix
	}
	g.counter = 0
	g.issued = nil
}
