package codegen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator produces the unique identifiers written into generated code.
type IDGenerator interface {
	NewID() string
}

// ForkingIDGenerator is an IDGenerator with per-document state. Generate
// draws IDs from a fork, so one generator can be shared by concurrent
// compilations.
type ForkingIDGenerator interface {
	IDGenerator
	Fork() IDGenerator
}

// UUIDGenerator produces random UUIDs as 32 hex digits.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SequentialIDGenerator produces "test", "test1", "test2", ... for fixtures
// that compare generated code literally. NewID is not safe for concurrent
// use; Generate numbers each document from a fresh fork instead.
type SequentialIDGenerator struct {
	Prefix string
	next   int
}

// NewID implements IDGenerator.
func (g *SequentialIDGenerator) NewID() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "test"
	}
	id := prefix
	if g.next > 0 {
		id += strconv.Itoa(g.next)
	}
	g.next++
	return id
}

// Fork implements ForkingIDGenerator. The fork starts from "test" again.
func (g *SequentialIDGenerator) Fork() IDGenerator {
	return &SequentialIDGenerator{Prefix: g.Prefix}
}
