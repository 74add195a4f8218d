package loadstate

import "github.com/google/uuid"

// TokenGenerator mints activation tokens. One token is issued per phase
// activation and carried through logs and reports for correlation.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator mints time-ordered UUIDv7 tokens. Production default.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns canned tokens in sequence, cycling when exhausted.
// For deterministic tests and golden files.
type FixedGenerator struct {
	Tokens []string
	next   int
}

func (g *FixedGenerator) Generate() string {
	if len(g.Tokens) == 0 {
		return "fixed-token"
	}
	t := g.Tokens[g.next%len(g.Tokens)]
	g.next++
	return t
}
