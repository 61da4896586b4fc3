// Package codes issues the short customer codes printed on cards and QR stickers.
package codes

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
)

const (
	Prefix  = "A"
	lowest  = 1000
	highest = 9999

	// Capacity is the number of distinct codes.
	Capacity = highest - lowest + 1
)

var pattern = regexp.MustCompile(`^A[1-9][0-9]{3}$`)

// Valid reports whether code has the issued shape: "A" followed by four digits.
func Valid(code string) bool {
	return pattern.MatchString(code)
}

// Checker reports whether a code is already taken.
type Checker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	intN func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{intN: rand.IntN}
}

// NewGeneratorWithSource is used by tests to make sampling deterministic.
func NewGeneratorWithSource(src rand.Source) *Generator {
	r := rand.New(src)
	return &Generator{intN: r.IntN}
}

// New returns a code without checking it against existing customers.
func (g *Generator) New() string {
	return fmt.Sprintf("%s%d", Prefix, lowest+g.intN(Capacity))
}

// Unique samples until checker reports an unused code. There is no retry
// limit; the loop only stops on a free code, a checker error or ctx.
func (g *Generator) Unique(ctx context.Context, checker Checker) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := g.New()
		exists, err := checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code %s: %w", code, err)
		}
		if !exists {
			return code, nil
		}
	}
}
