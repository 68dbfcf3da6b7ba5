package idgen

import (
	"context"
	"errors"
	"time"

	"github.com/Siddarth2230/upid/pkg/upid"
)

// Generator defines the interface for issuing identifiers.
type Generator interface {
	Generate(ctx context.Context, prefix string) (upid.UPID, error)
	GenerateAt(ctx context.Context, prefix string, at time.Time) (upid.UPID, error)
}

// ErrEmptyID is returned when a generator yields the Nil identifier.
var ErrEmptyID = errors.New("generator returned the nil identifier")

// UPIDGenerator issues UPIDs from a upid.Generator. It holds no counter and
// needs no coordination with other instances.
type UPIDGenerator struct {
	gen *upid.Generator
}

// NewUPIDGenerator wraps gen. A nil gen uses the system clock and
// crypto/rand.
func NewUPIDGenerator(gen *upid.Generator) *UPIDGenerator {
	if gen == nil {
		gen = upid.NewGenerator()
	}
	return &UPIDGenerator{gen: gen}
}

// Generate returns a new UPID for prefix at the generator's current time.
func (g *UPIDGenerator) Generate(ctx context.Context, prefix string) (upid.UPID, error) {
	if err := ctx.Err(); err != nil {
		return upid.Nil, err
	}
	return checkEmpty(g.gen.New(prefix))
}

// GenerateAt returns a new UPID for prefix stamped with at.
func (g *UPIDGenerator) GenerateAt(ctx context.Context, prefix string, at time.Time) (upid.UPID, error) {
	if err := ctx.Err(); err != nil {
		return upid.Nil, err
	}
	return checkEmpty(g.gen.NewAt(prefix, at))
}

// GenerateN returns n identifiers for prefix. A nil at means now.
func GenerateN(ctx context.Context, g Generator, prefix string, at *time.Time, n int) ([]upid.UPID, error) {
	ids := make([]upid.UPID, 0, n)
	for i := 0; i < n; i++ {
		var (
			id  upid.UPID
			err error
		)
		if at != nil {
			id, err = g.GenerateAt(ctx, prefix, *at)
		} else {
			id, err = g.Generate(ctx, prefix)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func checkEmpty(id upid.UPID, err error) (upid.UPID, error) {
	if err != nil {
		return upid.Nil, err
	}
	if id.IsZero() {
		return upid.Nil, ErrEmptyID
	}
	return id, nil
}
