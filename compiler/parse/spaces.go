package parse

import (
	"context"
)

type (
	Spaces uint64

	Spacer struct {
		Spaces Spaces
		Of     Parser
	}
)

// SpaceLine never crosses a line break.
var SpaceLine = NewSpaces(' ', '\t', '\r', '\f')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

func Spaced(p Parser) Spacer {
	return Spacer{
		Spaces: SpaceLine,
		Of:     p,
	}
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	vst := p.Spaces.Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil && i == vst {
		i = st
	}

	return
}

func (p Spacer) String() string { return describe(p.Of) }
