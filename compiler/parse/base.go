package parse

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"
)

type (
	Optional struct {
		Parser
	}

	AnyOf []Parser
)

// Parse returns nil without error if the wrapped parser fails before consuming anything.
func (p Optional) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	x, i, err = p.Parser.Parse(ctx, b, st)
	if err != nil && i == st {
		return nil, st, nil
	}

	return
}

func (p AnyOf) Parse(ctx context.Context, b []byte, st int) (_ any, i int, err error) {
	for _, r := range p {
		x, j, e := r.Parse(ctx, b, st)
		if e == nil {
			return x, j, nil
		}
		if j == st {
			continue
		}
		if err == nil {
			i = j
			err = errors.Wrap(e, "%v", describe(r))
		}
	}

	if err != nil {
		return
	}

	return nil, st, errors.New("expected %v", joinHuman(p...))
}

func describe(p Parser) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", p)
}

func joinHuman(l ...Parser) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return describe(l[0])
	}

	var b strings.Builder

	for i, r := range l {
		if i+1 == len(l) {
			b.WriteString(" or ")
		} else if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(describe(r))
	}

	return b.String()
}
