package ir

import (
	"fmt"

	"tlog.app/go/errors"
)

type (
	SchemaError struct {
		Kind       Kind
		Constraint string
	}
)

var ErrSchemaViolation = errors.New("schema violation")

func NewSchemaError(k Kind, f string, args ...any) *SchemaError {
	return &SchemaError{
		Kind:       k,
		Constraint: fmt.Sprintf(f, args...),
	}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation: %v: %v", e.Kind.Name(), e.Constraint)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Verify checks op against the schema of its kind.
// Children must be present but are not walked.
func (op *Op) Verify() error {
	if op == nil {
		return errors.Wrap(ErrSchemaViolation, "nil op")
	}

	k := op.kind

	if !k.Valid() {
		return NewSchemaError(k, "unknown op kind")
	}

	s := &schemas[k]

	seen := make(map[string]struct{}, len(op.props))

	for _, p := range op.props {
		if _, ok := seen[p.Name]; ok {
			return NewSchemaError(k, "property %v set twice", p.Name)
		}

		seen[p.Name] = struct{}{}

		if !s.hasProp(p.Name) {
			return NewSchemaError(k, "unexpected property %v", p.Name)
		}
	}

	for _, ps := range s.Props {
		a, ok := op.Prop(ps.Name)
		if !ok {
			return NewSchemaError(k, "missing property %v", ps.Name)
		}

		if err := ps.Check(a); err != nil {
			return NewSchemaError(k, "property %v: %v", ps.Name, err)
		}
	}

	if len(op.regions) != len(s.Regions) {
		return NewSchemaError(k, "expected %d regions, got %d", len(s.Regions), len(op.regions))
	}

	for i, rs := range s.Regions {
		r := op.regions[i]

		if rs.Ops != AnyOps && len(r) != rs.Ops {
			return NewSchemaError(k, "region %v must hold exactly %d op(s), got %d", rs.Name, rs.Ops, len(r))
		}

		for j, c := range r {
			if c == nil {
				return NewSchemaError(k, "region %v: op %d is nil", rs.Name, j)
			}
		}
	}

	return nil
}

// Verify checks the whole tree rooted at root.
// Besides per-op schemas it requires every op to have a single parent
// and module ops to appear only at the root.
func Verify(root *Op) error {
	v := verifier{
		seen: make(map[*Op]struct{}),
	}

	return v.verify(root, 0)
}

type verifier struct {
	seen map[*Op]struct{}
}

func (v *verifier) verify(op *Op, d int) error {
	err := op.Verify()
	if err != nil {
		return err
	}

	if _, ok := v.seen[op]; ok {
		return NewSchemaError(op.kind, "op has more than one parent")
	}

	v.seen[op] = struct{}{}

	if op.kind == Module && d != 0 {
		return NewSchemaError(op.kind, "module must be the root")
	}

	s := &schemas[op.kind]

	for i, r := range op.regions {
		for j, c := range r {
			err = v.verify(c, d+1)
			if err != nil {
				return errors.Wrap(err, "%v %v[%d]", op.Name(), s.Regions[i].Name, j)
			}
		}
	}

	return nil
}

func (s *schema) hasProp(name string) bool {
	for _, p := range s.Props {
		if p.Name == name {
			return true
		}
	}

	return false
}
