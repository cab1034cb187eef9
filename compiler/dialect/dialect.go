package dialect

import (
	_ "embed"
	"sort"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	Dialect struct {
		Name      string            `yaml:"name"`
		Builtins  []string          `yaml:"builtins"`
		Operators map[string]string `yaml:"operators"`

		builtin map[string]struct{}
		codes   map[string]struct{}
	}
)

//go:embed tiny_py.yaml
var tinyPy []byte

// TinyPy is the registry every compilation uses.
var TinyPy = mustLoad(tinyPy)

func Load(data []byte) (d *Dialect, err error) {
	d = &Dialect{}

	err = yaml.Unmarshal(data, d)
	if err != nil {
		return nil, errors.Wrap(err, "decode dialect")
	}

	if d.Name == "" {
		return nil, errors.New("dialect name is empty")
	}

	d.builtin = make(map[string]struct{}, len(d.Builtins))

	for _, b := range d.Builtins {
		if b == "" {
			return nil, errors.New("empty builtin name")
		}

		d.builtin[b] = struct{}{}
	}

	d.codes = make(map[string]struct{}, len(d.Operators))

	for sym, code := range d.Operators {
		if sym == "" || code == "" {
			return nil, errors.New("bad operator mapping: %q -> %q", sym, code)
		}

		if _, ok := d.codes[code]; ok {
			return nil, errors.New("operator code mapped twice: %v", code)
		}

		d.codes[code] = struct{}{}
	}

	return d, nil
}

func mustLoad(data []byte) *Dialect {
	d, err := Load(data)
	if err != nil {
		panic(err)
	}

	return d
}

// IsBuiltin reports whether a call to name targets a platform function.
func (d *Dialect) IsBuiltin(name string) bool {
	_, ok := d.builtin[name]
	return ok
}

// OpCode maps a source operator symbol to its IR operator code.
func (d *Dialect) OpCode(sym string) (code string, ok bool) {
	code, ok = d.Operators[sym]
	return
}

func (d *Dialect) IsOpCode(code string) bool {
	_, ok := d.codes[code]
	return ok
}

// OpCodes returns the known operator codes sorted.
func (d *Dialect) OpCodes() []string {
	r := make([]string, 0, len(d.codes))

	for c := range d.codes {
		r = append(r, c)
	}

	sort.Strings(r)

	return r
}

// Qualify prefixes an op or attribute name with the dialect namespace.
func (d *Dialect) Qualify(name string) string {
	return d.Name + "." + name
}
