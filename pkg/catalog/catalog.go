// Package catalog holds the table of builtin function signatures. A Catalog is built
// once and never mutated afterwards, so a single instance may serve any number of
// concurrent translations.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"djinn/compiler-go/pkg/ast"
)

//go:embed builtins.yml
var builtinsYAML string

// Param lists the data types accepted at one argument position.
type Param []ast.DataType

func (p Param) Accepts(dt ast.DataType) bool {
	for _, allowed := range p {
		if allowed == dt {
			return true
		}
	}
	return false
}

func (p Param) String() string {
	names := make([]string, len(p))
	for i, dt := range p {
		names[i] = string(dt)
	}
	return strings.Join(names, ",")
}

// Function describes a builtin. Slices are shared with the catalog and must be treated
// as read-only.
type Function struct {
	Name    string
	Params  []Param
	Returns ast.DataType
	JS      string
}

func (f Function) Arity() int { return len(f.Params) }

type Catalog struct {
	funcs map[string]Function
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the builtin catalog shipped with the translator.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Load(strings.NewReader(builtinsYAML))
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded builtins: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// Load parses a catalog YAML document.
func Load(r io.Reader) (*Catalog, error) {
	var raw []functionDisk
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	cat := &Catalog{funcs: make(map[string]Function, len(raw))}
	for _, entry := range raw {
		fn, err := entry.toFunction()
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(fn.Name)
		if _, exists := cat.funcs[key]; exists {
			return nil, fmt.Errorf("catalog: duplicate function %s", fn.Name)
		}
		cat.funcs[key] = fn
	}
	return cat, nil
}

// LoadFile parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cat, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, abs)
	}
	return cat, nil
}

// Lookup finds a builtin by name, ignoring case.
func (c *Catalog) Lookup(name string) (Function, bool) {
	if c == nil {
		return Function{}, false
	}
	fn, ok := c.funcs[strings.ToLower(name)]
	return fn, ok
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.funcs)
}

// Functions lists every builtin sorted by name.
func (c *Catalog) Functions() []Function {
	if c == nil {
		return nil
	}
	out := make([]Function, 0, len(c.funcs))
	for _, fn := range c.funcs {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Merge returns a new catalog holding c's functions overlaid with extra's.
func (c *Catalog) Merge(extra *Catalog) *Catalog {
	merged := &Catalog{funcs: make(map[string]Function, c.Len()+extra.Len())}
	if c != nil {
		for key, fn := range c.funcs {
			merged.funcs[key] = fn
		}
	}
	if extra != nil {
		for key, fn := range extra.funcs {
			merged.funcs[key] = fn
		}
	}
	return merged
}

type functionDisk struct {
	Name    string      `yaml:"name"`
	Params  []paramDisk `yaml:"params"`
	Returns string      `yaml:"returns"`
	JS      string      `yaml:"js"`
}

func (d functionDisk) toFunction() (Function, error) {
	name := strings.TrimSpace(d.Name)
	if !validName(name) {
		return Function{}, fmt.Errorf("catalog: invalid function name %q", d.Name)
	}
	returns := ast.DataType(strings.TrimSpace(d.Returns))
	if !returns.Valid() {
		return Function{}, fmt.Errorf("catalog: %s: unknown return type %q", name, d.Returns)
	}
	params := make([]Param, 0, len(d.Params))
	for idx, raw := range d.Params {
		if len(raw) == 0 {
			return Function{}, fmt.Errorf("catalog: %s: parameter %d accepts no types", name, idx+1)
		}
		param := make(Param, 0, len(raw))
		for _, item := range raw {
			dt := ast.DataType(item)
			if !dt.Valid() {
				return Function{}, fmt.Errorf("catalog: %s: parameter %d: unknown type %q", name, idx+1, item)
			}
			param = append(param, dt)
		}
		params = append(params, param)
	}
	return Function{
		Name:    name,
		Params:  params,
		Returns: returns,
		JS:      strings.TrimSpace(d.JS),
	}, nil
}

// Names starting with "__" belong to the runtime namespace.
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "__") {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// paramDisk accepts either a single type or a sequence of types.
type paramDisk []string

func (p *paramDisk) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*p = paramDisk{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*p = paramDisk(items)
		return nil
	case yaml.AliasNode:
		return p.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("catalog: expected type or sequence of types but found %s", value.ShortTag())
	}
}
