// Package bench wires benchmark cases to the parameter registry, the
// geometry generator and a data source.
package bench

import (
	"errors"
	"fmt"
	"sort"

	"github.com/woozymasta/synthgeo/internal/config"
	"github.com/woozymasta/synthgeo/internal/generator"
	"github.com/woozymasta/synthgeo/internal/params"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrUnknownCase is returned for case names missing from a catalog.
var ErrUnknownCase = errors.New("unknown case")

// Backend is the rendering backend a case is mounted on.
type Backend string

// Rendering backends.
const (
	Canvas Backend = "canvas"
	WebGL  Backend = "webgl"
)

// Common parameter ids.
const (
	ParamRenderer    = "renderer"
	ParamPerformance = "performance"
	ParamCount       = "count"
)

// Style is a flat style object handed to the map library unchanged.
type Style map[string]any

// Values gives read access to current parameter values.
type Values interface {
	Value(id string) params.Value
}

// ParamSpec declares a case parameter.
type ParamSpec struct {
	ID      string
	Label   string
	Domain  params.Domain
	Default params.Value
	Reload  bool // regenerate the data on change
}

// Case is one benchmark page.
type Case struct {
	Name   string
	Title  string
	Params []ParamSpec

	// Style builds the flat style from the current values.
	Style func(v Values) Style
	// Load generates the whole data set. Nil for tiled cases.
	Load func(g *generator.Generator, v Values) *geojson.FeatureCollection
	// Check reports parameter values the generator would turn into empty or
	// degenerate data. Optional.
	Check func(v Values) error
	// LoadTile generates the data of one tile. Nil for untiled cases.
	LoadTile func(g *generator.Generator, bound orb.Bound, v Values) *geojson.FeatureCollection
}

// Tiled reports whether the case serves data per tile.
func (c *Case) Tiled() bool {
	return c.LoadTile != nil
}

// CommonParams are registered by every session before the case parameters.
func CommonParams() []ParamSpec {
	return []ParamSpec{
		{ID: ParamRenderer, Label: "Use WebGL", Domain: params.Toggle("webgl", "canvas"), Default: params.Bool(false)},
		{ID: ParamPerformance, Label: "Enable Performance Tracking", Domain: params.Toggle("yes", "no"), Default: params.Bool(false)},
	}
}

// Catalog is an ordered set of cases.
type Catalog struct {
	cases map[string]*Case
	order []string
}

// NewCatalog returns the built-in cases with the overrides of cfg applied.
// Disabled cases are left out. A nil cfg keeps the built-in settings.
func NewCatalog(cfg *config.Config) (*Catalog, error) {
	cat := &Catalog{cases: make(map[string]*Case)}

	var overrides map[string]config.Case
	if cfg != nil {
		overrides = cfg.Cases
	}

	for _, c := range Builtin() {
		o, ok := overrides[c.Name]
		if ok {
			if o.Disabled {
				continue
			}
			if err := apply(c, o); err != nil {
				return nil, fmt.Errorf("case %s: %w", c.Name, err)
			}
		}
		cat.cases[c.Name] = c
		cat.order = append(cat.order, c.Name)
	}

	for name := range overrides {
		if !isBuiltin(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCase, name)
		}
	}

	return cat, nil
}

// Get returns the case by name.
func (c *Catalog) Get(name string) (*Case, error) {
	if cs, ok := c.cases[name]; ok {
		return cs, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCase, name)
}

// List returns the cases in catalog order.
func (c *Catalog) List() []*Case {
	out := make([]*Case, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.cases[name])
	}
	return out
}

// Names returns the sorted case names.
func (c *Catalog) Names() []string {
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	return names
}

func apply(c *Case, o config.Case) error {
	if o.Title != "" {
		c.Title = o.Title
	}

	for id, po := range o.Params {
		idx := -1
		for i := range c.Params {
			if c.Params[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", params.ErrUnknown, id)
		}
		spec := &c.Params[idx]

		if po.Label != "" {
			spec.Label = po.Label
		}
		if len(po.Values) > 0 {
			d, err := params.DomainOf(po.Values...)
			if err != nil {
				return fmt.Errorf("parameter %s: %w", id, err)
			}
			if d.Kind != spec.Domain.Kind {
				return fmt.Errorf("parameter %s: %w", id, params.ErrKindMismatch)
			}
			spec.Domain = d
		}
		if po.Default != nil {
			v, err := valueOf(spec.Domain, po.Default)
			if err != nil {
				return fmt.Errorf("parameter %s: %w", id, err)
			}
			spec.Default = v
		}
		spec.Default = spec.Domain.Clamp(spec.Default)
	}

	return nil
}

// valueOf converts a YAML scalar into a value of the domain's kind.
func valueOf(d params.Domain, raw any) (params.Value, error) {
	switch v := raw.(type) {
	case bool:
		if d.Kind == params.KindBool {
			return params.Bool(v), nil
		}
	case string:
		if d.Kind == params.KindBool && (v == d.On || v == d.Off) {
			return params.Bool(v == d.On), nil
		}
		if parsed, ok := d.Parse(v); ok && d.Kind == params.KindNumeric {
			return parsed, nil
		}
	case int:
		if d.Kind == params.KindNumeric {
			return params.Number(float64(v)), nil
		}
	case float64:
		if d.Kind == params.KindNumeric {
			return params.Number(v), nil
		}
	}
	return params.Unset, fmt.Errorf("%w: default %v for %s domain", params.ErrInvalidValue, raw, d.Kind)
}

func isBuiltin(name string) bool {
	for _, c := range Builtin() {
		if c.Name == name {
			return true
		}
	}
	return false
}
