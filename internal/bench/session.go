package bench

import (
	"net/url"
	"time"

	"github.com/woozymasta/synthgeo/internal/generator"
	"github.com/woozymasta/synthgeo/internal/params"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mounter swaps the layer shown on the map.
type Mounter interface {
	Mount(b Backend, s Style)
}

// MountFunc adapts a function to Mounter.
type MountFunc func(b Backend, s Style)

// Mount implements Mounter.
func (f MountFunc) Mount(b Backend, s Style) { f(b, s) }

// TileLoader generates the data of one tile. It captures parameter values
// at creation time and may be called from any goroutine with its own
// generator.
type TileLoader func(g *generator.Generator, t maptile.Tile) *geojson.FeatureCollection

// Session binds one case to a registry, a source and a backend.
// Like the registry it is used from a single goroutine.
type Session struct {
	Case     *Case
	Registry *params.Registry

	source  Source
	gen     *generator.Generator
	mounter Mounter

	backend Backend
	style   Style
	ready   bool
	loads   int
}

// Option configures a Session.
type Option func(*Session)

// WithSource makes the session generate data into src. Without a source the
// session only tracks parameters and style.
func WithSource(src Source) Option {
	return func(s *Session) { s.source = src }
}

// WithGenerator sets the generator used for data loads.
func WithGenerator(g *generator.Generator) Option {
	return func(s *Session) { s.gen = g }
}

// WithMounter receives every layer mount.
func WithMounter(m Mounter) Option {
	return func(s *Session) { s.mounter = m }
}

// NewSession registers the common and case parameters against state and
// panel, loads the data once and mounts the layer.
func NewSession(c *Case, state params.URLState, panel params.Panel, opts ...Option) (*Session, error) {
	s := &Session{
		Case:     c,
		Registry: params.New(state, panel),
		backend:  Canvas,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = generator.NewSeeded(0)
	}

	for _, spec := range append(CommonParams(), c.Params...) {
		if err := s.Registry.Register(spec.ID, spec.Label, spec.Domain, spec.Default, s.callback(spec)); err != nil {
			return nil, err
		}
	}

	s.ready = true
	s.style = s.buildStyle()
	s.Reset()
	s.mount()

	return s, nil
}

func (s *Session) callback(spec ParamSpec) params.Callback {
	return func(v params.Value, initial bool) {
		if initial || !s.ready {
			if spec.ID == ParamRenderer {
				s.backend = backendOf(v)
			}
			return
		}

		switch {
		case spec.ID == ParamRenderer:
			s.backend = backendOf(v)
			s.mount()
		case spec.ID == ParamPerformance:
			log.Info().Str("case", s.Case.Name).Bool("enabled", v.Flag).Msg("Performance tracking toggled")
		case spec.Reload:
			s.Reset()
		default:
			s.style = s.buildStyle()
			s.mount()
		}
	}
}

// Reset discards the current data and loads a fresh data set synchronously.
// Tiled cases only refresh the source so tiles are requested again.
func (s *Session) Reset() {
	if s.source == nil {
		return
	}

	s.source.Clear()
	s.loads++

	if s.Case.Tiled() {
		s.source.Refresh()
		return
	}

	if err := s.Check(); err != nil {
		log.Warn().Err(err).Str("case", s.Case.Name).Msg("Parameters produce degenerate data")
	}

	var fc *geojson.FeatureCollection
	s.timed("generate features", func() {
		fc = s.Case.Load(s.gen, s.Registry)
	})
	s.timed("add features", func() {
		s.source.AddFeatures(fc)
	})

	s.event().
		Str("case", s.Case.Name).
		Int("features", len(fc.Features)).
		Msg("Data loaded")
}

// LoadTile generates one tile with the session generator.
func (s *Session) LoadTile(t maptile.Tile) *geojson.FeatureCollection {
	var fc *geojson.FeatureCollection
	s.timed("generate tile", func() {
		fc = s.TileLoader()(s.gen, t)
	})
	return fc
}

// TileLoader returns a loader bound to the current parameter values.
// It returns nil for untiled cases.
func (s *Session) TileLoader() TileLoader {
	if !s.Case.Tiled() {
		return nil
	}

	snapshot := make(values, len(s.Case.Params))
	for _, spec := range s.Case.Params {
		snapshot[spec.ID] = s.Registry.Value(spec.ID)
	}
	load := s.Case.LoadTile

	return func(g *generator.Generator, t maptile.Tile) *geojson.FeatureCollection {
		return load(g, t.Bound(), snapshot)
	}
}

// Check validates the current values against the generator preconditions.
func (s *Session) Check() error {
	if s.Case.Check == nil {
		return nil
	}
	return s.Case.Check(s.Registry)
}

// DataKey encodes the current values of the parameters that shape the data,
// sorted by id. Two sessions of a case with the same key generate the same
// kind of data, so the key names pre-generated tiles on disk.
func (s *Session) DataKey() string {
	q := url.Values{}
	for _, spec := range s.Case.Params {
		if !spec.Reload {
			continue
		}
		q.Set(spec.ID, spec.Domain.Format(s.Registry.Value(spec.ID)))
	}
	return q.Encode()
}

// Backend returns the mounted backend.
func (s *Session) Backend() Backend { return s.backend }

// Style returns the current flat style.
func (s *Session) Style() Style { return s.style }

// Loads returns how many times the data was reset.
func (s *Session) Loads() int { return s.loads }

// Performance reports whether performance tracking is enabled.
func (s *Session) Performance() bool {
	return s.Registry.Value(ParamPerformance).Flag
}

func (s *Session) buildStyle() Style {
	if s.Case.Style == nil {
		return Style{}
	}
	return s.Case.Style(s.Registry)
}

func (s *Session) mount() {
	if s.mounter != nil {
		s.mounter.Mount(s.backend, s.style)
	}
	log.Trace().Str("case", s.Case.Name).Str("backend", string(s.backend)).Msg("Layer mounted")
}

// timed runs fn and logs its duration, at info level when performance
// tracking is on.
func (s *Session) timed(step string, fn func()) {
	start := time.Now()
	fn()
	s.event().
		Str("case", s.Case.Name).
		Str("step", step).
		Dur("duration", time.Since(start)).
		Msg("Timing")
}

func (s *Session) event() *zerolog.Event {
	if s.Performance() {
		return log.Info()
	}
	return log.Debug()
}

func backendOf(v params.Value) Backend {
	if v.Flag {
		return WebGL
	}
	return Canvas
}

type values map[string]params.Value

func (v values) Value(id string) params.Value {
	if val, ok := v[id]; ok {
		return val
	}
	return params.Unset
}

// Snapshot is the serializable state of a session.
type Snapshot struct {
	Name    string             `json:"name"`
	Title   string             `json:"title"`
	Backend Backend            `json:"backend"`
	Style   Style              `json:"style"`
	Params  []params.Parameter `json:"params"`
	Tiled   bool               `json:"tiled"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Name:    s.Case.Name,
		Title:   s.Case.Title,
		Backend: s.backend,
		Style:   s.style,
		Params:  s.Registry.Parameters(),
		Tiled:   s.Case.Tiled(),
	}
}
