package server

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/woozymasta/synthgeo/internal/bench"
	"github.com/woozymasta/synthgeo/internal/config"
	"github.com/woozymasta/synthgeo/internal/generator"
	"github.com/woozymasta/synthgeo/internal/page"
	"github.com/woozymasta/synthgeo/internal/params"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Catalog   *bench.Catalog
	IndexHTML []byte
	IndexETag string
	Favicon   []byte
	TilesDir  string
}

// NewServerContext builds the case catalog and renders the index page.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	cat, err := bench.NewCatalog(cfg)
	if err != nil {
		return nil, err
	}

	index, err := page.Render(cat)
	if err != nil {
		return nil, err
	}
	favicon, err := page.Favicon()
	if err != nil {
		return nil, err
	}

	for _, c := range cat.List() {
		log.Debug().
			Str("case", c.Name).
			Int("params", len(c.Params)).
			Bool("tiled", c.Tiled()).
			Msg("Case registered")
	}

	log.Info().
		Int("cases_count", len(cat.List())).
		Int("index_bytes", len(index)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:    cfg,
		Catalog:   cat,
		IndexHTML: index,
		IndexETag: contentETag(index),
		Favicon:   favicon,
		TilesDir:  cfg.TilesDir,
	}, nil
}

// session builds a request scoped session from the request query. The case
// query key is not a parameter and is dropped. A nil src skips data loads.
func (s *ServerContext) session(r *http.Request, c *bench.Case, src bench.Source) (*bench.Session, *params.QueryState, *params.MemoryPanel, error) {
	query := r.URL.Query()
	query.Del("case")

	state := params.FromValues(query)
	panel := params.NewMemoryPanel()

	opts := []bench.Option{bench.WithGenerator(s.generator())}
	if src != nil {
		opts = append(opts, bench.WithSource(src))
	}

	sess, err := bench.NewSession(c, state, panel, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return sess, state, panel, nil
}

func (s *ServerContext) generator() *generator.Generator {
	var opts []generator.Option
	if len(s.Config.Palette) > 0 {
		opts = append(opts, generator.WithPalette(s.Config.Palette))
	}
	return generator.NewSeeded(s.Config.Seed, opts...)
}

func contentETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}
