package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/woozymasta/synthgeo/internal/bench"
	"github.com/woozymasta/synthgeo/internal/config"
	"github.com/woozymasta/synthgeo/internal/generator"
	"github.com/woozymasta/synthgeo/internal/logger"
	"github.com/woozymasta/synthgeo/internal/params"
	"github.com/woozymasta/synthgeo/internal/tiles"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb/maptile"
	"github.com/rs/zerolog/log"
)

const defaultZoom = 6

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Case        string `short:"k" long:"case"        description:"Tiled benchmark case" default:"tiles"`
	Query       string `short:"q" long:"query"       description:"Parameter query string, e.g. count=2000"`
	Dir         string `short:"d" long:"dir"         env:"TILES_DIR"   description:"Output directory" default:"tiles"`
	ZoomLimit   int    `short:"z" long:"zoom-limit"  env:"ZOOM_LIMIT"  description:"Tiles zoom limit, overrides the config zoom (default 6)"`
	Concurrency int    `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"8"`
	Format      string `short:"o" long:"format"      description:"Tile format" choice:"geojson" choice:"mvt" default:"mvt"`
	Force       bool   `short:"f" long:"force"       description:"Force overwrite of existing files"`
	FastCheck   bool   `short:"F" long:"fast-check"  description:"Skip processing if cache exist"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, _, err := config.LoadOptional(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	cfg.ZoomLimit = zoomLimit(opts.ZoomLimit, cfg.ZoomLimit)
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}

	cat, err := bench.NewCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build cases")
	}
	c, err := cat.Get(opts.Case)
	if err != nil {
		log.Fatal().Err(err).Strs("cases", cat.Names()).Msg("Unknown case")
	}
	if !c.Tiled() {
		log.Fatal().Str("case", c.Name).Msg("Case has no tile loader")
	}

	format, err := tiles.ParseFormat(opts.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid tile format")
	}

	sess, err := bench.NewSession(c, params.NewQueryState(opts.Query), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}
	key := sess.DataKey()

	if opts.FastCheck && !opts.Force && cached(opts.Dir, c.Name, key, format, cfg.ZoomLimit) {
		log.Info().Str("case", c.Name).Str("key", key).Str("dir", opts.Dir).Msg("Tiles cache exists, skipping")
		return
	}

	var genOpts []generator.Option
	if len(cfg.Palette) > 0 {
		genOpts = append(genOpts, generator.WithPalette(cfg.Palette))
	}

	p := &tiles.Pyramid{
		Load: tiles.Loader(sess.TileLoader()),
		NewGenerator: func(worker int) *generator.Generator {
			seed := cfg.Seed
			if seed != 0 {
				seed += uint64(worker)
			}
			return generator.NewSeeded(seed, genOpts...)
		},
		Dir:         opts.Dir,
		Case:        c.Name,
		Key:         key,
		Format:      format,
		ZoomLimit:   cfg.ZoomLimit,
		Concurrency: opts.Concurrency,
		Force:       opts.Force,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("case", c.Name).
		Str("key", key).
		Str("format", string(format)).
		Int("zoom_limit", cfg.ZoomLimit).
		Int("concurrency", opts.Concurrency).
		Msg("Starting tiler")

	start := time.Now()
	res, err := p.Run(ctx)

	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.
		Int("written", res.Written).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("duration", time.Since(start)).
		Msg("Tiler finished")

	if err != nil || res.Failed > 0 {
		os.Exit(1)
	}
}

// zoomLimit picks the flag, then the config file, then the default.
func zoomLimit(flag, config int) int {
	switch {
	case flag > 0:
		return flag
	case config > 0:
		return config
	default:
		return defaultZoom
	}
}

// cached reports whether the first tile of the root and of the deepest
// level already exist.
func cached(dir, name, key string, f tiles.Format, zoom int) bool {
	for _, t := range []maptile.Tile{maptile.New(0, 0, 0), maptile.New(0, 0, maptile.Zoom(zoom))} {
		if info, err := os.Stat(tiles.Path(dir, name, key, t, f)); err != nil || info.Size() == 0 {
			return false
		}
	}
	return true
}
