package tiles

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/woozymasta/synthgeo/internal/generator"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/rs/zerolog/log"
)

// Loader generates the data of one tile with the given generator.
type Loader func(g *generator.Generator, t maptile.Tile) *geojson.FeatureCollection

// Pyramid writes every tile from zoom 0 to ZoomLimit to disk.
type Pyramid struct {
	Load Loader
	// NewGenerator builds one generator per worker.
	NewGenerator func(worker int) *generator.Generator

	Dir  string
	Case string
	// Key is the data parameter key the tiles are stored under.
	Key         string
	Format      Format
	ZoomLimit   int
	Concurrency int
	Force       bool
}

// Result counts the outcome of a run.
type Result struct {
	Written int
	Skipped int
	Failed  int
}

type job struct {
	Tile maptile.Tile
}

type result struct {
	Tile    maptile.Tile
	Err     error
	Skipped bool
}

// Run generates the pyramid level by level. It stops between tiles when ctx
// is cancelled and returns ctx.Err().
func (p *Pyramid) Run(ctx context.Context) (Result, error) {
	var total Result

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for z := 0; z <= p.ZoomLimit; z++ {
		level := levelTiles(maptile.Zoom(z))
		log.Debug().Int("zoom", z).Int("count", len(level)).Msg("Processing zoom level")

		res := p.processBatch(ctx, concurrency, level)
		total.Written += res.Written
		total.Skipped += res.Skipped
		total.Failed += res.Failed

		if err := ctx.Err(); err != nil {
			return total, err
		}
	}

	return total, nil
}

func (p *Pyramid) processBatch(ctx context.Context, concurrency int, tiles []maptile.Tile) Result {
	jobs := make(chan job)
	results := make(chan result, len(tiles))

	go func() {
		defer close(jobs)
		for _, t := range tiles {
			select {
			case jobs <- job{Tile: t}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			gen := p.generator(worker)
			for j := range jobs {
				skipped, err := p.writeTile(gen, j.Tile)
				if err != nil {
					log.Error().
						Err(err).
						Uint32("z", uint32(j.Tile.Z)).
						Uint32("x", j.Tile.X).
						Uint32("y", j.Tile.Y).
						Msg("Failed to write tile")
				}
				results <- result{Tile: j.Tile, Skipped: skipped, Err: err}
			}
		}(i)
	}
	wg.Wait()
	close(results)

	var res Result
	for r := range results {
		switch {
		case r.Err != nil:
			res.Failed++
		case r.Skipped:
			res.Skipped++
		default:
			res.Written++
		}
	}

	return res
}

func (p *Pyramid) writeTile(gen *generator.Generator, t maptile.Tile) (bool, error) {
	outPath := Path(p.Dir, p.Case, p.Key, t, p.Format)

	// Check existence if not forcing overwrite
	if !p.Force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return true, nil
		}
	}

	data, err := Encode(p.Load(gen, t), t, p.Format)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, err
	}

	return false, os.WriteFile(outPath, data, 0644)
}

func (p *Pyramid) generator(worker int) *generator.Generator {
	if p.NewGenerator != nil {
		return p.NewGenerator(worker)
	}
	return generator.NewSeeded(0)
}

func levelTiles(z maptile.Zoom) []maptile.Tile {
	n := uint32(1) << z
	out := make([]maptile.Tile, 0, int(n)*int(n))
	for x := uint32(0); x < n; x++ {
		for y := uint32(0); y < n; y++ {
			out = append(out, maptile.New(x, y, z))
		}
	}
	return out
}
