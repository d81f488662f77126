// Package tiles encodes generated tile data and pre-generates tile pyramids.
package tiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

// ErrUnknownFormat is returned for unsupported tile formats.
var ErrUnknownFormat = errors.New("unknown tile format")

// LayerName is the MVT layer holding generated features.
const LayerName = "synthetic"

// DefaultKey names the parameter directory of a case without data parameters.
const DefaultKey = "default"

// Format is a tile encoding.
type Format string

// Supported formats.
const (
	GeoJSON Format = "geojson"
	MVT     Format = "mvt"
)

// ParseFormat maps a file extension, with or without the dot, to a format.
func ParseFormat(ext string) (Format, error) {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	switch Format(ext) {
	case GeoJSON:
		return GeoJSON, nil
	case MVT, "pbf":
		return MVT, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == MVT {
		return "application/vnd.mapbox-vector-tile"
	}
	return "application/geo+json"
}

// Encode serializes fc for tile t. MVT encoding projects the geometries in
// place, so fc must not be reused afterwards.
func Encode(fc *geojson.FeatureCollection, t maptile.Tile, f Format) ([]byte, error) {
	switch f {
	case GeoJSON:
		return json.Marshal(fc)
	case MVT:
		layers := mvt.NewLayers(map[string]*geojson.FeatureCollection{LayerName: fc})
		layers.ProjectToTile(t)
		layers.Clip(mvt.MapboxGLDefaultExtentBound)
		return mvt.Marshal(layers)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Path returns where tile t of a case is stored under dir. key identifies
// the data parameters the tile was generated with, see bench.Session.DataKey.
func Path(dir, caseName, key string, t maptile.Tile, f Format) string {
	if key == "" {
		key = DefaultKey
	}
	return filepath.Join(
		dir,
		caseName,
		key,
		strconv.Itoa(int(t.Z)),
		strconv.Itoa(int(t.X)),
		strconv.Itoa(int(t.Y))+"."+string(f),
	)
}
