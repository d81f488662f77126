// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/woozymasta/synthgeo/internal/bench"
	"github.com/woozymasta/synthgeo/internal/geo"
	"github.com/woozymasta/synthgeo/internal/params"
	"github.com/woozymasta/synthgeo/internal/tiles"

	"github.com/paulmach/orb/maptile"
	"github.com/rs/zerolog/log"
)

const (
	etagCap = 64
	maxZoom = 24
)

// UpdateResponse is returned after a parameter change.
type UpdateResponse struct {
	Query string         `json:"query"`
	Case  bench.Snapshot `json:"case"`
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := s.IndexETag

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleCasesList serves every case with its parameters resolved from the query.
func (s *ServerContext) HandleCasesList(w http.ResponseWriter, r *http.Request) {
	cases := s.Catalog.List()
	out := make([]bench.Snapshot, 0, len(cases))
	for _, c := range cases {
		sess, _, _, err := s.session(r, c, nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, sess.Snapshot())
	}
	writeJSON(w, out)
}

// HandleCaseAPI serves /api/cases/{case} and /api/cases/{case}/params/{id}.
func (s *ServerContext) HandleCaseAPI(w http.ResponseWriter, r *http.Request) {
	// Path: /api/cases/{case}/...
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}

	c, err := s.Catalog.Get(parts[2])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	switch {
	case len(parts) == 3 && r.Method == http.MethodGet:
		sess, _, _, err := s.session(r, c, nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, sess.Snapshot())

	case len(parts) == 5 && parts[3] == "params" && r.Method == http.MethodPost:
		s.updateParam(w, r, c, parts[4])

	case len(parts) == 3 || (len(parts) == 5 && parts[3] == "params"):
		w.WriteHeader(http.StatusMethodNotAllowed)

	default:
		http.NotFound(w, r)
	}
}

func (s *ServerContext) updateParam(w http.ResponseWriter, r *http.Request, c *bench.Case, id string) {
	sess, state, panel, err := s.session(r, c, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := panel.SetRaw(id, r.PostFormValue("value")); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, params.ErrUnknown) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	log.Debug().
		Str("case", c.Name).
		Str("param", id).
		Str("value", sess.Registry.Value(id).String()).
		Msg("Parameter updated")

	writeJSON(w, UpdateResponse{Query: state.Encode(), Case: sess.Snapshot()})
}

// HandleCaseData serves generated data for specific cases.
func (s *ServerContext) HandleCaseData(w http.ResponseWriter, r *http.Request) {
	// Path: /cases/{case}/...
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}

	c, err := s.Catalog.Get(parts[1])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	switch {
	case len(parts) == 3 && (parts[2] == "data.geojson" || parts[2] == "stats.json"):
		if c.Tiled() {
			writeError(w, http.StatusNotFound, fmt.Errorf("case %s is tiled", c.Name))
			return
		}
		src := bench.NewMemorySource()
		if _, _, _, err := s.session(r, c, src); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if parts[2] == "stats.json" {
			writeJSON(w, geo.Summarize(src.Collection()))
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_ = json.NewEncoder(w).Encode(src.Collection())

	case len(parts) == 6 && parts[2] == "tiles":
		// parts: cases, case, tiles, z, x, y.ext
		if !c.Tiled() {
			writeError(w, http.StatusNotFound, fmt.Errorf("case %s is not tiled", c.Name))
			return
		}
		s.serveTile(w, r, c, parts[3], parts[4], parts[5])

	default:
		http.NotFound(w, r)
	}
}

func (s *ServerContext) serveTile(w http.ResponseWriter, r *http.Request, c *bench.Case, zs, xs, file string) {
	ext := path.Ext(file)
	format, err := tiles.ParseFormat(ext)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	tile, err := parseTile(zs, xs, strings.TrimSuffix(file, ext))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess, _, _, err := s.session(r, c, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.TilesDir != "" {
		if s.serveFile(w, r, tiles.Path(s.TilesDir, c.Name, sess.DataKey(), tile, format), format.ContentType()) {
			return
		}
	}

	data, err := tiles.Encode(sess.LoadTile(tile), tile, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

func parseTile(zs, xs, ys string) (maptile.Tile, error) {
	z, errZ := strconv.Atoi(zs)
	x, errX := strconv.ParseUint(xs, 10, 32)
	y, errY := strconv.ParseUint(ys, 10, 32)
	if errZ != nil || errX != nil || errY != nil {
		return maptile.Tile{}, fmt.Errorf("invalid tile %s/%s/%s", zs, xs, ys)
	}
	if z < 0 || z > maxZoom {
		return maptile.Tile{}, fmt.Errorf("zoom %d out of range [0, %d]", z, maxZoom)
	}
	n := uint64(1) << uint(z)
	if x >= n || y >= n {
		return maptile.Tile{}, fmt.Errorf("tile %d/%d/%d out of range", z, x, y)
	}
	return maptile.New(uint32(x), uint32(y), maptile.Zoom(z)), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
