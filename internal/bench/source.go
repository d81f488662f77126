package bench

import (
	"github.com/paulmach/orb/geojson"
)

// Source receives generated features, mirroring a map library's vector source.
type Source interface {
	Clear()
	AddFeatures(fc *geojson.FeatureCollection)
	Refresh()
}

// MemorySource keeps features in memory.
type MemorySource struct {
	features []*geojson.Feature
	revision int
}

// NewMemorySource returns an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Clear drops all features.
func (s *MemorySource) Clear() {
	s.features = nil
	s.revision++
}

// AddFeatures appends the features of fc. The collection is owned by the
// source afterwards.
func (s *MemorySource) AddFeatures(fc *geojson.FeatureCollection) {
	if fc == nil {
		return
	}
	if s.features == nil {
		s.features = fc.Features
	} else {
		s.features = append(s.features, fc.Features...)
	}
	s.revision++
}

// Refresh marks the source as changed so tiled consumers reload.
func (s *MemorySource) Refresh() {
	s.revision++
}

// Len returns the number of features held.
func (s *MemorySource) Len() int {
	return len(s.features)
}

// Revision increments on every change and can be used as a cache key.
func (s *MemorySource) Revision() int {
	return s.revision
}

// Collection returns the held features as a collection.
func (s *MemorySource) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = s.features
	if fc.Features == nil {
		fc.Features = []*geojson.Feature{}
	}
	return fc
}
