package overlay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dgraph-io/ristretto"
	"github.com/paulmach/orb/geojson"
)

// Loader fetches the overlay stored under id.
type Loader func(ctx context.Context, id string) (*geojson.FeatureCollection, error)

// Store caches overlay payloads by id so forms rendered on every request do
// not reload and re-encode the same reference layers.
type Store struct {
	load  Loader
	cache *ristretto.Cache
}

// StoreConfig sizes the cache. Cost is counted in layers.
type StoreConfig struct {
	MaxLayers   int64
	NumCounters int64
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.MaxLayers <= 0 {
		c.MaxLayers = 1024
	}
	if c.NumCounters <= 0 {
		c.NumCounters = c.MaxLayers * 10
	}
	return c
}

// NewStore wraps load with a ristretto cache.
func NewStore(load Loader, cfg StoreConfig) (*Store, error) {
	if load == nil {
		return nil, errors.New("overlay: loader is required")
	}
	cfg = cfg.withDefaults()
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxLayers,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: init cache: %w", err)
	}
	return &Store{load: load, cache: cache}, nil
}

// FSLoader reads GeoJSON files named by id from fsys.
func FSLoader(fsys fs.FS) Loader {
	return func(_ context.Context, id string) (*geojson.FeatureCollection, error) {
		raw, err := fs.ReadFile(fsys, id)
		if err != nil {
			return nil, fmt.Errorf("overlay: read %s: %w", id, err)
		}
		return Parse(raw)
	}
}

// Layers returns the payloads for ids in order, ready for SetGeoJSONLayers.
func (s *Store) Layers(ctx context.Context, ids ...string) ([]any, error) {
	layers := make([]any, 0, len(ids))
	for _, id := range ids {
		layer, err := s.layer(ctx, id)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func (s *Store) layer(ctx context.Context, id string) (any, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}
	fc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	payloads, err := FromFeatureCollections(fc)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("overlay: %s is empty", id)
	}
	s.cache.Set(id, payloads[0], 1)
	s.cache.Wait()
	return payloads[0], nil
}

// Invalidate drops id so the next Layers call reloads it.
func (s *Store) Invalidate(id string) {
	s.cache.Del(id)
}

// Close releases the cache goroutines.
func (s *Store) Close() {
	s.cache.Close()
}
