package routingalgorithm

import (
	"errors"
	"math"

	"lintang/cityroute/pkg/datastructure"
)

var (
	// ErrNodeNotFound node id tidak ada di graph snapshot.
	ErrNodeNotFound = errors.New("routingalgorithm: node not found in graph")

	// ErrNameNotFound nama tempat tidak cocok dengan node manapun.
	ErrNameNotFound = errors.New("routingalgorithm: place name not found")
)

// Unreachable jarak sentinel kalau target tidak pernah tercapai.
const Unreachable = math.MaxFloat64

// Options konfigurasi RouteAlgorithm.
//
// IndexedFrontier – pakai binary heap untuk memilih node frontier (default linear scan O(V)).
// MaxDepth        – batas kedalaman DFS GeoWeightedSearch, -1 berarti tanpa batas.
type Options struct {
	IndexedFrontier bool
	MaxDepth        int
}

type Option func(*Options)

func WithIndexedFrontier() Option {
	return func(o *Options) {
		o.IndexedFrontier = true
	}
}

// WithMaxDepth batas jumlah edge per path yang dieksplor GeoWeightedSearch. Nilai negatif = tanpa batas.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		if depth < 0 {
			depth = -1
		}
		o.MaxDepth = depth
	}
}

func DefaultOptions() Options {
	return Options{
		IndexedFrontier: false,
		MaxDepth:        -1,
	}
}

// RouteAlgorithm shortest path di atas satu graph snapshot. Read-only terhadap graph,
// jadi aman dipakai concurrent selama graph tidak diubah.
type RouteAlgorithm struct {
	g    *datastructure.Graph
	opts Options
}

func NewRouteAlgorithm(g *datastructure.Graph, opts ...Option) *RouteAlgorithm {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RouteAlgorithm{g: g, opts: cfg}
}

func (rt *RouteAlgorithm) Graph() *datastructure.Graph {
	return rt.g
}
