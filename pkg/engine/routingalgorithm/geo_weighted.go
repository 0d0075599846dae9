package routingalgorithm

import (
	"context"
	"fmt"
	"slices"

	"lintang/cityroute/pkg/datastructure"
)

// GeoWeightedSearch jarak minimum (km) dari from ke to dengan DFS exhaustive, bobot edge = haversine distance.
// Cycle dihindari per path (bukan global visited), jadi node yang sama bisa dikunjungi lewat cabang berbeda.
// Worst case eksponensial; batasi dengan ctx deadline atau WithMaxDepth untuk graph besar.
// Return Unreachable kalau target tidak pernah tercapai.
func (rt *RouteAlgorithm) GeoWeightedSearch(ctx context.Context, from, to int64) (float64, error) {
	if !rt.g.HasNode(from) {
		return Unreachable, fmt.Errorf("%w: source id %d", ErrNodeNotFound, from)
	}
	if !rt.g.HasNode(to) {
		return Unreachable, fmt.Errorf("%w: target id %d", ErrNodeNotFound, to)
	}

	best := Unreachable
	if err := rt.geoDFS(ctx, from, to, 0, make([]int64, 0), &best); err != nil {
		return Unreachable, err
	}
	return best, nil
}

func (rt *RouteAlgorithm) geoDFS(ctx context.Context, curr, target int64, currDist float64, onPath []int64, best *float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if curr == target {
		*best = min(*best, currDist)
		return nil
	}

	if rt.opts.MaxDepth >= 0 && len(onPath) >= rt.opts.MaxDepth {
		return nil
	}

	onPath = append(onPath, curr)

	edges, _ := rt.g.OutEdges(curr)
	for _, e := range edges {
		next := e.EndNodeID
		if !rt.g.HasNode(next) || slices.Contains(onPath, next) {
			continue
		}

		err := rt.geoDFS(ctx, next, target, currDist+datastructure.GeoWeight(rt.g, e), onPath, best)
		if err != nil {
			return err
		}
	}
	return nil
}
