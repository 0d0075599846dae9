package routingalgorithm

import (
	"fmt"

	"lintang/cityroute/pkg/datastructure"
)

// HopCountSearch shortest path dari node from ke node to dengan bobot 1 per edge.
// found false kalau target tidak reachable dari source.
func (rt *RouteAlgorithm) HopCountSearch(from, to int64) ([]datastructure.Node, bool, error) {
	if !rt.g.HasNode(from) {
		return nil, false, fmt.Errorf("%w: source id %d", ErrNodeNotFound, from)
	}
	if !rt.g.HasNode(to) {
		return nil, false, fmt.Errorf("%w: target id %d", ErrNodeNotFound, to)
	}

	if rt.opts.IndexedFrontier {
		path, found := rt.hopCountHeap(from, to)
		return path, found, nil
	}
	path, found := rt.hopCountLinear(from, to)
	return path, found, nil
}

// HopCountSearchByName sama dengan HopCountSearch tapi source & target dicari dari nama tempat (case-insensitive).
func (rt *RouteAlgorithm) HopCountSearchByName(from, to string) ([]datastructure.Node, bool, error) {
	src, ok := rt.g.NodeByName(from)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrNameNotFound, from)
	}
	dst, ok := rt.g.NodeByName(to)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrNameNotFound, to)
	}
	return rt.HopCountSearch(src.ID, dst.ID)
}

func (rt *RouteAlgorithm) initSearchState(from int64) (map[int64]float64, map[int64]int64, []int64) {
	nodes := rt.g.Nodes()
	dist := make(map[int64]float64, len(nodes))
	prev := make(map[int64]int64, len(nodes))
	unvisited := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := dist[n.ID]; ok {
			continue
		}
		dist[n.ID] = Unreachable
		unvisited = append(unvisited, n.ID)
	}
	dist[from] = 0
	return dist, prev, unvisited
}

// hopCountLinear frontier dipilih dengan linear scan. O(V^2 + E).
func (rt *RouteAlgorithm) hopCountLinear(from, to int64) ([]datastructure.Node, bool) {
	dist, prev, unvisited := rt.initSearchState(from)

	for len(unvisited) > 0 {
		minIdx := 0
		for i := 1; i < len(unvisited); i++ {
			if dist[unvisited[i]] < dist[unvisited[minIdx]] {
				minIdx = i
			}
		}
		curr := unvisited[minIdx]
		unvisited = append(unvisited[:minIdx], unvisited[minIdx+1:]...)

		if dist[curr] == Unreachable {
			// sisa frontier tidak reachable dari source
			return nil, false
		}
		if curr == to {
			return ReconstructPath(rt.g, prev, from, to), true
		}

		rt.relaxHop(curr, dist, prev, nil)
	}
	return nil, false
}

// hopCountHeap frontier pakai binary heap + decrease key. O((V + E) log V).
func (rt *RouteAlgorithm) hopCountHeap(from, to int64) ([]datastructure.Node, bool) {
	dist, prev, _ := rt.initSearchState(from)

	pq := datastructure.NewMinHeap[int64]()
	pq.Insert(datastructure.PriorityQueueNode[int64]{Rank: 0, Item: from})

	for pq.Size() > 0 {
		node, _ := pq.ExtractMin()
		curr := node.Item
		if curr == to {
			return ReconstructPath(rt.g, prev, from, to), true
		}

		rt.relaxHop(curr, dist, prev, pq)
	}
	return nil, false
}

func (rt *RouteAlgorithm) relaxHop(curr int64, dist map[int64]float64, prev map[int64]int64, pq *datastructure.MinHeap[int64]) {
	edges, _ := rt.g.OutEdges(curr)
	for _, e := range edges {
		next := e.EndNodeID
		nextDist, ok := dist[next]
		if !ok {
			// endpoint dangling / belum ter-resolve
			continue
		}

		alt := dist[curr] + datastructure.HopWeight(rt.g, e)
		if alt < nextDist {
			dist[next] = alt
			prev[next] = curr

			if pq == nil {
				continue
			}
			neighborNode := datastructure.PriorityQueueNode[int64]{Rank: alt, Item: next}
			if pq.Contains(next) {
				pq.DecreaseKey(neighborNode)
			} else {
				pq.Insert(neighborNode)
			}
		}
	}
}
