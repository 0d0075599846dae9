package snap

import (
	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/geo"

	"github.com/dhconnelly/rtreego"
)

const (
	tol = 0.0001
	// kandidat dari rtree (jarak euclidean lat/lon) yang dibandingkan ulang pakai haversine
	numCandidates = 8
)

type NodeRect struct {
	Location rtreego.Point
	Node     datastructure.Node
}

func (s *NodeRect) Bounds() rtreego.Rect {
	// rectangle dengan center s.Location dan panjang sisi 2 * tol
	return s.Location.ToRect(tol)
}

// NodeSnapper cari node terdekat dari titik sembarang.
type NodeSnapper struct {
	tree *rtreego.Rtree
	size int
}

func NewNodeSnapper(nodes []datastructure.Node) *NodeSnapper {
	tree := rtreego.NewTree(2, 25, 50) // 2 dimension, 25 min entries dan 50 max entries
	size := 0
	for _, n := range nodes {
		if !geo.ValidCoordinate(n.Lat, n.Lon) {
			continue
		}
		tree.Insert(&NodeRect{Location: rtreego.Point{n.Lat, n.Lon}, Node: n})
		size++
	}
	return &NodeSnapper{tree: tree, size: size}
}

func (s *NodeSnapper) Size() int {
	return s.size
}

// Nearest node dengan haversine distance paling kecil ke (lat, lon). Kalau jaraknya sama, id yang lebih kecil yang dipakai.
func (s *NodeSnapper) Nearest(lat, lon float64) (datastructure.Node, float64, bool) {
	if s.size == 0 {
		return datastructure.Node{}, 0, false
	}

	candidates := s.tree.NearestNeighbors(numCandidates, rtreego.Point{lat, lon})

	var (
		best     datastructure.Node
		bestDist = -1.0
	)
	for _, c := range candidates {
		nr, ok := c.(*NodeRect)
		if !ok || nr == nil {
			continue
		}
		d := geo.HaversineDistance(lat, lon, nr.Node.Lat, nr.Node.Lon)
		if bestDist < 0 || d < bestDist || (d == bestDist && nr.Node.ID < best.ID) {
			best = nr.Node
			bestDist = d
		}
	}
	if bestDist < 0 {
		return datastructure.Node{}, 0, false
	}
	return best, bestDist, true
}
