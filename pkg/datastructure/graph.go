package datastructure

import (
	"strings"

	"lintang/cityroute/pkg/geo"

	"github.com/twpayne/go-polyline"
)

// Node tempat (kota) dengan id unik, nama, dan koordinat dalam derajat.
type Node struct {
	ID       int64   `json:"id" validate:"required,gt=0"`
	CityName string  `json:"city_name" validate:"required"`
	Lat      float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Lon      float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Edge directed dari StartNodeID ke EndNodeID. 0 berarti endpoint belum ter-resolve.
type Edge struct {
	ID          int64 `json:"id"`
	StartNodeID int64 `json:"start_node_id"`
	EndNodeID   int64 `json:"end_node_id"`
}

func (e Edge) Resolved() bool {
	return e.StartNodeID != 0 && e.EndNodeID != 0
}

// Graph adjacency list yang dibangun ulang setiap query dari snapshot node & edge.
// Node tanpa outgoing edge tidak punya entry di adjacency.
type Graph struct {
	nodes     []Node
	nodeIdx   map[int64]int
	adjacency map[int64][]Edge
}

// BuildGraph O(V+E). Edge dengan endpoint yang tidak ada di nodes tetap disimpan apa adanya.
func BuildGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:     make([]Node, len(nodes)),
		nodeIdx:   make(map[int64]int, len(nodes)),
		adjacency: make(map[int64][]Edge),
	}
	copy(g.nodes, nodes)
	for i, n := range g.nodes {
		if _, ok := g.nodeIdx[n.ID]; ok {
			continue
		}
		g.nodeIdx[n.ID] = i
	}

	for _, e := range edges {
		g.adjacency[e.StartNodeID] = append(g.adjacency[e.StartNodeID], e)
	}
	return g
}

func (g *Graph) Nodes() []Node {
	return g.nodes
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) Node(id int64) (Node, bool) {
	idx, ok := g.nodeIdx[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

func (g *Graph) HasNode(id int64) bool {
	_, ok := g.nodeIdx[id]
	return ok
}

// OutEdges outgoing edges dari nodeID sesuai urutan input. ok false kalau node tidak punya entry di adjacency.
func (g *Graph) OutEdges(nodeID int64) ([]Edge, bool) {
	edges, ok := g.adjacency[nodeID]
	return edges, ok
}

// NodeByName case-insensitive exact match, node pertama yang cocok yang dipakai.
func (g *Graph) NodeByName(name string) (Node, bool) {
	for _, n := range g.nodes {
		if strings.EqualFold(n.CityName, name) {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeWeight kebijakan bobot edge untuk algoritma shortest path.
type EdgeWeight func(g *Graph, e Edge) float64

// HopWeight setiap edge berbobot 1.
func HopWeight(_ *Graph, _ Edge) float64 {
	return 1
}

// GeoWeight haversine distance (km) antara kedua endpoint edge.
func GeoWeight(g *Graph, e Edge) float64 {
	from, _ := g.Node(e.StartNodeID)
	to, _ := g.Node(e.EndNodeID)
	return geo.HaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
}

// RenderPath encode koordinat path jadi google polyline.
func RenderPath(path []Node) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
