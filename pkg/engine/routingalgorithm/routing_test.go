package routingalgorithm_test

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/engine/routingalgorithm"
	"lintang/cityroute/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

func javaNodes() []datastructure.Node {
	return []datastructure.Node{
		{ID: 1, CityName: "Yogyakarta", Lat: -7.7956, Lon: 110.3695},
		{ID: 2, CityName: "Klaten", Lat: -7.7058, Lon: 110.6063},
		{ID: 3, CityName: "Surakarta", Lat: -7.5755, Lon: 110.8243},
		{ID: 4, CityName: "Magelang", Lat: -7.4797, Lon: 110.2177},
		{ID: 5, CityName: "Semarang", Lat: -6.9667, Lon: 110.4167},
	}
}

func chainGraph() *datastructure.Graph {
	edges := []datastructure.Edge{
		{ID: 1, StartNodeID: 1, EndNodeID: 2},
		{ID: 2, StartNodeID: 2, EndNodeID: 3},
	}
	return datastructure.BuildGraph(javaNodes()[:3], edges)
}

func pathIDs(p []datastructure.Node) []int64 {
	ids := make([]int64, 0, len(p))
	for _, n := range p {
		ids = append(ids, n.ID)
	}
	return ids
}

func frontiers() map[string][]routingalgorithm.Option {
	return map[string][]routingalgorithm.Option{
		"linear":  nil,
		"indexed": {routingalgorithm.WithIndexedFrontier()},
	}
}

func TestHopCountSearch(t *testing.T) {
	for name, opts := range frontiers() {
		t.Run(name, func(t *testing.T) {
			t.Run("chain", func(t *testing.T) {
				rt := routingalgorithm.NewRouteAlgorithm(chainGraph(), opts...)
				p, found, err := rt.HopCountSearch(1, 3)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, []int64{1, 2, 3}, pathIDs(p))
			})

			t.Run("source equals target", func(t *testing.T) {
				rt := routingalgorithm.NewRouteAlgorithm(chainGraph(), opts...)
				p, found, err := rt.HopCountSearch(2, 2)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, []int64{2}, pathIDs(p))
			})

			t.Run("directed edges are not walked backwards", func(t *testing.T) {
				rt := routingalgorithm.NewRouteAlgorithm(chainGraph(), opts...)
				p, found, err := rt.HopCountSearch(3, 1)
				require.NoError(t, err)
				assert.False(t, found)
				assert.Empty(t, p)
			})

			t.Run("no edges", func(t *testing.T) {
				g := datastructure.BuildGraph(javaNodes()[:2], nil)
				rt := routingalgorithm.NewRouteAlgorithm(g, opts...)
				_, found, err := rt.HopCountSearch(1, 2)
				require.NoError(t, err)
				assert.False(t, found)
			})

			t.Run("prefers fewer hops over shorter distance", func(t *testing.T) {
				edges := []datastructure.Edge{
					{ID: 1, StartNodeID: 1, EndNodeID: 2},
					{ID: 2, StartNodeID: 2, EndNodeID: 3},
					{ID: 3, StartNodeID: 3, EndNodeID: 5},
					{ID: 4, StartNodeID: 1, EndNodeID: 4},
					{ID: 5, StartNodeID: 4, EndNodeID: 5},
				}
				rt := routingalgorithm.NewRouteAlgorithm(datastructure.BuildGraph(javaNodes(), edges), opts...)
				p, found, err := rt.HopCountSearch(1, 5)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, []int64{1, 4, 5}, pathIDs(p))
			})

			t.Run("dangling edge is ignored", func(t *testing.T) {
				edges := []datastructure.Edge{
					{ID: 1, StartNodeID: 1, EndNodeID: 99},
					{ID: 2, StartNodeID: 1, EndNodeID: 0},
					{ID: 3, StartNodeID: 1, EndNodeID: 2},
				}
				rt := routingalgorithm.NewRouteAlgorithm(datastructure.BuildGraph(javaNodes()[:2], edges), opts...)
				p, found, err := rt.HopCountSearch(1, 2)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, []int64{1, 2}, pathIDs(p))
			})

			t.Run("unknown id", func(t *testing.T) {
				rt := routingalgorithm.NewRouteAlgorithm(chainGraph(), opts...)
				_, _, err := rt.HopCountSearch(1, 42)
				assert.ErrorIs(t, err, routingalgorithm.ErrNodeNotFound)
				_, _, err = rt.HopCountSearch(42, 1)
				assert.ErrorIs(t, err, routingalgorithm.ErrNodeNotFound)
			})
		})
	}
}

func TestSearchIdempotent(t *testing.T) {
	type searchResult struct {
		path     []datastructure.Node
		found    bool
		distance float64
	}

	tests := []struct {
		name   string
		opts   []routingalgorithm.Option
		search func(rt *routingalgorithm.RouteAlgorithm) (searchResult, error)
	}{
		{
			name: "hop count linear",
			search: func(rt *routingalgorithm.RouteAlgorithm) (searchResult, error) {
				p, found, err := rt.HopCountSearch(1, 5)
				return searchResult{path: p, found: found}, err
			},
		},
		{
			name: "hop count indexed",
			opts: []routingalgorithm.Option{routingalgorithm.WithIndexedFrontier()},
			search: func(rt *routingalgorithm.RouteAlgorithm) (searchResult, error) {
				p, found, err := rt.HopCountSearch(1, 5)
				return searchResult{path: p, found: found}, err
			},
		},
		{
			name: "hop count by name linear",
			search: func(rt *routingalgorithm.RouteAlgorithm) (searchResult, error) {
				p, found, err := rt.HopCountSearchByName("Yogyakarta", "Semarang")
				return searchResult{path: p, found: found}, err
			},
		},
		{
			name: "hop count by name indexed",
			opts: []routingalgorithm.Option{routingalgorithm.WithIndexedFrontier()},
			search: func(rt *routingalgorithm.RouteAlgorithm) (searchResult, error) {
				p, found, err := rt.HopCountSearchByName("Yogyakarta", "Semarang")
				return searchResult{path: p, found: found}, err
			},
		},
		{
			name: "geo weighted",
			search: func(rt *routingalgorithm.RouteAlgorithm) (searchResult, error) {
				d, err := rt.GeoWeightedSearch(context.Background(), 1, 5)
				return searchResult{distance: d, found: d != routingalgorithm.Unreachable}, err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := javaNodes()
			edges := []datastructure.Edge{
				{ID: 1, StartNodeID: 1, EndNodeID: 2},
				{ID: 2, StartNodeID: 2, EndNodeID: 3},
				{ID: 3, StartNodeID: 3, EndNodeID: 5},
				{ID: 4, StartNodeID: 1, EndNodeID: 4},
				{ID: 5, StartNodeID: 4, EndNodeID: 5},
				{ID: 6, StartNodeID: 5, EndNodeID: 1},
			}
			nodesBefore := append([]datastructure.Node(nil), nodes...)
			edgesBefore := append([]datastructure.Edge(nil), edges...)

			rt := routingalgorithm.NewRouteAlgorithm(datastructure.BuildGraph(nodes, edges), tt.opts...)
			first, err := tt.search(rt)
			require.NoError(t, err)
			second, err := tt.search(rt)
			require.NoError(t, err)

			assert.True(t, first.found)
			assert.Equal(t, first, second)
			assert.Equal(t, nodesBefore, nodes)
			assert.Equal(t, edgesBefore, edges)
		})
	}
}

func TestHopCountSearchByName(t *testing.T) {
	rt := routingalgorithm.NewRouteAlgorithm(chainGraph())

	p, found, err := rt.HopCountSearchByName("yogyakarta", "SURAKARTA")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int64{1, 2, 3}, pathIDs(p))

	byID, _, err := rt.HopCountSearch(1, 3)
	require.NoError(t, err)
	assert.Equal(t, byID, p)

	_, _, err = rt.HopCountSearchByName("Yogyakarta", "Jakarta")
	assert.ErrorIs(t, err, routingalgorithm.ErrNameNotFound)
	_, _, err = rt.HopCountSearchByName("", "Klaten")
	assert.ErrorIs(t, err, routingalgorithm.ErrNameNotFound)
}

func TestGeoWeightedSearch(t *testing.T) {
	nodes := javaNodes()
	hav := func(a, b int) float64 {
		return geo.HaversineDistance(nodes[a].Lat, nodes[a].Lon, nodes[b].Lat, nodes[b].Lon)
	}

	t.Run("chain sums haversine distances", func(t *testing.T) {
		rt := routingalgorithm.NewRouteAlgorithm(chainGraph())
		d, err := rt.GeoWeightedSearch(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.InDelta(t, hav(0, 1)+hav(1, 2), d, 1e-9)
		assert.NotEqual(t, 2.0, d)
	})

	t.Run("source equals target", func(t *testing.T) {
		rt := routingalgorithm.NewRouteAlgorithm(chainGraph())
		d, err := rt.GeoWeightedSearch(context.Background(), 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
	})

	t.Run("unreachable", func(t *testing.T) {
		rt := routingalgorithm.NewRouteAlgorithm(chainGraph())
		d, err := rt.GeoWeightedSearch(context.Background(), 3, 1)
		require.NoError(t, err)
		assert.Equal(t, routingalgorithm.Unreachable, d)
	})

	t.Run("cycle terminates and picks shorter branch", func(t *testing.T) {
		edges := []datastructure.Edge{
			{ID: 1, StartNodeID: 1, EndNodeID: 2},
			{ID: 2, StartNodeID: 2, EndNodeID: 1},
			{ID: 3, StartNodeID: 2, EndNodeID: 3},
			{ID: 4, StartNodeID: 1, EndNodeID: 4},
			{ID: 5, StartNodeID: 4, EndNodeID: 3},
			{ID: 6, StartNodeID: 3, EndNodeID: 2},
		}
		rt := routingalgorithm.NewRouteAlgorithm(datastructure.BuildGraph(nodes, edges))
		d, err := rt.GeoWeightedSearch(context.Background(), 1, 3)
		require.NoError(t, err)
		want := math.Min(hav(0, 1)+hav(1, 2), hav(0, 3)+hav(3, 2))
		assert.InDelta(t, want, d, 1e-9)
	})

	t.Run("max depth", func(t *testing.T) {
		rt := routingalgorithm.NewRouteAlgorithm(chainGraph(), routingalgorithm.WithMaxDepth(1))
		d, err := rt.GeoWeightedSearch(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, routingalgorithm.Unreachable, d)

		rt = routingalgorithm.NewRouteAlgorithm(chainGraph(), routingalgorithm.WithMaxDepth(2))
		d, err = rt.GeoWeightedSearch(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.InDelta(t, hav(0, 1)+hav(1, 2), d, 1e-9)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rt := routingalgorithm.NewRouteAlgorithm(chainGraph())
		d, err := rt.GeoWeightedSearch(ctx, 1, 3)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, routingalgorithm.Unreachable, d)
	})

	t.Run("unknown id", func(t *testing.T) {
		rt := routingalgorithm.NewRouteAlgorithm(chainGraph())
		_, err := rt.GeoWeightedSearch(context.Background(), 7, 1)
		assert.ErrorIs(t, err, routingalgorithm.ErrNodeNotFound)
	})
}

func TestReconstructPath(t *testing.T) {
	g := chainGraph()

	p := routingalgorithm.ReconstructPath(g, map[int64]int64{2: 1, 3: 2}, 1, 3)
	assert.Equal(t, []int64{1, 2, 3}, pathIDs(p))

	p = routingalgorithm.ReconstructPath(g, map[int64]int64{}, 1, 1)
	assert.Equal(t, []int64{1}, pathIDs(p))

	p = routingalgorithm.ReconstructPath(g, map[int64]int64{2: 1}, 1, 3)
	assert.Empty(t, p)

	// predecessor cycle must not loop forever
	p = routingalgorithm.ReconstructPath(g, map[int64]int64{2: 3, 3: 2}, 1, 3)
	assert.LessOrEqual(t, len(p), 3)
}

// randomGraph graph acak kecil (tanpa self loop) supaya DFS exhaustive tetap cepat.
func randomGraph(seed int64, numNodes, numEdges int) ([]datastructure.Node, []datastructure.Edge) {
	rnd := rand.New(rand.NewSource(seed))
	nodes := make([]datastructure.Node, 0, numNodes)
	for i := 1; i <= numNodes; i++ {
		nodes = append(nodes, datastructure.Node{
			ID:       int64(i),
			CityName: "city",
			Lat:      -8 + rnd.Float64()*2,
			Lon:      110 + rnd.Float64()*2,
		})
	}
	edges := make([]datastructure.Edge, 0, numEdges)
	for i := 1; len(edges) < numEdges; i++ {
		u := int64(rnd.Intn(numNodes) + 1)
		v := int64(rnd.Intn(numNodes) + 1)
		if u == v {
			continue
		}
		edges = append(edges, datastructure.Edge{ID: int64(i), StartNodeID: u, EndNodeID: v})
	}
	return nodes, edges
}

func TestSearchAgainstGonumDijkstra(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		nodes, edges := randomGraph(seed, 8, 14)
		g := datastructure.BuildGraph(nodes, edges)

		hopOracle := simple.NewWeightedDirectedGraph(0, math.Inf(1))
		geoOracle := simple.NewWeightedDirectedGraph(0, math.Inf(1))
		for _, n := range nodes {
			hopOracle.AddNode(simple.Node(n.ID))
			geoOracle.AddNode(simple.Node(n.ID))
		}
		for _, e := range edges {
			u, v := simple.Node(e.StartNodeID), simple.Node(e.EndNodeID)
			hopOracle.SetWeightedEdge(hopOracle.NewWeightedEdge(u, v, 1))
			geoOracle.SetWeightedEdge(geoOracle.NewWeightedEdge(u, v, datastructure.GeoWeight(g, e)))
		}

		linear := routingalgorithm.NewRouteAlgorithm(g)
		indexed := routingalgorithm.NewRouteAlgorithm(g, routingalgorithm.WithIndexedFrontier())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		for _, src := range nodes {
			hopShortest := path.DijkstraFrom(simple.Node(src.ID), hopOracle)
			geoShortest := path.DijkstraFrom(simple.Node(src.ID), geoOracle)

			for _, dst := range nodes {
				wantHops := hopShortest.WeightTo(dst.ID)

				for _, rt := range []*routingalgorithm.RouteAlgorithm{linear, indexed} {
					p, found, err := rt.HopCountSearch(src.ID, dst.ID)
					require.NoError(t, err)
					if math.IsInf(wantHops, 1) {
						assert.False(t, found, "seed %d %d->%d", seed, src.ID, dst.ID)
						continue
					}
					require.True(t, found, "seed %d %d->%d", seed, src.ID, dst.ID)
					assert.Equal(t, int(wantHops), len(p)-1)
					assert.Equal(t, src.ID, p[0].ID)
					assert.Equal(t, dst.ID, p[len(p)-1].ID)
					for i := 0; i+1 < len(p); i++ {
						assert.True(t, hopOracle.HasEdgeFromTo(p[i].ID, p[i+1].ID))
					}
				}

				d, err := linear.GeoWeightedSearch(ctx, src.ID, dst.ID)
				require.NoError(t, err)
				wantDist := geoShortest.WeightTo(dst.ID)
				if math.IsInf(wantDist, 1) {
					assert.Equal(t, routingalgorithm.Unreachable, d)
					continue
				}
				assert.InDelta(t, wantDist, d, 1e-6, "seed %d %d->%d", seed, src.ID, dst.ID)
			}
		}
		cancel()
	}
}
