package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"lintang/cityroute/pkg/config"
	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/engine/routingalgorithm"
	"lintang/cityroute/pkg/geo"
	"lintang/cityroute/pkg/importer"
	"lintang/cityroute/pkg/kv"
	"lintang/cityroute/pkg/server"
	"lintang/cityroute/pkg/snap"

	"github.com/go-playground/validator/v10"
)

// KVDB node/edge provider. Snapshot harus konsisten selama satu query.
type KVDB interface {
	LoadSnapshot() ([]datastructure.Node, []datastructure.Edge, error)
	GetNodeByID(id int64) (datastructure.Node, error)
	GetAllNodes() ([]datastructure.Node, error)
	GetAllEdges() ([]datastructure.Edge, error)
	InsertNode(n datastructure.Node) error
	UpdateNode(n datastructure.Node) error
	DeleteNode(id int64) error
	SaveNodes(nodes []datastructure.Node) error
	SaveEdges(edges []datastructure.Edge) error
	NodeIDsNear(lat, lon, searchRadiusKm float64) ([]int64, error)
}

// PathResult hasil shortest path (mode hop count).
type PathResult struct {
	Path     []datastructure.Node
	Hops     int
	Polyline string
	Found    bool
}

// DistanceResult hasil minimum distance (mode geo weighted), Distance dalam km.
type DistanceResult struct {
	Distance float64
	Found    bool
}

// RoutingService setiap query load snapshot node & edge, build graph baru, lalu jalankan search.
// Tidak ada state graph yang disimpan antar query.
type RoutingService struct {
	kv       KVDB
	log      *slog.Logger
	cfg      config.SearchConfig
	validate *validator.Validate
}

func NewRoutingService(kvDB KVDB, log *slog.Logger, cfg config.SearchConfig) *RoutingService {
	return &RoutingService{
		kv:       kvDB,
		log:      log.With("component", "routing_service"),
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (uc *RoutingService) routeOptions() []routingalgorithm.Option {
	opts := []routingalgorithm.Option{routingalgorithm.WithMaxDepth(uc.cfg.MaxDepth)}
	if uc.cfg.IndexedFrontier {
		opts = append(opts, routingalgorithm.WithIndexedFrontier())
	}
	return opts
}

func (uc *RoutingService) loadGraph() (*datastructure.Graph, error) {
	nodes, edges, err := uc.kv.LoadSnapshot()
	if err != nil {
		uc.log.Error("load snapshot", "error", err)
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	return datastructure.BuildGraph(nodes, edges), nil
}

func validNodeID(id int64) bool {
	return id > 0
}

// ShortestPath path dengan jumlah edge paling sedikit dari node id from ke node id to.
func (uc *RoutingService) ShortestPath(ctx context.Context, from, to int64) (PathResult, error) {
	if !validNodeID(from) || !validNodeID(to) {
		return PathResult{}, server.WrapErrorf(nil, server.ErrBadParamInput, "node id must be a positive integer")
	}
	g, err := uc.loadGraph()
	if err != nil {
		return PathResult{}, err
	}

	rt := routingalgorithm.NewRouteAlgorithm(g, uc.routeOptions()...)
	path, found, err := rt.HopCountSearch(from, to)
	if err != nil {
		return PathResult{}, uc.searchError(err)
	}
	uc.log.DebugContext(ctx, "hop count search", "from", from, "to", to, "found", found, "path_len", len(path))
	return newPathResult(path, found), nil
}

// ShortestPathByName sama dengan ShortestPath, source & target dicari dari nama tempat (case-insensitive).
func (uc *RoutingService) ShortestPathByName(ctx context.Context, from, to string) (PathResult, error) {
	if from == "" || to == "" {
		return PathResult{}, server.WrapErrorf(nil, server.ErrBadParamInput, "start and end place names are required")
	}
	g, err := uc.loadGraph()
	if err != nil {
		return PathResult{}, err
	}

	rt := routingalgorithm.NewRouteAlgorithm(g, uc.routeOptions()...)
	path, found, err := rt.HopCountSearchByName(from, to)
	if err != nil {
		return PathResult{}, uc.searchError(err)
	}
	uc.log.DebugContext(ctx, "hop count search by name", "from", from, "to", to, "found", found)
	return newPathResult(path, found), nil
}

// MinimumDistance jarak minimum (km) dari node from ke node to, bobot edge = haversine distance.
// Search dibatasi cfg.GeoTimeout kalau diset.
func (uc *RoutingService) MinimumDistance(ctx context.Context, from, to int64) (DistanceResult, error) {
	if !validNodeID(from) || !validNodeID(to) {
		return DistanceResult{}, server.WrapErrorf(nil, server.ErrBadParamInput, "node id must be a positive integer")
	}
	g, err := uc.loadGraph()
	if err != nil {
		return DistanceResult{}, err
	}

	if uc.cfg.GeoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.GeoTimeout)
		defer cancel()
	}

	start := time.Now()
	rt := routingalgorithm.NewRouteAlgorithm(g, uc.routeOptions()...)
	dist, err := rt.GeoWeightedSearch(ctx, from, to)
	if err != nil {
		return DistanceResult{}, uc.searchError(err)
	}

	found := dist != routingalgorithm.Unreachable
	uc.log.DebugContext(ctx, "geo weighted search", "from", from, "to", to, "found", found, "took", time.Since(start))
	return DistanceResult{Distance: dist, Found: found}, nil
}

// NearestNode node tersimpan yang paling dekat dengan (lat, lon).
func (uc *RoutingService) NearestNode(ctx context.Context, lat, lon float64) (datastructure.Node, float64, error) {
	if !geo.ValidCoordinate(lat, lon) {
		return datastructure.Node{}, 0, server.WrapErrorf(nil, server.ErrBadParamInput, "invalid coordinate (%v, %v)", lat, lon)
	}
	g, err := uc.loadGraph()
	if err != nil {
		return datastructure.Node{}, 0, err
	}
	return uc.snapToNode(ctx, g, lat, lon)
}

// ShortestPathByCoordinates snap kedua titik ke node terdekat lalu cari shortest path (mode hop count).
func (uc *RoutingService) ShortestPathByCoordinates(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (PathResult, error) {
	if !geo.ValidCoordinate(srcLat, srcLon) || !geo.ValidCoordinate(dstLat, dstLon) {
		return PathResult{}, server.WrapErrorf(nil, server.ErrBadParamInput, "invalid coordinate")
	}
	g, err := uc.loadGraph()
	if err != nil {
		return PathResult{}, err
	}

	src, _, err := uc.snapToNode(ctx, g, srcLat, srcLon)
	if err != nil {
		return PathResult{}, err
	}
	dst, _, err := uc.snapToNode(ctx, g, dstLat, dstLon)
	if err != nil {
		return PathResult{}, err
	}

	rt := routingalgorithm.NewRouteAlgorithm(g, uc.routeOptions()...)
	path, found, err := rt.HopCountSearch(src.ID, dst.ID)
	if err != nil {
		return PathResult{}, uc.searchError(err)
	}
	uc.log.DebugContext(ctx, "hop count search by coordinate", "from", src.ID, "to", dst.ID, "found", found)
	return newPathResult(path, found), nil
}

// snapToNode kandidat diambil dari h3 cell di sekitar titik, kalau kosong pakai semua node di snapshot.
func (uc *RoutingService) snapToNode(ctx context.Context, g *datastructure.Graph, lat, lon float64) (datastructure.Node, float64, error) {
	candidates := []datastructure.Node{}
	ids, err := uc.kv.NodeIDsNear(lat, lon, uc.cfg.SnapRadiusKm)
	if err != nil {
		uc.log.WarnContext(ctx, "h3 lookup failed, falling back to full scan", "error", err)
	}
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		candidates = g.Nodes()
	}

	n, dist, ok := snap.NewNodeSnapper(candidates).Nearest(lat, lon)
	if !ok {
		return datastructure.Node{}, 0, server.WrapErrorf(nil, server.ErrNotFound, "no node near (%v, %v)", lat, lon)
	}
	return n, dist, nil
}

func (uc *RoutingService) searchError(err error) error {
	switch {
	case errors.Is(err, routingalgorithm.ErrNodeNotFound):
		return server.WrapErrorf(err, server.ErrNotFound, "node not found")
	case errors.Is(err, routingalgorithm.ErrNameNotFound):
		return server.WrapErrorf(err, server.ErrBadParamInput, "one or both city names are invalid or do not exist")
	case errors.Is(err, context.DeadlineExceeded):
		return server.WrapErrorf(err, server.ErrTimeout, "search exceeded its deadline")
	case errors.Is(err, context.Canceled):
		return server.WrapErrorf(err, server.ErrTimeout, "search cancelled")
	default:
		uc.log.Error("search", "error", err)
		return server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
}

func newPathResult(path []datastructure.Node, found bool) PathResult {
	if !found {
		return PathResult{Path: []datastructure.Node{}, Found: false}
	}
	return PathResult{
		Path:     path,
		Hops:     len(path) - 1,
		Polyline: datastructure.RenderPath(path),
		Found:    true,
	}
}

// ListNodes semua node tersimpan, urut id.
func (uc *RoutingService) ListNodes(ctx context.Context) ([]datastructure.Node, error) {
	nodes, err := uc.kv.GetAllNodes()
	if err != nil {
		return nil, uc.storeError(ctx, err)
	}
	return nodes, nil
}

// GetNode ambil node berdasarkan id.
func (uc *RoutingService) GetNode(ctx context.Context, id int64) (datastructure.Node, error) {
	if !validNodeID(id) {
		return datastructure.Node{}, server.WrapErrorf(nil, server.ErrBadParamInput, "node id must be a positive integer")
	}
	n, err := uc.kv.GetNodeByID(id)
	if err != nil {
		return datastructure.Node{}, uc.storeError(ctx, err)
	}
	return n, nil
}

// CreateNode simpan node baru. id yang sudah ada -> ErrConflict.
func (uc *RoutingService) CreateNode(ctx context.Context, n datastructure.Node) (datastructure.Node, error) {
	if err := uc.validateNode(n); err != nil {
		return datastructure.Node{}, err
	}
	if err := uc.kv.InsertNode(n); err != nil {
		return datastructure.Node{}, uc.storeError(ctx, err)
	}
	uc.log.InfoContext(ctx, "node created", "node_id", n.ID, "city_name", n.CityName)
	return n, nil
}

// UpdateNode update nama/koordinat node yang sudah ada.
func (uc *RoutingService) UpdateNode(ctx context.Context, n datastructure.Node) (datastructure.Node, error) {
	if err := uc.validateNode(n); err != nil {
		return datastructure.Node{}, err
	}
	if err := uc.kv.UpdateNode(n); err != nil {
		return datastructure.Node{}, uc.storeError(ctx, err)
	}
	uc.log.InfoContext(ctx, "node updated", "node_id", n.ID)
	return n, nil
}

// DeleteNode hapus node. edge yang merujuk node ini tidak ikut dihapus.
func (uc *RoutingService) DeleteNode(ctx context.Context, id int64) error {
	if !validNodeID(id) {
		return server.WrapErrorf(nil, server.ErrBadParamInput, "node id must be a positive integer")
	}
	if err := uc.kv.DeleteNode(id); err != nil {
		return uc.storeError(ctx, err)
	}
	uc.log.InfoContext(ctx, "node deleted", "node_id", id)
	return nil
}

// ListEdges semua edge tersimpan, urut id.
func (uc *RoutingService) ListEdges(ctx context.Context) ([]datastructure.Edge, error) {
	edges, err := uc.kv.GetAllEdges()
	if err != nil {
		return nil, uc.storeError(ctx, err)
	}
	return edges, nil
}

// ImportNodesCSV parse CSV node lalu simpan (upsert).
func (uc *RoutingService) ImportNodesCSV(ctx context.Context, r io.Reader) ([]datastructure.Node, error) {
	nodes, err := importer.ReadNodesCSV(r)
	if err != nil {
		return nil, uc.importError(err)
	}
	if err := uc.kv.SaveNodes(nodes); err != nil {
		return nil, uc.storeError(ctx, err)
	}
	uc.log.InfoContext(ctx, "nodes imported", "count", len(nodes))
	return nodes, nil
}

// ImportEdgesCSV parse CSV edge, nama endpoint di-resolve ke node yang sudah tersimpan, lalu simpan (upsert).
func (uc *RoutingService) ImportEdgesCSV(ctx context.Context, r io.Reader) ([]datastructure.Edge, error) {
	nodes, err := uc.kv.GetAllNodes()
	if err != nil {
		return nil, uc.storeError(ctx, err)
	}
	edges, err := importer.ReadEdgesCSV(r, nodes)
	if err != nil {
		return nil, uc.importError(err)
	}
	if err := uc.kv.SaveEdges(edges); err != nil {
		return nil, uc.storeError(ctx, err)
	}

	unresolved := 0
	for _, e := range edges {
		if !e.Resolved() {
			unresolved++
		}
	}
	uc.log.InfoContext(ctx, "edges imported", "count", len(edges), "unresolved", unresolved)
	return edges, nil
}

func (uc *RoutingService) validateNode(n datastructure.Node) error {
	if err := uc.validate.Struct(n); err != nil {
		return server.WrapErrorf(err, server.ErrBadParamInput, "invalid node: %v", err)
	}
	if !geo.ValidCoordinate(n.Lat, n.Lon) {
		return server.WrapErrorf(nil, server.ErrBadParamInput, "invalid coordinate (%v, %v)", n.Lat, n.Lon)
	}
	return nil
}

func (uc *RoutingService) importError(err error) error {
	if errors.Is(err, importer.ErrMalformedRecord) {
		return server.WrapErrorf(err, server.ErrBadParamInput, "%v", err)
	}
	return server.WrapErrorf(err, server.ErrBadParamInput, "unreadable csv: %v", err)
}

func (uc *RoutingService) storeError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, kv.ErrNodeNotFound):
		return server.WrapErrorf(err, server.ErrNotFound, "node not found")
	case errors.Is(err, kv.ErrEdgeNotFound):
		return server.WrapErrorf(err, server.ErrNotFound, "edge not found")
	case errors.Is(err, kv.ErrNodeExists):
		return server.WrapErrorf(err, server.ErrConflict, "node already exists")
	default:
		uc.log.ErrorContext(ctx, "store", "error", err)
		return server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
}
