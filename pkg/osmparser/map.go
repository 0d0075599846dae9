package osmparser

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/geo"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

var ValidPlaceType = map[string]bool{
	"city":          true,
	"town":          true,
	"village":       true,
	"hamlet":        true,
	"suburb":        true,
	"quarter":       true,
	"neighbourhood": true,
	"municipality":  true,
	"locality":      true,
}

// ReadPlaces ambil semua node OSM (format XML) dengan tag place yang valid & punya nama.
func ReadPlaces(ctx context.Context, r io.Reader) ([]datastructure.Node, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()
	return scanPlaces(scanner)
}

// ReadPlacesPBF sama seperti ReadPlaces tapi untuk file .osm.pbf.
func ReadPlacesPBF(ctx context.Context, r io.Reader) ([]datastructure.Node, error) {
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	return scanPlaces(scanner)
}

func scanPlaces(scanner osm.Scanner) ([]datastructure.Node, error) {
	nodes := []datastructure.Node{}
	seen := make(map[osm.NodeID]bool)
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok || seen[n.ID] {
			continue
		}
		node, ok := placeNode(n)
		if !ok {
			continue
		}
		seen[n.ID] = true
		nodes = append(nodes, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("osmparser: scan places: %w", err)
	}
	return nodes, nil
}

func placeNode(n *osm.Node) (datastructure.Node, bool) {
	if n.ID <= 0 || !ValidPlaceType[n.Tags.Find("place")] {
		return datastructure.Node{}, false
	}
	name := n.Tags.Find("name")
	if name == "" || !geo.ValidCoordinate(n.Lat, n.Lon) {
		return datastructure.Node{}, false
	}
	return datastructure.Node{
		ID:       int64(n.ID),
		CityName: name,
		Lat:      n.Lat,
		Lon:      n.Lon,
	}, true
}
