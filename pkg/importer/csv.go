package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/geo"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedRecord record punya cukup field tapi isinya tidak bisa di-parse (id bukan integer, koordinat invalid, dsb).
var ErrMalformedRecord = errors.New("importer: malformed record")

const edgeFields = 3

var nodeColumns = []string{"id", "cityname", "latitude", "longitude"}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

// ReadEdgesCSV baca edge dengan format `id,startPlaceName,endPlaceName` (baris pertama header).
// Baris dengan kurang dari 3 field di-skip. Nama endpoint dicocokkan exact (case-sensitive) ke CityName,
// node pertama yang cocok yang dipakai. Endpoint yang tidak ketemu dibiarkan 0 dan edge tetap dikembalikan.
func ReadEdgesCSV(r io.Reader, nodes []datastructure.Node) ([]datastructure.Edge, error) {
	nameIdx := make(map[string]int64, len(nodes))
	for _, n := range nodes {
		if _, ok := nameIdx[n.CityName]; ok {
			continue
		}
		nameIdx[n.CityName] = n.ID
	}

	cr := newReader(r)
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []datastructure.Edge{}, nil
		}
		return nil, fmt.Errorf("importer: read edges header: %w", err)
	}

	edges := []datastructure.Edge{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: read edges: %w", err)
		}
		if len(record) < edgeFields {
			continue
		}

		line, _ := cr.FieldPos(0)
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: edge id %q", ErrMalformedRecord, line, record[0])
		}

		edges = append(edges, datastructure.Edge{
			ID:          id,
			StartNodeID: nameIdx[record[1]],
			EndNodeID:   nameIdx[record[2]],
		})
	}
	return edges, nil
}

// ReadNodesCSV baca node dengan header `Id,CityName,Latitude,Longitude`. Urutan kolom bebas, nama kolom case-insensitive.
func ReadNodesCSV(r io.Reader) ([]datastructure.Node, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []datastructure.Node{}, nil
		}
		return nil, fmt.Errorf("importer: read nodes header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range nodeColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("%w: nodes header missing column %q", ErrMalformedRecord, c)
		}
	}

	validate := validator.New()
	nodes := []datastructure.Node{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: read nodes: %w", err)
		}
		if len(record) < len(header) {
			continue
		}
		line, _ := cr.FieldPos(0)

		node, err := parseNode(record, colIdx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		if err := validate.Struct(node); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		if !geo.ValidCoordinate(node.Lat, node.Lon) {
			return nil, fmt.Errorf("%w: line %d: invalid coordinate (%v, %v)", ErrMalformedRecord, line, node.Lat, node.Lon)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func parseNode(record []string, colIdx map[string]int) (datastructure.Node, error) {
	field := func(c string) string {
		return strings.TrimSpace(record[colIdx[c]])
	}

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return datastructure.Node{}, fmt.Errorf("node id %q", field("id"))
	}
	lat, err := strconv.ParseFloat(field("latitude"), 64)
	if err != nil {
		return datastructure.Node{}, fmt.Errorf("latitude %q", field("latitude"))
	}
	lon, err := strconv.ParseFloat(field("longitude"), 64)
	if err != nil {
		return datastructure.Node{}, fmt.Errorf("longitude %q", field("longitude"))
	}

	return datastructure.Node{
		ID:       id,
		CityName: field("cityname"),
		Lat:      lat,
		Lon:      lon,
	}, nil
}
