package kv

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"

	"lintang/cityroute/pkg/concurrent"
	"lintang/cityroute/pkg/datastructure"

	"github.com/cockroachdb/pebble"
	"github.com/uber/h3-go/v4"
)

var (
	ErrNodeNotFound = errors.New("kv: node not found")
	ErrEdgeNotFound = errors.New("kv: edge not found")
	ErrNodeExists   = errors.New("kv: node already exists")
)

const (
	nodePrefix = "node/"
	edgePrefix = "edge/"
	h3Prefix   = "h3/"

	// resolusi 7 ~5 km2 per cell, cukup untuk node level kota.
	h3Resolution = 7
)

// KVDB penyimpanan node & edge di pebble. Value di-encode binary lalu dikompres zstd.
// Setiap node juga punya secondary key h3/<cell>/<id> untuk pencarian spasial.
type KVDB struct {
	db *pebble.DB
	mu sync.Mutex
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db: db}
}

func nodeKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", nodePrefix, id))
}

func edgeKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", edgePrefix, id))
}

func nodeCell(lat, lon float64) h3.Cell {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
}

func h3Key(cell h3.Cell, id int64) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", h3Prefix, cell.String(), id))
}

func cellPrefix(cell h3.Cell) []byte {
	return []byte(fmt.Sprintf("%s%s/", h3Prefix, cell.String()))
}

// keyUpperBound key terkecil yang lebih besar dari semua key dengan prefix ini.
func keyUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// lastByID buang record dengan id duplikat, yang terakhir yang dipakai (upsert).
func lastByID[T any](items []T, id func(T) int64) []T {
	last := make(map[int64]int, len(items))
	for i, it := range items {
		last[id(it)] = i
	}
	if len(last) == len(items) {
		return items
	}
	out := make([]T, 0, len(last))
	for i, it := range items {
		if last[id(it)] == i {
			out = append(out, it)
		}
	}
	return out
}

type encodedRecord struct {
	id  int64
	key []byte
	val []byte
	err error
}

// SaveNodes bulk upsert node. Encoding + kompresi dikerjakan paralel di worker pool, write dalam satu batch.
func (k *KVDB) SaveNodes(nodes []datastructure.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	nodes = lastByID(nodes, func(n datastructure.Node) int64 { return n.ID })
	workers := concurrent.NewWorkerPool[datastructure.Node, encodedRecord](runtime.NumCPU(), len(nodes))
	for _, n := range nodes {
		workers.AddJob(n)
	}
	workers.Close()

	workers.Start(func(n datastructure.Node) encodedRecord {
		val, err := CompressNode(n)
		return encodedRecord{id: n.ID, key: nodeKey(n.ID), val: val, err: err}
	})
	workers.Wait()

	encoded := make(map[int64]encodedRecord, len(nodes))
	for rec := range workers.CollectResults() {
		if rec.err != nil {
			return fmt.Errorf("kv: encode node %d: %w", rec.id, rec.err)
		}
		encoded[rec.id] = rec
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.db.NewBatch()
	defer batch.Close()
	for _, n := range nodes {
		if err := k.unindexNode(batch, n.ID); err != nil {
			return err
		}
		rec := encoded[n.ID]
		if err := batch.Set(rec.key, rec.val, nil); err != nil {
			return err
		}
		if err := batch.Set(h3Key(nodeCell(n.Lat, n.Lon), n.ID), nil, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// SaveEdges bulk upsert edge.
func (k *KVDB) SaveEdges(edges []datastructure.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	edges = lastByID(edges, func(e datastructure.Edge) int64 { return e.ID })
	workers := concurrent.NewWorkerPool[datastructure.Edge, encodedRecord](runtime.NumCPU(), len(edges))
	for _, e := range edges {
		workers.AddJob(e)
	}
	workers.Close()

	workers.Start(func(e datastructure.Edge) encodedRecord {
		val, err := CompressEdge(e)
		return encodedRecord{id: e.ID, key: edgeKey(e.ID), val: val, err: err}
	})
	workers.Wait()

	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.db.NewBatch()
	defer batch.Close()
	for rec := range workers.CollectResults() {
		if rec.err != nil {
			return fmt.Errorf("kv: encode edge %d: %w", rec.id, rec.err)
		}
		if err := batch.Set(rec.key, rec.val, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// InsertNode simpan node baru, ErrNodeExists kalau id sudah dipakai.
func (k *KVDB) InsertNode(n datastructure.Node) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := getNode(k.db, n.ID); err == nil {
		return fmt.Errorf("%w: id %d", ErrNodeExists, n.ID)
	} else if !errors.Is(err, ErrNodeNotFound) {
		return err
	}
	return k.putNode(n)
}

// UpdateNode replace node yang sudah ada, ErrNodeNotFound kalau belum ada.
func (k *KVDB) UpdateNode(n datastructure.Node) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := getNode(k.db, n.ID); err != nil {
		return err
	}
	return k.putNode(n)
}

func (k *KVDB) putNode(n datastructure.Node) error {
	val, err := CompressNode(n)
	if err != nil {
		return fmt.Errorf("kv: encode node %d: %w", n.ID, err)
	}

	batch := k.db.NewBatch()
	defer batch.Close()
	if err := k.unindexNode(batch, n.ID); err != nil {
		return err
	}
	if err := batch.Set(nodeKey(n.ID), val, nil); err != nil {
		return err
	}
	if err := batch.Set(h3Key(nodeCell(n.Lat, n.Lon), n.ID), nil, nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// DeleteNode hapus node & h3 index-nya. Edge yang merujuk node ini tidak ikut dihapus.
func (k *KVDB) DeleteNode(id int64) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, err := getNode(k.db, id); err != nil {
		return err
	}

	batch := k.db.NewBatch()
	defer batch.Close()
	if err := k.unindexNode(batch, id); err != nil {
		return err
	}
	if err := batch.Delete(nodeKey(id), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// unindexNode hapus h3 key lama kalau node id sudah tersimpan sebelumnya.
func (k *KVDB) unindexNode(batch *pebble.Batch, id int64) error {
	old, err := getNode(k.db, id)
	if errors.Is(err, ErrNodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return batch.Delete(h3Key(nodeCell(old.Lat, old.Lon), id), nil)
}

func (k *KVDB) GetNodeByID(id int64) (datastructure.Node, error) {
	return getNode(k.db, id)
}

func (k *KVDB) GetEdgeByID(id int64) (datastructure.Edge, error) {
	val, closer, err := k.db.Get(edgeKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return datastructure.Edge{}, fmt.Errorf("%w: id %d", ErrEdgeNotFound, id)
	}
	if err != nil {
		return datastructure.Edge{}, err
	}
	defer closer.Close()
	return LoadEdge(val)
}

func (k *KVDB) GetAllNodes() ([]datastructure.Node, error) {
	return scanNodes(k.db)
}

func (k *KVDB) GetAllEdges() ([]datastructure.Edge, error) {
	return scanEdges(k.db)
}

// LoadSnapshot semua node & edge dari satu pebble snapshot, jadi write yang terjadi bersamaan tidak terlihat setengah-setengah.
// Urutan hasil sesuai id ascending.
func (k *KVDB) LoadSnapshot() ([]datastructure.Node, []datastructure.Edge, error) {
	snap := k.db.NewSnapshot()
	defer snap.Close()

	nodes, err := scanNodes(snap)
	if err != nil {
		return nil, nil, err
	}
	edges, err := scanEdges(snap)
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

func getNode(r pebble.Reader, id int64) (datastructure.Node, error) {
	val, closer, err := r.Get(nodeKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return datastructure.Node{}, fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
	}
	if err != nil {
		return datastructure.Node{}, err
	}
	defer closer.Close()
	return LoadNode(val)
}

func scanPrefix(r pebble.Reader, prefix []byte, fn func(key, val []byte) error) error {
	iter, err := r.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			iter.Close()
			return err
		}
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return err
	}
	return iter.Close()
}

func scanNodes(r pebble.Reader) ([]datastructure.Node, error) {
	nodes := []datastructure.Node{}
	err := scanPrefix(r, []byte(nodePrefix), func(key, val []byte) error {
		n, err := LoadNode(val)
		if err != nil {
			return fmt.Errorf("kv: decode %s: %w", key, err)
		}
		nodes = append(nodes, n)
		return nil
	})
	return nodes, err
}

func scanEdges(r pebble.Reader) ([]datastructure.Edge, error) {
	edges := []datastructure.Edge{}
	err := scanPrefix(r, []byte(edgePrefix), func(key, val []byte) error {
		e, err := LoadEdge(val)
		if err != nil {
			return fmt.Errorf("kv: decode %s: %w", key, err)
		}
		edges = append(edges, e)
		return nil
	})
	return edges, err
}

// NodeIDsNear id node di sekitar titik (lat, lon) dalam radius searchRadiusKm berdasarkan h3 cell.
// Kalau tidak ada node di radius itu, ring h3 diperlebar sampai maxRing.
func (k *KVDB) NodeIDsNear(lat, lon, searchRadiusKm float64) ([]int64, error) {
	origin := nodeCell(lat, lon)

	ids, err := k.nodeIDsInCells(kRingIndexesArea(lat, lon, searchRadiusKm))
	if err != nil {
		return nil, err
	}

	// kalau di radius itu gak ada node (misal titik di laut), cari dari neighbor h3 cell yang lebih jauh
	const maxRing = 10
	for lev := 1; lev <= maxRing && len(ids) == 0; lev++ {
		ids, err = k.nodeIDsInCells(h3.GridDisk(origin, lev))
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (k *KVDB) nodeIDsInCells(cells []h3.Cell) ([]int64, error) {
	ids := []int64{}
	for _, cell := range cells {
		prefix := cellPrefix(cell)
		err := scanPrefix(k.db, prefix, func(key, _ []byte) error {
			id, err := strconv.ParseInt(string(key[len(prefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("kv: bad h3 key %s: %w", key, err)
			}
			ids = append(ids, id)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

/*
*
  - https://observablehq.com/@nrabinowitz/h3-radius-lookup?collection=@nrabinowitz/h3
    search cell neighbor dari cell dari lat,lon  yang radius nya = searchRadiusKm
*/
func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	origin := nodeCell(lat, lon)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius)
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
