package kv

import (
	"testing"

	"lintang/cityroute/pkg/datastructure"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KVDB {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	k := NewKVDB(db)
	t.Cleanup(func() { k.Close() })
	return k
}

var (
	yogya   = datastructure.Node{ID: 1, CityName: "Yogyakarta", Lat: -7.7956, Lon: 110.3695}
	jakarta = datastructure.Node{ID: 2, CityName: "Jakarta", Lat: -6.2088, Lon: 106.8456}
	solo    = datastructure.Node{ID: 12, CityName: "Surakarta", Lat: -7.5755, Lon: 110.8243}
)

func TestCompressNode(t *testing.T) {
	bb, err := CompressNode(solo)
	require.NoError(t, err)
	got, err := LoadNode(bb)
	require.NoError(t, err)
	assert.Equal(t, solo, got)

	_, err = LoadNode([]byte("not zstd"))
	assert.Error(t, err)
}

func TestSaveNodes(t *testing.T) {
	k := newTestKV(t)

	require.NoError(t, k.SaveNodes([]datastructure.Node{solo, jakarta, yogya}))

	nodes, err := k.GetAllNodes()
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Node{yogya, jakarta, solo}, nodes)

	moved := yogya
	moved.CityName = "Jogja"
	require.NoError(t, k.SaveNodes([]datastructure.Node{yogya, moved}))
	got, err := k.GetNodeByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Jogja", got.CityName)

	nodes, err = k.GetAllNodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestNodeCRUD(t *testing.T) {
	k := newTestKV(t)

	_, err := k.GetNodeByID(1)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	require.NoError(t, k.InsertNode(yogya))
	assert.ErrorIs(t, k.InsertNode(yogya), ErrNodeExists)

	assert.ErrorIs(t, k.UpdateNode(jakarta), ErrNodeNotFound)

	renamed := yogya
	renamed.CityName = "Ngayogyakarta"
	require.NoError(t, k.UpdateNode(renamed))
	got, err := k.GetNodeByID(1)
	require.NoError(t, err)
	assert.Equal(t, renamed, got)

	require.NoError(t, k.DeleteNode(1))
	_, err = k.GetNodeByID(1)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.ErrorIs(t, k.DeleteNode(1), ErrNodeNotFound)
}

func TestSaveEdges(t *testing.T) {
	k := newTestKV(t)

	edges := []datastructure.Edge{
		{ID: 3, StartNodeID: 2, EndNodeID: 1},
		{ID: 1, StartNodeID: 1, EndNodeID: 2},
		{ID: 2, StartNodeID: 1, EndNodeID: 0},
	}
	require.NoError(t, k.SaveEdges(edges))

	got, err := k.GetAllEdges()
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Edge{edges[1], edges[2], edges[0]}, got)

	e, err := k.GetEdgeByID(2)
	require.NoError(t, err)
	assert.False(t, e.Resolved())

	_, err = k.GetEdgeByID(99)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestLoadSnapshot(t *testing.T) {
	k := newTestKV(t)

	nodes, edges, err := k.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Empty(t, edges)

	require.NoError(t, k.SaveNodes([]datastructure.Node{yogya, jakarta}))
	require.NoError(t, k.SaveEdges([]datastructure.Edge{{ID: 1, StartNodeID: 1, EndNodeID: 2}}))

	nodes, edges, err = k.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Node{yogya, jakarta}, nodes)
	assert.Equal(t, []datastructure.Edge{{ID: 1, StartNodeID: 1, EndNodeID: 2}}, edges)
}

func TestNodeIDsNear(t *testing.T) {
	k := newTestKV(t)
	require.NoError(t, k.SaveNodes([]datastructure.Node{yogya, jakarta}))

	ids, err := k.NodeIDsNear(-7.7960, 110.3700, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	// pindah ke Surabaya, index lama harus ikut hilang
	moved := yogya
	moved.Lat, moved.Lon = -7.2575, 112.7521
	require.NoError(t, k.UpdateNode(moved))

	ids, err = k.NodeIDsNear(-7.7960, 110.3700, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = k.NodeIDsNear(-7.2575, 112.7521, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestKeyUpperBound(t *testing.T) {
	assert.Equal(t, []byte("node0"), keyUpperBound([]byte("node/")))
	assert.Equal(t, []byte("b"), keyUpperBound([]byte{'a', 0xff}))
	assert.Nil(t, keyUpperBound([]byte{0xff}))
}
