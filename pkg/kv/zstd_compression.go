package kv

import (
	"lintang/cityroute/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func EncodeNode(n datastructure.Node) ([]byte, error) {
	return binary.Marshal(n)
}

func DecodeNode(bb []byte) (datastructure.Node, error) {
	var n datastructure.Node
	err := binary.Unmarshal(bb, &n)
	return n, err
}

func EncodeEdge(e datastructure.Edge) ([]byte, error) {
	return binary.Marshal(e)
}

func DecodeEdge(bb []byte) (datastructure.Edge, error) {
	var e datastructure.Edge
	err := binary.Unmarshal(bb, &e)
	return e, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}

func CompressNode(n datastructure.Node) ([]byte, error) {
	bb, err := EncodeNode(n)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func LoadNode(bbCompressed []byte) (datastructure.Node, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		return datastructure.Node{}, err
	}
	return DecodeNode(bb)
}

func CompressEdge(e datastructure.Edge) ([]byte, error) {
	bb, err := EncodeEdge(e)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func LoadEdge(bbCompressed []byte) (datastructure.Edge, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		return datastructure.Edge{}, err
	}
	return DecodeEdge(bb)
}
