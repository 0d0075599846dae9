package routingalgorithm

import (
	"lintang/cityroute/pkg/datastructure"
	"lintang/cityroute/pkg/util"
)

// ReconstructPath jalan mundur dari target lewat predecessor sampai node tanpa predecessor (source),
// lalu dibalik jadi urutan source -> target. Kalau target bukan source dan tidak punya predecessor hasilnya kosong.
func ReconstructPath(g *datastructure.Graph, prev map[int64]int64, source, target int64) []datastructure.Node {
	if _, ok := prev[target]; !ok && target != source {
		return []datastructure.Node{}
	}

	path := []datastructure.Node{}
	curr := target
	for steps := 0; steps <= len(prev); steps++ {
		n, _ := g.Node(curr)
		path = append(path, n)

		p, ok := prev[curr]
		if !ok {
			break
		}
		curr = p
	}

	util.ReverseG(path)
	return path
}
