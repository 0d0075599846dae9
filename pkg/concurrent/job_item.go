package concurrent

import "lintang/cityroute/pkg/datastructure"

type JobI interface {
	datastructure.Node | datastructure.Edge
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
