package datastructure

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func PathCoordinates(path []Node) []Coordinate {
	coords := make([]Coordinate, 0, len(path))
	for _, n := range path {
		coords = append(coords, NewCoordinate(n.Lat, n.Lon))
	}
	return coords
}
