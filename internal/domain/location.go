package domain

import "fmt"

// Coordinate is a resolved latitude/longitude pair. The zero value is not a
// valid coordinate; construct via NewCoordinate so a coordinate is either
// fully resolved or does not exist at all.
type Coordinate struct {
	Lat float64
	Lng float64
}

func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("coordinate out of range: %f,%f", lat, lng)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

// Radius is the user-selected search distance bound in kilometres. Only the
// values in Radii are accepted.
type Radius int

const DefaultRadius Radius = 5

var Radii = []Radius{5, 10, 20, 50}

func (r Radius) Valid() bool {
	for _, v := range Radii {
		if r == v {
			return true
		}
	}
	return false
}

func (r Radius) Km() int { return int(r) }
