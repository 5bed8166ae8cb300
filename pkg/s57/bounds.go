package s57

// Bounds is a decimal-degree query rectangle. The spatial index performs
// no wraparound handling at the antimeridian.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether (lat, lon) falls within b, inclusive.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat <= b.North && lat >= b.South && lon <= b.East && lon >= b.West
}

func featureContainsBounds(f *Feature, b Bounds) bool {
	for _, c := range f.Coordinates {
		if b.Contains(c.Lat, c.Lon) {
			return true
		}
	}
	return false
}

func boundsOf(coords []LatLon) (Bounds, bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}
	b := Bounds{North: coords[0].Lat, South: coords[0].Lat, East: coords[0].Lon, West: coords[0].Lon}
	for _, c := range coords[1:] {
		if c.Lat > b.North {
			b.North = c.Lat
		}
		if c.Lat < b.South {
			b.South = c.Lat
		}
		if c.Lon > b.East {
			b.East = c.Lon
		}
		if c.Lon < b.West {
			b.West = c.Lon
		}
	}
	return b, true
}
