package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// GEO POINTS
// Map positions are engine units, stored as XYZ points without an SRID so SQLite and
// Postgres round-trip them through the same WKB Scan/Value path.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// VectorFromString parses "x,y,z" (optionally wrapped in brackets) into a core.Vector3.
// Components may be separated by commas or whitespace.
func VectorFromString(coords string) (core.Vector3, error) {
	coords = strings.TrimSpace(coords)
	coords = strings.TrimPrefix(coords, "[")
	coords = strings.TrimSuffix(coords, "]")

	parts := strings.FieldsFunc(coords, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) != 3 {
		return core.Vector3{}, ErrInvalidCoordinates
	}

	var out [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return core.Vector3{}, ErrInvalidCoordinates
		}
		out[i] = float32(f)
	}
	return core.Vector3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// PointFromVector creates an XYZ point from an engine vector
func PointFromVector(v core.Vector3) geom.Point {
	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: float64(v.X), Y: float64(v.Y)},
			Z:    float64(v.Z),
			Type: geom.CoordinatesType(geom.DimXYZ),
		},
	)
}

// VectorFromPoint converts a stored point back into an engine vector. Empty points report false.
func VectorFromPoint(p geom.Point) (core.Vector3, bool) {
	coords, ok := p.Coordinates()
	if !ok {
		return core.Vector3{}, false
	}
	return core.Vector3{X: float32(coords.X), Y: float32(coords.Y), Z: float32(coords.Z)}, true
}

// EmptyPoint is the stored form of a missing position
func EmptyPoint() geom.Point {
	return geom.NewEmptyPoint(geom.DimXYZ)
}
