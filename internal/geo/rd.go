package geo

import (
	"fmt"
	"math"

	"github.com/aryankumar/brogw/internal/util"
)

// Reference point of the RD projection (Amersfoort)
const (
	refLat = 52.15517440
	refLon = 5.38720621
	refX   = 155000.0
	refY   = 463000.0
)

type term struct {
	p, q int
	c    float64
}

// Coefficients of the standard WGS84 -> RD approximation, accurate to about a metre
var (
	xTerms = []term{
		{0, 1, 190094.945}, {1, 1, -11832.228}, {2, 1, -114.221},
		{0, 3, -32.391}, {1, 0, -0.705}, {3, 1, -2.340},
		{1, 3, -0.608}, {0, 2, -0.008}, {2, 3, 0.148},
	}
	yTerms = []term{
		{1, 0, 309056.544}, {0, 2, 3638.893}, {2, 0, 73.077},
		{1, 2, -157.984}, {3, 0, 59.788}, {0, 1, 0.433},
		{2, 2, -6.439}, {1, 1, -0.032}, {0, 4, 0.092},
		{1, 4, -0.054},
	}
)

// WGS84ToRD converts latitude/longitude in degrees to RD New x/y in metres
func WGS84ToRD(lat, lon float64) (x, y float64) {
	dLat := 0.36 * (lat - refLat)
	dLon := 0.36 * (lon - refLon)

	x = refX
	for _, t := range xTerms {
		x += t.c * math.Pow(dLat, float64(t.p)) * math.Pow(dLon, float64(t.q))
	}
	y = refY
	for _, t := range yTerms {
		y += t.c * math.Pow(dLat, float64(t.p)) * math.Pow(dLon, float64(t.q))
	}
	return x, y
}

// ExtentFromWGS84 transforms a lon/lat box ("minLon,minLat,maxLon,maxLat") into the
// RD extent that encloses all four transformed corners
func ExtentFromWGS84(s string) (Extent, error) {
	vals, err := parseFour(s)
	if err != nil {
		return Extent{}, err
	}
	minLon, minLat, maxLon, maxLat := vals[0], vals[1], vals[2], vals[3]
	if minLon >= maxLon || minLat >= maxLat {
		return Extent{}, fmt.Errorf("%w: min must be below max (%s)", util.ErrInvalidExtent, s)
	}

	e := Extent{
		XMin: math.Inf(1), YMin: math.Inf(1),
		XMax: math.Inf(-1), YMax: math.Inf(-1),
	}
	for _, c := range [][2]float64{{minLat, minLon}, {minLat, maxLon}, {maxLat, minLon}, {maxLat, maxLon}} {
		x, y := WGS84ToRD(c[0], c[1])
		e.XMin = math.Min(e.XMin, x)
		e.XMax = math.Max(e.XMax, x)
		e.YMin = math.Min(e.YMin, y)
		e.YMax = math.Max(e.YMax, y)
	}

	if err := e.Validate(); err != nil {
		return Extent{}, err
	}
	return e, nil
}
