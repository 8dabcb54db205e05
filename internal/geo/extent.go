// Package geo handles bounding boxes in the Dutch national grid (RD New, EPSG:28992).
package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aryankumar/brogw/internal/util"
)

// CRS is the coordinate reference system used by the registry and the workspace
const CRS = "EPSG:28992"

// Approximate validity bounds of RD New
const (
	rdMinX = -7000.0
	rdMaxX = 300000.0
	rdMinY = 289000.0
	rdMaxY = 629000.0
)

// Extent is an axis-aligned bounding box in RD New metres
type Extent struct {
	XMin float64 `json:"xmin" yaml:"xmin"`
	XMax float64 `json:"xmax" yaml:"xmax"`
	YMin float64 `json:"ymin" yaml:"ymin"`
	YMax float64 `json:"ymax" yaml:"ymax"`
}

// ParseExtent parses "xmin,ymin,xmax,ymax"
func ParseExtent(s string) (Extent, error) {
	vals, err := parseFour(s)
	if err != nil {
		return Extent{}, err
	}

	e := Extent{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]}
	if err := e.Validate(); err != nil {
		return Extent{}, err
	}
	return e, nil
}

// Validate checks that the extent is non-empty and lies inside the RD New domain
func (e Extent) Validate() error {
	if e.XMin >= e.XMax || e.YMin >= e.YMax {
		return fmt.Errorf("%w: min must be below max (%s)", util.ErrInvalidExtent, e)
	}
	if e.XMin < rdMinX || e.XMax > rdMaxX || e.YMin < rdMinY || e.YMax > rdMaxY {
		return fmt.Errorf("%w: %s is outside the %s domain", util.ErrInvalidExtent, e, CRS)
	}
	return nil
}

// Contains reports whether the point lies inside the extent (edges included)
func (e Extent) Contains(x, y float64) bool {
	return x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax
}

// Area returns the extent's area in square kilometres
func (e Extent) Area() float64 {
	return (e.XMax - e.XMin) * (e.YMax - e.YMin) / 1e6
}

// String renders the extent in the same order ParseExtent reads it
func (e Extent) String() string {
	return fmt.Sprintf("%.0f,%.0f,%.0f,%.0f", e.XMin, e.YMin, e.XMax, e.YMax)
}

func parseFour(s string) ([4]float64, error) {
	var out [4]float64

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return out, fmt.Errorf("%w: expected 4 comma-separated numbers, got %d", util.ErrInvalidExtent, len(parts))
	}

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("%w: %q is not a number", util.ErrInvalidExtent, p)
		}
		out[i] = v
	}
	return out, nil
}
