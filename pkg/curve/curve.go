// Package curve flattens osu! slider curves into polylines.
package curve

import (
	"fmt"
	"strings"

	"github.com/Faultbox/osumap/pkg/math"
)

// Approximation constants.
const (
	BezierTolerance      = 0.25 // max second difference of a flat Bezier piece
	CircularArcTolerance = 0.1  // max sagitta of a circular arc chord
	CatmullDetail        = 50   // samples per Catmull-Rom span
	LinearStep           = 5.0  // max spacing of subdivided linear paths

	maxBezierDepth  = 24
	maxBezierPoints = 1 << 16 // output budget of a single Bezier curve
)

// PathType is the curve family of a slider path.
type PathType uint8

// Path types, tagged in the file by a single letter.
const (
	PathBezier PathType = iota
	PathLinear
	PathPerfect
	PathCatmull
)

// String returns the file tag of the path type.
func (t PathType) String() string {
	switch t {
	case PathBezier:
		return "B"
	case PathLinear:
		return "L"
	case PathPerfect:
		return "P"
	case PathCatmull:
		return "C"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// ParsePathType maps a file tag to a path type.
// Unrecognized tags map to PathBezier.
func ParsePathType(tag string) PathType {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "L":
		return PathLinear
	case "P":
		return PathPerfect
	case "C":
		return PathCatmull
	default:
		return PathBezier
	}
}

// Flattener turns the full control chain (slider head first) into a polyline.
type Flattener func(points []math.Vec2) []math.Vec2

var flatteners = map[PathType]Flattener{
	PathLinear:  flattenLinear,
	PathPerfect: flattenPerfect,
	PathCatmull: Catmull,
}

// Flatten dispatches on t and returns the raw, untruncated polyline for
// the given control chain. The chain must start with the slider head.
func Flatten(t PathType, points []math.Vec2) []math.Vec2 {
	if len(points) == 0 {
		return nil
	}
	if f, ok := flatteners[t]; ok {
		return f(points)
	}
	return MultiBezier(points)
}

// Build flattens the slider curve and truncates it to length.
// controls excludes the head, which is prepended here.
func Build(t PathType, head math.Vec2, controls []math.Vec2, length float64) []math.Vec2 {
	chain := make([]math.Vec2, 0, len(controls)+1)
	chain = append(chain, head)
	chain = append(chain, controls...)
	return Truncate(Flatten(t, chain), length)
}

func flattenLinear(points []math.Vec2) []math.Vec2 {
	if len(points) < 2 {
		return []math.Vec2{points[0]}
	}
	return Linear(points[0], points[1])
}

func flattenPerfect(points []math.Vec2) []math.Vec2 {
	if len(points) < 3 {
		return MultiBezier(points)
	}
	arc, ok := CircularArc(points[0], points[1], points[2])
	if !ok {
		return MultiBezier(points)
	}
	return arc
}
