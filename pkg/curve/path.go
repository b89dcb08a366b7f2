package curve

import (
	gomath "math"

	"github.com/Faultbox/osumap/pkg/math"
)

// Truncate returns a new polyline whose total length equals length.
//
// A longer path is cut inside the segment that reaches length. A shorter
// path is extended along the direction of its last non-degenerate
// segment. Paths of fewer than two points, and non-positive or NaN
// lengths, are returned unchanged.
func Truncate(path []math.Vec2, length float64) []math.Vec2 {
	if len(path) < 2 || !(length > 0) || gomath.IsInf(length, 0) {
		return path
	}

	out := make([]math.Vec2, 0, len(path))
	out = append(out, path[0])

	var dir math.Vec2
	travelled := 0.0
	for i := 1; i < len(path); i++ {
		seg := path[i].Sub(path[i-1])
		segLen := seg.Length()
		if segLen == 0 || gomath.IsNaN(segLen) || gomath.IsInf(segLen, 0) {
			continue
		}
		dir = seg.Scale(1 / segLen)

		if travelled+segLen >= length {
			t := (length - travelled) / segLen
			return append(out, path[i-1].Lerp(path[i], t))
		}
		travelled += segLen
		out = append(out, path[i])
	}

	if dir == (math.Vec2{}) {
		return out
	}
	last := out[len(out)-1]
	return append(out, last.Add(dir.Scale(length-travelled)))
}

// Length returns the total Euclidean length of the polyline.
func Length(path []math.Vec2) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i].Distance(path[i-1])
	}
	return total
}

// PositionAt returns the point at arc distance d along the path.
// Distances beyond the end extrapolate along the last segment.
func PositionAt(path []math.Vec2, d float64) math.Vec2 {
	switch len(path) {
	case 0:
		return math.Vec2{}
	case 1:
		return path[0]
	}
	if d <= 0 {
		return path[0]
	}

	for i := 1; i < len(path); i++ {
		segLen := path[i].Distance(path[i-1])
		if segLen == 0 {
			continue
		}
		if d <= segLen {
			return path[i-1].Lerp(path[i], d/segLen)
		}
		d -= segLen
	}

	for i := len(path) - 1; i > 0; i-- {
		seg := path[i].Sub(path[i-1])
		if l := seg.Length(); l > 0 {
			return path[len(path)-1].Add(seg.Scale(d / l))
		}
	}
	return path[len(path)-1]
}
