package curve

import "github.com/Faultbox/osumap/pkg/math"

// MultiBezier splits the chain at consecutive duplicate points and
// flattens every resulting run as an independent Bezier curve.
// Runs of one point contribute nothing.
func MultiBezier(points []math.Vec2) []math.Vec2 {
	var out []math.Vec2
	start := 0
	for i := 1; i <= len(points); i++ {
		if i < len(points) && points[i] != points[i-1] {
			continue
		}
		out = appendJoined(out, Bezier(points[start:i]))
		start = i
	}
	if len(out) == 0 && len(points) > 0 {
		return []math.Vec2{points[0]}
	}
	return out
}

// appendJoined appends seg to out, dropping seg's first point when it
// repeats the current last point.
func appendJoined(out, seg []math.Vec2) []math.Vec2 {
	if len(seg) == 0 {
		return out
	}
	if len(out) > 0 && out[len(out)-1] == seg[0] {
		seg = seg[1:]
	}
	return append(out, seg...)
}

// Bezier flattens a single Bezier curve of degree len(cp)-1 by adaptive
// de Casteljau subdivision. A curve of fewer than two points yields nil.
// Once maxBezierPoints points are emitted the remaining pieces are taken
// as flat.
func Bezier(cp []math.Vec2) []math.Vec2 {
	if len(cp) < 2 {
		return nil
	}

	type piece struct {
		points []math.Vec2
		depth  int
	}

	out := []math.Vec2{}
	stack := []piece{{points: cp}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.depth >= maxBezierDepth || len(out) >= maxBezierPoints || bezierFlat(cur.points) {
			out = append(out, cur.points[0])
			continue
		}

		left, right := bezierSubdivide(cur.points)
		// right first so left is popped first
		stack = append(stack, piece{right, cur.depth + 1}, piece{left, cur.depth + 1})
	}
	return append(out, cp[len(cp)-1])
}

// bezierFlat reports whether every second difference of the control
// polygon is within BezierTolerance.
func bezierFlat(cp []math.Vec2) bool {
	const tolSq = BezierTolerance * BezierTolerance
	for i := 1; i < len(cp)-1; i++ {
		d := cp[i-1].Sub(cp[i].Scale(2)).Add(cp[i+1])
		if d.LengthSquared() > tolSq {
			return false
		}
	}
	return true
}

// bezierSubdivide splits the curve at t=0.5.
func bezierSubdivide(cp []math.Vec2) (left, right []math.Vec2) {
	n := len(cp)
	mid := make([]math.Vec2, n)
	copy(mid, cp)

	left = make([]math.Vec2, n)
	right = make([]math.Vec2, n)
	for i := 0; i < n; i++ {
		left[i] = mid[0]
		right[n-1-i] = mid[n-1-i]
		for j := 0; j < n-1-i; j++ {
			mid[j] = mid[j].Lerp(mid[j+1], 0.5)
		}
	}
	return left, right
}
