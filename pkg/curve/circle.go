package curve

import (
	gomath "math"

	"github.com/Faultbox/osumap/pkg/math"
)

// collinearEpsilon bounds |cross| below which three points are treated as
// lying on one line.
const collinearEpsilon = 1e-3

// CircularArc approximates the arc of the circle through a, b and c that
// starts at a, passes b and ends at c. It returns false when no circle
// can be fit (collinear or non-finite input).
func CircularArc(a, b, c math.Vec2) ([]math.Vec2, bool) {
	if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
		return nil, false
	}

	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if gomath.Abs(b.Sub(a).Cross(c.Sub(a))) < collinearEpsilon || d == 0 {
		return nil, false
	}

	aSq, bSq, cSq := a.LengthSquared(), b.LengthSquared(), c.LengthSquared()
	center := math.Vec2{
		X: (aSq*(b.Y-c.Y) + bSq*(c.Y-a.Y) + cSq*(a.Y-b.Y)) / d,
		Y: (aSq*(c.X-b.X) + bSq*(a.X-c.X) + cSq*(b.X-a.X)) / d,
	}
	radius := a.Distance(center)

	startAngle := gomath.Atan2(a.Y-center.Y, a.X-center.X)
	endAngle := gomath.Atan2(c.Y-center.Y, c.X-center.X)

	// sweep direction follows the turn a -> b -> c
	ccw := b.Sub(a).Cross(c.Sub(b)) > 0
	sweep := endAngle - startAngle
	if ccw {
		for sweep <= 0 {
			sweep += 2 * gomath.Pi
		}
	} else {
		for sweep >= 0 {
			sweep -= 2 * gomath.Pi
		}
	}

	steps := 2
	if 2*radius > CircularArcTolerance {
		step := 2 * gomath.Acos(1-CircularArcTolerance/radius)
		if n := int(gomath.Ceil(gomath.Abs(sweep) / step)); n > steps {
			steps = n
		}
	}
	if steps > 1<<16 {
		steps = 1 << 16
	}

	out := make([]math.Vec2, 0, steps+1)
	out = append(out, a)
	for i := 1; i < steps; i++ {
		theta := startAngle + sweep*float64(i)/float64(steps)
		out = append(out, math.Vec2{
			X: center.X + radius*gomath.Cos(theta),
			Y: center.Y + radius*gomath.Sin(theta),
		})
	}
	return append(out, c), true
}
