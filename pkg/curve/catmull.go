package curve

import "github.com/Faultbox/osumap/pkg/math"

// Catmull flattens a uniform Catmull-Rom spline through every point of
// the chain, CatmullDetail samples per span. Chain ends reuse the end
// point as the missing neighbour.
func Catmull(points []math.Vec2) []math.Vec2 {
	n := len(points)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []math.Vec2{points[0]}
	}

	out := make([]math.Vec2, 0, (n-1)*CatmullDetail+1)
	out = append(out, points[0])
	for i := 0; i < n-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, n-1)]
		for s := 1; s <= CatmullDetail; s++ {
			out = append(out, catmullPoint(p0, p1, p2, p3, float64(s)/CatmullDetail))
		}
	}
	return out
}

func catmullPoint(p0, p1, p2, p3 math.Vec2, t float64) math.Vec2 {
	t2 := t * t
	t3 := t2 * t
	return math.Vec2{
		X: 0.5 * (2*p1.X + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * (2*p1.Y + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}
