package curve

import (
	gomath "math"

	"github.com/Faultbox/osumap/pkg/math"
)

// Linear subdivides the segment a-b into steps of at most LinearStep.
// Both endpoints are returned exactly.
func Linear(a, b math.Vec2) []math.Vec2 {
	steps := int(gomath.Ceil(a.Distance(b) / LinearStep))
	if steps < 1 || steps > 1<<16 {
		steps = 1
	}

	out := make([]math.Vec2, 0, steps+1)
	out = append(out, a)
	for i := 1; i < steps; i++ {
		out = append(out, a.Lerp(b, float64(i)/float64(steps)))
	}
	return append(out, b)
}
