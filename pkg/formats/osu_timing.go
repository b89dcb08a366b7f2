package formats

import (
	"cmp"
	gomath "math"
	"slices"
	"strings"
)

// Timing point effect bits.
const (
	effectKiai             = 1 << 0
	effectOmitFirstBarLine = 1 << 3
)

// TimingOrder selects the order timing points are resolved in.
type TimingOrder int

const (
	// FileOrder keeps points in the order they appear in the file.
	FileOrder TimingOrder = iota
	// SortedOrder stable-sorts points by time, uninherited points first
	// on equal times.
	SortedOrder
)

// String returns the configuration name of the order.
func (o TimingOrder) String() string {
	if o == SortedOrder {
		return "sorted"
	}
	return "file"
}

// ParseTimingOrder maps "file" and "sorted" to a TimingOrder. Anything
// else is FileOrder.
func ParseTimingOrder(s string) TimingOrder {
	if strings.EqualFold(strings.TrimSpace(s), "sorted") {
		return SortedOrder
	}
	return FileOrder
}

// decodeTimingPoint decodes a [TimingPoints] line. Lines with fewer than
// two fields are rejected.
func decodeTimingPoint(line string) (TimingPoint, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return TimingPoint{}, false
	}

	meter := parseInt(field(parts, 2), 4)
	if meter <= 0 {
		meter = 4
	}
	effects := parseInt(field(parts, 7), 0)

	return NewTimingPoint(
		parseFloat(parts[0], 0),
		parseFloat(parts[1], 0),
		meter,
		toSampleSet(parseInt(field(parts, 3), 0)),
		parseInt(field(parts, 4), 0),
		parseInt(field(parts, 5), 100),
		len(parts) <= 6 || strings.TrimSpace(parts[6]) != "0",
		effects,
	), true
}

// NewTimingPoint builds a timing point from raw field values and derives
// Uninherited and Velocity. ResolvedBeatLength is set by Assemble.
func NewTimingPoint(time, beatLength float64, meter int, sampleSet SampleSet, sampleIndex, volume int, change bool, effects int) TimingPoint {
	tp := TimingPoint{
		Time:             time,
		BeatLength:       beatLength,
		Meter:            meter,
		SampleSet:        sampleSet,
		SampleIndex:      sampleIndex,
		Volume:           volume,
		Change:           change,
		Kiai:             effects&effectKiai != 0,
		OmitFirstBarLine: effects&effectOmitFirstBarLine != 0,
		Uninherited:      !(beatLength < 0),
	}
	tp.Velocity = velocity(tp)
	return tp
}

// velocity is 1 for uninherited points and -100/beatLength for inherited
// ones. Results that are not finite and positive fall back to 1.
func velocity(tp TimingPoint) float64 {
	if tp.Uninherited || tp.BeatLength == 0 {
		return 1
	}
	v := -100 / tp.BeatLength
	if gomath.IsNaN(v) || gomath.IsInf(v, 0) || v <= 0 {
		return 1
	}
	return v
}

// resolveTimingPoints orders points per order and threads the running
// beat length through them.
func resolveTimingPoints(points []TimingPoint, order TimingOrder) {
	if order == SortedOrder {
		slices.SortStableFunc(points, func(a, b TimingPoint) int {
			if c := cmp.Compare(a.Time, b.Time); c != 0 {
				return c
			}
			switch {
			case a.Uninherited && !b.Uninherited:
				return -1
			case !a.Uninherited && b.Uninherited:
				return 1
			}
			return 0
		})
	}

	current := 0.0
	for i := range points {
		tp := &points[i]
		if tp.Uninherited && tp.BeatLength > 0 {
			current = tp.BeatLength
		}
		tp.ResolvedBeatLength = current
		tp.Velocity = velocity(*tp)
	}
}

// TimingAt returns the timing point in effect at time t: the latest
// point not after t, the first point when t precedes all of them. ok is
// false when the beatmap has no timing points.
func (b *Beatmap) TimingAt(t float64) (tp TimingPoint, ok bool) {
	if len(b.TimingPoints) == 0 {
		return TimingPoint{}, false
	}
	best := -1
	for i, p := range b.TimingPoints {
		if p.Time <= t && (best < 0 || p.Time >= b.TimingPoints[best].Time) {
			best = i
		}
	}
	if best < 0 {
		best = 0
	}
	return b.TimingPoints[best], true
}
