package formats

import (
	gomath "math"
	"time"

	"github.com/Faultbox/osumap/pkg/curve"
	"github.com/Faultbox/osumap/pkg/math"
)

// Assemble finishes a beatmap whose raw fields are filled in: it applies
// the approach rate fallback, resolves timing points in the given order
// and recomputes the per-kind counts.
//
// The line parser calls it with FileOrder. Backends that hand over a
// complete point set call it with SortedOrder.
func Assemble(b *Beatmap, order TimingOrder) {
	if b.Difficulty.ApproachRate == ApproachRateUnset {
		b.Difficulty.ApproachRate = b.Difficulty.OverallDifficulty
	}
	resolveTimingPoints(b.TimingPoints, order)
	b.recount()
}

func (b *Beatmap) recount() {
	counts := b.CountByKind()
	b.CircleCount = counts[KindCircle]
	b.SliderCount = counts[KindSlider]
	b.SpinnerCount = counts[KindSpinner]
	b.HoldCount = counts[KindHold]
}

// CountByKind returns the number of objects of each kind, decoded from
// the type bits.
func (b *Beatmap) CountByKind() map[ObjectKind]int {
	counts := make(map[ObjectKind]int)
	for _, ho := range b.HitObjects {
		if kind, ok := ho.Type.Kind(); ok {
			counts[kind]++
		}
	}
	return counts
}

// ResolveSliders computes the path of every slider and stores it on the
// payload together with the slider's end position and end time.
func (b *Beatmap) ResolveSliders() {
	for i := range b.HitObjects {
		ho := &b.HitObjects[i]
		s := ho.Slider()
		if s == nil {
			continue
		}
		s.Path = s.ComputePath(ho.Pos)
		ho.EndPos = s.EndPosition(ho.Pos, s.Path)
		d := gomath.Min(gomath.Round(b.SliderDuration(ho)), gomath.MaxInt32)
		ho.EndTime = ho.Time + int(d)
	}
}

// SliderDuration returns the time in milliseconds a slider takes for all
// of its repeats, 0 when the timing context does not define a tempo.
func (b *Beatmap) SliderDuration(ho *HitObject) float64 {
	s := ho.Slider()
	if s == nil {
		return 0
	}
	tp, ok := b.TimingAt(float64(ho.Time))
	if !ok || tp.ResolvedBeatLength <= 0 || b.Difficulty.SliderMultiplier <= 0 {
		return 0
	}
	pxPerBeat := b.Difficulty.SliderMultiplier * 100 * tp.Velocity
	d := float64(s.Repeats) * s.Length / pxPerBeat * tp.ResolvedBeatLength
	if gomath.IsNaN(d) || gomath.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

// SliderPositionAt returns the position of a resolved slider's ball at
// time t, following its repeats back and forth.
func SliderPositionAt(ho *HitObject, t int) (math.Vec2, bool) {
	s := ho.Slider()
	if s == nil || len(s.Path) == 0 || ho.EndTime <= ho.Time {
		return math.Vec2{}, false
	}
	progress := float64(t-ho.Time) / float64(ho.EndTime-ho.Time)
	progress = gomath.Max(0, gomath.Min(1, progress)) * float64(s.Repeats)
	span := gomath.Floor(progress)
	frac := progress - span
	if span == float64(s.Repeats) {
		span, frac = span-1, 1
	}
	if int(span)%2 == 1 {
		frac = 1 - frac
	}
	return curve.PositionAt(s.Path, frac*curve.Length(s.Path)), true
}

// DrainTime returns the time between the first object's start and the
// last object's end.
func (b *Beatmap) DrainTime() time.Duration {
	if len(b.HitObjects) == 0 {
		return 0
	}
	first := b.HitObjects[0].Time
	last := first
	for _, ho := range b.HitObjects {
		last = max(last, ho.EndTime, ho.Time)
		first = min(first, ho.Time)
	}
	return time.Duration(last-first) * time.Millisecond
}
