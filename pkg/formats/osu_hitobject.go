package formats

import (
	"strings"

	"github.com/Faultbox/osumap/pkg/curve"
	"github.com/Faultbox/osumap/pkg/encoding"
	"github.com/Faultbox/osumap/pkg/math"
)

// Minimum field counts per line.
const (
	minHitObjectFields = 4
	minSliderFields    = 8
)

// decodeHitObject decodes a [HitObjects] line:
//
//	x,y,time,type,hitSound,objectParams...,hitSample
func decodeHitObject(line string) (HitObject, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < minHitObjectFields {
		return HitObject{}, false
	}

	flags := TypeFlags(parseInt(parts[3], 0))
	kind, ok := flags.Kind()
	if !ok {
		return HitObject{}, false
	}

	pos := math.Vec2{X: parseFloat(parts[0], 0), Y: parseFloat(parts[1], 0)}
	ho := HitObject{
		Pos:      pos,
		Time:     parseInt(parts[2], 0),
		Type:     flags,
		HitSound: HitSound(parseInt(field(parts, 4), 0)),
		EndPos:   pos,
	}
	ho.EndTime = ho.Time

	switch kind {
	case KindCircle:
		ho.Payload = Circle{}
		ho.Sample = sampleAt(parts, 5)

	case KindSlider:
		slider, ok := decodeSlider(parts)
		if !ok {
			return HitObject{}, false
		}
		ho.Payload = slider
		ho.Sample = sampleAt(parts, 10)

	case KindSpinner:
		ho.Payload = Spinner{}
		ho.EndTime = parseInt(field(parts, 5), ho.Time)
		ho.EndPos = PlayfieldCenter()
		ho.Sample = sampleAt(parts, 6)

	case KindHold:
		ho.Payload = Hold{}
		end, rest, _ := strings.Cut(field(parts, 5), ":")
		ho.EndTime = parseInt(end, ho.Time)
		if strings.Contains(rest, ":") {
			ho.Sample = decodeHitSample(rest)
		} else {
			ho.Sample = sampleAt(parts, 6)
		}
	}
	return ho, true
}

// decodeSlider decodes fields 5 onward of a slider line. Sliders without
// control points are rejected.
func decodeSlider(parts []string) (*Slider, bool) {
	if len(parts) < minSliderFields {
		return nil, false
	}

	tokens := strings.Split(parts[5], "|")
	s := &Slider{
		PathType: curve.ParsePathType(tokens[0]),
		Repeats:  max(parseInt(parts[6], 1), 1),
		Length:   parseFloat(parts[7], 0),
	}
	for _, tok := range tokens[1:] {
		xs, ys, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		s.ControlPoints = append(s.ControlPoints, math.Vec2{X: parseFloat(xs, 0), Y: parseFloat(ys, 0)})
	}
	if len(s.ControlPoints) == 0 {
		return nil, false
	}

	if f := strings.TrimSpace(field(parts, 8)); f != "" {
		for _, n := range strings.Split(f, "|") {
			s.EdgeSounds = append(s.EdgeSounds, HitSound(parseInt(n, 0)))
		}
	}
	if f := strings.TrimSpace(field(parts, 9)); f != "" {
		for _, pair := range strings.Split(f, "|") {
			normal, addition, _ := strings.Cut(pair, ":")
			s.EdgeSets = append(s.EdgeSets, EdgeSet{
				NormalSet:   toSampleSet(parseInt(normal, 0)),
				AdditionSet: toSampleSet(parseInt(addition, 0)),
			})
		}
	}
	return s, true
}

// sampleAt decodes parts[i] as a hit sample when it exists and is colon
// delimited.
func sampleAt(parts []string, i int) *HitSample {
	f := field(parts, i)
	if !strings.Contains(f, ":") {
		return nil
	}
	return decodeHitSample(f)
}

// decodeHitSample decodes normalSet:additionSet:index:volume:filename.
func decodeHitSample(s string) *HitSample {
	p := strings.SplitN(s, ":", 5)
	return &HitSample{
		NormalSet:   toSampleSet(parseInt(field(p, 0), 0)),
		AdditionSet: toSampleSet(parseInt(field(p, 1), 0)),
		Index:       parseInt(field(p, 2), 0),
		Volume:      parseInt(field(p, 3), 0),
		Filename:    encoding.CleanFilename(field(p, 4)),
	}
}
