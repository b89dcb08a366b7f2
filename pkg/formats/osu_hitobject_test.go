package formats

import (
	"testing"

	"github.com/Faultbox/osumap/pkg/curve"
	"github.com/Faultbox/osumap/pkg/math"
)

func TestTypeFlagsKind(t *testing.T) {
	tests := []struct {
		flags    TypeFlags
		expected ObjectKind
		ok       bool
	}{
		{1, KindCircle, true},
		{2, KindSlider, true},
		{8, KindSpinner, true},
		{128, KindHold, true},
		{5, KindCircle, true},
		{3, KindCircle, true},
		{10, KindSlider, true},
		{136, KindSpinner, true},
		{0, 0, false},
		{4, 0, false},
		{112, 0, false},
	}

	for _, tc := range tests {
		kind, ok := tc.flags.Kind()
		if ok != tc.ok || (ok && kind != tc.expected) {
			t.Errorf("TypeFlags(%d).Kind() = %v, %v; expected %v, %v", tc.flags, kind, ok, tc.expected, tc.ok)
		}
	}
}

func TestTypeFlagsCombo(t *testing.T) {
	f := TypeFlags(1 | 4 | 3<<4)
	if !f.NewCombo() {
		t.Error("expected new combo")
	}
	if f.ComboSkip() != 3 {
		t.Errorf("expected combo skip 3, got %d", f.ComboSkip())
	}
	if TypeFlags(2).NewCombo() || TypeFlags(2).ComboSkip() != 0 {
		t.Error("plain slider should carry no combo bits")
	}
}

func TestDecodeHitObject_Circle(t *testing.T) {
	ho, ok := decodeHitObject("100,150,1000,5,2,1:2:3:40:clap.wav")
	if !ok {
		t.Fatal("expected circle to decode")
	}
	if ho.Kind() != KindCircle {
		t.Errorf("expected circle, got %v", ho.Kind())
	}
	if ho.Pos != (math.Vec2{X: 100, Y: 150}) || ho.EndPos != ho.Pos {
		t.Errorf("unexpected positions %v %v", ho.Pos, ho.EndPos)
	}
	if ho.Time != 1000 || ho.EndTime != 1000 {
		t.Errorf("unexpected times %d %d", ho.Time, ho.EndTime)
	}
	if ho.HitSound != HitSoundWhistle {
		t.Errorf("expected whistle, got %d", ho.HitSound)
	}

	want := HitSample{
		NormalSet:   SampleSetNormal,
		AdditionSet: SampleSetSoft,
		Index:       3,
		Volume:      40,
		Filename:    "clap.wav",
	}
	if ho.Sample == nil || *ho.Sample != want {
		t.Errorf("sample = %+v, expected %+v", ho.Sample, want)
	}
}

func TestDecodeHitObject_CircleWithoutSample(t *testing.T) {
	ho, ok := decodeHitObject("100,150,1000,1,0")
	if !ok {
		t.Fatal("expected circle to decode")
	}
	if ho.Sample != nil {
		t.Errorf("expected no sample, got %+v", ho.Sample)
	}
}

func TestDecodeHitObject_Slider(t *testing.T) {
	line := "100,100,1538,2,0,B|150:50|200:100|200:100|250:150,2,180,2|0|8,1:0|0:0|2:0,0:0:0:0:"
	ho, ok := decodeHitObject(line)
	if !ok {
		t.Fatal("expected slider to decode")
	}

	s := ho.Slider()
	if s == nil {
		t.Fatal("expected slider payload")
	}
	if s.PathType != curve.PathBezier {
		t.Errorf("expected Bezier path, got %v", s.PathType)
	}
	if len(s.ControlPoints) != 4 {
		t.Fatalf("expected 4 control points, got %d", len(s.ControlPoints))
	}
	if s.ControlPoints[3] != (math.Vec2{X: 250, Y: 150}) {
		t.Errorf("unexpected last control point %v", s.ControlPoints[3])
	}
	if s.Repeats != 2 || s.Length != 180 {
		t.Errorf("unexpected repeats/length %d/%v", s.Repeats, s.Length)
	}

	wantSounds := []HitSound{HitSoundWhistle, 0, HitSoundClap}
	if len(s.EdgeSounds) != len(wantSounds) {
		t.Fatalf("expected %d edge sounds, got %d", len(wantSounds), len(s.EdgeSounds))
	}
	for i, hs := range wantSounds {
		if s.EdgeSounds[i] != hs {
			t.Errorf("edge sound %d = %d, expected %d", i, s.EdgeSounds[i], hs)
		}
	}

	wantSets := []EdgeSet{
		{NormalSet: SampleSetNormal},
		{},
		{NormalSet: SampleSetSoft},
	}
	if len(s.EdgeSets) != len(wantSets) {
		t.Fatalf("expected %d edge sets, got %d", len(wantSets), len(s.EdgeSets))
	}
	for i, es := range wantSets {
		if s.EdgeSets[i] != es {
			t.Errorf("edge set %d = %+v, expected %+v", i, s.EdgeSets[i], es)
		}
	}

	if ho.Sample == nil {
		t.Error("expected slider sample")
	}
	if s.Path != nil {
		t.Error("path must not be computed during decoding")
	}
}

func TestDecodeHitObject_SliderRepeats(t *testing.T) {
	tests := []struct {
		field    string
		expected int
	}{
		{"1", 1},
		{"3", 3},
		{"0", 1},
		{"-2", 1},
		{"x", 1},
	}

	for _, tc := range tests {
		ho, ok := decodeHitObject("0,0,0,2,0,L|100:0," + tc.field + ",100")
		if !ok {
			t.Fatalf("repeats %q: expected slider to decode", tc.field)
		}
		if got := ho.Slider().Repeats; got != tc.expected {
			t.Errorf("repeats %q decoded as %d, expected %d", tc.field, got, tc.expected)
		}
	}
}

func TestDecodeHitObject_SliderRejected(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "0,0,0,2,0,L|100:0,1"},
		{"no control points", "0,0,0,2,0,L,1,100"},
		{"malformed points", "0,0,0,2,0,B|abc|def,1,100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := decodeHitObject(tt.line); ok {
				t.Errorf("expected %q to be rejected", tt.line)
			}
		})
	}
}

func TestDecodeHitObject_Spinner(t *testing.T) {
	ho, ok := decodeHitObject("10,20,3000,12,0,5000,0:0:0:0:")
	if !ok {
		t.Fatal("expected spinner to decode")
	}
	if ho.Kind() != KindSpinner {
		t.Fatalf("expected spinner, got %v", ho.Kind())
	}
	if ho.EndTime != 5000 {
		t.Errorf("expected end time 5000, got %d", ho.EndTime)
	}
	if ho.EndPos != PlayfieldCenter() {
		t.Errorf("expected end position %v, got %v", PlayfieldCenter(), ho.EndPos)
	}
	if ho.Sample == nil {
		t.Error("expected spinner sample")
	}
	if !ho.Type.NewCombo() {
		t.Error("expected new combo bit")
	}
}

func TestDecodeHitObject_SpinnerWithoutEnd(t *testing.T) {
	ho, ok := decodeHitObject("256,192,3000,8,0")
	if !ok {
		t.Fatal("expected spinner to decode")
	}
	if ho.EndTime != 3000 {
		t.Errorf("expected end time to default to start, got %d", ho.EndTime)
	}
}

func TestDecodeHitObject_Hold(t *testing.T) {
	ho, ok := decodeHitObject("50,50,1000,128,0,1500:0:0:0:0:")
	if !ok {
		t.Fatal("expected hold to decode")
	}
	if ho.Kind() != KindHold {
		t.Fatalf("expected hold, got %v", ho.Kind())
	}
	if ho.EndTime != 1500 {
		t.Errorf("expected end time 1500, got %d", ho.EndTime)
	}
	if ho.Sample == nil || ho.Sample.Volume != 0 || ho.Sample.Filename != "" {
		t.Errorf("unexpected hold sample %+v", ho.Sample)
	}

	b := ParseOSU([]byte("[HitObjects]\n50,50,1000,128,0,1500:0:0:0:0:\n"))
	if b.HoldCount != 1 || b.HitObjects[0].EndTime != 1500 {
		t.Errorf("unexpected document: holds=%d", b.HoldCount)
	}
}

func TestDecodeHitObject_HoldEndOnly(t *testing.T) {
	ho, ok := decodeHitObject("50,50,1000,128,0,2500")
	if !ok {
		t.Fatal("expected hold to decode")
	}
	if ho.EndTime != 2500 || ho.Sample != nil {
		t.Errorf("unexpected hold %+v", ho)
	}
}

func TestDecodeHitObject_Rejected(t *testing.T) {
	tests := []string{
		"",
		"100,100,1000",
		"100,100,1000,0,0",
		"100,100,1000,4,0",
		"100,100,1000,abc,0",
	}

	for _, line := range tests {
		if _, ok := decodeHitObject(line); ok {
			t.Errorf("expected %q to be rejected", line)
		}
	}
}

func TestDecodeHitObject_FractionalFields(t *testing.T) {
	ho, ok := decodeHitObject("100.5,200.25,1000.9,1,0")
	if !ok {
		t.Fatal("expected circle to decode")
	}
	if ho.Pos != (math.Vec2{X: 100.5, Y: 200.25}) {
		t.Errorf("unexpected position %v", ho.Pos)
	}
	if ho.Time != 1000 {
		t.Errorf("expected truncated time 1000, got %d", ho.Time)
	}
}

func TestDecodeHitSample(t *testing.T) {
	tests := []struct {
		input    string
		expected HitSample
	}{
		{"0:0:0:0:", HitSample{}},
		{"2:3:1:70:hit.wav", HitSample{SampleSetSoft, SampleSetDrum, 1, 70, "hit.wav"}},
		{"1:0", HitSample{NormalSet: SampleSetNormal}},
		{"9:0:0:0:", HitSample{}},
		{"0:0:0:0:dir\\a:b.wav", HitSample{Filename: "dir/a:b.wav"}},
	}

	for _, tc := range tests {
		got := decodeHitSample(tc.input)
		if *got != tc.expected {
			t.Errorf("decodeHitSample(%q) = %+v, expected %+v", tc.input, *got, tc.expected)
		}
	}
}

func TestDecodeHitObject_UnparseableEndTime(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"spinner", "256,192,3000,8,0,abc"},
		{"hold", "50,50,3000,128,0,abc:0:0:0:0:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ho, ok := decodeHitObject(tt.line)
			if !ok {
				t.Fatal("expected object to decode")
			}
			if ho.EndTime != ho.Time {
				t.Errorf("expected end time to fall back to start %d, got %d", ho.Time, ho.EndTime)
			}
		})
	}
}
