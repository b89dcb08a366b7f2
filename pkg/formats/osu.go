package formats

import (
	"fmt"

	"github.com/Faultbox/osumap/pkg/curve"
	"github.com/Faultbox/osumap/pkg/math"
)

// Format constants.
const (
	DefaultFormatVersion = 14
	ApproachRateUnset    = -1.0
)

// PlayfieldCenter returns the end position of every spinner.
func PlayfieldCenter() math.Vec2 {
	return math.Vec2{X: 256, Y: 192}
}

// Mode is the ruleset a beatmap is made for.
type Mode int

// Game modes.
const (
	ModeStandard Mode = 0
	ModeTaiko    Mode = 1
	ModeCatch    Mode = 2
	ModeMania    Mode = 3
)

// String returns the ruleset name.
func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "osu"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "fruits"
	case ModeMania:
		return "mania"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Metadata holds the [Metadata] section.
type Metadata struct {
	Title         string
	TitleUnicode  string
	Artist        string
	ArtistUnicode string
	Creator       string
	Version       string // difficulty name
	Source        string
	Tags          string
	BeatmapID     int
	BeatmapSetID  int
}

// General holds the [General] keys this package understands, except Mode
// which lives on Beatmap.
type General struct {
	AudioFilename string
	AudioLeadIn   int
	PreviewTime   int
	StackLeniency float64
}

// Difficulty holds the [Difficulty] section.
type Difficulty struct {
	ApproachRate      float64
	CircleSize        float64
	OverallDifficulty float64
	HPDrainRate       float64
	SliderMultiplier  float64
	SliderTickRate    float64
}

// DefaultDifficulty returns the values used for keys a file omits.
// ApproachRate starts unset and falls back to OverallDifficulty.
func DefaultDifficulty() Difficulty {
	return Difficulty{
		ApproachRate:      ApproachRateUnset,
		CircleSize:        5,
		OverallDifficulty: 5,
		HPDrainRate:       5,
		SliderMultiplier:  1,
		SliderTickRate:    1,
	}
}

// Beatmap is a fully parsed .osu document.
type Beatmap struct {
	FormatVersion int
	Mode          Mode
	General       General
	Metadata      Metadata
	Difficulty    Difficulty

	TimingPoints []TimingPoint
	HitObjects   []HitObject

	CircleCount  int
	SliderCount  int
	SpinnerCount int
	HoldCount    int
}

func newBeatmap() *Beatmap {
	return &Beatmap{
		FormatVersion: DefaultFormatVersion,
		General:       General{PreviewTime: -1},
		Difficulty:    DefaultDifficulty(),
	}
}

// SampleSet identifies a hit sound bank.
type SampleSet uint8

// Sample sets.
const (
	SampleSetNone SampleSet = iota
	SampleSetNormal
	SampleSetSoft
	SampleSetDrum
)

// String returns the bank name.
func (s SampleSet) String() string {
	switch s {
	case SampleSetNone:
		return "None"
	case SampleSetNormal:
		return "Normal"
	case SampleSetSoft:
		return "Soft"
	case SampleSetDrum:
		return "Drum"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

func toSampleSet(id int) SampleSet {
	if id < 0 || id > int(SampleSetDrum) {
		return SampleSetNone
	}
	return SampleSet(id)
}

// TimingPoint is a single line of [TimingPoints].
type TimingPoint struct {
	Time             float64
	BeatLength       float64 // raw value, negative for inherited points
	Meter            int
	SampleSet        SampleSet
	SampleIndex      int
	Volume           int
	Change           bool
	Kiai             bool
	OmitFirstBarLine bool

	Uninherited bool
	Velocity    float64
	// ResolvedBeatLength is the beat length of the latest preceding
	// uninherited point with a positive beat length, 0 before any.
	ResolvedBeatLength float64
}

// BPM returns the tempo of the resolved beat length, 0 if unknown.
func (tp TimingPoint) BPM() float64 {
	if tp.ResolvedBeatLength <= 0 {
		return 0
	}
	return 60000 / tp.ResolvedBeatLength
}

// ObjectKind is the decoded kind of a hit object.
type ObjectKind uint8

// Hit object kinds.
const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindCircle:
		return "Circle"
	case KindSlider:
		return "Slider"
	case KindSpinner:
		return "Spinner"
	case KindHold:
		return "Hold"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// TypeFlags is the bit-packed type field of a hit object.
type TypeFlags int

// Type bits.
const (
	TypeCircle   TypeFlags = 1 << 0
	TypeSlider   TypeFlags = 1 << 1
	TypeNewCombo TypeFlags = 1 << 2
	TypeSpinner  TypeFlags = 1 << 3
	TypeHold     TypeFlags = 1 << 7

	typeComboSkipShift = 4
	typeComboSkipMask  = 0x7
)

// Kind decodes the object kind. Circle wins over Slider, Slider over
// Spinner and Spinner over Hold when several bits are set.
func (f TypeFlags) Kind() (ObjectKind, bool) {
	switch {
	case f&TypeCircle != 0:
		return KindCircle, true
	case f&TypeSlider != 0:
		return KindSlider, true
	case f&TypeSpinner != 0:
		return KindSpinner, true
	case f&TypeHold != 0:
		return KindHold, true
	default:
		return 0, false
	}
}

// NewCombo reports whether the object starts a new combo.
func (f TypeFlags) NewCombo() bool {
	return f&TypeNewCombo != 0
}

// ComboSkip returns how many combo colours to skip.
func (f TypeFlags) ComboSkip() int {
	return int(f>>typeComboSkipShift) & typeComboSkipMask
}

// HitSound is the bit field of additional hit sounds.
type HitSound uint8

// Hit sound bits.
const (
	HitSoundNormal  HitSound = 1 << 0
	HitSoundWhistle HitSound = 1 << 1
	HitSoundFinish  HitSound = 1 << 2
	HitSoundClap    HitSound = 1 << 3
)

// HitSample overrides the sample banks of an object.
type HitSample struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

// EdgeSet is the sample bank pair of one slider edge.
type EdgeSet struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
}

// HitObject is a single line of [HitObjects]. Kind specific data lives in
// Payload.
type HitObject struct {
	Pos      math.Vec2
	Time     int
	Type     TypeFlags
	HitSound HitSound
	EndTime  int
	EndPos   math.Vec2

	// Filled by ComputeCombos.
	ComboNumber int
	ComboCount  int

	Sample  *HitSample
	Payload Payload
}

// Kind returns the kind of the payload.
func (o *HitObject) Kind() ObjectKind {
	return o.Payload.Kind()
}

// Slider returns the slider payload, or nil for other kinds.
func (o *HitObject) Slider() *Slider {
	s, _ := o.Payload.(*Slider)
	return s
}

// Payload is the kind specific part of a hit object. The set of
// implementations is closed.
type Payload interface {
	Kind() ObjectKind
	isPayload()
}

// Circle is a single tap.
type Circle struct{}

// Slider is a curved object traversed Repeats times.
type Slider struct {
	PathType      curve.PathType
	ControlPoints []math.Vec2 // excludes the head position
	Repeats       int
	Length        float64

	EdgeSounds []HitSound
	EdgeSets   []EdgeSet

	// Path caches the computed polyline once resolved.
	Path []math.Vec2
}

// Spinner spins until EndTime.
type Spinner struct{}

// Hold is a mania long note.
type Hold struct{}

func (Circle) Kind() ObjectKind  { return KindCircle }
func (*Slider) Kind() ObjectKind { return KindSlider }
func (Spinner) Kind() ObjectKind { return KindSpinner }
func (Hold) Kind() ObjectKind    { return KindHold }
func (Circle) isPayload()        {}
func (*Slider) isPayload()       {}
func (Spinner) isPayload()       {}
func (Hold) isPayload()          {}

// ComputePath builds the slider polyline starting at head, truncated to
// the slider length. The receiver is not modified.
func (s *Slider) ComputePath(head math.Vec2) []math.Vec2 {
	return curve.Build(s.PathType, head, s.ControlPoints, s.Length)
}

// EndPosition returns where the slider finishes given its path: the head
// for an even repeat count, the path end for an odd one.
func (s *Slider) EndPosition(head math.Vec2, path []math.Vec2) math.Vec2 {
	if s.Repeats%2 == 0 || len(path) == 0 {
		return head
	}
	return path[len(path)-1]
}
