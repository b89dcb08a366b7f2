package formats

import "slices"

// Records is a beatmap handed over as already decoded values rather than
// as .osu text, for example by a database or another decoder.
type Records struct {
	FormatVersion int
	Mode          Mode
	General       General
	Metadata      Metadata
	Difficulty    Difficulty
	TimingPoints  []TimingPoint
	HitObjects    []HitObject
}

// NewRecords returns Records holding the same defaults a parse starts from.
func NewRecords() Records {
	b := newBeatmap()
	return Records{
		FormatVersion: b.FormatVersion,
		General:       b.General,
		Difficulty:    b.Difficulty,
	}
}

// FromRecords assembles a beatmap from structured input. The full timing
// point set is known up front, so points are resolved in SortedOrder. The
// slices of r are copied.
func FromRecords(r Records) *Beatmap {
	b := &Beatmap{
		FormatVersion: r.FormatVersion,
		Mode:          r.Mode,
		General:       r.General,
		Metadata:      r.Metadata,
		Difficulty:    r.Difficulty,
		TimingPoints:  slices.Clone(r.TimingPoints),
		HitObjects:    slices.Clone(r.HitObjects),
	}
	Assemble(b, SortedOrder)
	return b
}
