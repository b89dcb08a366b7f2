package formats

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/osumap/pkg/encoding"
)

// Info is the metadata-only view of a beatmap.
type Info struct {
	Filename string
	Title    string
	Artist   string
	Version  string
	Mode     Mode
	AR       float64
	CS       float64
	OD       float64
	HP       float64
}

// infoStop lists the sections at which ParseInfo stops reading.
var infoStop = map[string]bool{
	SectionEvents:       true,
	SectionTimingPoints: true,
	SectionColours:      true,
	SectionHitObjects:   true,
}

// ParseInfo reads only the header sections of a .osu document. It walks
// lines like ParseOSU but stops at the first Events, TimingPoints,
// Colours or HitObjects section header. filename is copied verbatim.
func ParseInfo(filename string, data []byte) Info {
	s := scanState{doc: newBeatmap()}
	forEachLine(encoding.DecodeText(data), func(line string) bool {
		s = s.step(line)
		return !infoStop[s.section]
	})

	b := s.doc
	Assemble(b, FileOrder)
	return Info{
		Filename: filename,
		Title:    b.Metadata.Title,
		Artist:   b.Metadata.Artist,
		Version:  b.Metadata.Version,
		Mode:     b.Mode,
		AR:       b.Difficulty.ApproachRate,
		CS:       b.Difficulty.CircleSize,
		OD:       b.Difficulty.OverallDifficulty,
		HP:       b.Difficulty.HPDrainRate,
	}
}

// ParseInfoFile reads the info record of a .osu file on disk, keyed by
// its base name.
func ParseInfoFile(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("reading osu file: %w", err)
	}
	return ParseInfo(filepath.Base(path), data), nil
}
