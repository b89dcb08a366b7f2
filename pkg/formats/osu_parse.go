package formats

import (
	"fmt"
	gomath "math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Faultbox/osumap/pkg/encoding"
)

// Section names.
const (
	SectionGeneral      = "General"
	SectionEditor       = "Editor"
	SectionMetadata     = "Metadata"
	SectionDifficulty   = "Difficulty"
	SectionEvents       = "Events"
	SectionTimingPoints = "TimingPoints"
	SectionColours      = "Colours"
	SectionHitObjects   = "HitObjects"
)

var headerPattern = regexp.MustCompile(`^osu file format v(\d+)$`)

// Options tunes ParseOSUWithOptions.
type Options struct {
	TimingOrder TimingOrder
}

// ParseOSU parses a .osu document. It never fails: malformed lines are
// skipped and missing values keep their defaults.
func ParseOSU(data []byte) *Beatmap {
	return ParseOSUWithOptions(data, Options{})
}

// ParseOSUWithOptions parses a .osu document with explicit options.
func ParseOSUWithOptions(data []byte, opts Options) *Beatmap {
	s := scanState{doc: newBeatmap()}
	forEachLine(encoding.DecodeText(data), func(line string) bool {
		s = s.step(line)
		return true
	})
	Assemble(s.doc, opts.TimingOrder)
	return s.doc
}

// ParseOSUFile parses a .osu file from disk.
func ParseOSUFile(path string) (*Beatmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading osu file: %w", err)
	}
	return ParseOSU(data), nil
}

// scanState is the accumulator threaded through the line fold.
type scanState struct {
	section string
	doc     *Beatmap
}

// step consumes one physical line.
func (s scanState) step(raw string) scanState {
	if raw == "" || raw[0] == ' ' || raw[0] == '_' {
		return s
	}
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "//") {
		return s
	}

	if s.section == "" {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				s.doc.FormatVersion = v
			}
			return s
		}
	}
	if name, ok := sectionName(line); ok {
		s.section = name
		return s
	}

	switch s.section {
	case SectionGeneral:
		s.doc.readGeneral(splitKeyVal(line))
	case SectionMetadata:
		s.doc.readMetadata(splitKeyVal(line))
	case SectionDifficulty:
		s.doc.readDifficulty(splitKeyVal(line))
	case SectionTimingPoints:
		if tp, ok := decodeTimingPoint(line); ok {
			s.doc.TimingPoints = append(s.doc.TimingPoints, tp)
		}
	case SectionHitObjects:
		if ho, ok := decodeHitObject(line); ok {
			s.doc.HitObjects = append(s.doc.HitObjects, ho)
		}
	}
	return s
}

func (b *Beatmap) readGeneral(key, val string) {
	switch strings.ToLower(key) {
	case "mode":
		b.Mode = parseMode(val)
	case "audiofilename":
		b.General.AudioFilename = encoding.CleanFilename(val)
	case "audioleadin":
		b.General.AudioLeadIn = parseInt(val, 0)
	case "previewtime":
		b.General.PreviewTime = parseInt(val, -1)
	case "stackleniency":
		b.General.StackLeniency = parseFloat(val, 0.7)
	}
}

func (b *Beatmap) readMetadata(key, val string) {
	m := &b.Metadata
	switch strings.ToLower(key) {
	case "title":
		m.Title = val
	case "titleunicode":
		m.TitleUnicode = val
	case "artist":
		m.Artist = val
	case "artistunicode":
		m.ArtistUnicode = val
	case "creator":
		m.Creator = val
	case "version":
		m.Version = val
	case "source":
		m.Source = val
	case "tags":
		m.Tags = val
	case "beatmapid":
		m.BeatmapID = parseInt(val, 0)
	case "beatmapsetid":
		m.BeatmapSetID = parseInt(val, 0)
	}
}

func (b *Beatmap) readDifficulty(key, val string) {
	d := &b.Difficulty
	switch strings.ToLower(key) {
	case "approachrate":
		d.ApproachRate = parseFloat(val, d.ApproachRate)
	case "circlesize":
		d.CircleSize = parseFloat(val, d.CircleSize)
	case "overalldifficulty":
		d.OverallDifficulty = parseFloat(val, d.OverallDifficulty)
	case "hpdrainrate":
		d.HPDrainRate = parseFloat(val, d.HPDrainRate)
	case "slidermultiplier":
		d.SliderMultiplier = parseFloat(val, d.SliderMultiplier)
	case "slidertickrate":
		d.SliderTickRate = parseFloat(val, d.SliderTickRate)
	}
}

// forEachLine calls fn for every physical line of text until fn returns
// false. Line terminators (\n, \r\n) are removed.
func forEachLine(text string, fn func(line string) bool) {
	for len(text) > 0 {
		var line string
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			line, text = text, ""
		}
		if !fn(strings.TrimSuffix(line, "\r")) {
			return
		}
	}
}

// sectionName returns Name for a line of the exact shape [Name].
func sectionName(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	name := line[1 : len(line)-1]
	for _, known := range []string{
		SectionGeneral, SectionEditor, SectionMetadata, SectionDifficulty,
		SectionEvents, SectionTimingPoints, SectionColours, SectionHitObjects,
	} {
		if strings.EqualFold(name, known) {
			return known, true
		}
	}
	return name, true
}

func parseMode(s string) Mode {
	m := Mode(parseInt(s, 0))
	if m < ModeStandard || m > ModeMania {
		return ModeStandard
	}
	return m
}

func splitKeyVal(line string) (key, val string) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

// parseInt accepts integers and truncates decimal values; anything else
// yields def.
func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || gomath.IsNaN(f) || f > gomath.MaxInt32 || f < gomath.MinInt32 {
		return def
	}
	return int(f)
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// field returns parts[i] or "" when out of range.
func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
