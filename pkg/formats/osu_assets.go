package formats

import (
	"bytes"
	"strings"

	"github.com/Faultbox/osumap/pkg/encoding"
)

// AssetScanLimit is how many leading bytes ParseAssets looks at.
const AssetScanLimit = 64 << 10

// Video is the first video event of a beatmap.
type Video struct {
	Filename string
	Offset   int
}

// Assets lists the media files a beatmap references.
type Assets struct {
	AudioFilename      string
	BackgroundFilename string
	Video              *Video
}

// ParseAssets extracts the audio, background and video file names. Only
// the first AssetScanLimit bytes are read and scanning ends at the
// TimingPoints, Colours or HitObjects section.
func ParseAssets(data []byte) Assets {
	if len(data) > AssetScanLimit {
		data = data[:AssetScanLimit]
		if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
			data = data[:i]
		}
	}

	var a Assets
	section := ""
	forEachLine(encoding.DecodeText(data), func(raw string) bool {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			return true
		}
		if name, ok := sectionName(line); ok {
			section = name
			return section != SectionTimingPoints && section != SectionColours && section != SectionHitObjects
		}

		switch section {
		case SectionGeneral:
			if key, val := splitKeyVal(line); strings.EqualFold(key, "AudioFilename") {
				a.AudioFilename = encoding.CleanFilename(val)
			}
		case SectionEvents:
			a.readEvent(splitQuoted(line))
		}
		return true
	})
	return a
}

func (a *Assets) readEvent(parts []string) {
	if len(parts) < 3 {
		return
	}
	switch strings.ToLower(parts[0]) {
	case "0", "background":
		if a.BackgroundFilename == "" {
			a.BackgroundFilename = encoding.CleanFilename(parts[2])
		}
	case "1", "video":
		if a.Video == nil {
			a.Video = &Video{
				Filename: encoding.CleanFilename(parts[2]),
				Offset:   parseInt(parts[1], 0),
			}
		}
	}
}

// splitQuoted splits a comma separated line, keeping commas inside double
// quotes. Fields are trimmed; quotes are kept.
func splitQuoted(line string) []string {
	var out []string
	inQuote := false
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				out = append(out, strings.TrimSpace(line[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(line[start:]))
}
