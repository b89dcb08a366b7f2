package formats

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// scenarioOSU is the smallest document exercising every decoded section.
const scenarioOSU = "osu file format v14\n" +
	"[Difficulty]\n" +
	"ApproachRate:9\n" +
	"OverallDifficulty:8\n" +
	"[TimingPoints]\n" +
	"0,500,4,2,1,60,1,0\n" +
	"2000,-50,4,2,1,60,0,0\n" +
	"[HitObjects]\n" +
	"100,100,1000,1,0\n" +
	"200,200,2000,2,0,L|300:300,1,100\n"

// fullOSU is a realistic document with all sections and some noise.
const fullOSU = "\ufeffosu file format v12\r\n" +
	"\r\n" +
	"[General]\r\n" +
	"AudioFilename: audio.mp3\r\n" +
	"AudioLeadIn: 0\r\n" +
	"PreviewTime: 64544\r\n" +
	"StackLeniency: 0.5\r\n" +
	"Mode: 0\r\n" +
	"\r\n" +
	"[Editor]\r\n" +
	"BeatDivisor: 4\r\n" +
	"\r\n" +
	"[Metadata]\r\n" +
	"Title:Blue Zenith\r\n" +
	"TitleUnicode:Blue Zenith\r\n" +
	"Artist:xi\r\n" +
	"ArtistUnicode:xi\r\n" +
	"Creator:Asphyxia\r\n" +
	"Version:FOUR DIMENSIONS\r\n" +
	"Source:BMS\r\n" +
	"Tags:onosakihito\r\n" +
	"BeatmapID:658127\r\n" +
	"BeatmapSetID:292301\r\n" +
	"\r\n" +
	"[Difficulty]\r\n" +
	"HPDrainRate:6\r\n" +
	"CircleSize:4\r\n" +
	"OverallDifficulty:8\r\n" +
	"ApproachRate:9.3\r\n" +
	"SliderMultiplier:1.8\r\n" +
	"SliderTickRate:2\r\n" +
	"\r\n" +
	"[Events]\r\n" +
	"//Background and Video events\r\n" +
	"0,0,\"bg.jpg\",0,0\r\n" +
	"\r\n" +
	"[TimingPoints]\r\n" +
	"1159,379.746835443038,4,2,1,60,1,0\r\n" +
	"1159,-100,4,2,1,60,0,0\r\n" +
	"13311,-76.9230769230769,4,2,1,70,0,1\r\n" +
	"\r\n" +
	"[Colours]\r\n" +
	"Combo1 : 255,128,0\r\n" +
	"\r\n" +
	"[HitObjects]\r\n" +
	"256,192,1159,5,4,0:0:0:0:\r\n" +
	"100,100,1538,2,0,B|150:50|200:100|200:100|250:150,2,180,2|0|8,1:0|0:0|2:0,0:0:0:0:\r\n" +
	"256,192,3000,12,0,5000,0:0:0:0:\r\n" +
	"broken line\r\n" +
	"50,50\r\n"

func TestParseOSU_Scenario(t *testing.T) {
	b := ParseOSU([]byte(scenarioOSU))

	if b.FormatVersion != 14 {
		t.Errorf("expected format version 14, got %d", b.FormatVersion)
	}
	if b.Difficulty.ApproachRate != 9 {
		t.Errorf("expected AR 9, got %v", b.Difficulty.ApproachRate)
	}
	if len(b.TimingPoints) != 2 {
		t.Fatalf("expected 2 timing points, got %d", len(b.TimingPoints))
	}

	red, green := b.TimingPoints[0], b.TimingPoints[1]
	if !red.Uninherited || red.Velocity != 1 || red.ResolvedBeatLength != 500 {
		t.Errorf("unexpected uninherited point: %+v", red)
	}
	if green.Uninherited || green.Velocity != 2 || green.ResolvedBeatLength != 500 {
		t.Errorf("unexpected inherited point: %+v", green)
	}

	if b.CircleCount != 1 || b.SliderCount != 1 {
		t.Errorf("expected 1 circle and 1 slider, got %d and %d", b.CircleCount, b.SliderCount)
	}
	if b.SpinnerCount != 0 || b.HoldCount != 0 {
		t.Errorf("unexpected spinner/hold counts %d/%d", b.SpinnerCount, b.HoldCount)
	}
}

func TestParseOSU_FullDocument(t *testing.T) {
	b := ParseOSU([]byte(fullOSU))

	if b.FormatVersion != 12 {
		t.Errorf("expected format version 12, got %d", b.FormatVersion)
	}
	if b.Mode != ModeStandard {
		t.Errorf("expected standard mode, got %v", b.Mode)
	}
	if b.General.AudioFilename != "audio.mp3" || b.General.PreviewTime != 64544 {
		t.Errorf("unexpected general section: %+v", b.General)
	}

	want := Metadata{
		Title:         "Blue Zenith",
		TitleUnicode:  "Blue Zenith",
		Artist:        "xi",
		ArtistUnicode: "xi",
		Creator:       "Asphyxia",
		Version:       "FOUR DIMENSIONS",
		Source:        "BMS",
		Tags:          "onosakihito",
		BeatmapID:     658127,
		BeatmapSetID:  292301,
	}
	if b.Metadata != want {
		t.Errorf("metadata = %+v, expected %+v", b.Metadata, want)
	}

	d := b.Difficulty
	if d.HPDrainRate != 6 || d.CircleSize != 4 || d.OverallDifficulty != 8 ||
		d.ApproachRate != 9.3 || d.SliderMultiplier != 1.8 || d.SliderTickRate != 2 {
		t.Errorf("unexpected difficulty: %+v", d)
	}

	if len(b.TimingPoints) != 3 {
		t.Fatalf("expected 3 timing points, got %d", len(b.TimingPoints))
	}
	if !b.TimingPoints[2].Kiai {
		t.Error("expected kiai on third timing point")
	}

	if len(b.HitObjects) != 3 {
		t.Fatalf("expected 3 hit objects, got %d", len(b.HitObjects))
	}
	if b.CircleCount != 1 || b.SliderCount != 1 || b.SpinnerCount != 1 {
		t.Errorf("unexpected counts %d/%d/%d", b.CircleCount, b.SliderCount, b.SpinnerCount)
	}
}

func TestParseOSU_Defaults(t *testing.T) {
	b := ParseOSU(nil)

	if b.FormatVersion != DefaultFormatVersion {
		t.Errorf("expected default version %d, got %d", DefaultFormatVersion, b.FormatVersion)
	}
	d := b.Difficulty
	if d.CircleSize != 5 || d.OverallDifficulty != 5 || d.HPDrainRate != 5 ||
		d.SliderMultiplier != 1 || d.SliderTickRate != 1 {
		t.Errorf("unexpected default difficulty: %+v", d)
	}
	if d.ApproachRate != d.OverallDifficulty {
		t.Errorf("expected AR to fall back to OD, got %v", d.ApproachRate)
	}
	if len(b.TimingPoints) != 0 || len(b.HitObjects) != 0 {
		t.Error("expected empty sequences")
	}
}

func TestParseOSU_ApproachRateFallback(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"missing", "[Difficulty]\nOverallDifficulty:7\n", 7},
		{"present", "[Difficulty]\nOverallDifficulty:7\nApproachRate:9.5\n", 9.5},
		{"before od", "[Difficulty]\nApproachRate:3\nOverallDifficulty:7\n", 3},
		{"unparseable", "[Difficulty]\nOverallDifficulty:6\nApproachRate:fast\n", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ParseOSU([]byte(tt.input))
			if b.Difficulty.ApproachRate != tt.expected {
				t.Errorf("AR = %v, expected %v", b.Difficulty.ApproachRate, tt.expected)
			}
		})
	}
}

func TestParseOSU_IgnoredLines(t *testing.T) {
	input := "[Metadata]\n" +
		"// Title:Comment\n" +
		" Title:Indented\n" +
		"_Title:Underscore\n" +
		"Title:Real\n" +
		"Unknown:Key\n"

	b := ParseOSU([]byte(input))
	if b.Metadata.Title != "Real" {
		t.Errorf("expected title Real, got %q", b.Metadata.Title)
	}
}

func TestParseOSU_InertSections(t *testing.T) {
	input := "[Events]\n" +
		"Title:Events\n" +
		"[Colours]\n" +
		"100,100,1000,1,0\n" +
		"[Custom]\n" +
		"0,500,4,2,1,60,1,0\n"

	b := ParseOSU([]byte(input))
	if b.Metadata.Title != "" || len(b.HitObjects) != 0 || len(b.TimingPoints) != 0 {
		t.Errorf("inert sections leaked into the document: %+v", b)
	}
}

func TestParseOSU_Mode(t *testing.T) {
	tests := []struct {
		value    string
		expected Mode
	}{
		{"0", ModeStandard},
		{"1", ModeTaiko},
		{"2", ModeCatch},
		{"3", ModeMania},
		{"9", ModeStandard},
		{"mania", ModeStandard},
	}

	for _, tc := range tests {
		b := ParseOSU([]byte("[General]\nMode: " + tc.value + "\n"))
		if b.Mode != tc.expected {
			t.Errorf("Mode %q parsed as %v, expected %v", tc.value, b.Mode, tc.expected)
		}
	}
}

func TestParseOSU_Garbage(t *testing.T) {
	blob := make([]byte, 4096)
	for i := range blob {
		blob[i] = byte(i*31 + 7)
	}

	b := ParseOSU(blob)
	if b.FormatVersion != DefaultFormatVersion {
		t.Errorf("unexpected version %d", b.FormatVersion)
	}
	if len(b.HitObjects) != 0 || len(b.TimingPoints) != 0 {
		t.Error("expected no objects from binary input")
	}
}

func TestParseOSU_Idempotent(t *testing.T) {
	first := ParseOSU([]byte(fullOSU))
	second := ParseOSU([]byte(fullOSU))

	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same input twice produced different documents")
	}
}

func TestParseOSU_CountsMatchObjects(t *testing.T) {
	b := ParseOSU([]byte(fullOSU + "64,192,6000,128,0,6500:0:0:0:0:\n"))

	counts := map[ObjectKind]int{}
	for i := range b.HitObjects {
		counts[b.HitObjects[i].Kind()]++
	}
	if counts[KindCircle] != b.CircleCount || counts[KindSlider] != b.SliderCount ||
		counts[KindSpinner] != b.SpinnerCount || counts[KindHold] != b.HoldCount {
		t.Errorf("counts %v disagree with document %d/%d/%d/%d",
			counts, b.CircleCount, b.SliderCount, b.SpinnerCount, b.HoldCount)
	}
	if b.HoldCount != 1 {
		t.Errorf("expected 1 hold, got %d", b.HoldCount)
	}
}

func TestParseOSUFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.osu")
	if err := os.WriteFile(path, []byte(scenarioOSU), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	b, err := ParseOSUFile(path)
	if err != nil {
		t.Fatalf("ParseOSUFile failed: %v", err)
	}
	if len(b.HitObjects) != 2 {
		t.Errorf("expected 2 hit objects, got %d", len(b.HitObjects))
	}

	if _, err := ParseOSUFile(filepath.Join(t.TempDir(), "missing.osu")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTextBackend(t *testing.T) {
	var backend Backend = TextBackend{Options: Options{TimingOrder: SortedOrder}}

	b := backend.Parse([]byte(scenarioOSU))
	if len(b.TimingPoints) != 2 {
		t.Errorf("expected 2 timing points, got %d", len(b.TimingPoints))
	}

	info := backend.ParseInfo("a.osu", []byte(scenarioOSU))
	if info.Filename != "a.osu" || info.AR != 9 {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestForEachLine(t *testing.T) {
	var lines []string
	forEachLine("a\r\nb\n\nc", func(line string) bool {
		lines = append(lines, line)
		return true
	})
	if strings.Join(lines, "|") != "a|b||c" {
		t.Errorf("unexpected lines %q", lines)
	}

	calls := 0
	forEachLine("a\nb\nc", func(string) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("expected early stop after 1 line, got %d", calls)
	}
}

func TestSectionName(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"[General]", SectionGeneral, true},
		{"[hitobjects]", SectionHitObjects, true},
		{"[Custom]", "Custom", true},
		{"[]", "", true},
		{"General", "", false},
		{"[General", "", false},
	}

	for _, tc := range tests {
		name, ok := sectionName(tc.line)
		if name != tc.name || ok != tc.ok {
			t.Errorf("sectionName(%q) = %q, %v; expected %q, %v", tc.line, name, ok, tc.name, tc.ok)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input    string
		def      int
		expected int
	}{
		{"42", 0, 42},
		{" -7 ", 0, -7},
		{"1500.75", 0, 1500},
		{"", 3, 3},
		{"abc", 9, 9},
		{"NaN", 1, 1},
		{"1e20", 2, 2},
	}

	for _, tc := range tests {
		if got := parseInt(tc.input, tc.def); got != tc.expected {
			t.Errorf("parseInt(%q, %d) = %d, expected %d", tc.input, tc.def, got, tc.expected)
		}
	}
}

func TestParseOSU_HeaderTextInsideSections(t *testing.T) {
	input := "osu file format v14\n" +
		"[Metadata]\n" +
		"Title:my osu file format v3 remix\n" +
		"Version:osu file format v9\n"

	b := ParseOSU([]byte(input))
	if b.FormatVersion != 14 {
		t.Errorf("expected format version 14, got %d", b.FormatVersion)
	}
	if b.Metadata.Title != "my osu file format v3 remix" {
		t.Errorf("title line was swallowed, got %q", b.Metadata.Title)
	}
	if b.Metadata.Version != "osu file format v9" {
		t.Errorf("version line was swallowed, got %q", b.Metadata.Version)
	}
}

func TestParseOSU_HeaderMustBeWholeLine(t *testing.T) {
	b := ParseOSU([]byte("not an osu file format v3 header\n"))
	if b.FormatVersion != DefaultFormatVersion {
		t.Errorf("expected default version %d, got %d", DefaultFormatVersion, b.FormatVersion)
	}
}
