package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/Faultbox/osumap/pkg/curve"
	"github.com/Faultbox/osumap/pkg/formats"
	"github.com/Faultbox/osumap/pkg/osz"
)

var shortUnits durafmt.Units

func init() {
	var err error
	shortUnits, err = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")
	if err != nil {
		panic(fmt.Sprintf("decoding duration units: %v", err))
	}
}

// document is one .osu file, on disk or inside an archive.
type document struct {
	name string
	data []byte
}

// source is an opened .osu file or .osz archive.
type source struct {
	archive *osz.Archive // nil for plain files
	docs    []document
}

func (s *source) Close() error {
	if s.archive != nil {
		return s.archive.Close()
	}
	return nil
}

// openSource loads path. For archives only difficulties whose file name
// contains filter are kept.
func openSource(path, filter string) (*source, error) {
	if !strings.EqualFold(filepath.Ext(path), osz.Extension) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return &source{docs: []document{{name: filepath.Base(path), data: data}}}, nil
	}

	archive, err := osz.Open(path)
	if err != nil {
		return nil, err
	}
	src := &source{archive: archive}
	filter = strings.ToLower(filter)
	for _, name := range archive.Beatmaps() {
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		data, err := archive.Read(name)
		if err != nil {
			archive.Close()
			return nil, err
		}
		src.docs = append(src.docs, document{name: name, data: data})
	}
	if len(src.docs) == 0 {
		archive.Close()
		return nil, fmt.Errorf("no beatmap matching %q in %s", filter, path)
	}
	return src, nil
}

// sourceArgs parses "<file> [diff]" with the given flag set.
func sourceArgs(fs *flag.FlagSet, args []string, usage string) (*source, error) {
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: osutool "+usage)
		os.Exit(1)
	}
	return openSource(fs.Arg(0), fs.Arg(1))
}

func formatDuration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

func (a *app) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	src, err := sourceArgs(fs, args, "info <file.osu|file.osz> [diff]")
	if err != nil {
		return err
	}
	defer src.Close()

	for i, doc := range src.docs {
		if i > 0 {
			fmt.Println()
		}
		b := a.backend.Parse(doc.data)
		b.ResolveSliders()
		printInfo(doc, b)
	}
	return nil
}

func printInfo(doc document, b *formats.Beatmap) {
	m, d := b.Metadata, b.Difficulty

	fmt.Printf("File:       %s (%s)\n", doc.name, humanize.Bytes(uint64(len(doc.data))))
	fmt.Printf("Beatmap:    %s - %s [%s]\n", m.Artist, m.Title, m.Version)
	if m.Creator != "" {
		fmt.Printf("Creator:    %s\n", m.Creator)
	}
	if m.BeatmapID != 0 {
		fmt.Printf("IDs:        %d / set %d\n", m.BeatmapID, m.BeatmapSetID)
	}
	fmt.Printf("Mode:       %s\n", b.Mode)
	fmt.Printf("Format:     v%d\n", b.FormatVersion)
	fmt.Printf("Difficulty: AR %g  CS %g  OD %g  HP %g  SV %g\n",
		d.ApproachRate, d.CircleSize, d.OverallDifficulty, d.HPDrainRate, d.SliderMultiplier)
	fmt.Printf("Objects:    %s (circles %d, sliders %d, spinners %d, holds %d)\n",
		humanize.Comma(int64(len(b.HitObjects))), b.CircleCount, b.SliderCount, b.SpinnerCount, b.HoldCount)
	if lo, hi, ok := bpmRange(b); ok {
		if lo == hi {
			fmt.Printf("BPM:        %.0f\n", lo)
		} else {
			fmt.Printf("BPM:        %.0f-%.0f\n", lo, hi)
		}
	}
	fmt.Printf("Drain:      %s\n", formatDuration(b.DrainTime()))
}

// bpmRange returns the lowest and highest tempo of the beatmap.
func bpmRange(b *formats.Beatmap) (lo, hi float64, ok bool) {
	for _, tp := range b.TimingPoints {
		if !tp.Uninherited || tp.BPM() == 0 {
			continue
		}
		bpm := tp.BPM()
		if !ok {
			lo, hi, ok = bpm, bpm, true
			continue
		}
		lo, hi = min(lo, bpm), max(hi, bpm)
	}
	return lo, hi, ok
}

func (a *app) cmdParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	limit := fs.Int("n", 20, "Limit hit objects shown (0 = all)")
	timing := fs.Bool("timing", true, "Show timing points")
	src, err := sourceArgs(fs, args, "parse [-n N] [-timing=false] <file.osu|file.osz> [diff]")
	if err != nil {
		return err
	}
	defer src.Close()

	for _, doc := range src.docs {
		b := a.backend.Parse(doc.data)
		formats.ComputeCombos(b.HitObjects)
		fmt.Printf("== %s\n", doc.name)

		if *timing {
			fmt.Printf("\nTiming points (%d):\n", len(b.TimingPoints))
			fmt.Printf("  %10s %12s %5s %5s %8s %10s %s\n", "time", "beatlen", "meter", "red", "velocity", "resolved", "flags")
			for _, tp := range b.TimingPoints {
				var flags []string
				if tp.Kiai {
					flags = append(flags, "kiai")
				}
				if tp.OmitFirstBarLine {
					flags = append(flags, "omit")
				}
				fmt.Printf("  %10.0f %12.4f %5d %5t %8.3f %10.4f %s\n",
					tp.Time, tp.BeatLength, tp.Meter, tp.Uninherited, tp.Velocity, tp.ResolvedBeatLength, strings.Join(flags, ","))
			}
		}

		fmt.Printf("\nHit objects (%d):\n", len(b.HitObjects))
		fmt.Printf("  %8s %-8s %-16s %8s %s\n", "time", "kind", "pos", "end", "combo")
		for i, ho := range b.HitObjects {
			if *limit > 0 && i >= *limit {
				fmt.Printf("  ... %d more\n", len(b.HitObjects)-i)
				break
			}
			fmt.Printf("  %8d %-8s %-16s %8d %d.%d\n",
				ho.Time, ho.Kind(), fmt.Sprintf("%g,%g", ho.Pos.X, ho.Pos.Y), ho.EndTime, ho.ComboCount, ho.ComboNumber)
		}
	}
	return nil
}

func (a *app) cmdPaths(args []string) error {
	fs := flag.NewFlagSet("paths", flag.ExitOnError)
	limit := fs.Int("n", 20, "Limit sliders shown (0 = all)")
	points := fs.Bool("points", false, "Print every path point")
	src, err := sourceArgs(fs, args, "paths [-n N] [-points] <file.osu|file.osz> [diff]")
	if err != nil {
		return err
	}
	defer src.Close()

	for _, doc := range src.docs {
		b := a.backend.Parse(doc.data)
		b.ResolveSliders()
		fmt.Printf("== %s (%d sliders)\n", doc.name, b.SliderCount)

		shown := 0
		for i := range b.HitObjects {
			ho := &b.HitObjects[i]
			s := ho.Slider()
			if s == nil {
				continue
			}
			if *limit > 0 && shown >= *limit {
				fmt.Printf("  ... %d more\n", b.SliderCount-shown)
				break
			}
			shown++

			mid, _ := formats.SliderPositionAt(ho, (ho.Time+ho.EndTime)/2)
			fmt.Printf("  %8d %s x%d  length %.2f/%.2f  points %d  end (%.2f,%.2f)@%d  mid (%.2f,%.2f)\n",
				ho.Time, s.PathType, s.Repeats, curve.Length(s.Path), s.Length, len(s.Path),
				ho.EndPos.X, ho.EndPos.Y, ho.EndTime, mid.X, mid.Y)
			if *points {
				for _, p := range s.Path {
					fmt.Printf("           %.3f,%.3f\n", p.X, p.Y)
				}
			}
		}
	}
	return nil
}

func (a *app) cmdAssets(args []string) error {
	fs := flag.NewFlagSet("assets", flag.ExitOnError)
	src, err := sourceArgs(fs, args, "assets <file.osu|file.osz> [diff]")
	if err != nil {
		return err
	}
	defer src.Close()

	for _, doc := range src.docs {
		assets := formats.ParseAssets(doc.data)
		fmt.Printf("== %s\n", doc.name)
		printAsset(src, "Audio", assets.AudioFilename)
		printAsset(src, "Background", assets.BackgroundFilename)
		if assets.Video != nil {
			printAsset(src, fmt.Sprintf("Video (%+dms)", assets.Video.Offset), assets.Video.Filename)
		}
	}
	return nil
}

func printAsset(src *source, label, name string) {
	if name == "" {
		return
	}
	status := ""
	if src.archive != nil {
		if entry, ok := src.archive.Stat(name); ok {
			status = " (" + humanize.Bytes(entry.UncompressedSize) + ")"
		} else {
			status = " (missing)"
		}
	}
	fmt.Printf("  %-18s %s%s\n", label+":", name, status)
}

func (a *app) cmdExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: osutool extract <file.osz> <path> [output_dir]")
		os.Exit(1)
	}

	outputDir := "."
	if fs.NArg() > 2 {
		outputDir = fs.Arg(2)
	}

	archive, err := osz.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	pattern := strings.ToLower(fs.Arg(1))
	extracted := 0
	for _, name := range archive.List() {
		matched, _ := filepath.Match(pattern, strings.ToLower(filepath.Base(name)))
		if !matched && !strings.EqualFold(name, fs.Arg(1)) {
			continue
		}

		data, err := archive.Read(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", name, err)
			continue
		}

		// Preserve directory structure
		outputPath := filepath.Join(outputDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
			continue
		}

		fmt.Printf("Extracted: %s (%s)\n", outputPath, humanize.Bytes(uint64(len(data))))
		extracted++
	}

	if extracted == 0 {
		return fmt.Errorf("%s: %w", fs.Arg(1), osz.ErrEntryNotFound)
	}
	fmt.Fprintf(os.Stderr, "\nExtracted %d files\n", extracted)
	return nil
}
