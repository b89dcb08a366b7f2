// Package osz provides reading functionality for osu! beatmap archives.
//
// An .osz file is a zip archive holding every difficulty of a beatmap set
// together with its audio, backgrounds and skin elements.
package osz

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/osumap/pkg/encoding"
)

// Extension is the file extension of beatmap archives.
const Extension = ".osz"

// BeatmapExtension is the file extension of beatmap difficulties.
const BeatmapExtension = ".osu"

var (
	// ErrNotArchive is returned when a file is not a readable zip archive.
	ErrNotArchive = errors.New("not an osz archive")
	// ErrEntryNotFound is returned by Read for unknown paths.
	ErrEntryNotFound = errors.New("entry not found")
)

// Archive represents an opened .osz archive.
type Archive struct {
	reader   *zip.ReadCloser
	fileList map[string]*Entry
}

// Entry represents a file entry in the archive.
type Entry struct {
	Name             string // original name, slash separated
	CompressedSize   uint64
	UncompressedSize uint64

	file *zip.File
}

// Open opens an .osz archive for reading.
func Open(filename string) (*Archive, error) {
	reader, err := zip.OpenReader(filename)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("opening %s: %w", filename, ErrNotArchive)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}

	archive := &Archive{
		reader:   reader,
		fileList: make(map[string]*Entry, len(reader.File)),
	}
	archive.readFileTable()
	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.reader != nil {
		return a.reader.Close()
	}
	return nil
}

func (a *Archive) readFileTable() {
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		key := encoding.NormalizePath(f.Name)
		if _, dup := a.fileList[key]; dup {
			continue
		}
		a.fileList[key] = &Entry{
			Name:             encoding.CleanFilename(f.Name),
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			file:             f,
		}
	}
}

// List returns all file paths in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.fileList))
	for _, entry := range a.fileList {
		result = append(result, entry.Name)
	}
	slices.Sort(result)
	return result
}

// Contains checks if a file exists. Lookup ignores case and accepts
// backslash separators.
func (a *Archive) Contains(name string) bool {
	_, ok := a.fileList[encoding.NormalizePath(name)]
	return ok
}

// Stat returns the entry for name.
func (a *Archive) Stat(name string) (*Entry, bool) {
	entry, ok := a.fileList[encoding.NormalizePath(name)]
	return entry, ok
}

// Read reads a file from the archive.
func (a *Archive) Read(name string) ([]byte, error) {
	entry, ok := a.fileList[encoding.NormalizePath(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}

	rc, err := entry.file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
	}
	return data, nil
}

// Beatmaps returns the paths of all .osu files in the archive, sorted.
func (a *Archive) Beatmaps() []string {
	var result []string
	for _, name := range a.List() {
		if strings.EqualFold(path.Ext(name), BeatmapExtension) {
			result = append(result, name)
		}
	}
	return result
}

// ReadBeatmaps reads every .osu file of the archive. Entries that fail
// are left out of the result and their errors are combined.
func (a *Archive) ReadBeatmaps() (map[string][]byte, error) {
	var errs error
	result := make(map[string][]byte)
	for _, name := range a.Beatmaps() {
		data, err := a.Read(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		result[name] = data
	}
	return result, errs
}
