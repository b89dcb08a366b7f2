// Package scan reads the header of every beatmap below a directory.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/osumap/internal/config"
	"github.com/Faultbox/osumap/internal/logger"
	"github.com/Faultbox/osumap/pkg/formats"
	"github.com/Faultbox/osumap/pkg/osz"
)

// Result is the info record of one beatmap found by a scan.
type Result struct {
	Path    string // file on disk
	Archive bool   // Path is an .osz and Info.Filename an entry of it
	Size    int64  // size of the .osu document in bytes
	Info    formats.Info
}

// Stats summarizes a scan.
type Stats struct {
	Files    int   // .osu files and archives visited
	Archives int   // archives among Files
	Beatmaps int   // info records produced
	Bytes    int64 // .osu bytes parsed
	Failed   int   // files or entries that could not be read
}

// Scanner parses beatmap headers concurrently.
type Scanner struct {
	backend         formats.Backend
	workers         int
	extensions      []string
	includeArchives bool
	log             *zap.Logger
}

// New creates a Scanner using backend for decoding.
func New(backend formats.Backend, cfg config.ScanConfig) *Scanner {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	exts := make([]string, 0, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Scanner{
		backend:         backend,
		workers:         workers,
		extensions:      exts,
		includeArchives: cfg.IncludeArchives,
		log:             logger.Named("scan"),
	}
}

// Scan walks root and returns the info record of every beatmap found,
// sorted by path and file name. Unreadable files do not stop the scan:
// their errors are combined into the returned error next to the results.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Result, Stats, error) {
	var stats Stats

	jobs, err := s.collect(root)
	if err != nil {
		return nil, stats, err
	}
	s.log.Debug("collected files", zap.String("root", root), zap.Int("files", len(jobs)))

	var (
		mu      sync.Mutex
		results []Result
		errs    error
	)
	record := func(rs []Result, err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, rs...)
		stats.Beatmaps += len(rs)
		for _, r := range rs {
			stats.Bytes += r.Size
		}
		if err != nil {
			stats.Failed += len(multierr.Errors(err))
			errs = multierr.Append(errs, err)
		}
	}

	wg := sizedwaitgroup.New(s.workers)
	for _, path := range jobs {
		if err := wg.AddWithContext(ctx); err != nil {
			break
		}
		stats.Files++
		if s.isArchive(path) {
			stats.Archives++
		}
		go func(path string) {
			defer wg.Done()
			record(s.scanFile(path))
		}(path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}

	slices.SortFunc(results, func(a, b Result) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Info.Filename, b.Info.Filename)
	})

	s.log.Info("scan finished",
		zap.String("root", root),
		zap.Int("files", stats.Files),
		zap.Int("beatmaps", stats.Beatmaps),
		zap.Int("failed", stats.Failed),
	)
	return results, stats, errs
}

// collect lists the files below root the scanner is interested in.
func (s *Scanner) collect(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if s.isBeatmap(path) || (s.includeArchives && s.isArchive(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

func (s *Scanner) isBeatmap(path string) bool {
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path)))
}

func (s *Scanner) isArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), osz.Extension)
}

func (s *Scanner) scanFile(path string) ([]Result, error) {
	if s.isArchive(path) {
		return s.scanArchive(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("skipping beatmap", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return []Result{{
		Path: path,
		Size: int64(len(data)),
		Info: s.backend.ParseInfo(filepath.Base(path), data),
	}}, nil
}

func (s *Scanner) scanArchive(path string) ([]Result, error) {
	archive, err := osz.Open(path)
	if err != nil {
		s.log.Warn("skipping archive", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer archive.Close()

	contents, err := archive.ReadBeatmaps()
	if err != nil {
		s.log.Warn("archive has unreadable entries", zap.String("path", path), zap.Error(err))
		err = fmt.Errorf("reading %s: %w", path, err)
	}

	results := make([]Result, 0, len(contents))
	for name, data := range contents {
		results = append(results, Result{
			Path:    path,
			Archive: true,
			Size:    int64(len(data)),
			Info:    s.backend.ParseInfo(name, data),
		})
	}
	return results, err
}
