package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/osumap/internal/index"
	"github.com/Faultbox/osumap/internal/logger"
	"github.com/Faultbox/osumap/internal/scan"
)

func (a *app) cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Parse only, do not write the index")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: osutool scan [-dry-run] <dir>")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, stats, scanErr := scan.New(a.backend, a.cfg.Scan).Scan(ctx, fs.Arg(0))
	for _, err := range multierr.Errors(scanErr) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if len(results) == 0 && scanErr != nil {
		return scanErr
	}

	fmt.Printf("Scanned %s files (%s archives) in %s\n",
		humanize.Comma(int64(stats.Files)), humanize.Comma(int64(stats.Archives)),
		formatDuration(time.Since(start)))
	fmt.Printf("Parsed %s beatmaps (%s), %d failed\n",
		humanize.Comma(int64(stats.Beatmaps)), humanize.Bytes(uint64(stats.Bytes)), stats.Failed)

	if *dryRun {
		return nil
	}

	idx, err := index.Open(a.cfg.Index.Path)
	if err != nil {
		return err
	}
	defer idx.Close()

	records := make([]index.Record, 0, len(results))
	for _, r := range results {
		path, err := filepath.Abs(r.Path)
		if err != nil {
			path = r.Path
		}
		records = append(records, index.Record{Path: path, Info: r.Info})
	}
	if err := idx.Put(ctx, records...); err != nil {
		return err
	}

	total, err := idx.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("index updated", zap.String("path", a.cfg.Index.Path), zap.Int("records", total))
	fmt.Printf("Index %s now holds %s beatmaps\n", a.cfg.Index.Path, humanize.Comma(int64(total)))
	return nil
}

func (a *app) cmdSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("n", 50, "Limit results (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: osutool search [-n N] <query>")
		os.Exit(1)
	}

	idx, err := index.Open(a.cfg.Index.Path)
	if err != nil {
		return err
	}
	defer idx.Close()

	records, err := idx.Search(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	for i, r := range records {
		if *limit > 0 && i >= *limit {
			fmt.Fprintf(os.Stderr, "\n(showing first %d matches, use -n 0 for all)\n", *limit)
			break
		}
		info := r.Info
		fmt.Printf("%s - %s [%s]  %s  AR%g CS%g OD%g HP%g\n",
			info.Artist, info.Title, info.Version, info.Mode, info.AR, info.CS, info.OD, info.HP)
		fmt.Printf("    %s", r.Path)
		if filepath.Base(r.Path) != info.Filename {
			fmt.Printf(" : %s", info.Filename)
		}
		fmt.Println()
	}

	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No beatmaps found")
	} else if *limit == 0 || len(records) <= *limit {
		fmt.Fprintf(os.Stderr, "\n(%d beatmaps found)\n", len(records))
	}
	return nil
}
