// osutool is a CLI utility for inspecting osu! beatmaps and libraries.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/osumap/internal/config"
	"github.com/Faultbox/osumap/internal/logger"
	"github.com/Faultbox/osumap/pkg/formats"
)

// app carries what every command needs.
type app struct {
	cfg     *config.Config
	backend formats.Backend
}

func main() {
	// Global flags come before the command
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	a := &app{
		cfg: cfg,
		backend: formats.TextBackend{Options: formats.Options{
			TimingOrder: formats.ParseTimingOrder(cfg.Parse.TimingOrder),
		}},
	}

	command, rest := args[0], args[1:]
	var cmdErr error
	switch command {
	case "info":
		cmdErr = a.cmdInfo(rest)
	case "parse":
		cmdErr = a.cmdParse(rest)
	case "paths":
		cmdErr = a.cmdPaths(rest)
	case "assets":
		cmdErr = a.cmdAssets(rest)
	case "extract", "x":
		cmdErr = a.cmdExtract(rest)
	case "scan":
		cmdErr = a.cmdScan(rest)
	case "search", "find":
		cmdErr = a.cmdSearch(rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(cmdErr))
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`osutool - osu! beatmap utility

Usage:
  osutool [global options] <command> [options]

Commands:
  info <file.osu|file.osz> [diff]      Show beatmap information
  parse <file.osu|file.osz> [diff]     Dump timing points and hit objects
  paths <file.osu|file.osz> [diff]     Compute slider paths
  assets <file.osu|file.osz>           List referenced media files
  extract <file.osz> <path> [output]   Extract file(s) from an archive
  scan <dir>                           Index every beatmap below dir
  search <query>                       Search the index

Global options:
  -config <file>   Config file
  -debug           Enable debug logging
  -workers <n>     Parallel parse workers for scan
  -sorted          Resolve timing points in time order
  -index <file>    Index database
  -no-osz          Skip .osz archives when scanning
  -log-file <file> Write logs to file

Examples:
  osutool info "xi - Blue Zenith (Asphyxia) [FOUR DIMENSIONS].osu"
  osutool paths -n 5 292301.osz "FOUR DIMENSIONS"
  osutool -workers 8 scan ~/osu/Songs
  osutool search zenith`)
}
