package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers = flag.Int("workers", 0, "Number of parallel parse workers")
	flagSorted  = flag.Bool("sorted", false, "Resolve timing points in time order")
	flagIndex   = flag.String("index", "", "Path to index database")
	flagNoOSZ   = flag.Bool("no-osz", false, "Skip .osz archives when scanning")
	flagLogFile = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Scan.Workers = *flagWorkers
	}
	if *flagSorted {
		cfg.Parse.TimingOrder = "sorted"
	}
	if *flagIndex != "" {
		cfg.Index.Path = *flagIndex
	}
	if *flagNoOSZ {
		cfg.Scan.IncludeArchives = false
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
