package config

import "flag"

// Flags are command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath  string
	Debug       bool
	Headless    bool
	Naive       bool
	Workers     int
	MetricsAddr string
}

// ParseFlags parses command-line overrides from args.
func ParseFlags(fs *flag.FlagSet, args []string) (*Flags, error) {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Headless, "headless", false, "Mesh the scene without opening a window")
	fs.BoolVar(&f.Naive, "naive", false, "Emit one quad per voxel face instead of greedy merging")
	fs.IntVar(&f.Workers, "workers", 0, "Number of mesh workers")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Headless {
		cfg.Window.Headless = true
	}
	if f.Naive {
		cfg.Meshing.Greedy = false
	}
	if f.Workers > 0 {
		cfg.Meshing.Workers = f.Workers
	}
	if f.MetricsAddr != "" {
		cfg.Metrics.Addr = f.MetricsAddr
	}
}
