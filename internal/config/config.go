// Package config handles viewer and mesher configuration.
package config

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	World   WorldConfig   `yaml:"world"`
	Meshing MeshingConfig `yaml:"meshing"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	VSync    bool `yaml:"vsync"`
	Headless bool `yaml:"headless"`
}

// WorldConfig holds chunk streaming settings.
type WorldConfig struct {
	// ViewRadius is the streaming radius in chunks around the view center.
	// Chunks beyond ViewRadius+1 are evicted.
	ViewRadius    int `yaml:"view_radius"`
	StreamWorkers int `yaml:"stream_workers"`
	StreamQueue   int `yaml:"stream_queue"`
	// PlaceType names the voxel type the viewer places (e.g. "stone").
	PlaceType string `yaml:"place_type"`
}

// MeshingConfig holds mesh builder settings.
type MeshingConfig struct {
	Workers            int     `yaml:"workers"`
	QueueSize          int     `yaml:"queue_size"`
	Greedy             bool    `yaml:"greedy"`
	ParallelDirections bool    `yaml:"parallel_directions"`
	VoxelSize          float32 `yaml:"voxel_size"`
}

// RenderConfig holds lighting and camera settings.
type RenderConfig struct {
	LightDir    [3]float32 `yaml:"light_dir"`
	LightColor  [3]float32 `yaml:"light_color"`
	FOV         float32    `yaml:"fov"`
	OrbitRadius float32    `yaml:"orbit_radius"`
	OrbitSpeed  float32    `yaml:"orbit_speed"` // radians per second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		World: WorldConfig{
			ViewRadius:    2,
			StreamWorkers: 2,
			StreamQueue:   64,
			PlaceType:     "stone",
		},
		Meshing: MeshingConfig{
			Workers:            4,
			QueueSize:          64,
			Greedy:             true,
			ParallelDirections: true,
			VoxelSize:          1.0,
		},
		Render: RenderConfig{
			LightDir:    [3]float32{0.5, 1.0, 0.3},
			LightColor:  [3]float32{1.0, 0.95, 0.9},
			FOV:         60,
			OrbitRadius: 48,
			OrbitSpeed:  0.2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Normalize clamps settings into usable ranges.
func (c *Config) Normalize() {
	if c.Meshing.Workers < 1 {
		c.Meshing.Workers = 1
	}
	if c.Meshing.Workers > 64 {
		c.Meshing.Workers = 64
	}
	if c.Meshing.QueueSize < 1 {
		c.Meshing.QueueSize = 1
	}
	c.World.ViewRadius = min(max(c.World.ViewRadius, 0), 16)
	if c.World.StreamWorkers < 1 {
		c.World.StreamWorkers = 1
	}
	if c.World.StreamQueue < 1 {
		c.World.StreamQueue = 1
	}
	if c.Meshing.VoxelSize <= 0 {
		c.Meshing.VoxelSize = 1.0
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Render.FOV < 10 || c.Render.FOV > 120 {
		c.Render.FOV = 60
	}
}
