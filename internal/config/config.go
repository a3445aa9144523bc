// Package config handles application configuration loading and management.
package config

// Config holds all meshvault settings.
type Config struct {
	Viewer    ViewerConfig    `yaml:"viewer"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Library   LibraryConfig   `yaml:"library"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ViewerConfig holds interactive viewer settings.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	TargetFPS  int  `yaml:"target_fps"`
	ShowGrid   bool `yaml:"show_grid"`
	AutoRotate bool `yaml:"auto_rotate"`
}

// ThumbnailConfig holds thumbnail rendering settings.
type ThumbnailConfig struct {
	Size int `yaml:"size"`
}

// LibraryConfig holds model library service settings.
type LibraryConfig struct {
	Root   string `yaml:"root"`
	Listen string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			TargetFPS:  60,
			ShowGrid:   true,
			AutoRotate: true,
		},
		Thumbnail: ThumbnailConfig{
			Size: 256,
		},
		Library: LibraryConfig{
			Root:   ".",
			Listen: "127.0.0.1:8737",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
