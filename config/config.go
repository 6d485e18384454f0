// Package config holds the window and renderer settings shared by the triangle programs.
package config

import (
	"bytes"
	"flag"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/mygameengine/triangle/scene"
)

type Config struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	VSync     bool   `yaml:"vsync"`
	Resizable bool   `yaml:"resizable"`

	// Validation enables the Khronos validation layer; ignored by the OpenGL program.
	Validation bool `yaml:"validation"`

	StatsInterval time.Duration `yaml:"stats_interval"`
}

// Default matches the fixed window the demo has always opened.
func Default() Config {
	return Config{
		Title:  scene.WindowTitle,
		Width:  scene.WindowWidth,
		Height: scene.WindowHeight,
		VSync:  true,
	}
}

func (c Config) Validate() error {
	if c.Title == "" {
		return errors.New("window title must not be empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.StatsInterval < 0 {
		return errors.Newf("stats interval %s must not be negative", c.StatsInterval)
	}
	return nil
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err = decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, errors.Wrapf(cfg.Validate(), "config %s", path)
}

// Parse builds a Config from command line arguments. Values from -config are
// applied first and any flag given explicitly wins over them. Asking for help
// returns flag.ErrHelp.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	defaults := Default()
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(output)

	path := set.String("config", "", "YAML settings file")
	title := set.String("title", defaults.Title, "window title")
	width := set.Int("width", defaults.Width, "window width")
	height := set.Int("height", defaults.Height, "window height")
	vsync := set.Bool("vsync", defaults.VSync, "wait for vertical sync when presenting")
	resizable := set.Bool("resizable", defaults.Resizable, "allow the window to be resized")
	validation := set.Bool("validation", defaults.Validation, "enable the Vulkan validation layer")
	stats := set.Duration("stats", defaults.StatsInterval, "log frame statistics at this interval, 0 disables")

	if err := set.Parse(args); err != nil {
		return defaults, err
	}
	if set.NArg() > 0 {
		return defaults, errors.Newf("unexpected argument %q", set.Arg(0))
	}

	cfg := defaults
	if *path != "" {
		var err error
		cfg, err = Load(*path)
		if err != nil {
			return cfg, err
		}
	}

	set.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg.Title = *title
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "vsync":
			cfg.VSync = *vsync
		case "resizable":
			cfg.Resizable = *resizable
		case "validation":
			cfg.Validation = *validation
		case "stats":
			cfg.StatsInterval = *stats
		}
	})

	return cfg, cfg.Validate()
}
