package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/plus3/stagekit/audio"
	"github.com/plus3/stagekit/config"
	"github.com/plus3/stagekit/scene"
	"github.com/plus3/stagekit/viewer/ebview"
	"gopkg.in/yaml.v3"
)

type options struct {
	mode     string
	scene    string
	config   string
	frames   int
	hold     string
	dt       float64
	format   string
	logLevel string
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "simulate", "What to do: simulate, inspect, or config.")
	flag.StringVar(&opts.scene, "scene", "start", fmt.Sprintf("Scene to load, one of %v.", scene.Presets()))
	flag.StringVar(&opts.config, "config", "", "TOML config file. Defaults are used when empty.")
	flag.IntVar(&opts.frames, "frames", 100, "Frames to simulate.")
	flag.StringVar(&opts.hold, "hold", "", "Comma-separated keys held for the whole simulation.")
	flag.Float64Var(&opts.dt, "dt", 1.0/60, "Seconds per simulated frame.")
	flag.StringVar(&opts.format, "format", "text", "Simulation report format: text or yaml.")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level, overriding the config file.")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "scenes:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.config, opts.logLevel)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}

	switch opts.mode {
	case "config":
		return config.Encode(stdout, cfg)
	case "simulate":
		report, err := simulate(ctx, cfg, opts, logger)
		if err != nil {
			return err
		}
		return writeReport(stdout, report, opts.format)
	case "inspect":
		return inspect(ctx, cfg, opts, logger)
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

func loadConfig(path, logLevel string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func parseHold(hold string) []string {
	var keys []string
	for _, k := range strings.Split(hold, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func writeReport(w io.Writer, report *Report, format string) error {
	switch format {
	case "text":
		return report.Generate(w)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// inspect opens the viewer on a scene. With a config file the scene is
// rebuilt each time the file is saved.
func inspect(ctx context.Context, cfg config.Config, opts options, logger *slog.Logger) error {
	factory := audio.Factory(audio.NewSilent)
	var music *ebview.Music
	if cfg.Audio.Enabled {
		music = ebview.NewMusic(cfg.Audio.SampleRate, cfg.Audio.Volume)
		factory = music.Open
	}
	load := func(cfg config.Config) (*scene.Scene, error) {
		return scene.Load(opts.scene, cfg, scene.WithLogger(logger), scene.WithAudio(factory))
	}

	s, err := load(cfg)
	if err != nil {
		return err
	}

	v := ebview.New(s, ebview.Options{
		Title:  cfg.Window.Title + " - " + opts.scene,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		TPS:    cfg.Window.FPS,
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var watching sync.WaitGroup
	if opts.config != "" {
		watcher, err := config.Watch(opts.config)
		if err != nil {
			return err
		}
		watching.Go(func() {
			_ = watcher.Run(ctx, func(next config.Config, err error) {
				if err == nil {
					var reloaded *scene.Scene
					if reloaded, err = load(next); err == nil {
						v.Reload(reloaded)
						return
					}
				}
				logger.Warn("config reload failed, keeping the running scene", "error", err)
			})
		})
	}

	err = v.Run()
	cancel()
	watching.Wait()
	if music != nil {
		err = errors.Join(err, music.Close())
	}
	return err
}
