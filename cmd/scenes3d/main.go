package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plus3/stagekit/config"
	"github.com/plus3/stagekit/scene"
	"github.com/plus3/stagekit/viewer/rlview"
)

func main() {
	name := flag.String("scene", "start", fmt.Sprintf("Scene to show, one of %v.", scene.Presets()))
	configPath := flag.String("config", "", "TOML config file. Defaults are used when empty.")
	logLevel := flag.String("log-level", "", "Log level, overriding the config file.")
	flag.Parse()

	if err := run(*name, *configPath, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "scenes3d:", err)
		os.Exit(1)
	}
}

func run(name, configPath, logLevel string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	window := rlview.Open(rlview.Options{
		Title:  cfg.Window.Title + " - " + name,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		FPS:    cfg.Window.FPS,
		Audio:  cfg.Audio.Enabled,
		Volume: float32(cfg.Audio.Volume),
		Logger: logger,
	})
	defer window.Close()

	s, err := scene.Load(name, cfg, scene.WithLogger(logger), scene.WithAudio(window.Audio()))
	if err != nil {
		return err
	}
	window.Run(s)
	return nil
}
