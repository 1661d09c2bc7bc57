// Package config loads the TOML settings shared by the scene CLIs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/plus3/stagekit/input"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full settings tree. Zero-valued sections are not meaningful;
// start from Default and overlay a file with Load or Decode.
type Config struct {
	Log       Log       `toml:"log" yaml:"log"`
	Movement  Movement  `toml:"movement" yaml:"movement"`
	Animation Animation `toml:"animation" yaml:"animation"`
	Assets    Assets    `toml:"assets" yaml:"assets"`
	Window    Window    `toml:"window" yaml:"window"`
	Audio     Audio     `toml:"audio" yaml:"audio"`
}

type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Movement controls keyboard translation.
type Movement struct {
	// Step is the distance moved per held key per frame.
	Step float32 `toml:"step" yaml:"step"`
	// TimeScaled multiplies every per-frame delta by dt×ReferenceFPS so motion
	// speed no longer depends on the frame rate.
	TimeScaled   bool           `toml:"time_scaled" yaml:"time_scaled"`
	ReferenceFPS float64        `toml:"reference_fps" yaml:"reference_fps"`
	Keys         input.Bindings `toml:"keys" yaml:"keys"`
}

// Animation holds the per-frame speeds of the animated presets. Speeds are
// fractions of a full turn per frame.
type Animation struct {
	SpinStart  float32 `toml:"spin_start" yaml:"spin_start"`
	SpinSpeed  float32 `toml:"spin_speed" yaml:"spin_speed"`
	OrbitSpeed float32 `toml:"orbit_speed" yaml:"orbit_speed"`
	BobSpeed   float32 `toml:"bob_speed" yaml:"bob_speed"`
	BobRange   float32 `toml:"bob_range" yaml:"bob_range"`
	PulseStep  float32 `toml:"pulse_step" yaml:"pulse_step"`
	PulseFloor float32 `toml:"pulse_floor" yaml:"pulse_floor"`
	PulseCeil  float32 `toml:"pulse_ceiling" yaml:"pulse_ceiling"`
}

// Assets are paths handed straight to the engine loaders.
type Assets struct {
	Skybox           string `toml:"skybox" yaml:"skybox"`
	SphereTexture    string `toml:"sphere_texture" yaml:"sphere_texture"`
	CompanionTexture string `toml:"companion_texture" yaml:"companion_texture"`
	Music            string `toml:"music" yaml:"music"`
}

type Window struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
	FPS    int    `toml:"fps" yaml:"fps"`
}

type Audio struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
	Volume     float64 `toml:"volume" yaml:"volume"`
}

// Default returns the settings the demonstration scenes were tuned with.
func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Movement: Movement{
			Step:         0.1,
			ReferenceFPS: 60,
			Keys:         input.DefaultBindings(),
		},
		Animation: Animation{
			SpinStart:  0.3,
			SpinSpeed:  0.01,
			OrbitSpeed: 0.005,
			BobSpeed:   0.006,
			BobRange:   0.3,
			PulseStep:  0.1,
			PulseFloor: 0.1,
			PulseCeil:  4,
		},
		Assets: Assets{
			Skybox:           "assets/textures/skybox/skybox",
			SphereTexture:    "assets/monkey3.png",
			CompanionTexture: "assets/mface.jpg",
			Music:            "assets/audio/rave.mp3",
		},
		Window: Window{Width: 1280, Height: 720, Title: "stagekit", FPS: 60},
		Audio:  Audio{Enabled: true, SampleRate: 44100, Volume: 1},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected so
// typos do not silently fall back to a default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// Validate reports every problem at once, each wrapped in ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	_, err := c.Log.SlogLevel()
	check(err == nil, "log.level %q", c.Log.Level)

	check(c.Movement.Step > 0, "movement.step must be positive, got %v", c.Movement.Step)
	check(c.Movement.ReferenceFPS > 0, "movement.reference_fps must be positive, got %v", c.Movement.ReferenceFPS)
	if err := c.Movement.Keys.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: movement.keys: %w", ErrInvalid, err))
	}

	a := c.Animation
	check(a.SpinStart >= 0 && a.SpinStart < 1, "animation.spin_start must be in [0,1), got %v", a.SpinStart)
	check(a.BobRange >= 0, "animation.bob_range must not be negative, got %v", a.BobRange)
	check(a.PulseStep > 0, "animation.pulse_step must be positive, got %v", a.PulseStep)
	check(a.PulseFloor < a.PulseCeil, "animation.pulse_floor %v must be below pulse_ceiling %v", a.PulseFloor, a.PulseCeil)

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FPS > 0, "window.fps must be positive, got %d", c.Window.FPS)

	check(c.Audio.SampleRate > 0, "audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume must be in [0,1], got %v", c.Audio.Volume)

	return errors.Join(errs...)
}

// SlogLevel parses Level as a slog level name (debug, info, warn, error,
// optionally with an offset such as "info+2").
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at Level.
func (l Log) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
