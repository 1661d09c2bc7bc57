package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, float32(0.1), cfg.Movement.Step)
	assert.False(t, cfg.Movement.TimeScaled)
	assert.Equal(t, "w", cfg.Movement.Keys.Forward)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
[log]
level = "debug"

[movement]
step = 0.25
time_scaled = true

[movement.keys]
forward = "ArrowUp"
back = "ArrowDown"
left = "ArrowLeft"
right = "ArrowRight"

[assets]
music = "music/loop.mp3"
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, float32(0.25), cfg.Movement.Step)
	assert.True(t, cfg.Movement.TimeScaled)
	assert.Equal(t, float64(60), cfg.Movement.ReferenceFPS, "untouched keys keep defaults")
	assert.Equal(t, "ArrowUp", cfg.Movement.Keys.Forward)
	assert.Equal(t, "music/loop.mp3", cfg.Assets.Music)
	assert.Equal(t, Default().Assets.Skybox, cfg.Assets.Skybox)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader(`
[movement]
stpe = 0.2
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode(strings.NewReader(`[movement`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Movement.Step = 0
	cfg.Animation.PulseFloor = 5
	cfg.Audio.Volume = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	msg := err.Error()
	assert.Contains(t, msg, `log.level "loud"`)
	assert.Contains(t, msg, "movement.step")
	assert.Contains(t, msg, "pulse_floor")
	assert.Contains(t, msg, "audio.volume")
	assert.Len(t, strings.Split(msg, "\n"), 4)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nfps = 30\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Window.FPS)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Movement.TimeScaled = true
	cfg.Window.Title = "orbit"

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))
	assert.Contains(t, buf.String(), "time_scaled = true")

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Log{Level: "warn"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "scene", "start")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "scene=start")

	_, err = Log{Level: "loud"}.NewLogger(&buf)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagekit.toml")
	require.NoError(t, os.WriteFile(path, []byte("[movement]\nstep = 0.1\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(cfg Config, err error) {
			if err == nil {
				changes <- cfg
			}
		})
	}()

	require.NoError(t, os.WriteFile(path, []byte("[movement]\nstep = 0.5\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-changes:
			reloaded = cfg.Movement.Step == 0.5
		case <-deadline:
			t.Fatal("no reload after writing the config")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "gone", "stagekit.toml"))
	assert.Error(t, err)
}
