// Package audio defines the looping-sound contract scenes drive. Engines
// supply the real players; Silent stands in when no device is wanted.
package audio

import "errors"

// ErrNoSource is returned by factories when a sound has no path.
var ErrNoSource = errors.New("audio: no source path")

// Player plays one sound. Stop on a player that is not playing is a no-op.
// Close stops the sound and releases what the player holds; a closed player
// must not be played again.
type Player interface {
	Play() error
	Stop()
	IsPlaying() bool
	Close() error
}

// Factory opens a player for the sound at path.
type Factory func(path string, loop bool) (Player, error)

// Silent is a Player that only records state. It never touches an audio
// device, which makes it the default for headless runs and tests.
type Silent struct {
	Path  string
	Loop  bool
	Plays  int
	Stops  int
	Closed bool

	playing bool
}

// NewSilent is a Factory that returns Silent players.
func NewSilent(path string, loop bool) (Player, error) {
	if path == "" {
		return nil, ErrNoSource
	}
	return &Silent{Path: path, Loop: loop}, nil
}

// Play starts the sound. Playing an already-playing sound does nothing.
func (s *Silent) Play() error {
	if s.playing {
		return nil
	}
	s.playing = true
	s.Plays++
	return nil
}

// Stop halts the sound if it is playing.
func (s *Silent) Stop() {
	if !s.playing {
		return
	}
	s.playing = false
	s.Stops++
}

// IsPlaying reports whether the sound is playing.
func (s *Silent) IsPlaying() bool {
	return s.playing
}

// Close stops the sound and marks the player closed.
func (s *Silent) Close() error {
	s.Stop()
	s.Closed = true
	return nil
}

// Finish simulates a non-looping sound reaching its end.
func (s *Silent) Finish() {
	s.playing = false
}
