package rlview

import (
	"errors"
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/plus3/stagekit/audio"
)

// ErrUndecodable is returned when raylib cannot load a sound file.
var ErrUndecodable = errors.New("rlview: cannot decode audio")

// streamable lists the sniffed formats raylib's music loader decodes.
var streamable = map[audio.Format]bool{
	audio.MP3:  true,
	audio.WAV:  true,
	audio.OGG:  true,
	audio.FLAC: true,
}

// Streams opens sounds as raylib music streams. Streams need feeding every
// frame, which Update does for all of them.
type Streams struct {
	open []*stream
}

// Open is an audio.Factory. The audio device must be initialised.
func (s *Streams) Open(path string, loop bool) (audio.Player, error) {
	if path == "" {
		return nil, audio.ErrNoSource
	}
	format, err := audio.Sniff(path)
	if err != nil {
		return nil, err
	}
	if !streamable[format] {
		return nil, fmt.Errorf("%w: %s is %s", ErrUndecodable, path, format)
	}
	music := rl.LoadMusicStream(path)
	if music.FrameCount == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUndecodable, path)
	}
	music.Looping = loop

	st := &stream{owner: s, music: music}
	s.open = append(s.open, st)
	return st, nil
}

// Update refills the buffers of playing streams.
func (s *Streams) Update() {
	for _, st := range s.open {
		if st.IsPlaying() {
			rl.UpdateMusicStream(st.music)
		}
	}
}

// Close stops and unloads every stream that is still open.
func (s *Streams) Close() {
	for _, st := range s.open {
		st.unload()
	}
	s.open = nil
}

// forget drops st from the open list, reporting whether it was there.
func (s *Streams) forget(st *stream) bool {
	i := slices.Index(s.open, st)
	if i < 0 {
		return false
	}
	s.open = slices.Delete(s.open, i, i+1)
	return true
}

type stream struct {
	owner *Streams
	music rl.Music
}

// Close stops and unloads the stream. Closing twice does nothing.
func (st *stream) Close() error {
	if st.owner.forget(st) {
		st.unload()
	}
	return nil
}

func (st *stream) unload() {
	st.Stop()
	rl.UnloadMusicStream(st.music)
}

func (st *stream) Play() error {
	rl.PlayMusicStream(st.music)
	return nil
}

func (st *stream) Stop() {
	if !st.IsPlaying() {
		return
	}
	rl.StopMusicStream(st.music)
}

func (st *stream) IsPlaying() bool {
	return rl.IsMusicStreamPlaying(st.music)
}
