package ebview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/plus3/stagekit/audio"
)

// ErrUnsupportedFormat is returned for sound files ebiten cannot decode here.
var ErrUnsupportedFormat = errors.New("ebview: unsupported audio format")

// Music opens mp3 and wav files as ebiten audio players. One Music owns the
// process-wide ebiten audio context.
type Music struct {
	ctx    *eaudio.Context
	volume float64

	mu   sync.Mutex
	open []*musicPlayer
}

// decodedStream is what both ebiten decoders return.
type decodedStream interface {
	io.ReadSeeker
	Length() int64
}

// NewMusic creates the audio context. ebiten allows only one per process.
func NewMusic(sampleRate int, volume float64) *Music {
	return &Music{ctx: eaudio.NewContext(sampleRate), volume: volume}
}

// Open is an audio.Factory.
func (m *Music) Open(path string, loop bool) (audio.Player, error) {
	if path == "" {
		return nil, audio.ErrNoSource
	}
	format, err := audio.Sniff(path)
	if err != nil {
		return nil, err
	}
	if format != audio.MP3 && format != audio.WAV {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedFormat, path, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var stream decodedStream
	if format == audio.MP3 {
		stream, err = mp3.DecodeWithSampleRate(m.ctx.SampleRate(), f)
	} else {
		stream, err = wav.DecodeWithSampleRate(m.ctx.SampleRate(), f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var src io.Reader = stream
	if loop {
		src = eaudio.NewInfiniteLoop(stream, stream.Length())
	}
	player, err := m.ctx.NewPlayer(src)
	if err != nil {
		f.Close()
		return nil, err
	}
	player.SetVolume(m.volume)

	p := &musicPlayer{owner: m, player: player, file: f}
	m.mu.Lock()
	m.open = append(m.open, p)
	m.mu.Unlock()
	return p, nil
}

// Close releases every player and file opened by Open that is still open.
func (m *Music) Close() error {
	m.mu.Lock()
	open := m.open
	m.open = nil
	m.mu.Unlock()

	var errs []error
	for _, p := range open {
		errs = append(errs, p.release())
	}
	return errors.Join(errs...)
}

// forget drops p from the open list, reporting whether it was there.
func (m *Music) forget(p *musicPlayer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.open {
		if q == p {
			m.open = slices.Delete(m.open, i, i+1)
			return true
		}
	}
	return false
}

type musicPlayer struct {
	owner  *Music
	player *eaudio.Player
	file   *os.File
}

func (p *musicPlayer) Play() error {
	p.player.Play()
	return nil
}

// Stop pauses and rewinds, so the next Play starts from the beginning.
func (p *musicPlayer) Stop() {
	if !p.player.IsPlaying() {
		return
	}
	p.player.Pause()
	_ = p.player.Rewind()
}

func (p *musicPlayer) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Close releases the player and its file. Closing twice, or after
// Music.Close, does nothing.
func (p *musicPlayer) Close() error {
	if !p.owner.forget(p) {
		return nil
	}
	return p.release()
}

func (p *musicPlayer) release() error {
	return errors.Join(p.player.Close(), p.file.Close())
}
