package audio

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHeader(t *testing.T, name string, header []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := append(header, make([]byte, 64)...)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSniff(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Format
	}{
		{"id3.mp3", []byte("ID3\x04\x00\x00"), MP3},
		{"clip.wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), WAV},
		{"loop.ogg", []byte("OggS\x00\x02"), OGG},
		{"misnamed.mp3", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), WAV},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Sniff(writeHeader(t, tc.name, tc.header))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSniffRejectsNonAudio(t *testing.T) {
	_, err := Sniff(writeHeader(t, "notes.mp3", []byte("just some text")))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Sniff(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
