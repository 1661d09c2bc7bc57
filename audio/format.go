package audio

import (
	"errors"
	"fmt"

	"github.com/h2non/filetype"
)

// Format is a sound container, named by its usual file extension.
type Format string

const (
	MP3  Format = "mp3"
	WAV  Format = "wav"
	OGG  Format = "ogg"
	FLAC Format = "flac"
)

// ErrUnknownFormat is returned when a file's header matches no sound format.
var ErrUnknownFormat = errors.New("audio: unrecognised sound format")

// Sniff identifies the sound at path from its header bytes. The extension is
// ignored, so a misnamed file still reaches the right decoder.
func Sniff(path string) (Format, error) {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return "", err
	}
	if kind.MIME.Type != "audio" {
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return Format(kind.Extension), nil
}
