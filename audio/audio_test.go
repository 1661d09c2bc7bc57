package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilentPlayStop(t *testing.T) {
	player, err := NewSilent("assets/audio/rave.mp3", true)
	require.NoError(t, err)
	silent := player.(*Silent)

	assert.False(t, player.IsPlaying())

	player.Stop()
	assert.Equal(t, 0, silent.Stops, "stop while idle is a no-op")

	require.NoError(t, player.Play())
	require.NoError(t, player.Play())
	assert.True(t, player.IsPlaying())
	assert.Equal(t, 1, silent.Plays)

	player.Stop()
	player.Stop()
	assert.False(t, player.IsPlaying())
	assert.Equal(t, 1, silent.Stops)
}

func TestSilentFinish(t *testing.T) {
	player, err := NewSilent("click.wav", false)
	require.NoError(t, err)
	silent := player.(*Silent)

	require.NoError(t, player.Play())
	silent.Finish()
	assert.False(t, player.IsPlaying())
	assert.Equal(t, 0, silent.Stops)

	require.NoError(t, player.Play())
	assert.Equal(t, 2, silent.Plays)
}

func TestNewSilentRequiresPath(t *testing.T) {
	_, err := NewSilent("", true)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestSilentClose(t *testing.T) {
	player, err := NewSilent("rave.mp3", true)
	require.NoError(t, err)
	silent := player.(*Silent)

	require.NoError(t, player.Play())
	require.NoError(t, player.Close())
	assert.True(t, silent.Closed)
	assert.False(t, player.IsPlaying())
	assert.Equal(t, 1, silent.Stops)
}
