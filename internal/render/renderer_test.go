package render

import (
	"bytes"
	"image/png"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvqclub/ratingbot/internal/rating"
)

func TestLeaderboardPNG(t *testing.T) {
	q := 0.75
	entries := []rating.LeaderboardEntry{
		{Rank: 1, Name: "Anna", Rating: 1107.5, WinningQuote: &q, GamesWon: 30, GamesLost: 10},
		{Rank: 2, Name: "Ben", Rating: 1000.0, GamesWon: 12, GamesLost: 18},
		{Rank: 3, Name: "Cara With A Very Long Display Name", Rating: 930.2},
	}

	r := NewRenderer()
	data, err := r.LeaderboardPNG(entries)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, imageWidth, bounds.Dx())
	assert.Equal(t, headerHeight+3*rowHeight+rowHeight/2, bounds.Dy())
}

func TestLeaderboardPNGEmpty(t *testing.T) {
	r := NewRenderer()
	data, err := r.LeaderboardPNG(nil)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	assert.Equal(t, "this is t…", truncate("this is too long", 10))

	got := truncate("Jürgen Müßiggänger-Öhlschläger", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Jürgen Mü…", got)
}
