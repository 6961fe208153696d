// Package render turns the leaderboard into a PNG image for chat upload.
// The table chrome (background, row stripes, rating bars) is built as SVG
// and rasterized; the labels are drawn on top with a bitmap font, since the
// SVG rasterizer handles shapes only.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bvqclub/ratingbot/internal/rating"
)

const (
	imageWidth   = 640
	headerHeight = 48
	rowHeight    = 32
	barStartX    = 300
	barMaxWidth  = 300
)

// Renderer renders leaderboard images.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// LeaderboardPNG renders the given entries as a PNG table. An empty
// leaderboard renders the header band only.
func (r *Renderer) LeaderboardPNG(entries []rating.LeaderboardEntry) ([]byte, error) {
	height := headerHeight + len(entries)*rowHeight + rowHeight/2

	icon, err := oksvg.ReadIconStream(strings.NewReader(r.tableSVG(entries, height)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse leaderboard svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(imageWidth), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(imageWidth, height, img, img.Bounds())
	raster := rasterx.NewDasher(imageWidth, height, scanner)
	icon.Draw(raster, 1.0)

	r.drawLabels(img, entries)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode leaderboard png: %w", err)
	}
	return buf.Bytes(), nil
}

// tableSVG builds the shape layer: header band, alternating row stripes and
// a bar per row scaled to the highest rating.
func (r *Renderer) tableSVG(entries []rating.LeaderboardEntry, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		imageWidth, height, imageWidth, height)

	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="#1a472a"/>`, imageWidth, headerHeight)

	maxRating := 1.0
	for _, e := range entries {
		if e.Rating > maxRating {
			maxRating = e.Rating
		}
	}

	for i, e := range entries {
		y := headerHeight + i*rowHeight
		if i%2 == 1 {
			fmt.Fprintf(&b, `<rect x="0" y="%d" width="%d" height="%d" fill="#f0f0f0"/>`, y, imageWidth, rowHeight)
		}

		barWidth := int(e.Rating / maxRating * barMaxWidth)
		barColor := "#2e8b57"
		if e.Rank <= 3 {
			barColor = "#c9a227"
		}
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"/>`,
			barStartX, y+8, barWidth, rowHeight-16, barColor)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// drawLabels overlays the header and one line of text per entry.
func (r *Renderer) drawLabels(img *image.RGBA, entries []rating.LeaderboardEntry) {
	drawText(img, 16, headerHeight/2+5, color.White, "CLUB LEADERBOARD")

	for i, e := range entries {
		y := headerHeight + i*rowHeight + rowHeight/2 + 5

		drawText(img, 16, y, color.Black, fmt.Sprintf("%d.", e.Rank))
		drawText(img, 48, y, color.Black, truncate(e.Name, 24))

		record := fmt.Sprintf("%d-%d", e.GamesWon, e.GamesLost)
		drawText(img, 236, y, color.Gray{Y: 96}, record)

		drawText(img, barStartX+8, y, color.White, fmt.Sprintf("%.0f", e.Rating))
	}
}

func drawText(img *image.RGBA, x, y int, c color.Color, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// truncate shortens a name to max runes. Slicing runes, not bytes, keeps
// multi-byte names valid UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
