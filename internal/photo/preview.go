package photo

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds how many rendered previews are kept.
const DefaultCacheSize = 64

// Previewer renders data URLs as half-block thumbnails and memoizes the
// result, keyed by a digest of the data URL and the requested size. Failed
// renders are memoized too, so an undecodable photo is parsed once.
type Previewer struct {
	cache *lru.Cache[string, preview]
}

type preview struct {
	out string
	err error
}

// NewPreviewer creates a previewer keeping up to size thumbnails.
func NewPreviewer(size int) (*Previewer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, preview](size)
	if err != nil {
		return nil, fmt.Errorf("preview cache: %w", err)
	}
	return &Previewer{cache: cache}, nil
}

// Render returns a thumbnail cols wide and rows tall. Each terminal cell
// shows two vertical pixels using "▀" with foreground and background colors.
func (p *Previewer) Render(dataURL string, cols, rows int) (string, error) {
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("preview size %dx%d", cols, rows)
	}
	key := cacheKey(dataURL, cols, rows)
	if v, ok := p.cache.Get(key); ok {
		return v.out, v.err
	}
	out, err := render(dataURL, cols, rows)
	p.cache.Add(key, preview{out: out, err: err})
	return out, err
}

// Len is the number of cached thumbnails.
func (p *Previewer) Len() int { return p.cache.Len() }

func cacheKey(dataURL string, cols, rows int) string {
	sum := sha1.Sum([]byte(dataURL))
	return fmt.Sprintf("%s:%dx%d", hex.EncodeToString(sum[:]), cols, rows)
}

func render(dataURL string, cols, rows int) (string, error) {
	mime, data, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	if !IsImageMIME(mime) {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", mime, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("empty image")
	}
	h := rows * 2
	sample := func(x, y int) lipgloss.Color {
		sx := b.Min.X + x*b.Dx()/cols
		sy := b.Min.Y + y*b.Dy()/h
		r, g, bl, _ := img.At(sx, sy).RGBA()
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			cell := lipgloss.NewStyle().
				Foreground(sample(x, row*2)).
				Background(sample(x, row*2+1))
			sb.WriteString(cell.Render("▀"))
		}
	}
	return sb.String(), nil
}
