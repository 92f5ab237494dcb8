package measure

import (
	"bytes"
	"errors"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/framedbg/internal/cache"
)

// widthCacheSize bounds the number of remembered label widths.
const widthCacheSize = 4096

// ErrEmptyFontData is returned when font data is empty.
var ErrEmptyFontData = errors.New("measure: empty font data")

// GoText measures strings by shaping them with go-text/typesetting.
//
// GoText is safe for concurrent use. The parsed font.Font is read-only;
// font.Face and HarfbuzzShaper are not, so each Width call gets its own
// face and a pooled shaper.
type GoText struct {
	font *font.Font
	size float64

	shaperPool sync.Pool
	widths     *cache.LRU[string, float64]
}

// NewGoText returns a measurer for the Go Mono font at size pixels.
func NewGoText(size float64) (*GoText, error) {
	return NewGoTextFromTTF(gomono.TTF, size)
}

// NewGoTextFromTTF returns a measurer for the given TrueType data.
func NewGoTextFromTTF(data []byte, size float64) (*GoText, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &GoText{
		font: face.Font,
		size: size,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		widths: cache.NewLRU[string, float64](widthCacheSize),
	}, nil
}

// Size returns the font size in pixels.
func (g *GoText) Size() float64 { return g.size }

// Width implements Measurer. Results are cached per string.
func (g *GoText) Width(s string) float64 {
	if s == "" {
		return 0
	}

	if w, ok := g.widths.Get(s); ok {
		return w
	}

	runes := []rune(s)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(g.font),
		Size:      fixed.Int26_6(g.size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := g.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	g.shaperPool.Put(hb)

	w := math.Abs(float64(out.Advance) / 64)
	g.widths.Add(s, w)
	return w
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
