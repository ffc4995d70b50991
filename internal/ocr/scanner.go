package ocr

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"unicode"
)

const (
	// minConfidence is the score below which recognized words are noise.
	minConfidence = 40.0
	// binarizeThreshold is the fixed grayscale cutoff applied before OCR.
	binarizeThreshold = 150
)

// noiseGlyphs are artifacts the engine reliably misreads from the app's
// chrome: currency symbol, bullets, separators, stray punctuation.
var noiseGlyphs = map[string]struct{}{
	"©": {}, "—": {}, "₹": {}, "%": {}, "|": {}, ".": {}, ",": {},
}

// Match is a located target phrase: the tap point at the center of the
// phrase's first word, in un-cropped screen coordinates.
type Match struct {
	Phrase string
	Point  image.Point
}

// Scanner captures the filter-and-search half of label location: given a
// screen image it extracts usable words and finds a target phrase among
// them. Numeric text is structurally unmatchable because digit-bearing
// words are filtered out before matching; target labels are assumed to be
// non-numeric names.
type Scanner struct {
	engine Engine
}

// NewScanner creates a scanner over the given OCR engine.
func NewScanner(engine Engine) *Scanner {
	return &Scanner{engine: engine}
}

// FindPhrase searches the image for target. cropLeft excludes a fixed left
// margin (account-list logos) before recognition; the returned point has
// the offset added back.
func (s *Scanner) FindPhrase(ctx context.Context, img image.Image, target string, cropLeft int) (Match, bool, error) {
	prepared := preprocess(img, cropLeft)

	words, err := s.engine.Recognize(ctx, prepared)
	if err != nil {
		return Match{}, false, fmt.Errorf("recognition failed: %w", err)
	}

	clean := filterWords(words)

	texts := make([]string, len(clean))
	for i, w := range clean {
		texts[i] = w.Text
	}
	searchable := strings.Join(texts, " ")
	slog.Debug("Searchable text block", "text", searchable)

	if !strings.Contains(strings.ToLower(searchable), strings.ToLower(target)) {
		return Match{}, false, nil
	}

	first, phrase, ok := matchWindow(clean, target)
	if !ok {
		return Match{}, false, nil
	}

	pt := first.Center().Add(image.Pt(cropLeft, 0))
	return Match{Phrase: phrase, Point: pt}, true, nil
}

// filterWords drops low-confidence words, anything containing a digit, and
// known noise glyphs. Reading order is preserved.
func filterWords(words []Word) []Word {
	clean := make([]Word, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" || w.Confidence <= minConfidence {
			continue
		}
		if containsDigit(text) {
			continue
		}
		if _, noisy := noiseGlyphs[text]; noisy {
			continue
		}
		w.Text = text
		clean = append(clean, w)
	}
	return clean
}

// matchWindow slides a window of len(target words) across the word list and
// returns the first window whose joined text contains the target,
// case-insensitively. Document order breaks ties.
func matchWindow(words []Word, target string) (Word, string, bool) {
	targetWords := strings.Fields(target)
	if len(targetWords) == 0 || len(words) < len(targetWords) {
		return Word{}, "", false
	}

	lowerTarget := strings.ToLower(target)
	for i := 0; i+len(targetWords) <= len(words); i++ {
		parts := make([]string, len(targetWords))
		for j := range targetWords {
			parts[j] = words[i+j].Text
		}
		phrase := strings.Join(parts, " ")
		if strings.Contains(strings.ToLower(phrase), lowerTarget) {
			return words[i], phrase, true
		}
	}
	return Word{}, "", false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// preprocess crops the left margin and binarizes the image: grayscale with
// a fixed threshold, inverted so dark text becomes white on black, which
// tesseract reads more reliably on the app's themed screens.
func preprocess(img image.Image, cropLeft int) image.Image {
	bounds := img.Bounds()
	if cropLeft > 0 {
		bounds.Min.X += cropLeft
		if bounds.Min.X > bounds.Max.X {
			bounds.Min.X = bounds.Max.X
		}
	}

	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			var v uint8
			if g.Y <= binarizeThreshold {
				v = 255
			}
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: v})
		}
	}
	return out
}
