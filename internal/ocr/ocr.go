// Package ocr extracts text with screen positions from captured screens and
// locates a target phrase as a contiguous run of recognized words.
package ocr

import (
	"context"
	"image"
)

// Word is one recognized word with its bounding box and the engine's
// confidence score (0-100). Words are transient; they are discarded after
// each scan.
type Word struct {
	Text       string
	Left       int
	Top        int
	Width      int
	Height     int
	Confidence float64
}

// Center returns the tap point at the middle of the word's bounding box.
func (w Word) Center() image.Point {
	return image.Pt(w.Left+w.Width/2, w.Top+w.Height/2)
}

// Engine recognizes words in an image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) ([]Word, error)
}
