package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

// Tesseract recognizes text by shelling out to the tesseract CLI, asking
// for TSV output so every word arrives with its box and confidence.
type Tesseract struct {
	path string
	oem  int
	psm  int
}

// TesseractOption customizes the engine invocation.
type TesseractOption func(*Tesseract)

// WithPageSegMode overrides the page segmentation mode. The default of 6
// (single uniform block) suits the app's list screens.
func WithPageSegMode(psm int) TesseractOption {
	return func(t *Tesseract) { t.psm = psm }
}

// NewTesseract creates a tesseract-backed engine. It fails if the binary
// cannot be found.
func NewTesseract(path string, opts ...TesseractOption) (*Tesseract, error) {
	if path == "" {
		path = "tesseract"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("tesseract not found at %q: %w", path, err)
	}

	t := &Tesseract{path: resolved, oem: 3, psm: 6}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Recognize runs tesseract over the image and returns every detected word.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.path,
		"stdin", "stdout",
		"--oem", strconv.Itoa(t.oem),
		"--psm", strconv.Itoa(t.psm),
		"tsv")
	cmd.Stdin = &input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseTSV(stdout.String())
}

// parseTSV decodes tesseract's TSV output. Only level-5 rows are words;
// the rest describe pages, blocks and lines.
func parseTSV(out string) ([]Word, error) {
	var words []Word

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header or trailing blank
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 12 || fields[0] != "5" {
			continue
		}

		left, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("bad tsv row %d: %w", i, err)
		}
		top, err := strconv.Atoi(fields[7])
		if err != nil {
			return nil, fmt.Errorf("bad tsv row %d: %w", i, err)
		}
		width, err := strconv.Atoi(fields[8])
		if err != nil {
			return nil, fmt.Errorf("bad tsv row %d: %w", i, err)
		}
		height, err := strconv.Atoi(fields[9])
		if err != nil {
			return nil, fmt.Errorf("bad tsv row %d: %w", i, err)
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return nil, fmt.Errorf("bad tsv row %d: %w", i, err)
		}

		words = append(words, Word{
			Text:       fields[11],
			Left:       left,
			Top:        top,
			Width:      width,
			Height:     height,
			Confidence: conf,
		})
	}

	return words, nil
}
