// Package preview renders saved decks to PNG images.
package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gopresentation "github.com/VantageDataChat/GoPPT"
	"go.uber.org/zap"
)

// DefaultWidth is the rendered width in pixels when none is given.
const DefaultWidth = 1920

var ErrNoSlides = errors.New("deck has no slides")

// Render writes slideNN.png for every slide of the deck at deckPath into
// outDir and returns the written paths. A slide that fails to render is
// logged and skipped; Render fails only when no slide could be written.
func Render(deckPath, outDir string, width int, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if _, err := os.Stat(deckPath); err != nil {
		return nil, fmt.Errorf("failed to stat deck: %w", err)
	}

	reader, err := gopresentation.NewReader(gopresentation.ReaderPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	pres, err := reader.Read(deckPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck %s: %w", deckPath, err)
	}
	n := pres.GetSlideCount()
	if n == 0 {
		return nil, ErrNoSlides
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	opts := gopresentation.DefaultRenderOptions()
	opts.Width = width

	var paths []string
	var lastErr error
	for i := 0; i < n; i++ {
		out := filepath.Join(outDir, fmt.Sprintf("slide%02d.png", i+1))
		if err := pres.SaveSlideAsImage(i, out, opts); err != nil {
			logger.Warn("failed to render slide", zap.Int("slide", i+1), zap.Error(err))
			lastErr = err
			continue
		}
		paths = append(paths, out)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("failed to render any slide: %w", lastErr)
	}
	logger.Info("rendered previews", zap.String("dir", outDir), zap.Int("slides", len(paths)))
	return paths, nil
}
