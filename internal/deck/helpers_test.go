package deck

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/pptx"
)

// writeTemplate writes the starter template into dir.
func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, pptx.WriteBlankTemplate(&buf, pptx.BlankTemplateOptions{}))
	path := filepath.Join(dir, "template.pptx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func makeNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, makeNRGBA(w, h)))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, makeNRGBA(w, h), &jpeg.Options{Quality: 80}))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func testConfig(t *testing.T, opts ...brand.Option) brand.Config {
	t.Helper()
	cfg, err := brand.NewConfig("ACME | Confidential", opts...)
	require.NoError(t, err)
	return cfg
}

// openGenerator opens a generator on a fresh template.
func openGenerator(t *testing.T, opts ...Option) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	g, err := Open(writeTemplate(t, dir), testConfig(t), opts...)
	require.NoError(t, err)
	return g, dir
}

// shapesOf returns the shapes of the i-th slide.
func shapesOf(t *testing.T, g *Generator, i int) []pptx.ShapeInfo {
	t.Helper()
	slides := g.Document().Slides()
	require.Greater(t, len(slides), i)
	return slides[i].Shapes()
}

// texts returns the text of every text-bearing shape.
func texts(shapes []pptx.ShapeInfo) []string {
	var out []string
	for _, s := range shapes {
		if s.Kind == pptx.ShapeText || s.Kind == pptx.ShapePlaceholder {
			out = append(out, s.Paragraphs...)
		}
	}
	return out
}

func findShape(shapes []pptx.ShapeInfo, kind pptx.ShapeKind) (pptx.ShapeInfo, bool) {
	for _, s := range shapes {
		if s.Kind == kind {
			return s, true
		}
	}
	return pptx.ShapeInfo{}, false
}
