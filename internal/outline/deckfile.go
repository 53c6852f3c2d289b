// Package outline loads slide lists from deck files and HTML reports.
package outline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/deck"
)

var ErrNoSlides = errors.New("deck has no slides")

// BrandConfig is the optional "config" block of a deck file.
type BrandConfig struct {
	Font        string `yaml:"font"`
	TitleFont   string `yaml:"title_font"`
	BodyFont    string `yaml:"body_font"`
	TitleCaps   *bool  `yaml:"title_caps"`
	TextColor   string `yaml:"text_color"`
	AccentColor string `yaml:"accent_color"`
	LightColor  string `yaml:"light_color"`
}

// Options returns the brand options for the fields that are set. Font is
// applied before the specific fonts so those win.
func (c BrandConfig) Options() []brand.Option {
	var opts []brand.Option
	if c.Font != "" {
		opts = append(opts, brand.WithFont(c.Font))
	}
	if c.TitleFont != "" {
		opts = append(opts, brand.WithTitleFont(c.TitleFont))
	}
	if c.BodyFont != "" {
		opts = append(opts, brand.WithBodyFont(c.BodyFont))
	}
	if c.TitleCaps != nil {
		opts = append(opts, brand.WithTitleCaps(*c.TitleCaps))
	}
	if c.TextColor != "" {
		opts = append(opts, brand.WithTextColor(c.TextColor))
	}
	if c.AccentColor != "" {
		opts = append(opts, brand.WithAccentColor(c.AccentColor))
	}
	if c.LightColor != "" {
		opts = append(opts, brand.WithLightColor(c.LightColor))
	}
	return opts
}

// Deck is a parsed deck file.
type Deck struct {
	Template string           `yaml:"template"`
	Output   string           `yaml:"output"`
	Footer   string           `yaml:"footer"`
	Config   BrandConfig      `yaml:"config"`
	Slides   []map[string]any `yaml:"slides"`
}

// Load decodes a deck file. Relative template, output, image and CSV paths
// are resolved against baseDir.
func Load(r io.Reader, baseDir string) (*Deck, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Deck
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSlides
		}
		return nil, fmt.Errorf("invalid deck YAML: %w", err)
	}
	if len(d.Slides) == 0 {
		return nil, ErrNoSlides
	}

	d.Template = resolve(baseDir, d.Template)
	d.Output = resolve(baseDir, d.Output)
	for _, rec := range d.Slides {
		for _, key := range []string{"image", "data"} {
			if p, ok := rec[key].(string); ok {
				rec[key] = resolve(baseDir, p)
			}
		}
	}
	return &d, nil
}

// LoadFile reads the deck file at path. Output defaults to the file name
// with a .pptx extension.
func LoadFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	d, err := Load(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Output == "" {
		d.Output = strings.TrimSuffix(path, filepath.Ext(path)) + ".pptx"
	}
	return d, nil
}

// Build renders the deck. opts are passed to deck.BuildRecords after the
// file's own brand options.
func (d *Deck) Build(opts ...deck.Option) (string, error) {
	all := append([]deck.Option{deck.WithBrand(d.Config.Options()...)}, opts...)
	return deck.BuildRecords(d.Template, d.Slides, d.Output, d.Footer, all...)
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
