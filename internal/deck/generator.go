// Package deck builds branded presentations from a template: slide builders,
// the generator that owns the document, and the batch driver.
package deck

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/frame"
	"github.com/yuanying/brandeck/internal/pptx"
)

type options struct {
	logger        *zap.Logger
	keepTemplate  bool
	maxImageWidth int
	cacheSize     int
	brand         []brand.Option
}

// Option configures a Generator.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithKeepTemplateSlides keeps the slides stored in the template in front of
// the generated ones.
func WithKeepTemplateSlides() Option {
	return func(o *options) { o.keepTemplate = true }
}

// WithMaxImageWidth downscales images wider than px pixels. 0 embeds images
// unchanged.
func WithMaxImageWidth(px int) Option {
	return func(o *options) { o.maxImageWidth = px }
}

// WithImageCacheSize bounds the number of cached image sizes.
func WithImageCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithBrand passes config options to Build and BuildRecords. Open ignores
// them.
func WithBrand(opts ...brand.Option) Option {
	return func(o *options) { o.brand = append(o.brand, opts...) }
}

func collectOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), cacheSize: defaultImageCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ImageSlideOptions are the optional parts of an image slide.
type ImageSlideOptions struct {
	ActionTitle string
	Text        string
	Layout      brand.LayoutName // LayoutAuto when empty
}

// TableSlideOptions are the optional parts of a table slide.
type TableSlideOptions struct {
	ActionTitle string
	Columns     []string
	MaxRows     int
}

// Generator owns one presentation for the length of a generation session.
// It is not safe for concurrent use.
type Generator struct {
	doc    *pptx.Document
	cfg    brand.Config
	images *imageStore
	logger *zap.Logger
}

// Open loads the template at templatePath, forces the widescreen slide size
// and, unless WithKeepTemplateSlides is given, removes the template's slides.
func Open(templatePath string, cfg brand.Config, opts ...Option) (*Generator, error) {
	o := collectOptions(opts)

	cfg, err := cfg.Normalized()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(templatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
		}
		return nil, fmt.Errorf("failed to stat template: %w", err)
	}

	doc, err := pptx.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", templatePath, err)
	}
	doc.SetSlideSize(brand.SlideWidth, brand.SlideHeight)

	inherited := len(doc.Slides())
	if !o.keepTemplate {
		if err := doc.ClearSlides(); err != nil {
			return nil, fmt.Errorf("failed to clear template slides: %w", err)
		}
	}
	o.logger.Info("opened template",
		zap.String("path", templatePath),
		zap.Int("layouts", len(doc.Layouts())),
		zap.Int("templateSlides", inherited),
		zap.Bool("kept", o.keepTemplate))

	return &Generator{
		doc:    doc,
		cfg:    cfg,
		images: newImageStore(o.cacheSize, o.maxImageWidth, o.logger),
		logger: o.logger,
	}, nil
}

// Config returns the normalized configuration.
func (g *Generator) Config() brand.Config { return g.cfg }

// Document exposes the presentation being built.
func (g *Generator) Document() *pptx.Document { return g.doc }

// SlideCount returns the number of slides in the deck.
func (g *Generator) SlideCount() int { return len(g.doc.Slides()) }

func (g *Generator) newSlide(layout int, kind SlideKind, title string) (*SlideBuilder, error) {
	s, err := g.doc.AddSlide(layout)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("added slide",
		zap.Int("slide", g.SlideCount()),
		zap.String("kind", string(kind)),
		zap.String("title", title),
		zap.String("layout", s.Layout().Name))
	return newSlideBuilder(s, g.cfg, g.images), nil
}

// AddTitleSlide adds the opening slide. Title and subtitle go into the
// layout's placeholders in the light color, followed by the footer.
func (g *Generator) AddTitleSlide(title, subtitle string) (*SlideBuilder, error) {
	b, err := g.newSlide(brand.TemplateTitleSlide, KindTitle, title)
	if err != nil {
		return nil, err
	}

	if tf := b.slide.TitlePlaceholder(); tf != nil {
		tf.SetText(strings.Split(g.cfg.ApplyCaps(title), "\n"),
			pptx.Font{Name: g.cfg.TitleFont, Color: g.cfg.LightColor}, pptx.ParagraphFormat{})
	} else {
		g.logger.Warn("title layout has no title placeholder", zap.String("layout", b.slide.Layout().Name))
	}
	if tf := b.slide.PlaceholderByIdx(1); tf != nil {
		tf.SetText(strings.Split(subtitle, "\n"),
			pptx.Font{Name: g.cfg.BodyFont, Color: g.cfg.LightColor}, pptx.ParagraphFormat{})
	}
	b.addFooter("", g.cfg.LightColor)
	return b, nil
}

// AddContentSlide adds a blank-layout slide with the title in the accent
// color, an optional action title and the footer.
func (g *Generator) AddContentSlide(title, actionTitle string) (*SlideBuilder, error) {
	b, err := g.newSlide(brand.TemplateBlank, KindContent, title)
	if err != nil {
		return nil, err
	}
	b.addTitle(g.cfg.ApplyCaps(title), g.cfg.AccentColor)
	if actionTitle != "" {
		b.ActionTitle(actionTitle)
	}
	b.addFooter("", g.cfg.TextColor)
	return b, nil
}

// AddLogoSlide adds the closing slide. Only the layout's own content shows.
func (g *Generator) AddLogoSlide() (*SlideBuilder, error) {
	return g.newSlide(brand.TemplateSectionHeader, KindLogo, "")
}

// AddImageSlide adds a content slide with a picture and optional text.
func (g *Generator) AddImageSlide(title, imagePath string, opts ImageSlideOptions) (*SlideBuilder, error) {
	b, err := g.AddContentSlide(title, opts.ActionTitle)
	if err != nil {
		return nil, err
	}
	b.Image(imagePath, opts.Layout)
	if opts.Text != "" {
		b.Body(opts.Text)
	}
	return b, b.Err()
}

// AddTableSlide adds a content slide with a data table.
func (g *Generator) AddTableSlide(title string, data *frame.Frame, opts TableSlideOptions) (*SlideBuilder, error) {
	b, err := g.AddContentSlide(title, opts.ActionTitle)
	if err != nil {
		return nil, err
	}
	b.Table(data, TableOptions{Columns: opts.Columns, MaxRows: opts.MaxRows})
	return b, b.Err()
}

// Save writes the deck to path, replacing any existing file, and returns
// path.
func (g *Generator) Save(path string) (string, error) {
	if err := g.doc.Save(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	g.logger.Info("saved deck", zap.String("path", path), zap.Int("slides", g.SlideCount()))
	return path, nil
}

// WriteTo writes the deck to w.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	return g.doc.WriteTo(w)
}
