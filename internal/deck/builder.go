package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/frame"
	"github.com/yuanying/brandeck/internal/pptx"
)

// DefaultMaxRows is the table row limit when none is given.
const DefaultMaxRows = 15

// TableOptions restricts the table drawn by SlideBuilder.Table.
type TableOptions struct {
	Columns []string // all columns when empty
	MaxRows int      // DefaultMaxRows when <= 0
}

// SlideBuilder places content on one slide. Methods chain; the first failure
// is kept and returned by Err, and later calls do nothing.
type SlideBuilder struct {
	slide       *pptx.Slide
	cfg         brand.Config
	images      *imageStore
	imageLayout brand.LayoutName
	err         error
}

func newSlideBuilder(slide *pptx.Slide, cfg brand.Config, images *imageStore) *SlideBuilder {
	return &SlideBuilder{slide: slide, cfg: cfg, images: images}
}

// Err returns the first error raised by a builder call.
func (b *SlideBuilder) Err() error { return b.err }

// Slide exposes the underlying slide.
func (b *SlideBuilder) Slide() *pptx.Slide { return b.slide }

// Layout returns the image layout chosen by the last Image call, or "".
func (b *SlideBuilder) Layout() brand.LayoutName { return b.imageLayout }

// Title adds the slide title, upper-cased when the config asks for it.
func (b *SlideBuilder) Title(text string) *SlideBuilder {
	return b.TitleCaps(text, b.cfg.TitleCaps)
}

// TitleCaps adds the slide title with an explicit caps choice.
func (b *SlideBuilder) TitleCaps(text string, caps bool) *SlideBuilder {
	if b.err != nil {
		return b
	}
	if caps {
		text = brand.Upper(text)
	}
	b.addTitle(text, b.cfg.TextColor)
	return b
}

func (b *SlideBuilder) addTitle(text, color string) {
	style := brand.Title()
	tf := b.slide.AddTextBox(style.Rect)
	tf.SetWordWrap(true)
	tf.SetText([]string{text}, pptx.Font{
		Name:  b.cfg.TitleFont,
		Size:  style.Size,
		Bold:  true,
		Color: color,
	}, pptx.ParagraphFormat{})
}

// ActionTitle adds the line below the title. The text is never re-cased.
func (b *SlideBuilder) ActionTitle(text string) *SlideBuilder {
	if b.err != nil {
		return b
	}
	style := brand.ActionTitle()
	tf := b.slide.AddTextBox(style.Rect)
	tf.SetWordWrap(true)
	tf.SetText([]string{text}, pptx.Font{
		Name:  b.cfg.TitleFont,
		Size:  style.Size,
		Color: b.cfg.TextColor,
	}, pptx.ParagraphFormat{})
	return b
}

// Body adds text with one paragraph per line. After Image it goes into the
// image layout's text slot when there is one.
func (b *SlideBuilder) Body(text string) *SlideBuilder {
	rect := brand.Body().Rect
	if l, ok := brand.Layout(b.imageLayout); ok && l.HasText {
		rect = l.Text
	}
	return b.BodyAt(text, rect)
}

// BodyAt adds body text at an explicit position.
func (b *SlideBuilder) BodyAt(text string, rect pptx.Rect) *SlideBuilder {
	if b.err != nil {
		return b
	}
	style := brand.Body()
	tf := b.slide.AddTextBox(rect)
	tf.SetWordWrap(true)
	tf.SetText(strings.Split(text, "\n"), pptx.Font{
		Name:  b.cfg.BodyFont,
		Size:  style.Size,
		Color: b.cfg.TextColor,
	}, pptx.ParagraphFormat{LineSpacing: style.LineSpacing})
	return b
}

// Image places the picture at path. LayoutAuto, or "", picks the layout from
// the aspect ratio. The width comes from the layout's image slot and the
// height keeps the image's proportions.
func (b *SlideBuilder) Image(path string, layout brand.LayoutName) *SlideBuilder {
	if b.err != nil {
		return b
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.err = fmt.Errorf("%w: %s", ErrImageNotFound, path)
		} else {
			b.err = fmt.Errorf("failed to stat image %s: %w", path, err)
		}
		return b
	}

	if layout == "" || layout == brand.LayoutAuto {
		layout = b.images.detect(path)
	}
	l, ok := brand.Layout(layout)
	if !ok {
		b.err = fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
		return b
	}
	b.imageLayout = layout

	img, err := b.images.load(path)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := b.slide.AddPicture(img, pptx.Rect{Left: l.Image.Left, Top: l.Image.Top, Width: l.Image.Width}); err != nil {
		b.err = fmt.Errorf("failed to place image %s: %w", path, err)
	}
	return b
}

// Table adds a header row and up to MaxRows data rows below the action title.
func (b *SlideBuilder) Table(data *frame.Frame, opts TableOptions) *SlideBuilder {
	if b.err != nil {
		return b
	}
	if data == nil {
		b.err = ErrNoTableData
		return b
	}
	if len(opts.Columns) > 0 {
		sel, err := data.Select(opts.Columns...)
		if err != nil {
			b.err = err
			return b
		}
		data = sel
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	data = data.Head(maxRows)

	columns := data.Columns()
	rows := data.Len() + 1
	body := brand.Body().Rect
	frameRect := pptx.Rect{
		Left:   body.Left,
		Top:    body.Top,
		Width:  body.Width,
		Height: pptx.Inches(math.Min(brand.TableMaxHeight, brand.TableRowHeight*float64(rows))),
	}
	tbl, err := b.slide.AddTable(rows, len(columns), frameRect)
	if err != nil {
		b.err = fmt.Errorf("failed to add table: %w", err)
		return b
	}

	header := pptx.Font{Name: b.cfg.BodyFont, Size: brand.TableHeaderSize, Bold: true, Color: b.cfg.TextColor}
	for c, name := range columns {
		tbl.Cell(0, c).SetText(strings.Split(name, "\n"), header, pptx.ParagraphFormat{})
	}
	cell := pptx.Font{Name: b.cfg.BodyFont, Size: brand.TableCellSize, Color: b.cfg.TextColor}
	for r := 0; r < data.Len(); r++ {
		for c := range columns {
			text := frame.FormatValue(data.Value(r, c))
			tbl.Cell(r+1, c).SetText(strings.Split(text, "\n"), cell, pptx.ParagraphFormat{})
		}
	}
	return b
}

// Footer adds the configured footer text.
func (b *SlideBuilder) Footer() *SlideBuilder {
	return b.FooterText("")
}

// FooterText adds a footer; an empty text falls back to the configured one.
func (b *SlideBuilder) FooterText(text string) *SlideBuilder {
	if b.err != nil {
		return b
	}
	b.addFooter(text, b.cfg.TextColor)
	return b
}

func (b *SlideBuilder) addFooter(text, color string) {
	if text == "" {
		text = b.cfg.Footer
	}
	style := brand.Footer()
	tf := b.slide.AddTextBox(style.Rect)
	tf.SetText([]string{text}, pptx.Font{
		Name:  b.cfg.BodyFont,
		Size:  style.Size,
		Color: color,
	}, pptx.ParagraphFormat{Align: style.Align})
}
