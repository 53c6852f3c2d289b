package deck

import (
	"fmt"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/frame"
)

// SlideKind is the record discriminator.
type SlideKind string

const (
	KindTitle   SlideKind = "title"
	KindContent SlideKind = "content"
	KindImage   SlideKind = "image"
	KindTable   SlideKind = "table"
	KindLogo    SlideKind = "logo"
)

// SlideDef is one slide of a batch. The concrete types are TitleSlide,
// ContentSlide, ImageSlide, TableSlide and LogoSlide.
type SlideDef interface {
	Kind() SlideKind
	isSlideDef()
}

// TitleSlide opens a deck.
type TitleSlide struct {
	Title    string
	Subtitle string
}

// ContentSlide carries optional body text and an optional image. The body
// is placed before the image. HasBody adds the body text box even when Body
// is empty.
type ContentSlide struct {
	Title       string
	ActionTitle string
	Body        string
	HasBody     bool
	Image       string
	Layout      brand.LayoutName
}

// ImageSlide places an image and optional text beside or below it.
type ImageSlide struct {
	Title       string
	ActionTitle string
	Image       string
	Text        string
	Layout      brand.LayoutName
}

// TableSlide renders tabular data. Data wins over Source, a CSV path read
// when the slide is added.
type TableSlide struct {
	Title       string
	ActionTitle string
	Data        *frame.Frame
	Source      string
	Columns     []string
	MaxRows     int
}

// LogoSlide closes a deck.
type LogoSlide struct{}

func (TitleSlide) Kind() SlideKind   { return KindTitle }
func (ContentSlide) Kind() SlideKind { return KindContent }
func (ImageSlide) Kind() SlideKind   { return KindImage }
func (TableSlide) Kind() SlideKind   { return KindTable }
func (LogoSlide) Kind() SlideKind    { return KindLogo }

func (TitleSlide) isSlideDef()   {}
func (ContentSlide) isSlideDef() {}
func (ImageSlide) isSlideDef()   {}
func (TableSlide) isSlideDef()   {}
func (LogoSlide) isSlideDef()    {}

// Add appends the slide described by def.
func (g *Generator) Add(def SlideDef) error {
	switch d := def.(type) {
	case TitleSlide:
		_, err := g.AddTitleSlide(d.Title, d.Subtitle)
		return err
	case LogoSlide:
		_, err := g.AddLogoSlide()
		return err
	case ImageSlide:
		_, err := g.AddImageSlide(d.Title, d.Image, ImageSlideOptions{
			ActionTitle: d.ActionTitle,
			Text:        d.Text,
			Layout:      d.Layout,
		})
		return err
	case TableSlide:
		data := d.Data
		if data == nil && d.Source != "" {
			var err error
			if data, err = frame.ReadCSVFile(d.Source); err != nil {
				return err
			}
		}
		_, err := g.AddTableSlide(d.Title, data, TableSlideOptions{
			ActionTitle: d.ActionTitle,
			Columns:     d.Columns,
			MaxRows:     d.MaxRows,
		})
		return err
	case ContentSlide:
		b, err := g.AddContentSlide(d.Title, d.ActionTitle)
		if err != nil {
			return err
		}
		if d.Body != "" || d.HasBody {
			b.Body(d.Body)
		}
		if d.Image != "" {
			b.Image(d.Image, d.Layout)
		}
		return b.Err()
	default:
		return fmt.Errorf("%w: unsupported slide definition %T", ErrInvalidRecord, def)
	}
}
