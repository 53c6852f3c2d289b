// Package brand holds the fixed visual contract of generated decks: slot
// positions, font sizes, brand colors and the template's layout order.
package brand

import "github.com/yuanying/brandeck/internal/pptx"

// Brand defaults.
const (
	Font      = "Reddit Sans"
	Primary   = "#FF325D" // content slide titles
	TextDark  = "#2D185C" // text on white backgrounds
	TextLight = "#FCFCFC" // text on the dark title and end slides
)

// Slide size of every generated deck (16:9).
const (
	SlideWidth  = pptx.WidescreenWidth
	SlideHeight = pptx.WidescreenHeight
)

// Positions of the template's layouts in its slide master.
const (
	TemplateSectionHeader = 0 // also the closing logo slide
	TemplateTitleSlide    = 1
	TemplateBlank         = 2
	TemplateTitleVariant  = 3
	TemplateTitleContent  = 4
)

// TextStyle places and formats one text role.
type TextStyle struct {
	Rect        pptx.Rect
	Size        float64 // points
	Bold        bool
	Caps        bool
	LineSpacing float64
	Align       pptx.Alignment
}

var (
	titleStyle = TextStyle{
		Rect: pptx.InchRect(0.63, 0.2, 11.99, 0.41),
		Size: 28,
		Bold: true,
		Caps: true,
	}
	actionTitleStyle = TextStyle{
		Rect: pptx.InchRect(0.63, 0.61, 11.99, 0.47),
		Size: 20,
	}
	bodyStyle = TextStyle{
		Rect:        pptx.InchRect(0.63, 1.2, 11.99, 4.5),
		Size:        14,
		LineSpacing: 1.15,
	}
	footerStyle = TextStyle{
		Rect:  pptx.InchRect(2.82, 6.95, 8.21, 0.4),
		Size:  10,
		Align: pptx.AlignCenter,
	}
)

// Title is the slide title style.
func Title() TextStyle { return titleStyle }

// ActionTitle is the style of the line below the title.
func ActionTitle() TextStyle { return actionTitleStyle }

// Body is the default body text style.
func Body() TextStyle { return bodyStyle }

// Footer is the footer style.
func Footer() TextStyle { return footerStyle }

// Table font sizes.
const (
	TableHeaderSize = 11
	TableCellSize   = 10
)

// Table geometry in inches: the frame starts at the body rect and grows
// RowHeight per row up to MaxHeight.
const (
	TableRowHeight = 0.3
	TableMaxHeight = 4.5
)

// LayoutName identifies an image placement.
type LayoutName string

const (
	LayoutAuto       LayoutName = "auto"
	LayoutImageTop   LayoutName = "image_top"
	LayoutImageLeft  LayoutName = "image_left"
	LayoutImageRight LayoutName = "image_right"
	LayoutFullImage  LayoutName = "full_image"
)

// ImageLayout is an image slot with an optional text slot beside it.
type ImageLayout struct {
	Name    LayoutName
	Image   pptx.Rect
	Text    pptx.Rect
	HasText bool
}

var imageLayouts = map[LayoutName]ImageLayout{
	LayoutImageTop: {
		Name:    LayoutImageTop,
		Image:   pptx.InchRect(0.63, 1.2, 11.99, 4.0),
		Text:    pptx.InchRect(0.63, 5.4, 11.99, 1.3),
		HasText: true,
	},
	LayoutImageLeft: {
		Name:    LayoutImageLeft,
		Image:   pptx.InchRect(0.63, 1.2, 5.5, 4.5),
		Text:    pptx.InchRect(6.5, 1.2, 5.5, 4.5),
		HasText: true,
	},
	LayoutImageRight: {
		Name:    LayoutImageRight,
		Image:   pptx.InchRect(6.5, 1.2, 5.5, 4.5),
		Text:    pptx.InchRect(0.63, 1.2, 5.5, 4.5),
		HasText: true,
	},
	LayoutFullImage: {
		Name:  LayoutFullImage,
		Image: pptx.InchRect(0.5, 1.2, 12.33, 5.3),
	},
}

// Layout looks up a concrete image layout. "auto" is not a layout.
func Layout(name LayoutName) (ImageLayout, bool) {
	l, ok := imageLayouts[name]
	return l, ok
}

// LayoutNames lists the concrete layouts.
func LayoutNames() []LayoutName {
	return []LayoutName{LayoutImageTop, LayoutImageLeft, LayoutImageRight, LayoutFullImage}
}
