package pptx

import "math"

// EMU conversion factors.
const (
	EMUPerInch = 914400
	EMUPerPt   = 12700
)

// Widescreen 16:9 slide size.
const (
	WidescreenWidth  int64 = 12192000
	WidescreenHeight int64 = 6858000
)

// Inches converts inches to EMU.
func Inches(v float64) int64 {
	return int64(math.Round(v * EMUPerInch))
}

// Points converts points to EMU.
func Points(v float64) int64 {
	return int64(math.Round(v * EMUPerPt))
}

// Rect is a shape frame in EMU.
type Rect struct {
	Left   int64
	Top    int64
	Width  int64
	Height int64
}

// InchRect builds a Rect from inch values.
func InchRect(left, top, width, height float64) Rect {
	return Rect{Left: Inches(left), Top: Inches(top), Width: Inches(width), Height: Inches(height)}
}
