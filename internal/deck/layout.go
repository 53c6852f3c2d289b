package deck

import (
	"go.uber.org/zap"

	"github.com/yuanying/brandeck/internal/brand"
)

// Aspect ratio thresholds. Both bounds belong to image_left.
const (
	wideRatio = 1.5
	tallRatio = 0.75
)

// ClassifyRatio maps width/height to an image layout.
func ClassifyRatio(ratio float64) brand.LayoutName {
	switch {
	case ratio > wideRatio:
		return brand.LayoutImageTop
	case ratio < tallRatio:
		return brand.LayoutImageRight
	default:
		return brand.LayoutImageLeft
	}
}

// Classify picks a layout for an image of the given pixel size.
func Classify(width, height int) brand.LayoutName {
	if width <= 0 || height <= 0 {
		return brand.LayoutImageTop
	}
	return ClassifyRatio(float64(width) / float64(height))
}

// DetectLayout classifies the image at path. Unreadable or undecodable files
// get image_top.
func DetectLayout(path string) brand.LayoutName {
	return newImageStore(0, 0, zap.NewNop()).detect(path)
}
