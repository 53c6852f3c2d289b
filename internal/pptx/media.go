package pptx

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrImageFormat = errors.New("unsupported image format")
	ErrImageSize   = errors.New("image has no pixel dimensions")
)

// Image is encoded image data ready for embedding.
type Image struct {
	Name   string // shown as the picture description
	Data   []byte
	Ext    string // png, jpeg, gif, bmp, tiff
	Width  int    // pixels
	Height int    // pixels
}

// addMedia stores the image under ppt/media and returns the part name.
// Byte-identical images share one part.
func (d *Document) addMedia(img Image) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(img.Ext, "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	if ext == "tif" {
		ext = "tiff"
	}
	ct, ok := imageContentType(ext)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrImageFormat, img.Ext)
	}

	sum := sha256.Sum256(img.Data)
	if part, ok := d.media[sum]; ok && d.pkg.HasPart(part) {
		return part, nil
	}

	var part string
	for n := 1; ; n++ {
		part = "ppt/media/image" + strconv.Itoa(n) + "." + ext
		if !d.pkg.HasPart(part) {
			break
		}
	}
	d.pkg.SetPart(part, img.Data)
	d.types.addDefault(ext, ct)
	d.media[sum] = part
	return part, nil
}
