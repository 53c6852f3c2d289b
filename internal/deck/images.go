package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/pptx"
)

const (
	defaultImageCacheSize = 128
	defaultJPEGQuality    = 90
	maxDecodePixels       = 100 * 1000 * 1000
)

type imageSize struct {
	width  int
	height int
}

// imageStore reads images for placement. Pixel sizes are cached per file
// version; images wider than maxWidth are downscaled before embedding.
type imageStore struct {
	sizes       *lru.Cache[string, imageSize]
	maxWidth    int
	jpegQuality int
	logger      *zap.Logger
}

func newImageStore(cacheSize, maxWidth int, logger *zap.Logger) *imageStore {
	s := &imageStore{maxWidth: maxWidth, jpegQuality: defaultJPEGQuality, logger: logger}
	if cacheSize > 0 {
		s.sizes, _ = lru.New[string, imageSize](cacheSize)
	}
	return s
}

// size returns the pixel dimensions stored in the image header.
func (s *imageStore) size(path string) (imageSize, error) {
	st, err := os.Stat(path)
	if err != nil {
		return imageSize{}, err
	}
	key := fmt.Sprintf("%s@%d:%d", path, st.ModTime().UnixNano(), st.Size())
	if s.sizes != nil {
		if cached, ok := s.sizes.Get(key); ok {
			return cached, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return imageSize{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return imageSize{}, fmt.Errorf("failed to decode image header: %w", err)
	}

	sz := imageSize{width: cfg.Width, height: cfg.Height}
	if s.sizes != nil {
		s.sizes.Add(key, sz)
	}
	return sz, nil
}

// detect classifies the image at path, falling back to image_top.
func (s *imageStore) detect(path string) brand.LayoutName {
	sz, err := s.size(path)
	if err != nil {
		s.logger.Warn("cannot inspect image, using default layout",
			zap.String("path", path),
			zap.String("layout", string(brand.LayoutImageTop)),
			zap.Error(err))
		return brand.LayoutImageTop
	}
	return Classify(sz.width, sz.height)
}

// load reads the image at path ready for embedding.
func (s *imageStore) load(path string) (pptx.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pptx.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return pptx.Image{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	img := pptx.Image{
		Name:   filepath.Base(path),
		Data:   data,
		Ext:    format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	if s.maxWidth <= 0 || cfg.Width <= s.maxWidth {
		return img, nil
	}
	if pixels := uint64(cfg.Width) * uint64(cfg.Height); pixels > maxDecodePixels {
		s.logger.Warn("image too large to downscale, embedding as-is",
			zap.String("path", path), zap.Uint64("pixels", pixels))
		return img, nil
	}
	if format == "gif" {
		if animated, err := isAnimatedGIF(data); err == nil && animated {
			return img, nil
		}
	}

	resized, err := s.downscale(data, format)
	if err != nil {
		s.logger.Warn("image downscale failed, embedding as-is", zap.String("path", path), zap.Error(err))
		return img, nil
	}
	s.logger.Debug("downscaled image",
		zap.String("path", path),
		zap.Int("from", cfg.Width),
		zap.Int("to", resized.Width))
	resized.Name = img.Name
	return resized, nil
}

// downscale resizes to maxWidth keeping the aspect ratio. JPEG stays JPEG;
// everything else is re-encoded as PNG.
func (s *imageStore) downscale(data []byte, format string) (pptx.Image, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return pptx.Image{}, err
	}
	dst := imaging.Resize(src, s.maxWidth, 0, imaging.Lanczos)

	target, ext := imaging.PNG, "png"
	if format == "jpeg" {
		target, ext = imaging.JPEG, "jpeg"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, target, imaging.JPEGQuality(s.jpegQuality)); err != nil {
		return pptx.Image{}, fmt.Errorf("%s encode failed: %w", ext, err)
	}
	b := dst.Bounds()
	return pptx.Image{Data: buf.Bytes(), Ext: ext, Width: b.Dx(), Height: b.Dy()}, nil
}

func isAnimatedGIF(data []byte) (bool, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return false, err
	}
	return len(g.Image) > 1, nil
}
