package outline

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/yuanying/brandeck/internal/deck"
	"github.com/yuanying/brandeck/internal/frame"
)

// HTMLOptions controls FromHTML.
type HTMLOptions struct {
	// BaseDir resolves relative img src paths.
	BaseDir string
	// AssetDir receives images decoded from data URIs. BaseDir is used when
	// empty.
	AssetDir string
	// Bookends closes the deck with a logo slide.
	Bookends bool
	Logger   *zap.Logger
}

// section collects one h2 block.
type section struct {
	title  string
	action string
	body   []string
	image  string
	table  *frame.Frame
}

func (s *section) slides() []deck.SlideDef {
	text := strings.Join(s.body, "\n")
	var out []deck.SlideDef
	if s.image != "" {
		out = append(out, deck.ImageSlide{Title: s.title, ActionTitle: s.action, Image: s.image, Text: text})
	}
	if s.table != nil {
		action := s.action
		if action == "" && s.image == "" && len(s.body) > 0 {
			action = s.body[0]
		}
		out = append(out, deck.TableSlide{Title: s.title, ActionTitle: action, Data: s.table, MaxRows: deck.DefaultMaxRows})
	}
	if len(out) == 0 {
		out = append(out, deck.ContentSlide{Title: s.title, ActionTitle: s.action, Body: text})
	}
	return out
}

type htmlImporter struct {
	opts    HTMLOptions
	logger  *zap.Logger
	slides  []deck.SlideDef
	title   *deck.TitleSlide
	current *section
	assets  int
}

// FromHTML turns a rendered notebook or report into slides. The first h1 and
// the paragraph after it become the title slide. Each h2 starts a slide; an
// h3 inside it becomes the action title, paragraphs and list items the body.
// The first image of a section makes it an image slide and the first table
// adds a table slide.
func FromHTML(r io.Reader, opts HTMLOptions) ([]deck.SlideDef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if opts.AssetDir == "" {
		opts.AssetDir = opts.BaseDir
	}
	im := &htmlImporter{opts: opts, logger: opts.Logger}
	if im.logger == nil {
		im.logger = zap.NewNop()
	}

	var walkErr error
	doc.Find("h1, h2, h3, p, li, img, table").EachWithBreak(func(i int, s *goquery.Selection) bool {
		walkErr = im.visit(s)
		return walkErr == nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	im.flush()

	if im.title != nil {
		im.slides = append([]deck.SlideDef{*im.title}, im.slides...)
	}
	if len(im.slides) == 0 {
		return nil, ErrNoSlides
	}
	if opts.Bookends {
		im.slides = append(im.slides, deck.LogoSlide{})
	}
	return im.slides, nil
}

func (im *htmlImporter) visit(s *goquery.Selection) error {
	tag := goquery.NodeName(s)
	if tag != "table" && s.Closest("table").Length() > 0 {
		return nil
	}
	if tag == "p" && s.Closest("li").Length() > 0 {
		return nil
	}
	text := collapseSpace(s.Text())
	if tag == "li" {
		// Nested lists are visited as their own items.
		text = collapseSpace(s.Clone().Find("ul, ol").Remove().End().Text())
	}

	switch tag {
	case "h1":
		if im.title == nil && len(im.slides) == 0 && im.current == nil {
			im.title = &deck.TitleSlide{Title: text}
			return nil
		}
		im.startSection(text)
	case "h2":
		im.startSection(text)
	case "h3":
		if im.current == nil {
			return nil
		}
		if im.current.action == "" {
			im.current.action = text
		} else if text != "" {
			im.current.body = append(im.current.body, text)
		}
	case "p", "li":
		if text == "" {
			return nil
		}
		if im.current == nil {
			if im.title != nil && im.title.Subtitle == "" {
				im.title.Subtitle = text
			}
			return nil
		}
		im.current.body = append(im.current.body, text)
	case "img":
		if im.current == nil || im.current.image != "" {
			return nil
		}
		src, _ := s.Attr("src")
		path, err := im.imagePath(src)
		if err != nil {
			return err
		}
		im.current.image = path
	case "table":
		if im.current == nil || im.current.table != nil {
			return nil
		}
		if f := tableFrame(s); f != nil {
			im.current.table = f
		}
	}
	return nil
}

func (im *htmlImporter) startSection(title string) {
	im.flush()
	im.current = &section{title: title}
}

func (im *htmlImporter) flush() {
	if im.current == nil {
		return
	}
	im.slides = append(im.slides, im.current.slides()...)
	im.current = nil
}

// imagePath returns a local file for src, writing data URIs to AssetDir.
// Remote images are skipped.
func (im *htmlImporter) imagePath(src string) (string, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return "", nil
	case strings.HasPrefix(src, "data:"):
		return im.writeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		im.logger.Warn("skipping remote image", zap.String("src", src))
		return "", nil
	default:
		return resolve(im.opts.BaseDir, filepath.FromSlash(src)), nil
	}
}

var dataURIExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

func (im *htmlImporter) writeDataURI(src string) (string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	ext, known := dataURIExt[strings.ToLower(mime)]
	if !ok || !isBase64 || !known {
		im.logger.Warn("skipping unsupported data URI", zap.String("type", meta))
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode embedded image: %w", err)
	}

	dir := im.opts.AssetDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	im.assets++
	path := filepath.Join(dir, fmt.Sprintf("image%02d%s", im.assets, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write embedded image: %w", err)
	}
	im.logger.Debug("extracted embedded image", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// tableFrame reads an HTML table. The first row holding th cells, or the
// thead, is the header. A leading column with an empty header is a pandas
// index and is dropped.
func tableFrame(t *goquery.Selection) *frame.Frame {
	var header []string
	var body [][]string
	t.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Children().Filter("th, td").Each(func(j int, c *goquery.Selection) {
			cells = append(cells, collapseSpace(c.Text()))
		})
		if len(cells) == 0 {
			return
		}
		inHead := tr.Closest("thead").Length() > 0
		if header == nil && (inHead || tr.Children().Filter("td").Length() == 0) {
			header = cells
			return
		}
		if inHead {
			// Extra header rows such as the pandas index name row.
			return
		}
		body = append(body, cells)
	})
	if header == nil {
		return nil
	}

	if len(header) > 0 && header[0] == "" {
		header = header[1:]
		for i, row := range body {
			if len(row) > 0 {
				body[i] = row[1:]
			}
		}
	}
	return frame.FromStrings(header, body)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
