package pptx

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Placeholder types that are not cloned onto new slides.
var skippedPlaceholderTypes = map[string]bool{"dt": true, "ftr": true, "sldNum": true}

// Placeholder types that carry no text body.
var textlessPlaceholderTypes = map[string]bool{
	"pic": true, "tbl": true, "chart": true, "dgm": true, "media": true, "clipArt": true,
}

// Slide is one slide part.
type Slide struct {
	doc    *Document
	part   string
	xml    *etree.Document
	rels   *Relationships
	layout *Layout
}

// Part returns the slide's part name.
func (s *Slide) Part() string { return s.part }

// Layout returns the layout the slide was created from.
func (s *Slide) Layout() *Layout { return s.layout }

func (s *Slide) spTree() *etree.Element {
	return s.xml.Root().FindElement("./cSld/spTree")
}

func (s *Slide) nextShapeID() int {
	max := 0
	for _, e := range s.spTree().FindElements(".//cNvPr") {
		if id := int(intAttr(e, "id", 0)); id > max {
			max = id
		}
	}
	return max + 1
}

// AddTextBox appends a text box shape and returns its text frame, which holds
// one empty paragraph.
func (s *Slide) AddTextBox(r Rect) *TextFrame {
	id := s.nextShapeID()
	sp := s.spTree().CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("TextBox %d", id-1))
	nv.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	setXfrm(spPr, "a:xfrm", r)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
	spPr.CreateElement("a:noFill")

	body := newTxBody(sp, "p:txBody", true)
	body.CreateElement("a:p")
	return &TextFrame{body: body}
}

// AddPicture embeds img and places it at r. A zero r.Height is derived from
// the image's pixel aspect ratio. The placed frame is returned.
func (s *Slide) AddPicture(img Image, r Rect) (Rect, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return Rect{}, fmt.Errorf("%w: %s", ErrImageSize, img.Name)
	}
	if r.Height == 0 {
		r.Height = int64(float64(r.Width)*float64(img.Height)/float64(img.Width) + 0.5)
	}

	media, err := s.doc.addMedia(img)
	if err != nil {
		return Rect{}, err
	}
	rID := s.rels.Add(RelImage, relativeTarget(s.part, media))

	id := s.nextShapeID()
	pic := s.spTree().CreateElement("p:pic")

	nv := pic.CreateElement("p:nvPicPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("Picture %d", id-1))
	cNvPr.CreateAttr("descr", img.Name)
	nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks").CreateAttr("noChangeAspect", "1")
	nv.CreateElement("p:nvPr")

	fill := pic.CreateElement("p:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", rID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("p:spPr")
	setXfrm(spPr, "a:xfrm", r)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	return r, nil
}

// Placeholder returns the text frame of the first placeholder whose type is
// one of types, or nil.
func (s *Slide) Placeholder(types ...string) *TextFrame {
	for _, sp := range s.spTree().ChildElements() {
		ph := placeholderOf(sp)
		if ph == nil {
			continue
		}
		typ := plainAttr(ph, "type")
		for _, want := range types {
			if typ == want {
				return s.textFrameOf(sp)
			}
		}
	}
	return nil
}

// PlaceholderByIdx returns the text frame of the placeholder with the given
// idx, or nil.
func (s *Slide) PlaceholderByIdx(idx int) *TextFrame {
	for _, sp := range s.spTree().ChildElements() {
		ph := placeholderOf(sp)
		if ph != nil && intAttr(ph, "idx", 0) == int64(idx) {
			return s.textFrameOf(sp)
		}
	}
	return nil
}

// TitlePlaceholder returns the title or centered-title placeholder.
func (s *Slide) TitlePlaceholder() *TextFrame {
	return s.Placeholder("title", "ctrTitle")
}

func (s *Slide) textFrameOf(sp *etree.Element) *TextFrame {
	if sp.Tag != "sp" {
		return nil
	}
	body := childByLocal(sp, "txBody")
	if body == nil {
		body = newTxBody(sp, "p:txBody", false)
		body.CreateElement("a:p")
	}
	return &TextFrame{body: body}
}

func placeholderOf(shape *etree.Element) *etree.Element {
	for _, nv := range shape.ChildElements() {
		if !strings.HasPrefix(nv.Tag, "nv") {
			continue
		}
		if nvPr := childByLocal(nv, "nvPr"); nvPr != nil {
			return childByLocal(nvPr, "ph")
		}
	}
	return nil
}

// clonePlaceholders copies the layout's placeholders onto the slide as empty
// shapes that inherit position and formatting.
func (s *Slide) clonePlaceholders(layoutTree *etree.Element) {
	if layoutTree == nil {
		return
	}
	for _, shape := range layoutTree.ChildElements() {
		if shape.Tag != "sp" {
			continue
		}
		ph := placeholderOf(shape)
		if ph == nil {
			continue
		}
		typ := plainAttr(ph, "type")
		if skippedPlaceholderTypes[typ] {
			continue
		}

		name := ""
		if nv := childByLocal(shape, "nvSpPr"); nv != nil {
			if c := childByLocal(nv, "cNvPr"); c != nil {
				name = plainAttr(c, "name")
			}
		}

		id := s.nextShapeID()
		sp := s.spTree().CreateElement("p:sp")
		nv := sp.CreateElement("p:nvSpPr")
		cNvPr := nv.CreateElement("p:cNvPr")
		cNvPr.CreateAttr("id", strconv.Itoa(id))
		cNvPr.CreateAttr("name", name)
		nv.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
		newPh := nv.CreateElement("p:nvPr").CreateElement("p:ph")
		for _, key := range []string{"type", "orient", "sz", "idx"} {
			if v := plainAttr(ph, key); v != "" {
				newPh.CreateAttr(key, v)
			}
		}
		sp.CreateElement("p:spPr")
		if !textlessPlaceholderTypes[typ] {
			body := newTxBody(sp, "p:txBody", false)
			body.CreateElement("a:p")
		}
	}
}

// ShapeKind classifies shapes returned by Shapes.
type ShapeKind string

const (
	ShapeText        ShapeKind = "text"
	ShapePlaceholder ShapeKind = "placeholder"
	ShapePicture     ShapeKind = "picture"
	ShapeTable       ShapeKind = "table"
	ShapeOther       ShapeKind = "other"
)

// ShapeInfo is a read-only view of a top-level shape.
type ShapeInfo struct {
	ID              int
	Name            string
	Kind            ShapeKind
	Frame           Rect
	PlaceholderType string
	PlaceholderIdx  int
	Paragraphs      []string
	Fonts           []Font
	Alignments      []Alignment
	Rows            [][]string
	RowFonts        [][]Font
	ImagePart       string
}

// Shapes lists the slide's top-level shapes in z-order.
func (s *Slide) Shapes() []ShapeInfo {
	var out []ShapeInfo
	for _, e := range s.spTree().ChildElements() {
		var info ShapeInfo
		switch e.Tag {
		case "sp":
			info.Kind = ShapeText
			if ph := placeholderOf(e); ph != nil {
				info.Kind = ShapePlaceholder
				info.PlaceholderType = plainAttr(ph, "type")
				info.PlaceholderIdx = int(intAttr(ph, "idx", 0))
			}
			if spPr := childByLocal(e, "spPr"); spPr != nil {
				info.Frame = readXfrm(childByLocal(spPr, "xfrm"))
			}
			if body := childByLocal(e, "txBody"); body != nil {
				tf := &TextFrame{body: body}
				info.Paragraphs = tf.Paragraphs()
				info.Fonts = tf.Fonts()
				info.Alignments = tf.Alignments()
			}
		case "pic":
			info.Kind = ShapePicture
			if spPr := childByLocal(e, "spPr"); spPr != nil {
				info.Frame = readXfrm(childByLocal(spPr, "xfrm"))
			}
			if blip := e.FindElement("./blipFill/blip"); blip != nil {
				if rel, ok := s.rels.Get(relAttr(blip, "embed")); ok {
					info.ImagePart = resolveTarget(s.part, rel.Target)
				}
			}
		case "graphicFrame":
			info.Kind = ShapeOther
			info.Frame = readXfrm(childByLocal(e, "xfrm"))
			if tbl := e.FindElement(".//tbl"); tbl != nil {
				info.Kind = ShapeTable
				t := &Table{tbl: tbl}
				info.Rows = t.Texts()
				info.RowFonts = t.fonts()
			}
		case "nvGrpSpPr", "grpSpPr", "extLst":
			continue
		default:
			info.Kind = ShapeOther
		}
		for _, nv := range e.ChildElements() {
			if c := childByLocal(nv, "cNvPr"); c != nil {
				info.ID = int(intAttr(c, "id", 0))
				info.Name = plainAttr(c, "name")
				break
			}
		}
		out = append(out, info)
	}
	return out
}

func (s *Slide) flush() error {
	data, err := serializeXML(s.xml)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.part, err)
	}
	s.doc.pkg.SetPart(s.part, data)

	rels, err := s.rels.marshal()
	if err != nil {
		return err
	}
	s.doc.pkg.SetPart(relsPartName(s.part), rels)
	return nil
}

func newSlideXML() *etree.Document {
	doc, root := newXMLDocument("p:sld")
	tree := root.CreateElement("p:cSld").CreateElement("p:spTree")

	nv := tree.CreateElement("p:nvGrpSpPr")
	c := nv.CreateElement("p:cNvPr")
	c.CreateAttr("id", "1")
	c.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")

	xfrm := tree.CreateElement("p:grpSpPr").CreateElement("a:xfrm")
	for _, pair := range [][3]string{
		{"a:off", "x", "y"}, {"a:ext", "cx", "cy"}, {"a:chOff", "x", "y"}, {"a:chExt", "cx", "cy"},
	} {
		e := xfrm.CreateElement(pair[0])
		e.CreateAttr(pair[1], "0")
		e.CreateAttr(pair[2], "0")
	}

	root.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")
	return doc
}

// nextSlidePart picks the first unused ppt/slides/slideN.xml name.
func nextSlidePart(p *Package) string {
	for n := 1; ; n++ {
		name := path.Join("ppt/slides", "slide"+strconv.Itoa(n)+".xml")
		if !p.HasPart(name) {
			return name
		}
	}
}
