package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Alignment is a paragraph's horizontal alignment.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "l"
	AlignCenter  Alignment = "ctr"
	AlignRight   Alignment = "r"
)

// Font describes run properties. Zero values leave the attribute to
// inheritance from the layout and master.
type Font struct {
	Name  string
	Size  float64 // points
	Bold  bool
	Color string // RRGGBB
}

// ParagraphFormat describes paragraph properties.
type ParagraphFormat struct {
	Align       Alignment
	LineSpacing float64 // multiple of single spacing; 0 inherits
}

// TextFrame wraps a p:txBody or a:txBody element.
type TextFrame struct {
	body *etree.Element
}

// SetWordWrap switches between square wrapping and no wrapping.
func (tf *TextFrame) SetWordWrap(wrap bool) {
	bodyPr := childByLocal(tf.body, "bodyPr")
	if bodyPr == nil {
		return
	}
	if wrap {
		bodyPr.CreateAttr("wrap", "square")
	} else {
		bodyPr.CreateAttr("wrap", "none")
	}
}

// Clear removes every paragraph.
func (tf *TextFrame) Clear() {
	for _, c := range tf.body.ChildElements() {
		if c.Tag == "p" {
			tf.body.RemoveChild(c)
		}
	}
}

// AddParagraph appends a paragraph holding text as a single run. Empty text
// produces a paragraph with only end-of-paragraph properties.
func (tf *TextFrame) AddParagraph(text string, font Font, format ParagraphFormat) {
	p := tf.body.CreateElement("a:p")

	if format.Align != AlignDefault || format.LineSpacing > 0 {
		pPr := p.CreateElement("a:pPr")
		if format.Align != AlignDefault {
			pPr.CreateAttr("algn", string(format.Align))
		}
		if format.LineSpacing > 0 {
			pct := pPr.CreateElement("a:lnSpc").CreateElement("a:spcPct")
			pct.CreateAttr("val", strconv.Itoa(int(format.LineSpacing*100000+0.5)))
		}
	}

	if text != "" {
		r := p.CreateElement("a:r")
		writeRunProperties(r.CreateElement("a:rPr"), font)
		r.CreateElement("a:t").SetText(text)
	}
	writeRunProperties(p.CreateElement("a:endParaRPr"), font)
}

// SetText replaces the content with one paragraph per line.
func (tf *TextFrame) SetText(lines []string, font Font, format ParagraphFormat) {
	tf.Clear()
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, line := range lines {
		tf.AddParagraph(line, font, format)
	}
}

// Paragraphs returns the text of every paragraph in order.
func (tf *TextFrame) Paragraphs() []string {
	return paragraphTexts(tf.body)
}

// Text returns the paragraphs joined with newlines.
func (tf *TextFrame) Text() string {
	return strings.Join(tf.Paragraphs(), "\n")
}

// Fonts returns the run properties of the first run of each paragraph.
func (tf *TextFrame) Fonts() []Font {
	var fonts []Font
	for _, p := range tf.body.ChildElements() {
		if p.Tag != "p" {
			continue
		}
		var rPr *etree.Element
		if r := childByLocal(p, "r"); r != nil {
			rPr = childByLocal(r, "rPr")
		} else {
			rPr = childByLocal(p, "endParaRPr")
		}
		fonts = append(fonts, readRunProperties(rPr))
	}
	return fonts
}

// Alignments returns each paragraph's alignment.
func (tf *TextFrame) Alignments() []Alignment {
	var out []Alignment
	for _, p := range tf.body.ChildElements() {
		if p.Tag != "p" {
			continue
		}
		a := AlignDefault
		if pPr := childByLocal(p, "pPr"); pPr != nil {
			a = Alignment(plainAttr(pPr, "algn"))
		}
		out = append(out, a)
	}
	return out
}

func writeRunProperties(rPr *etree.Element, font Font) {
	rPr.CreateAttr("lang", "en-US")
	if font.Size > 0 {
		rPr.CreateAttr("sz", strconv.Itoa(int(font.Size*100+0.5)))
	}
	if font.Bold {
		rPr.CreateAttr("b", "1")
	}
	rPr.CreateAttr("dirty", "0")
	if font.Color != "" {
		rPr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", font.Color)
	}
	if font.Name != "" {
		rPr.CreateElement("a:latin").CreateAttr("typeface", font.Name)
		rPr.CreateElement("a:cs").CreateAttr("typeface", font.Name)
	}
}

func readRunProperties(rPr *etree.Element) Font {
	var f Font
	if rPr == nil {
		return f
	}
	if sz := plainAttr(rPr, "sz"); sz != "" {
		if n, err := strconv.Atoi(sz); err == nil {
			f.Size = float64(n) / 100
		}
	}
	b := plainAttr(rPr, "b")
	f.Bold = b == "1" || b == "true"
	if fill := childByLocal(rPr, "solidFill"); fill != nil {
		if clr := childByLocal(fill, "srgbClr"); clr != nil {
			f.Color = plainAttr(clr, "val")
		}
	}
	if latin := childByLocal(rPr, "latin"); latin != nil {
		f.Name = plainAttr(latin, "typeface")
	}
	return f
}

func paragraphTexts(body *etree.Element) []string {
	var out []string
	if body == nil {
		return out
	}
	for _, p := range body.ChildElements() {
		if p.Tag != "p" {
			continue
		}
		var b strings.Builder
		for _, c := range p.ChildElements() {
			switch c.Tag {
			case "r", "fld":
				if t := childByLocal(c, "t"); t != nil {
					b.WriteString(t.Text())
				}
			case "br":
				b.WriteString("\v")
			}
		}
		out = append(out, b.String())
	}
	return out
}

// newTxBody appends a txBody with the given tag ("p:txBody" or "a:txBody").
func newTxBody(parent *etree.Element, tag string, autofit bool) *etree.Element {
	body := parent.CreateElement(tag)
	bodyPr := body.CreateElement("a:bodyPr")
	if autofit {
		bodyPr.CreateAttr("wrap", "none")
		bodyPr.CreateElement("a:spAutoFit")
	}
	body.CreateElement("a:lstStyle")
	return body
}
