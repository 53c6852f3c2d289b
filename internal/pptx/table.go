package pptx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

const (
	tableURI = "http://schemas.openxmlformats.org/drawingml/2006/table"
	// Medium Style 2 - Accent 1, the default PowerPoint table style.
	defaultTableStyleID = "{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"
)

// Table wraps an a:tbl element.
type Table struct {
	tbl  *etree.Element
	rows int
	cols int
}

// AddTable appends a rows x cols table in a graphic frame. Column widths and
// row heights divide the frame evenly.
func (s *Slide) AddTable(rows, cols int, r Rect) (*Table, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid table size %dx%d", rows, cols)
	}

	id := s.nextShapeID()
	frame := s.spTree().CreateElement("p:graphicFrame")

	nv := frame.CreateElement("p:nvGraphicFramePr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("Table %d", id-1))
	nv.CreateElement("p:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks").CreateAttr("noGrp", "1")
	nv.CreateElement("p:nvPr")

	setXfrm(frame, "p:xfrm", r)

	data := frame.CreateElement("a:graphic").CreateElement("a:graphicData")
	data.CreateAttr("uri", tableURI)
	tbl := data.CreateElement("a:tbl")

	tblPr := tbl.CreateElement("a:tblPr")
	tblPr.CreateAttr("firstRow", "1")
	tblPr.CreateAttr("bandRow", "1")
	tblPr.CreateElement("a:tableStyleId").SetText(defaultTableStyleID)

	grid := tbl.CreateElement("a:tblGrid")
	colW := r.Width / int64(cols)
	for c := 0; c < cols; c++ {
		w := colW
		if c == cols-1 {
			w = r.Width - colW*int64(cols-1)
		}
		grid.CreateElement("a:gridCol").CreateAttr("w", strconv.FormatInt(w, 10))
	}

	rowH := r.Height / int64(rows)
	for i := 0; i < rows; i++ {
		tr := tbl.CreateElement("a:tr")
		tr.CreateAttr("h", strconv.FormatInt(rowH, 10))
		for c := 0; c < cols; c++ {
			tc := tr.CreateElement("a:tc")
			body := newTxBody(tc, "a:txBody", false)
			body.CreateElement("a:p")
			tc.CreateElement("a:tcPr")
		}
	}

	return &Table{tbl: tbl, rows: rows, cols: cols}, nil
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Cols returns the column count.
func (t *Table) Cols() int { return t.cols }

// Cell returns the text frame of a cell, or nil when out of range.
func (t *Table) Cell(row, col int) *TextFrame {
	trs := t.rowElements()
	if row < 0 || row >= len(trs) {
		return nil
	}
	var cells []*etree.Element
	for _, c := range trs[row].ChildElements() {
		if c.Tag == "tc" {
			cells = append(cells, c)
		}
	}
	if col < 0 || col >= len(cells) {
		return nil
	}
	body := childByLocal(cells[col], "txBody")
	if body == nil {
		return nil
	}
	return &TextFrame{body: body}
}

// Texts returns every cell's text, row by row.
func (t *Table) Texts() [][]string {
	var out [][]string
	for _, tr := range t.rowElements() {
		var row []string
		for _, tc := range tr.ChildElements() {
			if tc.Tag != "tc" {
				continue
			}
			tf := TextFrame{body: childByLocal(tc, "txBody")}
			if tf.body == nil {
				row = append(row, "")
				continue
			}
			row = append(row, tf.Text())
		}
		out = append(out, row)
	}
	return out
}

func (t *Table) fonts() [][]Font {
	var out [][]Font
	for _, tr := range t.rowElements() {
		var row []Font
		for _, tc := range tr.ChildElements() {
			if tc.Tag != "tc" {
				continue
			}
			var f Font
			if body := childByLocal(tc, "txBody"); body != nil {
				if fs := (&TextFrame{body: body}).Fonts(); len(fs) > 0 {
					f = fs[0]
				}
			}
			row = append(row, f)
		}
		out = append(out, row)
	}
	return out
}

func (t *Table) rowElements() []*etree.Element {
	var trs []*etree.Element
	for _, c := range t.tbl.ChildElements() {
		if c.Tag == "tr" {
			trs = append(trs, c)
		}
	}
	return trs
}
