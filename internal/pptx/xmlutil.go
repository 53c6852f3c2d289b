package pptx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Namespaces used in PresentationML and DrawingML parts.
const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("empty XML document")
	}
	return doc, nil
}

func serializeXML(doc *etree.Document) ([]byte, error) {
	doc.WriteSettings.CanonicalEndTags = false
	return doc.WriteToBytes()
}

// newXMLDocument creates a document with the standard declaration and a root
// element declaring the a, r and p prefixes.
func newXMLDocument(rootTag string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement(rootTag)
	root.CreateAttr("xmlns:a", nsA)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:p", nsP)
	return doc, root
}

// relAttr returns the value of the r:id style attribute (local name "id" with
// a prefix bound to the relationships namespace).
func relAttr(e *etree.Element, local string) string {
	for _, a := range e.Attr {
		if a.Key == local && a.Space != "" && a.Space != "xmlns" {
			return a.Value
		}
	}
	return ""
}

// plainAttr returns an unprefixed attribute.
func plainAttr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key && a.Space == "" {
			return a.Value
		}
	}
	return ""
}

func intAttr(e *etree.Element, key string, def int64) int64 {
	v := plainAttr(e, key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// prefixFor finds the prefix the root element binds to ns.
func prefixFor(root *etree.Element, ns, fallback string) string {
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == ns {
			return a.Key
		}
	}
	return fallback
}

// childByLocal returns the first direct child with the given local name.
func childByLocal(e *etree.Element, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

func setXfrm(parent *etree.Element, tag string, r Rect) {
	xfrm := parent.CreateElement(tag)
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", strconv.FormatInt(r.Left, 10))
	off.CreateAttr("y", strconv.FormatInt(r.Top, 10))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.FormatInt(r.Width, 10))
	ext.CreateAttr("cy", strconv.FormatInt(r.Height, 10))
}

func readXfrm(xfrm *etree.Element) Rect {
	var r Rect
	if off := childByLocal(xfrm, "off"); off != nil {
		r.Left = intAttr(off, "x", 0)
		r.Top = intAttr(off, "y", 0)
	}
	if ext := childByLocal(xfrm, "ext"); ext != nil {
		r.Width = intAttr(ext, "cx", 0)
		r.Height = intAttr(ext, "cy", 0)
	}
	return r
}
