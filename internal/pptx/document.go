package pptx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

var (
	ErrNoSlideMaster    = errors.New("presentation has no slide master")
	ErrLayoutOutOfRange = errors.New("slide layout index out of range")
)

// Layout is a slide layout of the first slide master, indexed in the
// master's layout order.
type Layout struct {
	Index int
	Part  string
	Name  string
	Type  string
	tree  *etree.Element
}

// Document is a presentation opened for editing.
type Document struct {
	pkg      *Package
	types    *contentTypes
	presPart string
	pres     *etree.Document
	presRels *Relationships
	layouts  []*Layout
	slides   []*Slide
	media    map[[32]byte]string
}

// Open opens the presentation at path.
func Open(path string) (*Document, error) {
	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	return FromPackage(pkg)
}

// OpenReader opens a presentation from r.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	pkg, err := ReadPackage(r, size)
	if err != nil {
		return nil, err
	}
	return FromPackage(pkg)
}

// FromPackage interprets pkg as a presentation.
func FromPackage(pkg *Package) (*Document, error) {
	types, err := loadContentTypes(pkg)
	if err != nil {
		return nil, err
	}

	rootRels, err := loadRelationships(pkg, "")
	if err != nil {
		return nil, err
	}
	office := rootRels.ByType(RelOfficeDocument)
	if len(office) == 0 {
		return nil, ErrNoOfficeDocument
	}
	presPart := resolveTarget("", office[0].Target)

	data, err := pkg.ReadPart(presPart)
	if err != nil {
		return nil, err
	}
	pres, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", presPart, err)
	}
	presRels, err := loadRelationships(pkg, presPart)
	if err != nil {
		return nil, err
	}

	d := &Document{
		pkg:      pkg,
		types:    types,
		presPart: presPart,
		pres:     pres,
		presRels: presRels,
		media:    make(map[[32]byte]string),
	}
	if err := d.loadLayouts(); err != nil {
		return nil, err
	}
	if err := d.loadSlides(); err != nil {
		return nil, err
	}
	return d, nil
}

// Package exposes the underlying part store.
func (d *Document) Package() *Package { return d.pkg }

// SlideSize returns the slide width and height in EMU.
func (d *Document) SlideSize() (int64, int64) {
	sz := childByLocal(d.pres.Root(), "sldSz")
	if sz == nil {
		return 0, 0
	}
	return intAttr(sz, "cx", 0), intAttr(sz, "cy", 0)
}

// SetSlideSize forces the slide dimensions, dropping any preset size type.
func (d *Document) SetSlideSize(cx, cy int64) {
	root := d.pres.Root()
	sz := childByLocal(root, "sldSz")
	if sz == nil {
		sz = etree.NewElement(d.presPrefix() + "sldSz")
		root.InsertChildAt(d.presChildIndexAfter("sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst", "sldIdLst"), sz)
	}
	sz.CreateAttr("cx", strconv.FormatInt(cx, 10))
	sz.CreateAttr("cy", strconv.FormatInt(cy, 10))
	sz.RemoveAttr("type")
}

// Layouts returns the first slide master's layouts in order.
func (d *Document) Layouts() []*Layout {
	return d.layouts
}

// Slides returns the slides in presentation order.
func (d *Document) Slides() []*Slide {
	return d.slides
}

// ClearSlides removes every slide from the presentation, together with the
// parts only those slides referenced. Layouts, masters and theme stay intact.
func (d *Document) ClearSlides() error {
	root := d.pres.Root()
	if lst := childByLocal(root, "sldIdLst"); lst != nil {
		for _, id := range lst.ChildElements() {
			d.presRels.Remove(relAttr(id, "id"))
			lst.RemoveChild(id)
		}
	}
	if custShows := childByLocal(root, "custShowLst"); custShows != nil {
		root.RemoveChild(custShows)
	}
	for _, section := range root.FindElements(".//sectionLst") {
		for _, ids := range section.FindElements(".//sldIdLst") {
			for _, id := range ids.ChildElements() {
				ids.RemoveChild(id)
			}
		}
	}

	d.slides = nil
	if err := d.flush(); err != nil {
		return err
	}
	d.prune()
	return nil
}

// AddSlide appends a slide based on the layout at index.
func (d *Document) AddSlide(layoutIndex int) (*Slide, error) {
	if layoutIndex < 0 || layoutIndex >= len(d.layouts) {
		return nil, fmt.Errorf("%w: %d (template has %d layouts)", ErrLayoutOutOfRange, layoutIndex, len(d.layouts))
	}
	layout := d.layouts[layoutIndex]

	part := nextSlidePart(d.pkg)
	s := &Slide{
		doc:    d,
		part:   part,
		xml:    newSlideXML(),
		rels:   &Relationships{},
		layout: layout,
	}
	s.rels.Add(RelSlideLayout, relativeTarget(part, layout.Part))
	s.clonePlaceholders(layout.tree)

	// Reserve the part name before any media is added.
	d.pkg.SetPart(part, nil)
	d.types.setOverride(part, CTSlide)

	rID := d.presRels.Add(RelSlide, relativeTarget(d.presPart, part))
	lst := d.sldIdLst()
	sldID := lst.CreateElement(d.presPrefix() + "sldId")
	sldID.CreateAttr("id", strconv.FormatInt(d.nextSlideID(), 10))
	sldID.CreateAttr(prefixFor(d.pres.Root(), nsR, "r")+":id", rID)

	d.slides = append(d.slides, s)
	return s, nil
}

// Save writes the presentation to path. Any existing file is replaced.
func (d *Document) Save(path string) error {
	if err := d.flush(); err != nil {
		return err
	}
	return d.pkg.SaveAs(path)
}

// WriteTo writes the presentation as a zip archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if err := d.flush(); err != nil {
		return 0, err
	}
	return d.pkg.WriteTo(w)
}

// Bytes returns the serialized presentation.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) flush() error {
	for _, s := range d.slides {
		if err := s.flush(); err != nil {
			return err
		}
	}

	data, err := serializeXML(d.pres)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.presPart, err)
	}
	d.pkg.SetPart(d.presPart, data)

	rels, err := d.presRels.marshal()
	if err != nil {
		return err
	}
	d.pkg.SetPart(relsPartName(d.presPart), rels)

	types, err := d.types.marshal()
	if err != nil {
		return err
	}
	d.pkg.SetPart(contentTypesPart, types)
	return nil
}

// prune deletes parts no relationship chain from the package root reaches.
func (d *Document) prune() {
	reachable := map[string]bool{contentTypesPart: true}
	queue := []string{""}
	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]

		relsName := relsPartName(source)
		if !d.pkg.HasPart(relsName) {
			continue
		}
		reachable[relsName] = true
		rels, err := loadRelationships(d.pkg, source)
		if err != nil {
			continue
		}
		for _, rel := range rels.Items {
			if rel.External() {
				continue
			}
			target := resolveTarget(source, rel.Target)
			if reachable[target] {
				continue
			}
			reachable[target] = true
			queue = append(queue, target)
		}
	}

	for _, name := range d.pkg.PartNames() {
		if reachable[name] {
			continue
		}
		d.pkg.DeletePart(name)
		d.types.removeOverride(name)
	}
	for sum, part := range d.media {
		if !reachable[part] {
			delete(d.media, sum)
		}
	}
}

func (d *Document) loadLayouts() error {
	root := d.pres.Root()
	var masterRID string
	if lst := childByLocal(root, "sldMasterIdLst"); lst != nil {
		if first := childByLocal(lst, "sldMasterId"); first != nil {
			masterRID = relAttr(first, "id")
		}
	}
	rel, ok := d.presRels.Get(masterRID)
	if !ok {
		masters := d.presRels.ByType(RelSlideMaster)
		if len(masters) == 0 {
			return ErrNoSlideMaster
		}
		rel = masters[0]
	}
	masterPart := resolveTarget(d.presPart, rel.Target)

	data, err := d.pkg.ReadPart(masterPart)
	if err != nil {
		return err
	}
	master, err := parseXML(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", masterPart, err)
	}
	masterRels, err := loadRelationships(d.pkg, masterPart)
	if err != nil {
		return err
	}

	lst := childByLocal(master.Root(), "sldLayoutIdLst")
	if lst == nil {
		return nil
	}
	for _, id := range lst.ChildElements() {
		rel, ok := masterRels.Get(relAttr(id, "id"))
		if !ok {
			continue
		}
		layout, err := d.loadLayout(len(d.layouts), resolveTarget(masterPart, rel.Target))
		if err != nil {
			return err
		}
		d.layouts = append(d.layouts, layout)
	}
	return nil
}

func (d *Document) loadLayout(index int, part string) (*Layout, error) {
	data, err := d.pkg.ReadPart(part)
	if err != nil {
		return nil, err
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", part, err)
	}
	l := &Layout{
		Index: index,
		Part:  part,
		Type:  plainAttr(doc.Root(), "type"),
		tree:  doc.Root().FindElement("./cSld/spTree"),
	}
	if cSld := childByLocal(doc.Root(), "cSld"); cSld != nil {
		l.Name = plainAttr(cSld, "name")
	}
	return l, nil
}

func (d *Document) loadSlides() error {
	lst := childByLocal(d.pres.Root(), "sldIdLst")
	if lst == nil {
		return nil
	}
	for _, id := range lst.ChildElements() {
		rel, ok := d.presRels.Get(relAttr(id, "id"))
		if !ok {
			continue
		}
		part := resolveTarget(d.presPart, rel.Target)
		data, err := d.pkg.ReadPart(part)
		if err != nil {
			return err
		}
		doc, err := parseXML(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", part, err)
		}
		rels, err := loadRelationships(d.pkg, part)
		if err != nil {
			return err
		}
		s := &Slide{doc: d, part: part, xml: doc, rels: rels}
		if layouts := rels.ByType(RelSlideLayout); len(layouts) > 0 {
			lp := resolveTarget(part, layouts[0].Target)
			for _, l := range d.layouts {
				if l.Part == lp {
					s.layout = l
					break
				}
			}
		}
		d.slides = append(d.slides, s)
	}
	return nil
}

func (d *Document) presPrefix() string {
	if sp := d.pres.Root().Space; sp != "" {
		return sp + ":"
	}
	return ""
}

// sldIdLst returns the slide id list, creating it after the master id lists
// when the template has none.
func (d *Document) sldIdLst() *etree.Element {
	root := d.pres.Root()
	if lst := childByLocal(root, "sldIdLst"); lst != nil {
		return lst
	}
	lst := etree.NewElement(d.presPrefix() + "sldIdLst")
	root.InsertChildAt(d.presChildIndexAfter("sldMasterIdLst", "notesMasterIdLst", "handoutMasterIdLst"), lst)
	return lst
}

// presChildIndexAfter returns the token index just past the last root child
// whose local name is in after.
func (d *Document) presChildIndexAfter(after ...string) int {
	root := d.pres.Root()
	idx := 0
	for _, c := range root.ChildElements() {
		for _, name := range after {
			if c.Tag == name {
				idx = c.Index() + 1
			}
		}
	}
	return idx
}

func (d *Document) nextSlideID() int64 {
	max := int64(255)
	if lst := childByLocal(d.pres.Root(), "sldIdLst"); lst != nil {
		for _, id := range lst.ChildElements() {
			if n := intAttr(id, "id", 0); n > max {
				max = n
			}
		}
	}
	return max + 1
}
