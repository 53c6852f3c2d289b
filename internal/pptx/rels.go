package pptx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Relationship types used by presentations.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	RelTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelPresProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	RelViewProps      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	RelTableStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	RelCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
)

// Relationships is the content of a .rels part.
type Relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []Relationship `xml:"Relationship"`
}

// Relationship is a single edge from a source part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the target lives outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

func parseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return &rels, nil
}

// loadRelationships returns the relationships of source, or an empty set when
// the part has no .rels file.
func loadRelationships(p *Package, source string) (*Relationships, error) {
	name := relsPartName(source)
	if !p.HasPart(name) {
		return &Relationships{}, nil
	}
	data, err := p.ReadPart(name)
	if err != nil {
		return nil, err
	}
	rels, err := parseRelationships(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rels, nil
}

func (r *Relationships) marshal() ([]byte, error) {
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode relationships: %w", err)
	}
	return append([]byte(xmlDeclaration), out...), nil
}

// Get returns the relationship with the given id.
func (r *Relationships) Get(id string) (Relationship, bool) {
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ByType returns relationships of the given type in document order.
func (r *Relationships) ByType(typ string) []Relationship {
	var out []Relationship
	for _, rel := range r.Items {
		if rel.Type == typ {
			out = append(out, rel)
		}
	}
	return out
}

// Add appends a relationship and returns its new id.
func (r *Relationships) Add(typ, target string) string {
	id := r.nextID()
	r.Items = append(r.Items, Relationship{ID: id, Type: typ, Target: target})
	return id
}

// Remove drops the relationship with the given id.
func (r *Relationships) Remove(id string) {
	for i, rel := range r.Items {
		if rel.ID == id {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return
		}
	}
}

func (r *Relationships) nextID() string {
	max := 0
	for _, rel := range r.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > max {
			max = n
		}
	}
	return "rId" + strconv.Itoa(max+1)
}

// relsPartName returns the .rels part for a source part; "" is the package root.
func relsPartName(source string) string {
	source = normalizePartName(source)
	if source == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget turns a relationship target into a part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return normalizePartName(target)
	}
	return normalizePartName(path.Join(path.Dir(normalizePartName(source)), target))
}

// relativeTarget computes the target string that points from source to part.
func relativeTarget(source, part string) string {
	from := strings.Split(path.Dir(normalizePartName(source)), "/")
	to := strings.Split(normalizePartName(part), "/")
	if len(from) == 1 && from[0] == "." {
		from = nil
	}

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(from); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[common:], "/"))
	return b.String()
}
