package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Content types of the parts this package writes.
const (
	CTPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	CTSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	CTSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	CTSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	CTTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	CTPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	CTViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	CTTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	CTCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	CTExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	CTRelationship = "application/vnd.openxmlformats-package.relationships+xml"
	CTXML          = "application/xml"
)

type contentTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func loadContentTypes(p *Package) (*contentTypes, error) {
	data, err := p.ReadPart(contentTypesPart)
	if err != nil {
		return nil, ErrContentTypesNotFound
	}
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("failed to parse [Content_Types].xml: %w", err)
	}
	return &ct, nil
}

func (c *contentTypes) marshal() ([]byte, error) {
	out, err := xml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode [Content_Types].xml: %w", err)
	}
	return append([]byte(xmlDeclaration), out...), nil
}

// addDefault registers an extension mapping unless one already exists.
func (c *contentTypes) addDefault(ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	c.Defaults = append(c.Defaults, ctDefault{Extension: ext, ContentType: contentType})
}

// setOverride creates or replaces the override for part.
func (c *contentTypes) setOverride(part, contentType string) {
	name := "/" + normalizePartName(part)
	for i, o := range c.Overrides {
		if strings.EqualFold(o.PartName, name) {
			c.Overrides[i].ContentType = contentType
			return
		}
	}
	c.Overrides = append(c.Overrides, ctOverride{PartName: name, ContentType: contentType})
}

func (c *contentTypes) removeOverride(part string) {
	name := "/" + normalizePartName(part)
	for i, o := range c.Overrides {
		if strings.EqualFold(o.PartName, name) {
			c.Overrides = append(c.Overrides[:i], c.Overrides[i+1:]...)
			return
		}
	}
}

// contentType resolves the content type of a part: override first, then the
// extension default.
func (c *contentTypes) contentType(part string) string {
	name := "/" + normalizePartName(part)
	for _, o := range c.Overrides {
		if strings.EqualFold(o.PartName, name) {
			return o.ContentType
		}
	}
	ext := ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// imageContentType maps an image extension to its MIME type.
func imageContentType(ext string) (string, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return "image/png", true
	case "jpg", "jpeg":
		return "image/jpeg", true
	case "gif":
		return "image/gif", true
	case "bmp":
		return "image/bmp", true
	case "tif", "tiff":
		return "image/tiff", true
	default:
		return "", false
	}
}
