package pptx

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
)

// Layout order of the starter template. The deck generator addresses layouts
// by these positions.
var blankLayouts = []struct {
	file string
	name string
	typ  string
	dark bool
}{
	{"slideLayout1.xml", "End", "secHead", true},
	{"slideLayout2.xml", "Title Slide", "title", true},
	{"slideLayout3.xml", "Blank", "blank", false},
	{"slideLayout4.xml", "Title Only", "titleOnly", false},
	{"slideLayout5.xml", "Title and Content", "obj", false},
}

// BlankTemplateOptions customise WriteBlankTemplate.
type BlankTemplateOptions struct {
	LogoText  string // static text on the End layout
	DarkColor string // background of the Title and End layouts, RRGGBB
	Font      string
}

// WriteBlankTemplate writes a 4:3 starter template whose master carries five
// layouts (End, Title Slide, Blank, Title Only, Title and Content) and two
// sample slides.
func WriteBlankTemplate(w io.Writer, opts BlankTemplateOptions) error {
	if opts.LogoText == "" {
		opts.LogoText = "LOGO"
	}
	if opts.DarkColor == "" {
		opts.DarkColor = "2D185C"
	}
	if opts.Font == "" {
		opts.Font = "Calibri"
	}

	p := NewPackage()
	ct := &contentTypes{}
	ct.addDefault("rels", CTRelationship)
	ct.addDefault("xml", CTXML)
	ct.addDefault("png", "image/png")

	put := func(name, contentType, body string) {
		p.SetPart(name, []byte(xmlDeclaration+body))
		if contentType != "" {
			ct.setOverride(name, contentType)
		}
	}
	putRels := func(source string, rels ...Relationship) error {
		data, err := (&Relationships{Items: rels}).marshal()
		if err != nil {
			return err
		}
		p.SetPart(relsPartName(source), data)
		return nil
	}

	if err := putRels("",
		Relationship{ID: "rId1", Type: RelOfficeDocument, Target: "ppt/presentation.xml"},
		Relationship{ID: "rId2", Type: RelCoreProps, Target: "docProps/core.xml"},
		Relationship{ID: "rId3", Type: RelExtendedProps, Target: "docProps/app.xml"},
	); err != nil {
		return err
	}
	put("docProps/core.xml", CTCoreProps, blankCoreXML)
	put("docProps/app.xml", CTExtProps, blankAppXML)

	put("ppt/presentation.xml", CTPresentation, blankPresentationXML)
	if err := putRels("ppt/presentation.xml",
		Relationship{ID: "rId1", Type: RelSlideMaster, Target: "slideMasters/slideMaster1.xml"},
		Relationship{ID: "rId2", Type: RelTheme, Target: "theme/theme1.xml"},
		Relationship{ID: "rId3", Type: RelPresProps, Target: "presProps.xml"},
		Relationship{ID: "rId4", Type: RelViewProps, Target: "viewProps.xml"},
		Relationship{ID: "rId5", Type: RelTableStyles, Target: "tableStyles.xml"},
		Relationship{ID: "rId6", Type: RelSlide, Target: "slides/slide1.xml"},
		Relationship{ID: "rId7", Type: RelSlide, Target: "slides/slide2.xml"},
	); err != nil {
		return err
	}
	put("ppt/presProps.xml", CTPresProps, `<p:presentationPr xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`"/>`)
	put("ppt/viewProps.xml", CTViewProps, `<p:viewPr xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`"/>`)
	put("ppt/tableStyles.xml", CTTableStyles, `<a:tblStyleLst xmlns:a="`+nsA+`" def="`+defaultTableStyleID+`"/>`)
	put("ppt/theme/theme1.xml", CTTheme, blankThemeXML(opts))

	masterRels := make([]Relationship, 0, len(blankLayouts)+1)
	var layoutIDs strings.Builder
	for i, l := range blankLayouts {
		rID := fmt.Sprintf("rId%d", i+1)
		masterRels = append(masterRels, Relationship{ID: rID, Type: RelSlideLayout, Target: "../slideLayouts/" + l.file})
		fmt.Fprintf(&layoutIDs, `<p:sldLayoutId id="%d" r:id="%s"/>`, 2147483649+i, rID)

		name := "ppt/slideLayouts/" + l.file
		put(name, CTSlideLayout, blankLayoutXML(i, opts))
		if err := putRels(name, Relationship{ID: "rId1", Type: RelSlideMaster, Target: "../slideMasters/slideMaster1.xml"}); err != nil {
			return err
		}
	}
	masterRels = append(masterRels, Relationship{
		ID: fmt.Sprintf("rId%d", len(blankLayouts)+1), Type: RelTheme, Target: "../theme/theme1.xml",
	})
	put("ppt/slideMasters/slideMaster1.xml", CTSlideMaster, blankMasterXML(layoutIDs.String()))
	if err := putRels("ppt/slideMasters/slideMaster1.xml", masterRels...); err != nil {
		return err
	}

	put("ppt/slides/slide1.xml", CTSlide, blankSampleTitleSlide)
	if err := putRels("ppt/slides/slide1.xml",
		Relationship{ID: "rId1", Type: RelSlideLayout, Target: "../slideLayouts/slideLayout2.xml"},
	); err != nil {
		return err
	}
	put("ppt/slides/slide2.xml", CTSlide, blankSamplePictureSlide)
	if err := putRels("ppt/slides/slide2.xml",
		Relationship{ID: "rId1", Type: RelSlideLayout, Target: "../slideLayouts/slideLayout3.xml"},
		Relationship{ID: "rId2", Type: RelImage, Target: "../media/image1.png"},
	); err != nil {
		return err
	}
	swatch, err := swatchPNG(opts.DarkColor)
	if err != nil {
		return err
	}
	p.SetPart("ppt/media/image1.png", swatch)

	types, err := ct.marshal()
	if err != nil {
		return err
	}
	p.SetPart(contentTypesPart, types)

	_, err = p.WriteTo(w)
	return err
}

// swatchPNG renders a 4x4 image in the given color.
func swatchPNG(hex string) ([]byte, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const nsDecl = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`

const groupHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const blankCoreXML = `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>brandeck template</dc:title>` +
	`<dc:creator>brandeck</dc:creator></cp:coreProperties>`

const blankAppXML = `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>brandeck</Application></Properties>`

const blankPresentationXML = `<p:presentation ` + nsDecl + ` saveSubsetFonts="1">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`<p:sldIdLst><p:sldId id="256" r:id="rId6"/><p:sldId id="257" r:id="rId7"/></p:sldIdLst>` +
	`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/>` +
	`<p:notesSz cx="6858000" cy="9144000"/>` +
	`</p:presentation>`

const blankSampleTitleSlide = `<p:sld ` + nsDecl + `><p:cSld><p:spTree>` + groupHeader +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>` +
	`<p:nvPr><p:ph type="ctrTitle"/></p:nvPr></p:nvSpPr><p:spPr/>` +
	`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>Template sample</a:t></a:r></a:p></p:txBody></p:sp>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

const blankSamplePictureSlide = `<p:sld ` + nsDecl + `><p:cSld><p:spTree>` + groupHeader +
	`<p:pic><p:nvPicPr><p:cNvPr id="2" name="Picture 1"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>` +
	`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>` +
	`<p:spPr><a:xfrm><a:off x="914400" y="914400"/><a:ext cx="914400" cy="914400"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

func placeholderXML(id int, name, ph string, r Rect, prompt string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`+
		`<p:nvPr><p:ph %s/></p:nvPr></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, name, ph, r.Left, r.Top, r.Width, r.Height, prompt)
}

func blankLayoutXML(index int, opts BlankTemplateOptions) string {
	l := blankLayouts[index]
	var shapes strings.Builder
	switch l.typ {
	case "secHead":
		fmt.Fprintf(&shapes, `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Logo"/><p:cNvSpPr txBox="1"/><p:nvPr userDrawn="1"/></p:nvSpPr>`+
			`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`+
			`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="4000" b="1">`+
			`<a:solidFill><a:srgbClr val="FCFCFC"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
			Inches(2), Inches(3), Inches(6), Inches(1.5), xmlEscape(opts.LogoText))
	case "title":
		shapes.WriteString(placeholderXML(2, "Title 1", `type="ctrTitle"`, InchRect(0.75, 2.1, 8.5, 1.5), "Click to edit title"))
		shapes.WriteString(placeholderXML(3, "Subtitle 2", `type="subTitle" idx="1"`, InchRect(1.5, 3.8, 7, 1.2), "Click to edit subtitle"))
		shapes.WriteString(placeholderXML(4, "Date Placeholder 3", `type="dt" sz="half" idx="10"`, InchRect(0.5, 6.95, 2.1, 0.4), "date"))
		shapes.WriteString(placeholderXML(5, "Footer Placeholder 4", `type="ftr" sz="quarter" idx="11"`, InchRect(3.1, 6.95, 2.9, 0.4), "footer"))
		shapes.WriteString(placeholderXML(6, "Slide Number Placeholder 5", `type="sldNum" sz="quarter" idx="12"`, InchRect(6.6, 6.95, 2.1, 0.4), "#"))
	case "titleOnly":
		shapes.WriteString(placeholderXML(2, "Title 1", `type="title"`, InchRect(0.5, 0.3, 9, 1.1), "Click to edit title"))
	case "obj":
		shapes.WriteString(placeholderXML(2, "Title 1", `type="title"`, InchRect(0.5, 0.3, 9, 1.1), "Click to edit title"))
		shapes.WriteString(placeholderXML(3, "Content Placeholder 2", `idx="1"`, InchRect(0.5, 1.6, 9, 4.5), "Click to edit text"))
	}

	bg := ""
	if l.dark {
		bg = `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="` + opts.DarkColor + `"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`
	}
	return fmt.Sprintf(`<p:sldLayout %s type="%s" preserve="1"><p:cSld name="%s">%s<p:spTree>%s%s</p:spTree></p:cSld>`+
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`,
		nsDecl, l.typ, l.name, bg, groupHeader, shapes.String())
}

func blankMasterXML(layoutIDs string) string {
	return `<p:sldMaster ` + nsDecl + `><p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` +
		groupHeader +
		placeholderXML(2, "Title Placeholder 1", `type="title"`, InchRect(0.5, 0.3, 9, 1.1), "Click to edit title") +
		placeholderXML(3, "Text Placeholder 2", `type="body" idx="1"`, InchRect(0.5, 1.6, 9, 4.5), "Click to edit text") +
		`</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
		`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst>` + layoutIDs + `</p:sldLayoutIdLst>` +
		`<p:txStyles>` +
		`<p:titleStyle><a:lvl1pPr><a:defRPr sz="2800" b="1"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>` +
		`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle>` +
		`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle>` +
		`</p:txStyles></p:sldMaster>`
}

func blankThemeXML(opts BlankTemplateOptions) string {
	fill := func(inner string) string {
		return `<a:solidFill>` + inner + `</a:solidFill>`
	}
	phClr := `<a:schemeClr val="phClr"/>`
	line := func(w int) string {
		return fmt.Sprintf(`<a:ln w="%d" cap="flat" cmpd="sng" algn="ctr">%s<a:prstDash val="solid"/><a:miter lim="800000"/></a:ln>`, w, fill(phClr))
	}
	font := xmlEscape(opts.Font)
	return `<a:theme xmlns:a="` + nsA + `" name="brandeck">` +
		`<a:themeElements>` +
		`<a:clrScheme name="brandeck">` +
		`<a:dk1><a:srgbClr val="000000"/></a:dk1><a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="` + opts.DarkColor + `"/></a:dk2><a:lt2><a:srgbClr val="FCFCFC"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="FF325D"/></a:accent1><a:accent2><a:srgbClr val="2D185C"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="brandeck">` +
		`<a:majorFont><a:latin typeface="` + font + `"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="` + font + `"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
		`</a:fontScheme>` +
		`<a:fmtScheme name="brandeck">` +
		`<a:fillStyleLst>` + fill(phClr) + fill(phClr) + fill(phClr) + `</a:fillStyleLst>` +
		`<a:lnStyleLst>` + line(6350) + line(12700) + line(19050) + `</a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst>` + fill(phClr) + fill(phClr) + fill(phClr) + `</a:bgFillStyleLst>` +
		`</a:fmtScheme>` +
		`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/>` +
		`</a:theme>`
}

func xmlEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
