package pptx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openBlank opens a freshly generated starter template.
func openBlank(t *testing.T) *Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteBlankTemplate(&buf, BlankTemplateOptions{LogoText: "ACME"}))
	doc, err := OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return doc
}

// reopen serializes doc and opens the result.
func reopen(t *testing.T, doc *Document) *Document {
	t.Helper()
	data, err := doc.Bytes()
	require.NoError(t, err)
	out, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return out
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOpenBlankTemplate(t *testing.T) {
	doc := openBlank(t)

	var names []string
	for i, l := range doc.Layouts() {
		assert.Equal(t, i, l.Index)
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"End", "Title Slide", "Blank", "Title Only", "Title and Content"}, names)
	assert.Equal(t, "secHead", doc.Layouts()[0].Type)

	assert.Len(t, doc.Slides(), 2)
	cx, cy := doc.SlideSize()
	assert.Equal(t, int64(9144000), cx)
	assert.Equal(t, int64(6858000), cy)
}

func TestClearSlidesPrunesOrphanedParts(t *testing.T) {
	doc := openBlank(t)
	require.True(t, doc.Package().HasPart("ppt/media/image1.png"))

	require.NoError(t, doc.ClearSlides())
	assert.Empty(t, doc.Slides())
	assert.Empty(t, doc.Package().PartsWithPrefix("ppt/slides/"))
	assert.False(t, doc.Package().HasPart("ppt/media/image1.png"))
	assert.True(t, doc.Package().HasPart("ppt/slideLayouts/slideLayout5.xml"))
	assert.True(t, doc.Package().HasPart("ppt/theme/theme1.xml"))

	out := reopen(t, doc)
	assert.Empty(t, out.Slides())
	assert.Len(t, out.Layouts(), 5)

	types, err := out.Package().ReadPart(contentTypesPart)
	require.NoError(t, err)
	assert.NotContains(t, string(types), "/ppt/slides/slide1.xml")
}

func TestSetSlideSize(t *testing.T) {
	doc := openBlank(t)
	doc.SetSlideSize(WidescreenWidth, WidescreenHeight)

	out := reopen(t, doc)
	cx, cy := out.SlideSize()
	assert.Equal(t, WidescreenWidth, cx)
	assert.Equal(t, WidescreenHeight, cy)

	pres, err := out.Package().ReadPart("ppt/presentation.xml")
	require.NoError(t, err)
	assert.NotContains(t, string(pres), "screen4x3")
}

func TestAddSlideClonesPlaceholders(t *testing.T) {
	doc := openBlank(t)
	require.NoError(t, doc.ClearSlides())

	s, err := doc.AddSlide(1)
	require.NoError(t, err)
	assert.Equal(t, "Title Slide", s.Layout().Name)
	require.NotNil(t, s.TitlePlaceholder())
	require.NotNil(t, s.PlaceholderByIdx(1))

	var types []string
	for _, sh := range s.Shapes() {
		assert.Equal(t, ShapePlaceholder, sh.Kind)
		types = append(types, sh.PlaceholderType)
	}
	assert.Equal(t, []string{"ctrTitle", "subTitle"}, types)

	s.TitlePlaceholder().SetText([]string{"Quarterly Review"}, Font{}, ParagraphFormat{})
	out := reopen(t, doc)
	require.Len(t, out.Slides(), 1)
	assert.Equal(t, "Quarterly Review", out.Slides()[0].TitlePlaceholder().Text())
	assert.Equal(t, "Title Slide", out.Slides()[0].Layout().Name)
}

func TestAddSlideLayoutOutOfRange(t *testing.T) {
	doc := openBlank(t)
	_, err := doc.AddSlide(5)
	assert.ErrorIs(t, err, ErrLayoutOutOfRange)
	_, err = doc.AddSlide(-1)
	assert.ErrorIs(t, err, ErrLayoutOutOfRange)
}

func TestTextBoxFormatting(t *testing.T) {
	doc := openBlank(t)
	require.NoError(t, doc.ClearSlides())
	s, err := doc.AddSlide(2)
	require.NoError(t, err)

	tf := s.AddTextBox(InchRect(0.63, 1.2, 11.99, 4.5))
	tf.SetWordWrap(true)
	font := Font{Name: "Reddit Sans", Size: 14, Bold: true, Color: "2D185C"}
	tf.SetText([]string{"first", "", "third"}, font, ParagraphFormat{Align: AlignCenter, LineSpacing: 1.15})

	out := reopen(t, doc)
	shapes := out.Slides()[0].Shapes()
	require.Len(t, shapes, 1)
	sh := shapes[0]
	assert.Equal(t, ShapeText, sh.Kind)
	assert.Equal(t, "TextBox 1", sh.Name)
	assert.Equal(t, InchRect(0.63, 1.2, 11.99, 4.5), sh.Frame)
	assert.Equal(t, []string{"first", "", "third"}, sh.Paragraphs)
	assert.Equal(t, []Alignment{AlignCenter, AlignCenter, AlignCenter}, sh.Alignments)
	for _, f := range sh.Fonts {
		assert.Equal(t, font, f)
	}
}

func TestAddPictureDerivesHeight(t *testing.T) {
	doc := openBlank(t)
	require.NoError(t, doc.ClearSlides())
	s, err := doc.AddSlide(2)
	require.NoError(t, err)

	img := Image{Name: "chart.png", Data: testPNG(t, 200, 100), Ext: "png", Width: 200, Height: 100}
	placed, err := s.AddPicture(img, Rect{Left: Inches(1), Top: Inches(1), Width: Inches(4)})
	require.NoError(t, err)
	assert.Equal(t, Inches(2), placed.Height)

	// Identical bytes share one media part.
	_, err = s.AddPicture(img, InchRect(5, 1, 2, 2))
	require.NoError(t, err)
	assert.Len(t, doc.Package().PartsWithPrefix("ppt/media/"), 1)

	out := reopen(t, doc)
	shapes := out.Slides()[0].Shapes()
	require.Len(t, shapes, 2)
	for _, sh := range shapes {
		assert.Equal(t, ShapePicture, sh.Kind)
		assert.Equal(t, "ppt/media/image1.png", sh.ImagePart)
	}
	assert.Equal(t, InchRect(5, 1, 2, 2), shapes[1].Frame)
}

func TestAddPictureRejectsBadImages(t *testing.T) {
	doc := openBlank(t)
	s, err := doc.AddSlide(2)
	require.NoError(t, err)

	_, err = s.AddPicture(Image{Name: "x.png", Data: []byte("x"), Ext: "png"}, InchRect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrImageSize)

	_, err = s.AddPicture(Image{Name: "x.svg", Data: []byte("x"), Ext: "svg", Width: 1, Height: 1}, InchRect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrImageFormat)
}

func TestAddTable(t *testing.T) {
	doc := openBlank(t)
	require.NoError(t, doc.ClearSlides())
	s, err := doc.AddSlide(2)
	require.NoError(t, err)

	tbl, err := s.AddTable(2, 3, InchRect(0.63, 1.2, 11.99, 0.6))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, 3, tbl.Cols())
	assert.Nil(t, tbl.Cell(2, 0))
	assert.Nil(t, tbl.Cell(0, 3))

	header := Font{Size: 11, Bold: true}
	for c, text := range []string{"Region", "Revenue", "Growth"} {
		tbl.Cell(0, c).SetText([]string{text}, header, ParagraphFormat{})
	}
	for c, text := range []string{"EMEA", "1,000", "2.5"} {
		tbl.Cell(1, c).SetText([]string{text}, Font{Size: 10}, ParagraphFormat{})
	}

	_, err = s.AddTable(0, 1, InchRect(0, 0, 1, 1))
	assert.Error(t, err)

	out := reopen(t, doc)
	shapes := out.Slides()[0].Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, ShapeTable, shapes[0].Kind)
	assert.Equal(t, [][]string{{"Region", "Revenue", "Growth"}, {"EMEA", "1,000", "2.5"}}, shapes[0].Rows)
	assert.Equal(t, header, shapes[0].RowFonts[0][1])
	assert.Equal(t, 10.0, shapes[0].RowFonts[1][2].Size)
}

func TestSlideIDsAreUnique(t *testing.T) {
	doc := openBlank(t)
	for i := 0; i < 3; i++ {
		_, err := doc.AddSlide(2)
		require.NoError(t, err)
	}
	out := reopen(t, doc)
	require.Len(t, out.Slides(), 5)

	pres, err := out.Package().ReadPart("ppt/presentation.xml")
	require.NoError(t, err)
	for _, id := range []string{`id="256"`, `id="257"`, `id="258"`, `id="259"`, `id="260"`} {
		assert.Equal(t, 1, strings.Count(string(pres), id), id)
	}
}

func TestSaveWritesFile(t *testing.T) {
	doc := openBlank(t)
	path := t.TempDir() + "/out.pptx"
	require.NoError(t, doc.Save(path))

	out, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, out.Slides(), 2)
}
