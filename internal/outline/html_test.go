package outline

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yuanying/brandeck/internal/deck"
)

func pngDataURI(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 2))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

const notebookTable = `
<table border="1" class="dataframe">
  <thead>
    <tr style="text-align: right;"><th></th><th>region</th><th>revenue</th></tr>
    <tr><th>idx</th><th></th><th></th></tr>
  </thead>
  <tbody>
    <tr><th>0</th><td>NRW</td><td>1000.5</td></tr>
    <tr><th>1</th><td>Berlin</td><td>20</td></tr>
  </tbody>
</table>`

func TestFromHTMLNotebook(t *testing.T) {
	assets := t.TempDir()
	html := `<html><body>
<h1>Market   Analysis</h1>
<p>Q1 2026 Report</p>
<p>ignored second paragraph</p>
<h2>Key findings</h2>
<ul><li><p>Revenue grew</p></li><li>Costs fell</li></ul>
<h2>Regional data</h2>
<h3>NRW leads</h3>
<img src="` + pngDataURI(t) + `">
<img src="second.png">
<p>Berlin follows</p>
<h2>Numbers</h2>
<p>Top regions by revenue</p>
` + notebookTable + `
</body></html>`

	defs, err := FromHTML(strings.NewReader(html), HTMLOptions{BaseDir: "/nb", AssetDir: assets, Bookends: true})
	require.NoError(t, err)
	require.Len(t, defs, 5)

	assert.Equal(t, deck.TitleSlide{Title: "Market Analysis", Subtitle: "Q1 2026 Report"}, defs[0])
	assert.Equal(t, deck.ContentSlide{Title: "Key findings", Body: "Revenue grew\nCosts fell"}, defs[1])

	img, ok := defs[2].(deck.ImageSlide)
	require.True(t, ok)
	assert.Equal(t, "Regional data", img.Title)
	assert.Equal(t, "NRW leads", img.ActionTitle)
	assert.Equal(t, "Berlin follows", img.Text)
	assert.Equal(t, filepath.Join(assets, "image01.png"), img.Image)
	data, err := os.ReadFile(img.Image)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	tbl, ok := defs[3].(deck.TableSlide)
	require.True(t, ok)
	assert.Equal(t, "Numbers", tbl.Title)
	assert.Equal(t, "Top regions by revenue", tbl.ActionTitle)
	assert.Equal(t, deck.DefaultMaxRows, tbl.MaxRows)
	require.NotNil(t, tbl.Data)
	assert.Equal(t, []string{"region", "revenue"}, tbl.Data.Columns())
	assert.Equal(t, 2, tbl.Data.Len())
	assert.Equal(t, "Berlin", tbl.Data.Value(1, 0))
	assert.Equal(t, 20.0, tbl.Data.Value(1, 1))

	assert.Equal(t, deck.LogoSlide{}, defs[4])
}

func TestFromHTMLRelativeAndRemoteImages(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	html := `<h2>Remote</h2><img src="https://example.com/a.png"><p>text</p>
<h2>Local</h2><img src="img/chart.png">`

	defs, err := FromHTML(strings.NewReader(html), HTMLOptions{BaseDir: "/nb", Logger: zap.New(core)})
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, deck.ContentSlide{Title: "Remote", Body: "text"}, defs[0])
	assert.Equal(t, deck.ImageSlide{Title: "Local", Image: filepath.Join("/nb", "img", "chart.png")}, defs[1])
	assert.Equal(t, 1, logs.FilterMessage("skipping remote image").Len())
}

func TestFromHTMLTableOnlySection(t *testing.T) {
	defs, err := FromHTML(strings.NewReader("<h2>Data</h2>"+notebookTable), HTMLOptions{})
	require.NoError(t, err)
	require.Len(t, defs, 1)

	tbl := defs[0].(deck.TableSlide)
	assert.Empty(t, tbl.ActionTitle)
	assert.Equal(t, 2, tbl.Data.Len())
}

func TestFromHTMLPlainTable(t *testing.T) {
	html := `<h2>Plain</h2><table>
<tr><th>name</th><th>count</th></tr>
<tr><td>a</td><td>1</td></tr>
<tr><td>b</td><td></td></tr>
</table>`
	defs, err := FromHTML(strings.NewReader(html), HTMLOptions{})
	require.NoError(t, err)

	tbl := defs[0].(deck.TableSlide)
	assert.Equal(t, []string{"name", "count"}, tbl.Data.Columns())
	assert.Equal(t, int64(1), tbl.Data.Value(0, 1))
	assert.Nil(t, tbl.Data.Value(1, 1))
}

func TestFromHTMLNestedList(t *testing.T) {
	html := `<h1>Deck</h1><h2>S</h2><ul><li>Parent<ul><li>Child</li><li>Sibling</li></ul></li><li>Last</li></ul>`
	defs, err := FromHTML(strings.NewReader(html), HTMLOptions{})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, deck.ContentSlide{Title: "S", Body: "Parent\nChild\nSibling\nLast"}, defs[1])
}

func TestFromHTMLSecondH1StartsSection(t *testing.T) {
	defs, err := FromHTML(strings.NewReader("<h1>Deck</h1><h1>Appendix</h1><p>notes</p>"), HTMLOptions{})
	require.NoError(t, err)
	assert.Equal(t, []deck.SlideDef{
		deck.TitleSlide{Title: "Deck"},
		deck.ContentSlide{Title: "Appendix", Body: "notes"},
	}, defs)
}

func TestFromHTMLErrors(t *testing.T) {
	_, err := FromHTML(strings.NewReader("<p>no headings</p>"), HTMLOptions{})
	assert.ErrorIs(t, err, ErrNoSlides)

	_, err = FromHTML(strings.NewReader(`<h2>x</h2><img src="data:image/png;base64,!!!">`), HTMLOptions{AssetDir: t.TempDir()})
	assert.Error(t, err)

	defs, err := FromHTML(strings.NewReader(`<h2>x</h2><img src="data:image/svg+xml;base64,AAAA">`), HTMLOptions{AssetDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, deck.ContentSlide{Title: "x"}, defs[0])
}
