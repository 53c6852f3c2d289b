package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuanying/brandeck/internal/pptx"
)

func TestNewConfigDefaults(t *testing.T) {
	c, err := NewConfig("ACME | Confidential")
	require.NoError(t, err)
	assert.Equal(t, "ACME | Confidential", c.Footer)
	assert.Equal(t, "Reddit Sans", c.TitleFont)
	assert.Equal(t, "Reddit Sans", c.BodyFont)
	assert.True(t, c.TitleCaps)
	assert.Equal(t, "2D185C", c.TextColor)
	assert.Equal(t, "FF325D", c.AccentColor)
	assert.Equal(t, "FCFCFC", c.LightColor)
}

func TestNewConfigRequiresFooter(t *testing.T) {
	_, err := NewConfig("")
	assert.ErrorIs(t, err, ErrFooterRequired)

	assert.ErrorIs(t, Config{}.Validate(), ErrFooterRequired)
}

func TestNewConfigOptions(t *testing.T) {
	c, err := NewConfig("f",
		WithFont("Inter"),
		WithTitleFont("Georgia"),
		WithTitleCaps(false),
		WithTextColor("#112233"),
		WithAccentColor("aabbcc"),
		WithLightColor(" #ffffff "),
	)
	require.NoError(t, err)
	assert.Equal(t, "Georgia", c.TitleFont)
	assert.Equal(t, "Inter", c.BodyFont)
	assert.False(t, c.TitleCaps)
	assert.Equal(t, "112233", c.TextColor)
	assert.Equal(t, "AABBCC", c.AccentColor)
	assert.Equal(t, "FFFFFF", c.LightColor)
	assert.NoError(t, c.Validate())
}

func TestNewConfigRejectsBadColors(t *testing.T) {
	for _, bad := range []string{"", "#12345", "#1234567", "GGGGGG", "red"} {
		_, err := NewConfig("f", WithAccentColor(bad))
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestApplyCaps(t *testing.T) {
	c, err := NewConfig("f")
	require.NoError(t, err)
	assert.Equal(t, "KEY FINDINGS", c.ApplyCaps("Key findings"))
	assert.Equal(t, "HAUPTSTRASSE", c.ApplyCaps("Hauptstraße"))
	assert.Equal(t, "ÜBERSICHT", c.ApplyCaps("Übersicht"))

	c.TitleCaps = false
	assert.Equal(t, "Key findings", c.ApplyCaps("Key findings"))
}

func TestStylesAreCopies(t *testing.T) {
	s := Title()
	s.Size = 99
	s.Rect.Left = 0
	assert.Equal(t, 28.0, Title().Size)
	assert.Equal(t, pptx.Inches(0.63), Title().Rect.Left)
}

func TestTextStyles(t *testing.T) {
	assert.Equal(t, pptx.InchRect(0.63, 0.61, 11.99, 0.47), ActionTitle().Rect)
	assert.False(t, ActionTitle().Bold)
	assert.False(t, ActionTitle().Caps)
	assert.Equal(t, 1.15, Body().LineSpacing)
	assert.Equal(t, pptx.AlignCenter, Footer().Align)
	assert.Equal(t, 10.0, Footer().Size)
}

func TestLayouts(t *testing.T) {
	for _, name := range LayoutNames() {
		l, ok := Layout(name)
		require.True(t, ok, name)
		assert.Equal(t, name, l.Name)
		assert.Equal(t, name != LayoutFullImage, l.HasText, name)
	}

	top, _ := Layout(LayoutImageTop)
	assert.Equal(t, pptx.InchRect(0.63, 5.4, 11.99, 1.3), top.Text)
	right, _ := Layout(LayoutImageRight)
	assert.Equal(t, pptx.InchRect(6.5, 1.2, 5.5, 4.5), right.Image)

	_, ok := Layout(LayoutAuto)
	assert.False(t, ok)
	_, ok = Layout("diagonal")
	assert.False(t, ok)
}
