package brand

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrFooterRequired = errors.New("footer text is required")
	ErrInvalidColor   = errors.New("invalid color")
)

// Config is read by every slide operation of one deck. Colors are stored as
// upper-case RRGGBB without the leading '#'.
type Config struct {
	Footer      string
	TitleFont   string
	BodyFont    string
	TitleCaps   bool
	TextColor   string
	AccentColor string
	LightColor  string
}

// Option customises a Config.
type Option func(*Config)

// WithTitleFont sets the font of titles and action titles.
func WithTitleFont(name string) Option {
	return func(c *Config) { c.TitleFont = name }
}

// WithBodyFont sets the font of body text, tables and footers.
func WithBodyFont(name string) Option {
	return func(c *Config) { c.BodyFont = name }
}

// WithFont sets both fonts.
func WithFont(name string) Option {
	return func(c *Config) {
		c.TitleFont = name
		c.BodyFont = name
	}
}

// WithTitleCaps toggles upper-casing of titles.
func WithTitleCaps(caps bool) Option {
	return func(c *Config) { c.TitleCaps = caps }
}

// WithTextColor sets the dark text color.
func WithTextColor(hex string) Option {
	return func(c *Config) { c.TextColor = hex }
}

// WithAccentColor sets the content slide title color.
func WithAccentColor(hex string) Option {
	return func(c *Config) { c.AccentColor = hex }
}

// WithLightColor sets the text color on dark slides.
func WithLightColor(hex string) Option {
	return func(c *Config) { c.LightColor = hex }
}

// NewConfig builds a Config from the brand defaults.
func NewConfig(footer string, opts ...Option) (Config, error) {
	c := Config{
		Footer:      footer,
		TitleFont:   Font,
		BodyFont:    Font,
		TitleCaps:   true,
		TextColor:   TextDark,
		AccentColor: Primary,
		LightColor:  TextLight,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports whether c could have come from NewConfig.
func (c Config) Validate() error {
	return c.normalize()
}

// Normalized validates c and returns it with colors in RRGGBB form.
func (c Config) Normalized() (Config, error) {
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() error {
	if c.Footer == "" {
		return ErrFooterRequired
	}
	for _, field := range []struct {
		name string
		val  *string
	}{
		{"text", &c.TextColor},
		{"accent", &c.AccentColor},
		{"light", &c.LightColor},
	} {
		hex, err := NormalizeColor(*field.val)
		if err != nil {
			return fmt.Errorf("%s color: %w", field.name, err)
		}
		*field.val = hex
	}
	return nil
}

// NormalizeColor accepts "#RRGGBB" or "RRGGBB" and returns upper-case
// RRGGBB.
func NormalizeColor(s string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	return strings.ToUpper(hex), nil
}

// ApplyCaps returns the display form of a title.
func (c Config) ApplyCaps(title string) string {
	if c.TitleCaps {
		return Upper(title)
	}
	return title
}

// Upper upper-cases s with full Unicode case mapping, so "ß" becomes "SS".
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
