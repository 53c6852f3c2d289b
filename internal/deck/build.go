package deck

import (
	"fmt"

	"github.com/yuanying/brandeck/internal/brand"
)

// Build renders slides from templatePath into output with the given footer
// and returns output. Config options come from WithBrand. The first failing
// slide aborts the batch and nothing is written.
func Build(templatePath string, slides []SlideDef, output, footer string, opts ...Option) (string, error) {
	o := collectOptions(opts)
	cfg, err := brand.NewConfig(footer, o.brand...)
	if err != nil {
		return "", err
	}

	g, err := Open(templatePath, cfg, opts...)
	if err != nil {
		return "", err
	}
	for i, def := range slides {
		if err := g.Add(def); err != nil {
			return "", fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return g.Save(output)
}

// BuildRecords is Build over untyped records; see ParseRecord.
func BuildRecords(templatePath string, records []map[string]any, output, footer string, opts ...Option) (string, error) {
	defs, err := ParseRecords(records)
	if err != nil {
		return "", err
	}
	return Build(templatePath, defs, output, footer, opts...)
}
