package deck

import (
	"fmt"
	"math"
	"strings"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/frame"
)

// ParseRecord converts an untyped slide record into a SlideDef. A missing or
// unknown "type" yields a ContentSlide. Recognised keys are type, title,
// subtitle, action_title, body, text, image, layout, data, columns and
// max_rows.
//
// Image slides take "text" before "body"; content slides take "body" before
// "text". Table data may be a *frame.Frame, a frame.Frame, a CSV path or a
// mapping with "columns" and "rows".
func ParseRecord(rec map[string]any) (SlideDef, error) {
	r := record(rec)
	kind, err := r.str("type")
	if err != nil {
		return nil, err
	}
	title, err := r.str("title")
	if err != nil {
		return nil, err
	}
	action, err := r.str("action_title")
	if err != nil {
		return nil, err
	}

	switch SlideKind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindTitle:
		sub, err := r.str("subtitle")
		if err != nil {
			return nil, err
		}
		return TitleSlide{Title: title, Subtitle: sub}, nil

	case KindLogo:
		return LogoSlide{}, nil

	case KindImage:
		img, err := r.str("image")
		if err != nil {
			return nil, err
		}
		text, err := r.firstStr("text", "body")
		if err != nil {
			return nil, err
		}
		layout, err := r.str("layout")
		if err != nil {
			return nil, err
		}
		return ImageSlide{
			Title:       title,
			ActionTitle: action,
			Image:       img,
			Text:        text,
			Layout:      brand.LayoutName(layout),
		}, nil

	case KindTable:
		t := TableSlide{Title: title, ActionTitle: action}
		if t.Data, t.Source, err = tableData(rec["data"]); err != nil {
			return nil, err
		}
		if t.Columns, err = r.strings("columns"); err != nil {
			return nil, err
		}
		if t.MaxRows, err = r.integer("max_rows", DefaultMaxRows); err != nil {
			return nil, err
		}
		return t, nil

	default:
		body, err := r.firstStr("body", "text")
		if err != nil {
			return nil, err
		}
		img, err := r.str("image")
		if err != nil {
			return nil, err
		}
		layout, err := r.str("layout")
		if err != nil {
			return nil, err
		}
		return ContentSlide{
			Title:       title,
			ActionTitle: action,
			Body:        body,
			HasBody:     r.has("body", "text"),
			Image:       img,
			Layout:      brand.LayoutName(layout),
		}, nil
	}
}

// ParseRecords converts records in order, stopping at the first bad one.
func ParseRecords(recs []map[string]any) ([]SlideDef, error) {
	defs := make([]SlideDef, 0, len(recs))
	for i, rec := range recs {
		def, err := ParseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

type record map[string]any

// str returns a scalar field as text; absent and nil give "".
func (r record) str(key string) (string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", nil
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case bool, int, int64, float64, uint64:
		return fmt.Sprint(x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be text, got %T", ErrInvalidRecord, key, v)
	}
}

// has reports whether any of keys is present.
func (r record) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := r[k]; ok {
			return true
		}
	}
	return false
}

// firstStr returns the first present key among keys.
func (r record) firstStr(keys ...string) (string, error) {
	for _, k := range keys {
		if _, ok := r[k]; ok {
			return r.str(k)
		}
	}
	return "", nil
}

func (r record) strings(key string) ([]string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a list of text, got %T", ErrInvalidRecord, key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list, got %T", ErrInvalidRecord, key, v)
	}
}

func (r record) integer(key string, def int) (int, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return def, nil
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidRecord, key, x)
		}
		return int(x), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidRecord, key, v)
	}
}

// tableData interprets the "data" field.
func tableData(v any) (*frame.Frame, string, error) {
	switch x := v.(type) {
	case nil:
		return nil, "", nil
	case *frame.Frame:
		return x, "", nil
	case frame.Frame:
		return &x, "", nil
	case string:
		return nil, x, nil
	case map[string]any:
		r := record(x)
		cols, err := r.strings("columns")
		if err != nil {
			return nil, "", err
		}
		var rows [][]any
		switch raw := x["rows"].(type) {
		case nil:
		case [][]any:
			rows = raw
		case []any:
			for i, item := range raw {
				row, ok := item.([]any)
				if !ok {
					return nil, "", fmt.Errorf("%w: data row %d must be a list, got %T", ErrInvalidRecord, i+1, item)
				}
				rows = append(rows, row)
			}
		default:
			return nil, "", fmt.Errorf("%w: data rows must be a list, got %T", ErrInvalidRecord, raw)
		}
		f, err := frame.New(cols, rows)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		return f, "", nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported table data %T", ErrInvalidRecord, v)
	}
}
