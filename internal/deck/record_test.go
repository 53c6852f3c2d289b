package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuanying/brandeck/internal/brand"
	"github.com/yuanying/brandeck/internal/frame"
)

func TestParseRecordKinds(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]any
		want SlideDef
	}{
		{
			name: "title",
			rec:  map[string]any{"type": "title", "title": "Report", "subtitle": "Q1 2026"},
			want: TitleSlide{Title: "Report", Subtitle: "Q1 2026"},
		},
		{
			name: "logo",
			rec:  map[string]any{"type": "logo", "title": "ignored"},
			want: LogoSlide{},
		},
		{
			name: "missing type is content",
			rec:  map[string]any{"title": "Findings", "body": "a\nb"},
			want: ContentSlide{Title: "Findings", Body: "a\nb", HasBody: true},
		},
		{
			name: "unknown type is content",
			rec:  map[string]any{"type": "chart", "title": "Findings", "text": "t"},
			want: ContentSlide{Title: "Findings", Body: "t", HasBody: true},
		},
		{
			name: "content prefers body",
			rec:  map[string]any{"type": "content", "body": "b", "text": "t", "image": "x.png", "layout": "image_left"},
			want: ContentSlide{Body: "b", HasBody: true, Image: "x.png", Layout: brand.LayoutImageLeft},
		},
		{
			name: "image prefers text",
			rec:  map[string]any{"type": "image", "title": "Data", "action_title": "NRW leads", "image": "c.png", "body": "b", "text": "t"},
			want: ImageSlide{Title: "Data", ActionTitle: "NRW leads", Image: "c.png", Text: "t"},
		},
		{
			name: "image falls back to body",
			rec:  map[string]any{"type": "image", "image": "c.png", "body": "b"},
			want: ImageSlide{Image: "c.png", Text: "b"},
		},
		{
			name: "table from csv path",
			rec:  map[string]any{"type": "table", "title": "T", "data": "data.csv", "columns": []any{"a", "b"}, "max_rows": 5},
			want: TableSlide{Title: "T", Source: "data.csv", Columns: []string{"a", "b"}, MaxRows: 5},
		},
		{
			name: "table default max rows",
			rec:  map[string]any{"type": "table", "data": "data.csv"},
			want: TableSlide{Source: "data.csv", MaxRows: DefaultMaxRows},
		},
		{
			name: "empty body is kept",
			rec:  map[string]any{"title": "Notes", "body": ""},
			want: ContentSlide{Title: "Notes", HasBody: true},
		},
		{
			name: "no body",
			rec:  map[string]any{"title": "Notes"},
			want: ContentSlide{Title: "Notes"},
		},
		{
			name: "numeric title",
			rec:  map[string]any{"type": "Title", "title": 2026},
			want: TitleSlide{Title: "2026"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecordInlineTable(t *testing.T) {
	def, err := ParseRecord(map[string]any{
		"type": "table",
		"data": map[string]any{
			"columns": []any{"region", "revenue"},
			"rows":    []any{[]any{"NRW", 1000.0}, []any{"Berlin", 42}},
		},
		"max_rows": 10.0,
	})
	require.NoError(t, err)

	ts, ok := def.(TableSlide)
	require.True(t, ok)
	require.NotNil(t, ts.Data)
	assert.Equal(t, []string{"region", "revenue"}, ts.Data.Columns())
	assert.Equal(t, 2, ts.Data.Len())
	assert.Equal(t, 42, ts.Data.Value(1, 1))
	assert.Equal(t, 10, ts.MaxRows)
}

func TestParseRecordFrameData(t *testing.T) {
	f, err := frame.New([]string{"a"}, [][]any{{1}})
	require.NoError(t, err)

	def, err := ParseRecord(map[string]any{"type": "table", "data": f})
	require.NoError(t, err)
	assert.Same(t, f, def.(TableSlide).Data)

	def, err = ParseRecord(map[string]any{"type": "table", "data": *f})
	require.NoError(t, err)
	assert.Equal(t, 1, def.(TableSlide).Data.Len())
}

func TestParseRecordErrors(t *testing.T) {
	bad := []map[string]any{
		{"title": []any{"x"}},
		{"type": "table", "columns": "a"},
		{"type": "table", "columns": []any{1}},
		{"type": "table", "max_rows": "ten"},
		{"type": "table", "max_rows": 2.5},
		{"type": "table", "data": 42},
		{"type": "table", "data": map[string]any{"columns": []any{"a"}, "rows": []any{"x"}}},
		{"type": "table", "data": map[string]any{"columns": []any{"a", "b"}, "rows": []any{[]any{1}}}},
	}
	for _, rec := range bad {
		_, err := ParseRecord(rec)
		assert.ErrorIs(t, err, ErrInvalidRecord, "%v", rec)
	}
}

func TestParseRecords(t *testing.T) {
	defs, err := ParseRecords([]map[string]any{{"type": "title"}, {"type": "logo"}})
	require.NoError(t, err)
	assert.Equal(t, []SlideDef{TitleSlide{}, LogoSlide{}}, defs)

	_, err = ParseRecords([]map[string]any{{"type": "logo"}, {"title": 1.5i}})
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Contains(t, err.Error(), "slide 2")
}
