package content

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site_cms/internal/domain/models"
)

func mustParse(t *testing.T, raw string) models.Document {
	t.Helper()
	doc, err := ParseRaw(raw)
	require.NoError(t, err)
	return doc
}

func TestDescribe_Classification(t *testing.T) {
	doc := mustParse(t, `{
		"backgroundImage": "/uploads/a.png",
		"ctaUrl": "/contact",
		"icon": "star",
		"enabled": true,
		"description": "short",
		"title": "Hello",
		"body": "`+strings.Repeat("x", 51)+`",
		"count": 3,
		"nested": {"heading": "h"},
		"tags": ["a", "b"]
	}`)

	fields := Describe(doc)
	byKey := make(map[string]Field, len(fields))
	var keys []string
	for _, f := range fields {
		byKey[f.Key] = f
		keys = append(keys, f.Key)
	}

	assert.Equal(t, []string{"backgroundImage", "body", "count", "ctaUrl", "description", "enabled", "icon", "nested", "tags", "title"}, keys)

	assert.Equal(t, FieldImage, byKey["backgroundImage"].Kind)
	assert.Equal(t, FieldImage, byKey["ctaUrl"].Kind)
	assert.Equal(t, FieldIcon, byKey["icon"].Kind)
	assert.Equal(t, FieldToggle, byKey["enabled"].Kind)
	assert.Equal(t, FieldTextarea, byKey["description"].Kind)
	assert.Equal(t, FieldTextarea, byKey["body"].Kind)
	assert.Equal(t, FieldText, byKey["title"].Kind)

	assert.Equal(t, FieldText, byKey["count"].Kind)
	assert.Equal(t, "number", byKey["count"].InputType)

	require.Equal(t, FieldGroup, byKey["nested"].Kind)
	require.Len(t, byKey["nested"].Fields, 1)
	assert.Equal(t, "heading", byKey["nested"].Fields[0].Key)

	require.Equal(t, FieldArray, byKey["tags"].Kind)
	require.Len(t, byKey["tags"].Items, 2)
	assert.Equal(t, "0", byKey["tags"].Items[0].Key)
	assert.Equal(t, FieldText, byKey["tags"].Items[0].Kind)
}

func TestDescribe_ImageBeatsIcon(t *testing.T) {
	fields := Describe(map[string]any{"iconImage": "a.svg", "iconBool": true})

	require.Len(t, fields, 2)
	assert.Equal(t, FieldToggle, fields[0].Kind)
	assert.Equal(t, FieldImage, fields[1].Kind)
}

func TestDescribe_ArrayOfObjects(t *testing.T) {
	doc := mustParse(t, `{"items":[{"icon":"bolt","title":"Fast"},{"icon":"lock","title":"Safe"}]}`)

	fields := Describe(doc)

	require.Len(t, fields, 1)
	items := fields[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, FieldGroup, items[1].Kind)
	assert.Equal(t, FieldIcon, items[1].Fields[0].Kind)
	assert.Equal(t, "lock", items[1].Fields[0].Value)
}

func TestNewArrayItem(t *testing.T) {
	tests := []struct {
		name    string
		array   []any
		hint    Hint
		want    any
		wantErr error
	}{
		{
			name:  "clone object with zeroed primitives",
			array: []any{map[string]any{"title": "A", "n": json.Number("7"), "on": true, "tags": []any{"x"}, "meta": map[string]any{"src": "a.png"}}},
			want:  map[string]any{"title": "", "n": json.Number("0"), "on": false, "tags": []any{}, "meta": map[string]any{"src": ""}},
		},
		{name: "string element", array: []any{"a", "b"}, want: ""},
		{name: "number element", array: []any{json.Number("1.5")}, want: json.Number("0")},
		{name: "hint ignored when not empty", array: []any{true}, hint: HintString, want: false},
		{name: "empty with string hint", array: []any{}, hint: HintString, want: ""},
		{name: "empty with number hint", array: nil, hint: HintNumber, want: json.Number("0")},
		{name: "empty with boolean hint", array: nil, hint: HintBoolean, want: false},
		{name: "empty with object hint", array: nil, hint: HintObject, want: map[string]any{}},
		{name: "empty without hint", array: []any{}, wantErr: ErrEmptyArrayNoHint},
		{name: "unknown hint", array: nil, hint: Hint("date"), wantErr: ErrUnknownHint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewArrayItem(tt.array, tt.hint)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewArrayItem_DoesNotTouchSource(t *testing.T) {
	first := map[string]any{"title": "keep"}
	_, err := NewArrayItem([]any{first}, HintNone)
	require.NoError(t, err)
	assert.Equal(t, "keep", first["title"])
}

func TestParseRaw(t *testing.T) {
	doc, err := ParseRaw(`{"title":"X","n":10}`)
	require.NoError(t, err)
	assert.Equal(t, "X", doc["title"])
	assert.Equal(t, json.Number("10"), doc["n"])

	_, err = ParseRaw(`{"title":`)
	assert.ErrorIs(t, err, ErrMalformedJSON)

	_, err = ParseRaw(`["a"]`)
	assert.ErrorIs(t, err, models.ErrNotAnObject)

	_, err = ParseRaw(`null`)
	assert.ErrorIs(t, err, models.ErrNotAnObject)

	_, err = ParseRaw(``)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestParseRaw_TrailingData(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"trailing word", `{"a":1} garbage`},
		{"second object", `{"a":1}{"b":2}`},
		{"stray bracket", `{"a":1}]`},
		{"trailing after null", `null x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseRaw(tt.text)
			assert.ErrorIs(t, err, ErrMalformedJSON)
			assert.ErrorIs(t, err, models.ErrTrailingData)
			assert.Nil(t, doc)
		})
	}

	doc, err := ParseRaw("  {\"a\":1}\n\t ")
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), doc["a"])
}

func TestBuildForm(t *testing.T) {
	form := BuildForm("hero", models.Document{"title": "X", "extra": true})

	assert.Equal(t, "hero", form.Variant)

	var keys []string
	for _, f := range form.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"backgroundImage", "ctaLink", "ctaText", "extra", "subtitle", "title"}, keys)

	unknown := BuildForm("pricing-table", models.Document{"plan": "pro"})
	assert.Equal(t, UnknownVariant, unknown.Variant)
	require.Len(t, unknown.Fields, 1)
}

func TestArrayAt(t *testing.T) {
	doc := mustParse(t, `{"items":[{"tags":["a"]},{"tags":[]}],"title":"x"}`)

	arr, err := ArrayAt(doc, "items")
	require.NoError(t, err)
	assert.Len(t, arr, 2)

	arr, err = ArrayAt(doc, "items.0.tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, arr)

	for _, path := range []string{"", "title", "missing", "items.5.tags", "items.x", "title.deeper"} {
		_, err := ArrayAt(doc, path)
		assert.ErrorIs(t, err, ErrNotAnArray, path)
	}
}
