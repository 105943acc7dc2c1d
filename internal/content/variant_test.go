package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site_cms/internal/domain/models"
)

func TestMismatches(t *testing.T) {
	tests := []struct {
		name       string
		typ        string
		doc        string
		wantFields []string
	}{
		{name: "hero ok", typ: "hero", doc: `{"title":"X","anything":[1,2]}`},
		{name: "hero empty", typ: "hero", doc: `{}`},
		{name: "hero null field", typ: "hero", doc: `{"title":null}`},
		{name: "hero wrong kind", typ: "hero", doc: `{"title":5,"subtitle":true}`, wantFields: []string{"title", "subtitle"}},
		{name: "case insensitive type", typ: "HERO", doc: `{"title":{}}`, wantFields: []string{"title"}},
		{name: "services items must be array", typ: "services", doc: `{"items":{"a":1}}`, wantFields: []string{"items"}},
		{name: "unknown type accepts anything", typ: "timeline", doc: `{"title":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseRaw(tt.doc)
			require.NoError(t, err)

			got := Mismatches(tt.typ, doc)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, got)
				return
			}

			assert.Len(t, got, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, got, f)
			}
		})
	}
}

func TestWithDeclaredFields(t *testing.T) {
	doc := models.Document{"title": "keep"}

	out := WithDeclaredFields("about", doc)

	assert.Equal(t, "keep", out["title"])
	assert.Equal(t, "", out["description"])
	assert.Equal(t, []any{}, out["features"])
	assert.Len(t, doc, 1, "input must not be modified")
}

func TestVariants(t *testing.T) {
	var names []string
	for _, v := range Variants() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"about", "contact", "generic", "hero", "services"}, names)
	assert.Equal(t, UnknownVariant, VariantName("faq"))
}
