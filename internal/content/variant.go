package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"site_cms/internal/domain/models"
)

// ValueKind is the JSON kind of a declared variant field.
type ValueKind string

const (
	ValueString  ValueKind = "string"
	ValueNumber  ValueKind = "number"
	ValueBoolean ValueKind = "boolean"
	ValueObject  ValueKind = "object"
	ValueArray   ValueKind = "array"
)

// UnknownVariant is reported for section types without a declared schema.
// Their content is stored as submitted and edited generically.
const UnknownVariant = "unknown"

// Variant is the declared field schema of a known section type. Declared
// fields are optional, but when present they must hold the declared kind.
// Keys not declared by the variant are kept untouched.
type Variant struct {
	Name   string
	Fields map[string]ValueKind
}

var variants = map[string]Variant{
	"hero": {
		Name: "hero",
		Fields: map[string]ValueKind{
			"title":           ValueString,
			"subtitle":        ValueString,
			"backgroundImage": ValueString,
			"ctaText":         ValueString,
			"ctaLink":         ValueString,
		},
	},
	"about": {
		Name: "about",
		Fields: map[string]ValueKind{
			"title":       ValueString,
			"description": ValueString,
			"image":       ValueString,
			"features":    ValueArray,
		},
	},
	"services": {
		Name: "services",
		Fields: map[string]ValueKind{
			"title":       ValueString,
			"description": ValueString,
			"items":       ValueArray,
		},
	},
	"contact": {
		Name: "contact",
		Fields: map[string]ValueKind{
			"title":   ValueString,
			"email":   ValueString,
			"phone":   ValueString,
			"address": ValueString,
		},
	},
	"generic": {
		Name: "generic",
		Fields: map[string]ValueKind{
			"title": ValueString,
			"body":  ValueString,
		},
	},
}

// Lookup returns the variant declared for sectionType.
func Lookup(sectionType string) (Variant, bool) {
	v, ok := variants[strings.ToLower(sectionType)]
	return v, ok
}

// VariantName returns the variant a section type resolves to, UnknownVariant
// when none is declared.
func VariantName(sectionType string) string {
	if v, ok := Lookup(sectionType); ok {
		return v.Name
	}
	return UnknownVariant
}

// Variants lists the declared variants ordered by name.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Mismatches reports the declared fields of sectionType's variant whose value
// in doc has another kind, keyed by field name. Unknown types never mismatch.
// Documents are stored as submitted; callers only surface these as warnings.
func Mismatches(sectionType string, doc models.Document) map[string]string {
	v, ok := Lookup(sectionType)
	if !ok {
		return nil
	}

	var problems map[string]string
	for key, want := range v.Fields {
		value, present := doc[key]
		if !present || value == nil {
			continue
		}
		if got := kindOf(value); got != want {
			if problems == nil {
				problems = make(map[string]string)
			}
			problems[key] = fmt.Sprintf("must be %s, got %s", want, got)
		}
	}
	return problems
}

// WithDeclaredFields returns a copy of doc where every field declared by the
// variant of sectionType is present, missing ones set to their zero value.
func WithDeclaredFields(sectionType string, doc models.Document) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	v, ok := Lookup(sectionType)
	if !ok {
		return out
	}
	for key, kind := range v.Fields {
		if _, present := out[key]; !present {
			out[key] = zeroOf(kind)
		}
	}
	return out
}

func kindOf(value any) ValueKind {
	switch value.(type) {
	case string:
		return ValueString
	case json.Number, float64, float32, int, int64:
		return ValueNumber
	case bool:
		return ValueBoolean
	case []any:
		return ValueArray
	case map[string]any, models.Document:
		return ValueObject
	}
	return ValueKind(fmt.Sprintf("%T", value))
}

func zeroOf(kind ValueKind) any {
	switch kind {
	case ValueNumber:
		return json.Number("0")
	case ValueBoolean:
		return false
	case ValueObject:
		return map[string]any{}
	case ValueArray:
		return []any{}
	}
	return ""
}
