package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"site_cms/internal/domain/models"
)

// FieldKind is the editor control chosen for a content value.
type FieldKind string

const (
	FieldImage    FieldKind = "image"
	FieldIcon     FieldKind = "icon"
	FieldToggle   FieldKind = "toggle"
	FieldArray    FieldKind = "array"
	FieldGroup    FieldKind = "group"
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
)

const multilineThreshold = 50

var (
	imageKey = regexp.MustCompile(`(?i)image|img|photo|bg|background|src|url`)
	iconKey  = regexp.MustCompile(`(?i)icon`)
)

var (
	ErrEmptyArrayNoHint = errors.New("array is empty and no item type hint was given")
	ErrUnknownHint      = errors.New("unknown item type hint")
	ErrMalformedJSON    = errors.New("content is not valid JSON")
)

// Field describes how one key of a content document is edited.
type Field struct {
	Key       string    `json:"key"`
	Kind      FieldKind `json:"kind"`
	InputType string    `json:"inputType,omitempty"`
	Value     any       `json:"value,omitempty"`
	Items     []Field   `json:"items,omitempty"`
	Fields    []Field   `json:"fields,omitempty"`
}

// Form is the editor descriptor of a whole section.
type Form struct {
	Type    string  `json:"type"`
	Variant string  `json:"variant"`
	Fields  []Field `json:"fields"`
}

// BuildForm describes the content of a section. Fields declared by a known
// variant are included even when absent from the stored document.
func BuildForm(sectionType string, doc models.Document) Form {
	return Form{
		Type:    sectionType,
		Variant: VariantName(sectionType),
		Fields:  Describe(WithDeclaredFields(sectionType, doc)),
	}
}

// Describe classifies every key of doc, recursing into arrays and objects.
// Keys are emitted in sorted order.
func Describe(doc map[string]any) []Field {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, describeValue(k, doc[k]))
	}
	return fields
}

func describeValue(key string, value any) Field {
	switch v := value.(type) {
	case string:
		switch {
		case imageKey.MatchString(key):
			return Field{Key: key, Kind: FieldImage, Value: v}
		case iconKey.MatchString(key):
			return Field{Key: key, Kind: FieldIcon, Value: v}
		case len(v) > multilineThreshold || key == "description":
			return Field{Key: key, Kind: FieldTextarea, InputType: "text", Value: v}
		default:
			return Field{Key: key, Kind: FieldText, InputType: "text", Value: v}
		}
	case bool:
		return Field{Key: key, Kind: FieldToggle, Value: v}
	case []any:
		items := make([]Field, 0, len(v))
		for i, el := range v {
			items = append(items, describeValue(strconv.Itoa(i), el))
		}
		return Field{Key: key, Kind: FieldArray, Items: items}
	case map[string]any:
		return Field{Key: key, Kind: FieldGroup, Fields: Describe(v)}
	case models.Document:
		return Field{Key: key, Kind: FieldGroup, Fields: Describe(v)}
	case json.Number, float64, float32, int, int64:
		kind := FieldText
		if key == "description" {
			kind = FieldTextarea
		}
		return Field{Key: key, Kind: kind, InputType: "number", Value: v}
	default:
		return Field{Key: key, Kind: FieldText, InputType: "text", Value: v}
	}
}

// Hint names the item type of an empty array.
type Hint string

const (
	HintNone    Hint = ""
	HintString  Hint = "string"
	HintNumber  Hint = "number"
	HintBoolean Hint = "boolean"
	HintObject  Hint = "object"
)

// NewArrayItem infers the shape of an item appended to array. A non empty
// array yields a deep clone of its first element with every primitive reset
// to its zero value. An empty array needs hint.
func NewArrayItem(array []any, hint Hint) (any, error) {
	if len(array) > 0 {
		return blank(array[0]), nil
	}

	switch hint {
	case HintNone:
		return nil, ErrEmptyArrayNoHint
	case HintString:
		return "", nil
	case HintNumber:
		return json.Number("0"), nil
	case HintBoolean:
		return false, nil
	case HintObject:
		return map[string]any{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHint, hint)
}

func blank(value any) any {
	switch v := value.(type) {
	case string:
		return ""
	case json.Number, float64, float32, int, int64:
		return json.Number("0")
	case bool:
		return false
	case []any:
		return []any{}
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = blank(el)
		}
		return out
	case models.Document:
		out := make(map[string]any, len(v))
		for k, el := range v {
			out[k] = blank(el)
		}
		return out
	}
	return nil
}

// ParseRaw parses hand edited JSON text into a document. The top level value
// must be an object.
func ParseRaw(text string) (models.Document, error) {
	var doc models.Document
	if err := doc.UnmarshalJSON([]byte(text)); err != nil {
		if errors.Is(err, models.ErrNotAnObject) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	if doc == nil {
		return nil, models.ErrNotAnObject
	}
	return doc, nil
}

var ErrNotAnArray = errors.New("path does not point to an array")

// ArrayAt walks a dotted path ("items", "features.0.tags") through doc and
// returns the array found there.
func ArrayAt(doc map[string]any, path string) ([]any, error) {
	if path == "" {
		return nil, ErrNotAnArray
	}

	var current any = doc
	for _, seg := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("%w: %q not found", ErrNotAnArray, seg)
			}
			current = next
		case models.Document:
			next, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("%w: %q not found", ErrNotAnArray, seg)
			}
			current = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%w: bad index %q", ErrNotAnArray, seg)
			}
			current = node[i]
		default:
			return nil, fmt.Errorf("%w: %q is not a container", ErrNotAnArray, seg)
		}
	}

	arr, ok := current.([]any)
	if !ok {
		return nil, ErrNotAnArray
	}
	return arr, nil
}
