package fields

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-content-bot/internal/validation"
	"github.com/goliatone/go-content-bot/records"
)

// CaptureKind describes how a field value is collected from the operator.
type CaptureKind string

const (
	KindShortText        CaptureKind = "short_text"
	KindURL              CaptureKind = "url"
	KindLongText         CaptureKind = "long_text"
	KindImageWithCaption CaptureKind = "image_with_caption"
)

var (
	ErrPolicyContentTypeRequired = errors.New("fields: content type required")
	ErrPolicyNameFieldRequired   = errors.New("fields: policy must declare a name field")
	ErrPolicyContentRequired     = errors.New("fields: policy must declare at least one content field")
	ErrPolicyDuplicateField      = errors.New("fields: duplicate field")
	ErrPolicyUnknownField        = errors.New("fields: unknown field")
)

// Field is one capturable attribute of a content type.
type Field struct {
	Name      string
	Kind      CaptureKind
	Optional  bool
	MaxLength int
	// Label is the option text offered when the operator picks a content kind.
	Label string
	// Prompt overrides the default capture prompt for this field.
	Prompt string
}

// Policy describes the ordered fields of a content type.
type Policy struct {
	ContentType string
	Label       string
	// Scoped content types nest under a parent (a product, a question type).
	Scoped bool
	Fields []Field
}

// Content precedence used when editing: media wins over url, url over text.
var contentPrecedence = []string{records.FieldMedia, records.FieldURL, records.FieldDescription}

var kindByField = map[string]CaptureKind{
	records.FieldName:        KindShortText,
	records.FieldURL:         KindURL,
	records.FieldDescription: KindLongText,
	records.FieldMedia:       KindImageWithCaption,
}

var defaultLabels = map[string]string{
	records.FieldURL:         "Ссылка",
	records.FieldDescription: "Текст",
	records.FieldMedia:       "Картинка",
}

// NameField returns the display-name field every policy starts with.
func NameField() Field {
	return Field{Name: records.FieldName, Kind: KindShortText}
}

// URLField returns a link content field.
func URLField() Field {
	return Field{Name: records.FieldURL, Kind: KindURL, Optional: true, Label: defaultLabels[records.FieldURL]}
}

// TextField returns a free-text content field.
func TextField() Field {
	return Field{Name: records.FieldDescription, Kind: KindLongText, Optional: true, Label: defaultLabels[records.FieldDescription]}
}

// MediaField returns an image-with-caption content field.
func MediaField() Field {
	return Field{Name: records.FieldMedia, Kind: KindImageWithCaption, Optional: true, Label: defaultLabels[records.FieldMedia]}
}

// Validate checks the policy is usable by the flows.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.ContentType) == "" {
		return ErrPolicyContentTypeRequired
	}
	seen := make(map[string]struct{}, len(p.Fields))
	hasName := false
	hasContent := false
	for _, field := range p.Fields {
		if _, ok := kindByField[field.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrPolicyUnknownField, field.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("%w: %q", ErrPolicyDuplicateField, field.Name)
		}
		seen[field.Name] = struct{}{}
		if field.Name == records.FieldName {
			hasName = true
		} else {
			hasContent = true
		}
	}
	if !hasName {
		return ErrPolicyNameFieldRequired
	}
	if !hasContent {
		return ErrPolicyContentRequired
	}
	return nil
}

// Field returns the named field when the policy declares it.
func (p Policy) Field(name string) (Field, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return normalizeField(field), true
		}
	}
	return Field{}, false
}

// ContentKinds lists the content fields in declaration order.
func (p Policy) ContentKinds() []Field {
	out := make([]Field, 0, len(p.Fields))
	for _, field := range p.Fields {
		if field.Name == records.FieldName {
			continue
		}
		out = append(out, normalizeField(field))
	}
	return out
}

// SkipsKindSelection reports whether a single content kind makes the
// selection step redundant.
func (p Policy) SkipsKindSelection() bool {
	return len(p.ContentKinds()) == 1
}

// ContentField picks the single content field a record currently uses.
// ok is false when none of the content fields is populated.
func (p Policy) ContentField(rec *records.Record) (Field, bool) {
	if rec == nil {
		return Field{}, false
	}
	for _, name := range contentPrecedence {
		if !rec.Has(name) {
			continue
		}
		if field, ok := p.Field(name); ok {
			return field, true
		}
		return normalizeField(Field{Name: name, Optional: true}), true
	}
	return Field{}, false
}

// Schema renders a JSON schema for create payloads of this content type.
func (p Policy) Schema() map[string]any {
	properties := map[string]any{
		records.FieldName: map[string]any{"type": "string", "minLength": 1},
	}
	required := []any{records.FieldName}
	for _, field := range p.ContentKinds() {
		switch field.Kind {
		case KindURL:
			properties[field.Name] = map[string]any{"type": "string", "pattern": "^https://"}
		case KindImageWithCaption:
			properties[field.Name] = map[string]any{"type": "string", "minLength": 1}
			properties[records.FieldCaption] = map[string]any{"type": "string", "maxLength": validation.MaxCaptionLength}
		default:
			prop := map[string]any{"type": "string"}
			if field.MaxLength > 0 {
				prop["maxLength"] = field.MaxLength
			}
			properties[field.Name] = prop
		}
		if !field.Optional {
			required = append(required, field.Name)
		}
	}
	if p.Scoped {
		properties[records.FieldScope] = map[string]any{"type": "string", "minLength": 1}
		required = append(required, records.FieldScope)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func normalizeField(field Field) Field {
	if field.Kind == "" {
		field.Kind = kindByField[field.Name]
	}
	if field.Label == "" {
		field.Label = defaultLabels[field.Name]
	}
	return field
}
