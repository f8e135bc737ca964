package records

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Field keys understood by Record.Apply and by capture payloads.
const (
	FieldName        = "name"
	FieldURL         = "url"
	FieldDescription = "description"
	FieldMedia       = "media"
	FieldCaption     = "caption"
	FieldScope       = "scope"
)

// Record is the generic manageable entity edited through chat flows. Content
// types populate different subsets of the optional content columns.
type Record struct {
	bun.BaseModel `bun:"table:records,alias:r"`

	ID          uuid.UUID `bun:",pk,type:uuid"                  json:"id"`
	ContentType string    `bun:"content_type,notnull"           json:"content_type"`
	Scope       string    `bun:"scope,notnull,default:''"       json:"scope,omitempty"`
	Name        string    `bun:"name,notnull"                   json:"name"`
	URL         *string   `bun:"url"                            json:"url,omitempty"`
	Description *string   `bun:"description"                    json:"description,omitempty"`
	Media       *string   `bun:"media"                          json:"media,omitempty"`
	Caption     *string   `bun:"caption"                        json:"caption,omitempty"`
	CreatedBy   int64     `bun:"created_by,notnull,default:0"   json:"created_by"`
	UpdatedBy   int64     `bun:"updated_by,notnull,default:0"   json:"updated_by"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Fields carries captured values keyed by the Field* constants.
type Fields map[string]string

// Clone returns an independent copy. A nil receiver yields nil.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// Keys returns the captured field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Has reports whether the named optional field carries a non-blank value.
func (r *Record) Has(field string) bool {
	if r == nil {
		return false
	}
	return strings.TrimSpace(r.Value(field)) != ""
}

// Value returns the stored value for field or an empty string.
func (r *Record) Value(field string) string {
	if r == nil {
		return ""
	}
	switch field {
	case FieldName:
		return r.Name
	case FieldScope:
		return r.Scope
	case FieldURL:
		return deref(r.URL)
	case FieldDescription:
		return deref(r.Description)
	case FieldMedia:
		return deref(r.Media)
	case FieldCaption:
		return deref(r.Caption)
	default:
		return ""
	}
}

// Apply patches the record with the supplied fields. Keys missing from the
// patch keep their stored value. Replacing media always rewrites the caption,
// and an empty optional value clears the column.
func (r *Record) Apply(fields Fields) {
	if r == nil || len(fields) == 0 {
		return
	}
	if name, ok := fields[FieldName]; ok {
		r.Name = strings.TrimSpace(name)
	}
	if scope, ok := fields[FieldScope]; ok {
		r.Scope = strings.TrimSpace(scope)
	}
	if value, ok := fields[FieldURL]; ok {
		r.URL = optional(value)
	}
	if value, ok := fields[FieldDescription]; ok {
		r.Description = optional(value)
	}
	if value, ok := fields[FieldMedia]; ok {
		r.Media = optional(value)
		r.Caption = optional(fields[FieldCaption])
	} else if value, ok := fields[FieldCaption]; ok {
		r.Caption = optional(value)
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cloned := *r
	cloned.URL = cloneString(r.URL)
	cloned.Description = cloneString(r.Description)
	cloned.Media = cloneString(r.Media)
	cloned.Caption = cloneString(r.Caption)
	return &cloned
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := value
	return &v
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
