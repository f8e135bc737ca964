package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("record schema invalid")
	ErrSchemaValidation = errors.New("record payload rejected")
)

// ValidationIssue is one rejected record field. Field is empty when the
// failure applies to the payload as a whole.
type ValidationIssue struct {
	Field    string
	Location string
	Message  string
}

// PayloadValidationError lists every field a record payload was rejected for.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		label := issue.Field
		if label == "" {
			label = "record"
		}
		parts = append(parts, label+": "+issue.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return flattenIssues(schemaErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// RejectedFields returns the sorted, distinct record fields named by err.
func RejectedFields(err error) []string {
	seen := map[string]struct{}{}
	for _, issue := range Issues(err) {
		if issue.Field != "" {
			seen[issue.Field] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(seen))
}

// ValidateSchema reports whether a field policy schema compiles.
func ValidateSchema(schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	if _, err := compileSchema(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

// ValidatePayload checks a complete create payload.
func ValidatePayload(schema map[string]any, payload map[string]any) error {
	return validate(schema, payload)
}

// ValidatePartialPayload checks an update patch. Required fields are not
// enforced since a patch carries only the fields being replaced.
func ValidatePartialPayload(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	patch := maps.Clone(schema)
	delete(patch, "required")
	return validate(patch, payload)
}

func validate(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	if payload == nil {
		payload = map[string]any{}
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return &PayloadValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// policy schemas are rebuilt per call, so compiled forms are memoized by
// their JSON encoding.
var compiled sync.Map

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	key := string(encoded)
	if hit, ok := compiled.Load(key); ok {
		return hit.(*jsonschema.Schema), nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("record.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	out, err := compiler.Compile("record.json")
	if err != nil {
		return nil, err
	}
	compiled.Store(key, out)
	return out, nil
}

var quotedName = regexp.MustCompile(`'([^']+)'`)

func flattenIssues(root *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) > 0 {
			for _, cause := range node.Causes {
				walk(cause)
			}
			return
		}
		issues = append(issues, leafIssues(node)...)
	}
	walk(root)
	return issues
}

// leafIssues maps a schema failure onto record fields. Failures reported at
// the payload root (missing or unknown properties) name their fields inside
// the message, so each quoted name becomes its own issue.
func leafIssues(node *jsonschema.ValidationError) []ValidationIssue {
	location := strings.TrimSpace(node.InstanceLocation)
	message := strings.TrimSpace(node.Message)
	if field := firstSegment(location); field != "" {
		return []ValidationIssue{{Field: field, Location: location, Message: message}}
	}

	keyword := node.KeywordLocation
	if strings.HasSuffix(keyword, "/required") || strings.HasSuffix(keyword, "/additionalProperties") {
		var out []ValidationIssue
		for _, match := range quotedName.FindAllStringSubmatch(message, -1) {
			out = append(out, ValidationIssue{Field: match[1], Location: "/" + match[1], Message: message})
		}
		if len(out) > 0 {
			return out
		}
	}
	return []ValidationIssue{{Location: location, Message: message}}
}

func firstSegment(location string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(location, "#"), "/")
	if trimmed == "" {
		return ""
	}
	field, _, _ := strings.Cut(trimmed, "/")
	return field
}
