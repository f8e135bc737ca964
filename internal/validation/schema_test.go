package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var portfolioSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{"type": "string", "minLength": 1},
		"url":  map[string]any{"type": "string", "pattern": "^https://"},
	},
	"required":             []any{"name", "url"},
	"additionalProperties": false,
}

func TestValidatePayload(t *testing.T) {
	if err := ValidatePayload(portfolioSchema, map[string]any{"name": "Acme", "url": "https://acme.example"}); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}

	err := ValidatePayload(portfolioSchema, map[string]any{"url": "https://acme.example"})
	if err == nil {
		t.Fatal("expected missing name to fail")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if diff := cmp.Diff([]string{"name"}, RejectedFields(err)); diff != "" {
		t.Fatalf("rejected fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(err.Error(), "name: ") {
		t.Fatalf("expected message to lead with the field, got %q", err.Error())
	}
}

func TestValidatePayloadNamesPropertyFailures(t *testing.T) {
	err := ValidatePayload(portfolioSchema, map[string]any{"name": "", "url": "http://acme.example"})
	if err == nil {
		t.Fatal("expected payload to fail")
	}
	if diff := cmp.Diff([]string{"name", "url"}, RejectedFields(err)); diff != "" {
		t.Fatalf("rejected fields mismatch (-want +got):\n%s", diff)
	}
	for _, issue := range Issues(err) {
		if issue.Location != "/"+issue.Field {
			t.Fatalf("expected location to follow field, got %+v", issue)
		}
	}
}

func TestValidatePartialPayloadIgnoresRequired(t *testing.T) {
	if err := ValidatePartialPayload(portfolioSchema, map[string]any{"url": "https://acme.example"}); err != nil {
		t.Fatalf("expected partial payload to validate, got %v", err)
	}
	err := ValidatePartialPayload(portfolioSchema, map[string]any{"media": "x"})
	if err == nil {
		t.Fatal("expected unknown property to fail")
	}
	if diff := cmp.Diff([]string{"media"}, RejectedFields(err)); diff != "" {
		t.Fatalf("rejected fields mismatch (-want +got):\n%s", diff)
	}
	if _, ok := portfolioSchema["required"]; !ok {
		t.Fatal("expected source schema to keep required list")
	}
}

func TestValidateSchemaRejectsBrokenSchema(t *testing.T) {
	err := ValidateSchema(map[string]any{"type": 12})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssuesFallsBackToPlainErrors(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if diff := cmp.Diff([]ValidationIssue{{Message: "boom"}}, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if RejectedFields(errors.New("boom")) != nil {
		t.Fatal("expected no rejected fields for a plain error")
	}
}
