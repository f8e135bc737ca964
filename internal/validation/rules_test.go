package validation

import (
	"testing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

type feedback struct {
	Phone  string
	Rating string
	Link   *string
}

func (f feedback) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.Phone, ozzo.Required, Phone),
		ozzo.Field(&f.Rating, Rating),
		ozzo.Field(&f.Link, URL),
	)
}

func TestRulesComposeWithStructValidation(t *testing.T) {
	link := "https://example.com"
	if err := (feedback{Phone: "+7 999 123 45 67", Rating: "7", Link: &link}).Validate(); err != nil {
		t.Fatalf("expected valid feedback, got %v", err)
	}

	err := feedback{Phone: "12", Rating: "11"}.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs, ok := err.(ozzo.Errors)
	if !ok {
		t.Fatalf("expected ozzo.Errors, got %T", err)
	}
	if _, ok := errs["Phone"]; !ok {
		t.Fatalf("expected phone error, got %v", errs)
	}
	if _, ok := errs["Rating"]; !ok {
		t.Fatalf("expected rating error, got %v", errs)
	}
	if _, ok := errs["Link"]; ok {
		t.Fatalf("expected nil link to pass, got %v", errs)
	}
}

func TestRulesSkipEmptyValues(t *testing.T) {
	if err := ozzo.Validate("", DisplayName); err != nil {
		t.Fatalf("expected empty value to pass, got %v", err)
	}
	if err := ozzo.Validate("http://example.com", URL); err == nil {
		t.Fatal("expected http URL to fail")
	}
}
