package records

import "testing"

func TestRecordApplyKeepsUntouchedFields(t *testing.T) {
	url := "https://acme.example/cases"
	desc := "about"
	rec := &Record{Name: "Acme", URL: &url, Description: &desc}

	rec.Apply(Fields{FieldName: "X"})
	rec.Apply(Fields{FieldName: "X"})

	if rec.Name != "X" {
		t.Fatalf("expected name X, got %q", rec.Name)
	}
	if rec.Value(FieldURL) != url {
		t.Fatalf("expected url to survive patch, got %q", rec.Value(FieldURL))
	}
	if rec.Value(FieldDescription) != desc {
		t.Fatalf("expected description to survive patch, got %q", rec.Value(FieldDescription))
	}
}

func TestRecordApplyMediaRewritesCaption(t *testing.T) {
	media := "file-1"
	caption := "old caption"
	rec := &Record{Name: "Acme", Media: &media, Caption: &caption}

	rec.Apply(Fields{FieldMedia: "file-2"})

	if rec.Value(FieldMedia) != "file-2" {
		t.Fatalf("expected media file-2, got %q", rec.Value(FieldMedia))
	}
	if rec.Caption != nil {
		t.Fatalf("expected caption cleared with media replacement, got %q", *rec.Caption)
	}
}

func TestRecordCloneIsIndependent(t *testing.T) {
	url := "https://acme.example"
	rec := &Record{Name: "Acme", URL: &url}
	cloned := rec.Clone()
	*cloned.URL = "https://other.example"

	if rec.Value(FieldURL) != "https://acme.example" {
		t.Fatalf("expected original url untouched, got %q", rec.Value(FieldURL))
	}
}

func TestRecordHas(t *testing.T) {
	blank := "   "
	rec := &Record{Name: "Acme", Description: &blank}
	if rec.Has(FieldDescription) {
		t.Fatal("expected blank description to report missing")
	}
	if !rec.Has(FieldName) {
		t.Fatal("expected name to be present")
	}
	var nilRecord *Record
	if nilRecord.Has(FieldName) {
		t.Fatal("expected nil record to report missing")
	}
}
