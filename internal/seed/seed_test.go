package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/identity"
	recordsvc "github.com/goliatone/go-content-bot/internal/records"
	"github.com/goliatone/go-content-bot/records"
)

const productDoc = `---
content_type: product
name: Платформа
url: https://example.com/platform
---
`

const faqDoc = `---
content_type: faq
scope: delivery
name: Сколько стоит доставка?
---
Доставка **бесплатная** по городу.
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument("faq.md", []byte(faqDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Document{
		Path:        "faq.md",
		ContentType: "faq",
		Scope:       "delivery",
		Name:        "Сколько стоит доставка?",
		Body:        "Доставка **бесплатная** по городу.",
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(records.Fields{
		records.FieldName:        "Сколько стоит доставка?",
		records.FieldDescription: "Доставка **бесплатная** по городу.",
	}, doc.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentFieldsDropCaptionWithoutMedia(t *testing.T) {
	doc := Document{Name: "Кейс", Caption: "подпись"}
	if _, ok := doc.Fields()[records.FieldCaption]; ok {
		t.Fatal("expected caption to be dropped without media")
	}
}

func TestLoaderFiltersAndOrders(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md":        {Data: []byte(productDoc)},
		"a.md":        {Data: []byte(faqDoc)},
		"notes.txt":   {Data: []byte("ignored")},
		"nested/c.md": {Data: []byte(productDoc)},
	}

	docs, err := NewLoader(fsys, LoaderConfig{}).LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var paths []string
	for _, doc := range docs {
		paths = append(paths, doc.Path)
	}
	if diff := cmp.Diff([]string{"a.md", "b.md"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	docs, err = NewLoader(fsys, LoaderConfig{Recursive: true}).LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("load recursive: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents with recursion, got %d", len(docs))
	}
}

func TestImporterImportDirIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"product.md": productDoc, "faq.md": faqDoc} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	service := recordsvc.NewService(recordsvc.NewMemoryRepository(), fields.DefaultRegistry())
	importer, err := NewImporter(service, WithActorID(1))
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	ctx := context.Background()

	first, err := importer.ImportDir(ctx, dir)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(first.Created) != 2 || first.Err() != nil {
		t.Fatalf("expected 2 created records, got %+v", first)
	}

	record, err := service.GetByNameOrID(ctx, fields.Product, "", "Платформа")
	if err != nil {
		t.Fatalf("lookup product: %v", err)
	}
	if record.ID != identity.RecordUUID(fields.Product, "", "Платформа") {
		t.Fatalf("expected deterministic id, got %s", record.ID)
	}

	second, err := importer.ImportDir(ctx, dir)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(second.Created) != 0 || len(second.Skipped) != 2 {
		t.Fatalf("expected existing records to be skipped, got %+v", second)
	}
}

func TestImporterCollectsDocumentErrors(t *testing.T) {
	service := recordsvc.NewService(recordsvc.NewMemoryRepository(), fields.DefaultRegistry())
	importer, err := NewImporter(service)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}

	result, err := importer.Import(context.Background(), []Document{
		{Path: "bad-url.md", ContentType: fields.PortfolioProject, Name: "Кейс", URL: "http://insecure"},
		{Path: "unknown.md", ContentType: "newsletter", Name: "Выпуск"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Errors) != 2 || result.Err() == nil {
		t.Fatalf("expected two document errors, got %+v", result.Errors)
	}
	if result.Errors[0].Path != "bad-url.md" {
		t.Fatalf("expected errors in document order, got %s", result.Errors[0].Path)
	}
}

func TestDefaultPortfolioImports(t *testing.T) {
	service := recordsvc.NewService(recordsvc.NewMemoryRepository(), fields.DefaultRegistry())
	importer, err := NewImporter(service)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	result, err := importer.Import(context.Background(), DefaultPortfolio())
	if err != nil || result.Err() != nil {
		t.Fatalf("import defaults: %v %v", err, result.Err())
	}

	record, err := service.GetByNameOrID(context.Background(), fields.PortfolioProject, "", "Портфолио")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record.Value(records.FieldURL) != "https://scid.ru/cases" {
		t.Fatalf("unexpected portfolio url %q", record.Value(records.FieldURL))
	}
}

func TestNewImporterRequiresStore(t *testing.T) {
	if _, err := NewImporter(nil); err != ErrStoreRequired {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}
