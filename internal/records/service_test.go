package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	if repo == nil {
		repo = NewMemoryRepository()
	}
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewService(repo, fields.DefaultRegistry(), WithClock(func() time.Time { return fixed }))
}

func TestServiceCreatePortfolioProject(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	created, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.PortfolioProject,
		Fields: records.Fields{
			records.FieldName: "Acme",
			records.FieldURL:  "https://acme.example/cases",
		},
		ActorID: 42,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Acme" || created.Value(records.FieldURL) != "https://acme.example/cases" {
		t.Fatalf("unexpected record: %+v", created)
	}
	if created.CreatedBy != 42 {
		t.Fatalf("expected created_by 42, got %d", created.CreatedBy)
	}

	if _, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.PortfolioProject,
		Fields:      records.Fields{records.FieldName: "Acme", records.FieldURL: "https://other.example"},
	}); !errors.Is(err, ErrNameExists) {
		t.Fatalf("expected ErrNameExists, got %v", err)
	}
}

func TestServiceCreateRejectsInvalidPayloads(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	cases := []struct {
		name string
		req  interfaces.CreateRecordRequest
		want error
	}{
		{
			name: "unknown type",
			req:  interfaces.CreateRecordRequest{ContentType: "news", Fields: records.Fields{records.FieldName: "x"}},
			want: ErrUnknownContentType,
		},
		{
			name: "missing name",
			req:  interfaces.CreateRecordRequest{ContentType: fields.Product, Fields: records.Fields{}},
			want: ErrNameRequired,
		},
		{
			name: "scoped without scope",
			req:  interfaces.CreateRecordRequest{ContentType: fields.ProductCategory, Fields: records.Fields{records.FieldName: "Sub"}},
			want: ErrScopeRequired,
		},
		{
			name: "field outside policy",
			req: interfaces.CreateRecordRequest{ContentType: fields.PortfolioProject, Fields: records.Fields{
				records.FieldName:        "Acme",
				records.FieldDescription: "text",
			}},
			want: ErrPayloadInvalid,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServiceUpdateIsPartialAndIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	created, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.Product,
		Fields: records.Fields{
			records.FieldName: "Widget",
			records.FieldURL:  "https://widget.example",
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	patch := interfaces.UpdateRecordRequest{ID: created.ID, Fields: records.Fields{records.FieldName: "X"}}
	first, err := svc.Update(ctx, patch)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := svc.Update(ctx, patch)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if first.Name != "X" || second.Name != "X" {
		t.Fatalf("expected name X, got %q / %q", first.Name, second.Name)
	}
	if second.Value(records.FieldURL) != "https://widget.example" {
		t.Fatalf("expected url untouched, got %q", second.Value(records.FieldURL))
	}
	if first.Value(records.FieldURL) != second.Value(records.FieldURL) || first.Media != nil || second.Description != nil {
		t.Fatalf("expected identical state, got %+v vs %+v", first, second)
	}
}

func TestServiceGetByNameOrID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	created, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.ProductCategory,
		Scope:       "product-1",
		Fields:      records.Fields{records.FieldName: "Sub", records.FieldDescription: "details"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byName, err := svc.GetByNameOrID(ctx, fields.ProductCategory, "product-1", "Sub")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("expected lookup by name, got %v / %v", byName, err)
	}
	byID, err := svc.GetByNameOrID(ctx, fields.ProductCategory, " product-1 ", created.ID.String())
	if err != nil || byID.ID != created.ID {
		t.Fatalf("expected lookup by id, got %v / %v", byID, err)
	}
	for _, scope := range []string{"product-2", ""} {
		if _, err := svc.GetByNameOrID(ctx, fields.ProductCategory, scope, created.ID.String()); !IsNotFound(err) {
			t.Fatalf("expected id lookup in scope %q to miss, got %v", scope, err)
		}
	}
	if _, err := svc.GetByNameOrID(ctx, fields.ProductCategory, "product-2", "Sub"); !IsNotFound(err) {
		t.Fatalf("expected scope to partition names, got %v", err)
	}
	if _, err := svc.GetByNameOrID(ctx, fields.Product, "", created.ID.String()); !IsNotFound(err) {
		t.Fatalf("expected content type mismatch to miss, got %v", err)
	}
}

func TestServiceListSortsByName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	for _, name := range []string{"beta", "Alpha", "gamma"} {
		if _, err := svc.Create(ctx, interfaces.CreateRecordRequest{
			ContentType: fields.CompanyInfo,
			Fields:      records.Fields{records.FieldName: name, records.FieldDescription: "x"},
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := svc.List(ctx, fields.CompanyInfo, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Alpha" || list[1].Name != "beta" || list[2].Name != "gamma" {
		t.Fatalf("unexpected order: %v", names(list))
	}
}

func TestServiceRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	created, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.CompanyInfo,
		Fields:      records.Fields{records.FieldName: "About", records.FieldDescription: "x"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Remove(ctx, created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, created.ID); !IsNotFound(err) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
	if err := svc.Remove(ctx, uuid.Nil); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("expected ErrIDRequired, got %v", err)
	}
}

func names(list []*records.Record) []string {
	out := make([]string, 0, len(list))
	for _, record := range list {
		out = append(out, record.Name)
	}
	return out
}
