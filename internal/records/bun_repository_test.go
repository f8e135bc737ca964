package records

import (
	"context"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/pkg/testsupport"
	"github.com/goliatone/go-content-bot/records"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewNamedSQLiteMemoryDB(t.Name())
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	if _, err := db.NewCreateTable().Model((*records.Record)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create records table: %v", err)
	}
	return db
}

func TestBunRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewBunRepository(newBunDB(t)), fields.DefaultRegistry())

	created, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.PortfolioProject,
		Fields: records.Fields{
			records.FieldName: "Acme",
			records.FieldURL:  "https://acme.example/cases",
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.GetByNameOrID(ctx, fields.PortfolioProject, "", "Acme")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, found.ID)
	}

	updated, err := svc.Update(ctx, interfaces.UpdateRecordRequest{
		ID:     created.ID,
		Fields: records.Fields{records.FieldURL: "https://acme.example/v2"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme" || updated.Value(records.FieldURL) != "https://acme.example/v2" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	list, err := svc.List(ctx, fields.PortfolioProject, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}

	if err := svc.Remove(ctx, created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.GetByNameOrID(ctx, fields.PortfolioProject, "", created.ID.String()); !IsNotFound(err) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
}
