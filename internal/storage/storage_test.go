package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/fields"
	recordsvc "github.com/goliatone/go-content-bot/internal/records"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "missing dsn", cfg: Config{Provider: ProviderSQLite}, want: ErrDSNRequired},
		{name: "unknown provider", cfg: Config{Provider: "mongo", DSN: "mongodb://localhost"}, want: ErrUnsupportedProvider},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Open(tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBootstrapSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(Config{Provider: ProviderSQLite, DSN: "file:storage_bootstrap?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Bootstrap(ctx, db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := Bootstrap(ctx, db); err != nil {
		t.Fatalf("bootstrap should be idempotent: %v", err)
	}

	svc := recordsvc.NewService(recordsvc.NewBunRepository(db), fields.DefaultRegistry())
	created, err := svc.Create(ctx, interfaces.CreateRecordRequest{
		ContentType: fields.PortfolioProject,
		Fields:      records.Fields{records.FieldName: "Кейсы", records.FieldURL: "https://scid.ru/cases"},
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}

	store := conversation.NewBunStore(db)
	key := conversation.Key{OperatorID: 1, ChatID: 2}
	if err := store.Save(ctx, &conversation.Context{
		Key:         key,
		Flow:        conversation.FlowUpdate,
		ContentType: fields.PortfolioProject,
		State:       "update.field",
		Target:      &conversation.TargetRef{ID: created.ID, Name: created.Name},
	}); err != nil {
		t.Fatalf("save conversation: %v", err)
	}
	loaded, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if loaded.Target == nil || loaded.Target.ID != created.ID {
		t.Fatalf("expected target %s, got %+v", created.ID, loaded.Target)
	}
}
