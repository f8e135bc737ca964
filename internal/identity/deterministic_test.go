package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecordUUIDIsStable(t *testing.T) {
	first := RecordUUID("portfolio-project", "", "Acme")
	second := RecordUUID(" Portfolio-Project ", "", " Acme ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected normalized keys to match: %s != %s", first, second)
	}
	if first == RecordUUID("product", "", "Acme") {
		t.Fatal("expected content type to partition ids")
	}
}

func TestConversationUUIDPartitionsChats(t *testing.T) {
	if ConversationUUID(1, 2) == ConversationUUID(2, 1) {
		t.Fatal("expected operator and chat order to matter")
	}
	if ConversationUUID(1, 2) != ConversationUUID(1, 2) {
		t.Fatal("expected deterministic conversation ids")
	}
}

func TestOperatorUUIDZero(t *testing.T) {
	if OperatorUUID(0) != uuid.Nil {
		t.Fatal("expected zero operator to map to nil uuid")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatal("expected empty key to map to nil uuid")
	}
}
