package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecordUUID identifies a seeded record by content type, scope and display name.
func RecordUUID(contentType, scope, name string) uuid.UUID {
	return UUID("content-bot:record:" + strings.ToLower(strings.TrimSpace(contentType)) +
		":" + strings.TrimSpace(scope) + ":" + strings.TrimSpace(name))
}

// ConversationUUID identifies the persisted context of one operator chat.
func ConversationUUID(operatorID, chatID int64) uuid.UUID {
	return UUID("content-bot:conversation:" + strconv.FormatInt(operatorID, 10) + ":" + strconv.FormatInt(chatID, 10))
}

// OperatorUUID maps a chat operator id onto the uuid space used by activity sinks.
func OperatorUUID(operatorID int64) uuid.UUID {
	if operatorID == 0 {
		return uuid.Nil
	}
	return UUID("content-bot:operator:" + strconv.FormatInt(operatorID, 10))
}
