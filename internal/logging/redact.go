package logging

// Redacted replaces masked values in log output.
const Redacted = "[redacted]"

// DefaultRedactedFields lists the keys that carry operator free text.
func DefaultRedactedFields() []string {
	return []string{"text", "caption", "phone"}
}

// RedactSet builds a lookup from keys. Nil selects DefaultRedactedFields and
// an empty slice disables masking.
func RedactSet(keys []string) map[string]struct{} {
	if keys == nil {
		keys = DefaultRedactedFields()
	}
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}
