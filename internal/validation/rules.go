package validation

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// URL validates https links.
	URL = predicateRule(IsValidURL, "validation_is_https_url", "must be an https URL")
	// DisplayName validates chat button labels.
	DisplayName = predicateRule(IsValidDisplayName, "validation_display_name_length", "must be shorter than 64 bytes")
	// Phone validates loosely formatted phone numbers.
	Phone = predicateRule(IsValidPhone, "validation_is_phone", "must be a phone number")
	// Rating validates 1..10 scores.
	Rating = predicateRule(IsValidRating, "validation_rating_range", "must be a number between 1 and 10")
	// Caption validates media caption length.
	Caption = predicateRule(CaptionFits, "validation_caption_length", "must be at most 2200 characters")
)

// predicateRule lifts a string predicate into an ozzo rule. Empty values pass
// so the rule composes with ozzo.Required the usual way.
func predicateRule(fn func(string) bool, code, message string) ozzo.Rule {
	err := ozzo.NewError(code, message)
	return ozzo.By(func(value any) error {
		s, isNil := stringValue(value)
		if isNil || s == "" {
			return nil
		}
		if !fn(s) {
			return err
		}
		return nil
	})
}

func stringValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, false
	case *string:
		if typed == nil {
			return "", true
		}
		return *typed, false
	case nil:
		return "", true
	default:
		return "", true
	}
}
