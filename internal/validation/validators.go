package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxDisplayNameBytes bounds button labels. Names must encode to fewer bytes.
const MaxDisplayNameBytes = 64

// MaxCaptionLength bounds media captions, counted in characters.
const MaxCaptionLength = 2200

var (
	urlPattern   = regexp.MustCompile(`^(https://)([A-Za-z0-9.-]+)(:\d+)?(/.*)?$`)
	phonePattern = regexp.MustCompile(`^(\+\d{5,25}|\d{5,25})$`)
	phoneStrip   = strings.NewReplacer("-", "", "(", "", ")", "", ".", "", "/", "", " ", "")
)

// IsValidURL accepts https URLs with a host, an optional port and an
// optional path. Any other scheme is rejected.
func IsValidURL(s string) bool {
	return urlPattern.MatchString(s)
}

// IsValidDisplayName reports whether s fits a chat button label.
func IsValidDisplayName(s string) bool {
	return len(s) < MaxDisplayNameBytes
}

// IsValidPhone strips common separators and accepts 5 to 25 digits with an
// optional leading plus sign.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(phoneStrip.Replace(s))
}

// IsValidRating accepts digit-only strings whose value is between 1 and 10.
func IsValidRating(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return value >= 1 && value <= 10
}

// CaptionFits reports whether a media caption stays within MaxCaptionLength.
func CaptionFits(caption string) bool {
	return len([]rune(caption)) <= MaxCaptionLength
}
