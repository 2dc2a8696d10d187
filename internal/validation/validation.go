package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldError is a validation failure tied to one changes key.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Age bounds accepted for a crew's member age range.
const (
	MinAge = 0
	MaxAge = 100
)

// Limits on free-text entries.
const (
	MaxDescriptionLength      = 1000
	MaxActivityLocationLength = 100
	MaxActivityLocations      = 10
)

// Weekdays are the activity day labels, Monday first.
var Weekdays = []string{"월요일", "화요일", "수요일", "목요일", "금요일", "토요일", "일요일"}

// InstagramPattern is the handle format after stripping a leading "@".
var InstagramPattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateDescription requires non-blank text within the length limit.
func ValidateDescription(s string) *FieldError {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fieldErr("description", "description must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return fieldErr("description", "description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}

// NormalizeInstagram strips whitespace and a leading "@". An empty result is
// a legal clear; anything else must match InstagramPattern.
func NormalizeInstagram(s string) (string, *FieldError) {
	handle := strings.TrimPrefix(strings.TrimSpace(s), "@")
	if handle == "" {
		return "", nil
	}
	if !InstagramPattern.MatchString(handle) {
		return "", fieldErr("instagram", "instagram handle may only contain letters, numbers, dots and underscores (max 30)")
	}
	return handle, nil
}

// ValidateAgeRange enforces MinAge <= min <= max <= MaxAge.
func ValidateAgeRange(minAge, maxAge int) *FieldError {
	if minAge < MinAge || minAge > MaxAge || maxAge < MinAge || maxAge > MaxAge {
		return fieldErr("age_range", "ages must be between %d and %d", MinAge, MaxAge)
	}
	if minAge > maxAge {
		return fieldErr("age_range", "min_age must not exceed max_age")
	}
	return nil
}

// NormalizeActivityDays checks each label is a weekday and removes repeats,
// keeping first occurrence order.
func NormalizeActivityDays(days []string) ([]string, *FieldError) {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		d = strings.TrimSpace(d)
		if !isWeekday(d) {
			return nil, fieldErr("activity_days", "%q is not a day of the week", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

func isWeekday(s string) bool {
	for _, w := range Weekdays {
		if w == s {
			return true
		}
	}
	return false
}

// NormalizeActivityLocations trims entries and rejects blank or oversized ones.
func NormalizeActivityLocations(locations []string) ([]string, *FieldError) {
	if len(locations) > MaxActivityLocations {
		return nil, fieldErr("activity_locations", "at most %d activity locations are allowed", MaxActivityLocations)
	}
	out := make([]string, 0, len(locations))
	for _, l := range locations {
		l = strings.TrimSpace(l)
		if l == "" {
			return nil, fieldErr("activity_locations", "activity location must not be empty")
		}
		if utf8.RuneCountInString(l) > MaxActivityLocationLength {
			return nil, fieldErr("activity_locations", "activity location must be at most %d characters", MaxActivityLocationLength)
		}
		out = append(out, l)
	}
	return out, nil
}
