package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MinUsernameLength  = 3
	MaxUsernameLength  = 30
	maxUsernameBaseLen = 24
)

var (
	usernamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	nonSlugCharRun   = regexp.MustCompile(`[^a-z0-9_]+`)
	semverishPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)
)

// IsValidUsername checks length and the letters/digits/underscore alphabet.
func IsValidUsername(s string) bool {
	return len(s) >= MinUsernameLength && len(s) <= MaxUsernameLength && usernamePattern.MatchString(s)
}

// IsValidServerVersion accepts "1.20" and "1.20.4" style versions.
func IsValidServerVersion(s string) bool {
	return semverishPattern.MatchString(s)
}

// SlugifyUsername derives a username candidate from a display name or email
// local part. The result is lower case, at most 24 characters, and padded to
// the minimum length when the source is too short.
func SlugifyUsername(source string) string {
	slug := strings.ToLower(strings.TrimSpace(source))
	slug = nonSlugCharRun.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxUsernameBaseLen {
		slug = strings.TrimRight(slug[:maxUsernameBaseLen], "_")
	}
	if slug == "" {
		return "user"
	}
	for len(slug) < MinUsernameLength {
		slug += "_"
	}
	return slug
}

// FallbackUsername is used once random suffixes keep colliding.
func FallbackUsername(now time.Time) string {
	return "user_" + strconv.FormatInt(now.UnixMilli(), 36)
}
