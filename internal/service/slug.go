package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"hospitofind/internal/database"
	"hospitofind/internal/store"
)

// Sanitize turns arbitrary text into a URL slug: lowercase, accents
// stripped, runs of non-alphanumerics collapsed to single hyphens.
func Sanitize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))

	// Strip combining marks left over after NFD decomposition.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, value); err == nil {
		value = stripped
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range value {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var slugExists = store.SlugExists

// UniqueSlug derives a slug from the hospital name, unique within the
// (state, city) pair by numeric suffix. Gives up after 10 tries and
// appends the id-independent fallback counter anyway.
func UniqueSlug(ctx context.Context, db database.DB, name, state, city string) (string, error) {
	base := Sanitize(name)
	if base == "" {
		base = "hospital"
	}

	slug := base
	for i := 1; ; i++ {
		exists, err := slugExists(ctx, db, state, city, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		if i > 10 {
			return fmt.Sprintf("%s-%d", base, i), nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
