package domain

import (
	"strings"
	"unicode"
)

// Filename parts for generated portraits.
const (
	FilenamePrefix    = "ai_generated_"
	FilenameExtension = ".jpg"
	defaultSlugName   = "doctor"
)

// Filename derives the portrait filename for a record. The result depends only
// on the record's name, so it doubles as the idempotency key: a file with this
// name in the images directory means the portrait was already generated.
func Filename(r Record) string {
	return FilenamePrefix + Slug(r.StringOr(FieldName, defaultSlugName)) + FilenameExtension
}

// Slug lower-cases name, drops every rune that is not a letter, digit, space
// or hyphen, trims surrounding spaces and joins the remaining words with
// underscores.
func Slug(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, c := range lower {
		if unicode.IsLetter(c) || unicode.IsNumber(c) || c == ' ' || c == '-' {
			b.WriteRune(c)
		}
	}

	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
