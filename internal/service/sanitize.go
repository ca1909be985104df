package service

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Sanitize HTML-entity-escapes markup characters so stored input cannot be echoed back as markup.
func Sanitize(s string) string { return htmlEscaper.Replace(s) }

// NormalizeEmail returns the identifier used for user lookup and rate limiting.
func NormalizeEmail(email string) string {
	return Sanitize(strings.ToLower(strings.TrimSpace(email)))
}
