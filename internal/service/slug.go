package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength   = 100
	slugSuffixLen   = 6
	defaultSlugBase = "collection"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// Slugify lowercases title, folds accents to ASCII, drops punctuation and
// joins words with hyphens. "Café Owners' Trip!" becomes "cafe-owners-trip".
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(title) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}

	s := strings.ToLower(b.String())
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

// UniqueSlug appends a random 6 hex suffix to the slug of title, keeping
// the whole slug within the column size.
func UniqueSlug(title string) string {
	base := Slugify(title)
	if base == "" {
		base = defaultSlugBase
	}
	if limit := maxSlugLength - slugSuffixLen - 1; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-_")
	}
	return base + "-" + randomHex(slugSuffixLen)
}

// NewPaymentReference returns a reference like KON-3FA85F6457.
func NewPaymentReference() string {
	return "KON-" + strings.ToUpper(randomHex(10))
}

// NewWithdrawalReference returns a reference like WDR-3FA85F6457.
func NewWithdrawalReference() string {
	return "WDR-" + strings.ToUpper(randomHex(10))
}

func randomHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
