package trainings

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxSlugLength caps the base slug in runes, before any numeric suffix.
const MaxSlugLength = 80

const fallbackSlug = "training"

// Slugify lowercases title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	pending := false
	n := 0

	for _, r := range strings.ToLower(title) {
		if n >= MaxSlugLength {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && n > 0 {
				b.WriteByte('-')
				n++
				if n >= MaxSlugLength {
					break
				}
			}
			b.WriteRune(r)
			n++
			pending = false
			continue
		}
		pending = true
	}

	return strings.Trim(b.String(), "-")
}

// AssignSlug returns base if it is free, otherwise the first of base-1,
// base-2, ... not present in taken.
func AssignSlug(base string, taken map[string]bool) string {
	if base == "" {
		base = fallbackSlug
	}
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
