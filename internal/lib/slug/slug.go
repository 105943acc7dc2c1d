package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Generate lower-cases s and collapses every run of non alphanumeric
// characters into a single dash.
func Generate(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// NextAvailable returns base when it is not taken, otherwise base-N with the
// smallest N >= 1 that is not taken.
func NextAvailable(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
