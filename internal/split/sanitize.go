package split

import "strings"

// Characters that are reserved on at least one common filesystem.
const reservedChars = `<>:"/\|?*`

// SanitizeName converts a TOC title into a safe file name component:
// reserved characters become underscores, control characters are dropped,
// whitespace runs collapse to a single space, leading/trailing spaces and
// dots are trimmed, and the result is bounded to maxRunes. An empty
// result falls back to "section".
func SanitizeName(title string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultNameMaxRunes
	}

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r < 0x20 || r == 0x7f:
			// drop control characters
		case strings.ContainsRune(reservedChars, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	s := strings.Join(strings.Fields(b.String()), " ")
	s = strings.Trim(s, " .")

	if runes := []rune(s); len(runes) > maxRunes {
		s = strings.Trim(string(runes[:maxRunes]), " .")
	}
	if s == "" {
		return "section"
	}
	return s
}
