package stringutils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern          = regexp.MustCompile(`(?i)(https?://|ftp://|www\.)[^\s]+`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	emailPattern        = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	multiSpacePattern   = regexp.MustCompile(`\s+`)
	quotePattern        = regexp.MustCompile(`^["'“”„«»‘’]+|["'“”„«»‘’]+$`)
)

// StripQuotes removes quote characters wrapping a model generated title.
func StripQuotes(content string) string {
	return strings.TrimSpace(quotePattern.ReplaceAllString(strings.TrimSpace(content), ""))
}

// SanitizeTitleContent removes URLs and markup and keeps letters, digits and basic punctuation.
func SanitizeTitleContent(content string) string {
	content = urlPattern.ReplaceAllString(content, "")
	content = markdownLinkPattern.ReplaceAllString(content, "$1")
	content = emailPattern.ReplaceAllString(content, "")

	var result strings.Builder
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || unicode.Is(unicode.Mn, r) ||
			r == '.' || r == ',' || r == '!' || r == '?' || r == '-' || r == '\'' {
			result.WriteRune(r)
		}
	}
	content = result.String()

	content = multiSpacePattern.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	content = strings.TrimRight(content, " .,!?-'")

	return content
}

// TruncateTitle cuts a title to maxLen runes, preferring a word boundary, and appends an ellipsis.
func TruncateTitle(title string, maxLen int) string {
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}

	const ellipsis = "..."
	contentLimit := maxLen - len(ellipsis)
	if contentLimit < 0 {
		contentLimit = 0
	}

	truncated := string(runes[:contentLimit])
	minLen := len(string(runes[:contentLimit/2]))

	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > minLen {
		truncated = strings.TrimRight(truncated[:lastSpace], " ")
	}

	return truncated + ellipsis
}

// GenerateTitle creates a clean, truncated title from content
func GenerateTitle(content string, maxLen int) string {
	sanitized := SanitizeTitleContent(StripQuotes(content))
	if sanitized == "" {
		return ""
	}
	return TruncateTitle(sanitized, maxLen)
}

// LimitWords keeps at most n whitespace separated words.
func LimitWords(content string, n int) string {
	words := strings.Fields(content)
	if n <= 0 || len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ")
}
