package pdfdocx

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reTrailingWhitespace = regexp.MustCompile(`[ \t]+\n`)
	reMultipleNewlines   = regexp.MustCompile(`\n{3,}`)
	reCRLF               = regexp.MustCompile(`\r\n?`)
	reFormFeed           = regexp.MustCompile(`\f`)
)

// normalizeText cleans extracted or recognized page text before it is
// written to the document:
// - Ensure valid UTF-8 in NFC form
// - Normalize line endings and drop form feeds
// - Strip control characters (keep \n, \t)
// - Strip trailing whitespace from each line
// - Collapse 3+ consecutive newlines to 2
func normalizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = norm.NFC.String(s)

	s = reCRLF.ReplaceAllString(s, "\n")
	// Tesseract terminates every page with a form feed.
	s = reFormFeed.ReplaceAllString(s, "\n")

	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	s = reTrailingWhitespace.ReplaceAllString(s, "\n")
	s = reMultipleNewlines.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
