package normalizer

import (
	"strings"

	"golang.org/x/net/html"

	"showfmt/pkg/utils"
)

// SanitizeText turns an HTML-bearing note into plain text:
//  1. strip tags, keeping their inner text
//  2. decode entities
//  3. turn line breaks into spaces
//  4. collapse whitespace runs to one space
//  5. trim
//
// The tokenizer performs steps 1 and 2 in a single pass; comments are dropped.
func SanitizeText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return utils.CollapseWhitespace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		default:
			// Tags, comments and doctypes carry no note text.
		}
	}
}
