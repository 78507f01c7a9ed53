// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package postprocess rewrites converter output into the markdown that is
// written to disk: image embeds are dropped and Excel sheet headings are
// made uniform.
package postprocess

import (
	"regexp"
	"strings"
)

var (
	inlineImagePattern    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	referenceImagePattern = regexp.MustCompile(`!\[[^\]]*\]\[[^\]]*\]`)
	trailingSpacePattern  = regexp.MustCompile(`[ \t]+(\r?\n)`)
	blankRunPattern       = regexp.MustCompile(`(\r?\n)(\r?\n)(?:\r?\n)+`)
)

// RemoveImageMarkdown strips inline (![alt](target)) and reference-style
// (![alt][ref]) image embeds anywhere in text. Matching is textual, not
// markdown-aware. Afterwards trailing blanks before each line ending are
// removed and runs of three or more line endings collapse to the first two.
// "\n" and "\r\n" endings are both recognized and kept as found. A trailing
// line ending in the input is preserved.
func RemoveImageMarkdown(text string) string {
	trailing := trailingLineEnding(text)

	cleaned := text
	for {
		next := inlineImagePattern.ReplaceAllString(cleaned, "")
		next = referenceImagePattern.ReplaceAllString(next, "")
		// Removing one embed can splice "!" and "[..](..)" into a new one.
		// Each pass peels one such layer, so the cost is O(n*d) for splice
		// depth d; input like "!!!![a](b)[c](d)[e](f)[g](h)" is the worst case.
		if next == cleaned {
			break
		}
		cleaned = next
	}

	cleaned = trailingSpacePattern.ReplaceAllString(cleaned, "$1")
	cleaned = blankRunPattern.ReplaceAllString(cleaned, "$1$2")

	if trailing != "" && !strings.HasSuffix(cleaned, "\n") {
		cleaned += trailing
	}
	return cleaned
}

func trailingLineEnding(text string) string {
	switch {
	case strings.HasSuffix(text, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(text, "\n"):
		return "\n"
	}
	return ""
}

// HasImageMarkdown reports whether text still contains an image embed.
func HasImageMarkdown(text string) bool {
	return inlineImagePattern.MatchString(text) || referenceImagePattern.MatchString(text)
}
