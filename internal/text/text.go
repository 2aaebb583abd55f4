package text

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used for read time estimates.
const WordsPerMinute = 200

// PreviewLength is the maximum preview length in runes.
const PreviewLength = 200

var (
	markdownHeading   = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+\S`)
	htmlTag           = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	paragraphBreak    = regexp.MustCompile(`\n[ \t]*\n`)
	fencedCode        = regexp.MustCompile("(?m)^\\s*```[^\\n]*$")
	image             = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	link              = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingMarker     = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s*`)
	blockquoteMarker  = regexp.MustCompile(`(?m)^\s*>\s?`)
	listMarker        = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	horizontalRule    = regexp.MustCompile(`(?m)^\s*(?:[-*_]\s*){3,}$`)
	emphasis          = regexp.MustCompile("(\\*\\*|__|\\*|_|~~|`)")
	whitespace        = regexp.MustCompile(`\s+`)
	skippedHTMLBlocks = map[string]bool{"script": true, "style": true, "head": true}
)

// ContainsHTML reports whether s carries HTML tags.
func ContainsHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// HasHeading reports whether s has markdown or HTML heading markup.
func HasHeading(s string) bool {
	if markdownHeading.MatchString(s) {
		return true
	}
	if !ContainsHTML(s) {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return false
	}
	return doc.Find("h1,h2,h3,h4,h5,h6").Length() > 0
}

// Paragraphs counts non-empty paragraphs, separated by blank lines in
// markdown or by <p> elements in HTML.
func Paragraphs(s string) int {
	count := 0
	for _, block := range paragraphBreak.Split(strings.ReplaceAll(s, "\r\n", "\n"), -1) {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	if ContainsHTML(s) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			if p := doc.Find("p").Length(); p > count {
				count = p
			}
		}
	}
	return count
}

// StripHTML returns the text content of an HTML fragment. Input without
// tags is returned unchanged.
func StripHTML(s string) string {
	if !ContainsHTML(s) {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return htmlTag.ReplaceAllString(s, " ")
	}
	sb := &strings.Builder{}
	collectText(doc.Selection, sb)
	return sb.String()
}

func collectText(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		name := goquery.NodeName(node)
		switch {
		case name == "#text":
			sb.WriteString(node.Text())
			sb.WriteByte(' ')
		case skippedHTMLBlocks[name]:
		default:
			collectText(node, sb)
		}
	})
}

// StripMarkdown removes markdown syntax, keeping link and image text.
func StripMarkdown(s string) string {
	s = fencedCode.ReplaceAllString(s, "")
	s = image.ReplaceAllString(s, "$1")
	s = link.ReplaceAllString(s, "$1")
	s = horizontalRule.ReplaceAllString(s, "")
	s = headingMarker.ReplaceAllString(s, "")
	s = blockquoteMarker.ReplaceAllString(s, "")
	s = listMarker.ReplaceAllString(s, "")
	s = emphasis.ReplaceAllString(s, "")
	return s
}

// PlainText strips HTML and markdown and collapses whitespace.
func PlainText(s string) string {
	s = StripMarkdown(StripHTML(s))
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// WordCount counts the words of the plain-text rendition of s.
func WordCount(s string) int {
	return len(strings.Fields(PlainText(s)))
}

// ReadingTime returns minutes needed to read words, rounded up.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// Preview returns a plain-text excerpt of at most limit runes; truncated
// text ends with "...".
func Preview(s string, limit int) string {
	plain := PlainText(s)
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	const ellipsis = "..."
	cut := limit - len(ellipsis)
	if cut <= 0 {
		return string([]rune(plain)[:limit])
	}
	runes := []rune(plain)[:cut]
	truncated := string(runes)
	if idx := strings.LastIndexByte(truncated, ' '); idx > cut/2 {
		truncated = truncated[:idx]
	}
	return strings.TrimRight(truncated, " ,.;:") + ellipsis
}
