package pipeline

import (
	"regexp"
	"strings"
)

// emptyHeadingPrefix replaces the first "# " of a document. The leading
// "# " line is an empty level-1 heading that the sidebar drops in place of
// the real title.
const emptyHeadingPrefix = "# \n # "

var (
	// Level-1 ATX heading marker at the start of any line.
	firstLevelHeading = regexp.MustCompile(`(?m)^# `)

	// Heading tags of levels 1-5. Group 1 is the slash of a closing tag,
	// group 2 the level digit, group 3 the attribute text, which may span
	// lines.
	promotableHeadingTag = regexp.MustCompile(`<(/?)h([1-5])([^>]*)>`)
)

// NormalizeHeadings inserts an empty level-1 heading before the first
// level-1 heading of the Markdown source. Only the first "# " found at the
// start of a line is rewritten; content without one is returned unchanged.
//
// The transform does not guard against reapplication: running it on its own
// output inserts another empty heading.
//
// A line starts only after "\n". A lone "\r" is not a line break here, so
// "a\r# T" is returned unchanged; callers holding old Mac line endings should
// normalize them first, as the renderer's preprocessor does.
func NormalizeHeadings(content string) string {
	loc := firstLevelHeading.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[0]] + emptyHeadingPrefix + content[loc[1]:]
}

// ShiftHeadingLevels moves every h1-h5 tag down one level (h1 becomes h2,
// h5 becomes h6). Attribute text is kept byte for byte and h6 tags are left
// alone since there is no h7.
//
// Closing tags are shifted too so the markup stays balanced.
func ShiftHeadingLevels(htmlContent string) string {
	matches := promotableHeadingTag.FindAllStringSubmatchIndex(htmlContent, -1)
	if len(matches) == 0 {
		return htmlContent
	}

	var buf strings.Builder
	buf.Grow(len(htmlContent))

	last := 0
	for _, m := range matches {
		// m[4]:m[5] is the level digit; a single ASCII byte in 1-5.
		level := htmlContent[m[4]]
		buf.WriteString(htmlContent[last:m[0]])
		buf.WriteByte('<')
		buf.WriteString(htmlContent[m[2]:m[3]])
		buf.WriteByte('h')
		buf.WriteByte(level + 1)
		buf.WriteString(htmlContent[m[6]:m[7]])
		buf.WriteByte('>')
		last = m[1]
	}
	buf.WriteString(htmlContent[last:])
	return buf.String()
}

// PromoteHeadings is the after-each form of ShiftHeadingLevels: it hands the
// shifted markup to next, exactly once.
func PromoteHeadings(htmlContent string, next func(string)) {
	next(ShiftHeadingLevels(htmlContent))
}
