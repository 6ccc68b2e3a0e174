// Package sanitize transforms raw card field text into plain text and
// display-safe HTML with rewritten media paths. Both transforms are pure
// and total: any input string, including empty, produces a result.
package sanitize

import (
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for field text processing.
var (
	soundRef = regexp.MustCompile(`\[sound:([^\]]+)\]`)
	brTags   = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags  = regexp.MustCompile(`<[^>]+>`)
	srcAttr  = regexp.MustCompile(`src="([^"]+)"`)
)

// entityReplacements decodes the named HTML entities the collection
// format emits, in order. &amp; is decoded last so that already-escaped
// sequences such as &amp;lt; become &lt; rather than being expanded a
// second time.
var entityReplacements = [][2]string{
	{"&nbsp;", " "},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&amp;", "&"},
}

// PlainText strips a field down to human-readable text: sound references
// removed, <br> variants converted to newlines, remaining tags stripped
// with their inner text kept, named entities decoded, and the result
// trimmed. Idempotent: applying it twice equals applying it once.
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	s = soundRef.ReplaceAllString(s, "")
	s = brTags.ReplaceAllString(s, "\n")
	s = allTags.ReplaceAllString(s, "")

	for _, r := range entityReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}

	return strings.TrimSpace(s)
}

// DisplayHTML rewrites a field for direct rendering against an extracted
// media directory: src attributes gain a media/ prefix unless already
// prefixed or absolute, and [sound:NAME] references become inline audio
// elements. All other markup passes through untouched.
func DisplayHTML(s string) string {
	if s == "" {
		return ""
	}

	s = srcAttr.ReplaceAllStringFunc(s, func(attr string) string {
		value := srcAttr.FindStringSubmatch(attr)[1]
		if strings.HasPrefix(value, "media/") || strings.HasPrefix(value, "http") {
			return attr
		}
		return `src="media/` + value + `"`
	})

	return soundRef.ReplaceAllString(s, `<audio controls src="media/$1"></audio>`)
}
