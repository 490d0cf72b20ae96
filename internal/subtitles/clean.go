package subtitles

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&apos;", "'",
)

// CleanText prepares cue text for speech synthesis: strips markup tags,
// decodes common entities, and collapses runs of whitespace.
func CleanText(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
