package normalize

import (
	"regexp"
	"strings"
)

var (
	reScript  = regexp.MustCompile(`(?is)<script.*?</script>`)
	reStyle   = regexp.MustCompile(`(?is)<style.*?</style>`)
	reNav     = regexp.MustCompile(`(?is)<nav.*?</nav>`)
	reFooter  = regexp.MustCompile(`(?is)<footer.*?</footer>`)
	reHeader  = regexp.MustCompile(`(?is)<header.*?</header>`)
	reComment = regexp.MustCompile(`(?s)<!--.*?-->`)

	reBreak   = regexp.MustCompile(`(?i)<br\s*/?>`)
	rePara    = regexp.MustCompile(`(?i)</p>`)
	reDiv     = regexp.MustCompile(`(?i)</div>`)
	reItem    = regexp.MustCompile(`(?i)</li>`)
	reHeading = regexp.MustCompile(`(?i)</h[1-6]>`)
	reTag     = regexp.MustCompile(`<[^>]+>`)

	reBlanks = regexp.MustCompile(`\n{3,}`)
	reSpaces = regexp.MustCompile(`[ \t]+`)

	entities = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)&nbsp;`), " "},
		{regexp.MustCompile(`(?i)&amp;`), "&"},
		{regexp.MustCompile(`(?i)&lt;`), "<"},
		{regexp.MustCompile(`(?i)&gt;`), ">"},
		{regexp.MustCompile(`(?i)&quot;`), `"`},
		{regexp.MustCompile(`&#39;`), "'"},
		{regexp.MustCompile(`(?i)&frac12;`), "1/2"},
		{regexp.MustCompile(`(?i)&frac14;`), "1/4"},
		{regexp.MustCompile(`(?i)&frac34;`), "3/4"},
	}
)

// StripHTML reduces an HTML page to best-effort readable text. It is
// deliberately not a DOM parser: chrome blocks (script, style, nav,
// header, footer, comments) are dropped, block-level closing tags
// become line breaks, remaining tags are stripped, common entities are
// unescaped, and every line is trimmed with blank lines removed.
func StripHTML(html string) string {
	text := html

	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reNav.ReplaceAllString(text, "")
	text = reFooter.ReplaceAllString(text, "")
	text = reHeader.ReplaceAllString(text, "")
	text = reComment.ReplaceAllString(text, "")

	text = reBreak.ReplaceAllString(text, "\n")
	text = rePara.ReplaceAllString(text, "\n\n")
	text = reDiv.ReplaceAllString(text, "\n")
	text = reItem.ReplaceAllString(text, "\n")
	text = reHeading.ReplaceAllString(text, "\n\n")

	text = reTag.ReplaceAllString(text, "")

	for _, entity := range entities {
		text = entity.re.ReplaceAllString(text, entity.repl)
	}

	text = reBlanks.ReplaceAllString(text, "\n\n")
	text = reSpaces.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
