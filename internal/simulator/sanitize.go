package simulator

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// botMarkupPolicy is the allow-list for markup in scripted bot copy. The
// only formatting the widget ever emits is a single anchor (the privacy
// policy link), so anything beyond <a href target style> is escaped.
var botMarkupPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href", "target", "style").OnElements("a")
	return p
}()

// sanitizeBotMarkup strips bot copy down to the anchor allow-list.
func sanitizeBotMarkup(text string) string {
	return botMarkupPolicy.Sanitize(text)
}

// escapeUserText escapes visitor-typed text wholesale before it enters the
// timeline. Visitors get no markup at all.
func escapeUserText(text string) string {
	return html.EscapeString(text)
}
