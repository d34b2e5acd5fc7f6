package simulator

import "strings"

// Intent is what the visitor's free text asks the bot to do next.
type Intent int

const (
	IntentNone Intent = iota
	IntentBooking
	IntentCallback
)

// bookingKeywords and callbackKeywords are matched as case-insensitive
// substrings, deliberately without word boundaries: that is the matching
// policy the widget shipped with, kept here as an explicit rule list so
// the precedence is documented and testable. Booking wins over callback
// when both match.
var (
	bookingKeywords  = []string{"consultation", "schedule", "book", "appointment"}
	callbackKeywords = []string{"callback"}
)

// classifyFreeText maps treatment-chat free text to an intent. Rules are
// checked in order; the first keyword hit decides.
func classifyFreeText(message string) Intent {
	lower := strings.ToLower(message)
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return IntentBooking
		}
	}
	for _, kw := range callbackKeywords {
		if strings.Contains(lower, kw) {
			return IntentCallback
		}
	}
	return IntentNone
}

// wantsCallback reports whether free text from the callback nudge prompt
// asks for a callback.
func wantsCallback(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range callbackKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
