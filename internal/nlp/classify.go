package nlp

import "strings"

var (
	urgencyWords    = []string{"now", "asap", "urgent", "today"}
	importanceWords = []string{"critical", "boss", "deadline", "project", "meeting"}
)

// Classify scans text for the fixed urgency and importance vocabularies.
// Matching is a case-insensitive substring test.
func Classify(text string) (urgent, important bool) {
	lower := strings.ToLower(text)
	return containsAny(lower, urgencyWords), containsAny(lower, importanceWords)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

var deleteWords = map[string]bool{"delete": true, "remove": true}

// IsDeleteCommand reports whether the text contains a delete keyword as a
// whole word.
func IsDeleteCommand(text string) bool {
	for _, f := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
		if deleteWords[f] {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
}
