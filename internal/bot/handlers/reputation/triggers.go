package reputation

import (
	"regexp"
)

// triggers decides whether a message is thanking someone.
type triggers struct {
	patterns []*regexp.Regexp
}

func newTriggers(voteEmojiName string) *triggers {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:^|[^a-z])thanks?(?:[^a-z]|$)`),
		regexp.MustCompile(`(?i)(?:^|[^a-z])tyvm(?:[^a-z]|$)`),
		regexp.MustCompile(`(?i)(?:^|[^a-z])points? (?:to|for) <@`),
	}
	if voteEmojiName != "" {
		patterns = append(patterns, regexp.MustCompile(`(?i):`+regexp.QuoteMeta(voteEmojiName)+`:`))
	}

	return &triggers{patterns: patterns}
}

// Match reports whether any trigger appears in the content.
func (t *triggers) Match(content string) bool {
	for _, pattern := range t.patterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	return false
}
