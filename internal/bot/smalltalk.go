// ABOUTME: Smalltalk fast path for greetings, thanks, help, and status pings
// ABOUTME: Matches get a canned reply in-channel and skip the long-running answer flow

package bot

import "regexp"

var smalltalkRules = []struct {
	pattern *regexp.Regexp
	reply   string
}{
	{
		regexp.MustCompile(`(?i)\b(hi|hello|hey|yo|hola|howdy)\b`),
		"Hi! I can help with questions about our docs. What do you need?",
	},
	{
		regexp.MustCompile(`(?i)\b(thanks|thank you|cheers|appreciate)\b`),
		"You're welcome! Glad it helped.",
	},
	{
		regexp.MustCompile(`(?i)\b(help|what can you do|how do i use you|who are you)\b`),
		"I answer questions using our internal docs—try asking about a process or policy.",
	},
	{
		regexp.MustCompile(`(?i)\b(status|ping|are you up)\b`),
		"Online and ready. If I'm slow, I'm fetching or summarising docs.",
	},
}

// smalltalkReply returns a canned reply for social messages, or "" when
// the text is a real question.
func smalltalkReply(text string) string {
	for _, rule := range smalltalkRules {
		if rule.pattern.MatchString(text) {
			return rule.reply
		}
	}
	return ""
}
