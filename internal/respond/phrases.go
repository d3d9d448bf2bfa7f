// ABOUTME: Rotating "still working" phrasings for the private notice
// ABOUTME: Uniform random selection with an injectable pick function for tests

package respond

import "math/rand/v2"

// defaultPhrases are the stock notice phrasings used when the config does
// not override them.
var defaultPhrases = []string{
	"I'm just thinking through your question—bear with me.",
	"Working on this now—one moment.",
	"Give me a sec while I check the docs.",
	"On it—collecting the right info.",
	"Let me pull the relevant bits together.",
	"One moment, I'm piecing this answer together.",
	"I'm scanning the docs for the best answer—hang tight.",
	"Almost there—just making sure I've got it right.",
}

// PhrasePicker selects one of a fixed list of equivalent notice phrasings.
type PhrasePicker struct {
	phrases []string
	pick    func(n int) int
}

// NewPhrasePicker creates a picker over the given phrases, falling back to
// the stock list when none are provided. Selection is uniform random.
func NewPhrasePicker(phrases []string) *PhrasePicker {
	if len(phrases) == 0 {
		phrases = defaultPhrases
	}
	return &PhrasePicker{
		phrases: phrases,
		pick:    rand.IntN,
	}
}

// Pick returns one phrase from the list.
func (p *PhrasePicker) Pick() string {
	return p.phrases[p.pick(len(p.phrases))]
}
