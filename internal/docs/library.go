// ABOUTME: In-memory document library loaded from the document source
// ABOUTME: Name-to-text lookup plus the personality doc with a built-in default

package docs

import "sort"

// PersonalityDoc is the reserved document holding the bot's tone
// guidelines. It is never offered to the selector.
const PersonalityDoc = "personality.txt"

const defaultPersonality = `Tone: Neutral and helpful.
Keep answers concise.
Do not use jokes unless asked.`

// Library is an immutable snapshot of the document set. Refreshes swap
// the whole snapshot rather than mutating one in place.
type Library struct {
	docs map[string]string
}

// NewLibrary creates a Library over the given name-to-text mapping.
func NewLibrary(docs map[string]string) *Library {
	copied := make(map[string]string, len(docs))
	for name, text := range docs {
		copied[name] = text
	}
	return &Library{docs: copied}
}

// Get returns the text of a document by name.
func (l *Library) Get(name string) (string, bool) {
	text, ok := l.docs[name]
	return text, ok
}

// Names returns the selectable document names in sorted order, excluding
// the personality doc.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.docs))
	for name := range l.docs {
		if name == PersonalityDoc {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Personality returns the tone guidelines, falling back to the built-in
// default when the document set doesn't carry one.
func (l *Library) Personality() string {
	if text, ok := l.docs[PersonalityDoc]; ok {
		return text
	}
	return defaultPersonality
}

// Len returns the number of documents, personality included.
func (l *Library) Len() int {
	return len(l.docs)
}
