package nlp

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DetectLanguage tags the input as mixed English-Urdu/Hindi when any marker
// word appears in it, and as English otherwise. This is a coarse heuristic,
// not real language identification.
func DetectLanguage(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range mixedIndicators {
		if strings.Contains(lower, marker) {
			return LangMixed
		}
	}
	return LangEnglish
}

// Preprocess trims the input, collapses whitespace and rewrites known
// mixed-language connector words into English before generic matching.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")

	for _, sub := range multilingualSubstitutions {
		text = sub.re.ReplaceAllString(text, sub.replacement)
	}

	return text
}

// Classify maps raw text to an intent with a confidence score.
//
// Specialized multi-field templates are checked first against the raw
// lower-cased text and short-circuit at 0.98. Otherwise every generic rule
// runs against the preprocessed text and the single best-scoring match wins;
// on equal scores the rule listed first is kept. No match at all yields
// (IntentNone, 0.0).
func Classify(text string) (Intent, float64) {
	rawLower := strings.ToLower(strings.TrimSpace(text))
	for _, tmpl := range addTemplates {
		if tmpl.MatchString(rawLower) {
			return IntentAdd, 0.98
		}
	}

	processed := strings.ToLower(Preprocess(text))

	best := IntentNone
	bestConf := 0.0
	for _, r := range intentRules {
		if r.re.MatchString(processed) && r.conf > bestConf {
			best = r.intent
			bestConf = r.conf
		}
	}

	return best, bestConf
}

// ExtractEntities pulls intent-specific fields out of the text.
// It never fails; when nothing matches the result is empty.
func ExtractEntities(text string, intent Intent) []Entity {
	var entities []Entity

	if intent == IntentAdd {
		rawLower := strings.ToLower(strings.TrimSpace(text))
		for _, tmpl := range addTemplates {
			if m := tmpl.FindStringSubmatch(rawLower); m != nil {
				title := strings.TrimSpace(m[1])
				desc := strings.TrimSpace(m[2])
				if title != "" {
					entities = append(entities, Entity{Type: EntityTaskTitle, Value: title})
				}
				if desc != "" {
					entities = append(entities, Entity{Type: EntityTaskDescription, Value: desc})
				}
				return entities
			}
		}
	}

	processed := strings.ToLower(Preprocess(text))

	for _, r := range intentRules {
		if r.intent != intent {
			continue
		}
		m := r.re.FindStringSubmatch(processed)
		if m == nil {
			continue
		}

		switch intent {
		case IntentAdd:
			if v := strings.TrimSpace(m[len(m)-1]); v != "" {
				entities = append(entities, Entity{Type: EntityTaskDescription, Value: v})
			}
		case IntentDelete, IntentUpdate, IntentComplete:
			if v := strings.TrimSpace(m[len(m)-1]); v != "" {
				entities = append(entities, Entity{Type: EntityTaskIdentifier, Value: v})
			}
		case IntentList:
			if strings.Contains(processed, "pending") || strings.Contains(processed, "incomplete") {
				entities = append(entities, Entity{Type: EntityFilterStatus, Value: "Pending"})
			} else if strings.Contains(processed, "completed") || strings.Contains(processed, "done") {
				entities = append(entities, Entity{Type: EntityFilterStatus, Value: "Completed"})
			}
		}

		// first matching pattern decides
		break
	}

	return entities
}

// ParseContextReference detects anaphoric and positional task references.
// Returns nil when the text contains none.
func ParseContextReference(text string) *TaskReference {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, phrase := range contextPhrases {
		if strings.Contains(lower, phrase.canonical) {
			return &TaskReference{Kind: RefContext, Value: phrase.canonical, Confidence: 0.9}
		}
		for _, syn := range phrase.synonyms {
			if strings.Contains(lower, syn) {
				return &TaskReference{Kind: RefContext, Value: syn, Confidence: 0.8}
			}
		}
	}

	for _, pw := range positionWords {
		if strings.Contains(lower, pw.word) {
			return &TaskReference{Kind: RefPosition, Value: strconv.Itoa(pw.pos), Confidence: 0.7}
		}
	}

	if m := numericOrdinalRe.FindStringSubmatch(lower); m != nil {
		return &TaskReference{Kind: RefPosition, Value: m[1], Confidence: 0.7}
	}

	return nil
}

// Parse turns one raw utterance into a ParsedCommand. Pure composition,
// fully deterministic given the static tables.
func Parse(rawInput string) ParsedCommand {
	language := DetectLanguage(rawInput)

	intent, confidence := Classify(rawInput)

	var entities []Entity
	if intent != IntentNone {
		entities = ExtractEntities(rawInput, intent)
	}
	if entities == nil {
		entities = []Entity{}
	}

	contextRef := ParseContextReference(rawInput)

	return ParsedCommand{
		Intent:           intent,
		Entities:         entities,
		Confidence:       confidence,
		ResolvedAction:   ResolvedAction(intent),
		RawInput:         rawInput,
		LanguageCode:     language,
		Timestamp:        time.Now().UTC(),
		ContextReference: contextRef,
	}
}

// ResolvedAction maps an intent to its static action label.
func ResolvedAction(intent Intent) string {
	if action, ok := actionMap[intent]; ok {
		return action
	}
	return "UNKNOWN"
}

// Capitalize upper-cases the first letter for display, leaving the rest
// untouched.
func Capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
