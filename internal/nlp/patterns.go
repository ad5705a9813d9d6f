package nlp

import "regexp"

// All tables below are read-only process-wide configuration, compiled once
// at init. Order matters: within each intent the most specific templates
// come first.

// intentRule is one row of the generic classification table.
// Confidence is derived from pattern specificity: patterns with more than
// one capture group score 0.95, single-capture patterns 0.85.
type intentRule struct {
	intent Intent
	re     *regexp.Regexp
	conf   float64
}

func rule(intent Intent, expr string) intentRule {
	re := regexp.MustCompile(expr)
	conf := 0.85
	if re.NumSubexp() > 1 {
		conf = 0.95
	}
	return intentRule{intent: intent, re: re, conf: conf}
}

// Generic patterns, evaluated against preprocessed lower-cased text.
var intentRules = []intentRule{
	// ADD_TODO
	rule(IntentAdd, `add\s+(a\s+|new\s+|another\s+)?(todo|task|item)\s+(to|for|about)\s+(.+)`),
	rule(IntentAdd, `create\s+(a\s+|new\s+|another\s+)?(todo|task|item)\s+(to|for|about)\s+(.+)`),
	rule(IntentAdd, `make\s+(a\s+|new\s+)?(todo|task|item)\s+(to|for|about)\s+(.+)`),
	rule(IntentAdd, `add\s+(.+)`),
	rule(IntentAdd, `need\s+to\s+(.+)`),
	rule(IntentAdd, `want\s+to\s+(.+)`),

	// DELETE_TODO
	rule(IntentDelete, `(delete|remove|del)\s+(the\s+|my\s+|a\s+)?(.+?)\s+(task|todo|item)`),
	rule(IntentDelete, `(delete|remove|del)\s+(.+)`),
	rule(IntentDelete, `delete\s+(the\s+)?(.+)`),
	rule(IntentDelete, `get\s+rid\s+of\s+(.+)`),
	rule(IntentDelete, `cancel\s+(.+)`),

	// UPDATE_TODO
	rule(IntentUpdate, `(update|change|modify|edit)\s+(the\s+|my\s+|a\s+)?(.+?)\s+(task|todo|item)`),
	rule(IntentUpdate, `(update|change|modify|edit)\s+(.+)`),
	rule(IntentUpdate, `change\s+(.+)`),
	rule(IntentUpdate, `modify\s+(.+)`),

	// COMPLETE_TODO
	rule(IntentComplete, `(complete|finish|done|mark.*as.*complete|mark.*as.*done)\s+(the\s+|my\s+|a\s+)?(.+?)\s+(task|todo|item)`),
	rule(IntentComplete, `(complete|finish|done|mark.*as.*complete|mark.*as.*done)\s+(.+)`),
	rule(IntentComplete, `mark\s+(the\s+|my\s+|a\s+)?(.+?)\s+(as\s+)?(complete|done)`),
	rule(IntentComplete, `finish\s+(.+)`),

	// LIST_TODOS
	rule(IntentList, `(show|list|display|view|see)\s+((my|all|the|pending|completed)\s+)*(tasks|todos|items|todo\s+list)`),
	rule(IntentList, `what.*tasks`),
	rule(IntentList, `what.*todo`),
	rule(IntentList, `give.*me.*list`),
	rule(IntentList, `list.*all`),
}

// Specialized multi-field ADD templates. These run first, against the raw
// lower-cased input (the connector word "them" would be rewritten by
// preprocessing), and carry a fixed 0.98 confidence because generic
// single-capture patterns cannot separate title from description.
var addTemplates = []*regexp.Regexp{
	regexp.MustCompile(`add\s+(?:a\s+|new\s+|another\s+)?(?:todo|task|item)\s+name\s+(.+?)\s+and\s+description\s+(?:them\s+)?(.+)`),
	regexp.MustCompile(`add\s+(?:a\s+|new\s+|another\s+)?(?:todo|task|item)\s+(?:titled|called|named)\s+(.+?)\s+(?:with|and)\s+description\s+(?:them\s+)?(.+)`),
	regexp.MustCompile(`add\s+(?:todo|task|item)\s+title\s+(.+?)\s+them\s+(.+)`),
}

// substitution rewrites a mixed-language connector word into its English
// equivalent before generic matching.
type substitution struct {
	re          *regexp.Regexp
	replacement string
}

var multilingualSubstitutions = []substitution{
	{regexp.MustCompile(`(?i)\bya\b`), "or"},       // "ya" = or
	{regexp.MustCompile(`(?i)\bthem\b`), "then"},   // "them" used as then/and
	{regexp.MustCompile(`(?i)\bjis mai\b`), "in which"},
	{regexp.MustCompile(`(?i)\bke\b`), "of"},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Markers whose presence anywhere in the text flags it as mixed-language.
var mixedIndicators = []string{"ya", "jis", "mai", "ke", "ka", "ki"}

// contextPhrase maps a canonical anaphora phrase to its accepted synonyms.
type contextPhrase struct {
	canonical string
	synonyms  []string
}

var contextPhrases = []contextPhrase{
	{"that one", []string{"that", "that task", "that item"}},
	{"the last one", []string{"last task", "recent task", "previous task"}},
	{"previous", []string{"previous task", "earlier task"}},
	{"first one", []string{"first task", "initial task"}},
}

// Ordinal words resolved to 1-indexed positions.
var positionWords = []struct {
	word string
	pos  int
}{
	{"first", 1},
	{"second", 2},
	{"third", 3},
}

var numericOrdinalRe = regexp.MustCompile(`(\d+)\s*(st|nd|rd|th)`)

// Resolved-action labels, one per intent.
var actionMap = map[Intent]string{
	IntentAdd:      "ADD_TASK",
	IntentDelete:   "DELETE_TASK",
	IntentUpdate:   "UPDATE_TASK",
	IntentComplete: "MARK_COMPLETE",
	IntentList:     "LIST_TASKS",
}
