// Package nlp implements the rule-based natural language pipeline for todo
// commands: language detection, intent classification, entity extraction and
// context-reference parsing. Everything here is pure text matching over
// static tables; nothing touches storage.
package nlp

import "time"

// Intent is the class of task operation a command requests.
// The zero value means "no intent recognized".
type Intent string

const (
	IntentNone     Intent = ""
	IntentAdd      Intent = "ADD_TODO"
	IntentDelete   Intent = "DELETE_TODO"
	IntentUpdate   Intent = "UPDATE_TODO"
	IntentComplete Intent = "COMPLETE_TODO"
	IntentList     Intent = "LIST_TODOS"
)

// Entity is a typed fragment of text extracted from a command.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

const (
	EntityTaskTitle       = "task_title"
	EntityTaskDescription = "task_description"
	EntityTaskIdentifier  = "task_identifier"
	EntityFilterStatus    = "filter_status"
)

// RefKind says how a task is being identified.
type RefKind string

const (
	RefTitleKeyword RefKind = "TITLE_KEYWORD"
	RefPosition     RefKind = "POSITION"
	RefContext      RefKind = "CONTEXT_REFERENCE"
	RefExactID      RefKind = "EXACT_ID"
)

// TaskReference is a parse-time locator for a task that was not named
// explicitly ("that one", "the 2nd task"). Resolution against live task
// state happens later, at execution time.
type TaskReference struct {
	Kind       RefKind `json:"identifier_type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ParsedCommand is the structured result of parsing one utterance.
// Built once per input, never mutated afterwards.
type ParsedCommand struct {
	Intent           Intent         `json:"intent,omitempty"`
	Entities         []Entity       `json:"entities"`
	Confidence       float64        `json:"confidence"`
	ResolvedAction   string         `json:"resolved_action"`
	RawInput         string         `json:"raw_input"`
	LanguageCode     string         `json:"language_code"`
	Timestamp        time.Time      `json:"timestamp"`
	ContextReference *TaskReference `json:"context_reference,omitempty"`
}

// Language tags produced by DetectLanguage.
const (
	LangEnglish = "en"
	LangUrdu    = "ur"
	LangHindi   = "hi"
	LangMixed   = "mixed"
)
