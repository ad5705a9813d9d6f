package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		wantIntent Intent
		wantConf   float64
	}{
		{"add with preposition", "add a task to buy groceries", IntentAdd, 0.95},
		{"create todo", "create a todo to call mom", IntentAdd, 0.95},
		{"need to", "need to buy milk", IntentAdd, 0.85},
		{"delete with suffix", "delete the meeting task", IntentDelete, 0.95},
		{"get rid of", "get rid of old stuff", IntentDelete, 0.85},
		{"complete with suffix", "complete the homework task", IntentComplete, 0.95},
		{"list my tasks", "list my tasks", IntentList, 0.95},
		{"list with filter word", "list my pending tasks", IntentList, 0.95},
		{"question form", "what tasks do i have", IntentList, 0.85},
		{"greeting", "hello there", IntentNone, 0.0},
		{"unrelated", "it is raining today", IntentNone, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intent, conf := Classify(tc.input)
			assert.Equal(t, tc.wantIntent, intent)
			assert.InDelta(t, tc.wantConf, conf, 1e-9)
		})
	}
}

func TestClassifySpecializedTemplate(t *testing.T) {
	intent, conf := Classify("add task name groceries and description them buy milk for tomorrow")
	assert.Equal(t, IntentAdd, intent)
	assert.InDelta(t, 0.98, conf, 1e-9)
}

func TestExtractEntitiesSpecializedAdd(t *testing.T) {
	entities := ExtractEntities("add task name groceries and description them buy milk for tomorrow", IntentAdd)
	require.Len(t, entities, 2)
	assert.Equal(t, Entity{Type: EntityTaskTitle, Value: "groceries"}, entities[0])
	assert.Equal(t, Entity{Type: EntityTaskDescription, Value: "buy milk for tomorrow"}, entities[1])
}

func TestExtractEntities(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		intent Intent
		want   []Entity
	}{
		{
			"add captures trailing text",
			"add a task to buy groceries", IntentAdd,
			[]Entity{{Type: EntityTaskDescription, Value: "buy groceries"}},
		},
		{
			"delete captures identifier",
			"delete buy groceries", IntentDelete,
			[]Entity{{Type: EntityTaskIdentifier, Value: "buy groceries"}},
		},
		{
			"list pending filter",
			"list my pending tasks", IntentList,
			[]Entity{{Type: EntityFilterStatus, Value: "Pending"}},
		},
		{
			"list completed filter",
			"show completed tasks", IntentList,
			[]Entity{{Type: EntityFilterStatus, Value: "Completed"}},
		},
		{
			"list without filter",
			"show my tasks", IntentList,
			nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractEntities(tc.input, tc.intent)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseContextReference(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantKind RefKind
		wantVal  string
		wantConf float64
	}{
		{"canonical anaphora", "delete that one", RefContext, "that one", 0.9},
		{"last one", "complete the last one", RefContext, "the last one", 0.9},
		{"numeric ordinal", "delete the 2nd task", RefPosition, "2", 0.7},
		{"ordinal word", "delete the third task", RefPosition, "3", 0.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := ParseContextReference(tc.input)
			require.NotNil(t, ref)
			assert.Equal(t, tc.wantKind, ref.Kind)
			assert.Equal(t, tc.wantVal, ref.Value)
			assert.InDelta(t, tc.wantConf, ref.Confidence, 1e-9)
		})
	}

	t.Run("no reference", func(t *testing.T) {
		assert.Nil(t, ParseContextReference("add a task to buy groceries"))
	})
}

func TestPreprocess(t *testing.T) {
	assert.Equal(t, "add task or delete task", Preprocess("  add   task ya delete task  "))
	assert.Equal(t, "add title then description", Preprocess("add title them description"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangMixed, DetectLanguage("add task ya delete task"))
	assert.Equal(t, LangEnglish, DetectLanguage("add a task to buy groceries"))
}

func TestParse(t *testing.T) {
	t.Run("recognized command", func(t *testing.T) {
		parsed := Parse("add a task to buy groceries")
		assert.Equal(t, IntentAdd, parsed.Intent)
		assert.InDelta(t, 0.95, parsed.Confidence, 1e-9)
		assert.Equal(t, "ADD_TASK", parsed.ResolvedAction)
		assert.Equal(t, LangEnglish, parsed.LanguageCode)
		assert.Equal(t, "add a task to buy groceries", parsed.RawInput)
		require.Len(t, parsed.Entities, 1)
		assert.Nil(t, parsed.ContextReference)
	})

	t.Run("unrecognized command", func(t *testing.T) {
		parsed := Parse("it is raining today")
		assert.Equal(t, IntentNone, parsed.Intent)
		assert.Zero(t, parsed.Confidence)
		assert.Equal(t, "UNKNOWN", parsed.ResolvedAction)
		assert.NotNil(t, parsed.Entities)
		assert.Empty(t, parsed.Entities)
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Buy groceries", Capitalize("buy groceries"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "X", Capitalize("x"))
}
