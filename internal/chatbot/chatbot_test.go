package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecognizeIntent(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"greeting", "hello, anyone home?", "greeting"},
		{"goodbye", "ok goodbye now", "goodbye"},
		{"thanks", "thanks a lot!", "thanks"},
		{"todo chatter", "how do i manage my todo items", "todo_help"},
		{"question", "what is the answer?", "question"},
		{"fallback", "zzz", "default"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecognizeIntent(tc.message))
		})
	}
}

func TestGenerateResponseSteersTodoMessages(t *testing.T) {
	assert.Equal(t,
		"I can help you list your pending tasks. Send that as a command and I'll fetch them.",
		GenerateResponse("show my pending todo items"))

	assert.Equal(t,
		"I can help you add a new task. Send that as a command and I'll create it.",
		GenerateResponse("i want to add a new task"))

	assert.Equal(t,
		"I can help you delete a task. Send that as a command and I'll remove it.",
		GenerateResponse("delete a task for me"))
}

func TestGenerateResponsePicksFromPool(t *testing.T) {
	got := GenerateResponse("hello")
	assert.Contains(t, responses["greeting"], got)

	got = GenerateResponse("zzz")
	assert.Contains(t, responses["default"], got)
}

func TestGenerateResponseCompoundsForQuestions(t *testing.T) {
	got := GenerateResponse("what is the answer?")

	// two picks from the question pool joined with a space
	found := false
	for _, first := range responses["question"] {
		for _, second := range responses["question"] {
			if got == first+" "+second {
				found = true
			}
		}
	}
	assert.True(t, found, "response %q is not two question pool picks", got)
}
