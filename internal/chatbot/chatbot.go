// Package chatbot is a small rule-based conversational layer. It recognizes
// smalltalk (greetings, thanks, goodbyes) and generic todo chatter, and
// answers from canned response pools; actual task mutations belong to the
// command endpoint, which the bot points users at.
package chatbot

import (
	"math/rand"
	"regexp"
	"strings"
)

type intentPatterns struct {
	intent   string
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		res = append(res, regexp.MustCompile(e))
	}
	return res
}

// Ordered: the first intent whose pattern matches wins.
var patternTable = []intentPatterns{
	{"greeting", compile(`hello`, `hi`, `hey`, `greetings`, `morning`, `afternoon`, `evening`)},
	{"goodbye", compile(`bye`, `goodbye`, `farewell`, `see you`, `ciao`, `good night`)},
	{"thanks", compile(`thanks`, `thank you`, `thx`, `appreciate`, `grateful`)},
	{"todo_help", compile(`todo`, `task`, `list`, `add`, `delete`, `update`, `manage`, `help`)},
	{"question", compile(
		`\?$|how.*\?|what.*\?|when.*\?|where.*\?|why.*\?|who.*\?|can you|could you|would you|do you`,
		`what is|what are|how do|explain|tell me about|help me with`,
	)},
	{"command", compile(
		`please `, `can you `, `could you `, `would you `, `help me `,
		`add `, `create `, `delete `, `remove `, `update `, `change `, `modify `,
	)},
	{"casual", compile(
		`i am|i'm|i am feeling|today i|just wanted to say|anyway,|btw,|by the way`,
		`cool|awesome|great|nice|wonderful|fantastic|interesting`,
	)},
}

var responses = map[string][]string{
	"greeting": {
		"Hello! How can I assist you today?",
		"Hi there! What can I help you with?",
		"Greetings! Feel free to ask me anything.",
	},
	"goodbye": {
		"Goodbye! Have a great day!",
		"See you later! Take care!",
		"Farewell! Come back anytime.",
	},
	"thanks": {
		"You're welcome!",
		"Happy to help!",
		"Anytime!",
	},
	"todo_help": {
		"I can help you manage your todos! You can add, list, update, or delete tasks.",
		"Need help with your tasks? Just let me know what you'd like to do!",
		"I'm here to help with your todo management!",
	},
	"question": {
		"That's a good question! Let me think...",
		"I understand you're asking about this. Here's what I know:",
		"Great question! Here's what I can tell you:",
	},
	"command": {
		"I'll help you with that task.",
		"Got it! I can assist you with that.",
		"Understood. Let me help you with that.",
	},
	"casual": {
		"Interesting! Tell me more about that.",
		"That's nice to hear. How else can I assist?",
		"Thanks for sharing! What else is on your mind?",
	},
	"default": {
		"That's interesting! Tell me more.",
		"I understand. How else can I assist you?",
		"Thanks for sharing. What else would you like to know?",
		"I'm here to help with your todo management. What would you like to do?",
		"Could you clarify what you're looking for?",
	},
}

// RecognizeIntent classifies a chat message by the first matching pattern.
func RecognizeIntent(message string) string {
	lower := strings.ToLower(message)
	for _, ip := range patternTable {
		for _, re := range ip.patterns {
			if re.MatchString(lower) {
				return ip.intent
			}
		}
	}
	return "default"
}

// GenerateResponse picks a canned answer for the recognized intent.
// Todo-flavored messages get steered towards the command endpoint.
func GenerateResponse(message string) string {
	intent := RecognizeIntent(message)

	if intent == "todo_help" {
		lower := strings.ToLower(message)
		switch {
		case containsAny(lower, "list", "show", "display", "see", "view"):
			switch {
			case strings.Contains(lower, "pending") || strings.Contains(lower, "incomplete"):
				return "I can help you list your pending tasks. Send that as a command and I'll fetch them."
			case strings.Contains(lower, "completed") || strings.Contains(lower, "done"):
				return "I can help you list your completed tasks. Send that as a command and I'll fetch them."
			default:
				return "I can help you list your tasks. Send that as a command and I'll fetch them."
			}
		case containsAny(lower, "add", "create", "new"):
			return "I can help you add a new task. Send that as a command and I'll create it."
		case containsAny(lower, "delete", "remove", "del"):
			return "I can help you delete a task. Send that as a command and I'll remove it."
		}
	}

	pool, ok := responses[intent]
	if !ok {
		pool = responses["default"]
	}
	answer := pool[rand.Intn(len(pool))]

	// questions, commands and casual chatter get a second pool pick
	// prepended so the reply reads as acknowledgement plus answer
	switch intent {
	case "question", "command", "casual":
		return pool[rand.Intn(len(pool))] + " " + answer
	}
	return answer
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
