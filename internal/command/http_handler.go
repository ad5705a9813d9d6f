package command

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"todo-mcp-backend/internal/analytics"
	"todo-mcp-backend/internal/auth"
	"todo-mcp-backend/internal/tasks"
)

// maxCommandLength bounds incoming command text before the core sees it.
const maxCommandLength = 1000

// CommandHandler serves POST /mcp/todo/command. The surrounding
// middleware has already authenticated the bearer token.
func CommandHandler(dbx *sql.DB) http.HandlerFunc {
	proc := NewProcessor(tasks.NewStore(dbx))
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Command        string         `json:"command"`
			UserID         string         `json:"user_id"`
			SessionContext map[string]any `json:"session_context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// the user in the body must be the user in the token
		if body.UserID != "" {
			requestUID, err := uuid.Parse(body.UserID)
			if err != nil {
				http.Error(w, "invalid user id format", http.StatusBadRequest)
				return
			}
			if requestUID != uid {
				http.Error(w, "access denied: user id mismatch", http.StatusForbidden)
				return
			}
		}

		trimmed := strings.TrimSpace(body.Command)
		if trimmed == "" {
			http.Error(w, "command text cannot be empty", http.StatusBadRequest)
			return
		}
		if utf8.RuneCountInString(trimmed) > maxCommandLength {
			http.Error(w, "command text cannot exceed 1,000 characters", http.StatusBadRequest)
			return
		}

		log.Printf("Processing command for user %s", uid)

		result := proc.Process(r.Context(), Command{
			RawInput:       body.Command,
			UserID:         uid,
			SessionContext: body.SessionContext,
			Timestamp:      time.Now().UTC(),
		})

		// analytics: command_processed
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"operation":  result.OperationPerformed,
				"success":    result.Success,
				"text_len":   utf8.RuneCountInString(trimmed),
				"confidence": 0.0,
				"language":   "",
			}
			if result.ParsedCommand != nil {
				props["confidence"] = result.ParsedCommand.Confidence
				props["language"] = result.ParsedCommand.LanguageCode
			}
			_ = analytics.Log(r.Context(), dbx, env, "command_processed", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// StatusHandler serves GET /mcp/todo/status.
func StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "healthy",
			"service":   "Todo MCP Server",
			"message":   "Natural language command processing is operational",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HelpHandler serves GET /mcp/todo/help with examples of supported commands.
func HelpHandler() http.HandlerFunc {
	help := map[string]any{
		"supported_commands": []map[string]any{
			{
				"add": map[string]any{
					"description": "Add a new task to your todo list",
					"examples": []string{
						"add a todo to buy groceries",
						"create a task to finish project report",
						"add task name call mom and description them remind her about dinner",
					},
				},
			},
			{
				"delete": map[string]any{
					"description": "Remove a task from your todo list",
					"examples": []string{
						"delete the meeting task",
						"remove the grocery list",
						"delete the 2nd task",
					},
				},
			},
			{
				"complete": map[string]any{
					"description": "Mark a task as completed",
					"examples": []string{
						"mark my workout task as complete",
						"complete the homework task",
						"complete that one",
					},
				},
			},
			{
				"list": map[string]any{
					"description": "List your tasks with optional filters",
					"examples": []string{
						"show my pending tasks",
						"list all my tasks",
						"what tasks do I have?",
					},
				},
			},
		},
		"multilingual_support": map[string]any{
			"description": "Support for mixed English-Urdu/Hindi expressions",
			"examples": []string{
				"add todo title them new todo description",
				"remove ya delete",
				"jis mai todo ke task krne ka ho",
			},
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(help)
	}
}
