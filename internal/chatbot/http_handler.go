package chatbot

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-mcp-backend/internal/analytics"
)

const maxMessageLength = 10000

// MessageHandler serves POST /chat/message. Sessions and both sides of the
// conversation are persisted; an unknown session id starts a new session.
func MessageHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message   string `json:"message"`
			SessionID string `json:"session_id"`
			UserID    string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		message := strings.TrimSpace(body.Message)
		if message == "" {
			http.Error(w, "message cannot be empty", http.StatusUnprocessableEntity)
			return
		}
		if len(body.Message) > maxMessageLength {
			http.Error(w, "message exceeds maximum length of 10,000 characters", http.StatusUnprocessableEntity)
			return
		}

		// resolve or create the session
		sessionID, err := uuid.Parse(body.SessionID)
		if err != nil {
			sessionID = uuid.New()
		}

		var userID sql.NullString
		if uid, err := uuid.Parse(body.UserID); err == nil {
			// only attach the user when the row actually exists
			var exists int
			_ = dbx.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM users WHERE id=$1`, uid).Scan(&exists)
			if exists > 0 {
				userID = sql.NullString{String: uid.String(), Valid: true}
			}
		}

		_, err = dbx.ExecContext(r.Context(), `
			INSERT INTO chat_sessions (id, user_id, created_at, last_message_at)
			VALUES ($1, $2, $3, $3)
			ON CONFLICT (id) DO UPDATE SET last_message_at = $3
		`, sessionID, userID, time.Now().UTC())
		if err != nil {
			log.Printf("[WARN] chat session upsert failed session_id=%s: %v", sessionID, err)
		}

		response := GenerateResponse(body.Message)

		// persist both sides; chat history is best-effort
		now := time.Now().UTC()
		_, err = dbx.ExecContext(r.Context(), `
			INSERT INTO chat_messages (id, session_id, message_type, content, created_at)
			VALUES ($1, $2, 'user', $3, $4), ($5, $2, 'bot', $6, $4)
		`, uuid.New(), sessionID, message, now, uuid.New(), response)
		if err != nil {
			log.Printf("[WARN] chat message insert failed session_id=%s: %v", sessionID, err)
		}

		// analytics: chat_message_received
		if userID.Valid {
			env := analytics.FromRequest(r)
			env.UserID, _ = uuid.Parse(userID.String)
			_ = analytics.Log(r.Context(), dbx, env, "chat_message_received",
				map[string]any{"session_id": sessionID, "message_len": len(message)},
				analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":   response,
			"session_id": sessionID,
			"timestamp":  now.Format(time.RFC3339),
			"success":    true,
		})
	}
}
