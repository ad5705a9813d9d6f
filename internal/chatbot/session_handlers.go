package chatbot

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type sessionRow struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type messageRow struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionsHandler serves GET /chat/sessions, most recently active first.
func SessionsHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := dbx.QueryContext(r.Context(), `
			SELECT id, created_at, last_message_at
			FROM chat_sessions
			ORDER BY last_message_at DESC
		`)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		defer rows.Close()

		sessions := []sessionRow{}
		for rows.Next() {
			var s sessionRow
			if err := rows.Scan(&s.ID, &s.CreatedAt, &s.LastMessageAt); err != nil {
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}
			sessions = append(sessions, s)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sessions": sessions,
			"total":    len(sessions),
		})
	}
}

// SessionMessagesHandler serves GET /chat/sessions/{session_id}/messages,
// both sides of the conversation in the order they were said.
func SessionMessagesHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.PathValue("session_id"))
		if err != nil {
			http.Error(w, "invalid session id format", http.StatusUnprocessableEntity)
			return
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT id, session_id, message_type, content, created_at
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at ASC
		`, sessionID)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		defer rows.Close()

		messages := []messageRow{}
		for rows.Next() {
			var m messageRow
			if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
				http.Error(w, "db scan error", http.StatusInternalServerError)
				return
			}
			messages = append(messages, m)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages":   messages,
			"total":      len(messages),
			"session_id": sessionID,
		})
	}
}

// CreateSessionHandler serves POST /chat/sessions.
func CreateSessionHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := uuid.New()
		now := time.Now().UTC()

		_, err := dbx.ExecContext(r.Context(), `
			INSERT INTO chat_sessions (id, created_at, last_message_at)
			VALUES ($1, $2, $2)
		`, sessionID, now)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sessionRow{
			ID: sessionID, CreatedAt: now, LastMessageAt: now,
		})
	}
}

// ResetSessionHandler serves POST /chat/reset-session?session_id=...; it
// clears the session's messages but keeps the session row.
func ResetSessionHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(r.URL.Query().Get("session_id"))
		if err != nil {
			http.Error(w, "invalid session id format", http.StatusUnprocessableEntity)
			return
		}

		var exists int
		if err := dbx.QueryRowContext(r.Context(),
			`SELECT COUNT(*) FROM chat_sessions WHERE id = $1`, sessionID).Scan(&exists); err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		if exists == 0 {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		if _, err := dbx.ExecContext(r.Context(),
			`DELETE FROM chat_messages WHERE session_id = $1`, sessionID); err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"session_id": sessionID,
		})
	}
}
