package command

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"todo-mcp-backend/internal/auth"
)

// openUnreachableDB gives a handle whose queries fail; sql.Open does not
// connect, so handler paths that only best-effort log stay exercisable.
func openUnreachableDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func postCommand(t *testing.T, command string) *httptest.ResponseRecorder {
	t.Helper()
	secret := []byte("test-secret")
	token, err := auth.GenerateToken(secret, uuid.New())
	require.NoError(t, err)

	handler := auth.New(secret).Wrap(CommandHandler(openUnreachableDB(t)))

	body, err := json.Marshal(map[string]string{"command": command})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp/todo/command", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCommandHandlerLengthLimitCountsCharacters(t *testing.T) {
	// 400 characters but 1,200 bytes: must clear the 1,000-character limit
	rec := postCommand(t, strings.Repeat("你", 400))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "cannot exceed")

	rec = postCommand(t, strings.Repeat("你", 1001))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "cannot exceed 1,000 characters")
}

func TestCommandHandlerRejectsEmptyCommand(t *testing.T) {
	rec := postCommand(t, "   ")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "cannot be empty")
}
