package main

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"todo-mcp-backend/internal/auth"
	"todo-mcp-backend/internal/chatbot"
	"todo-mcp-backend/internal/command"
	"todo-mcp-backend/internal/config"
	"todo-mcp-backend/internal/db"
	"todo-mcp-backend/internal/tasks"
)

func main() {
	cfg := config.Load()
	secret := []byte(cfg.JWTSecret)

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	authn := auth.New(secret)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("GET /auth/me", authn.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("POST /auth/logout", authn.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("DELETE /auth/account", authn.Wrap(auth.DeleteAccountHandler(database)))

	// ----- TASKS API -----
	mux.HandleFunc("GET /api/tasks", authn.Wrap(tasks.ListTasksHandler(database)))
	mux.HandleFunc("POST /api/tasks", authn.Wrap(tasks.CreateTaskHandler(database)))
	mux.HandleFunc("GET /api/tasks/statistics", authn.Wrap(tasks.StatisticsHandler(database)))
	mux.HandleFunc("GET /api/tasks/{task_id}", authn.Wrap(tasks.GetTaskHandler(database)))
	mux.HandleFunc("PATCH /api/tasks/{task_id}", authn.Wrap(tasks.UpdateTaskHandler(database)))
	mux.HandleFunc("PUT /api/tasks/{task_id}", authn.Wrap(tasks.UpdateTaskHandler(database)))
	mux.HandleFunc("DELETE /api/tasks/{task_id}", authn.Wrap(tasks.DeleteTaskHandler(database)))
	mux.HandleFunc("POST /api/tasks/{task_id}/complete", authn.Wrap(tasks.CompleteTaskHandler(database)))
	mux.HandleFunc("POST /api/tasks/bulk/complete", authn.Wrap(tasks.BulkCompleteHandler(database)))
	mux.HandleFunc("POST /api/tasks/bulk/delete", authn.Wrap(tasks.BulkDeleteHandler(database)))

	// ----- NATURAL LANGUAGE COMMANDS -----
	mux.HandleFunc("POST /mcp/todo/command", authn.Wrap(command.CommandHandler(database)))
	mux.HandleFunc("GET /mcp/todo/status", command.StatusHandler())
	mux.HandleFunc("GET /mcp/todo/help", command.HelpHandler())

	// ----- CHAT -----
	mux.HandleFunc("POST /chat/message", chatbot.MessageHandler(database))
	mux.HandleFunc("GET /chat/sessions", chatbot.SessionsHandler(database))
	mux.HandleFunc("POST /chat/sessions", chatbot.CreateSessionHandler(database))
	mux.HandleFunc("GET /chat/sessions/{session_id}/messages", chatbot.SessionMessagesHandler(database))
	mux.HandleFunc("POST /chat/reset-session", chatbot.ResetSessionHandler(database))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Println("🚀 API server is running on " + cfg.Addr())
	log.Fatal(http.ListenAndServe(cfg.Addr(), handler))
}
