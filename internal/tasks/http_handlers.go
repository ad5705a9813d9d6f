package tasks

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"todo-mcp-backend/internal/analytics"
	"todo-mcp-backend/internal/auth"
)

// -------------------------------
// HANDLERS
// -------------------------------

func ListTasksHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		statusFilter := r.URL.Query().Get("status")
		switch statusFilter {
		case "", "All":
			statusFilter = ""
		case StatusPending, StatusCompleted:
		default:
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}

		tasks, err := store.List(r.Context(), uid, statusFilter)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		total, pending, completed, err := store.Counts(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		if tasks == nil {
			tasks = []Task{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tasks":           tasks,
			"total":           total,
			"pending_count":   pending,
			"completed_count": completed,
		})
	}
}

func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		title := strings.TrimSpace(body.Title)
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if len(title) > 500 {
			http.Error(w, "title too long", http.StatusBadRequest)
			return
		}

		task, err := store.Create(r.Context(), uid, title, strings.TrimSpace(body.Description))
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":      task.ID,
				"title_len":    len(task.Title),
				"has_desc":     task.Description != "",
				"created_from": "rest",
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(task)
	}
}

func GetTaskHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, err := uuid.Parse(r.PathValue("task_id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		task, err := store.GetByID(r.Context(), uid, taskID)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		if task == nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(task)
	}
}

func UpdateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, err := uuid.Parse(r.PathValue("task_id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var body struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Status      *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if body.Status != nil && *body.Status != StatusPending && *body.Status != StatusCompleted {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		if body.Title != nil && strings.TrimSpace(*body.Title) == "" {
			http.Error(w, "title cannot be empty", http.StatusBadRequest)
			return
		}

		task, err := store.Update(r.Context(), uid, taskID, Update{
			Title:       body.Title,
			Description: body.Description,
			Status:      body.Status,
		})
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		if task == nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		// analytics: task_updated
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":        task.ID,
				"status_changed": body.Status != nil,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_updated", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(task)
	}
}

func DeleteTaskHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, err := uuid.Parse(r.PathValue("task_id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		deleted, err := store.Delete(r.Context(), uid, taskID)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		if !deleted {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		// analytics: task_deleted
		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			_ = analytics.Log(r.Context(), dbx, env, "task_deleted",
				map[string]any{"task_id": taskID}, analytics.SourceEventKeyFromRequest(r))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func CompleteTaskHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, err := uuid.Parse(r.PathValue("task_id"))
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		completed := StatusCompleted
		task, err := store.Update(r.Context(), uid, taskID, Update{Status: &completed})
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}
		if task == nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		// analytics: task_completed
		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			_ = analytics.Log(r.Context(), dbx, env, "task_completed",
				map[string]any{"task_id": task.ID, "completed_from": "rest"},
				analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(task)
	}
}

func StatisticsHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		total, pending, completed, err := store.Counts(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), 500)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total":     total,
			"pending":   pending,
			"completed": completed,
		})
	}
}

func BulkCompleteHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskIDs []string `json:"task_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		completed := StatusCompleted
		updated := 0
		for _, raw := range body.TaskIDs {
			taskID, err := uuid.Parse(raw)
			if err != nil {
				continue // skip invalid ids
			}
			task, err := store.GetByID(r.Context(), uid, taskID)
			if err != nil || task == nil || task.Status == StatusCompleted {
				continue
			}
			if _, err := store.Update(r.Context(), uid, taskID, Update{Status: &completed}); err == nil {
				updated++
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":       fmtCount(updated, "tasks marked as completed"),
			"updated_count": updated,
		})
	}
}

func BulkDeleteHandler(dbx *sql.DB) http.HandlerFunc {
	store := NewStore(dbx)
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskIDs []string `json:"task_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		deleted := 0
		for _, raw := range body.TaskIDs {
			taskID, err := uuid.Parse(raw)
			if err != nil {
				continue // skip invalid ids
			}
			ok, err := store.Delete(r.Context(), uid, taskID)
			if err == nil && ok {
				deleted++
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":       fmtCount(deleted, "tasks deleted"),
			"updated_count": 0,
			"deleted_count": deleted,
		})
	}
}

func fmtCount(n int, suffix string) string {
	return strconv.Itoa(n) + " " + suffix
}
