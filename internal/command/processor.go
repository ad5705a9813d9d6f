// Package command validates parsed todo commands and executes them against
// the task store, always producing a well-formed Result. Nothing in here is
// fatal to the host process: store failures and unresolvable references come
// back as success=false results with guidance, never as raw errors.
package command

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-mcp-backend/internal/nlp"
	"todo-mcp-backend/internal/tasks"
)

// TaskStore is the persistence collaborator. Implemented by tasks.Store;
// tests substitute an in-memory fake.
type TaskStore interface {
	Create(ctx context.Context, userID uuid.UUID, title, description string) (tasks.Task, error)
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*tasks.Task, error)
	List(ctx context.Context, userID uuid.UUID, status string) ([]tasks.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, upd tasks.Update) (*tasks.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	FindByTitleSubstring(ctx context.Context, userID uuid.UUID, text string) ([]tasks.Task, error)
}

// Command is one natural-language utterance to process.
type Command struct {
	RawInput       string
	UserID         uuid.UUID
	SessionContext map[string]any
	Timestamp      time.Time
}

// Result is the uniform outcome contract for every processed command.
type Result struct {
	Success            bool               `json:"success"`
	OperationPerformed string             `json:"operation_performed"`
	Message            string             `json:"message"`
	ParsedCommand      *nlp.ParsedCommand `json:"parsed_command,omitempty"`
	AffectedTask       *tasks.Task        `json:"affected_task,omitempty"`
	TaskList           []tasks.Task       `json:"task_list"`
	SuggestedNextSteps []string           `json:"suggested_next_steps"`
}

type Processor struct {
	store TaskStore
}

func NewProcessor(store TaskStore) *Processor {
	return &Processor{store: store}
}

// confidenceFloor rejects accidental partial matches; every deliberate rule
// confidence (0.85 and up) clears it.
const confidenceFloor = 0.7

var suggestedNextSteps = map[string][]string{
	"ADD":      {"You can add more tasks", "You can list your tasks", "You can mark tasks as complete"},
	"DELETE":   {"You can add new tasks", "You can list your remaining tasks", "You can update other tasks"},
	"UPDATE":   {"You can list your tasks", "You can mark tasks as complete", "You can add more tasks"},
	"COMPLETE": {"You can list your pending tasks", "You can add new tasks", "You can update other tasks"},
	"LIST":     {"You can add new tasks", "You can mark tasks as complete", "You can delete tasks"},
}

// Process parses, validates and executes one utterance. Total: every path
// returns a Result, including validation rejections and store failures.
func (p *Processor) Process(ctx context.Context, cmd Command) Result {
	parsed := nlp.Parse(cmd.RawInput)

	if reason, suggestions, ok := validate(parsed); !ok {
		return Result{
			Success:            false,
			OperationPerformed: "VALIDATION_ERROR",
			Message:            reason,
			ParsedCommand:      &parsed,
			TaskList:           []tasks.Task{},
			SuggestedNextSteps: suggestions,
		}
	}

	result := p.execute(ctx, cmd.UserID, parsed)
	result.ParsedCommand = &parsed
	if result.TaskList == nil {
		result.TaskList = []tasks.Task{}
	}
	if result.SuggestedNextSteps == nil {
		result.SuggestedNextSteps = nextSteps(result.OperationPerformed)
	}
	return result
}

// validate rejects intent-less and low-confidence parses before they reach
// mutation logic. Confidence exactly at the floor passes.
func validate(parsed nlp.ParsedCommand) (reason string, suggestions []string, ok bool) {
	if parsed.Intent == nlp.IntentNone {
		return "Could not understand the command intent. Please try rephrasing.",
			[]string{
				`Try using clear keywords like "add", "delete", "complete"`,
				"Be more specific about what you want to do",
			}, false
	}
	if parsed.Confidence < confidenceFloor {
		return "Command confidence is low. The system is uncertain about what you want to do.",
			[]string{
				"Be more specific in your command",
				"Use clearer language",
			}, false
	}
	return "", nil, true
}

func (p *Processor) execute(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) Result {
	switch parsed.Intent {
	case nlp.IntentAdd:
		return p.handleAdd(ctx, userID, parsed)
	case nlp.IntentDelete:
		return p.handleDelete(ctx, userID, parsed)
	case nlp.IntentUpdate:
		return p.handleUpdate(ctx, userID, parsed)
	case nlp.IntentComplete:
		return p.handleComplete(ctx, userID, parsed)
	case nlp.IntentList:
		return p.handleList(ctx, userID, parsed)
	default:
		return Result{
			Success:            false,
			OperationPerformed: "UNKNOWN",
			Message:            fmt.Sprintf("Unknown command intent: %s", parsed.Intent),
		}
	}
}

// ---------------------------------------------------------------
// ADD
// ---------------------------------------------------------------

func (p *Processor) handleAdd(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) Result {
	var title, description string

	// explicit title/description entities from the specialized templates
	for _, e := range parsed.Entities {
		switch e.Type {
		case nlp.EntityTaskTitle:
			title = nlp.Capitalize(strings.TrimSpace(e.Value))
		case nlp.EntityTaskDescription:
			description = nlp.Capitalize(strings.TrimSpace(e.Value))
		}
	}

	// no explicit title: split a combined description into title/description
	if title == "" {
		for _, e := range parsed.Entities {
			if e.Type != nlp.EntityTaskDescription {
				continue
			}
			value := strings.TrimSpace(e.Value)
			if before, after, found := strings.Cut(value, " - "); found {
				title = nlp.Capitalize(strings.TrimSpace(before))
				description = nlp.Capitalize(strings.TrimSpace(after))
			} else if before, after, found := strings.Cut(value, ":"); found {
				title = nlp.Capitalize(strings.TrimSpace(before))
				description = nlp.Capitalize(strings.TrimSpace(after))
			} else {
				title = nlp.Capitalize(value)
				description = ""
			}
			break
		}
	}

	if title == "" {
		title = extractTitleFromRaw(parsed.RawInput)
	}

	if title == "" {
		return Result{
			Success:            false,
			OperationPerformed: "ADD",
			Message:            "Could not determine task title from your command. Please be more specific.",
			SuggestedNextSteps: []string{
				"Include a clear task title in your command",
				`Use phrases like "add a task to..."`,
			},
		}
	}

	task, err := p.store.Create(ctx, userID, title, description)
	if err != nil {
		return Result{
			Success:            false,
			OperationPerformed: "ADD",
			Message:            fmt.Sprintf("Error adding task: %v", err),
		}
	}

	message := fmt.Sprintf("Successfully added task: %q", task.Title)
	if task.Description != "" {
		message = fmt.Sprintf("Successfully added task: %q with description: %q", task.Title, task.Description)
	}

	return Result{
		Success:            true,
		OperationPerformed: "ADD",
		Message:            message,
		AffectedTask:       &task,
	}
}

// ---------------------------------------------------------------
// DELETE / UPDATE / COMPLETE
// ---------------------------------------------------------------

func (p *Processor) handleDelete(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) Result {
	target, err := p.resolveTarget(ctx, userID, parsed)
	if err != nil {
		return Result{Success: false, OperationPerformed: "DELETE", Message: fmt.Sprintf("Error deleting task: %v", err)}
	}
	if target == nil {
		return Result{
			Success:            false,
			OperationPerformed: "DELETE",
			Message:            "Could not find the task to delete. Could you be more specific?",
			SuggestedNextSteps: []string{"Mention the exact task title", "Specify which task you want to delete"},
		}
	}

	if _, err := p.store.Delete(ctx, userID, target.ID); err != nil {
		return Result{Success: false, OperationPerformed: "DELETE", Message: fmt.Sprintf("Error deleting task: %v", err)}
	}

	return Result{
		Success:            true,
		OperationPerformed: "DELETE",
		Message:            fmt.Sprintf("Successfully deleted task: %q", target.Title),
		AffectedTask:       target,
	}
}

func (p *Processor) handleUpdate(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) Result {
	target, err := p.resolveTarget(ctx, userID, parsed)
	if err != nil {
		return Result{Success: false, OperationPerformed: "UPDATE", Message: fmt.Sprintf("Error updating task: %v", err)}
	}
	if target == nil {
		return Result{
			Success:            false,
			OperationPerformed: "UPDATE",
			Message:            "Could not find the task to update. Could you be more specific?",
			SuggestedNextSteps: []string{"Mention the exact task title", "Specify which task you want to update"},
		}
	}

	// status changes recognizable from the raw text
	var newStatus *string
	rawLower := strings.ToLower(parsed.RawInput)
	if strings.Contains(rawLower, "complete") || strings.Contains(rawLower, "done") {
		s := tasks.StatusCompleted
		newStatus = &s
	} else if strings.Contains(rawLower, "pending") || strings.Contains(rawLower, "incomplete") {
		s := tasks.StatusPending
		newStatus = &s
	}

	updated, err := p.store.Update(ctx, userID, target.ID, tasks.Update{Status: newStatus})
	if err != nil {
		return Result{Success: false, OperationPerformed: "UPDATE", Message: fmt.Sprintf("Error updating task: %v", err)}
	}
	if updated == nil {
		// deleted between resolve and update
		return Result{
			Success:            false,
			OperationPerformed: "UPDATE",
			Message:            "Could not find the task to update. Could you be more specific?",
			SuggestedNextSteps: []string{"Mention the exact task title", "Specify which task you want to update"},
		}
	}

	message := fmt.Sprintf("Successfully updated task: %q", updated.Title)
	if newStatus != nil {
		message += fmt.Sprintf(" and marked as %s", *newStatus)
	}

	return Result{
		Success:            true,
		OperationPerformed: "UPDATE",
		Message:            message,
		AffectedTask:       updated,
	}
}

func (p *Processor) handleComplete(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) Result {
	target, err := p.resolveTarget(ctx, userID, parsed)
	if err != nil {
		return Result{Success: false, OperationPerformed: "COMPLETE", Message: fmt.Sprintf("Error completing task: %v", err)}
	}
	if target == nil {
		return Result{
			Success:            false,
			OperationPerformed: "COMPLETE",
			Message:            "Could not find the task to complete. Could you be more specific?",
			SuggestedNextSteps: []string{"Mention the exact task title", "Specify which task you want to complete"},
		}
	}

	completed := tasks.StatusCompleted
	updated, err := p.store.Update(ctx, userID, target.ID, tasks.Update{Status: &completed})
	if err != nil {
		return Result{Success: false, OperationPerformed: "COMPLETE", Message: fmt.Sprintf("Error completing task: %v", err)}
	}
	if updated == nil {
		return Result{
			Success:            false,
			OperationPerformed: "COMPLETE",
			Message:            "Could not find the task to complete. Could you be more specific?",
			SuggestedNextSteps: []string{"Mention the exact task title", "Specify which task you want to complete"},
		}
	}

	return Result{
		Success:            true,
		OperationPerformed: "COMPLETE",
		Message:            fmt.Sprintf("Successfully completed task: %q", updated.Title),
		AffectedTask:       updated,
	}
}

// ---------------------------------------------------------------
// LIST
// ---------------------------------------------------------------

func (p *Processor) handleList(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) Result {
	statusFilter := ""
	for _, e := range parsed.Entities {
		if e.Type == nlp.EntityFilterStatus {
			statusFilter = e.Value
			break
		}
	}

	list, err := p.store.List(ctx, userID, statusFilter)
	if err != nil {
		return Result{Success: false, OperationPerformed: "LIST", Message: fmt.Sprintf("Error listing tasks: %v", err)}
	}

	if len(list) == 0 {
		statusMsg := ""
		if statusFilter != "" {
			statusMsg = " " + strings.ToLower(statusFilter)
		}
		return Result{
			Success:            true,
			OperationPerformed: "LIST",
			Message:            fmt.Sprintf("You have no%s tasks.", statusMsg),
			TaskList:           []tasks.Task{},
		}
	}

	statusMsg := " all"
	if statusFilter != "" {
		statusMsg = " " + strings.ToLower(statusFilter)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Here are your%s tasks:", statusMsg)
	for _, t := range list {
		b.WriteString("\n• ")
		b.WriteString(t.Title)
	}

	return Result{
		Success:            true,
		OperationPerformed: "LIST",
		Message:            b.String(),
		TaskList:           list,
	}
}

// ---------------------------------------------------------------
// Target resolution
// ---------------------------------------------------------------

// resolveTarget finds the task a command refers to, trying in order: the
// parse-time context reference, task_identifier entities, then the raw
// input itself as a title substring. (nil, nil) means "no task found" —
// that is an expected outcome, not an error.
func (p *Processor) resolveTarget(ctx context.Context, userID uuid.UUID, parsed nlp.ParsedCommand) (*tasks.Task, error) {
	if parsed.ContextReference != nil {
		target, err := p.resolveReference(ctx, userID, parsed.ContextReference)
		if err != nil {
			return nil, err
		}
		if target != nil {
			return target, nil
		}
	}

	for _, e := range parsed.Entities {
		if e.Type != nlp.EntityTaskIdentifier {
			continue
		}
		target, err := p.findByIdentifier(ctx, userID, e.Value)
		if err != nil {
			return nil, err
		}
		if target != nil {
			return target, nil
		}
	}

	return p.findByIdentifier(ctx, userID, parsed.RawInput)
}

// findByIdentifier matches the identifier against task titles,
// case-insensitive substring; with several matches the most recently
// created task wins.
func (p *Processor) findByIdentifier(ctx context.Context, userID uuid.UUID, identifier string) (*tasks.Task, error) {
	matches, err := p.store.FindByTitleSubstring(ctx, userID, identifier)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// resolveReference resolves a parse-time locator against the live task set.
// Anaphora for "most recent" pick the newest task; positions index
// 1-based into the newest-first list. Out of range resolves to nil.
func (p *Processor) resolveReference(ctx context.Context, userID uuid.UUID, ref *nlp.TaskReference) (*tasks.Task, error) {
	switch ref.Kind {
	case nlp.RefContext:
		switch ref.Value {
		case "that one", "that", "that task", "that item",
			"the last one", "last task", "recent task", "previous task":
			list, err := p.store.List(ctx, userID, "")
			if err != nil {
				return nil, err
			}
			if len(list) == 0 {
				return nil, nil
			}
			return &list[0], nil
		}

	case nlp.RefPosition:
		pos, err := strconv.Atoi(ref.Value)
		if err != nil {
			pos = 1
		}
		list, err := p.store.List(ctx, userID, "")
		if err != nil {
			return nil, err
		}
		if pos >= 1 && pos <= len(list) {
			return &list[pos-1], nil
		}

	case nlp.RefExactID:
		taskID, err := uuid.Parse(ref.Value)
		if err != nil {
			return nil, nil
		}
		return p.store.GetByID(ctx, userID, taskID)
	}

	return nil, nil
}

// ---------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------

var titleStripRe = regexp.MustCompile(`(?i)\b(add|create|make|new|a|an|the|to|for|about)\b`)

// extractTitleFromRaw is the last-resort title derivation: strip command
// verbs and filler words from the raw input and use what remains.
func extractTitleFromRaw(rawInput string) string {
	text := titleStripRe.ReplaceAllString(strings.ToLower(rawInput), "")
	text = strings.Join(strings.Fields(text), " ")

	if len(text) > 3 {
		return nlp.Capitalize(strings.TrimSpace(text))
	}
	return ""
}

func nextSteps(operation string) []string {
	if steps, ok := suggestedNextSteps[operation]; ok {
		return steps
	}
	return []string{"You can manage your tasks using natural language"}
}
