package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-mcp-backend/internal/nlp"
	"todo-mcp-backend/internal/tasks"
)

// fakeStore is an in-memory TaskStore keeping tasks newest-first, the same
// ordering the SQL store produces.
type fakeStore struct {
	tasks []tasks.Task
	err   error
}

func (f *fakeStore) Create(ctx context.Context, userID uuid.UUID, title, description string) (tasks.Task, error) {
	if f.err != nil {
		return tasks.Task{}, f.err
	}
	now := time.Now()
	t := tasks.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      tasks.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks = append([]tasks.Task{t}, f.tasks...)
	return t, nil
}

func (f *fakeStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(ctx context.Context, userID uuid.UUID, status string) ([]tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []tasks.Task
	for _, t := range f.tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, userID, taskID uuid.UUID, upd tasks.Update) (*tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID != taskID {
			continue
		}
		if upd.Title != nil {
			f.tasks[i].Title = *upd.Title
		}
		if upd.Description != nil {
			f.tasks[i].Description = *upd.Description
		}
		if upd.Status != nil {
			f.tasks[i].Status = *upd.Status
			if *upd.Status == tasks.StatusCompleted {
				now := time.Now()
				f.tasks[i].CompletedAt = &now
			} else {
				f.tasks[i].CompletedAt = nil
			}
		}
		f.tasks[i].UpdatedAt = time.Now()
		t := f.tasks[i]
		return &t, nil
	}
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) FindByTitleSubstring(ctx context.Context, userID uuid.UUID, text string) ([]tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []tasks.Task
	for _, t := range f.tasks {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(text)) {
			out = append(out, t)
		}
	}
	return out, nil
}

// seed prepends a pending task so the slice stays newest-first in call order.
func (f *fakeStore) seed(title string) tasks.Task {
	t := tasks.Task{
		ID:        uuid.New(),
		UserID:    uuid.Nil,
		Title:     title,
		Status:    tasks.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.tasks = append([]tasks.Task{t}, f.tasks...)
	return t
}

func process(t *testing.T, store *fakeStore, input string) Result {
	t.Helper()
	p := NewProcessor(store)
	return p.Process(context.Background(), Command{
		RawInput:  input,
		UserID:    uuid.New(),
		Timestamp: time.Now(),
	})
}

func TestProcessAddCreatesPendingTask(t *testing.T) {
	store := &fakeStore{}

	res := process(t, store, "add a task to buy groceries")

	require.True(t, res.Success)
	assert.Equal(t, "ADD", res.OperationPerformed)
	assert.Equal(t, `Successfully added task: "Buy groceries"`, res.Message)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, "Buy groceries", res.AffectedTask.Title)
	assert.Equal(t, tasks.StatusPending, res.AffectedTask.Status)
	assert.Nil(t, res.AffectedTask.CompletedAt)
	require.NotNil(t, res.ParsedCommand)
	assert.Equal(t, nlp.IntentAdd, res.ParsedCommand.Intent)
	assert.NotEmpty(t, res.SuggestedNextSteps)
}

func TestProcessAddSpecializedTemplate(t *testing.T) {
	store := &fakeStore{}

	res := process(t, store, "add task name groceries and description them buy milk for tomorrow")

	require.True(t, res.Success)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, "Groceries", res.AffectedTask.Title)
	assert.Equal(t, "Buy milk for tomorrow", res.AffectedTask.Description)
	assert.InDelta(t, 0.98, res.ParsedCommand.Confidence, 1e-9)
	assert.Contains(t, res.Message, `with description:`)
}

func TestProcessAddTitleDescriptionSplit(t *testing.T) {
	store := &fakeStore{}

	res := process(t, store, "add a task to groceries - milk and eggs")

	require.True(t, res.Success)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, "Groceries", res.AffectedTask.Title)
	assert.Equal(t, "Milk and eggs", res.AffectedTask.Description)
}

func TestProcessCompleteNotFound(t *testing.T) {
	store := &fakeStore{}
	store.seed("Buy milk")

	res := process(t, store, "complete the meeting task")

	require.False(t, res.Success)
	assert.Equal(t, "COMPLETE", res.OperationPerformed)
	assert.Contains(t, res.Message, "Could not find the task to complete")
	assert.NotEmpty(t, res.SuggestedNextSteps)
}

func TestProcessCompleteByTitle(t *testing.T) {
	store := &fakeStore{}
	store.seed("Buy milk")

	res := process(t, store, "finish buy milk")

	require.True(t, res.Success)
	assert.Equal(t, "COMPLETE", res.OperationPerformed)
	assert.Equal(t, `Successfully completed task: "Buy milk"`, res.Message)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, tasks.StatusCompleted, res.AffectedTask.Status)
	assert.NotNil(t, res.AffectedTask.CompletedAt)
}

func TestProcessDeletePositionIsOneIndexed(t *testing.T) {
	store := &fakeStore{}
	store.seed("Alpha")
	store.seed("Bravo")
	store.seed("Charlie") // newest, position 1

	res := process(t, store, "delete the 2nd task")

	require.True(t, res.Success)
	assert.Equal(t, "DELETE", res.OperationPerformed)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, "Bravo", res.AffectedTask.Title)

	remaining, err := store.List(context.Background(), uuid.Nil, "")
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "Charlie", remaining[0].Title)
	assert.Equal(t, "Alpha", remaining[1].Title)
}

func TestResolveThatOneIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	store.seed("Alpha")
	store.seed("Bravo")
	newest := store.seed("Charlie")

	p := NewProcessor(store)
	ref := nlp.ParseContextReference("complete that one")
	require.NotNil(t, ref)

	first, err := p.resolveReference(context.Background(), uuid.Nil, ref)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := p.resolveReference(context.Background(), uuid.Nil, ref)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, newest.ID, first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestProcessListEmptyPending(t *testing.T) {
	store := &fakeStore{}
	done := store.seed("Old chore")
	completed := tasks.StatusCompleted
	_, err := store.Update(context.Background(), uuid.Nil, done.ID, tasks.Update{Status: &completed})
	require.NoError(t, err)

	res := process(t, store, "list my pending tasks")

	require.True(t, res.Success)
	assert.Equal(t, "LIST", res.OperationPerformed)
	assert.Equal(t, "You have no pending tasks.", res.Message)
	assert.NotNil(t, res.TaskList)
	assert.Empty(t, res.TaskList)
}

func TestProcessListAll(t *testing.T) {
	store := &fakeStore{}
	store.seed("Alpha")
	store.seed("Bravo")

	res := process(t, store, "show my tasks")

	require.True(t, res.Success)
	assert.Equal(t, "Here are your all tasks:\n• Bravo\n• Alpha", res.Message)
	require.Len(t, res.TaskList, 2)
}

func TestProcessUnknownIntentRejected(t *testing.T) {
	store := &fakeStore{}

	res := process(t, store, "it is raining today")

	require.False(t, res.Success)
	assert.Equal(t, "VALIDATION_ERROR", res.OperationPerformed)
	assert.Equal(t, "Could not understand the command intent. Please try rephrasing.", res.Message)
	assert.Len(t, res.SuggestedNextSteps, 2)
	require.NotNil(t, res.ParsedCommand)
	assert.Zero(t, res.ParsedCommand.Confidence)
}

func TestValidateConfidenceBoundary(t *testing.T) {
	at := nlp.ParsedCommand{Intent: nlp.IntentAdd, Confidence: 0.7}
	_, _, ok := validate(at)
	assert.True(t, ok, "confidence exactly at the floor must pass")

	below := nlp.ParsedCommand{Intent: nlp.IntentAdd, Confidence: 0.69}
	reason, suggestions, ok := validate(below)
	assert.False(t, ok)
	assert.Contains(t, reason, "confidence is low")
	assert.NotEmpty(t, suggestions)
}

func TestProcessStoreFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}

	res := process(t, store, "add a task to buy milk")

	require.False(t, res.Success)
	assert.Equal(t, "ADD", res.OperationPerformed)
	assert.Contains(t, res.Message, "Error adding task")
	assert.Contains(t, res.Message, "connection refused")
	assert.NotNil(t, res.TaskList)
	assert.NotEmpty(t, res.SuggestedNextSteps)
}

func TestProcessUpdateByTitle(t *testing.T) {
	store := &fakeStore{}
	store.seed("Buy milk")

	res := process(t, store, "update buy milk")

	require.True(t, res.Success)
	assert.Equal(t, "UPDATE", res.OperationPerformed)
	assert.Equal(t, `Successfully updated task: "Buy milk"`, res.Message)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, tasks.StatusPending, res.AffectedTask.Status)
}

func TestProcessUpdateThatOneMarksDone(t *testing.T) {
	store := &fakeStore{}
	store.seed("Alpha")
	store.seed("Bravo") // newest

	res := process(t, store, "update that one and mark it as done")

	require.True(t, res.Success)
	assert.Equal(t, "UPDATE", res.OperationPerformed)
	assert.Equal(t, `Successfully updated task: "Bravo" and marked as Completed`, res.Message)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, tasks.StatusCompleted, res.AffectedTask.Status)
	assert.NotNil(t, res.AffectedTask.CompletedAt)
}

func TestProcessDeleteThatOne(t *testing.T) {
	store := &fakeStore{}
	store.seed("Alpha")
	store.seed("Bravo") // newest

	res := process(t, store, "delete that one")

	require.True(t, res.Success)
	require.NotNil(t, res.AffectedTask)
	assert.Equal(t, "Bravo", res.AffectedTask.Title)

	remaining, err := store.List(context.Background(), uuid.Nil, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Alpha", remaining[0].Title)
}
