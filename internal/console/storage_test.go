package console

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.NextID)
	assert.Empty(t, c.Tasks)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	c := NewCollection()
	_, err := c.Add("Buy milk", "two liters")
	require.NoError(t, err)
	_, err = c.Add("Call mom", "")
	require.NoError(t, err)
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 2)
	assert.Equal(t, 3, loaded.NextID)
	assert.Equal(t, "Buy milk", loaded.Tasks[0].Title)
	assert.Equal(t, "two liters", loaded.Tasks[0].Description)
	assert.Equal(t, StatusPending, loaded.Tasks[0].Status)
}

func TestLoadCorruptedFileMovesBackupAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, c.Tasks)

	backup, err := os.ReadFile(path + ".backup")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAddValidation(t *testing.T) {
	c := NewCollection()

	_, err := c.Add("   ", "")
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	_, err = c.Add(string(long), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompleteAndDelete(t *testing.T) {
	c := NewCollection()
	task, err := c.Add("Buy milk", "")
	require.NoError(t, err)

	done, err := c.Complete(task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	require.NoError(t, c.Delete(task.ID))
	_, err = c.Get(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = c.Delete(99)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestIDsKeepIncrementingAfterDelete(t *testing.T) {
	c := NewCollection()
	first, err := c.Add("A", "")
	require.NoError(t, err)
	require.NoError(t, c.Delete(first.ID))

	second, err := c.Add("B", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}
