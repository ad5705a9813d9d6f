package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Load reads the collection from path. A missing file yields a fresh empty
// collection. A corrupted file is moved aside to <path>.backup so the user
// can recover it by hand, and a fresh collection is returned.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		backup := path + ".backup"
		if renameErr := os.Rename(path, backup); renameErr == nil {
			log.Printf("[WARN] %s is corrupted, moved to %s", path, backup)
		}
		return NewCollection(), nil
	}
	if c.NextID < 1 {
		c.NextID = 1
	}
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	return &c, nil
}

// Save writes the collection atomically: a temp file in the same directory
// followed by a rename, so a crash never leaves a half-written file.
func Save(path string, c *Collection) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".todo-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// DefaultPath resolves the storage file: $TODO_FILE wins, otherwise
// tasks.json under the user's home directory.
func DefaultPath() string {
	if p := os.Getenv("TODO_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tasks.json"
	}
	return filepath.Join(home, ".todo", "tasks.json")
}
