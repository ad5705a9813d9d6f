package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"todo-mcp-backend/internal/console"
)

var (
	storePath string
	flagDesc  string
)

func main() {
	root := &cobra.Command{
		Use:   "todocli",
		Short: "Offline todo list manager",
		Long:  "todocli manages a personal todo list stored in a local JSON file.",
	}
	root.PersistentFlags().StringVarP(&storePath, "file", "f", console.DefaultPath(), "path to the task file")

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollection(func(c *console.Collection) error {
				t, err := c.Add(joinArgs(args), flagDesc)
				if err != nil {
					return err
				}
				fmt.Printf("Added task #%d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}
	addCmd.Flags().StringVarP(&flagDesc, "description", "d", "", "task description")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCollection(func(c *console.Collection) error {
				printTasks(c)
				return nil
			})
		},
	}

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withCollection(func(c *console.Collection) error {
				t, err := c.Complete(id)
				if err != nil {
					return err
				}
				fmt.Printf("Completed task #%d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id> <title>",
		Short: "Update a task's title or description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withCollection(func(c *console.Collection) error {
				t, err := c.UpdateTitle(id, joinArgs(args[1:]), flagDesc)
				if err != nil {
					return err
				}
				fmt.Printf("Updated task #%d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}
	updateCmd.Flags().StringVarP(&flagDesc, "description", "d", "", "task description")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withCollection(func(c *console.Collection) error {
				if err := c.Delete(id); err != nil {
					return err
				}
				fmt.Printf("Deleted task #%d\n", id)
				return nil
			})
		},
	}

	root.AddCommand(addCmd, listCmd, doneCmd, updateCmd, deleteCmd)

	if err := root.Execute(); err != nil {
		log.SetFlags(0)
		log.Fatalf("error: %v", err)
	}
}

// withCollection loads the file, runs fn, and saves the file back if fn
// succeeded.
func withCollection(fn func(*console.Collection) error) error {
	c, err := console.Load(storePath)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return console.Save(storePath, c)
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func printTasks(c *console.Collection) {
	if len(c.Tasks) == 0 {
		fmt.Println("No tasks yet. Add one with: todocli add <title>")
		return
	}

	pending := c.Pending()
	completed := c.Completed()

	if len(pending) > 0 {
		fmt.Println("Pending:")
		for _, t := range pending {
			printTask(t)
		}
	}
	if len(completed) > 0 {
		fmt.Println("Completed:")
		for _, t := range completed {
			printTask(t)
		}
	}
	fmt.Printf("%d total, %d pending, %d completed\n", len(c.Tasks), len(pending), len(completed))
}

func printTask(t console.Task) {
	mark := " "
	if t.Status == console.StatusCompleted {
		mark = "x"
	}
	fmt.Printf("  [%s] #%d %s", mark, t.ID, t.Title)
	if t.Description != "" {
		fmt.Printf(" (%s)", t.Description)
	}
	fmt.Println()
}
