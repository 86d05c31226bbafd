package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/chore"
	"github.com/dukerupert/cadence/internal/model"
)

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage one-off to-dos",
	}
	cmd.AddCommand(
		newTodoAddCmd(a),
		newTodoListCmd(a),
		newTodoSetCmd(a, "done", true),
		newTodoSetCmd(a, "undo", false),
		newTodoRmCmd(a),
	)
	return cmd
}

func newTodoAddCmd(a *app) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a one-off to-do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := dateFlag("due", due, a.today)
			if err != nil {
				return err
			}
			t, err := a.todos.Create(a.owner, strings.Join(args, " "), dueDate)
			if err != nil {
				return err
			}
			slog.Info("todo created", "todo_id", t.ID, "due", t.Due)

			if a.json {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (due %s)\n", t.ID, t.Title, t.Due)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (defaults to today)")
	return cmd
}

func newTodoListCmd(a *app) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one-off to-dos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var todos []model.Todo
			var err error
			if due != "" {
				d, derr := dateFlag("due", due, a.today)
				if derr != nil {
					return derr
				}
				todos, err = a.todos.ListDueOn(a.owner, d)
			} else {
				todos, err = a.todos.ListByOwner(a.owner)
			}
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), todos)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tTITLE\tDUE\tSTATUS")
			for _, t := range todos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Due, colorStatus(chore.TodoStatus(t, a.today)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "only list to-dos due on this date")
	return cmd
}

func newTodoSetCmd(a *app, verb string, done bool) *cobra.Command {
	short := "Mark a one-off to-do completed"
	if !done {
		short = "Mark a one-off to-do not completed"
	}
	return &cobra.Command{
		Use:   verb + " <todo-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.todos.SetCompleted(args[0], done)
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("todo %s not found", args[0])
			}
			slog.Info("todo updated", "todo_id", t.ID, "completed", t.Completed)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.ID, chore.TodoStatus(*t, a.today))
			return nil
		},
	}
}

func newTodoRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <todo-id>",
		Short: "Delete a one-off to-do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.todos.GetByID(args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("todo %s not found", args[0])
			}
			if err := a.todos.Delete(t.ID); err != nil {
				return err
			}
			slog.Info("todo deleted", "todo_id", t.ID)
			return nil
		},
	}
}
