package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yukikurage/staffdesk/internal/config"
	"github.com/yukikurage/staffdesk/internal/database"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/repository"
	"github.com/yukikurage/staffdesk/internal/services"
)

// storeOpener opens the record store the commands work on.
type storeOpener func() (*repository.RecordStore, func() error, error)

func openRecordStore() (*repository.RecordStore, func() error, error) {
	kv, closeStore, err := database.OpenStore(config.Load())
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRecordStore(kv, nil), closeStore, nil
}

func newRootCmd(open storeOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "staffctl",
		Short:         "staffctl - maintenance tool for the staff task store",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(bootstrapCmd(open))
	rootCmd.AddCommand(resetCmd(open))
	rootCmd.AddCommand(tasksCmd(open))
	rootCmd.AddCommand(hashPasswordCmd())

	return rootCmd
}

func withStore(open storeOpener, fn func(*repository.RecordStore) error) error {
	store, closeStore, err := open()
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func bootstrapCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Seed employees and tasks if they were never stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(open, func(store *repository.RecordStore) error {
				if err := store.Bootstrap(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Store bootstrapped")
				return nil
			})
		},
	}
}

func resetCmd(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in seed data and sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("reset discards all stored data; rerun with --yes")
			}
			return withStore(open, func(store *repository.RecordStore) error {
				if err := store.Reset(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Store reset to seed data")
				return nil
			})
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
	return cmd
}

func tasksCmd(open storeOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List stored tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			status, _ := cmd.Flags().GetString("status")
			asJSON, _ := cmd.Flags().GetBool("json")

			return withStore(open, func(store *repository.RecordStore) error {
				svc := services.NewTaskService(store, store, nil, nil)
				input := services.ListTasksInput{Query: query}
				if status != "" {
					s := models.TaskStatus(status)
					if !s.Valid() {
						return services.ErrInvalidStatus
					}
					input.Status = &s
				}

				tasks, _, err := svc.ListTasks(input)
				if err != nil {
					return err
				}
				names, err := svc.AssigneeNames()
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(tasks)
				}
				return printTasks(cmd.OutOrStdout(), tasks, names)
			})
		},
	}
	cmd.Flags().StringP("query", "q", "", "Search title, description and assignee")
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	return cmd
}

func printTasks(out io.Writer, tasks []models.Task, names services.AssigneeDirectory) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tASSIGNEE\tDUE\tSTATUS\tPRIORITY")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, names.Name(t.AssignedTo), t.DueDate, t.Status, t.Priority)
	}
	return w.Flush()
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash usable as a credential password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := services.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}
}
