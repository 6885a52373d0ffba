package main

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the categories of the current company",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their main category and question count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(_ context.Context, st *store.Store) error {
			snap := st.Snapshot()
			for _, c := range snap.Bank.Categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", snap.MainCategoryOf(c.Category), c.Category, len(c.Questions))
			}
			return nil
		})
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an empty category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, "Added category "+args[0], func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.AddCategory(args[0])
		})
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a category everywhere it is referenced",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, fmt.Sprintf("Renamed category %s to %s", args[0], args[1]), func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.RenameCategory(args[0], args[1])
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a category and all of its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, "Deleted category "+args[0], func(s bank.Snapshot) (bank.Snapshot, error) {
			if !s.HasCategory(args[0]) {
				return s, fmt.Errorf("category not found: %s", args[0])
			}
			return s.DeleteCategory(args[0]), nil
		})
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryRenameCmd, categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}
