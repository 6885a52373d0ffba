package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/store"
	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Manage the main categories of the current company",
	Long: `Main categories group the bank's categories (subcategories). A company uses the
built-in taxonomy until its first edit, after which it keeps its own copy.`,
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(_ context.Context, st *store.Store) error {
			snap := st.Snapshot()
			tax := snap.EffectiveTaxonomy()
			if snap.Taxonomy == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "# built-in")
			}
			for _, main := range tax.Names() {
				subs, _ := tax.Subcategories(main)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", main, strings.Join(subs, ", "))
			}
			return nil
		})
	},
}

var taxonomyAddMainCmd = &cobra.Command{
	Use:   "add-main <name>",
	Short: "Add a main category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, "Added main category "+args[0], func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.AddMainCategory(args[0])
		})
	},
}

var taxonomyRenameMainCmd = &cobra.Command{
	Use:   "rename-main <old> <new>",
	Short: "Rename a main category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, fmt.Sprintf("Renamed main category %s to %s", args[0], args[1]), func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.EditMainCategory(args[0], args[1])
		})
	},
}

var taxonomyDeleteMainCmd = &cobra.Command{
	Use:   "delete-main <name>",
	Short: "Delete a main category; its categories fall back to the first main category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, "Deleted main category "+args[0], func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.DeleteMainCategory(args[0])
		})
	},
}

var taxonomyAddSubCmd = &cobra.Command{
	Use:   "add-sub <main> <name>",
	Short: "Add a subcategory under a main category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, fmt.Sprintf("Added %s under %s", args[1], args[0]), func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.AddSubCategory(args[0], args[1])
		})
	},
}

var taxonomyRenameSubCmd = &cobra.Command{
	Use:   "rename-sub <main> <old> <new>",
	Short: "Rename a subcategory and the bank category of the same name",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, fmt.Sprintf("Renamed %s to %s", args[1], args[2]), func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.EditSubCategory(args[0], args[1], args[2])
		})
	},
}

var taxonomyDeleteSubCmd = &cobra.Command{
	Use:   "delete-sub <main> <name>",
	Short: "Remove a subcategory from a main category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyBank(cmd, fmt.Sprintf("Removed %s from %s", args[1], args[0]), func(s bank.Snapshot) (bank.Snapshot, error) {
			return s.DeleteSubCategory(args[0], args[1]), nil
		})
	},
}

func init() {
	taxonomyCmd.AddCommand(taxonomyShowCmd, taxonomyAddMainCmd, taxonomyRenameMainCmd, taxonomyDeleteMainCmd,
		taxonomyAddSubCmd, taxonomyRenameSubCmd, taxonomyDeleteSubCmd)
	rootCmd.AddCommand(taxonomyCmd)
}
